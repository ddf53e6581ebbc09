package kernel

import (
	"strings"

	"mealmatch/internal/pkg/errs"
)

// maxZoneCodeLength bounds zone codes to keep them usable as index keys.
const maxZoneCodeLength = 32

// ErrZoneCodeIsRequired is returned when attempting to create a Zone with an empty code.
var ErrZoneCodeIsRequired = errs.NewValueIsRequiredError("zone code")

// Zone is a value object identifying a service zone of the platform.
// Orders are only matched to providers registered in the same zone.
//
// A Zone is identified by a short operator-assigned code such as "Z1" or
// "NORTH-2". Codes are compared case-insensitively and stored upper-cased.
//
// The zero value of Zone is invalid and must be constructed via NewZone.
//
// Example:
//
//	zone, err := kernel.NewZone("z1")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(zone.Code()) // "Z1"
type Zone struct {
	code string
}

// NewZone creates a Zone from an operator-assigned code.
// The code is trimmed and upper-cased; it must be non-empty and at most
// 32 characters long.
func NewZone(code string) (Zone, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Zone{}, ErrZoneCodeIsRequired
	}
	if len(code) > maxZoneCodeLength {
		return Zone{}, errs.NewValueIsOutOfRangeError("zone code length", len(code), 1, maxZoneCodeLength)
	}

	return Zone{code: code}, nil
}

// Code returns the normalized zone code.
func (z Zone) Code() string {
	return z.code
}

// String implements fmt.Stringer.
func (z Zone) String() string {
	return z.code
}

// IsEqual compares two zones by their normalized codes.
func (z Zone) IsEqual(other Zone) bool {
	return z.code == other.code
}

// Validate checks that the Zone was constructed via NewZone.
// The zero value fails validation because its code is empty.
func (z Zone) Validate() error {
	if z.code == "" {
		return ErrZoneCodeIsRequired
	}
	return nil
}

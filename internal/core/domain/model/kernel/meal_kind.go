package kernel

import (
	"fmt"
	"strings"

	"mealmatch/internal/pkg/errs"
)

// MealKind is a closed enumeration of the provider categories the platform
// supports. An order carries the kind it was placed for and is only ever
// matched to a provider of the same kind.
//
// MealKind is a value object; the zero value (UnknownKind) is invalid.
type MealKind int

const (
	// UnknownKind represents an invalid or undefined meal kind.
	// This value (0) helps catch uninitialized MealKind values.
	UnknownKind MealKind = iota

	// Vendor identifies restaurant and catering vendors.
	Vendor

	// Chef identifies independent home chefs.
	Chef
)

// getMealKindStrings returns a map of MealKind values to their string representations.
func getMealKindStrings() map[MealKind]string {
	return map[MealKind]string{
		UnknownKind: "unknown",
		Vendor:      "vendor",
		Chef:        "chef",
	}
}

// getValidMealKindStrings returns a map of only valid MealKind values.
func getValidMealKindStrings() map[MealKind]string {
	//nolint:exhaustive // UnknownKind is intentionally excluded as it's invalid
	return map[MealKind]string{
		Vendor: "vendor",
		Chef:   "chef",
	}
}

// MealKindFromString parses a meal kind from its wire representation
// ("vendor" or "chef", case-insensitive). Returns an error for any other value.
func MealKindFromString(s string) (MealKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vendor":
		return Vendor, nil
	case "chef":
		return Chef, nil
	default:
		return UnknownKind, errs.NewValueIsInvalidErrorWithCause(
			"meal kind is invalid",
			fmt.Errorf("%q is not a valid meal kind", s),
		)
	}
}

// Validate checks if the MealKind value is valid.
// Valid kinds are: Vendor, Chef. UnknownKind and any other values are invalid.
func (k MealKind) Validate() error {
	if _, ok := getValidMealKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"meal kind is invalid",
			fmt.Errorf("%d is not a valid meal kind", k),
		)
	}
	return nil
}

// String returns the wire representation of the meal kind.
// Returns "unknown" for invalid values. Implements fmt.Stringer.
func (k MealKind) String() string {
	if str, ok := getMealKindStrings()[k]; ok {
		return str
	}
	return "unknown"
}

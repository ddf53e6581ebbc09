package kernel

import (
	"fmt"
	"time"

	"mealmatch/internal/pkg/errs"
)

// Errors returned by DeliveryWindow construction and validation.
var (
	// ErrDeliveryWindowStartIsRequired is returned when the window start is the zero time.
	ErrDeliveryWindowStartIsRequired = errs.NewValueIsRequiredError("delivery window start")
	// ErrDeliveryWindowEndIsRequired is returned when the window end is the zero time.
	ErrDeliveryWindowEndIsRequired = errs.NewValueIsRequiredError("delivery window end")
)

// DeliveryWindow is a value object describing the interval a meal order was
// requested to be delivered in. The window is half-open: [Start, End).
//
// The zero value is invalid and must be constructed via NewDeliveryWindow.
//
// Example:
//
//	window, err := kernel.NewDeliveryWindow(
//	    time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
//	    time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
//	)
//	if err != nil {
//	    // handle error
//	}
type DeliveryWindow struct {
	start time.Time
	end   time.Time
}

// NewDeliveryWindow creates a DeliveryWindow from start and end instants.
// Both must be non-zero and end must be strictly after start.
func NewDeliveryWindow(start, end time.Time) (DeliveryWindow, error) {
	if start.IsZero() {
		return DeliveryWindow{}, ErrDeliveryWindowStartIsRequired
	}
	if end.IsZero() {
		return DeliveryWindow{}, ErrDeliveryWindowEndIsRequired
	}
	if !end.After(start) {
		return DeliveryWindow{}, errs.NewValueIsInvalidErrorWithCause(
			"delivery window is invalid",
			fmt.Errorf("end %s is not after start %s", end.Format(time.RFC3339), start.Format(time.RFC3339)),
		)
	}

	return DeliveryWindow{start: start.UTC(), end: end.UTC()}, nil
}

// Start returns the inclusive beginning of the window in UTC.
func (w DeliveryWindow) Start() time.Time {
	return w.start
}

// End returns the exclusive end of the window in UTC.
func (w DeliveryWindow) End() time.Time {
	return w.end
}

// Duration returns the length of the window.
func (w DeliveryWindow) Duration() time.Duration {
	return w.end.Sub(w.start)
}

// Contains reports whether the given instant falls inside the window.
func (w DeliveryWindow) Contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

// Validate checks that the DeliveryWindow was constructed via NewDeliveryWindow.
func (w DeliveryWindow) Validate() error {
	if w.start.IsZero() || w.end.IsZero() {
		return errs.NewValueIsRequiredError("delivery window")
	}
	return nil
}

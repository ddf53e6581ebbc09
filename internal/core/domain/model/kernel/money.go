package kernel

import (
	"fmt"

	"mealmatch/internal/pkg/errs"
)

// Money is a value object representing a monetary amount in minor currency
// units (cents). It is used for order totals, which are finalized at checkout
// and never recalculated by this service.
//
// The zero value is invalid; order totals must be positive.
type Money struct {
	cents int64
}

// NewMoney creates a Money value from an amount in cents.
// The amount must be positive.
func NewMoney(cents int64) (Money, error) {
	if cents <= 0 {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount is invalid",
			fmt.Errorf("%d is not greater than 0", cents),
		)
	}
	return Money{cents: cents}, nil
}

// Cents returns the amount in minor currency units.
func (m Money) Cents() int64 {
	return m.cents
}

// String formats the amount as a decimal value, e.g. "12.50".
// Implements fmt.Stringer.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

// IsEqual compares two monetary amounts.
func (m Money) IsEqual(other Money) bool {
	return m.cents == other.cents
}

// Validate checks that the Money value was constructed via NewMoney.
func (m Money) Validate() error {
	if m.cents <= 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"amount is invalid",
			fmt.Errorf("%d is not greater than 0", m.cents),
		)
	}
	return nil
}

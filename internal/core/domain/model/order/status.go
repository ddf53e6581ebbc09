package order

import (
	"fmt"

	"mealmatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a meal order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct business workflow.
//
// State transitions:
//
//	Unassigned ──┬──> Assigned ──> Confirmed ──> Completed
//	     │       │       │  │          │
//	     │       └───────┘  │          │
//	     │  (reassignment)  │          │
//	     └──────────────────┴──────────┴──> Cancelled
//
// Completed and Cancelled are final states with no further transitions.
//
// Status is a value object that validates state transitions and provides
// string representations for persistence and display.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Unassigned is the initial status when an order enters the system after
	// checkout. Orders in this status form the intake queue and are waiting
	// to be matched with a provider.
	Unassigned

	// Assigned indicates the order has been matched to a provider and a
	// capacity slot is reserved. Orders can be reassigned while in this status.
	Assigned

	// Confirmed indicates the assigned provider has accepted the order.
	Confirmed

	// Completed indicates the order has been delivered.
	// This is a final state with no further transitions allowed.
	Completed

	// Cancelled indicates the order was cancelled by the user or an operator
	// before completion. This is a final state; any capacity held for the
	// order is released on entry.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Unassigned: "Unassigned",
		Assigned:   "Assigned",
		Confirmed:  "Confirmed",
		Completed:  "Completed",
		Cancelled:  "Cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Unassigned: "Unassigned",
		Assigned:   "Assigned",
		Confirmed:  "Confirmed",
		Completed:  "Completed",
		Cancelled:  "Cancelled",
	}
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Unassigned, Assigned, Confirmed, Completed, Cancelled.
// Unknown (0) and any other values are invalid.
//
// This method is used to ensure Status values from external sources
// (e.g., database, API) are valid before use.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Returns "Unknown" for invalid status values.
// Implements the fmt.Stringer interface and is safe to call on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// ValidateAssign checks if the status allows assignment without performing
// the transition.
//
// Valid statuses for assignment:
//   - Unassigned (initial match)
//   - Assigned (reassignment to a different provider)
//
// This method provides assignability validation without side effects,
// useful for pre-validation before the matching engine runs.
func (s Status) ValidateAssign() error {
	if s != Unassigned && s != Assigned {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to assign", s.String()),
		)
	}
	return nil
}

// ValidateCanHaveProvider validates the consistency between order status and
// provider assignment.
//
// Business rules:
//   - Unassigned orders must not reference a provider
//   - Assigned, Confirmed, and Completed orders must reference a provider
//   - Cancelled orders may reference a provider (cancelled after assignment)
//     or not (cancelled while pending)
//
// Parameters:
//   - hasProvider: whether the order references a provider
func (s Status) ValidateCanHaveProvider(hasProvider bool) error {
	if hasProvider && s == Unassigned {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a provider", s.String()),
		)
	}

	if !hasProvider && (s == Assigned || s == Confirmed || s == Completed) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no provider", s.String()),
		)
	}

	return nil
}

// Assign transitions the status to Assigned.
//
// Valid transitions:
//   - Unassigned -> Assigned (initial match)
//   - Assigned -> Assigned (reassignment to a different provider)
//
// Returns (0, error) if the transition is not allowed from the current status.
func (s Status) Assign() (Status, error) {
	if err := s.ValidateAssign(); err != nil {
		return 0, err
	}

	return Assigned, nil
}

// Confirm transitions the status to Confirmed.
//
// Valid transitions:
//   - Assigned -> Confirmed (provider accepted the order)
//
// Returns (0, error) if the transition is not allowed from the current status.
func (s Status) Confirm() (Status, error) {
	if s != Assigned {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to confirm", s.String()),
		)
	}

	return Confirmed, nil
}

// Complete transitions the status to Completed.
//
// Valid transitions:
//   - Confirmed -> Completed (order delivered)
//
// Completed is a final state with no further transitions possible.
// Returns (0, error) if the transition is not allowed from the current status.
func (s Status) Complete() (Status, error) {
	if s != Confirmed {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to complete", s.String()),
		)
	}

	return Completed, nil
}

// Cancel transitions the status to Cancelled.
//
// Valid transitions:
//   - Unassigned -> Cancelled
//   - Assigned -> Cancelled
//   - Confirmed -> Cancelled
//
// Completed orders cannot be cancelled. Cancelled is a final state.
// Returns (0, error) if the transition is not allowed from the current status.
func (s Status) Cancel() (Status, error) {
	if s != Unassigned && s != Assigned && s != Confirmed {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s.String()),
		)
	}

	return Cancelled, nil
}

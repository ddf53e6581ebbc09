package assignment

import (
	"errors"
	"time"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/pkg/errs"
	"mealmatch/internal/pkg/guard"
)

// Domain errors for assignment operations.
var (
	// ErrAssignmentIsNotConstructed is returned when using an improperly initialized Assignment.
	ErrAssignmentIsNotConstructed = errors.New("Assignment must be created via NewAssignment constructor")
	// ErrAssignmentAlreadyVoided is returned when voiding an assignment that was already superseded.
	ErrAssignmentAlreadyVoided = errors.New("assignment is already voided")
)

// Assignment is the ledger entity linking one order to one provider.
// It records a matching decision: which provider was chosen for which order,
// when, and why.
//
// Assignments are append-only. A decision is never mutated after the fact;
// when an order is reassigned, the old assignment is marked void (superseded)
// and a new one is created. At most one assignment per order is active at any
// time; the repositories enforce this by construction, since every path that
// creates an assignment first voids the active one in the same transaction.
//
// The entity is owned by the matching engine and references order and
// provider by identifier only, never by embedding.
type Assignment struct {
	// id uniquely identifies the assignment record
	id kernel.UUID
	// orderID references the assigned order
	orderID kernel.UUID
	// providerID references the provider the order was matched to
	providerID kernel.UUID
	// createdAt is the instant the matching decision was recorded
	createdAt time.Time
	// rationale is an optional human-readable note on why this provider won
	rationale string
	// voided marks the assignment as superseded by a later decision
	voided bool
	// voidedAt is the instant the assignment was superseded (nil while active)
	voidedAt *time.Time
	// guard ensures the assignment was properly constructed
	guard guard.ConstructorGuard
}

// NewAssignment records a fresh matching decision linking an order to a
// provider. The assignment starts active with the current UTC timestamp.
//
// Parameters:
//   - id: Unique identifier for the assignment record
//   - orderID: The assigned order
//   - providerID: The provider the order was matched to
//   - rationale: Optional note on why this provider was chosen (may be empty)
func NewAssignment(id, orderID, providerID kernel.UUID, rationale string) (*Assignment, error) {
	a := &Assignment{
		createdAt: time.Now().UTC(),
		rationale: rationale,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setProviderID(providerID),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// RestoreAssignment reconstructs an Assignment from persistent storage,
// including its void state.
func RestoreAssignment(
	id, orderID, providerID kernel.UUID,
	createdAt time.Time,
	rationale string,
	voided bool,
	voidedAt *time.Time,
) (*Assignment, error) {
	a := &Assignment{
		rationale: rationale,
		voided:    voided,
		voidedAt:  voidedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setProviderID(providerID),
		a.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return a, nil
}

// Validate checks if the Assignment was properly constructed using a factory
// function. The zero value of Assignment is invalid.
func (a *Assignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

// IsEqual compares two assignments by their unique identifiers.
func (a *Assignment) IsEqual(other *Assignment) bool {
	return other != nil && a.id.IsEqual(other.id)
}

// ID returns the unique identifier of the assignment record.
func (a *Assignment) ID() kernel.UUID {
	return a.id
}

// OrderID returns the identifier of the assigned order.
func (a *Assignment) OrderID() kernel.UUID {
	return a.orderID
}

// ProviderID returns the identifier of the matched provider.
func (a *Assignment) ProviderID() kernel.UUID {
	return a.providerID
}

// CreatedAt returns the instant the matching decision was recorded.
func (a *Assignment) CreatedAt() time.Time {
	return a.createdAt
}

// Rationale returns the optional note on why this provider was chosen.
func (a *Assignment) Rationale() string {
	return a.rationale
}

// IsActive reports whether the assignment is the current decision for its
// order, i.e. it has not been superseded.
func (a *Assignment) IsActive() bool {
	return !a.voided
}

// VoidedAt returns the instant the assignment was superseded.
// Returns nil while the assignment is active.
func (a *Assignment) VoidedAt() *time.Time {
	return a.voidedAt
}

// Void marks the assignment as superseded by a later decision.
// The record is never deleted; it stays in the ledger for audit.
// Voiding an already-voided assignment returns ErrAssignmentAlreadyVoided.
func (a *Assignment) Void() error {
	if a.voided {
		return ErrAssignmentAlreadyVoided
	}

	now := time.Now().UTC()
	a.voided = true
	a.voidedAt = &now
	return nil
}

// setID sets the assignment identifier with validation.
func (a *Assignment) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

// setOrderID sets the order reference with validation.
func (a *Assignment) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	a.orderID = orderID
	return nil
}

// setProviderID sets the provider reference with validation.
func (a *Assignment) setProviderID(providerID kernel.UUID) error {
	if err := providerID.Validate(); err != nil {
		return err
	}
	a.providerID = providerID
	return nil
}

// setCreatedAt sets the decision timestamp during restoration.
func (a *Assignment) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	a.createdAt = createdAt.UTC()
	return nil
}

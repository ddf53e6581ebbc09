package order

import (
	"errors"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory functions. This ensures all
// orders are properly validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// ErrStatusConflict is returned by guarded repository updates when the stored
// status no longer matches the status the caller read. Another transaction
// moved the order first; the caller's snapshot is stale.
var ErrStatusConflict = errors.New("order status changed concurrently")

// Order represents a finalized meal order awaiting or undergoing fulfillment.
// It is the aggregate root that manages the order lifecycle from intake
// through provider assignment to completion.
//
// Order follows these invariants:
//   - Must have valid unique order and user identifiers
//   - Must have a valid meal kind, service zone, delivery window, and positive total
//   - Status transitions follow the state machine defined by Status
//   - A provider reference is present exactly when the status requires one
//   - Can only be created through NewOrder or RestoreOrder
//
// Orders are created after checkout and payment; this service never mutates
// the order's zone, kind, window, or total. Only the matching engine and the
// operator lifecycle commands change its status and provider reference.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// userID references the consumer the order was placed by
	userID kernel.UUID

	// providerID is the assigned provider's ID (nil while unassigned)
	providerID *kernel.UUID

	// kind is the meal kind preference the order was placed for
	kind kernel.MealKind

	// zone is the service zone the order must be fulfilled in
	zone kernel.Zone

	// window is the requested delivery window
	window kernel.DeliveryWindow

	// total is the monetary total finalized at checkout
	total kernel.Money

	// status represents the current state in the order lifecycle
	status Status

	// guard ensures the order was created via a constructor
	guard guard.ConstructorGuard
}

// NewOrder creates a new Order instance with validation. This is the way
// finalized orders enter the system after checkout; the order starts in
// Unassigned status with no provider reference.
//
// Parameters:
//   - id: Unique identifier for the order
//   - userID: Identifier of the consumer who placed the order
//   - kind: Meal kind preference (vendor or chef)
//   - zone: Service zone the order must be fulfilled in
//   - window: Requested delivery window
//   - total: Monetary total finalized at checkout
//
// Returns the created order, or a validation error if any parameter is
// invalid (aggregated errors for multiple issues).
func NewOrder(
	id kernel.UUID,
	userID kernel.UUID,
	kind kernel.MealKind,
	zone kernel.Zone,
	window kernel.DeliveryWindow,
	total kernel.Money,
) (*Order, error) {
	order := &Order{
		status: Unassigned,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		order.setID(id),
		order.setUserID(userID),
		order.setKind(kind),
		order.setZone(zone),
		order.setWindow(window),
		order.setTotal(total),
	); err != nil {
		return nil, err
	}

	return order, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage.
// Unlike NewOrder, which creates fresh orders in Unassigned status, this
// constructor restores an order to its previously persisted state including
// status and provider reference.
//
// In addition to the field validations of NewOrder, restoration checks the
// consistency between status and provider reference: an Unassigned order must
// not reference a provider, and Assigned/Confirmed/Completed orders must.
func RestoreOrder(
	id kernel.UUID,
	userID kernel.UUID,
	kind kernel.MealKind,
	zone kernel.Zone,
	window kernel.DeliveryWindow,
	total kernel.Money,
	status Status,
	providerID *kernel.UUID,
) (*Order, error) {
	order := &Order{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		order.setID(id),
		order.setUserID(userID),
		order.setKind(kind),
		order.setZone(zone),
		order.setWindow(window),
		order.setTotal(total),
		order.setStatus(status),
		order.setProviderID(providerID),
	); err != nil {
		return nil, err
	}

	if err := order.status.ValidateCanHaveProvider(order.providerID != nil); err != nil {
		return nil, err
	}

	return order, nil
}

// Validate ensures the Order instance was properly constructed through a
// factory function. This prevents bypassing validation by directly
// instantiating the struct.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// IsEqual compares two orders by their unique identifiers.
// Orders are considered equal if they have the same ID.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// UserID returns the identifier of the consumer who placed the order.
func (o *Order) UserID() kernel.UUID {
	return o.userID
}

// Kind returns the meal kind preference of the order.
func (o *Order) Kind() kernel.MealKind {
	return o.kind
}

// Zone returns the service zone the order must be fulfilled in.
func (o *Order) Zone() kernel.Zone {
	return o.zone
}

// Window returns the requested delivery window.
func (o *Order) Window() kernel.DeliveryWindow {
	return o.window
}

// Total returns the monetary total finalized at checkout.
func (o *Order) Total() kernel.Money {
	return o.total
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// Provider returns the assigned provider's ID.
// Returns nil if no provider is assigned.
func (o *Order) Provider() *kernel.UUID {
	return o.providerID
}

// IsAssignedTo reports whether the order is currently assigned to the given
// provider.
func (o *Order) IsAssignedTo(providerID kernel.UUID) bool {
	return o.providerID != nil && o.providerID.IsEqual(providerID)
}

// Assign assigns the order to a provider and updates the status to Assigned.
//
// Business rules:
//   - The provider ID must be valid
//   - The order must be in Unassigned or Assigned status
//   - Reassignment is allowed (from Assigned to Assigned)
//
// The capacity reservation against the provider is made separately by the
// provider registry; Assign only records the decision on the order.
func (o *Order) Assign(providerID kernel.UUID) error {
	if err := providerID.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.providerID = &providerID
	return nil
}

// Confirm marks the order as accepted by its assigned provider.
// The order must be in Assigned status.
func (o *Order) Confirm() error {
	newStatus, err := o.status.Confirm()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Complete marks the order as delivered.
// The order must be in Confirmed status. Completed is a final state;
// the provider's capacity slot is released by the caller on this transition.
func (o *Order) Complete() error {
	newStatus, err := o.status.Complete()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Cancel marks the order as cancelled.
// Valid from Unassigned, Assigned, or Confirmed status. The provider
// reference, if any, is kept for audit; the capacity slot is released by the
// caller on this transition.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Unassign clears the provider reference and returns the order to Unassigned
// status. Used by reassignment when the previous assignment is voided before
// a new match is attempted.
func (o *Order) Unassign() error {
	if err := o.status.ValidateAssign(); err != nil {
		return err
	}

	o.status = Unassigned
	o.providerID = nil
	return nil
}

// setID validates and sets the order's unique identifier.
// This is a private method used only during construction.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setUserID validates and sets the consumer reference.
// This is a private method used only during construction.
func (o *Order) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	o.userID = userID
	return nil
}

// setKind validates and sets the meal kind preference.
// This is a private method used only during construction.
func (o *Order) setKind(kind kernel.MealKind) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	o.kind = kind
	return nil
}

// setZone validates and sets the service zone.
// This is a private method used only during construction.
func (o *Order) setZone(zone kernel.Zone) error {
	if err := zone.Validate(); err != nil {
		return err
	}
	o.zone = zone
	return nil
}

// setWindow validates and sets the delivery window.
// This is a private method used only during construction.
func (o *Order) setWindow(window kernel.DeliveryWindow) error {
	if err := window.Validate(); err != nil {
		return err
	}
	o.window = window
	return nil
}

// setTotal validates and sets the monetary total.
// This is a private method used only during construction.
func (o *Order) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}
	o.total = total
	return nil
}

// setStatus validates and sets the lifecycle status.
// Used only during restoration from persistence.
func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

// setProviderID validates and sets the provider reference.
// Used only during restoration from persistence.
func (o *Order) setProviderID(providerID *kernel.UUID) error {
	if providerID != nil {
		if err := providerID.Validate(); err != nil {
			return err
		}
	}
	o.providerID = providerID
	return nil
}

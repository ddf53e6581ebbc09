// Package events defines the notification events the assignment engine emits
// for external consumers. Events are published fire-and-forget after the
// owning transaction commits; they are not part of the assignment decision.
package events

import (
	"mealmatch/internal/core/domain/model/kernel"
)

// Event names as they appear on the wire.
const (
	OrderAssignedName  = "OrderAssigned"
	OrderUnmatchedName = "OrderUnmatched"
)

// Event is implemented by all notification events.
type Event interface {
	// Name returns the wire name of the event.
	Name() string
}

// OrderAssigned is emitted when an order has been matched to a provider and
// the assignment committed.
type OrderAssigned struct {
	OrderID    kernel.UUID
	ProviderID kernel.UUID
}

// Name implements Event.
func (OrderAssigned) Name() string {
	return OrderAssignedName
}

// OrderUnmatched is emitted when a matching attempt found no eligible
// provider. The order stays queued and visible in the operator pending queue.
type OrderUnmatched struct {
	OrderID kernel.UUID
	Reason  string
}

// Name implements Event.
func (OrderUnmatched) Name() string {
	return OrderUnmatchedName
}

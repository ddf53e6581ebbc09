package ports

import (
	"context"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The intake queue of the assignment engine is simply the set of orders in
// Unassigned status; there is no separate in-process queue structure.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// UpdateFrom persists changes to an existing order aggregate only if its
	// stored status still matches the status the caller read. This is the
	// serialization point for concurrent status transitions on one order:
	// two writers that both read the same status cannot both move it.
	// Returns order.ErrStatusConflict when the stored status has moved.
	UpdateFrom(ctx context.Context, aggregate *order.Order, from order.Status) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with its current status and provider reference.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetFirstUnassigned retrieves the oldest order in Unassigned status.
	// Used by the assignment sweep to drain the intake queue in arrival order.
	GetFirstUnassigned(ctx context.Context) (*order.Order, error)
}

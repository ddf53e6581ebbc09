package ports

import (
	"context"

	"mealmatch/internal/core/domain/model/assignment"
	"mealmatch/internal/core/domain/model/kernel"
)

// AssignmentRepository defines the persistence contract for the assignment
// ledger. The ledger is append-only: records are added and later voided via
// Update, never deleted, preserving the decision history for audit.
type AssignmentRepository interface {
	// Add appends a new assignment record to the ledger.
	Add(ctx context.Context, aggregate *assignment.Assignment) error

	// Update persists changes to an existing assignment record.
	// The only mutation the domain permits is voiding.
	Update(ctx context.Context, aggregate *assignment.Assignment) error

	// GetActiveByOrderID retrieves the single active (non-voided) assignment
	// for the given order, or a not-found error if the order has none.
	// At most one assignment per order is active at any time.
	GetActiveByOrderID(ctx context.Context, orderID kernel.UUID) (*assignment.Assignment, error)
}

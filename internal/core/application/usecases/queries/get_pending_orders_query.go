package queries

import (
	"errors"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/pkg/guard"
)

var ErrGetPendingOrdersQueryIsNotConstructed = errors.New(
	"GetPendingOrdersQuery must be created via NewGetPendingOrdersQuery constructor",
)

// GetPendingOrdersQuery retrieves all orders still waiting for a provider.
// Backs the operator pending queue: orders that the automatic sweep has not
// been able to match yet, oldest first.
//
// Example:
//
//	query := NewGetPendingOrdersQuery()
//	handler := NewGetPendingOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get pending orders: %w", err)
//	}
//
//	fmt.Printf("%d orders awaiting assignment\n", len(orders))
type GetPendingOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPendingOrdersQuery creates a query to retrieve unassigned orders.
// This is a parameterless query that fetches the whole pending queue.
func NewGetPendingOrdersQuery() GetPendingOrdersQuery {
	return GetPendingOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetPendingOrdersQueryIsNotConstructed if validation fails.
func (q GetPendingOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingOrdersQueryIsNotConstructed)
}

// GetPendingOrdersQueryResponse represents one queued order as shown in the
// operator pending queue.
type GetPendingOrdersQueryResponse struct {
	ID     kernel.UUID
	UserID kernel.UUID
	Kind   kernel.MealKind
	Zone   kernel.Zone
	Window kernel.DeliveryWindow
	Total  kernel.Money
}

package queries

import (
	"errors"
	"time"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/pkg/guard"
)

var ErrGetOrderAssignmentQueryIsNotConstructed = errors.New(
	"GetOrderAssignmentQuery must be created via NewGetOrderAssignmentQuery constructor",
)

// GetOrderAssignmentQuery retrieves the active assignment for one order:
// which provider the order is matched to, when the decision was made, and the
// rationale recorded by the matcher.
type GetOrderAssignmentQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderAssignmentQuery creates a query for the given order's active assignment.
func NewGetOrderAssignmentQuery(orderID kernel.UUID) (GetOrderAssignmentQuery, error) {
	query := GetOrderAssignmentQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := query.setOrderID(orderID); err != nil {
		return GetOrderAssignmentQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetOrderAssignmentQueryIsNotConstructed if validation fails.
func (q GetOrderAssignmentQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderAssignmentQueryIsNotConstructed)
}

// OrderID returns the order whose assignment is requested.
func (q GetOrderAssignmentQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q *GetOrderAssignmentQuery) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	q.orderID = orderID
	return nil
}

// GetOrderAssignmentQueryResponse represents the active matching decision for
// an order, including the matched provider's display name.
type GetOrderAssignmentQueryResponse struct {
	ID           kernel.UUID
	OrderID      kernel.UUID
	ProviderID   kernel.UUID
	ProviderName string
	CreatedAt    time.Time
	Rationale    string
}

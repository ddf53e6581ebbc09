package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderAssignmentQueryHandler retrieves the active assignment for an order
// from the ledger, joined with the provider registry for the display name.
type GetOrderAssignmentQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderAssignmentQueryHandler creates a handler for assignment lookups.
// Requires a GORM database connection for query execution.
func NewGetOrderAssignmentQueryHandler(db *gorm.DB) GetOrderAssignmentQueryHandler {
	return GetOrderAssignmentQueryHandler{db: db}
}

// Handle executes the query to retrieve the order's active assignment.
// Returns an errs.ObjectNotFoundError when the order has no active
// assignment, which callers map to a 404.
func (h GetOrderAssignmentQueryHandler) Handle(
	ctx context.Context,
	query GetOrderAssignmentQuery,
) (GetOrderAssignmentQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderAssignmentQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			a.id,
			a.order_id,
			a.provider_id,
			p.name,
			a.created_at,
			a.rationale
		FROM assignments a
		JOIN providers p ON p.id = a.provider_id
		WHERE a.order_id = ? AND a.voided = false
	`, query.OrderID().Bytes()).Row()

	var id, orderID, providerID uuid.UUID
	var providerName, rationale string
	var createdAt time.Time

	err := row.Scan(&id, &orderID, &providerID, &providerName, &createdAt, &rationale)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderAssignmentQueryResponse{},
			errs.NewObjectNotFoundError("orderID", query.OrderID())
	}
	if err != nil {
		return GetOrderAssignmentQueryResponse{}, err
	}

	assignmentID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderAssignmentQueryResponse{}, err
	}

	respOrderID, err := kernel.UUIDFromBytes(orderID[:])
	if err != nil {
		return GetOrderAssignmentQueryResponse{}, err
	}

	respProviderID, err := kernel.UUIDFromBytes(providerID[:])
	if err != nil {
		return GetOrderAssignmentQueryResponse{}, err
	}

	return GetOrderAssignmentQueryResponse{
		ID:           assignmentID,
		OrderID:      respOrderID,
		ProviderID:   respProviderID,
		ProviderName: providerName,
		CreatedAt:    createdAt,
		Rationale:    rationale,
	}, nil
}

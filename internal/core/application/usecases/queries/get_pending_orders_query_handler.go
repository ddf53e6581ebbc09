package queries

import (
	"context"
	"time"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPendingOrdersQueryHandler retrieves unassigned orders from the database.
// Uses direct SQL for read performance in the CQRS pattern; read models never
// go through the aggregate repositories.
type GetPendingOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingOrdersQueryHandler creates a handler for pending order queries.
// Requires a GORM database connection for query execution.
func NewGetPendingOrdersQueryHandler(db *gorm.DB) GetPendingOrdersQueryHandler {
	return GetPendingOrdersQueryHandler{db: db}
}

// Handle executes the query to retrieve all unassigned orders.
// Results are sorted by creation time so the oldest waiting order is first,
// matching the order in which the sweep drains the queue.
func (h GetPendingOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetPendingOrdersQuery,
) ([]GetPendingOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetPendingOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			user_id,
			kind,
			zone,
			window_start,
			window_end,
			total_cents
		FROM orders
		WHERE status = ?
		ORDER BY created_at
	`, order.Unassigned).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, userID uuid.UUID
		var kind int
		var zone string
		var windowStart, windowEnd time.Time
		var totalCents int64

		err = rows.Scan(
			&id,
			&userID,
			&kind,
			&zone,
			&windowStart,
			&windowEnd,
			&totalCents,
		)
		if err != nil {
			return nil, err
		}

		resp, respErr := pendingOrderResponse(id, userID, kind, zone, windowStart, windowEnd, totalCents)
		if respErr != nil {
			return nil, respErr
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// pendingOrderResponse converts raw row values into domain-typed read models.
func pendingOrderResponse(
	id, userID uuid.UUID,
	kind int,
	zone string,
	windowStart, windowEnd time.Time,
	totalCents int64,
) (GetPendingOrdersQueryResponse, error) {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetPendingOrdersQueryResponse{}, err
	}

	orderUserID, err := kernel.UUIDFromBytes(userID[:])
	if err != nil {
		return GetPendingOrdersQueryResponse{}, err
	}

	orderZone, err := kernel.NewZone(zone)
	if err != nil {
		return GetPendingOrdersQueryResponse{}, err
	}

	window, err := kernel.NewDeliveryWindow(windowStart, windowEnd)
	if err != nil {
		return GetPendingOrdersQueryResponse{}, err
	}

	total, err := kernel.NewMoney(totalCents)
	if err != nil {
		return GetPendingOrdersQueryResponse{}, err
	}

	return GetPendingOrdersQueryResponse{
		ID:     orderID,
		UserID: orderUserID,
		Kind:   kernel.MealKind(kind),
		Zone:   orderZone,
		Window: window,
		Total:  total,
	}, nil
}

// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, including the intake-queue lookup used by the assignment sweep.
package orderrepo

import (
	"time"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The created_at column orders the intake queue; it is set once on insert and
// never rewritten.
type OrderDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	ProviderID  *uuid.UUID `gorm:"type:uuid;index"`
	Kind        int        `gorm:"type:int;not null"`
	Zone        string     `gorm:"type:varchar(32);not null;index"`
	WindowStart time.Time  `gorm:"type:timestamptz;not null"`
	WindowEnd   time.Time  `gorm:"type:timestamptz;not null"`
	TotalCents  int64      `gorm:"type:bigint;not null"`
	Status      int        `gorm:"type:int;not null;index"`
	CreatedAt   time.Time  `gorm:"type:timestamptz;autoCreateTime"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders" instead of "order_dtos".
func (OrderDTO) TableName() string {
	return "orders"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(o *order.Order) OrderDTO {
	var providerID *uuid.UUID
	if o.Provider() != nil {
		raw := o.Provider().Bytes()
		providerID = &raw
	}

	return OrderDTO{
		ID:          o.ID().Bytes(),
		UserID:      o.UserID().Bytes(),
		ProviderID:  providerID,
		Kind:        int(o.Kind()),
		Zone:        o.Zone().Code(),
		WindowStart: o.Window().Start(),
		WindowEnd:   o.Window().End(),
		TotalCents:  o.Total().Cents(),
		Status:      int(o.Status()),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	var providerID *kernel.UUID
	if dto.ProviderID != nil {
		pID, pErr := kernel.UUIDFromBytes((*dto.ProviderID)[:])
		if pErr != nil {
			return nil, pErr
		}
		providerID = &pID
	}

	zone, err := kernel.NewZone(dto.Zone)
	if err != nil {
		return nil, err
	}

	window, err := kernel.NewDeliveryWindow(dto.WindowStart, dto.WindowEnd)
	if err != nil {
		return nil, err
	}

	total, err := kernel.NewMoney(dto.TotalCents)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(
		id,
		userID,
		kernel.MealKind(dto.Kind),
		zone,
		window,
		total,
		order.Status(dto.Status),
		providerID,
	)
}

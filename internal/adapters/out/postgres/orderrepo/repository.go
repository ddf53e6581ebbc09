package orderrepo

import (
	"context"
	"errors"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/order"
	"mealmatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database.
// The created_at column is omitted so the intake-queue position never moves.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Omit("created_at").Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateFrom saves an existing order only if its stored status still matches
// the status the caller read.
//
// The row predicate is the serialization point for concurrent status
// transitions on one order: two transactions that both read Unassigned cannot
// both move it to Assigned, so at most one assignment wins and the ledger
// keeps a single active record per order. A zero row count with an existing
// order means the status moved concurrently.
func (r *GormOrderRepository) UpdateFrom(ctx context.Context, aggregate *order.Order, from order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := from.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(from)).
		Select("user_id", "provider_id", "kind", "zone", "window_start", "window_end", "total_cents", "status").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.classifyStatusConflict(ctx, aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// classifyStatusConflict distinguishes a failed guarded update on a missing
// order from one on an existing order whose status predicate failed.
func (r *GormOrderRepository) classifyStatusConflict(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}

	return order.ErrStatusConflict
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetFirstUnassigned retrieves the oldest order still waiting for a provider.
// Used by the assignment sweep to drain the intake queue in arrival order.
func (r *GormOrderRepository) GetFirstUnassigned(ctx context.Context) (*order.Order, error) {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).
		Where("status = ?", int(order.Unassigned)).
		Order("created_at ASC").
		First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", "unassigned")
		}
		return nil, err
	}

	return toDomain(dto)
}

package providerrepo

import (
	"context"
	"errors"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/provider"
	"mealmatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormProviderRepository implements ProviderRepository using GORM.
type GormProviderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormProviderRepository creates a new GORM provider repository.
func NewGormProviderRepository(db *gorm.DB, tracker aggregateTracker) *GormProviderRepository {
	return &GormProviderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new provider to the database.
func (r *GormProviderRepository) Add(ctx context.Context, aggregate *provider.Provider) error {
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

// Update saves an existing provider to the database.
//
// The load counter is deliberately omitted from the save: only the Reserve
// and Release queries write current_load, so a stale aggregate snapshot can
// never overwrite reservations made concurrently.
func (r *GormProviderRepository) Update(ctx context.Context, aggregate *provider.Provider) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)

	result := r.db.WithContext(ctx).Omit("current_load").Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a provider by ID.
func (r *GormProviderRepository) Get(ctx context.Context, id kernel.UUID) (*provider.Provider, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ProviderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("provider", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAll retrieves all registered providers sorted by name.
func (r *GormProviderRepository) GetAll(ctx context.Context) ([]*provider.Provider, error) {
	var dtos []ProviderDTO
	if err := r.db.WithContext(ctx).Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	providers := make([]*provider.Provider, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	return providers, nil
}

// FindEligible retrieves the candidate providers for a zone and meal kind:
// available, with a free capacity slot, best rated first and least loaded on
// ties. The snapshot is advisory; callers must still reserve through Reserve.
func (r *GormProviderRepository) FindEligible(
	ctx context.Context,
	zone kernel.Zone,
	kind kernel.MealKind,
) ([]*provider.Provider, error) {
	if err := zone.Validate(); err != nil {
		return nil, err
	}
	if err := kind.Validate(); err != nil {
		return nil, err
	}

	var dtos []ProviderDTO
	if err := r.db.WithContext(ctx).
		Where("zone = ? AND kind = ? AND available AND current_load < max_capacity", zone.Code(), int(kind)).
		Order("rating DESC, current_load::float / max_capacity ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	providers := make([]*provider.Provider, 0, len(dtos))
	for _, dto := range dtos {
		p, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	return providers, nil
}

// Reserve atomically takes one capacity slot on the provider.
//
// The conditional UPDATE is the serialization point for concurrent
// assignments against one provider: the row predicate re-checks free capacity
// at write time, so two transactions racing for the last slot cannot both
// succeed. A zero row count with an existing provider means the slot was lost
// to a concurrent reservation.
func (r *GormProviderRepository) Reserve(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ProviderDTO{}).
		Where("id = ? AND current_load < max_capacity", id.Bytes()).
		UpdateColumn("current_load", gorm.Expr("current_load + 1"))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.classifyConflict(ctx, id, provider.ErrCapacityExceeded)
	}

	return nil
}

// Release atomically frees one capacity slot on the provider.
// The predicate keeps the stored load from going below zero; releasing an
// idle provider reports ErrLoadUnderflow for the caller to log.
func (r *GormProviderRepository) Release(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ProviderDTO{}).
		Where("id = ? AND current_load > 0", id.Bytes()).
		UpdateColumn("current_load", gorm.Expr("current_load - 1"))
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.classifyConflict(ctx, id, provider.ErrLoadUnderflow)
	}

	return nil
}

// classifyConflict distinguishes a failed conditional update on a missing
// provider from one on an existing provider whose load predicate failed.
func (r *GormProviderRepository) classifyConflict(ctx context.Context, id kernel.UUID, loadErr error) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ProviderDTO{}).
		Where("id = ?", id.Bytes()).
		Count(&count).Error; err != nil {
		return err
	}

	if count == 0 {
		return errs.NewObjectNotFoundError("provider", id.String())
	}

	return loadErr
}

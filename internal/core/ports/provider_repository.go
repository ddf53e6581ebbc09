// Package ports defines the persistence and messaging contracts between the
// domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/provider"
)

// ProviderRepository defines the persistence contract for provider aggregates:
// the provider registry of the assignment engine.
//
// Reserve and Release are the serialization point of the whole engine: all
// concurrent assignment activity against one provider funnels through them,
// and implementations must make them atomic (a conditional UPDATE in SQL, a
// mutex in the in-memory store). Nothing else in the system takes locks
// across providers, so assignments to different providers proceed fully in
// parallel.
type ProviderRepository interface {
	// Add persists a new provider aggregate to storage.
	// The provider must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *provider.Provider) error

	// Update persists changes to an existing provider aggregate.
	// Update never writes the load counter; only Reserve and Release touch it.
	Update(ctx context.Context, aggregate *provider.Provider) error

	// Get retrieves a provider aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*provider.Provider, error)

	// GetAll retrieves all registered providers.
	GetAll(ctx context.Context) ([]*provider.Provider, error)

	// FindEligible retrieves the providers a matching attempt should consider
	// for the given zone and meal kind: available providers of that zone and
	// kind with at least one free capacity slot, ordered by rating descending
	// and load ratio ascending.
	//
	// The returned snapshot may race with concurrent reservations; callers
	// must treat it as advisory and reserve through Reserve.
	FindEligible(ctx context.Context, zone kernel.Zone, kind kernel.MealKind) ([]*provider.Provider, error)

	// Reserve atomically takes one capacity slot on the provider.
	// Returns provider.ErrCapacityExceeded when the provider is already at
	// maximum capacity; it never clamps or over-reserves, even under
	// concurrent attempts against the same provider.
	Reserve(ctx context.Context, id kernel.UUID) error

	// Release atomically frees one capacity slot on the provider.
	// The stored load never goes below zero; releasing an idle provider
	// returns provider.ErrLoadUnderflow so the caller can log the logic
	// error, while the stored value stays clamped at zero.
	Release(ctx context.Context, id kernel.UUID) error
}

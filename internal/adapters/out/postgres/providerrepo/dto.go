// Package providerrepo provides data transfer objects and mapping functions
// for provider persistence. It implements the repository pattern for the
// provider aggregate, including the atomic capacity reservation queries the
// assignment workflow depends on.
package providerrepo

import (
	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/provider"

	"github.com/google/uuid"
)

// ProviderDTO represents the database structure for persisting provider
// aggregates. The current_load column is the single source of truth for held
// capacity slots; it is written only by the reservation queries, never by
// aggregate saves.
type ProviderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Kind        int       `gorm:"type:int;not null"`
	Zone        string    `gorm:"type:varchar(32);not null;index"`
	Rating      float64   `gorm:"type:numeric(3,1);not null"`
	Specialties []string  `gorm:"type:jsonb;serializer:json"`
	CurrentLoad int       `gorm:"type:int;not null;default:0"`
	MaxCapacity int       `gorm:"type:int;not null"`
	Available   bool      `gorm:"type:boolean;not null"`
}

// TableName specifies the database table name for provider entities.
// Overrides GORM's default naming convention to use "providers" instead of "provider_dtos".
func (ProviderDTO) TableName() string {
	return "providers"
}

// fromDomain converts a provider domain aggregate to its database representation.
func fromDomain(p *provider.Provider) ProviderDTO {
	return ProviderDTO{
		ID:          p.ID().Bytes(),
		Name:        p.Name(),
		Kind:        int(p.Kind()),
		Zone:        p.Zone().Code(),
		Rating:      p.Rating(),
		Specialties: p.Specialties(),
		CurrentLoad: p.CurrentLoad(),
		MaxCapacity: p.MaxCapacity(),
		Available:   p.IsAvailable(),
	}
}

// toDomain converts a database DTO to a provider domain aggregate.
// Reconstructs the complete aggregate using RestoreProvider.
func toDomain(dto ProviderDTO) (*provider.Provider, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	zone, err := kernel.NewZone(dto.Zone)
	if err != nil {
		return nil, err
	}

	return provider.RestoreProvider(
		id,
		dto.Name,
		kernel.MealKind(dto.Kind),
		zone,
		dto.Rating,
		dto.Specialties,
		dto.CurrentLoad,
		dto.MaxCapacity,
		dto.Available,
	)
}

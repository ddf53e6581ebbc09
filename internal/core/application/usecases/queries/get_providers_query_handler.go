package queries

import (
	"context"
	"encoding/json"

	"mealmatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetProvidersQueryHandler retrieves all provider information from the
// database. Uses direct SQL queries for read performance in the CQRS pattern.
type GetProvidersQueryHandler struct {
	db *gorm.DB
}

// NewGetProvidersQueryHandler creates a handler for provider registry queries.
// Requires a GORM database connection for query execution.
func NewGetProvidersQueryHandler(db *gorm.DB) GetProvidersQueryHandler {
	return GetProvidersQueryHandler{db: db}
}

// Handle executes the query to retrieve all registered providers.
// Returns a slice of provider read models sorted by name.
func (h GetProvidersQueryHandler) Handle(
	ctx context.Context,
	query GetProvidersQuery,
) ([]GetProvidersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	providers := make([]GetProvidersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			kind,
			zone,
			rating,
			specialties,
			current_load,
			max_capacity,
			available
		FROM providers
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p GetProvidersQueryResponse
		var id uuid.UUID
		var kind int
		var zone string
		var specialties []byte

		err = rows.Scan(
			&id,
			&p.Name,
			&kind,
			&zone,
			&p.Rating,
			&specialties,
			&p.CurrentLoad,
			&p.MaxCapacity,
			&p.Available,
		)
		if err != nil {
			return nil, err
		}

		providerID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		p.ID = providerID
		p.Kind = kernel.MealKind(kind)

		providerZone, zoneErr := kernel.NewZone(zone)
		if zoneErr != nil {
			return nil, zoneErr
		}
		p.Zone = providerZone

		// Specialties are stored as a JSON array column.
		p.Specialties = make([]string, 0)
		if len(specialties) > 0 {
			if err = json.Unmarshal(specialties, &p.Specialties); err != nil {
				return nil, err
			}
		}

		providers = append(providers, p)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return providers, nil
}

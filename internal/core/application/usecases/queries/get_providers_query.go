package queries

import (
	"errors"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/pkg/guard"
)

var ErrGetProvidersQueryIsNotConstructed = errors.New(
	"GetProvidersQuery must be created via NewGetProvidersQuery constructor",
)

// GetProvidersQuery retrieves the provider registry with live load figures.
// Backs the operator dashboard showing each provider's utilization.
type GetProvidersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetProvidersQuery creates a query to retrieve all registered providers.
func NewGetProvidersQuery() GetProvidersQuery {
	return GetProvidersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetProvidersQueryIsNotConstructed if validation fails.
func (q GetProvidersQuery) Validate() error {
	return q.guard.Validate(ErrGetProvidersQueryIsNotConstructed)
}

// GetProvidersQueryResponse represents one provider row on the dashboard.
type GetProvidersQueryResponse struct {
	ID          kernel.UUID
	Name        string
	Kind        kernel.MealKind
	Zone        kernel.Zone
	Rating      float64
	Specialties []string
	CurrentLoad int
	MaxCapacity int
	Available   bool
}

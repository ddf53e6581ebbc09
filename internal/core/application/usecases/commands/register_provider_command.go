package commands

import (
	"errors"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/pkg/guard"
)

var ErrRegisterProviderCommandIsNotConstructed = errors.New(
	"RegisterProviderCommand must be created via NewRegisterProviderCommand constructor",
)

// RegisterProviderCommand represents a request to register a new meal
// provider (restaurant vendor or home chef) in a service zone. Newly
// registered providers start available with zero load and immediately become
// candidates for matching.
type RegisterProviderCommand struct { //nolint:recvcheck //using for validation
	providerID  kernel.UUID
	name        string
	kind        kernel.MealKind
	zone        kernel.Zone
	rating      float64
	maxCapacity int
	specialties []string

	guard guard.ConstructorGuard
}

// NewRegisterProviderCommand creates a command to register a provider.
// Field-level rules (name required, rating range, positive capacity) are
// enforced by the Provider aggregate in the handler; the command only
// validates its identifiers and enums.
func NewRegisterProviderCommand(
	providerID kernel.UUID,
	name string,
	kind kernel.MealKind,
	zone kernel.Zone,
	rating float64,
	maxCapacity int,
	specialties []string,
) (RegisterProviderCommand, error) {
	cmd := RegisterProviderCommand{
		name:        name,
		rating:      rating,
		maxCapacity: maxCapacity,
		specialties: specialties,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setProviderID(providerID),
		cmd.setKind(kind),
		cmd.setZone(zone),
	); err != nil {
		return RegisterProviderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRegisterProviderCommandIsNotConstructed if validation fails.
func (c RegisterProviderCommand) Validate() error {
	return c.guard.Validate(ErrRegisterProviderCommandIsNotConstructed)
}

// ProviderID returns the unique identifier for the provider.
func (c RegisterProviderCommand) ProviderID() kernel.UUID {
	return c.providerID
}

// Name returns the human-readable provider name.
func (c RegisterProviderCommand) Name() string {
	return c.name
}

// Kind returns the provider category (vendor or chef).
func (c RegisterProviderCommand) Kind() kernel.MealKind {
	return c.kind
}

// Zone returns the service zone the provider delivers in.
func (c RegisterProviderCommand) Zone() kernel.Zone {
	return c.zone
}

// Rating returns the initial performance score.
func (c RegisterProviderCommand) Rating() float64 {
	return c.rating
}

// MaxCapacity returns the number of concurrent orders the provider can serve.
func (c RegisterProviderCommand) MaxCapacity() int {
	return c.maxCapacity
}

// Specialties returns the cuisine tags the provider advertises.
func (c RegisterProviderCommand) Specialties() []string {
	return c.specialties
}

func (c *RegisterProviderCommand) setProviderID(providerID kernel.UUID) error {
	if err := providerID.Validate(); err != nil {
		return err
	}

	c.providerID = providerID
	return nil
}

func (c *RegisterProviderCommand) setKind(kind kernel.MealKind) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	c.kind = kind
	return nil
}

func (c *RegisterProviderCommand) setZone(zone kernel.Zone) error {
	if err := zone.Validate(); err != nil {
		return err
	}

	c.zone = zone
	return nil
}

package commands

import (
	"errors"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/pkg/guard"
)

var ErrSetProviderAvailabilityCommandIsNotConstructed = errors.New(
	"SetProviderAvailabilityCommand must be created via NewSetProviderAvailabilityCommand constructor",
)

// SetProviderAvailabilityCommand flips a provider's availability flag.
// Availability only gates new matches: flipping it to false leaves held
// reservations and in-flight orders untouched; they complete normally.
type SetProviderAvailabilityCommand struct { //nolint:recvcheck //using for validation
	providerID kernel.UUID
	available  bool

	guard guard.ConstructorGuard
}

// NewSetProviderAvailabilityCommand creates a command to set provider availability.
func NewSetProviderAvailabilityCommand(providerID kernel.UUID, available bool) (SetProviderAvailabilityCommand, error) {
	cmd := SetProviderAvailabilityCommand{
		available: available,
		guard:     guard.NewConstructorGuard(),
	}

	if err := cmd.setProviderID(providerID); err != nil {
		return SetProviderAvailabilityCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSetProviderAvailabilityCommandIsNotConstructed if validation fails.
func (c SetProviderAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetProviderAvailabilityCommandIsNotConstructed)
}

// ProviderID returns the provider to update.
func (c SetProviderAvailabilityCommand) ProviderID() kernel.UUID {
	return c.providerID
}

// Available returns the desired availability state.
func (c SetProviderAvailabilityCommand) Available() bool {
	return c.available
}

func (c *SetProviderAvailabilityCommand) setProviderID(providerID kernel.UUID) error {
	if err := providerID.Validate(); err != nil {
		return err
	}

	c.providerID = providerID
	return nil
}

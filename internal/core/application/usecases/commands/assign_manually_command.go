package commands

import (
	"errors"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/pkg/guard"
)

var ErrAssignManuallyCommandIsNotConstructed = errors.New(
	"AssignManuallyCommand must be created via NewAssignManuallyCommand constructor",
)

// AssignManuallyCommand represents an operator override: assign a specific
// order to a specific provider, bypassing the ranking policy. The chosen
// provider must still be eligible (matching zone and kind, available, with
// free capacity).
type AssignManuallyCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	providerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignManuallyCommand creates a manual assignment command.
func NewAssignManuallyCommand(orderID, providerID kernel.UUID) (AssignManuallyCommand, error) {
	cmd := AssignManuallyCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setProviderID(providerID),
	); err != nil {
		return AssignManuallyCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAssignManuallyCommandIsNotConstructed if validation fails.
func (c AssignManuallyCommand) Validate() error {
	return c.guard.Validate(ErrAssignManuallyCommandIsNotConstructed)
}

// OrderID returns the order to assign.
func (c AssignManuallyCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ProviderID returns the provider chosen by the operator.
func (c AssignManuallyCommand) ProviderID() kernel.UUID {
	return c.providerID
}

func (c *AssignManuallyCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignManuallyCommand) setProviderID(providerID kernel.UUID) error {
	if err := providerID.Validate(); err != nil {
		return err
	}

	c.providerID = providerID
	return nil
}

package commands

import (
	"errors"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/pkg/guard"
)

var ErrReassignOrderCommandIsNotConstructed = errors.New(
	"ReassignOrderCommand must be created via NewReassignOrderCommand constructor",
)

// ReassignOrderCommand represents a request to move an assigned order to a
// different provider, typically because the current one is unresponsive. The
// current provider is excluded from the candidate pool.
type ReassignOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReassignOrderCommand creates a reassignment command for the given order.
func NewReassignOrderCommand(orderID kernel.UUID) (ReassignOrderCommand, error) {
	cmd := ReassignOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return ReassignOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrReassignOrderCommandIsNotConstructed if validation fails.
func (c ReassignOrderCommand) Validate() error {
	return c.guard.Validate(ErrReassignOrderCommandIsNotConstructed)
}

// OrderID returns the order to reassign.
func (c ReassignOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *ReassignOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

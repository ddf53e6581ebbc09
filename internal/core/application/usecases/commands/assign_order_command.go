package commands

import (
	"errors"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand represents a request to match an order to a provider.
//
// The command comes in two flavors. The sweep flavor (NewAssignOrderCommand)
// carries no target and lets the handler pick the oldest unassigned order
// from the intake queue. The targeted flavor (NewAssignOrderCommandForOrder)
// names a specific order, as issued by an operator from the pending queue.
type AssignOrderCommand struct { //nolint:recvcheck //using for validation
	orderID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignOrderCommand creates an untargeted assignment command.
// The handler selects the oldest unassigned order.
func NewAssignOrderCommand() (AssignOrderCommand, error) {
	return AssignOrderCommand{
		guard: guard.NewConstructorGuard(),
	}, nil
}

// NewAssignOrderCommandForOrder creates an assignment command targeting a
// specific order.
func NewAssignOrderCommandForOrder(orderID kernel.UUID) (AssignOrderCommand, error) {
	cmd := AssignOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setOrderID(orderID); err != nil {
		return AssignOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through a constructor.
// Returns ErrAssignOrderCommandIsNotConstructed if validation fails.
func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}

// HasTarget reports whether the command names a specific order.
func (c AssignOrderCommand) HasTarget() bool {
	return c.orderID != nil
}

// OrderID returns the targeted order's identifier.
// Only meaningful when HasTarget reports true.
func (c AssignOrderCommand) OrderID() kernel.UUID {
	if c.orderID == nil {
		return kernel.UUID{}
	}
	return *c.orderID
}

func (c *AssignOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = &orderID
	return nil
}

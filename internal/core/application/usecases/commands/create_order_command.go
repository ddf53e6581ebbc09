package commands

import (
	"errors"

	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a finalized, paid meal order entering the
// assignment engine. Payment and validation of the shopping flow happened
// upstream; this command only carries the facts the engine needs to match
// a provider.
//
// Example:
//
//	window, _ := kernel.NewDeliveryWindow(start, end)
//	total, _ := kernel.NewMoney(2450)
//	cmd, err := NewCreateOrderCommand(orderID, userID, kernel.Vendor, zone, window, total)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	userID  kernel.UUID
	kind    kernel.MealKind
	zone    kernel.Zone
	window  kernel.DeliveryWindow
	total   kernel.Money

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new meal order.
// All value objects must already be valid; aggregated validation errors are
// returned otherwise.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	userID kernel.UUID,
	kind kernel.MealKind,
	zone kernel.Zone,
	window kernel.DeliveryWindow,
	total kernel.Money,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setUserID(userID),
		cmd.setKind(kind),
		cmd.setZone(zone),
		cmd.setWindow(window),
		cmd.setTotal(total),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// UserID returns the identifier of the consumer who placed the order.
func (c CreateOrderCommand) UserID() kernel.UUID {
	return c.userID
}

// Kind returns the meal kind preference of the order.
func (c CreateOrderCommand) Kind() kernel.MealKind {
	return c.kind
}

// Zone returns the service zone the order must be fulfilled in.
func (c CreateOrderCommand) Zone() kernel.Zone {
	return c.zone
}

// Window returns the requested delivery window.
func (c CreateOrderCommand) Window() kernel.DeliveryWindow {
	return c.window
}

// Total returns the monetary total finalized at checkout.
func (c CreateOrderCommand) Total() kernel.Money {
	return c.total
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

func (c *CreateOrderCommand) setKind(kind kernel.MealKind) error {
	if err := kind.Validate(); err != nil {
		return err
	}

	c.kind = kind
	return nil
}

func (c *CreateOrderCommand) setZone(zone kernel.Zone) error {
	if err := zone.Validate(); err != nil {
		return err
	}

	c.zone = zone
	return nil
}

func (c *CreateOrderCommand) setWindow(window kernel.DeliveryWindow) error {
	if err := window.Validate(); err != nil {
		return err
	}

	c.window = window
	return nil
}

func (c *CreateOrderCommand) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}

	c.total = total
	return nil
}

package commands

import (
	"context"
)

// CancelOrderCommandHandler handles order cancellation.
//
// Cancelling an order that holds a capacity slot releases the slot and voids
// the active assignment in the same transaction; the voided assignment and
// the order's provider reference are kept for audit.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory UoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command.
// Cancellation from a final status fails with the status machine's error.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = o.Cancel(); err != nil {
		return err
	}

	// Cancel keeps the provider reference for audit, so the slot held for
	// the order can still be found and released here.
	if err = supersedeActiveAssignment(ctx, uow, o.ID(), o.Provider()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

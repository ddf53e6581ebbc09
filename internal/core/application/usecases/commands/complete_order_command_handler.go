package commands

import (
	"context"
	"errors"
	"log/slog"

	"mealmatch/internal/core/domain/model/provider"
)

// CompleteOrderCommandHandler marks an order as delivered and frees the
// provider's capacity slot. The assignment record is deliberately left
// active: it documents which provider ultimately fulfilled the order.
type CompleteOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewCompleteOrderCommandHandler creates a handler for order completion.
func NewCompleteOrderCommandHandler(uowFactory UoWFactory) CompleteOrderCommandHandler {
	return CompleteOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the completion command.
// The order must be in Confirmed status.
func (h *CompleteOrderCommandHandler) Handle(ctx context.Context, cmd CompleteOrderCommand) error {
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

	if err = o.Complete(); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	if providerID := o.Provider(); providerID != nil {
		if err = uow.ProviderRepository().Release(ctx, *providerID); err != nil {
			if !errors.Is(err, provider.ErrLoadUnderflow) {
				return err
			}
			slog.Warn("released provider with zero load",
				"provider_id", providerID.String(),
				"order_id", o.ID().String(),
			)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

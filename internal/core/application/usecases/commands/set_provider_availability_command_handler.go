package commands

import (
	"context"
)

// SetProviderAvailabilityCommandHandler handles availability changes.
// Flipping availability to false removes the provider from future candidate
// lists; reservations held for in-flight orders are deliberately left alone.
type SetProviderAvailabilityCommandHandler struct {
	uowFactory ProviderUoWFactory
}

// NewSetProviderAvailabilityCommandHandler creates a handler for provider
// availability changes. Requires a ProviderUoWFactory for transactional persistence.
func NewSetProviderAvailabilityCommandHandler(uowFactory ProviderUoWFactory) SetProviderAvailabilityCommandHandler {
	return SetProviderAvailabilityCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the availability change command.
func (h *SetProviderAvailabilityCommandHandler) Handle(ctx context.Context, cmd SetProviderAvailabilityCommand) error {
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

	providerRepo := uow.ProviderRepository()
	p, err := providerRepo.Get(ctx, cmd.ProviderID())
	if err != nil {
		return err
	}

	p.SetAvailability(cmd.Available())

	if err = providerRepo.Update(ctx, p); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

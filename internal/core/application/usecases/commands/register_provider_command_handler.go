package commands

import (
	"context"

	"mealmatch/internal/core/domain/model/provider"
)

// RegisterProviderCommandHandler handles provider registration.
// Builds the Provider aggregate (which enforces name, rating, and capacity
// rules) and persists it transactionally.
type RegisterProviderCommandHandler struct {
	uowFactory ProviderUoWFactory
}

// NewRegisterProviderCommandHandler creates a handler for provider
// registration. Requires a ProviderUoWFactory for transactional persistence.
func NewRegisterProviderCommandHandler(uowFactory ProviderUoWFactory) RegisterProviderCommandHandler {
	return RegisterProviderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the provider registration command.
func (h *RegisterProviderCommandHandler) Handle(ctx context.Context, cmd RegisterProviderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	p, err := provider.NewProvider(
		cmd.ProviderID(),
		cmd.Name(),
		cmd.Kind(),
		cmd.Zone(),
		cmd.Rating(),
		cmd.MaxCapacity(),
	)
	if err != nil {
		return err
	}

	for _, specialty := range cmd.Specialties() {
		if err = p.AddSpecialty(specialty); err != nil {
			return err
		}
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ProviderRepository().Add(ctx, p); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

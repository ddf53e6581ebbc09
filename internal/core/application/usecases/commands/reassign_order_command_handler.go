package commands

import (
	"context"
	"errors"

	"mealmatch/internal/core/domain/events"
	"mealmatch/internal/core/domain/model/assignment"
	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/order"
	"mealmatch/internal/core/domain/model/provider"
	"mealmatch/internal/core/domain/services"
	"mealmatch/internal/core/ports"
)

// ErrOrderIsNotAssigned is returned when reassignment is requested for an
// order that has no current provider to move away from.
var ErrOrderIsNotAssigned = errors.New("order is not assigned")

// ReassignOrderCommandHandler moves an assigned order to a different
// provider. The current provider is excluded from the candidate pool, the new
// slot is reserved before the old assignment is voided, and the old
// provider's slot is released in the same transaction, keeping the net load
// across providers correct.
//
// If no alternative provider can be matched or reserved, the existing
// assignment stays intact and ErrNoEligibleProviderFound is returned.
type ReassignOrderCommandHandler struct {
	uowFactory UoWFactory
	matcher    services.ProviderMatcher
	publisher  ports.EventPublisher
}

// NewReassignOrderCommandHandler creates a handler for the reassignment workflow.
func NewReassignOrderCommandHandler(
	uowFactory UoWFactory,
	matcher services.ProviderMatcher,
	publisher ports.EventPublisher,
) ReassignOrderCommandHandler {
	return ReassignOrderCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher,
		publisher:  publisher,
	}
}

// Handle processes the reassignment command.
func (h *ReassignOrderCommandHandler) Handle(ctx context.Context, cmd ReassignOrderCommand) error {
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

	previous := o.Provider()
	if previous == nil {
		return ErrOrderIsNotAssigned
	}

	providers, err := uow.ProviderRepository().FindEligible(ctx, o.Zone(), o.Kind())
	if err != nil {
		return err
	}

	alternatives := make([]*provider.Provider, 0, len(providers))
	for _, p := range providers {
		if !p.ID().IsEqual(*previous) {
			alternatives = append(alternatives, p)
		}
	}

	candidates, err := h.matcher.RankCandidates(o, alternatives)
	if err != nil {
		if errors.Is(err, services.ErrProviderNotFound) {
			return ErrNoEligibleProviderFound
		}
		return err
	}

	chosen, rank, err := reserveFirstAvailable(ctx, uow.ProviderRepository(), candidates)
	if err != nil {
		if errors.Is(err, provider.ErrCapacityExceeded) {
			return ErrNoEligibleProviderFound
		}
		return err
	}

	from := o.Status()

	if err = o.Assign(chosen.ID()); err != nil {
		return err
	}

	// Guarded on the status read above, so a concurrent transition cannot
	// produce a second active assignment for the order.
	if err = uow.OrderRepository().UpdateFrom(ctx, o, from); err != nil {
		if errors.Is(err, order.ErrStatusConflict) {
			if relErr := uow.ProviderRepository().Release(ctx, chosen.ID()); relErr != nil {
				return relErr
			}
		}
		return err
	}

	if err = supersedeActiveAssignment(ctx, uow, o.ID(), previous); err != nil {
		return err
	}

	rationale := h.matcher.DecisionRationale(chosen, rank, len(candidates))
	record, err := assignment.NewAssignment(kernel.NewUUID(), o.ID(), chosen.ID(), rationale)
	if err != nil {
		return err
	}

	if err = uow.AssignmentRepository().Add(ctx, record); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.Publish(ctx, events.OrderAssigned{
		OrderID:    o.ID(),
		ProviderID: chosen.ID(),
	})

	return nil
}

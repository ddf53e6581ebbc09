package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mealmatch/internal/core/domain/events"
	"mealmatch/internal/core/domain/model/assignment"
	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/order"
	"mealmatch/internal/core/domain/model/provider"
	"mealmatch/internal/core/ports"
)

// ErrProviderNotEligible is returned when a manual assignment names a
// provider that cannot serve the order (wrong zone or kind, unavailable, or
// out of capacity).
var ErrProviderNotEligible = errors.New("provider is not eligible for order")

// AssignManuallyCommandHandler handles operator-driven assignment overrides.
//
// The override skips ranking but not eligibility or capacity: the named
// provider must be able to accept the order, and a capacity slot is reserved
// through the same atomic path the automatic workflow uses. If the order was
// already assigned elsewhere, the previous assignment is voided and the
// previous provider's slot released in the same transaction, so the net load
// across providers stays correct.
type AssignManuallyCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewAssignManuallyCommandHandler creates a handler for manual assignment.
func NewAssignManuallyCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) AssignManuallyCommandHandler {
	return AssignManuallyCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the manual assignment command.
//
// Returns ErrProviderNotEligible when the named provider cannot serve the
// order, and provider.ErrCapacityExceeded when its last slot was taken
// concurrently. Assigning an order to the provider it is already assigned to
// is a no-op.
func (h *AssignManuallyCommandHandler) Handle(ctx context.Context, cmd AssignManuallyCommand) error {
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

	if o.IsAssignedTo(cmd.ProviderID()) {
		return nil
	}

	p, err := uow.ProviderRepository().Get(ctx, cmd.ProviderID())
	if err != nil {
		return err
	}

	eligible, err := p.CanAccept(o)
	if err != nil {
		return err
	}

	if !eligible {
		return ErrProviderNotEligible
	}

	from := o.Status()
	previous := o.Provider()

	// Reserve the new slot before touching the old assignment, so a
	// capacity conflict leaves the current assignment intact.
	if err = uow.ProviderRepository().Reserve(ctx, p.ID()); err != nil {
		return err
	}

	if err = o.Assign(p.ID()); err != nil {
		return err
	}

	// The guarded write keeps a concurrent transition from producing a
	// second active assignment; the override has to retry against the
	// order's new state.
	if err = uow.OrderRepository().UpdateFrom(ctx, o, from); err != nil {
		if errors.Is(err, order.ErrStatusConflict) {
			if relErr := uow.ProviderRepository().Release(ctx, p.ID()); relErr != nil {
				return relErr
			}
		}
		return err
	}

	if err = supersedeActiveAssignment(ctx, uow, o.ID(), previous); err != nil {
		return err
	}

	rationale := fmt.Sprintf("manual override: operator picked %s", p.Name())
	record, err := assignment.NewAssignment(kernel.NewUUID(), o.ID(), p.ID(), rationale)
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
		ProviderID: p.ID(),
	})

	return nil
}

// supersedeActiveAssignment voids the order's active assignment, if any, and
// releases the previously assigned provider's capacity slot. The previous
// provider is passed explicitly because the caller has already pointed the
// order at its replacement. Must run inside the caller's transaction, after
// the guarded order write has secured the transition.
func supersedeActiveAssignment(ctx context.Context, uow UoW, orderID kernel.UUID, previous *kernel.UUID) error {
	if previous == nil {
		return nil
	}

	active, err := uow.AssignmentRepository().GetActiveByOrderID(ctx, orderID)
	if err != nil {
		return err
	}

	if err = active.Void(); err != nil {
		return err
	}

	if err = uow.AssignmentRepository().Update(ctx, active); err != nil {
		return err
	}

	if err = uow.ProviderRepository().Release(ctx, *previous); err != nil {
		if !errors.Is(err, provider.ErrLoadUnderflow) {
			return err
		}
		// A released slot that was never held is a logic error worth
		// flagging, but it must not block the supersede.
		slog.Warn("released provider with zero load",
			"provider_id", previous.String(),
			"order_id", orderID.String(),
		)
	}

	return nil
}

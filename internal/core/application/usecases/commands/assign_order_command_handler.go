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
	"mealmatch/internal/pkg/errs"
)

// maxCandidateAttempts bounds how many ranked candidates one assignment
// attempt will try to reserve. A reservation lost to a concurrent assignment
// falls through to the next candidate; past the bound the order stays queued
// and the next sweep retries against a fresh snapshot.
const maxCandidateAttempts = 3

// Assignment workflow errors. Both are expected business outcomes rather
// than system failures: the sweep logs them at debug level and moves on.
var (
	// ErrNoOrderFound is returned by untargeted assignment when the intake
	// queue is empty.
	ErrNoOrderFound = errors.New("no unassigned order found")
	// ErrNoEligibleProviderFound is returned when no provider could be
	// matched or reserved for the order. The order stays queued.
	ErrNoEligibleProviderFound = errors.New("no eligible provider found for order")
)

// AssignOrderCommandHandler implements the matching workflow: pick the order,
// rank the eligible providers of its zone, reserve capacity on the best
// candidate, and record the decision in the assignment ledger.
//
// Two steps contend with concurrent assignments. The handler reserves
// through ports.ProviderRepository.Reserve, which is atomic per provider, and
// treats a capacity conflict as a signal to fall through to the next ranked
// candidate rather than an error. The order write goes through
// ports.OrderRepository.UpdateFrom, guarded on the Unassigned status the
// handler read, so two workflows racing for the same order cannot both record
// an assignment; the loser gives back its slot and defers to the winner.
//
// The whole decision (order status, reservation, ledger record) commits in
// one transaction; notification events are published after commit and never
// affect the outcome.
type AssignOrderCommandHandler struct {
	uowFactory UoWFactory
	matcher    services.ProviderMatcher
	publisher  ports.EventPublisher
}

// NewAssignOrderCommandHandler creates a handler for the matching workflow.
func NewAssignOrderCommandHandler(
	uowFactory UoWFactory,
	matcher services.ProviderMatcher,
	publisher ports.EventPublisher,
) AssignOrderCommandHandler {
	return AssignOrderCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher,
		publisher:  publisher,
	}
}

// Handle processes the assignment command.
//
// Returns ErrNoOrderFound when untargeted and the queue is empty, and
// ErrNoEligibleProviderFound when the order cannot be matched right now.
// Assigning an order that is already assigned is a no-op.
func (h *AssignOrderCommandHandler) Handle(ctx context.Context, cmd AssignOrderCommand) error {
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

	o, err := h.targetOrder(ctx, uow.OrderRepository(), cmd)
	if err != nil {
		return err
	}

	// Retrying a delivered assign request must not move the order or
	// reserve a second slot.
	if o.Status() == order.Assigned {
		return nil
	}

	providers, err := uow.ProviderRepository().FindEligible(ctx, o.Zone(), o.Kind())
	if err != nil {
		return err
	}

	candidates, err := h.matcher.RankCandidates(o, providers)
	if err != nil {
		if errors.Is(err, services.ErrProviderNotFound) {
			return h.unmatched(ctx, o, err.Error())
		}
		return err
	}

	chosen, rank, err := reserveFirstAvailable(ctx, uow.ProviderRepository(), candidates)
	if err != nil {
		if errors.Is(err, provider.ErrCapacityExceeded) {
			return h.unmatched(ctx, o, "all ranked candidates at capacity")
		}
		return err
	}

	if err = o.Assign(chosen.ID()); err != nil {
		return err
	}

	if err = uow.OrderRepository().UpdateFrom(ctx, o, order.Unassigned); err != nil {
		if errors.Is(err, order.ErrStatusConflict) {
			// A concurrent workflow assigned the order after this handler
			// read it. Give back the slot just reserved; the earlier
			// decision stands and retrying is a no-op.
			if relErr := uow.ProviderRepository().Release(ctx, chosen.ID()); relErr != nil {
				return relErr
			}
			return nil
		}
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

// targetOrder resolves the order the command applies to: the named order for
// targeted commands, the oldest unassigned order otherwise.
func (h *AssignOrderCommandHandler) targetOrder(
	ctx context.Context,
	orderRepo ports.OrderRepository,
	cmd AssignOrderCommand,
) (*order.Order, error) {
	if cmd.HasTarget() {
		return orderRepo.Get(ctx, cmd.OrderID())
	}

	o, err := orderRepo.GetFirstUnassigned(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil, ErrNoOrderFound
		}
		return nil, err
	}

	return o, nil
}

// reserveFirstAvailable walks the ranked candidates best first and reserves a
// capacity slot on the first one that still has room, up to
// maxCandidateAttempts. Returns the winner and its 1-based rank.
//
// Returns provider.ErrCapacityExceeded when every attempted candidate lost
// its last slot to a concurrent assignment.
func reserveFirstAvailable(
	ctx context.Context,
	providerRepo ports.ProviderRepository,
	candidates []*provider.Provider,
) (*provider.Provider, int, error) {
	attempts := min(maxCandidateAttempts, len(candidates))

	for i := range attempts {
		err := providerRepo.Reserve(ctx, candidates[i].ID())
		if err == nil {
			return candidates[i], i + 1, nil
		}

		if !errors.Is(err, provider.ErrCapacityExceeded) {
			return nil, 0, err
		}
	}

	return nil, 0, provider.ErrCapacityExceeded
}

// unmatched reports a failed matching attempt: the order stays queued, a
// notification event goes out, and the caller receives the business error.
func (h *AssignOrderCommandHandler) unmatched(ctx context.Context, o *order.Order, reason string) error {
	_ = h.publisher.Publish(ctx, events.OrderUnmatched{
		OrderID: o.ID(),
		Reason:  reason,
	})

	return ErrNoEligibleProviderFound
}

package inmem_test

import (
	"context"
	"sync"
	"testing"

	"mealmatch/internal/adapters/out/inmem"
	"mealmatch/internal/core/application/usecases/commands"
	"mealmatch/internal/core/domain/events"
	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/order"
	"mealmatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uowFactory adapts the in-memory unit of work factory to the command-side
// factory interfaces.
type uowFactory struct {
	inner *inmem.UnitOfWorkFactory
}

func newUoWFactory(store *inmem.Store) uowFactory {
	return uowFactory{inner: inmem.NewUnitOfWorkFactory(store)}
}

func (f uowFactory) Create() commands.UoW {
	return f.inner.Create()
}

type orderUoWFactory struct{ uowFactory }

func (f orderUoWFactory) Create() commands.OrderUoW {
	return f.inner.Create()
}

type providerUoWFactory struct{ uowFactory }

func (f providerUoWFactory) Create() commands.ProviderUoW {
	return f.inner.Create()
}

// capturingPublisher records published events for assertions. The mutex keeps
// it safe for handlers publishing from concurrent goroutines.
type capturingPublisher struct {
	mu        sync.Mutex
	published []events.Event
}

func (p *capturingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.published = append(p.published, event)
	return nil
}

func (p *capturingPublisher) events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]events.Event(nil), p.published...)
}

// workflow bundles the command handlers over one shared in-memory store.
type workflow struct {
	store     *inmem.Store
	publisher *capturingPublisher

	register     commands.RegisterProviderCommandHandler
	createOrder  commands.CreateOrderCommandHandler
	assign       commands.AssignOrderCommandHandler
	assignManual commands.AssignManuallyCommandHandler
	confirm      commands.ConfirmOrderCommandHandler
	complete     commands.CompleteOrderCommandHandler
}

func newWorkflow(t *testing.T) *workflow {
	t.Helper()

	store := inmem.NewStore()
	factory := newUoWFactory(store)
	publisher := &capturingPublisher{}
	matcher := services.NewProviderMatcher()

	return &workflow{
		store:        store,
		publisher:    publisher,
		register:     commands.NewRegisterProviderCommandHandler(providerUoWFactory{factory}),
		createOrder:  commands.NewCreateOrderCommandHandler(orderUoWFactory{factory}),
		assign:       commands.NewAssignOrderCommandHandler(factory, matcher, publisher),
		assignManual: commands.NewAssignManuallyCommandHandler(factory, publisher),
		confirm:      commands.NewConfirmOrderCommandHandler(orderUoWFactory{factory}),
		complete:     commands.NewCompleteOrderCommandHandler(factory),
	}
}

func (w *workflow) registerProvider(t *testing.T, name string, rating float64, maxCapacity int) kernel.UUID {
	t.Helper()

	providerID := kernel.NewUUID()
	cmd, err := commands.NewRegisterProviderCommand(
		providerID, name, kernel.Vendor, createZone(t, "Z1"), rating, maxCapacity, []string{"thai"},
	)
	require.NoError(t, err)
	require.NoError(t, w.register.Handle(t.Context(), cmd))
	return providerID
}

func (w *workflow) placeOrder(t *testing.T) kernel.UUID {
	t.Helper()

	testOrder := createOrder(t)
	cmd, err := commands.NewCreateOrderCommand(
		testOrder.ID(), testOrder.UserID(), testOrder.Kind(), testOrder.Zone(),
		testOrder.Window(), testOrder.Total(),
	)
	require.NoError(t, err)
	require.NoError(t, w.createOrder.Handle(t.Context(), cmd))
	return testOrder.ID()
}

func TestWorkflow_OrderLifecycleEndToEnd(t *testing.T) {
	ctx := t.Context()
	w := newWorkflow(t)

	providerID := w.registerProvider(t, "Thai Garden", 4.5, 3)
	orderID := w.placeOrder(t)

	// Untargeted sweep picks up the queued order.
	assignCmd, err := commands.NewAssignOrderCommand()
	require.NoError(t, err)
	require.NoError(t, w.assign.Handle(ctx, assignCmd))

	orders := inmem.NewOrderRepository(w.store)
	providers := inmem.NewProviderRepository(w.store)
	ledger := inmem.NewAssignmentRepository(w.store)

	assigned, err := orders.Get(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, order.Assigned, assigned.Status())
	assert.True(t, assigned.IsAssignedTo(providerID))

	loaded, err := providers.Get(ctx, providerID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.CurrentLoad())

	record, err := ledger.GetActiveByOrderID(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, record.ProviderID().IsEqual(providerID))

	published := w.publisher.events()
	require.Len(t, published, 1)
	event, ok := published[0].(events.OrderAssigned)
	require.True(t, ok)
	assert.True(t, event.OrderID.IsEqual(orderID))
	assert.True(t, event.ProviderID.IsEqual(providerID))

	// Confirm and complete; completion frees the capacity slot.
	confirmCmd, err := commands.NewConfirmOrderCommand(orderID)
	require.NoError(t, err)
	require.NoError(t, w.confirm.Handle(ctx, confirmCmd))

	completeCmd, err := commands.NewCompleteOrderCommand(orderID)
	require.NoError(t, err)
	require.NoError(t, w.complete.Handle(ctx, completeCmd))

	completed, err := orders.Get(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, order.Completed, completed.Status())

	released, err := providers.Get(ctx, providerID)
	require.NoError(t, err)
	assert.Equal(t, 0, released.CurrentLoad())

	// The final decision stays on the ledger.
	final, err := ledger.GetActiveByOrderID(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, final.IsActive())
}

func TestWorkflow_ManualOverrideSupersedesAutomaticPick(t *testing.T) {
	ctx := t.Context()
	w := newWorkflow(t)

	bestID := w.registerProvider(t, "Best Rated", 4.9, 3)
	backupID := w.registerProvider(t, "Backup", 3.5, 3)
	orderID := w.placeOrder(t)

	assignCmd, err := commands.NewAssignOrderCommandForOrder(orderID)
	require.NoError(t, err)
	require.NoError(t, w.assign.Handle(ctx, assignCmd))

	ledger := inmem.NewAssignmentRepository(w.store)
	autoRecord, err := ledger.GetActiveByOrderID(ctx, orderID)
	require.NoError(t, err)
	require.True(t, autoRecord.ProviderID().IsEqual(bestID))

	manualCmd, err := commands.NewAssignManuallyCommand(orderID, backupID)
	require.NoError(t, err)
	require.NoError(t, w.assignManual.Handle(ctx, manualCmd))

	providers := inmem.NewProviderRepository(w.store)

	active, err := ledger.GetActiveByOrderID(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, active.ProviderID().IsEqual(backupID))
	assert.False(t, active.ID().IsEqual(autoRecord.ID()))

	best, err := providers.Get(ctx, bestID)
	require.NoError(t, err)
	assert.Equal(t, 0, best.CurrentLoad(), "superseded provider gets its slot back")

	backup, err := providers.Get(ctx, backupID)
	require.NoError(t, err)
	assert.Equal(t, 1, backup.CurrentLoad())
}

func TestWorkflow_ConcurrentAssign_LastSlotMatchesExactlyOneOrder(t *testing.T) {
	ctx := t.Context()
	w := newWorkflow(t)

	providerID := w.registerProvider(t, "Thai Garden", 4.5, 1)
	orderIDs := []kernel.UUID{w.placeOrder(t), w.placeOrder(t)}

	results := make([]error, len(orderIDs))
	var wg sync.WaitGroup
	for i, orderID := range orderIDs {
		cmd, err := commands.NewAssignOrderCommandForOrder(orderID)
		require.NoError(t, err)

		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = w.assign.Handle(ctx, cmd)
		}()
	}
	wg.Wait()

	matched := 0
	for _, err := range results {
		if err == nil {
			matched++
		} else {
			require.ErrorIs(t, err, commands.ErrNoEligibleProviderFound)
		}
	}
	assert.Equal(t, 1, matched, "exactly one order may take the last capacity slot")

	orders := inmem.NewOrderRepository(w.store)
	providers := inmem.NewProviderRepository(w.store)

	assigned := 0
	for _, orderID := range orderIDs {
		o, err := orders.Get(ctx, orderID)
		require.NoError(t, err)
		if o.Status() == order.Assigned {
			assigned++
			assert.True(t, o.IsAssignedTo(providerID))
		} else {
			assert.Equal(t, order.Unassigned, o.Status())
		}
	}
	assert.Equal(t, 1, assigned)

	loaded, err := providers.Get(ctx, providerID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.CurrentLoad())

	var assignedEvents, unmatchedEvents int
	for _, event := range w.publisher.events() {
		switch event.(type) {
		case events.OrderAssigned:
			assignedEvents++
		case events.OrderUnmatched:
			unmatchedEvents++
		}
	}
	assert.Equal(t, 1, assignedEvents)
	assert.Equal(t, 1, unmatchedEvents)
}

func TestWorkflow_ConcurrentAssign_SameOrder_AssignsOnce(t *testing.T) {
	ctx := t.Context()
	w := newWorkflow(t)

	providerID := w.registerProvider(t, "Thai Garden", 4.5, 3)
	orderID := w.placeOrder(t)

	cmd, err := commands.NewAssignOrderCommandForOrder(orderID)
	require.NoError(t, err)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = w.assign.Handle(ctx, cmd)
		}()
	}
	wg.Wait()

	// Both calls succeed: the loser of the status race backs off without
	// recording a second decision or holding a second slot.
	require.NoError(t, results[0])
	require.NoError(t, results[1])

	orders := inmem.NewOrderRepository(w.store)
	providers := inmem.NewProviderRepository(w.store)
	ledger := inmem.NewAssignmentRepository(w.store)

	assigned, err := orders.Get(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, order.Assigned, assigned.Status())
	assert.True(t, assigned.IsAssignedTo(providerID))

	loaded, err := providers.Get(ctx, providerID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.CurrentLoad(), "the losing attempt must give back its slot")

	record, err := ledger.GetActiveByOrderID(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, record.ProviderID().IsEqual(providerID))

	published := w.publisher.events()
	require.Len(t, published, 1)
	event, ok := published[0].(events.OrderAssigned)
	require.True(t, ok)
	assert.True(t, event.OrderID.IsEqual(orderID))
}

func TestWorkflow_NoEligibleProviderPublishesUnmatched(t *testing.T) {
	ctx := t.Context()
	w := newWorkflow(t)

	orderID := w.placeOrder(t)

	assignCmd, err := commands.NewAssignOrderCommandForOrder(orderID)
	require.NoError(t, err)

	err = w.assign.Handle(ctx, assignCmd)
	require.ErrorIs(t, err, commands.ErrNoEligibleProviderFound)

	orders := inmem.NewOrderRepository(w.store)
	queued, err := orders.Get(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, order.Unassigned, queued.Status(), "unmatched orders stay queued")

	published := w.publisher.events()
	require.Len(t, published, 1)
	event, ok := published[0].(events.OrderUnmatched)
	require.True(t, ok)
	assert.True(t, event.OrderID.IsEqual(orderID))
	assert.NotEmpty(t, event.Reason)
}

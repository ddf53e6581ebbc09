package inmem_test

import (
	"sync"
	"testing"
	"time"

	"mealmatch/internal/adapters/out/inmem"
	"mealmatch/internal/core/domain/model/assignment"
	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/order"
	"mealmatch/internal/core/domain/model/provider"
	"mealmatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createZone(t *testing.T, code string) kernel.Zone {
	t.Helper()

	zone, err := kernel.NewZone(code)
	require.NoError(t, err)
	return zone
}

func createOrder(t *testing.T) *order.Order {
	t.Helper()

	window, err := kernel.NewDeliveryWindow(
		time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	total, err := kernel.NewMoney(2500)
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.Vendor, createZone(t, "Z1"), window, total,
	)
	require.NoError(t, err)
	return o
}

func createProvider(t *testing.T, name string, rating float64, maxCapacity int) *provider.Provider {
	t.Helper()

	p, err := provider.NewProvider(
		kernel.NewUUID(), name, kernel.Vendor, createZone(t, "Z1"), rating, maxCapacity,
	)
	require.NoError(t, err)
	return p
}

func TestOrderRepository_AddAndGet(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewOrderRepository(inmem.NewStore())

	testOrder := createOrder(t)
	require.NoError(t, repo.Add(ctx, testOrder))

	retrieved, err := repo.Get(ctx, testOrder.ID())
	require.NoError(t, err)
	assert.True(t, retrieved.ID().IsEqual(testOrder.ID()))
	assert.Equal(t, order.Unassigned, retrieved.Status())
	assert.True(t, retrieved.UserID().IsEqual(testOrder.UserID()))
}

func TestOrderRepository_Get_NotFound(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewOrderRepository(inmem.NewStore())

	retrieved, err := repo.Get(ctx, kernel.NewUUID())

	assert.Nil(t, retrieved)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestOrderRepository_Update_NotFound(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewOrderRepository(inmem.NewStore())

	err := repo.Update(ctx, createOrder(t))

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestOrderRepository_UpdateFrom_PersistsGuardedTransition(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewOrderRepository(inmem.NewStore())

	testOrder := createOrder(t)
	require.NoError(t, repo.Add(ctx, testOrder))

	retrieved, err := repo.Get(ctx, testOrder.ID())
	require.NoError(t, err)
	require.NoError(t, retrieved.Assign(kernel.NewUUID()))
	require.NoError(t, repo.UpdateFrom(ctx, retrieved, order.Unassigned))

	stored, err := repo.Get(ctx, testOrder.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Assigned, stored.Status())
}

func TestOrderRepository_UpdateFrom_StaleSnapshot_ReturnsStatusConflict(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewOrderRepository(inmem.NewStore())

	testOrder := createOrder(t)
	require.NoError(t, repo.Add(ctx, testOrder))

	// Two workflows read the order while it is still unassigned.
	first, err := repo.Get(ctx, testOrder.ID())
	require.NoError(t, err)
	second, err := repo.Get(ctx, testOrder.ID())
	require.NoError(t, err)

	winner := kernel.NewUUID()
	require.NoError(t, first.Assign(winner))
	require.NoError(t, repo.UpdateFrom(ctx, first, order.Unassigned))

	require.NoError(t, second.Assign(kernel.NewUUID()))
	err = repo.UpdateFrom(ctx, second, order.Unassigned)
	require.ErrorIs(t, err, order.ErrStatusConflict)

	stored, err := repo.Get(ctx, testOrder.ID())
	require.NoError(t, err)
	assert.True(t, stored.IsAssignedTo(winner), "the first transition must stand")
}

func TestOrderRepository_UpdateFrom_NotFound(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewOrderRepository(inmem.NewStore())

	err := repo.UpdateFrom(ctx, createOrder(t), order.Unassigned)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestOrderRepository_GetFirstUnassigned_ReturnsOldest(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewOrderRepository(inmem.NewStore())

	first := createOrder(t)
	second := createOrder(t)
	require.NoError(t, repo.Add(ctx, first))
	require.NoError(t, repo.Add(ctx, second))

	retrieved, err := repo.Get(ctx, first.ID())
	require.NoError(t, err)
	require.NoError(t, retrieved.Assign(kernel.NewUUID()))
	require.NoError(t, repo.Update(ctx, retrieved))

	oldest, err := repo.GetFirstUnassigned(ctx)
	require.NoError(t, err)
	assert.True(t, oldest.ID().IsEqual(second.ID()),
		"assigned orders should be skipped in arrival order")
}

func TestOrderRepository_GetFirstUnassigned_Empty(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewOrderRepository(inmem.NewStore())

	oldest, err := repo.GetFirstUnassigned(ctx)

	assert.Nil(t, oldest)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestOrderRepository_GetReturnsIndependentCopy(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewOrderRepository(inmem.NewStore())

	testOrder := createOrder(t)
	require.NoError(t, repo.Add(ctx, testOrder))

	retrieved, err := repo.Get(ctx, testOrder.ID())
	require.NoError(t, err)
	require.NoError(t, retrieved.Assign(kernel.NewUUID()))

	stored, err := repo.Get(ctx, testOrder.ID())
	require.NoError(t, err)
	assert.Equal(t, order.Unassigned, stored.Status(),
		"mutations on a retrieved order must not leak into the store")
}

func TestProviderRepository_AddAndGet(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewProviderRepository(inmem.NewStore())

	testProvider := createProvider(t, "Thai Garden", 4.5, 3)
	require.NoError(t, testProvider.AddSpecialty("thai"))
	require.NoError(t, repo.Add(ctx, testProvider))

	retrieved, err := repo.Get(ctx, testProvider.ID())
	require.NoError(t, err)
	assert.Equal(t, "Thai Garden", retrieved.Name())
	assert.Equal(t, []string{"thai"}, retrieved.Specialties())
	assert.Equal(t, 0, retrieved.CurrentLoad())
	assert.True(t, retrieved.IsAvailable())
}

func TestProviderRepository_Update_PreservesStoredLoad(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewProviderRepository(inmem.NewStore())

	testProvider := createProvider(t, "Thai Garden", 4.5, 3)
	require.NoError(t, repo.Add(ctx, testProvider))

	// Reserve a slot after the caller took its snapshot.
	require.NoError(t, repo.Reserve(ctx, testProvider.ID()))

	// Saving the stale snapshot (load 0) must not undo the reservation.
	testProvider.SetAvailability(false)
	require.NoError(t, repo.Update(ctx, testProvider))

	retrieved, err := repo.Get(ctx, testProvider.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, retrieved.CurrentLoad())
	assert.False(t, retrieved.IsAvailable())
}

func TestProviderRepository_GetAll_SortedByName(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewProviderRepository(inmem.NewStore())

	require.NoError(t, repo.Add(ctx, createProvider(t, "Wok Express", 4.0, 3)))
	require.NoError(t, repo.Add(ctx, createProvider(t, "Bella Pasta", 4.8, 3)))
	require.NoError(t, repo.Add(ctx, createProvider(t, "Thai Garden", 4.5, 3)))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Bella Pasta", all[0].Name())
	assert.Equal(t, "Thai Garden", all[1].Name())
	assert.Equal(t, "Wok Express", all[2].Name())
}

func TestProviderRepository_FindEligible_OrderingAndFilters(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewProviderRepository(inmem.NewStore())
	zone := createZone(t, "Z1")

	best := createProvider(t, "Best", 4.9, 3)
	tieBusy := createProvider(t, "Tie Busy", 4.5, 2)
	require.NoError(t, tieBusy.Reserve())
	tieIdle := createProvider(t, "Tie Idle", 4.5, 2)

	otherZone, err := provider.NewProvider(
		kernel.NewUUID(), "Other Zone", kernel.Vendor, createZone(t, "Z2"), 5.0, 3,
	)
	require.NoError(t, err)

	chef, err := provider.NewProvider(
		kernel.NewUUID(), "Chef", kernel.Chef, zone, 5.0, 3,
	)
	require.NoError(t, err)

	offline := createProvider(t, "Offline", 5.0, 3)
	offline.SetAvailability(false)

	full := createProvider(t, "Full", 5.0, 1)
	require.NoError(t, full.Reserve())

	for _, p := range []*provider.Provider{best, tieBusy, tieIdle, otherZone, chef, offline, full} {
		require.NoError(t, repo.Add(ctx, p))
	}

	candidates, err := repo.FindEligible(ctx, zone, kernel.Vendor)
	require.NoError(t, err)

	require.Len(t, candidates, 3)
	assert.Equal(t, "Best", candidates[0].Name())
	assert.Equal(t, "Tie Idle", candidates[1].Name(), "lower load ratio wins the rating tie")
	assert.Equal(t, "Tie Busy", candidates[2].Name())
}

func TestProviderRepository_Reserve_NotFound(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewProviderRepository(inmem.NewStore())

	err := repo.Reserve(ctx, kernel.NewUUID())

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestProviderRepository_ReserveAndRelease(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewProviderRepository(inmem.NewStore())

	testProvider := createProvider(t, "Thai Garden", 4.5, 2)
	require.NoError(t, repo.Add(ctx, testProvider))

	require.NoError(t, repo.Reserve(ctx, testProvider.ID()))
	require.NoError(t, repo.Reserve(ctx, testProvider.ID()))
	require.ErrorIs(t, repo.Reserve(ctx, testProvider.ID()), provider.ErrCapacityExceeded)

	require.NoError(t, repo.Release(ctx, testProvider.ID()))
	require.NoError(t, repo.Release(ctx, testProvider.ID()))
	require.ErrorIs(t, repo.Release(ctx, testProvider.ID()), provider.ErrLoadUnderflow)
}

func TestProviderRepository_Reserve_LastSlotGoesToExactlyOneCaller(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewProviderRepository(inmem.NewStore())

	testProvider := createProvider(t, "Thai Garden", 4.5, 1)
	require.NoError(t, repo.Add(ctx, testProvider))

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = repo.Reserve(ctx, testProvider.ID())
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, provider.ErrCapacityExceeded)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one reservation may win the last slot")

	retrieved, err := repo.Get(ctx, testProvider.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, retrieved.CurrentLoad())
}

func TestAssignmentRepository_AddAndGetActive(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewAssignmentRepository(inmem.NewStore())

	orderID := kernel.NewUUID()
	record, err := assignment.NewAssignment(kernel.NewUUID(), orderID, kernel.NewUUID(), "top ranked")
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, record))

	active, err := repo.GetActiveByOrderID(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, active.ID().IsEqual(record.ID()))
	assert.Equal(t, "top ranked", active.Rationale())
	assert.True(t, active.IsActive())
}

func TestAssignmentRepository_GetActive_SkipsVoidedRecords(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewAssignmentRepository(inmem.NewStore())

	orderID := kernel.NewUUID()

	voided, err := assignment.NewAssignment(kernel.NewUUID(), orderID, kernel.NewUUID(), "first pick")
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, voided))

	retrieved, err := repo.GetActiveByOrderID(ctx, orderID)
	require.NoError(t, err)
	require.NoError(t, retrieved.Void())
	require.NoError(t, repo.Update(ctx, retrieved))

	replacement, err := assignment.NewAssignment(kernel.NewUUID(), orderID, kernel.NewUUID(), "manual override")
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, replacement))

	active, err := repo.GetActiveByOrderID(ctx, orderID)
	require.NoError(t, err)
	assert.True(t, active.ID().IsEqual(replacement.ID()))
}

func TestAssignmentRepository_GetActive_NotFound(t *testing.T) {
	ctx := t.Context()
	repo := inmem.NewAssignmentRepository(inmem.NewStore())

	active, err := repo.GetActiveByOrderID(ctx, kernel.NewUUID())

	assert.Nil(t, active)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

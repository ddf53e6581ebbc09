package commands_test

import (
	"context"
	"testing"
	"time"

	"mealmatch/internal/core/application/usecases/commands"
	"mealmatch/internal/core/domain/events"
	"mealmatch/internal/core/domain/model/assignment"
	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/order"
	"mealmatch/internal/core/domain/model/provider"
	"mealmatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateFrom(ctx context.Context, o *order.Order, from order.Status) error {
	args := m.Called(ctx, o, from)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetFirstUnassigned(ctx context.Context) (*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockProviderRepository struct{ mock.Mock }

func (m *MockProviderRepository) Add(ctx context.Context, p *provider.Provider) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProviderRepository) Update(ctx context.Context, p *provider.Provider) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProviderRepository) Get(ctx context.Context, id kernel.UUID) (*provider.Provider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Provider), args.Error(1)
}

func (m *MockProviderRepository) GetAll(ctx context.Context) ([]*provider.Provider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*provider.Provider), args.Error(1)
}

func (m *MockProviderRepository) FindEligible(
	ctx context.Context,
	zone kernel.Zone,
	kind kernel.MealKind,
) ([]*provider.Provider, error) {
	args := m.Called(ctx, zone, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*provider.Provider), args.Error(1)
}

func (m *MockProviderRepository) Reserve(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProviderRepository) Release(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAssignmentRepository struct{ mock.Mock }

func (m *MockAssignmentRepository) Add(ctx context.Context, a *assignment.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, a *assignment.Assignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetActiveByOrderID(
	ctx context.Context,
	orderID kernel.UUID,
) (*assignment.Assignment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assignment.Assignment), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) ProviderRepository() ports.ProviderRepository {
	args := m.Called()
	return args.Get(0).(ports.ProviderRepository)
}

func (m *MockUoW) AssignmentRepository() ports.AssignmentRepository {
	args := m.Called()
	return args.Get(0).(ports.AssignmentRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockProviderUoW struct{ mock.Mock }

func (m *MockProviderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProviderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProviderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockProviderUoW) ProviderRepository() ports.ProviderRepository {
	args := m.Called()
	return args.Get(0).(ports.ProviderRepository)
}

type MockProviderUoWFactory struct{ mock.Mock }

func (m *MockProviderUoWFactory) Create() commands.ProviderUoW {
	args := m.Called()
	return args.Get(0).(commands.ProviderUoW)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func createTestZone(t *testing.T) kernel.Zone {
	t.Helper()

	zone, err := kernel.NewZone("Z1")
	require.NoError(t, err)

	return zone
}

func createTestOrder(t *testing.T) *order.Order {
	t.Helper()

	window, err := kernel.NewDeliveryWindow(
		time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	total, err := kernel.NewMoney(2500)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.Vendor, createTestZone(t), window, total)
	require.NoError(t, err)

	return o
}

func createTestProvider(t *testing.T, name string, rating float64) *provider.Provider {
	t.Helper()

	p, err := provider.NewProvider(kernel.NewUUID(), name, kernel.Vendor, createTestZone(t), rating, 3)
	require.NoError(t, err)

	return p
}

func createActiveAssignment(t *testing.T, orderID, providerID kernel.UUID) *assignment.Assignment {
	t.Helper()

	a, err := assignment.NewAssignment(kernel.NewUUID(), orderID, providerID, "top ranked")
	require.NoError(t, err)

	return a
}

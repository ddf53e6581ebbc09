package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"mealmatch/internal/adapters/out/postgres/orderrepo"
	"mealmatch/internal/core/domain/model/kernel"
	"mealmatch/internal/core/domain/model/order"
	"mealmatch/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for
// OrderRepository using PostgreSQL containers to verify persistence and the
// intake-queue lookup.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrips() {
	ctx := context.Background()

	original := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", original.ID(), original).Once()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.UserID(), retrieved.UserID())
	suite.Equal(original.Kind(), retrieved.Kind())
	suite.Equal(original.Zone().Code(), retrieved.Zone().Code())
	suite.True(original.Window().Start().Equal(retrieved.Window().Start()))
	suite.True(original.Window().End().Equal(retrieved.Window().End()))
	suite.Equal(original.Total().Cents(), retrieved.Total().Cents())
	suite.Equal(order.Unassigned, retrieved.Status())
	suite.Nil(retrieved.Provider())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsAssignment() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	providerID := kernel.NewUUID()
	suite.Require().NoError(testOrder.Assign(providerID))

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Assigned, retrieved.Status())
	suite.Require().NotNil(retrieved.Provider())
	suite.True(retrieved.Provider().IsEqual(providerID))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateFrom_MatchingStatus_PersistsTransition() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	providerID := kernel.NewUUID()
	suite.Require().NoError(testOrder.Assign(providerID))

	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.UpdateFrom(ctx, testOrder, order.Unassigned))

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Assigned, retrieved.Status())
	suite.Require().NotNil(retrieved.Provider())
	suite.True(retrieved.Provider().IsEqual(providerID))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateFrom_StaleSnapshot_ReturnsStatusConflict() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// Two workflows read the order while it is still unassigned.
	first, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	winner := kernel.NewUUID()
	suite.Require().NoError(first.Assign(winner))
	suite.tracker.On("TrackAggregate", first.ID(), first).Once()
	suite.Require().NoError(suite.repository.UpdateFrom(ctx, first, order.Unassigned))

	// The second workflow's snapshot is stale; its guarded write must lose.
	suite.Require().NoError(second.Assign(kernel.NewUUID()))
	err = suite.repository.UpdateFrom(ctx, second, order.Unassigned)
	suite.Require().ErrorIs(err, order.ErrStatusConflict)

	retrieved, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(retrieved.Provider())
	suite.True(retrieved.Provider().IsEqual(winner))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdateFrom_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	testOrder := suite.createTestOrder()
	suite.Require().NoError(testOrder.Assign(kernel.NewUUID()))

	err := suite.repository.UpdateFrom(ctx, testOrder, order.Unassigned)

	suite.Require().Error(err)
	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetFirstUnassigned_ReturnsOldestWaitingOrder() {
	ctx := context.Background()

	first := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", first.ID(), first).Once()
	suite.Require().NoError(suite.repository.Add(ctx, first))

	// Insert order timestamps resolve to microseconds; a short gap keeps the
	// arrival order unambiguous.
	time.Sleep(10 * time.Millisecond)

	second := suite.createTestOrder()
	suite.tracker.On("TrackAggregate", second.ID(), second).Once()
	suite.Require().NoError(suite.repository.Add(ctx, second))

	oldest, err := suite.repository.GetFirstUnassigned(ctx)
	suite.Require().NoError(err)
	suite.Equal(first.ID(), oldest.ID())

	// Assign the oldest; the queue moves to the next arrival.
	suite.Require().NoError(oldest.Assign(kernel.NewUUID()))
	suite.tracker.On("TrackAggregate", oldest.ID(), oldest).Once()
	suite.Require().NoError(suite.repository.Update(ctx, oldest))

	next, err := suite.repository.GetFirstUnassigned(ctx)
	suite.Require().NoError(err)
	suite.Equal(second.ID(), next.ID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetFirstUnassigned_EmptyQueue_ReturnsNotFoundError() {
	ctx := context.Background()

	oldest, err := suite.repository.GetFirstUnassigned(ctx)

	suite.Nil(oldest)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

// createTestOrder creates an unassigned vendor order in zone Z1.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	zone, err := kernel.NewZone("Z1")
	suite.Require().NoError(err)

	window, err := kernel.NewDeliveryWindow(
		time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC),
	)
	suite.Require().NoError(err)

	total, err := kernel.NewMoney(2500)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.Vendor, zone, window, total,
	)
	suite.Require().NoError(err)

	return testOrder
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}

package queries_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/eventrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GetOrderQueryHandlerTestSuite exercises the order projection and timeline
// queries against a real PostgreSQL database, seeded through the write-side
// repositories so the read and write schemas cannot drift apart.
type GetOrderQueryHandlerTestSuite struct {
	suite.Suite
	container       *postgres.PostgresContainer
	db              *gorm.DB
	factory         ports.UnitOfWorkFactory
	orderHandler    queries.GetOrderQueryHandler
	timelineHandler queries.GetOrderTimelineQueryHandler
}

func (suite *GetOrderQueryHandlerTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.PickLineDTO{}, &orderrepo.PackTaskDTO{},
		&eventrepo.EventDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
	suite.orderHandler = queries.NewGetOrderQueryHandler(db)
	suite.timelineHandler = queries.NewGetOrderTimelineQueryHandler(db)
}

func (suite *GetOrderQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, pick_lines, pack_tasks, domain_events").Error
	suite.Require().NoError(err)
}

func (suite *GetOrderQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_ProjectsOrderState() {
	ctx := context.Background()
	testOrder := suite.seedOrder()

	query, err := queries.NewGetOrderQuery(testOrder.ID())
	suite.Require().NoError(err)

	resp, err := suite.orderHandler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), resp.ID)
	suite.Equal(testOrder.Reference(), resp.Reference)
	suite.Equal("shopify", resp.Channel)
	suite.Equal(testOrder.SourceNumber(), resp.SourceNumber)
	suite.Equal("fetched", resp.Status)
	suite.Equal("high", resp.Priority)
	suite.Empty(resp.VerificationOutcome)
	suite.Empty(resp.Courier)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_ProjectsExceptionDetail() {
	ctx := context.Background()
	testOrder := suite.seedOrder()

	changed, err := testOrder.MarkException("address_unverifiable", time.Now())
	suite.Require().NoError(err)
	suite.Require().True(changed)
	suite.Require().NoError(suite.factory.Create().OrderRepository().Update(ctx, testOrder))

	query, err := queries.NewGetOrderQuery(testOrder.ID())
	suite.Require().NoError(err)

	resp, err := suite.orderHandler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Equal("exception", resp.Status)
	suite.Equal("address_unverifiable", resp.ExceptionReason)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_UnknownOrder() {
	query, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.orderHandler.Handle(context.Background(), query)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_TimelineOldestFirst() {
	ctx := context.Background()
	testOrder := suite.seedOrder()
	base := time.Now().Truncate(time.Microsecond)

	fetched, err := event.NewDomainEvent(
		event.OrderFetched, event.EntityOrder, testOrder.ID(), "order ingested", "intake", base)
	suite.Require().NoError(err)
	validated, err := event.NewDomainEvent(
		event.OrderValidated, event.EntityOrder, testOrder.ID(), "address verified", "verification",
		base.Add(2*time.Second))
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.EventRepository().Add(ctx, []*event.DomainEvent{&validated, &fetched}))

	query, err := queries.NewGetOrderTimelineQuery(testOrder.ID())
	suite.Require().NoError(err)

	timeline, err := suite.timelineHandler.Handle(ctx, query)
	suite.Require().NoError(err)
	suite.Require().Len(timeline, 2)
	suite.Equal("order.fetched", timeline[0].EventType)
	suite.Equal("order.validated", timeline[1].EventType)
	suite.Equal("intake", timeline[0].Source)
	suite.Equal("address verified", timeline[1].Description)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_TimelineUnknownOrderIsEmpty() {
	query, err := queries.NewGetOrderTimelineQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	timeline, err := suite.timelineHandler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.Empty(timeline)
}

func (suite *GetOrderQueryHandlerTestSuite) seedOrder() *order.Order {
	id := kernel.NewUUID()

	address, err := kernel.NewAddress("7 Olaya St", "", "Riyadh", "Riyadh", "11564", "SA")
	suite.Require().NoError(err)
	value, err := kernel.NewMoney(14900, "SAR")
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		id, "FUL-"+id.String()[:8], "shopify", "SO-"+id.String()[:8],
		"+966500000001", address, value, order.PriorityHigh, time.Now())
	suite.Require().NoError(err)

	err = suite.factory.Create().OrderRepository().Add(context.Background(), testOrder)
	suite.Require().NoError(err)
	return testOrder
}

func TestGetOrderQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOrderQueryHandlerTestSuite))
}

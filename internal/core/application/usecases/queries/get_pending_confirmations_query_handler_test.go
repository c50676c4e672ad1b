package queries_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/verificationrepo"
	"fulfillment/internal/adapters/out/postgres/webhookrepo"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/verification"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// GetPendingConfirmationsQueryHandlerTestSuite exercises the operator
// dashboards over suspended verification attempts and dead-lettered webhook
// deliveries.
type GetPendingConfirmationsQueryHandlerTestSuite struct {
	suite.Suite
	container            *postgres.PostgresContainer
	db                   *gorm.DB
	factory              ports.UnitOfWorkFactory
	confirmationsHandler queries.GetPendingConfirmationsQueryHandler
	failuresHandler      queries.GetFailedDeliveriesQueryHandler
}

func (suite *GetPendingConfirmationsQueryHandlerTestSuite) SetupSuite() {
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
		&verificationrepo.AttemptDTO{},
		&webhookrepo.SubscriptionDTO{}, &webhookrepo.DeliveryRecordDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
	suite.confirmationsHandler = queries.NewGetPendingConfirmationsQueryHandler(db)
	suite.failuresHandler = queries.NewGetFailedDeliveriesQueryHandler(db)
}

func (suite *GetPendingConfirmationsQueryHandlerTestSuite) SetupTest() {
	err := suite.db.Exec(`TRUNCATE TABLE
		orders, pick_lines, pack_tasks,
		verification_attempts,
		webhook_subscriptions, webhook_deliveries`).Error
	suite.Require().NoError(err)
}

func (suite *GetPendingConfirmationsQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GetPendingConfirmationsQueryHandlerTestSuite) TestHandle_ListsSuspendedAttempts() {
	ctx := context.Background()
	uow := suite.factory.Create()

	testOrder := suite.seedOrder()
	attempt := suite.seedAttempt(testOrder.ID(), "RESB3139")

	deadline := time.Now().Add(24 * time.Hour).Truncate(time.Microsecond)
	err := attempt.MarkNeedsConfirmation(nil, "hash-1", testOrder.Contact(), deadline)
	suite.Require().NoError(err)
	suite.Require().NoError(uow.VerificationRepository().Update(ctx, attempt))

	// A second, still-pending attempt must not show up.
	otherOrder := suite.seedOrder()
	suite.seedAttempt(otherOrder.ID(), "QRTX8201")

	resp, err := suite.confirmationsHandler.Handle(ctx, queries.NewGetPendingConfirmationsQuery())
	suite.Require().NoError(err)
	suite.Require().Len(resp, 1)
	suite.Equal(attempt.ID(), resp[0].AttemptID)
	suite.Equal(testOrder.ID(), resp[0].OrderID)
	suite.Equal(testOrder.Reference(), resp[0].OrderReference)
	suite.Equal("+966500000001", resp[0].Contact)
	suite.Equal("RESB3139", resp[0].Shortcode)
	suite.WithinDuration(deadline, resp[0].Deadline, time.Second)
}

func (suite *GetPendingConfirmationsQueryHandlerTestSuite) TestHandle_EmptyWhenNothingSuspended() {
	resp, err := suite.confirmationsHandler.Handle(
		context.Background(), queries.NewGetPendingConfirmationsQuery())
	suite.Require().NoError(err)
	suite.Empty(resp)
}

func (suite *GetPendingConfirmationsQueryHandlerTestSuite) TestHandle_ListsFailedDeliveries() {
	ctx := context.Background()
	uow := suite.factory.Create()

	subscription, err := webhook.NewSubscription(
		kernel.NewUUID(), "erp", "https://erp.example.com/hooks", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.WebhookRepository().AddSubscription(ctx, subscription))

	failed, err := webhook.NewDeliveryRecord(
		kernel.NewUUID(), subscription.ID(), kernel.NewUUID(),
		subscription.TargetURL(), []byte(`{"eventId":"e1"}`), time.Now())
	suite.Require().NoError(err)
	open, err := webhook.NewDeliveryRecord(
		kernel.NewUUID(), subscription.ID(), kernel.NewUUID(),
		subscription.TargetURL(), []byte(`{"eventId":"e2"}`), time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.WebhookRepository().AddDeliveryRecords(
		ctx, []*webhook.DeliveryRecord{failed, open}))

	failed.Abandon("unexpected status 410 Gone", time.Now())
	suite.Require().NoError(uow.WebhookRepository().UpdateDeliveryRecord(ctx, failed))

	resp, err := suite.failuresHandler.Handle(ctx, queries.NewGetFailedDeliveriesQuery())
	suite.Require().NoError(err)
	suite.Require().Len(resp, 1)
	suite.Equal(failed.ID(), resp[0].DeliveryID)
	suite.Equal(subscription.ID(), resp[0].SubscriptionID)
	suite.Equal("https://erp.example.com/hooks", resp[0].TargetURL)
	suite.Equal("unexpected status 410 Gone", resp[0].LastError)
}

func (suite *GetPendingConfirmationsQueryHandlerTestSuite) seedOrder() *order.Order {
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

func (suite *GetPendingConfirmationsQueryHandlerTestSuite) seedAttempt(
	orderID kernel.UUID, code string,
) *verification.Attempt {
	shortcode, err := kernel.NewShortCode(code)
	suite.Require().NoError(err)
	attempt, err := verification.NewAttempt(kernel.NewUUID(), orderID, shortcode, time.Now())
	suite.Require().NoError(err)

	err = suite.factory.Create().VerificationRepository().Add(context.Background(), attempt)
	suite.Require().NoError(err)
	return attempt
}

func TestGetPendingConfirmationsQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetPendingConfirmationsQueryHandlerTestSuite))
}

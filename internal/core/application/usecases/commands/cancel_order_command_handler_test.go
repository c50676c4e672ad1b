package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/verification"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/locker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelOrderCommandHandler_Handle_AbandonsOpenAttempt(t *testing.T) {
	ctx := t.Context()
	aggregate := fetchedOrder(t)
	attempt := pendingAttempt(t, aggregate.ID())
	cmd, err := commands.NewCancelOrderCommand(aggregate.ID())
	require.NoError(t, err)

	verificationRepo := new(MockVerificationRepository)
	orderRepo := new(MockOrderRepository)
	eventRepo := new(MockEventRepository)
	webhookRepo := new(MockWebhookRepository)
	uow := new(MockUoW)
	wireVerificationUoW(uow, verificationRepo, orderRepo, eventRepo, webhookRepo)

	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	orderRepo.On("Update", ctx, aggregate).Return(nil).Once()
	verificationRepo.On("GetOpenByOrder", ctx, aggregate.ID()).Return(attempt, nil).Once()
	verificationRepo.On("Update", ctx, attempt).Return(nil).Once()
	eventRepo.On("Add", ctx, mock.AnythingOfType("[]*event.DomainEvent")).Return(nil).Once()
	webhookRepo.On("GetActiveSubscriptions", ctx).Return(nil, nil).Once()

	factory := new(MockVerificationUoWFactory)
	factory.On("Create").Return(uow).Once()
	publisher := new(FakePublisher)

	h := commands.NewCancelOrderCommandHandler(factory, publisher, locker.NewKeyedLocker())
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, aggregate.Status())
	assert.Equal(t, verification.Failed, attempt.Outcome())
	require.Len(t, publisher.published, 1)
	assert.Equal(t, event.OrderCancelled, publisher.published[0].Type())
	verificationRepo.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_WithoutOpenAttempt(t *testing.T) {
	ctx := t.Context()
	aggregate := fetchedOrder(t)
	cmd, err := commands.NewCancelOrderCommand(aggregate.ID())
	require.NoError(t, err)

	verificationRepo := new(MockVerificationRepository)
	orderRepo := new(MockOrderRepository)
	eventRepo := new(MockEventRepository)
	webhookRepo := new(MockWebhookRepository)
	uow := new(MockUoW)
	wireVerificationUoW(uow, verificationRepo, orderRepo, eventRepo, webhookRepo)

	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	orderRepo.On("Update", ctx, aggregate).Return(nil).Once()
	verificationRepo.On("GetOpenByOrder", ctx, aggregate.ID()).
		Return(nil, errs.NewObjectNotFoundError("verification attempt", aggregate.ID())).Once()
	eventRepo.On("Add", ctx, mock.AnythingOfType("[]*event.DomainEvent")).Return(nil).Once()
	webhookRepo.On("GetActiveSubscriptions", ctx).Return(nil, nil).Once()

	factory := new(MockVerificationUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelOrderCommandHandler(factory, new(FakePublisher), locker.NewKeyedLocker())
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Cancelled, aggregate.Status())
}

// shippedOrder walks a validated order through its real transitions to
// shipped: pick, pack, awb scan, manifest handover.
func shippedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := validatedOrder(t)
	now := time.Now()

	_, err := o.ApplyScan("SKU-RED-M", order.ContextSKU, now)
	require.NoError(t, err)
	_, err = o.ApplyScan("TOTE-17", order.ContextTote, now)
	require.NoError(t, err)
	require.Equal(t, order.Packed, o.Status())
	_, err = o.ApplyScan("AWB-4411", order.ContextAWB, now)
	require.NoError(t, err)
	require.NoError(t, o.MarkShipped("aramex", now))
	return o
}

func TestCancelOrderCommandHandler_Handle_ShippedOrderRejected(t *testing.T) {
	ctx := t.Context()
	cmdOrder := shippedOrder(t)
	cmd, err := commands.NewCancelOrderCommand(cmdOrder.ID())
	require.NoError(t, err)

	verificationRepo := new(MockVerificationRepository)
	orderRepo := new(MockOrderRepository)
	eventRepo := new(MockEventRepository)
	webhookRepo := new(MockWebhookRepository)
	uow := new(MockUoW)
	wireVerificationUoW(uow, verificationRepo, orderRepo, eventRepo, webhookRepo)

	orderRepo.On("Get", ctx, cmdOrder.ID()).Return(cmdOrder, nil).Once()

	factory := new(MockVerificationUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCancelOrderCommandHandler(factory, new(FakePublisher), locker.NewKeyedLocker())
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrIllegalTransition)
	assert.Equal(t, order.Shipped, cmdOrder.Status())
}

package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/manifest"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/locker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// packedOrderWithAWB walks a validated order to packed and applies its
// dispatch AWB scan.
func packedOrderWithAWB(t *testing.T) *order.Order {
	t.Helper()
	o := validatedOrder(t)
	now := time.Now()

	_, err := o.ApplyScan("SKU-RED-M", order.ContextSKU, now)
	require.NoError(t, err)
	_, err = o.ApplyScan("TOTE-17", order.ContextTote, now)
	require.NoError(t, err)
	_, err = o.ApplyScan("AWB-4411", order.ContextAWB, now)
	require.NoError(t, err)
	return o
}

func wireManifestUoW(
	uow *MockUoW,
	manifestRepo *MockManifestRepository,
	orderRepo *MockOrderRepository,
	eventRepo *MockEventRepository,
	webhookRepo *MockWebhookRepository,
) {
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Commit", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	uow.On("ManifestRepository").Return(manifestRepo)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("EventRepository").Return(eventRepo)
	uow.On("WebhookRepository").Return(webhookRepo)
}

func TestHandOverManifestCommandHandler_Handle_ShipsOrders(t *testing.T) {
	ctx := t.Context()
	aggregate := packedOrderWithAWB(t)

	m, err := manifest.NewManifest(kernel.NewUUID(), "aramex", time.Now())
	require.NoError(t, err)
	require.NoError(t, m.AddItem(aggregate.ID(), aggregate.AWB()))

	cmd, err := commands.NewHandOverManifestCommand(m.ID())
	require.NoError(t, err)

	manifestRepo := new(MockManifestRepository)
	orderRepo := new(MockOrderRepository)
	eventRepo := new(MockEventRepository)
	webhookRepo := new(MockWebhookRepository)
	uow := new(MockUoW)
	wireManifestUoW(uow, manifestRepo, orderRepo, eventRepo, webhookRepo)

	manifestRepo.On("GetManifest", ctx, m.ID()).Return(m, nil).Once()
	manifestRepo.On("UpdateManifest", ctx, m).Return(nil).Once()
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	orderRepo.On("Update", ctx, aggregate).Return(nil).Once()
	eventRepo.On("Add", ctx, mock.AnythingOfType("[]*event.DomainEvent")).Return(nil).Twice()
	webhookRepo.On("GetActiveSubscriptions", ctx).Return(nil, nil).Twice()

	factory := new(MockManifestUoWFactory)
	factory.On("Create").Return(uow).Once()
	publisher := new(FakePublisher)

	h := commands.NewHandOverManifestCommandHandler(factory, publisher, locker.NewKeyedLocker())
	err = h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Shipped, aggregate.Status())
	assert.Equal(t, "aramex", aggregate.Courier())
	assert.True(t, m.IsHandedOver())
	require.Len(t, publisher.published, 2)
	assert.Equal(t, event.OrderShipped, publisher.published[0].Type())
	assert.Equal(t, event.ManifestHandedOver, publisher.published[1].Type())
	manifestRepo.AssertExpectations(t)
}

func TestHandOverManifestCommandHandler_Handle_AlreadyHandedOver(t *testing.T) {
	ctx := t.Context()

	m, err := manifest.NewManifest(kernel.NewUUID(), "aramex", time.Now())
	require.NoError(t, err)
	require.NoError(t, m.AddItem(kernel.NewUUID(), "AWB-9000"))
	require.NoError(t, m.HandOver(time.Now()))

	cmd, err := commands.NewHandOverManifestCommand(m.ID())
	require.NoError(t, err)

	manifestRepo := new(MockManifestRepository)
	uow := new(MockUoW)
	uow.On("Begin", mock.Anything).Return(nil)
	uow.On("Rollback", mock.Anything).Return(nil)
	uow.On("ManifestRepository").Return(manifestRepo)
	manifestRepo.On("GetManifest", ctx, m.ID()).Return(m, nil).Once()

	factory := new(MockManifestUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewHandOverManifestCommandHandler(factory, new(FakePublisher), locker.NewKeyedLocker())
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrIllegalTransition)
}

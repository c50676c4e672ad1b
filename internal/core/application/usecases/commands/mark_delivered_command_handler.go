package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/locker"
)

// MarkDeliveredCommandHandler completes an order's lifecycle on the driver's
// delivery confirmation.
type MarkDeliveredCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	orderLocks *locker.KeyedLocker
}

// NewMarkDeliveredCommandHandler creates a handler for delivery confirmations.
func NewMarkDeliveredCommandHandler(
	uowFactory OrderUoWFactory, publisher ports.EventPublisher, orderLocks *locker.KeyedLocker,
) MarkDeliveredCommandHandler {
	return MarkDeliveredCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		orderLocks: orderLocks,
	}
}

// Handle processes the delivery confirmation. Only shipped orders can be
// delivered; the domain rejects anything else.
func (h *MarkDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkDeliveredCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	h.orderLocks.Lock(cmd.OrderID().String())
	defer h.orderLocks.Unlock(cmd.OrderID().String())

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = aggregate.MarkDelivered(now); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	events, err := recordEvents(ctx, uow, []event.Type{event.OrderDelivered},
		event.EntityOrder, cmd.OrderID(), "order delivered", dispatchSource, now)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events...)
	return nil
}

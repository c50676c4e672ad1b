package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/locker"
)

// CancelOrderCommandHandler cancels a pre-shipment order and abandons its
// in-flight verification attempt so the pipeline never retries for a dead
// order.
type CancelOrderCommandHandler struct {
	uowFactory VerificationUoWFactory
	publisher  ports.EventPublisher
	orderLocks *locker.KeyedLocker
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory VerificationUoWFactory, publisher ports.EventPublisher, orderLocks *locker.KeyedLocker,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		orderLocks: orderLocks,
	}
}

// Handle processes the cancellation. Shipped and delivered orders cannot be
// cancelled; the domain rejects those with an illegal transition.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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
	if err = aggregate.Cancel(now); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	attempt, err := uow.VerificationRepository().GetOpenByOrder(ctx, cmd.OrderID())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if attempt != nil && attempt.Abandon(now) {
		if err = uow.VerificationRepository().Update(ctx, attempt); err != nil {
			return err
		}
	}

	events, err := recordEvents(ctx, uow, []event.Type{event.OrderCancelled},
		event.EntityOrder, cmd.OrderID(), "order cancelled", operationsSource, now)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events...)
	return nil
}

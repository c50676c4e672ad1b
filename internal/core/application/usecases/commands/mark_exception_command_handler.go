package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/locker"
)

// operationsSource labels events produced by operator actions.
const operationsSource = "operations"

// MarkExceptionCommandHandler flags an order for operator intervention.
type MarkExceptionCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	orderLocks *locker.KeyedLocker
}

// NewMarkExceptionCommandHandler creates a handler for exception flagging.
func NewMarkExceptionCommandHandler(
	uowFactory OrderUoWFactory, publisher ports.EventPublisher, orderLocks *locker.KeyedLocker,
) MarkExceptionCommandHandler {
	return MarkExceptionCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		orderLocks: orderLocks,
	}
}

// Handle processes the exception command. Re-flagging an order already in
// exception succeeds without emitting a second event.
func (h *MarkExceptionCommandHandler) Handle(ctx context.Context, cmd MarkExceptionCommand) error {
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

	changed, err := aggregate.MarkException(cmd.Reason(), now)
	if err != nil {
		return err
	}
	if !changed {
		return uow.Commit(ctx)
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	events, err := recordEvents(ctx, uow, []event.Type{event.OrderException},
		event.EntityOrder, cmd.OrderID(), cmd.Reason(), operationsSource, now)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events...)
	return nil
}

package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/locker"
)

// ConfirmAddressCommandHandler resolves a suspended verification attempt
// with the customer's answer and advances the order to validated.
type ConfirmAddressCommandHandler struct {
	uowFactory VerificationUoWFactory
	publisher  ports.EventPublisher
	orderLocks *locker.KeyedLocker
}

// NewConfirmAddressCommandHandler creates a handler for customer confirmations.
func NewConfirmAddressCommandHandler(
	uowFactory VerificationUoWFactory, publisher ports.EventPublisher, orderLocks *locker.KeyedLocker,
) ConfirmAddressCommandHandler {
	return ConfirmAddressCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		orderLocks: orderLocks,
	}
}

// Handle processes the confirmation. The order must have an open attempt
// awaiting confirmation; anything else is an illegal transition.
func (h *ConfirmAddressCommandHandler) Handle(ctx context.Context, cmd ConfirmAddressCommand) error {
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

	attempt, err := uow.VerificationRepository().GetOpenByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	confirmed := cmd.Address()
	if confirmed == nil {
		confirmed = attempt.ResolvedAddress()
	}
	if confirmed == nil {
		return errs.NewValueIsRequiredError("address")
	}

	if err = attempt.ConfirmByCustomer(*confirmed, now); err != nil {
		return err
	}

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = aggregate.MarkValidated(*confirmed, now); err != nil {
		return err
	}

	if err = uow.VerificationRepository().Update(ctx, attempt); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	events, err := recordEvents(ctx, uow,
		[]event.Type{event.VerifyResolved, event.OrderValidated},
		event.EntityOrder, cmd.OrderID(),
		"address confirmed by customer", verificationSource, now)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events...)
	return nil
}

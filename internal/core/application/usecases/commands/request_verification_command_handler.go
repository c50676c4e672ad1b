package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/verification"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/locker"
)

// verificationSource labels events produced by the verification pipeline.
const verificationSource = "verification"

// RequestVerificationCommandHandler opens an address verification attempt
// for an order. The attempt itself is resolved asynchronously by the
// verification worker; this handler only records that verification is due.
type RequestVerificationCommandHandler struct {
	uowFactory VerificationUoWFactory
	publisher  ports.EventPublisher
	orderLocks *locker.KeyedLocker
}

// NewRequestVerificationCommandHandler creates a handler for verification requests.
func NewRequestVerificationCommandHandler(
	uowFactory VerificationUoWFactory, publisher ports.EventPublisher, orderLocks *locker.KeyedLocker,
) RequestVerificationCommandHandler {
	return RequestVerificationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		orderLocks: orderLocks,
	}
}

// Handle processes the verification request. Only orders still in fetched
// status are eligible. If the order already has an in-flight attempt the
// request resolves to that attempt and no new one is opened. The per-order
// lock spans the dedup check and the insert, so concurrent requests for one
// order cannot both open an attempt.
func (h *RequestVerificationCommandHandler) Handle(ctx context.Context, cmd RequestVerificationCommand) error {
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

	_, err := uow.VerificationRepository().GetOpenByOrder(ctx, cmd.OrderID())
	if err == nil {
		// Deduplicated: an attempt is already in flight for this order.
		return nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if aggregate.Status() != order.Fetched {
		return errs.NewIllegalTransitionError(
			"order", aggregate.Status().String(), order.Validated.String())
	}

	attempt, err := verification.NewAttempt(kernel.NewUUID(), cmd.OrderID(), cmd.ShortCode(), now)
	if err != nil {
		return err
	}
	if err = uow.VerificationRepository().Add(ctx, attempt); err != nil {
		return err
	}

	events, err := recordEvents(ctx, uow, []event.Type{event.VerifyRequested},
		event.EntityOrder, cmd.OrderID(),
		fmt.Sprintf("address verification requested for shortcode %s", cmd.ShortCode()),
		verificationSource, now)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events...)
	return nil
}

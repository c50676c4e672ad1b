package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/locker"
)

// ExpireConfirmationsCommandHandler fails verification attempts whose
// customer confirmation deadline passed without an answer, moving their
// orders to exception.
type ExpireConfirmationsCommandHandler struct {
	uowFactory VerificationUoWFactory
	publisher  ports.EventPublisher
	orderLocks *locker.KeyedLocker
}

// NewExpireConfirmationsCommandHandler creates a handler for expiry sweeps.
func NewExpireConfirmationsCommandHandler(
	uowFactory VerificationUoWFactory, publisher ports.EventPublisher, orderLocks *locker.KeyedLocker,
) ExpireConfirmationsCommandHandler {
	return ExpireConfirmationsCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		orderLocks: orderLocks,
	}
}

// Handle processes one expiry sweep. A failing order does not stop the
// sweep; errors are joined and reported together.
func (h *ExpireConfirmationsCommandHandler) Handle(ctx context.Context, cmd ExpireConfirmationsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	orderIDs, err := h.collectSuspended(ctx)
	if err != nil {
		return err
	}

	var errsJoined error
	for _, orderID := range orderIDs {
		if err = h.expireOne(ctx, orderID); err != nil {
			errsJoined = errors.Join(errsJoined, fmt.Errorf("order %s: %w", orderID, err))
		}
	}
	return errsJoined
}

func (h *ExpireConfirmationsCommandHandler) collectSuspended(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	attempts, err := uow.VerificationRepository().GetAllAwaitingConfirmation(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	orderIDs := make([]kernel.UUID, 0, len(attempts))
	for _, a := range attempts {
		if a.Confirmation() != nil && a.Confirmation().IsExpired(now) {
			orderIDs = append(orderIDs, a.OrderID())
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return orderIDs, nil
}

func (h *ExpireConfirmationsCommandHandler) expireOne(ctx context.Context, orderID kernel.UUID) error {
	h.orderLocks.Lock(orderID.String())
	defer h.orderLocks.Unlock(orderID.String())

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	attempt, err := uow.VerificationRepository().GetOpenByOrder(ctx, orderID)
	if err != nil {
		// Confirmed or abandoned since the sweep snapshot.
		return nil
	}

	changed, err := attempt.ExpireConfirmation(now)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	aggregate, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return err
	}
	exceptioned, err := aggregate.MarkVerificationFailed(now)
	if err != nil {
		return err
	}

	if err = uow.VerificationRepository().Update(ctx, attempt); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	types := []event.Type{event.VerifyFailed}
	if exceptioned {
		types = append(types, event.OrderException)
	}
	events, err := recordEvents(ctx, uow, types, event.EntityOrder, orderID,
		"customer confirmation expired", verificationSource, now)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events...)
	return nil
}

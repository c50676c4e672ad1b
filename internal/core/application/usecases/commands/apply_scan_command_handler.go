package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/locker"
)

// ApplyScanCommandHandler routes one warehouse scan to the order owning the
// scanned code and applies the resulting transitions under the per-order
// lock. Concurrent scans on different orders proceed in parallel; scans on
// the same order serialize.
type ApplyScanCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	orderLocks *locker.KeyedLocker
}

// NewApplyScanCommandHandler creates a handler for warehouse scans.
func NewApplyScanCommandHandler(
	uowFactory OrderUoWFactory, publisher ports.EventPublisher, orderLocks *locker.KeyedLocker,
) ApplyScanCommandHandler {
	return ApplyScanCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		orderLocks: orderLocks,
	}
}

// Handle processes one scan. A code no open order owns fails with a scan
// context mismatch and mutates nothing.
func (h *ApplyScanCommandHandler) Handle(ctx context.Context, cmd ApplyScanCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	orderID, err := h.resolveOrder(ctx, cmd)
	if err != nil {
		return err
	}

	h.orderLocks.Lock(orderID.String())
	defer h.orderLocks.Unlock(orderID.String())

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return err
	}

	types, err := aggregate.ApplyScan(cmd.Code(), cmd.ScanContext(), now)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	events, err := recordEvents(ctx, uow, types, event.EntityOrder, orderID,
		fmt.Sprintf("scan %s applied in %s context", cmd.Code(), cmd.ScanContext()),
		cmd.ActorID(), now)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events...)
	return nil
}

// resolveOrder finds the order owning the scanned code without holding the
// per-order lock, since the owner is not known until the lookup completes.
func (h *ApplyScanCommandHandler) resolveOrder(ctx context.Context, cmd ApplyScanCommand) (kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().FindByScanCode(ctx, cmd.Code(), cmd.ScanContext())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return kernel.UUID{}, errs.NewScanContextMismatchError(cmd.Code(), cmd.ScanContext().String())
		}
		return kernel.UUID{}, err
	}

	orderID := aggregate.ID()
	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}
	return orderID, nil
}

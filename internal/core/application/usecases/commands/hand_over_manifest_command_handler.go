package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/locker"
)

// HandOverManifestCommandHandler freezes a manifest and ships every order on
// it in one transaction: either the whole handover happens or none of it.
type HandOverManifestCommandHandler struct {
	uowFactory ManifestUoWFactory
	publisher  ports.EventPublisher
	orderLocks *locker.KeyedLocker
}

// NewHandOverManifestCommandHandler creates a handler for manifest handover.
func NewHandOverManifestCommandHandler(
	uowFactory ManifestUoWFactory, publisher ports.EventPublisher, orderLocks *locker.KeyedLocker,
) HandOverManifestCommandHandler {
	return HandOverManifestCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		orderLocks: orderLocks,
	}
}

// Handle processes the handover. Per-order locks are taken in sorted id
// order so two overlapping handovers cannot deadlock.
func (h *HandOverManifestCommandHandler) Handle(ctx context.Context, cmd HandOverManifestCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.ManifestRepository().GetManifest(ctx, cmd.ManifestID())
	if err != nil {
		return err
	}

	lockKeys := make([]string, 0, len(aggregate.OrderIDs()))
	for _, orderID := range aggregate.OrderIDs() {
		lockKeys = append(lockKeys, orderID.String())
	}
	sort.Strings(lockKeys)
	for _, key := range lockKeys {
		h.orderLocks.Lock(key)
	}
	defer func() {
		for _, key := range lockKeys {
			h.orderLocks.Unlock(key)
		}
	}()

	if err = aggregate.HandOver(now); err != nil {
		return err
	}
	if err = uow.ManifestRepository().UpdateManifest(ctx, aggregate); err != nil {
		return err
	}

	var events []*event.DomainEvent
	for _, orderID := range aggregate.OrderIDs() {
		o, orderErr := uow.OrderRepository().Get(ctx, orderID)
		if orderErr != nil {
			return orderErr
		}
		if orderErr = o.MarkShipped(aggregate.Courier(), now); orderErr != nil {
			return orderErr
		}
		if orderErr = uow.OrderRepository().Update(ctx, o); orderErr != nil {
			return orderErr
		}

		orderEvents, orderErr := recordEvents(ctx, uow, []event.Type{event.OrderShipped},
			event.EntityOrder, orderID,
			fmt.Sprintf("shipped with %s on manifest %s", aggregate.Courier(), aggregate.ID()),
			dispatchSource, now)
		if orderErr != nil {
			return orderErr
		}
		events = append(events, orderEvents...)
	}

	manifestEvents, err := recordEvents(ctx, uow, []event.Type{event.ManifestHandedOver},
		event.EntityManifest, aggregate.ID(),
		fmt.Sprintf("manifest handed over to %s", aggregate.Courier()),
		dispatchSource, now)
	if err != nil {
		return err
	}
	events = append(events, manifestEvents...)

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events...)
	return nil
}

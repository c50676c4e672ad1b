package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/manifest"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// dispatchSource labels events produced by the dispatch desk.
const dispatchSource = "dispatch"

// CreateManifestCommandHandler opens a courier manifest over packed orders.
// The manifest stays open for further items until it is handed over.
type CreateManifestCommandHandler struct {
	uowFactory ManifestUoWFactory
}

// NewCreateManifestCommandHandler creates a handler for manifest creation.
func NewCreateManifestCommandHandler(uowFactory ManifestUoWFactory) CreateManifestCommandHandler {
	return CreateManifestCommandHandler{uowFactory: uowFactory}
}

// Handle processes the manifest creation command. Every listed order must be
// packed and carry an AWB; otherwise the whole command fails and nothing is
// persisted.
func (h *CreateManifestCommandHandler) Handle(ctx context.Context, cmd CreateManifestCommand) error {
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

	aggregate, err := manifest.NewManifest(cmd.ManifestID(), cmd.Courier(), now)
	if err != nil {
		return err
	}

	for _, orderID := range cmd.OrderIDs() {
		o, orderErr := uow.OrderRepository().Get(ctx, orderID)
		if orderErr != nil {
			return orderErr
		}
		if o.Status() != order.Packed {
			return errs.NewIllegalTransitionError("order", o.Status().String(), order.Shipped.String())
		}
		if o.AWB() == "" {
			return errs.NewValueIsRequiredError("awb")
		}
		if orderErr = aggregate.AddItem(orderID, o.AWB()); orderErr != nil {
			return orderErr
		}
	}

	if err = uow.ManifestRepository().AddManifest(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

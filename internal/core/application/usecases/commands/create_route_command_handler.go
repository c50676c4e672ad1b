package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/manifest"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// CreateRouteCommandHandler opens a delivery route over shipped orders. The
// stop address is the verified delivery address each order settled on.
type CreateRouteCommandHandler struct {
	uowFactory ManifestUoWFactory
}

// NewCreateRouteCommandHandler creates a handler for route creation.
func NewCreateRouteCommandHandler(uowFactory ManifestUoWFactory) CreateRouteCommandHandler {
	return CreateRouteCommandHandler{uowFactory: uowFactory}
}

// Handle processes the route creation command. Every listed order must be
// shipped; otherwise the whole command fails and nothing is persisted.
func (h *CreateRouteCommandHandler) Handle(ctx context.Context, cmd CreateRouteCommand) error {
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

	aggregate, err := manifest.NewRoute(cmd.RouteID(), cmd.Driver(), cmd.Vehicle(), now)
	if err != nil {
		return err
	}

	for _, orderID := range cmd.OrderIDs() {
		o, orderErr := uow.OrderRepository().Get(ctx, orderID)
		if orderErr != nil {
			return orderErr
		}
		if o.Status() != order.Shipped {
			return errs.NewIllegalTransitionError("order", o.Status().String(), order.Delivered.String())
		}
		if orderErr = aggregate.AddStop(orderID, o.Address()); orderErr != nil {
			return orderErr
		}
	}

	if err = uow.ManifestRepository().AddRoute(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

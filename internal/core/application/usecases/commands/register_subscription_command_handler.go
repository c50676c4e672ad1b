package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/webhook"
)

// RegisterSubscriptionCommandHandler registers an external webhook subscriber.
type RegisterSubscriptionCommandHandler struct {
	uowFactory WebhookUoWFactory
}

// NewRegisterSubscriptionCommandHandler creates a handler for subscriber registration.
func NewRegisterSubscriptionCommandHandler(uowFactory WebhookUoWFactory) RegisterSubscriptionCommandHandler {
	return RegisterSubscriptionCommandHandler{uowFactory: uowFactory}
}

// Handle processes the registration. The target URL is validated by the
// subscription aggregate.
func (h *RegisterSubscriptionCommandHandler) Handle(ctx context.Context, cmd RegisterSubscriptionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := webhook.NewSubscription(
		cmd.SubscriptionID(), cmd.Name(), cmd.TargetURL(), time.Now().UTC())
	if err != nil {
		return err
	}

	if err = uow.WebhookRepository().AddSubscription(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

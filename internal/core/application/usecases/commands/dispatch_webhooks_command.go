package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrDispatchWebhooksCommandIsNotConstructed = errors.New(
	"DispatchWebhooksCommand must be created via NewDispatchWebhooksCommand constructor",
)

// DispatchWebhooksCommand triggers one sweep of the webhook delivery worker:
// every due delivery record gets one HTTP attempt.
type DispatchWebhooksCommand struct {
	guard guard.ConstructorGuard
}

// NewDispatchWebhooksCommand creates a parameterless delivery sweep command.
func NewDispatchWebhooksCommand() DispatchWebhooksCommand {
	return DispatchWebhooksCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c DispatchWebhooksCommand) Validate() error {
	return c.guard.Validate(ErrDispatchWebhooksCommandIsNotConstructed)
}

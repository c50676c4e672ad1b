package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrExpireConfirmationsCommandIsNotConstructed = errors.New(
	"ExpireConfirmationsCommand must be created via NewExpireConfirmationsCommand constructor",
)

// ExpireConfirmationsCommand triggers one sweep over attempts suspended on a
// customer confirmation, failing the ones whose deadline has passed. Issued
// by the confirmation timeout worker.
type ExpireConfirmationsCommand struct {
	guard guard.ConstructorGuard
}

// NewExpireConfirmationsCommand creates a parameterless expiry sweep command.
func NewExpireConfirmationsCommand() ExpireConfirmationsCommand {
	return ExpireConfirmationsCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c ExpireConfirmationsCommand) Validate() error {
	return c.guard.Validate(ErrExpireConfirmationsCommandIsNotConstructed)
}

package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrResolveVerificationsCommandIsNotConstructed = errors.New(
	"ResolveVerificationsCommand must be created via NewResolveVerificationsCommand constructor",
)

// ResolveVerificationsCommand triggers one sweep of the verification
// pipeline: every due attempt gets one registry call and its outcome applied.
// Issued by the verification worker on each tick.
type ResolveVerificationsCommand struct {
	guard guard.ConstructorGuard
}

// NewResolveVerificationsCommand creates a parameterless pipeline sweep command.
func NewResolveVerificationsCommand() ResolveVerificationsCommand {
	return ResolveVerificationsCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c ResolveVerificationsCommand) Validate() error {
	return c.guard.Validate(ErrResolveVerificationsCommandIsNotConstructed)
}

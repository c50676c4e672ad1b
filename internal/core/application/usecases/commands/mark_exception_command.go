package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkExceptionCommandIsNotConstructed = errors.New(
	"MarkExceptionCommand must be created via NewMarkExceptionCommand constructor",
)

// MarkExceptionCommand represents a request to flag an order as requiring
// operator intervention. Idempotent: flagging an order already in exception
// keeps the original reason and succeeds.
type MarkExceptionCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewMarkExceptionCommand creates an exception command.
func NewMarkExceptionCommand(orderID kernel.UUID, reason string) (MarkExceptionCommand, error) {
	cmd := MarkExceptionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReason(reason),
	); err != nil {
		return MarkExceptionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkExceptionCommand) Validate() error {
	return c.guard.Validate(ErrMarkExceptionCommandIsNotConstructed)
}

// OrderID returns the order to flag.
func (c MarkExceptionCommand) OrderID() kernel.UUID { return c.orderID }

// Reason returns the machine-readable exception reason.
func (c MarkExceptionCommand) Reason() string { return c.reason }

func (c *MarkExceptionCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *MarkExceptionCommand) setReason(reason string) error {
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}

	c.reason = reason
	return nil
}

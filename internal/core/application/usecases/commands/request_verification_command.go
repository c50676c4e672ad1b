package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRequestVerificationCommandIsNotConstructed = errors.New(
	"RequestVerificationCommand must be created via NewRequestVerificationCommand constructor",
)

// RequestVerificationCommand represents a request to verify an order's
// delivery address through the national address registry. Requests are
// deduplicated on the order: a second request while an attempt is in flight
// is a no-op, not a second registry call.
type RequestVerificationCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	shortcode kernel.ShortCode

	guard guard.ConstructorGuard
}

// NewRequestVerificationCommand creates a verification request. The
// shortcode format is validated here, before any network call is made.
func NewRequestVerificationCommand(orderID kernel.UUID, shortcode string) (RequestVerificationCommand, error) {
	cmd := RequestVerificationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setShortcode(shortcode),
	); err != nil {
		return RequestVerificationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RequestVerificationCommand) Validate() error {
	return c.guard.Validate(ErrRequestVerificationCommandIsNotConstructed)
}

// OrderID returns the order whose address is to be verified.
func (c RequestVerificationCommand) OrderID() kernel.UUID { return c.orderID }

// ShortCode returns the shortcode to resolve.
func (c RequestVerificationCommand) ShortCode() kernel.ShortCode { return c.shortcode }

func (c *RequestVerificationCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *RequestVerificationCommand) setShortcode(shortcode string) error {
	code, err := kernel.NewShortCode(shortcode)
	if err != nil {
		return err
	}

	c.shortcode = code
	return nil
}

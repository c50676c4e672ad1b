package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmAddressCommandIsNotConstructed = errors.New(
	"ConfirmAddressCommand must be created via NewConfirmAddressCommand constructor",
)

// ConfirmAddressCommand represents an inbound customer confirmation for an
// order whose verification is suspended awaiting one. The customer either
// accepts the address the registry suggested (no address in the command) or
// supplies a corrected one.
type ConfirmAddressCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	address *kernel.Address

	guard guard.ConstructorGuard
}

// NewConfirmAddressCommand creates a confirmation command. A nil address
// means "the suggested address is correct".
func NewConfirmAddressCommand(orderID kernel.UUID, address *kernel.Address) (ConfirmAddressCommand, error) {
	cmd := ConfirmAddressCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAddress(address),
	); err != nil {
		return ConfirmAddressCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmAddressCommand) Validate() error {
	return c.guard.Validate(ErrConfirmAddressCommandIsNotConstructed)
}

// OrderID returns the order being confirmed.
func (c ConfirmAddressCommand) OrderID() kernel.UUID { return c.orderID }

// Address returns the customer-corrected address, or nil when the suggested
// address was accepted as-is.
func (c ConfirmAddressCommand) Address() *kernel.Address { return c.address }

func (c *ConfirmAddressCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *ConfirmAddressCommand) setAddress(address *kernel.Address) error {
	if address == nil {
		return nil
	}
	if err := address.Validate(); err != nil {
		return err
	}

	c.address = address
	return nil
}

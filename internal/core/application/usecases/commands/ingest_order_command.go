package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrIngestOrderCommandIsNotConstructed = errors.New(
	"IngestOrderCommand must be created via NewIngestOrderCommand constructor",
)

// IngestLine is one order line from the source payload: the SKU to pick, the
// bin it lives in, and how many units are required.
type IngestLine struct {
	SKU string
	Bin string
	Qty int
}

// IngestTote is one packing tote assigned to the order.
type IngestTote struct {
	Tote string
}

// IngestOrderCommand represents a request to ingest one upstream order from a
// sales channel. Intake is idempotent on the (channel, source number) pair:
// replaying the same upstream order is rejected with a duplicate request
// error instead of creating a second aggregate.
type IngestOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	reference    string
	channel      string
	sourceNumber string
	contact      string
	shortcode    *kernel.ShortCode
	address      kernel.Address
	value        kernel.Money
	priority     order.Priority
	lines        []IngestLine
	totes        []IngestTote

	guard guard.ConstructorGuard
}

// NewIngestOrderCommand creates a command to ingest an upstream order.
// The shortcode is optional: when present it must match the registry format
// and an address verification attempt is opened together with the order.
func NewIngestOrderCommand(
	orderID kernel.UUID,
	reference string,
	channel string,
	sourceNumber string,
	contact string,
	shortcode string,
	address kernel.Address,
	value kernel.Money,
	priority order.Priority,
	lines []IngestLine,
	totes []IngestTote,
) (IngestOrderCommand, error) {
	cmd := IngestOrderCommand{
		contact: contact,
		lines:   lines,
		totes:   totes,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setReference(reference),
		cmd.setChannel(channel),
		cmd.setSourceNumber(sourceNumber),
		cmd.setShortcode(shortcode),
		cmd.setAddress(address),
		cmd.setValue(value),
		cmd.setPriority(priority),
	); err != nil {
		return IngestOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c IngestOrderCommand) Validate() error {
	return c.guard.Validate(ErrIngestOrderCommandIsNotConstructed)
}

// OrderID returns the identifier assigned to the new order.
func (c IngestOrderCommand) OrderID() kernel.UUID { return c.orderID }

// Reference returns the human-facing order reference.
func (c IngestOrderCommand) Reference() string { return c.reference }

// Channel returns the sales channel the order came from.
func (c IngestOrderCommand) Channel() string { return c.channel }

// SourceNumber returns the upstream order number within the channel.
func (c IngestOrderCommand) SourceNumber() string { return c.sourceNumber }

// Contact returns the customer contact number.
func (c IngestOrderCommand) Contact() string { return c.contact }

// ShortCode returns the customer's address shortcode, or nil when the
// payload carried none.
func (c IngestOrderCommand) ShortCode() *kernel.ShortCode { return c.shortcode }

// Address returns the delivery address as stated in the payload.
func (c IngestOrderCommand) Address() kernel.Address { return c.address }

// Value returns the order's monetary value.
func (c IngestOrderCommand) Value() kernel.Money { return c.value }

// Priority returns the fulfillment priority.
func (c IngestOrderCommand) Priority() order.Priority { return c.priority }

// Lines returns the order lines to pick.
func (c IngestOrderCommand) Lines() []IngestLine { return c.lines }

// Totes returns the packing totes assigned to the order.
func (c IngestOrderCommand) Totes() []IngestTote { return c.totes }

func (c *IngestOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *IngestOrderCommand) setReference(reference string) error {
	if reference == "" {
		return errs.NewValueIsRequiredError("reference")
	}

	c.reference = reference
	return nil
}

func (c *IngestOrderCommand) setChannel(channel string) error {
	if channel == "" {
		return errs.NewValueIsRequiredError("channel")
	}

	c.channel = channel
	return nil
}

func (c *IngestOrderCommand) setSourceNumber(sourceNumber string) error {
	if sourceNumber == "" {
		return errs.NewValueIsRequiredError("sourceNumber")
	}

	c.sourceNumber = sourceNumber
	return nil
}

func (c *IngestOrderCommand) setShortcode(shortcode string) error {
	if shortcode == "" {
		return nil
	}

	code, err := kernel.NewShortCode(shortcode)
	if err != nil {
		return err
	}

	c.shortcode = &code
	return nil
}

func (c *IngestOrderCommand) setAddress(address kernel.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}

	c.address = address
	return nil
}

func (c *IngestOrderCommand) setValue(value kernel.Money) error {
	if err := value.Validate(); err != nil {
		return err
	}

	c.value = value
	return nil
}

func (c *IngestOrderCommand) setPriority(priority order.Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}

	c.priority = priority
	return nil
}

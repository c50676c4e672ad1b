package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateManifestCommandIsNotConstructed = errors.New(
	"CreateManifestCommand must be created via NewCreateManifestCommand constructor",
)

// CreateManifestCommand represents a request to open a courier manifest over
// a set of packed orders. Each order must already carry its dispatch AWB.
type CreateManifestCommand struct { //nolint:recvcheck //using for validation
	manifestID kernel.UUID
	courier    string
	orderIDs   []kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateManifestCommand creates a manifest creation command.
func NewCreateManifestCommand(
	manifestID kernel.UUID, courier string, orderIDs []kernel.UUID,
) (CreateManifestCommand, error) {
	cmd := CreateManifestCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setManifestID(manifestID),
		cmd.setCourier(courier),
		cmd.setOrderIDs(orderIDs),
	); err != nil {
		return CreateManifestCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateManifestCommand) Validate() error {
	return c.guard.Validate(ErrCreateManifestCommandIsNotConstructed)
}

// ManifestID returns the identifier assigned to the new manifest.
func (c CreateManifestCommand) ManifestID() kernel.UUID { return c.manifestID }

// Courier returns the courier receiving the handover.
func (c CreateManifestCommand) Courier() string { return c.courier }

// OrderIDs returns the packed orders to manifest, in handover order.
func (c CreateManifestCommand) OrderIDs() []kernel.UUID { return c.orderIDs }

func (c *CreateManifestCommand) setManifestID(manifestID kernel.UUID) error {
	if err := manifestID.Validate(); err != nil {
		return err
	}

	c.manifestID = manifestID
	return nil
}

func (c *CreateManifestCommand) setCourier(courier string) error {
	if courier == "" {
		return errs.NewValueIsRequiredError("courier")
	}

	c.courier = courier
	return nil
}

func (c *CreateManifestCommand) setOrderIDs(orderIDs []kernel.UUID) error {
	if len(orderIDs) == 0 {
		return errs.NewValueIsRequiredError("orderIDs")
	}
	for _, id := range orderIDs {
		if err := id.Validate(); err != nil {
			return err
		}
	}

	c.orderIDs = orderIDs
	return nil
}

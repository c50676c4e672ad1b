package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrHandOverManifestCommandIsNotConstructed = errors.New(
	"HandOverManifestCommand must be created via NewHandOverManifestCommand constructor",
)

// HandOverManifestCommand represents the physical handover of a manifest to
// its courier. Handover freezes the manifest and ships every order on it.
type HandOverManifestCommand struct { //nolint:recvcheck //using for validation
	manifestID kernel.UUID

	guard guard.ConstructorGuard
}

// NewHandOverManifestCommand creates a handover command.
func NewHandOverManifestCommand(manifestID kernel.UUID) (HandOverManifestCommand, error) {
	cmd := HandOverManifestCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setManifestID(manifestID); err != nil {
		return HandOverManifestCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c HandOverManifestCommand) Validate() error {
	return c.guard.Validate(ErrHandOverManifestCommandIsNotConstructed)
}

// ManifestID returns the manifest being handed over.
func (c HandOverManifestCommand) ManifestID() kernel.UUID { return c.manifestID }

func (c *HandOverManifestCommand) setManifestID(manifestID kernel.UUID) error {
	if err := manifestID.Validate(); err != nil {
		return err
	}

	c.manifestID = manifestID
	return nil
}

package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrApplyScanCommandIsNotConstructed = errors.New(
	"ApplyScanCommand must be created via NewApplyScanCommand constructor",
)

// ApplyScanCommand represents one warehouse scan: a code read by a scanner
// gun in a declared context (sku, bin, tote, awb or general). The scan is
// routed to the order owning the code; the order decides what the scan means
// for its pick lines, pack tasks or dispatch readiness.
type ApplyScanCommand struct { //nolint:recvcheck //using for validation
	code        string
	scanContext order.ScanContext
	actorID     string

	guard guard.ConstructorGuard
}

// NewApplyScanCommand creates a scan command.
func NewApplyScanCommand(code string, scanContext order.ScanContext, actorID string) (ApplyScanCommand, error) {
	cmd := ApplyScanCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCode(code),
		cmd.setScanContext(scanContext),
		cmd.setActorID(actorID),
	); err != nil {
		return ApplyScanCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyScanCommand) Validate() error {
	return c.guard.Validate(ErrApplyScanCommandIsNotConstructed)
}

// Code returns the scanned code.
func (c ApplyScanCommand) Code() string { return c.code }

// ScanContext returns the declared scan context.
func (c ApplyScanCommand) ScanContext() order.ScanContext { return c.scanContext }

// ActorID returns the operator or device that produced the scan.
func (c ApplyScanCommand) ActorID() string { return c.actorID }

func (c *ApplyScanCommand) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}

	c.code = code
	return nil
}

func (c *ApplyScanCommand) setScanContext(scanContext order.ScanContext) error {
	if err := scanContext.Validate(); err != nil {
		return err
	}

	c.scanContext = scanContext
	return nil
}

func (c *ApplyScanCommand) setActorID(actorID string) error {
	if actorID == "" {
		return errs.NewValueIsRequiredError("actorID")
	}

	c.actorID = actorID
	return nil
}

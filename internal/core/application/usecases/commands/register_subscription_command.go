package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRegisterSubscriptionCommandIsNotConstructed = errors.New(
	"RegisterSubscriptionCommand must be created via NewRegisterSubscriptionCommand constructor",
)

// RegisterSubscriptionCommand represents a request to register an external
// webhook subscriber. Once registered, every domain event is delivered to
// the subscriber's target URL at least once.
type RegisterSubscriptionCommand struct { //nolint:recvcheck //using for validation
	subscriptionID kernel.UUID
	name           string
	targetURL      string

	guard guard.ConstructorGuard
}

// NewRegisterSubscriptionCommand creates a subscriber registration command.
func NewRegisterSubscriptionCommand(
	subscriptionID kernel.UUID, name string, targetURL string,
) (RegisterSubscriptionCommand, error) {
	cmd := RegisterSubscriptionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setSubscriptionID(subscriptionID),
		cmd.setName(name),
		cmd.setTargetURL(targetURL),
	); err != nil {
		return RegisterSubscriptionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterSubscriptionCommand) Validate() error {
	return c.guard.Validate(ErrRegisterSubscriptionCommandIsNotConstructed)
}

// SubscriptionID returns the identifier assigned to the new subscription.
func (c RegisterSubscriptionCommand) SubscriptionID() kernel.UUID { return c.subscriptionID }

// Name returns the subscriber's display name.
func (c RegisterSubscriptionCommand) Name() string { return c.name }

// TargetURL returns the endpoint events are delivered to.
func (c RegisterSubscriptionCommand) TargetURL() string { return c.targetURL }

func (c *RegisterSubscriptionCommand) setSubscriptionID(subscriptionID kernel.UUID) error {
	if err := subscriptionID.Validate(); err != nil {
		return err
	}

	c.subscriptionID = subscriptionID
	return nil
}

func (c *RegisterSubscriptionCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}

	c.name = name
	return nil
}

func (c *RegisterSubscriptionCommand) setTargetURL(targetURL string) error {
	if targetURL == "" {
		return errs.NewValueIsRequiredError("targetURL")
	}

	c.targetURL = targetURL
	return nil
}

// Package webhook contains the outbound delivery side of the event layer:
// subscriber registrations and the per-(subscriber, event) delivery records
// that give every domain event an at-least-once delivery guarantee.
package webhook

import (
	"errors"
	"net/url"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrSubscriptionIsNotConstructed is returned when a Subscription was not
// created through NewSubscription or RestoreSubscription.
var ErrSubscriptionIsNotConstructed = errors.New(
	"Subscription must be created via NewSubscription or RestoreSubscription constructor")

// Subscription is an external consumer registered to receive every domain
// event at its target URL.
type Subscription struct {
	id        kernel.UUID
	name      string
	targetURL string
	active    bool
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewSubscription registers an active subscriber.
// The target URL must be an absolute http(s) URL.
func NewSubscription(id kernel.UUID, name string, targetURL string, now time.Time) (*Subscription, error) {
	s := &Subscription{
		active:    true,
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		s.setID(id),
		s.setName(name),
		s.setTargetURL(targetURL),
	); err != nil {
		return nil, err
	}

	return s, nil
}

// RestoreSubscription reconstructs a subscription from persistence.
func RestoreSubscription(
	id kernel.UUID, name string, targetURL string, active bool, createdAt time.Time,
) (*Subscription, error) {
	s, err := NewSubscription(id, name, targetURL, createdAt)
	if err != nil {
		return nil, err
	}
	s.active = active
	return s, nil
}

// Validate ensures the Subscription was properly constructed.
func (s *Subscription) Validate() error {
	if s == nil || s.guard.Validate(ErrSubscriptionIsNotConstructed) != nil {
		return ErrSubscriptionIsNotConstructed
	}
	return nil
}

// ID returns the subscription identifier.
func (s *Subscription) ID() kernel.UUID { return s.id }

// Name returns the subscriber's display name.
func (s *Subscription) Name() string { return s.name }

// TargetURL returns the endpoint events are delivered to.
func (s *Subscription) TargetURL() string { return s.targetURL }

// IsActive reports whether new events should be delivered to this subscriber.
func (s *Subscription) IsActive() bool { return s.active }

// CreatedAt returns the registration time.
func (s *Subscription) CreatedAt() time.Time { return s.createdAt }

// Deactivate stops further deliveries to this subscriber. In-flight delivery
// records finish on their own.
func (s *Subscription) Deactivate() {
	s.active = false
}

func (s *Subscription) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	s.id = id
	return nil
}

func (s *Subscription) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	s.name = name
	return nil
}

func (s *Subscription) setTargetURL(targetURL string) error {
	u, err := url.Parse(targetURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return errs.NewValueIsInvalidError("targetURL")
	}
	s.targetURL = targetURL
	return nil
}

// Package event defines the immutable domain event record emitted by the
// fulfillment engine. Events are produced by successful state transitions,
// appended to the event log in the same transaction as the transition, and
// consumed (never mutated) by the propagation bus and the webhook layer.
package event

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrDomainEventIsNotConstructed is returned when validating a DomainEvent
// created outside the NewDomainEvent constructor.
var ErrDomainEventIsNotConstructed = errs.NewValueIsRequiredError(
	"domain event must be created via NewDomainEvent constructor")

// Type enumerates the domain event types the engine emits.
type Type string

// Event types, one per observable transition or pipeline outcome.
const (
	OrderFetched            Type = "order.fetched"
	OrderValidated          Type = "order.validated"
	OrderPicking            Type = "order.picking"
	OrderPacked             Type = "order.packed"
	OrderShipped            Type = "order.shipped"
	OrderDelivered          Type = "order.delivered"
	OrderCancelled          Type = "order.cancelled"
	OrderException          Type = "order.exception"
	OrderDispatched         Type = "order.dispatched"
	VerifyRequested         Type = "verify.requested"
	VerifyResolved          Type = "verify.resolved"
	VerifyNeedsConfirmation Type = "verify.needs_confirmation"
	VerifyFailed            Type = "verify.failed"
	PickCompleted           Type = "pick.completed"
	PackCompleted           Type = "pack.completed"
	ManifestHandedOver      Type = "manifest.handed_over"
)

// validTypes lists every type NewDomainEvent accepts.
func validTypes() map[Type]struct{} {
	return map[Type]struct{}{
		OrderFetched: {}, OrderValidated: {}, OrderPicking: {}, OrderPacked: {},
		OrderShipped: {}, OrderDelivered: {}, OrderCancelled: {}, OrderException: {},
		OrderDispatched: {}, VerifyRequested: {}, VerifyResolved: {},
		VerifyNeedsConfirmation: {}, VerifyFailed: {}, PickCompleted: {},
		PackCompleted: {}, ManifestHandedOver: {},
	}
}

// Validate checks the type is one of the enumerated event types.
func (t Type) Validate() error {
	if _, ok := validTypes()[t]; !ok {
		return errs.NewValueIsInvalidError("event type")
	}
	return nil
}

// String returns the wire name of the event type.
func (t Type) String() string {
	return string(t)
}

// EntityType names the kind of entity an event refers to.
type EntityType string

// Entity types appearing in events.
const (
	EntityOrder        EntityType = "order"
	EntityVerification EntityType = "verification"
	EntityManifest     EntityType = "manifest"
)

// DomainEvent is the immutable record of one observable fact. The event id is
// the deduplication key for at-least-once consumers; everything else is
// descriptive payload with a stable shape across all consumers.
type DomainEvent struct {
	id          kernel.UUID
	eventType   Type
	entityType  EntityType
	entityID    kernel.UUID
	description string
	source      string
	occurredAt  time.Time

	guard guard.ConstructorGuard
}

// NewDomainEvent creates an immutable event with a fresh id, stamped with the
// given occurrence time.
func NewDomainEvent(
	eventType Type,
	entityType EntityType,
	entityID kernel.UUID,
	description string,
	source string,
	occurredAt time.Time,
) (DomainEvent, error) {
	return RestoreDomainEvent(kernel.NewUUID(), eventType, entityType, entityID, description, source, occurredAt)
}

// RestoreDomainEvent reconstructs an event from persistence with its original id.
func RestoreDomainEvent(
	id kernel.UUID,
	eventType Type,
	entityType EntityType,
	entityID kernel.UUID,
	description string,
	source string,
	occurredAt time.Time,
) (DomainEvent, error) {
	if err := id.Validate(); err != nil {
		return DomainEvent{}, err
	}
	if err := eventType.Validate(); err != nil {
		return DomainEvent{}, err
	}
	if err := entityID.Validate(); err != nil {
		return DomainEvent{}, err
	}
	if source == "" {
		return DomainEvent{}, errs.NewValueIsRequiredError("source")
	}
	if occurredAt.IsZero() {
		return DomainEvent{}, errs.NewValueIsRequiredError("occurredAt")
	}

	return DomainEvent{
		id:          id,
		eventType:   eventType,
		entityType:  entityType,
		entityID:    entityID,
		description: description,
		source:      source,
		occurredAt:  occurredAt,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate checks the event was created through a constructor.
func (e DomainEvent) Validate() error {
	return e.guard.Validate(ErrDomainEventIsNotConstructed)
}

// ID returns the unique event id, the consumer-side deduplication key.
func (e DomainEvent) ID() kernel.UUID {
	return e.id
}

// Type returns the event type.
func (e DomainEvent) Type() Type {
	return e.eventType
}

// EntityType returns the kind of entity the event refers to.
func (e DomainEvent) EntityType() EntityType {
	return e.entityType
}

// EntityID returns the id of the entity the event refers to.
func (e DomainEvent) EntityID() kernel.UUID {
	return e.entityID
}

// Description returns the human-readable event description.
func (e DomainEvent) Description() string {
	return e.description
}

// Source returns the component that emitted the event.
func (e DomainEvent) Source() string {
	return e.source
}

// OccurredAt returns the time the causing transition happened.
func (e DomainEvent) OccurredAt() time.Time {
	return e.occurredAt
}

package ports

import (
	"fulfillment/internal/core/domain/model/event"
)

// EventPublisher pushes committed domain events to live dashboard sessions.
// Publish is called after the producing transaction commits, never inside
// it, and must not block: slow or gone consumers are the publisher's
// problem, not the caller's.
type EventPublisher interface {
	Publish(events ...*event.DomainEvent)
}

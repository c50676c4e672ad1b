package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
)

// EventRepository defines the persistence contract for the append-only
// domain event log. Events are never updated or deleted.
type EventRepository interface {
	// Add appends events to the log in the current transaction.
	Add(ctx context.Context, events []*event.DomainEvent) error

	// Get retrieves an event by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*event.DomainEvent, error)

	// GetAllByEntity retrieves the event timeline for one entity, oldest
	// first.
	GetAllByEntity(ctx context.Context, entityID kernel.UUID) ([]*event.DomainEvent, error)
}

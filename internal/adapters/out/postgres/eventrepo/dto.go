// Package eventrepo provides data transfer objects and mapping functions for
// the append-only domain event log.
package eventrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EventDTO represents the database structure for persisting domain events.
// Rows are append-only; nothing updates or deletes them. Seq is assigned by
// the database and gives the log a total order: events committed in one
// transaction keep their insertion order even when they share a timestamp.
type EventDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq         int64     `gorm:"autoIncrement;uniqueIndex"`
	EventType   string
	EntityType  string
	EntityID    uuid.UUID `gorm:"type:uuid;index"`
	Description string
	Source      string
	OccurredAt  time.Time `gorm:"index"`
}

// TableName specifies the database table name for domain events.
func (EventDTO) TableName() string {
	return "domain_events"
}

// fromDomain converts a domain event to its database representation.
func fromDomain(e *event.DomainEvent) EventDTO {
	return EventDTO{
		ID:          e.ID().Bytes(),
		EventType:   e.Type().String(),
		EntityType:  string(e.EntityType()),
		EntityID:    e.EntityID().Bytes(),
		Description: e.Description(),
		Source:      e.Source(),
		OccurredAt:  e.OccurredAt(),
	}
}

// toDomain converts a database DTO to a domain event using RestoreDomainEvent.
func toDomain(dto EventDTO) (*event.DomainEvent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	entityID, err := kernel.UUIDFromBytes(dto.EntityID[:])
	if err != nil {
		return nil, err
	}

	e, err := event.RestoreDomainEvent(
		id, event.Type(dto.EventType), event.EntityType(dto.EntityType),
		entityID, dto.Description, dto.Source, dto.OccurredAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

package commands

import (
	"context"
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
)

// eventSink is the slice of a unit of work the recorder writes through.
type eventSink interface {
	EventRepoFactory
	WebhookRepoFactory
}

// webhookPayload is the stable delivery shape every subscriber receives.
// The event id is the consumer's deduplication key.
type webhookPayload struct {
	EventID     string    `json:"eventId"`
	EventType   string    `json:"eventType"`
	EntityType  string    `json:"entityType"`
	EntityID    string    `json:"entityId"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	Timestamp   time.Time `json:"timestamp"`
}

// recordEvents appends one domain event per type to the event log and fans
// out one delivery record per (event, active subscription) pair, all inside
// the caller's transaction. The caller publishes the returned events to the
// live bus after commit.
func recordEvents(
	ctx context.Context,
	uow eventSink,
	types []event.Type,
	entityType event.EntityType,
	entityID kernel.UUID,
	description string,
	source string,
	now time.Time,
) ([]*event.DomainEvent, error) {
	if len(types) == 0 {
		return nil, nil
	}

	events := make([]*event.DomainEvent, 0, len(types))
	for _, t := range types {
		e, err := event.NewDomainEvent(t, entityType, entityID, description, source, now)
		if err != nil {
			return nil, err
		}
		events = append(events, &e)
	}

	if err := uow.EventRepository().Add(ctx, events); err != nil {
		return nil, err
	}

	subscriptions, err := uow.WebhookRepository().GetActiveSubscriptions(ctx)
	if err != nil {
		return nil, err
	}
	if len(subscriptions) == 0 {
		return events, nil
	}

	records := make([]*webhook.DeliveryRecord, 0, len(events)*len(subscriptions))
	for _, e := range events {
		payload, err := json.Marshal(webhookPayload{
			EventID:     e.ID().String(),
			EventType:   e.Type().String(),
			EntityType:  string(e.EntityType()),
			EntityID:    e.EntityID().String(),
			Description: e.Description(),
			Source:      e.Source(),
			Timestamp:   e.OccurredAt(),
		})
		if err != nil {
			return nil, err
		}

		for _, sub := range subscriptions {
			record, err := webhook.NewDeliveryRecord(
				kernel.NewUUID(), sub.ID(), e.ID(), sub.TargetURL(), payload, now)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	}

	if err = uow.WebhookRepository().AddDeliveryRecords(ctx, records); err != nil {
		return nil, err
	}

	return events, nil
}

package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
)

// WebhookRepository defines the persistence contract for webhook
// subscriptions and their delivery records. Delivery records are written in
// the same transaction as the state change that produced their events, which
// is what makes delivery at-least-once.
type WebhookRepository interface {
	// AddSubscription persists a new subscriber registration.
	AddSubscription(ctx context.Context, aggregate *webhook.Subscription) error

	// UpdateSubscription persists changes to an existing subscription.
	UpdateSubscription(ctx context.Context, aggregate *webhook.Subscription) error

	// GetSubscription retrieves a subscription by its unique identifier.
	GetSubscription(ctx context.Context, id kernel.UUID) (*webhook.Subscription, error)

	// GetActiveSubscriptions retrieves every subscription that should
	// receive newly emitted events.
	GetActiveSubscriptions(ctx context.Context) ([]*webhook.Subscription, error)

	// AddDeliveryRecords persists a batch of delivery records, one per
	// (event, active subscription) pair.
	AddDeliveryRecords(ctx context.Context, records []*webhook.DeliveryRecord) error

	// UpdateDeliveryRecord persists the outcome of a delivery attempt.
	UpdateDeliveryRecord(ctx context.Context, record *webhook.DeliveryRecord) error

	// GetDeliveryRecord retrieves a delivery record by its unique identifier.
	GetDeliveryRecord(ctx context.Context, id kernel.UUID) (*webhook.DeliveryRecord, error)

	// GetAllDueDeliveries retrieves every non-terminal delivery record
	// whose next attempt time has passed, ordered by next attempt time.
	GetAllDueDeliveries(ctx context.Context, now time.Time) ([]*webhook.DeliveryRecord, error)

	// GetAllFailedDeliveries retrieves every terminally failed delivery
	// record for operator review.
	GetAllFailedDeliveries(ctx context.Context) ([]*webhook.DeliveryRecord, error)
}

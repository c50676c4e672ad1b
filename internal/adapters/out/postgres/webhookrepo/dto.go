// Package webhookrepo provides data transfer objects and mapping functions
// for webhook subscription and delivery record persistence.
package webhookrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"

	"github.com/google/uuid"
)

// SubscriptionDTO represents the database structure for webhook subscriptions.
type SubscriptionDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string
	TargetURL string
	Active    bool `gorm:"index"`
	CreatedAt time.Time
}

// TableName specifies the database table name for webhook subscriptions.
func (SubscriptionDTO) TableName() string {
	return "webhook_subscriptions"
}

// DeliveryRecordDTO represents the database structure for webhook delivery
// records. The payload column snapshots the serialized event at enqueue time,
// so a delivery never depends on later state.
type DeliveryRecordDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubscriptionID uuid.UUID `gorm:"type:uuid;index"`
	EventID        uuid.UUID `gorm:"type:uuid;index"`
	TargetURL      string
	Payload        []byte     `gorm:"type:jsonb"`
	Status         string     `gorm:"index"`
	AttemptCount   int
	NextAttemptAt  *time.Time `gorm:"index"`
	LastError      string
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// TableName specifies the database table name for webhook deliveries.
func (DeliveryRecordDTO) TableName() string {
	return "webhook_deliveries"
}

// subscriptionFromDomain converts a subscription to its database representation.
func subscriptionFromDomain(aggregate *webhook.Subscription) SubscriptionDTO {
	return SubscriptionDTO{
		ID:        aggregate.ID().Bytes(),
		Name:      aggregate.Name(),
		TargetURL: aggregate.TargetURL(),
		Active:    aggregate.IsActive(),
		CreatedAt: aggregate.CreatedAt(),
	}
}

// subscriptionToDomain converts a database DTO to a subscription aggregate.
func subscriptionToDomain(dto SubscriptionDTO) (*webhook.Subscription, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return webhook.RestoreSubscription(id, dto.Name, dto.TargetURL, dto.Active, dto.CreatedAt)
}

// deliveryFromDomain converts a delivery record to its database representation.
func deliveryFromDomain(aggregate *webhook.DeliveryRecord) DeliveryRecordDTO {
	return DeliveryRecordDTO{
		ID:             aggregate.ID().Bytes(),
		SubscriptionID: aggregate.SubscriptionID().Bytes(),
		EventID:        aggregate.EventID().Bytes(),
		TargetURL:      aggregate.TargetURL(),
		Payload:        aggregate.Payload(),
		Status:         aggregate.Status().String(),
		AttemptCount:   aggregate.AttemptCount(),
		NextAttemptAt:  aggregate.NextAttemptAt(),
		LastError:      aggregate.LastError(),
		CreatedAt:      aggregate.CreatedAt(),
		CompletedAt:    aggregate.CompletedAt(),
	}
}

// deliveryToDomain converts a database DTO to a delivery record aggregate.
func deliveryToDomain(dto DeliveryRecordDTO) (*webhook.DeliveryRecord, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	subscriptionID, err := kernel.UUIDFromBytes(dto.SubscriptionID[:])
	if err != nil {
		return nil, err
	}
	eventID, err := kernel.UUIDFromBytes(dto.EventID[:])
	if err != nil {
		return nil, err
	}

	return webhook.RestoreDeliveryRecord(
		id, subscriptionID, eventID, dto.TargetURL, dto.Payload,
		webhook.DeliveryStatus(dto.Status), dto.AttemptCount, dto.NextAttemptAt,
		dto.LastError, dto.CreatedAt, dto.CompletedAt)
}

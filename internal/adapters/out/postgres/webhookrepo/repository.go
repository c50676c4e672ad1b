package webhookrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormWebhookRepository implements WebhookRepository using GORM.
type GormWebhookRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormWebhookRepository creates a new GORM webhook repository.
func NewGormWebhookRepository(db *gorm.DB, tracker aggregateTracker) *GormWebhookRepository {
	return &GormWebhookRepository{
		db:      db,
		tracker: tracker,
	}
}

// AddSubscription saves a new webhook subscription to the database.
func (r *GormWebhookRepository) AddSubscription(ctx context.Context, aggregate *webhook.Subscription) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := subscriptionFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateSubscription saves an existing webhook subscription to the database.
func (r *GormWebhookRepository) UpdateSubscription(ctx context.Context, aggregate *webhook.Subscription) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := subscriptionFromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&SubscriptionDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetSubscription retrieves a webhook subscription by ID.
func (r *GormWebhookRepository) GetSubscription(ctx context.Context, id kernel.UUID) (*webhook.Subscription, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto SubscriptionDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("webhook subscription", id.String())
		}
		return nil, err
	}

	return subscriptionToDomain(dto)
}

// GetActiveSubscriptions retrieves all active webhook subscriptions.
func (r *GormWebhookRepository) GetActiveSubscriptions(ctx context.Context) ([]*webhook.Subscription, error) {
	var dtos []SubscriptionDTO
	if err := r.db.WithContext(ctx).Find(&dtos, "active = ?", true).Error; err != nil {
		return nil, err
	}

	subscriptions := make([]*webhook.Subscription, 0, len(dtos))
	for _, dto := range dtos {
		s, err := subscriptionToDomain(dto)
		if err != nil {
			return nil, err
		}
		subscriptions = append(subscriptions, s)
	}

	return subscriptions, nil
}

// AddDeliveryRecords saves a batch of new delivery records to the database.
// Called from the same transaction that records the events being delivered.
func (r *GormWebhookRepository) AddDeliveryRecords(ctx context.Context, records []*webhook.DeliveryRecord) error {
	if len(records) == 0 {
		return nil
	}

	dtos := make([]DeliveryRecordDTO, 0, len(records))
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, deliveryFromDomain(record))
	}

	if err := r.db.WithContext(ctx).Create(&dtos).Error; err != nil {
		return err
	}

	for _, record := range records {
		r.tracker.TrackAggregate(record.ID(), record)
	}
	return nil
}

// UpdateDeliveryRecord saves an existing delivery record to the database.
func (r *GormWebhookRepository) UpdateDeliveryRecord(ctx context.Context, record *webhook.DeliveryRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := deliveryFromDomain(record)
	result := r.db.WithContext(ctx).Model(&DeliveryRecordDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(record.ID(), record)
	return nil
}

// GetDeliveryRecord retrieves a delivery record by ID.
func (r *GormWebhookRepository) GetDeliveryRecord(ctx context.Context, id kernel.UUID) (*webhook.DeliveryRecord, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryRecordDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery record", id.String())
		}
		return nil, err
	}

	return deliveryToDomain(dto)
}

// GetAllDueDeliveries retrieves every open delivery whose next attempt time
// has passed, ordered by next attempt time. The dispatch worker drains this
// set on each tick.
func (r *GormWebhookRepository) GetAllDueDeliveries(
	ctx context.Context, now time.Time,
) ([]*webhook.DeliveryRecord, error) {
	var dtos []DeliveryRecordDTO
	err := r.db.WithContext(ctx).
		Where("status IN ? AND next_attempt_at IS NOT NULL AND next_attempt_at <= ?",
			[]string{webhook.StatusPending.String(), webhook.StatusRetrying.String()}, now).
		Order("next_attempt_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.deliveriesToDomain(dtos)
}

// GetAllFailedDeliveries retrieves every delivery that exhausted its retries.
func (r *GormWebhookRepository) GetAllFailedDeliveries(ctx context.Context) ([]*webhook.DeliveryRecord, error) {
	var dtos []DeliveryRecordDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", webhook.StatusFailed.String()).
		Order("completed_at DESC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.deliveriesToDomain(dtos)
}

func (r *GormWebhookRepository) deliveriesToDomain(dtos []DeliveryRecordDTO) ([]*webhook.DeliveryRecord, error) {
	records := make([]*webhook.DeliveryRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, err := deliveryToDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

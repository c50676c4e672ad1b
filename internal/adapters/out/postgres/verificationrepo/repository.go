package verificationrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/verification"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormVerificationRepository implements VerificationRepository using GORM.
type GormVerificationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormVerificationRepository creates a new GORM verification repository.
func NewGormVerificationRepository(db *gorm.DB, tracker aggregateTracker) *GormVerificationRepository {
	return &GormVerificationRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new verification attempt to the database. The partial unique
// index on open attempts turns a racing second insert for the same order
// into a duplicate request error.
func (r *GormVerificationRepository) Add(ctx context.Context, aggregate *verification.Attempt) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewDuplicateRequestError("verification attempt", aggregate.OrderID().String())
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing verification attempt to the database.
func (r *GormVerificationRepository) Update(ctx context.Context, aggregate *verification.Attempt) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&AttemptDTO{}).
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

// Get retrieves a verification attempt by ID.
func (r *GormVerificationRepository) Get(ctx context.Context, id kernel.UUID) (*verification.Attempt, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AttemptDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("verification attempt", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetOpenByOrder retrieves the order's in-flight attempt, pending or awaiting
// customer confirmation.
func (r *GormVerificationRepository) GetOpenByOrder(
	ctx context.Context, orderID kernel.UUID,
) (*verification.Attempt, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto AttemptDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND outcome IN ?", orderID.Bytes(),
			[]string{
				verification.Pending.String(),
				verification.NeedsConfirmation.String(),
			}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("verification attempt", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllDue retrieves every pending attempt whose next retry time has passed,
// ordered by next retry time.
func (r *GormVerificationRepository) GetAllDue(
	ctx context.Context, now time.Time,
) ([]*verification.Attempt, error) {
	var dtos []AttemptDTO
	err := r.db.WithContext(ctx).
		Where("outcome = ? AND next_retry_at IS NOT NULL AND next_retry_at <= ?",
			verification.Pending.String(), now).
		Order("next_retry_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

// GetAllAwaitingConfirmation retrieves every attempt suspended on a customer
// confirmation request.
func (r *GormVerificationRepository) GetAllAwaitingConfirmation(
	ctx context.Context,
) ([]*verification.Attempt, error) {
	var dtos []AttemptDTO
	err := r.db.WithContext(ctx).
		Where("outcome = ?", verification.NeedsConfirmation.String()).
		Order("confirmation_deadline").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return r.toDomainAll(dtos)
}

func (r *GormVerificationRepository) toDomainAll(dtos []AttemptDTO) ([]*verification.Attempt, error) {
	attempts := make([]*verification.Attempt, 0, len(dtos))
	for _, dto := range dtos {
		attempt, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, attempt)
	}
	return attempts, nil
}

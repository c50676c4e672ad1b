package eventrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormEventRepository implements EventRepository using GORM.
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GORM event repository.
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// Add appends events to the log in the current transaction.
func (r *GormEventRepository) Add(ctx context.Context, events []*event.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, fromDomain(e))
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// Get retrieves an event by ID.
func (r *GormEventRepository) Get(ctx context.Context, id kernel.UUID) (*event.DomainEvent, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto EventDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("event", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllByEntity retrieves the event timeline for one entity, oldest first.
func (r *GormEventRepository) GetAllByEntity(
	ctx context.Context, entityID kernel.UUID,
) ([]*event.DomainEvent, error) {
	if err := entityID.Validate(); err != nil {
		return nil, err
	}

	var dtos []EventDTO
	err := r.db.WithContext(ctx).
		Where("entity_id = ?", entityID.Bytes()).
		Order("seq").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	events := make([]*event.DomainEvent, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, nil
}

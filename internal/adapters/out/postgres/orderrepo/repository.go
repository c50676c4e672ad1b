package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its pick lines and pack tasks to the database.
// A unique violation on the (channel, source number) key maps to a duplicate
// request error, covering intakes that race past the handler's dedup check.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewDuplicateRequestError(
				"source order", dto.Channel+"/"+dto.SourceNumber)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. Child pick line and pack
// task rows are upserted; they are created once at intake and only their
// progress counters change afterwards.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("*").Omit("seq", clause.Associations).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if len(dto.PickLines) > 0 {
		err = r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&dto.PickLines).Error
		if err != nil {
			return err
		}
	}
	if len(dto.PackTasks) > 0 {
		err = r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&dto.PackTasks).Error
		if err != nil {
			return err
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.preloaded(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetBySource retrieves the order ingested under the given channel and source
// order number, the intake idempotency key.
func (r *GormOrderRepository) GetBySource(
	ctx context.Context, channel string, sourceNumber string,
) (*order.Order, error) {
	var dto OrderDTO
	err := r.preloaded(ctx).
		First(&dto, "channel = ? AND source_number = ?", channel, sourceNumber).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", channel+"/"+sourceNumber)
		}
		return nil, err
	}

	return toDomain(dto)
}

// FindByScanCode retrieves the non-terminal order owning the scanned code in
// the given context. The context narrows which child table the code is looked
// up in; general searches all of them.
func (r *GormOrderRepository) FindByScanCode(
	ctx context.Context, code string, scanContext order.ScanContext,
) (*order.Order, error) {
	if code == "" {
		return nil, errs.NewValueIsRequiredError("code")
	}
	if err := scanContext.Validate(); err != nil {
		return nil, err
	}

	pickBySKU := r.db.Table("pick_lines").Select("order_id").Where("sku = ?", code)
	pickByBin := r.db.Table("pick_lines").Select("order_id").Where("bin = ?", code)
	packByTote := r.db.Table("pack_tasks").Select("order_id").Where("tote = ?", code)

	q := r.preloaded(ctx).Where("status NOT IN ?",
		[]string{order.Delivered.String(), order.Cancelled.String()})

	switch scanContext {
	case order.ContextSKU:
		q = q.Where("id IN (?)", pickBySKU)
	case order.ContextBin:
		q = q.Where("id IN (?)", pickByBin)
	case order.ContextTote:
		q = q.Where("id IN (?)", packByTote)
	case order.ContextAWB:
		q = q.Where("awb = ?", code)
	case order.ContextGeneral:
		q = q.Where("awb = ? OR id IN (?) OR id IN (?) OR id IN (?)",
			code, pickBySKU, pickByBin, packByTote)
	}

	var dto OrderDTO
	if err := q.First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order by scan code", code)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllInStatus retrieves all orders in the given status, ordered by
// ingestion sequence.
func (r *GormOrderRepository) GetAllInStatus(
	ctx context.Context, status order.Status,
) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.preloaded(ctx).Order("seq").Find(&dtos, "status = ?", status.String()).Error
	if err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("PickLines").Preload("PackTasks")
}

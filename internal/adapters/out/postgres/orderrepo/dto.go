// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between the domain model and its relational shape:
// one orders row plus child rows for pick lines and pack tasks.
package orderrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The (channel, source_number) pair carries a unique index: it is the intake
// idempotency key, enforced at the storage level.
type OrderDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq          int64     `gorm:"autoIncrement;uniqueIndex"`
	Reference    string    `gorm:"uniqueIndex"`
	Channel      string    `gorm:"uniqueIndex:idx_orders_source"`
	SourceNumber string    `gorm:"uniqueIndex:idx_orders_source"`
	Contact      string

	Address AddressDTO `gorm:"embedded;embeddedPrefix:address_"`

	ValueAmount   int64
	ValueCurrency string

	Priority            string
	Status              string `gorm:"index"`
	VerificationOutcome string
	ExceptionReason     string

	Courier string
	AWB     string `gorm:"column:awb;index"`

	// StatusTimes is the status -> timestamp journal, serialized as JSONB.
	StatusTimes []byte `gorm:"type:jsonb"`
	CreatedAt   time.Time

	PickLines []PickLineDTO `gorm:"foreignKey:OrderID;references:ID"`
	PackTasks []PackTaskDTO `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// AddressDTO represents the embedded delivery address within the order table.
// Latitude and longitude stay nil until address verification resolves them.
type AddressDTO struct {
	Line1      string
	Line2      string
	City       string
	Region     string
	PostalCode string
	Country    string
	Lat        *float64
	Lng        *float64
}

// PickLineDTO represents one pick sub-task row of an order.
type PickLineDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index"`
	SKU         string    `gorm:"column:sku;index"`
	Bin         string    `gorm:"index"`
	RequiredQty int
	PickedQty   int
}

// TableName specifies the database table name for pick lines.
func (PickLineDTO) TableName() string {
	return "pick_lines"
}

// PackTaskDTO represents one pack sub-task row of an order.
type PackTaskDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;index"`
	Tote    string    `gorm:"index"`
	Packed  bool
}

// TableName specifies the database table name for pack tasks.
func (PackTaskDTO) TableName() string {
	return "pack_tasks"
}

// allStatuses is the serialization order of the status journal.
func allStatuses() []order.Status {
	return []order.Status{
		order.Fetched, order.Validated, order.Picking, order.Packed,
		order.Shipped, order.Delivered, order.Exception, order.Cancelled,
	}
}

// fromDomain converts an order aggregate to its database representation.
func fromDomain(aggregate *order.Order) (OrderDTO, error) {
	address := aggregate.Address()
	addressDTO := AddressDTO{
		Line1:      address.Line1(),
		Line2:      address.Line2(),
		City:       address.City(),
		Region:     address.Region(),
		PostalCode: address.PostalCode(),
		Country:    address.Country(),
	}
	if p := address.GeoPoint(); p != nil {
		lat, lng := p.Lat(), p.Lng()
		addressDTO.Lat = &lat
		addressDTO.Lng = &lng
	}

	journal := make(map[string]time.Time)
	for _, s := range allStatuses() {
		if ts := aggregate.StatusTime(s); ts != nil {
			journal[s.String()] = *ts
		}
	}
	statusTimes, err := json.Marshal(journal)
	if err != nil {
		return OrderDTO{}, err
	}

	pickLines := make([]PickLineDTO, 0, len(aggregate.PickLines()))
	for _, l := range aggregate.PickLines() {
		pickLines = append(pickLines, PickLineDTO{
			ID:          l.ID().Bytes(),
			OrderID:     aggregate.ID().Bytes(),
			SKU:         l.SKU(),
			Bin:         l.Bin(),
			RequiredQty: l.RequiredQty(),
			PickedQty:   l.PickedQty(),
		})
	}

	packTasks := make([]PackTaskDTO, 0, len(aggregate.PackTasks()))
	for _, t := range aggregate.PackTasks() {
		packTasks = append(packTasks, PackTaskDTO{
			ID:      t.ID().Bytes(),
			OrderID: aggregate.ID().Bytes(),
			Tote:    t.Tote(),
			Packed:  t.IsComplete(),
		})
	}

	createdAt := time.Now()
	if ts := aggregate.StatusTime(order.Fetched); ts != nil {
		createdAt = *ts
	}

	return OrderDTO{
		ID:                  aggregate.ID().Bytes(),
		Seq:                 aggregate.Seq(),
		Reference:           aggregate.Reference(),
		Channel:             aggregate.Channel(),
		SourceNumber:        aggregate.SourceNumber(),
		Contact:             aggregate.Contact(),
		Address:             addressDTO,
		ValueAmount:         aggregate.Value().Amount(),
		ValueCurrency:       aggregate.Value().Currency(),
		Priority:            aggregate.Priority().String(),
		Status:              aggregate.Status().String(),
		VerificationOutcome: string(aggregate.VerificationOutcome()),
		ExceptionReason:     aggregate.ExceptionReason(),
		Courier:             aggregate.Courier(),
		AWB:                 aggregate.AWB(),
		StatusTimes:         statusTimes,
		CreatedAt:           createdAt,
		PickLines:           pickLines,
		PackTasks:           packTasks,
	}, nil
}

// toDomain converts a database DTO to an order aggregate using RestoreOrder.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	address, err := kernel.NewAddress(
		dto.Address.Line1, dto.Address.Line2, dto.Address.City,
		dto.Address.Region, dto.Address.PostalCode, dto.Address.Country)
	if err != nil {
		return nil, err
	}
	if dto.Address.Lat != nil && dto.Address.Lng != nil {
		point, geoErr := kernel.NewGeoPoint(*dto.Address.Lat, *dto.Address.Lng)
		if geoErr != nil {
			return nil, geoErr
		}
		if address, err = address.WithGeoPoint(point); err != nil {
			return nil, err
		}
	}

	value, err := kernel.NewMoney(dto.ValueAmount, dto.ValueCurrency)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var journal map[string]time.Time
	if len(dto.StatusTimes) > 0 {
		if err = json.Unmarshal(dto.StatusTimes, &journal); err != nil {
			return nil, err
		}
	}
	statusTimes := make(map[order.Status]time.Time, len(journal))
	for name, ts := range journal {
		s, journalErr := order.StatusFromString(name)
		if journalErr != nil {
			return nil, journalErr
		}
		statusTimes[s] = ts
	}

	pickLines := make([]*order.PickLine, 0, len(dto.PickLines))
	for _, l := range dto.PickLines {
		lineID, lineErr := kernel.UUIDFromBytes(l.ID[:])
		if lineErr != nil {
			return nil, lineErr
		}
		line, lineErr := order.RestorePickLine(lineID, l.SKU, l.Bin, l.RequiredQty, l.PickedQty)
		if lineErr != nil {
			return nil, lineErr
		}
		pickLines = append(pickLines, line)
	}

	packTasks := make([]*order.PackTask, 0, len(dto.PackTasks))
	for _, t := range dto.PackTasks {
		taskID, taskErr := kernel.UUIDFromBytes(t.ID[:])
		if taskErr != nil {
			return nil, taskErr
		}
		task, taskErr := order.RestorePackTask(taskID, t.Tote, t.Packed)
		if taskErr != nil {
			return nil, taskErr
		}
		packTasks = append(packTasks, task)
	}

	return order.RestoreOrder(
		id, dto.Seq, dto.Reference, dto.Channel, dto.SourceNumber, dto.Contact,
		address, value, order.Priority(dto.Priority), status,
		order.VerificationOutcome(dto.VerificationOutcome), dto.ExceptionReason,
		dto.Courier, dto.AWB, pickLines, packTasks, statusTimes)
}

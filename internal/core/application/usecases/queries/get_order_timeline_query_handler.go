package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderTimelineQueryHandler retrieves the event history of one order.
type GetOrderTimelineQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderTimelineQueryHandler creates a handler for order timeline queries.
func NewGetOrderTimelineQueryHandler(db *gorm.DB) GetOrderTimelineQueryHandler {
	return GetOrderTimelineQueryHandler{db: db}
}

// Handle executes the query. Returns the order's events oldest first; an
// unknown order yields an empty timeline rather than an error.
func (h GetOrderTimelineQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTimelineQuery,
) ([]GetOrderTimelineQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	timeline := make([]GetOrderTimelineQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			event_type,
			description,
			source,
			occurred_at
		FROM domain_events
		WHERE entity_type = ? AND entity_id = ?
		ORDER BY seq
	`, event.EntityOrder, query.OrderID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetOrderTimelineQueryResponse
		var eventID uuid.UUID

		err = rows.Scan(
			&eventID,
			&resp.EventType,
			&resp.Description,
			&resp.Source,
			&resp.OccurredAt,
		)
		if err != nil {
			return nil, err
		}

		if resp.EventID, err = kernel.UUIDFromBytes(eventID[:]); err != nil {
			return nil, err
		}

		timeline = append(timeline, resp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return timeline, nil
}

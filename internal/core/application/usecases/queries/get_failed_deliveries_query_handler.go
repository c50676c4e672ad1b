package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/webhook"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetFailedDeliveriesQueryHandler retrieves webhook deliveries that exhausted
// their retry schedule.
type GetFailedDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetFailedDeliveriesQueryHandler creates a handler for dead-letter queries.
func NewGetFailedDeliveriesQueryHandler(db *gorm.DB) GetFailedDeliveriesQueryHandler {
	return GetFailedDeliveriesQueryHandler{db: db}
}

// Handle executes the query. Returns failed deliveries, most recent first.
func (h GetFailedDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetFailedDeliveriesQuery,
) ([]GetFailedDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveries := make([]GetFailedDeliveriesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			subscription_id,
			event_id,
			target_url,
			attempt_count,
			last_error,
			created_at,
			completed_at
		FROM webhook_deliveries
		WHERE status = ?
		ORDER BY completed_at DESC
	`, webhook.StatusFailed).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetFailedDeliveriesQueryResponse
		var deliveryID, subscriptionID, eventID uuid.UUID

		err = rows.Scan(
			&deliveryID,
			&subscriptionID,
			&eventID,
			&resp.TargetURL,
			&resp.AttemptCount,
			&resp.LastError,
			&resp.CreatedAt,
			&resp.CompletedAt,
		)
		if err != nil {
			return nil, err
		}

		if resp.DeliveryID, err = kernel.UUIDFromBytes(deliveryID[:]); err != nil {
			return nil, err
		}
		if resp.SubscriptionID, err = kernel.UUIDFromBytes(subscriptionID[:]); err != nil {
			return nil, err
		}
		if resp.EventID, err = kernel.UUIDFromBytes(eventID[:]); err != nil {
			return nil, err
		}

		deliveries = append(deliveries, resp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}

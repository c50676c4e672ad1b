package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/verification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPendingConfirmationsQueryHandler retrieves verification attempts that are
// suspended on a customer confirmation request. Gives operators visibility
// into orders blocked on a WhatsApp reply.
type GetPendingConfirmationsQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingConfirmationsQueryHandler creates a handler for pending
// confirmation queries.
func NewGetPendingConfirmationsQueryHandler(db *gorm.DB) GetPendingConfirmationsQueryHandler {
	return GetPendingConfirmationsQueryHandler{db: db}
}

// Handle executes the query. Returns attempts in needs_confirmation outcome
// joined with their orders, oldest deadline first.
func (h GetPendingConfirmationsQueryHandler) Handle(
	ctx context.Context,
	query GetPendingConfirmationsQuery,
) ([]GetPendingConfirmationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	confirmations := make([]GetPendingConfirmationsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			va.id,
			va.order_id,
			o.reference,
			va.confirmation_contact,
			va.shortcode,
			va.created_at,
			va.confirmation_deadline
		FROM verification_attempts va
		JOIN orders o ON o.id = va.order_id
		WHERE va.outcome = ?
		ORDER BY va.confirmation_deadline
	`, verification.NeedsConfirmation).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetPendingConfirmationsQueryResponse
		var attemptID, orderID uuid.UUID

		err = rows.Scan(
			&attemptID,
			&orderID,
			&resp.OrderReference,
			&resp.Contact,
			&resp.Shortcode,
			&resp.RequestedAt,
			&resp.Deadline,
		)
		if err != nil {
			return nil, err
		}

		if resp.AttemptID, err = kernel.UUIDFromBytes(attemptID[:]); err != nil {
			return nil, err
		}
		if resp.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}

		confirmations = append(confirmations, resp)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return confirmations, nil
}

package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetPendingConfirmationsQueryIsNotConstructed = errors.New(
	"GetPendingConfirmationsQuery must be created via NewGetPendingConfirmationsQuery constructor",
)

// GetPendingConfirmationsQuery lists verification attempts waiting on a
// customer reply, for the operations dashboard.
type GetPendingConfirmationsQuery struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

// NewGetPendingConfirmationsQuery creates a query for attempts awaiting
// customer confirmation.
func NewGetPendingConfirmationsQuery() GetPendingConfirmationsQuery {
	return GetPendingConfirmationsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPendingConfirmationsQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingConfirmationsQueryIsNotConstructed)
}

// GetPendingConfirmationsQueryResponse is one attempt awaiting a customer reply.
type GetPendingConfirmationsQueryResponse struct {
	AttemptID      kernel.UUID
	OrderID        kernel.UUID
	OrderReference string
	Contact        string
	Shortcode      string
	RequestedAt    time.Time
	Deadline       time.Time
}

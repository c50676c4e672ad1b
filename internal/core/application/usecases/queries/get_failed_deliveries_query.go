package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetFailedDeliveriesQueryIsNotConstructed = errors.New(
	"GetFailedDeliveriesQuery must be created via NewGetFailedDeliveriesQuery constructor",
)

// GetFailedDeliveriesQuery lists webhook deliveries whose retries are
// exhausted. Feeds the dead-letter view used for manual replay decisions.
type GetFailedDeliveriesQuery struct { //nolint:recvcheck //using for validation
	guard guard.ConstructorGuard
}

// NewGetFailedDeliveriesQuery creates a query for permanently failed
// webhook deliveries.
func NewGetFailedDeliveriesQuery() GetFailedDeliveriesQuery {
	return GetFailedDeliveriesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetFailedDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetFailedDeliveriesQueryIsNotConstructed)
}

// GetFailedDeliveriesQueryResponse is one dead-lettered webhook delivery.
type GetFailedDeliveriesQueryResponse struct {
	DeliveryID     kernel.UUID
	SubscriptionID kernel.UUID
	EventID        kernel.UUID
	TargetURL      string
	AttemptCount   int
	LastError      string
	CreatedAt      time.Time
	CompletedAt    time.Time
}

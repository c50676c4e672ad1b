// Package queries contains read-only projections over the persisted state.
// Query handlers read the database directly instead of going through
// repositories: no aggregate invariants apply to a read.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the status projection of one order: where it is in
// its lifecycle, how its address verification ended, and why it is in
// exception if it is.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for one order's projection.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	q := GetOrderQuery{guard: guard.NewConstructorGuard()}

	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	q.orderID = orderID

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the order being projected.
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// GetOrderQueryResponse is the order status projection.
type GetOrderQueryResponse struct {
	ID                  kernel.UUID
	Reference           string
	Channel             string
	SourceNumber        string
	Status              string
	Priority            string
	VerificationOutcome string
	ExceptionReason     string
	Courier             string
	AWB                 string
	CreatedAt           time.Time
}

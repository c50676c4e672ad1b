package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/verification"
)

// VerificationRepository defines the persistence contract for address
// verification attempts. At most one open attempt exists per order; the
// repository enforces that with a partial unique index on open outcomes.
type VerificationRepository interface {
	// Add persists a new verification attempt.
	Add(ctx context.Context, aggregate *verification.Attempt) error

	// Update persists changes to an existing verification attempt.
	Update(ctx context.Context, aggregate *verification.Attempt) error

	// Get retrieves a verification attempt by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*verification.Attempt, error)

	// GetOpenByOrder retrieves the order's in-flight attempt (pending or
	// awaiting confirmation). Returns ObjectNotFoundError when the order
	// has no open attempt.
	GetOpenByOrder(ctx context.Context, orderID kernel.UUID) (*verification.Attempt, error)

	// GetAllDue retrieves every pending attempt whose next retry time has
	// passed, ordered by next retry time. The verification worker drains
	// this set on each tick.
	GetAllDue(ctx context.Context, now time.Time) ([]*verification.Attempt, error)

	// GetAllAwaitingConfirmation retrieves every attempt suspended on a
	// customer confirmation request, confirmed or not. The timeout worker
	// expires the overdue ones.
	GetAllAwaitingConfirmation(ctx context.Context) ([]*verification.Attempt, error)
}

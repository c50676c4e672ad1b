package webhook

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrDeliveryRecordIsNotConstructed is returned when a DeliveryRecord was not
// created through NewDeliveryRecord or RestoreDeliveryRecord.
var ErrDeliveryRecordIsNotConstructed = errors.New(
	"DeliveryRecord must be created via NewDeliveryRecord or RestoreDeliveryRecord constructor")

// DeliveryRecord tracks the delivery of one domain event to one subscriber.
// The payload is snapshotted at enqueue time so retries always send the exact
// same bytes; the event id inside the payload is the consumer's deduplication
// key. Mutated only by the delivery worker that owns it.
type DeliveryRecord struct {
	id             kernel.UUID
	subscriptionID kernel.UUID
	eventID        kernel.UUID
	targetURL      string
	payload        []byte

	status        DeliveryStatus
	attemptCount  int
	nextAttemptAt *time.Time
	lastError     string

	createdAt   time.Time
	completedAt *time.Time

	guard guard.ConstructorGuard
}

// NewDeliveryRecord enqueues a delivery that is due immediately.
func NewDeliveryRecord(
	id kernel.UUID,
	subscriptionID kernel.UUID,
	eventID kernel.UUID,
	targetURL string,
	payload []byte,
	now time.Time,
) (*DeliveryRecord, error) {
	r := &DeliveryRecord{
		status:    StatusPending,
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		r.setID(id),
		r.setSubscriptionID(subscriptionID),
		r.setEventID(eventID),
		r.setTargetURL(targetURL),
		r.setPayload(payload),
	); err != nil {
		return nil, err
	}

	due := now
	r.nextAttemptAt = &due
	return r, nil
}

// RestoreDeliveryRecord reconstructs a delivery record from persistence.
func RestoreDeliveryRecord(
	id kernel.UUID,
	subscriptionID kernel.UUID,
	eventID kernel.UUID,
	targetURL string,
	payload []byte,
	status DeliveryStatus,
	attemptCount int,
	nextAttemptAt *time.Time,
	lastError string,
	createdAt time.Time,
	completedAt *time.Time,
) (*DeliveryRecord, error) {
	r, err := NewDeliveryRecord(id, subscriptionID, eventID, targetURL, payload, createdAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	r.status = status
	r.attemptCount = attemptCount
	r.nextAttemptAt = nextAttemptAt
	r.lastError = lastError
	r.completedAt = completedAt
	return r, nil
}

// Validate ensures the DeliveryRecord was properly constructed.
func (r *DeliveryRecord) Validate() error {
	if r == nil || r.guard.Validate(ErrDeliveryRecordIsNotConstructed) != nil {
		return ErrDeliveryRecordIsNotConstructed
	}
	return nil
}

// ID returns the delivery record identifier.
func (r *DeliveryRecord) ID() kernel.UUID { return r.id }

// SubscriptionID returns the target subscriber's identifier.
func (r *DeliveryRecord) SubscriptionID() kernel.UUID { return r.subscriptionID }

// EventID returns the delivered event's identifier.
func (r *DeliveryRecord) EventID() kernel.UUID { return r.eventID }

// TargetURL returns the endpoint the payload is posted to.
func (r *DeliveryRecord) TargetURL() string { return r.targetURL }

// Payload returns the payload snapshot taken at enqueue time.
func (r *DeliveryRecord) Payload() []byte { return r.payload }

// Status returns the current delivery status.
func (r *DeliveryRecord) Status() DeliveryStatus { return r.status }

// AttemptCount returns the number of HTTP attempts performed.
func (r *DeliveryRecord) AttemptCount() int { return r.attemptCount }

// NextAttemptAt returns when the next attempt is due, or nil once terminal.
func (r *DeliveryRecord) NextAttemptAt() *time.Time { return r.nextAttemptAt }

// LastError returns the error of the most recent failed attempt.
func (r *DeliveryRecord) LastError() string { return r.lastError }

// CreatedAt returns the enqueue time.
func (r *DeliveryRecord) CreatedAt() time.Time { return r.createdAt }

// CompletedAt returns when the record reached a terminal status, or nil.
func (r *DeliveryRecord) CompletedAt() *time.Time { return r.completedAt }

// IsDue reports whether the delivery worker should attempt this record now.
func (r *DeliveryRecord) IsDue(now time.Time) bool {
	return !r.status.IsTerminal() && r.nextAttemptAt != nil && !now.Before(*r.nextAttemptAt)
}

// RecordSuccess finalizes the record after a 2xx response.
func (r *DeliveryRecord) RecordSuccess(now time.Time) error {
	if err := r.ensureOpen(); err != nil {
		return err
	}

	r.attemptCount++
	r.status = StatusSuccess
	r.nextAttemptAt = nil
	r.lastError = ""
	r.completedAt = &now
	return nil
}

// RecordFailure counts a failed attempt against the retry budget. While
// budget remains the record moves to retrying with a backoff-scheduled next
// attempt; once exhausted it fails terminally and is surfaced for operator
// review.
func (r *DeliveryRecord) RecordFailure(
	schedule interface {
		NextAttemptAt(failedAttempt int, now time.Time) time.Time
		Exhausted(attempts int) bool
	},
	lastError string,
	now time.Time,
) (exhausted bool, err error) {
	if err = r.ensureOpen(); err != nil {
		return false, err
	}

	r.attemptCount++
	r.lastError = lastError
	if schedule.Exhausted(r.attemptCount) {
		r.status = StatusFailed
		r.nextAttemptAt = nil
		r.completedAt = &now
		return true, nil
	}

	r.status = StatusRetrying
	next := schedule.NextAttemptAt(r.attemptCount, now)
	r.nextAttemptAt = &next
	return false, nil
}

// Abandon fails the record without further attempts, used when the
// subscription is gone. Terminal records are left untouched.
func (r *DeliveryRecord) Abandon(reason string, now time.Time) bool {
	if r.status.IsTerminal() {
		return false
	}
	r.status = StatusFailed
	r.nextAttemptAt = nil
	r.lastError = reason
	r.completedAt = &now
	return true
}

func (r *DeliveryRecord) ensureOpen() error {
	if r.status.IsTerminal() {
		return errs.NewIllegalTransitionError("delivery record", r.status.String(), "attempt")
	}
	return nil
}

func (r *DeliveryRecord) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

func (r *DeliveryRecord) setSubscriptionID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.subscriptionID = id
	return nil
}

func (r *DeliveryRecord) setEventID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.eventID = id
	return nil
}

func (r *DeliveryRecord) setTargetURL(targetURL string) error {
	if targetURL == "" {
		return errs.NewValueIsRequiredError("targetURL")
	}
	r.targetURL = targetURL
	return nil
}

func (r *DeliveryRecord) setPayload(payload []byte) error {
	if len(payload) == 0 {
		return errs.NewValueIsRequiredError("payload")
	}
	r.payload = payload
	return nil
}

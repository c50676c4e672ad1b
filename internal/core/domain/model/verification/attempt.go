// Package verification contains the AddressVerificationAttempt aggregate: the
// record of resolving one order's shortcode through the national address
// registry, including its retry budget and the customer confirmation fallback.
package verification

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrAttemptIsNotConstructed is returned when an Attempt was not created
// through NewAttempt or RestoreAttempt.
var ErrAttemptIsNotConstructed = errors.New(
	"Attempt must be created via NewAttempt or RestoreAttempt constructor")

// ConfirmationChannel is the channel a customer confirmation request goes out on.
const ConfirmationChannel = "whatsapp"

// ConfirmationRequest is the customer fallback spawned by a needs_confirmation
// outcome. The attempt suspends until an inbound confirmation arrives or the
// deadline passes; expiry is handled by a scheduled job, not a timer.
type ConfirmationRequest struct {
	id          kernel.UUID
	contact     string
	channel     string
	deadline    time.Time
	confirmedAt *time.Time
}

// RestoreConfirmationRequest reconstructs a confirmation request from persistence.
func RestoreConfirmationRequest(
	id kernel.UUID, contact string, channel string, deadline time.Time, confirmedAt *time.Time,
) (*ConfirmationRequest, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if contact == "" {
		return nil, errs.NewValueIsRequiredError("contact")
	}
	return &ConfirmationRequest{
		id: id, contact: contact, channel: channel, deadline: deadline, confirmedAt: confirmedAt,
	}, nil
}

// ID returns the confirmation request identifier.
func (r *ConfirmationRequest) ID() kernel.UUID { return r.id }

// Contact returns the customer contact the request was sent to.
func (r *ConfirmationRequest) Contact() string { return r.contact }

// Channel returns the outbound channel name.
func (r *ConfirmationRequest) Channel() string { return r.channel }

// Deadline returns the absolute time after which the request expires.
func (r *ConfirmationRequest) Deadline() time.Time { return r.deadline }

// ConfirmedAt returns when the customer confirmed, or nil while pending.
func (r *ConfirmationRequest) ConfirmedAt() *time.Time { return r.confirmedAt }

// IsExpired reports whether the deadline passed without a confirmation.
func (r *ConfirmationRequest) IsExpired(now time.Time) bool {
	return r.confirmedAt == nil && now.After(r.deadline)
}

// Attempt is one address verification run for one order. An order has at most
// one open attempt at a time; the repository enforces the (orderID, shortcode)
// deduplication key.
//
// Lifecycle: created Pending and due immediately; mutated only by the
// pipeline; terminal on Verified, or on Failed after the retry budget is
// exhausted, the confirmation deadline passes, or the order is cancelled.
type Attempt struct {
	id        kernel.UUID
	orderID   kernel.UUID
	shortcode kernel.ShortCode

	outcome         Outcome
	resolvedAddress *kernel.Address
	responseHash    string

	retryCount  int
	nextRetryAt *time.Time

	confirmation *ConfirmationRequest

	createdAt  time.Time
	resolvedAt *time.Time

	guard guard.ConstructorGuard
}

// NewAttempt creates a pending attempt that is due for its first registry
// call immediately.
func NewAttempt(id kernel.UUID, orderID kernel.UUID, shortcode kernel.ShortCode, now time.Time) (*Attempt, error) {
	a := &Attempt{
		outcome:   Pending,
		createdAt: now,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		a.setID(id),
		a.setOrderID(orderID),
		a.setShortcode(shortcode),
	); err != nil {
		return nil, err
	}

	due := now
	a.nextRetryAt = &due
	return a, nil
}

// RestoreAttempt reconstructs an attempt from persistence.
func RestoreAttempt(
	id kernel.UUID,
	orderID kernel.UUID,
	shortcode kernel.ShortCode,
	outcome Outcome,
	resolvedAddress *kernel.Address,
	responseHash string,
	retryCount int,
	nextRetryAt *time.Time,
	confirmation *ConfirmationRequest,
	createdAt time.Time,
	resolvedAt *time.Time,
) (*Attempt, error) {
	a, err := NewAttempt(id, orderID, shortcode, createdAt)
	if err != nil {
		return nil, err
	}
	if err = outcome.Validate(); err != nil {
		return nil, err
	}

	a.outcome = outcome
	a.resolvedAddress = resolvedAddress
	a.responseHash = responseHash
	a.retryCount = retryCount
	a.nextRetryAt = nextRetryAt
	a.confirmation = confirmation
	a.resolvedAt = resolvedAt
	return a, nil
}

// Validate ensures the Attempt was properly constructed.
func (a *Attempt) Validate() error {
	if a == nil || a.guard.Validate(ErrAttemptIsNotConstructed) != nil {
		return ErrAttemptIsNotConstructed
	}
	return nil
}

// ID returns the attempt identifier.
func (a *Attempt) ID() kernel.UUID { return a.id }

// OrderID returns the owning order's identifier.
func (a *Attempt) OrderID() kernel.UUID { return a.orderID }

// ShortCode returns the submitted shortcode.
func (a *Attempt) ShortCode() kernel.ShortCode { return a.shortcode }

// Outcome returns the current confidence decision.
func (a *Attempt) Outcome() Outcome { return a.outcome }

// ResolvedAddress returns the structured address from the registry, or nil
// before a successful resolution.
func (a *Attempt) ResolvedAddress() *kernel.Address { return a.resolvedAddress }

// ResponseHash returns the hash of the raw registry response, kept for
// idempotence checks and audit.
func (a *Attempt) ResponseHash() string { return a.responseHash }

// RetryCount returns the number of registry calls that have failed so far.
func (a *Attempt) RetryCount() int { return a.retryCount }

// NextRetryAt returns when the next registry call is due, or nil once the
// attempt no longer needs one.
func (a *Attempt) NextRetryAt() *time.Time { return a.nextRetryAt }

// Confirmation returns the customer confirmation request, or nil if the
// attempt never needed one.
func (a *Attempt) Confirmation() *ConfirmationRequest { return a.confirmation }

// CreatedAt returns when the attempt was created.
func (a *Attempt) CreatedAt() time.Time { return a.createdAt }

// ResolvedAt returns when the attempt reached a terminal outcome, or nil.
func (a *Attempt) ResolvedAt() *time.Time { return a.resolvedAt }

// IsDue reports whether a registry call should be made now.
func (a *Attempt) IsDue(now time.Time) bool {
	return a.outcome == Pending && a.nextRetryAt != nil && !now.Before(*a.nextRetryAt)
}

// MarkVerified records a successful resolution with all mandatory fields present.
func (a *Attempt) MarkVerified(resolvedAddress kernel.Address, responseHash string, now time.Time) error {
	if err := resolvedAddress.Validate(); err != nil {
		return err
	}
	if err := a.ensureOpen(); err != nil {
		return err
	}

	a.outcome = Verified
	a.resolvedAddress = &resolvedAddress
	a.responseHash = responseHash
	a.nextRetryAt = nil
	a.resolvedAt = &now
	return nil
}

// MarkNeedsConfirmation suspends the attempt on a customer confirmation
// request with the given deadline. The registry response (possibly partial)
// is kept so a confirmation can complete without another registry call.
func (a *Attempt) MarkNeedsConfirmation(
	partialAddress *kernel.Address, responseHash string, contact string, deadline time.Time,
) error {
	if contact == "" {
		return errs.NewValueIsRequiredError("contact")
	}
	if err := a.ensureOpen(); err != nil {
		return err
	}

	a.outcome = NeedsConfirmation
	a.resolvedAddress = partialAddress
	a.responseHash = responseHash
	a.nextRetryAt = nil
	a.confirmation = &ConfirmationRequest{
		id:       kernel.NewUUID(),
		contact:  contact,
		channel:  ConfirmationChannel,
		deadline: deadline,
	}
	return nil
}

// ConfirmByCustomer resolves a suspended attempt with the customer's answer.
// The confirmed address becomes the resolved address.
func (a *Attempt) ConfirmByCustomer(confirmedAddress kernel.Address, now time.Time) error {
	if a.outcome != NeedsConfirmation {
		return errs.NewIllegalTransitionError("verification attempt", a.outcome.String(), Verified.String())
	}
	if err := confirmedAddress.Validate(); err != nil {
		return err
	}

	a.outcome = Verified
	a.resolvedAddress = &confirmedAddress
	a.confirmation.confirmedAt = &now
	a.resolvedAt = &now
	return nil
}

// RecordTransientFailure counts a failed registry call against the retry
// budget. While budget remains, the next call is scheduled per the backoff
// schedule and exhausted is false. Once the budget is spent the attempt fails
// terminally and exhausted is true.
func (a *Attempt) RecordTransientFailure(
	schedule interface {
		NextAttemptAt(failedAttempt int, now time.Time) time.Time
		Exhausted(attempts int) bool
	},
	now time.Time,
) (exhausted bool, err error) {
	if err = a.ensureOpen(); err != nil {
		return false, err
	}

	a.retryCount++
	if schedule.Exhausted(a.retryCount) {
		a.fail(now)
		return true, nil
	}

	next := schedule.NextAttemptAt(a.retryCount, now)
	a.nextRetryAt = &next
	return false, nil
}

// MarkRejected fails the attempt terminally on a definitive registry
// rejection (shortcode not found / invalid). No retries follow.
func (a *Attempt) MarkRejected(now time.Time) error {
	if err := a.ensureOpen(); err != nil {
		return err
	}
	a.fail(now)
	return nil
}

// ExpireConfirmation fails a suspended attempt whose confirmation deadline
// passed. Returns changed=false when the attempt is not expirable.
func (a *Attempt) ExpireConfirmation(now time.Time) (bool, error) {
	if a.outcome != NeedsConfirmation || a.confirmation == nil {
		return false, nil
	}
	if !a.confirmation.IsExpired(now) {
		return false, nil
	}

	a.fail(now)
	return true, nil
}

// Abandon fails an in-flight attempt because its order was cancelled.
// Terminal attempts are left untouched.
func (a *Attempt) Abandon(now time.Time) bool {
	if a.outcome.IsTerminal() {
		return false
	}
	a.fail(now)
	return true
}

func (a *Attempt) fail(now time.Time) {
	a.outcome = Failed
	a.nextRetryAt = nil
	a.resolvedAt = &now
}

func (a *Attempt) ensureOpen() error {
	if a.outcome != Pending {
		return errs.NewIllegalTransitionError("verification attempt", a.outcome.String(), "resolve")
	}
	return nil
}

func (a *Attempt) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	a.id = id
	return nil
}

func (a *Attempt) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	a.orderID = orderID
	return nil
}

func (a *Attempt) setShortcode(shortcode kernel.ShortCode) error {
	if err := shortcode.Validate(); err != nil {
		return err
	}
	a.shortcode = shortcode
	return nil
}

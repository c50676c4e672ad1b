package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/verification"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/backoff"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/locker"
)

// registryCountry is the country every registry-resolved address belongs to.
const registryCountry = "SA"

// dueAttempt is the slice of attempt state the handler carries between the
// read phase and the apply phase, so no lock is held across the registry call.
type dueAttempt struct {
	attemptID kernel.UUID
	orderID   kernel.UUID
	shortcode kernel.ShortCode
}

// ResolveVerificationsCommandHandler runs one sweep of the address
// verification pipeline.
//
// Each due attempt is processed in three steps: read its key, call the
// registry with no lock held, then re-acquire the per-order lock and apply
// the outcome in a fresh transaction. Re-loading under the lock means an
// attempt abandoned by a concurrent cancellation is skipped, not clobbered.
type ResolveVerificationsCommandHandler struct {
	uowFactory      VerificationUoWFactory
	registry        ports.RegistryClient
	messenger       ports.ConfirmationMessenger
	publisher       ports.EventPublisher
	orderLocks      *locker.KeyedLocker
	schedule        backoff.Schedule
	confirmationTTL time.Duration
	logger          *slog.Logger
}

// NewResolveVerificationsCommandHandler creates a handler for pipeline sweeps.
func NewResolveVerificationsCommandHandler(
	uowFactory VerificationUoWFactory,
	registry ports.RegistryClient,
	messenger ports.ConfirmationMessenger,
	publisher ports.EventPublisher,
	orderLocks *locker.KeyedLocker,
	schedule backoff.Schedule,
	confirmationTTL time.Duration,
	logger *slog.Logger,
) ResolveVerificationsCommandHandler {
	return ResolveVerificationsCommandHandler{
		uowFactory:      uowFactory,
		registry:        registry,
		messenger:       messenger,
		publisher:       publisher,
		orderLocks:      orderLocks,
		schedule:        schedule,
		confirmationTTL: confirmationTTL,
		logger:          logger.With("component", "resolve_verifications"),
	}
}

// Handle processes every due attempt once. A failing attempt does not stop
// the sweep; errors are joined and reported together.
func (h *ResolveVerificationsCommandHandler) Handle(ctx context.Context, cmd ResolveVerificationsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	due, err := h.collectDue(ctx)
	if err != nil {
		return err
	}

	var errsJoined error
	for _, d := range due {
		if err = h.resolveOne(ctx, d); err != nil {
			errsJoined = errors.Join(errsJoined, fmt.Errorf("attempt %s: %w", d.attemptID, err))
		}
	}
	return errsJoined
}

func (h *ResolveVerificationsCommandHandler) collectDue(ctx context.Context) ([]dueAttempt, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	attempts, err := uow.VerificationRepository().GetAllDue(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	due := make([]dueAttempt, 0, len(attempts))
	for _, a := range attempts {
		due = append(due, dueAttempt{attemptID: a.ID(), orderID: a.OrderID(), shortcode: a.ShortCode()})
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return due, nil
}

func (h *ResolveVerificationsCommandHandler) resolveOne(ctx context.Context, d dueAttempt) error {
	// Registry I/O happens before the per-order lock is taken.
	lookup, lookupErr := h.registry.Lookup(ctx, d.shortcode)

	h.orderLocks.Lock(d.orderID.String())
	defer h.orderLocks.Unlock(d.orderID.String())

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	attempt, err := uow.VerificationRepository().Get(ctx, d.attemptID)
	if err != nil {
		return err
	}
	if attempt.Outcome() != verification.Pending {
		// Resolved or abandoned while the registry call was in flight.
		return nil
	}

	aggregate, err := uow.OrderRepository().Get(ctx, d.orderID)
	if err != nil {
		return err
	}

	var types []event.Type
	var description string
	var notifyContact string

	switch {
	case lookupErr == nil:
		resolved, complete := registryToAddress(lookup.Address)
		if complete {
			if err = attempt.MarkVerified(resolved, lookup.ResponseHash, now); err != nil {
				return err
			}
			if err = aggregate.MarkValidated(resolved, now); err != nil {
				return err
			}
			types = []event.Type{event.VerifyResolved, event.OrderValidated}
			description = fmt.Sprintf("address verified for shortcode %s", d.shortcode)
		} else {
			deadline := now.Add(h.confirmationTTL)
			var partial *kernel.Address
			if lookup.Address.City != "" {
				if p, ok := registryToPartialAddress(lookup.Address); ok {
					partial = &p
				}
			}
			if err = attempt.MarkNeedsConfirmation(partial, lookup.ResponseHash, aggregate.Contact(), deadline); err != nil {
				return err
			}
			if err = aggregate.AwaitAddressConfirmation(); err != nil {
				return err
			}
			types = []event.Type{event.VerifyNeedsConfirmation}
			description = fmt.Sprintf("address for shortcode %s needs customer confirmation", d.shortcode)
			notifyContact = aggregate.Contact()
		}

	case errors.Is(lookupErr, errs.ErrExternalRejected):
		if err = attempt.MarkRejected(now); err != nil {
			return err
		}
		types, description, err = h.failOrder(aggregate, now)
		if err != nil {
			return err
		}

	case errors.Is(lookupErr, errs.ErrExternalUnavailable):
		exhausted, failErr := attempt.RecordTransientFailure(h.schedule, now)
		if failErr != nil {
			return failErr
		}
		if !exhausted {
			if err = uow.VerificationRepository().Update(ctx, attempt); err != nil {
				return err
			}
			return uow.Commit(ctx)
		}
		exhaustedErr := errs.NewRetryExhaustedError("registry lookup", attempt.RetryCount(), lookupErr)
		h.logger.WarnContext(ctx, "Verification retry budget exhausted",
			"order_id", d.orderID.String(), "error", exhaustedErr)
		types, _, err = h.failOrder(aggregate, now)
		if err != nil {
			return err
		}
		description = exhaustedErr.Error()

	default:
		return lookupErr
	}

	if err = uow.VerificationRepository().Update(ctx, attempt); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	events, err := recordEvents(ctx, uow, types, event.EntityOrder, d.orderID,
		description, verificationSource, now)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events...)

	if notifyContact != "" {
		deadline := now.Add(h.confirmationTTL)
		if sendErr := h.messenger.SendAddressConfirmation(ctx, notifyContact, d.shortcode, deadline); sendErr != nil {
			// The confirmation deadline still applies; expiry covers the silent case.
			h.logger.ErrorContext(ctx, "Failed to send confirmation prompt",
				"order_id", d.orderID.String(), "error", sendErr)
		}
	}
	return nil
}

// failOrder moves the order to exception with reason address_unverifiable
// and returns the events to emit. The exception event is skipped when the
// order was already in exception.
func (h *ResolveVerificationsCommandHandler) failOrder(
	aggregate interface {
		MarkVerificationFailed(now time.Time) (bool, error)
	},
	now time.Time,
) ([]event.Type, string, error) {
	changed, err := aggregate.MarkVerificationFailed(now)
	if err != nil {
		return nil, "", err
	}

	types := []event.Type{event.VerifyFailed}
	if changed {
		types = append(types, event.OrderException)
	}
	return types, "address verification failed", nil
}

// registryToAddress maps a registry record to a delivery address. The second
// return value reports whether all mandatory fields (building number,
// street, district, city) were present.
func registryToAddress(a ports.RegistryAddress) (kernel.Address, bool) {
	if a.BuildingNumber == "" || a.Street == "" || a.District == "" || a.City == "" {
		return kernel.Address{}, false
	}

	addr, err := kernel.NewAddress(
		fmt.Sprintf("%s %s", a.BuildingNumber, a.Street),
		a.AdditionalCode, a.City, a.District, a.PostalCode, registryCountry)
	if err != nil {
		return kernel.Address{}, false
	}

	if a.Latitude != 0 || a.Longitude != 0 {
		point, pointErr := kernel.NewGeoPoint(a.Latitude, a.Longitude)
		if pointErr == nil {
			if located, withErr := addr.WithGeoPoint(point); withErr == nil {
				return located, true
			}
		}
	}
	return addr, true
}

// registryToPartialAddress builds a best-effort address from an incomplete
// registry record, kept on the attempt so a customer confirmation can
// complete without another registry call.
func registryToPartialAddress(a ports.RegistryAddress) (kernel.Address, bool) {
	line1 := a.Street
	if a.BuildingNumber != "" {
		line1 = fmt.Sprintf("%s %s", a.BuildingNumber, a.Street)
	}
	if line1 == "" || a.City == "" {
		return kernel.Address{}, false
	}

	addr, err := kernel.NewAddress(line1, a.AdditionalCode, a.City, a.District, a.PostalCode, registryCountry)
	if err != nil {
		return kernel.Address{}, false
	}
	return addr, true
}

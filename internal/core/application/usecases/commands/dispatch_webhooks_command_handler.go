package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/backoff"
)

// DispatchWebhooksCommandHandler runs one sweep of the webhook delivery
// worker. Each due record gets one HTTP POST; the outcome is written back in
// its own transaction so a crash mid-sweep re-delivers rather than loses —
// delivery is at-least-once, subscribers deduplicate on the event id.
type DispatchWebhooksCommandHandler struct {
	uowFactory WebhookUoWFactory
	client     *http.Client
	schedule   backoff.Schedule
}

// NewDispatchWebhooksCommandHandler creates a handler for delivery sweeps.
// The client's timeout bounds every delivery attempt.
func NewDispatchWebhooksCommandHandler(
	uowFactory WebhookUoWFactory, client *http.Client, schedule backoff.Schedule,
) DispatchWebhooksCommandHandler {
	return DispatchWebhooksCommandHandler{
		uowFactory: uowFactory,
		client:     client,
		schedule:   schedule,
	}
}

// Handle processes every due delivery record once. A failing record does not
// stop the sweep; errors are joined and reported together.
func (h *DispatchWebhooksCommandHandler) Handle(ctx context.Context, cmd DispatchWebhooksCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	due, err := h.collectDue(ctx)
	if err != nil {
		return err
	}

	var errsJoined error
	for _, recordID := range due {
		if err = h.deliverOne(ctx, recordID); err != nil {
			errsJoined = errors.Join(errsJoined, fmt.Errorf("delivery %s: %w", recordID, err))
		}
	}
	return errsJoined
}

func (h *DispatchWebhooksCommandHandler) collectDue(ctx context.Context) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	records, err := uow.WebhookRepository().GetAllDueDeliveries(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID())
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return ids, nil
}

func (h *DispatchWebhooksCommandHandler) deliverOne(ctx context.Context, recordID kernel.UUID) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	record, err := uow.WebhookRepository().GetDeliveryRecord(ctx, recordID)
	if err != nil {
		return err
	}
	if !record.IsDue(time.Now().UTC()) {
		// Another worker handled it since the sweep snapshot.
		return uow.Commit(ctx)
	}

	attemptErr := h.post(ctx, record.TargetURL(), record.Payload())
	now := time.Now().UTC()
	if attemptErr == nil {
		if err = record.RecordSuccess(now); err != nil {
			return err
		}
	} else {
		if _, err = record.RecordFailure(h.schedule, attemptErr.Error(), now); err != nil {
			return err
		}
	}

	if err = uow.WebhookRepository().UpdateDeliveryRecord(ctx, record); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// post performs one delivery attempt. Any transport error or non-2xx status
// counts as a failure.
func (h *DispatchWebhooksCommandHandler) post(ctx context.Context, targetURL string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

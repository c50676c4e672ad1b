package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/event"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/verification"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// intakeSource labels events produced by order ingestion.
const intakeSource = "intake"

// IngestOrderCommandHandler handles the intake of upstream orders. Creates
// the order in fetched status with its warehouse sub-tasks and, when the
// payload carries a shortcode, opens the address verification attempt in the
// same transaction.
type IngestOrderCommandHandler struct {
	uowFactory VerificationUoWFactory
	publisher  ports.EventPublisher
}

// NewIngestOrderCommandHandler creates a handler for order intake.
func NewIngestOrderCommandHandler(
	uowFactory VerificationUoWFactory, publisher ports.EventPublisher,
) IngestOrderCommandHandler {
	return IngestOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the intake command. Replayed (channel, source number)
// pairs are rejected with a duplicate request error so upstream retries stay
// idempotent.
func (h *IngestOrderCommandHandler) Handle(ctx context.Context, cmd IngestOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	existing, err := orderRepo.GetBySource(ctx, cmd.Channel(), cmd.SourceNumber())
	if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}
	if existing != nil {
		return errs.NewDuplicateRequestError(
			"source order", fmt.Sprintf("%s/%s", cmd.Channel(), cmd.SourceNumber()))
	}

	aggregate, err := order.NewOrder(
		cmd.OrderID(), cmd.Reference(), cmd.Channel(), cmd.SourceNumber(),
		cmd.Contact(), cmd.Address(), cmd.Value(), cmd.Priority(), now)
	if err != nil {
		return err
	}

	for _, line := range cmd.Lines() {
		pickLine, lineErr := order.NewPickLine(kernel.NewUUID(), line.SKU, line.Bin, line.Qty)
		if lineErr != nil {
			return lineErr
		}
		if lineErr = aggregate.AddPickLine(pickLine); lineErr != nil {
			return lineErr
		}
	}
	for _, tote := range cmd.Totes() {
		packTask, toteErr := order.NewPackTask(kernel.NewUUID(), tote.Tote)
		if toteErr != nil {
			return toteErr
		}
		if toteErr = aggregate.AddPackTask(packTask); toteErr != nil {
			return toteErr
		}
	}

	if err = orderRepo.Add(ctx, aggregate); err != nil {
		return err
	}

	types := []event.Type{event.OrderFetched}
	if cmd.ShortCode() != nil {
		attempt, attemptErr := verification.NewAttempt(
			kernel.NewUUID(), aggregate.ID(), *cmd.ShortCode(), now)
		if attemptErr != nil {
			return attemptErr
		}
		if attemptErr = uow.VerificationRepository().Add(ctx, attempt); attemptErr != nil {
			return attemptErr
		}
		types = append(types, event.VerifyRequested)
	}

	events, err := recordEvents(ctx, uow, types, event.EntityOrder, aggregate.ID(),
		fmt.Sprintf("order %s ingested from %s", cmd.Reference(), cmd.Channel()),
		intakeSource, now)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Publish(events...)
	return nil
}

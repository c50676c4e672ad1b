package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// WebhookDispatchJob manages the delivery of pending webhook notifications.
// Runs every second to post due delivery records to their subscribers.
type WebhookDispatchJob struct {
	handler commands.DispatchWebhooksCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewWebhookDispatchJob creates a new job for dispatching webhooks.
// Uses DispatchWebhooksCommandHandler to process due deliveries every second.
func NewWebhookDispatchJob(
	handler commands.DispatchWebhooksCommandHandler, logger *slog.Logger,
) *WebhookDispatchJob {
	return &WebhookDispatchJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "webhook_dispatch_job"),
	}
}

// Start begins the webhook dispatch job to run every second.
func (j *WebhookDispatchJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewDispatchWebhooksCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Webhook dispatch job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Webhook dispatch job started (running every second)")
	return nil
}

// Stop stops the webhook dispatch job.
func (j *WebhookDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Webhook dispatch job stopped")
}

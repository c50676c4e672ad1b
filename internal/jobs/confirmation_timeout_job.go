package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ConfirmationTimeoutJob manages the expiry of customer confirmation requests.
// Runs every second to fail attempts whose confirmation deadline has passed
// and park their orders in exception.
type ConfirmationTimeoutJob struct {
	handler commands.ExpireConfirmationsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewConfirmationTimeoutJob creates a new job for expiring confirmations.
// Uses ExpireConfirmationsCommandHandler to sweep overdue requests every second.
func NewConfirmationTimeoutJob(
	handler commands.ExpireConfirmationsCommandHandler, logger *slog.Logger,
) *ConfirmationTimeoutJob {
	return &ConfirmationTimeoutJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "confirmation_timeout_job"),
	}
}

// Start begins the confirmation timeout job to run every second.
func (j *ConfirmationTimeoutJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewExpireConfirmationsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Confirmation timeout job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Confirmation timeout job started (running every second)")
	return nil
}

// Stop stops the confirmation timeout job.
func (j *ConfirmationTimeoutJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Confirmation timeout job stopped")
}

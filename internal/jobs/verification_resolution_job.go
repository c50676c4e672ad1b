package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// VerificationResolutionJob manages the scheduled resolution of address
// verification attempts. Runs every second to push due attempts through the
// registry lookup pipeline.
type VerificationResolutionJob struct {
	handler commands.ResolveVerificationsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewVerificationResolutionJob creates a new job for resolving verifications.
// Uses ResolveVerificationsCommandHandler to process due attempts every second.
func NewVerificationResolutionJob(
	handler commands.ResolveVerificationsCommandHandler, logger *slog.Logger,
) *VerificationResolutionJob {
	return &VerificationResolutionJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "verification_resolution_job"),
	}
}

// Start begins the verification resolution job to run every second.
func (j *VerificationResolutionJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewResolveVerificationsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Verification resolution job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Verification resolution job started (running every second)")
	return nil
}

// Stop stops the verification resolution job.
func (j *VerificationResolutionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Verification resolution job stopped")
}

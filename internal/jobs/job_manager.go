package jobs

import (
	"fmt"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	verificationResolutionJob *VerificationResolutionJob
	confirmationTimeoutJob    *ConfirmationTimeoutJob
	webhookDispatchJob        *WebhookDispatchJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	resolveVerificationsHandler commands.ResolveVerificationsCommandHandler,
	expireConfirmationsHandler commands.ExpireConfirmationsCommandHandler,
	dispatchWebhooksHandler commands.DispatchWebhooksCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		verificationResolutionJob: NewVerificationResolutionJob(resolveVerificationsHandler, logger),
		confirmationTimeoutJob:    NewConfirmationTimeoutJob(expireConfirmationsHandler, logger),
		webhookDispatchJob:        NewWebhookDispatchJob(dispatchWebhooksHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.verificationResolutionJob.Start(); err != nil {
		return fmt.Errorf("failed to start verification resolution job: %w", err)
	}

	if err := jm.confirmationTimeoutJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.verificationResolutionJob.Stop()
		return fmt.Errorf("failed to start confirmation timeout job: %w", err)
	}

	if err := jm.webhookDispatchJob.Start(); err != nil {
		jm.confirmationTimeoutJob.Stop()
		jm.verificationResolutionJob.Stop()
		return fmt.Errorf("failed to start webhook dispatch job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.webhookDispatchJob.Stop()
	jm.confirmationTimeoutJob.Stop()
	jm.verificationResolutionJob.Stop()
}

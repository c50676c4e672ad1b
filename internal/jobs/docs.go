// Package jobs provides scheduled background tasks for the fulfillment engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the orchestration pipeline.
//
// # Available Jobs
//
// 1. VerificationResolutionJob - Runs every second to resolve due address verification attempts against the registry
// 2. ConfirmationTimeoutJob - Runs every second to expire overdue customer confirmation requests
// 3. WebhookDispatchJob - Runs every second to deliver due webhook notifications to subscribers
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(resolveHandler, expireHandler, dispatchHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// All jobs use the cron expression "* * * * * *" which means they run every
// second. Each handler sweeps everything currently due, so the schedule only
// bounds how quickly newly due work is noticed.
//
// # Error Handling
//
// - A sweep with nothing due succeeds and does nothing
// - Per-item failures are absorbed into retry state by the handlers; job-level errors are logged
// - Failed job starts will stop any already running jobs
package jobs

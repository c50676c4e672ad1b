// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// VerificationRepoFactory provides access to the verification repository within a transaction.
	VerificationRepoFactory interface {
		VerificationRepository() ports.VerificationRepository
	}

	// WebhookRepoFactory provides access to the webhook repository within a transaction.
	WebhookRepoFactory interface {
		WebhookRepository() ports.WebhookRepository
	}

	// EventRepoFactory provides access to the event log within a transaction.
	EventRepoFactory interface {
		EventRepository() ports.EventRepository
	}

	// ManifestRepoFactory provides access to the manifest repository within a transaction.
	ManifestRepoFactory interface {
		ManifestRepository() ports.ManifestRepository
	}

	// OrderUoW manages transactions for order state changes. Every successful
	// transition also appends to the event log and fans out webhook delivery
	// records, so the event and webhook repositories ride along.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		EventRepoFactory
		WebhookRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// VerificationUoW manages transactions for the verification pipeline,
	// which mutates the attempt and its order together.
	VerificationUoW interface {
		TxManager
		VerificationRepoFactory
		OrderRepoFactory
		EventRepoFactory
		WebhookRepoFactory
	}

	// VerificationUoWFactory creates new verification unit of work instances.
	VerificationUoWFactory interface {
		Create() VerificationUoW
	}

	// ManifestUoW manages transactions spanning a manifest and its orders.
	ManifestUoW interface {
		TxManager
		ManifestRepoFactory
		OrderRepoFactory
		EventRepoFactory
		WebhookRepoFactory
	}

	// ManifestUoWFactory creates new manifest unit of work instances.
	ManifestUoWFactory interface {
		Create() ManifestUoW
	}

	// WebhookUoW manages transactions for the delivery worker, which only
	// touches subscriptions and delivery records.
	WebhookUoW interface {
		TxManager
		WebhookRepoFactory
	}

	// WebhookUoWFactory creates new webhook unit of work instances.
	WebhookUoWFactory interface {
		Create() WebhookUoW
	}
)

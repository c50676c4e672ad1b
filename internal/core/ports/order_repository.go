// Package ports defines the contracts between the application core and
// infrastructure: repositories, the unit of work, the address registry
// client, and the outbound event surfaces.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying orders by their
// lifecycle status and by the codes warehouse scans carry.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// The order must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetBySource retrieves the order ingested from the given sales channel
	// under the given source order number. Used to reject duplicate
	// ingestion of the same upstream order.
	GetBySource(ctx context.Context, channel string, sourceNumber string) (*order.Order, error)

	// FindByScanCode retrieves the non-terminal order that owns the scanned
	// code in the given context: a pick line SKU or bin, a pack tote, or a
	// dispatch AWB. Returns ObjectNotFoundError when no open order carries
	// the code.
	FindByScanCode(ctx context.Context, code string, scanContext order.ScanContext) (*order.Order, error)

	// GetAllInStatus retrieves all orders currently in the given status,
	// ordered by ingestion sequence.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}

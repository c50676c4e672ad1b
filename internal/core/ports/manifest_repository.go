package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/manifest"
)

// ManifestRepository defines the persistence contract for manifests and
// routes.
type ManifestRepository interface {
	// AddManifest persists a newly opened manifest.
	AddManifest(ctx context.Context, aggregate *manifest.Manifest) error

	// UpdateManifest persists changes to an existing manifest.
	UpdateManifest(ctx context.Context, aggregate *manifest.Manifest) error

	// GetManifest retrieves a manifest by its unique identifier.
	GetManifest(ctx context.Context, id kernel.UUID) (*manifest.Manifest, error)

	// AddRoute persists a newly opened route.
	AddRoute(ctx context.Context, aggregate *manifest.Route) error

	// UpdateRoute persists changes to an existing route.
	UpdateRoute(ctx context.Context, aggregate *manifest.Route) error

	// GetRoute retrieves a route by its unique identifier.
	GetRoute(ctx context.Context, id kernel.UUID) (*manifest.Route, error)
}

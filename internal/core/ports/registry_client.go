package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// RegistryAddress is the raw address record returned by the national address
// registry for a shortcode. Which fields are mandatory for a verified
// outcome is decided by the verification pipeline, not the client.
type RegistryAddress struct {
	BuildingNumber string
	Street         string
	District       string
	City           string
	PostalCode     string
	AdditionalCode string
	Latitude       float64
	Longitude      float64
}

// RegistryLookup is one registry response together with the hash of its raw
// body, kept on the attempt for idempotence checks and audit.
type RegistryLookup struct {
	Address      RegistryAddress
	ResponseHash string
}

// RegistryClient defines the contract for resolving shortcodes against the
// national address registry.
//
// Error classification is part of the contract: timeouts, connection errors
// and 5xx responses map to ExternalUnavailableError (the pipeline retries);
// a definitive not-found or invalid-shortcode response maps to
// ExternalRejectedError (the pipeline fails the attempt without retrying).
type RegistryClient interface {
	Lookup(ctx context.Context, shortcode kernel.ShortCode) (RegistryLookup, error)
}

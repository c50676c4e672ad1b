// Package registry implements the national address registry client over its
// HTTP API. Shortcodes resolve to structured address records; the client
// classifies failures so the verification pipeline knows whether to retry.
package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const serviceName = "address registry"

// Client resolves shortcodes against the registry's HTTP API.
//
// Error classification: network errors, timeouts and 5xx responses come back
// as ExternalUnavailableError; 404 and 422 come back as ExternalRejectedError.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a registry client. The timeout bounds each lookup call.
func NewClient(baseURL string, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// addressResponse is the registry's wire format for one address record.
type addressResponse struct {
	BuildingNumber string  `json:"buildingNumber"`
	Street         string  `json:"street"`
	District       string  `json:"district"`
	City           string  `json:"city"`
	PostalCode     string  `json:"postalCode"`
	AdditionalCode string  `json:"additionalCode"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

// Lookup resolves one shortcode. The SHA-256 of the raw response body rides
// along as the response hash for audit and idempotence checks.
func (c *Client) Lookup(ctx context.Context, shortcode kernel.ShortCode) (ports.RegistryLookup, error) {
	if err := shortcode.Validate(); err != nil {
		return ports.RegistryLookup{}, err
	}

	url := fmt.Sprintf("%s/v1/addresses/%s", c.baseURL, shortcode.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ports.RegistryLookup{}, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.RegistryLookup{}, errs.NewExternalUnavailableError(serviceName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.RegistryLookup{}, errs.NewExternalUnavailableError(serviceName, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		// Fall through to decoding.
	case resp.StatusCode == http.StatusNotFound:
		return ports.RegistryLookup{}, errs.NewExternalRejectedError(serviceName,
			fmt.Sprintf("shortcode %s not found", shortcode))
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return ports.RegistryLookup{}, errs.NewExternalRejectedError(serviceName,
			fmt.Sprintf("shortcode %s rejected as invalid", shortcode))
	case resp.StatusCode >= http.StatusInternalServerError:
		return ports.RegistryLookup{}, errs.NewExternalUnavailableError(serviceName,
			fmt.Errorf("unexpected status %s", resp.Status))
	default:
		return ports.RegistryLookup{}, errs.NewExternalUnavailableError(serviceName,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	var record addressResponse
	if err = json.Unmarshal(body, &record); err != nil {
		return ports.RegistryLookup{}, errs.NewExternalUnavailableError(serviceName, err)
	}

	hash := sha256.Sum256(body)
	return ports.RegistryLookup{
		Address: ports.RegistryAddress{
			BuildingNumber: record.BuildingNumber,
			Street:         record.Street,
			District:       record.District,
			City:           record.City,
			PostalCode:     record.PostalCode,
			AdditionalCode: record.AdditionalCode,
			Latitude:       record.Latitude,
			Longitude:      record.Longitude,
		},
		ResponseHash: hex.EncodeToString(hash[:]),
	}, nil
}

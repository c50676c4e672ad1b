// Package whatsapp implements the customer confirmation messenger over a
// WhatsApp Business API gateway. It only sends the address confirmation
// prompt; inbound replies arrive through the public HTTP API.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const (
	serviceName  = "whatsapp gateway"
	templateName = "address_confirmation"
)

// Messenger sends address confirmation prompts through the gateway's HTTP API.
type Messenger struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewMessenger creates a WhatsApp messenger. The timeout bounds each send.
func NewMessenger(baseURL string, authToken string, timeout time.Duration) *Messenger {
	return &Messenger{
		baseURL:    baseURL,
		authToken:  authToken,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// messageRequest is the gateway's wire format for one templated message.
type messageRequest struct {
	To       string   `json:"to"`
	Template string   `json:"template"`
	Params   []string `json:"params"`
}

// SendAddressConfirmation sends the confirmation prompt for a shortcode to
// the customer's contact number. The deadline rides along so the message can
// state when the request expires.
func (m *Messenger) SendAddressConfirmation(
	ctx context.Context, contact string, shortcode kernel.ShortCode, deadline time.Time,
) error {
	if contact == "" {
		return errs.NewValueIsRequiredError("contact")
	}
	if err := shortcode.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(messageRequest{
		To:       contact,
		Template: templateName,
		Params:   []string{shortcode.String(), deadline.UTC().Format(time.RFC3339)},
	})
	if err != nil {
		return err
	}

	url := m.baseURL + "/v1/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if m.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+m.authToken)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return errs.NewExternalUnavailableError(serviceName, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errs.NewExternalUnavailableError(serviceName,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	return nil
}

package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// ConfirmationMessenger defines the contract for sending an address
// confirmation prompt to the customer over WhatsApp. Send failures are
// logged and do not fail the attempt: the confirmation deadline still
// applies and expiry handles the silent case.
type ConfirmationMessenger interface {
	SendAddressConfirmation(ctx context.Context, contact string, shortcode kernel.ShortCode, deadline time.Time) error
}

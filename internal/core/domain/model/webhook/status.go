package webhook

import "fulfillment/internal/pkg/errs"

// DeliveryStatus is the lifecycle state of one webhook delivery record.
//
//	Pending ──> Success
//	   │  └───> Retrying ──> Success
//	   │            │
//	   │            └──────> Failed (budget exhausted)
//	   └──────────────────-> Failed (abandoned)
//
// Success and Failed are terminal.
type DeliveryStatus string

const (
	StatusPending  DeliveryStatus = "pending"
	StatusRetrying DeliveryStatus = "retrying"
	StatusSuccess  DeliveryStatus = "success"
	StatusFailed   DeliveryStatus = "failed"
)

// Validate checks the status is one of the defined values.
func (s DeliveryStatus) Validate() error {
	switch s {
	case StatusPending, StatusRetrying, StatusSuccess, StatusFailed:
		return nil
	default:
		return errs.NewValueIsInvalidError("delivery status")
	}
}

// String returns the status name.
func (s DeliveryStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the record can no longer change.
func (s DeliveryStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

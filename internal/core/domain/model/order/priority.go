package order

import "fulfillment/internal/pkg/errs"

// Priority indicates how urgently an order should move through the warehouse.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Validate checks the priority is one of the four defined levels.
func (p Priority) Validate() error {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return nil
	default:
		return errs.NewValueIsInvalidError("priority")
	}
}

// String returns the priority name.
func (p Priority) String() string {
	return string(p)
}

package order

import (
	"fulfillment/internal/pkg/errs"
)

// Status represents the macro lifecycle state of a fulfillment order.
// It implements a state machine with a fixed transition set; every transition
// attempt outside that set fails with an IllegalTransitionError.
//
// State transitions:
//
//	Fetched ──> Validated ──> Picking ──> Packed ──> Shipped ──> Delivered
//	   │            │            │           │          │
//	   └────────────┴────────────┴───────────┴──────────┴──> Exception
//	   │            │            │           │                   │
//	   └────────────┴────────────┴───────────┴───────────────────┴──> Cancelled
//
// Exception is reachable from any non-terminal state; Cancelled from any state
// that has not shipped. Delivered and Cancelled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Fetched is the initial status: the order was pulled from its source
	// channel and awaits address verification.
	Fetched

	// Validated indicates the delivery address was verified; the order is
	// ready for warehouse execution.
	Validated

	// Picking indicates at least one pick line has been scanned and the
	// warehouse is actively collecting items.
	Picking

	// Packed indicates every pick line and pack tote is complete; the order
	// awaits courier handover.
	Packed

	// Shipped indicates the package left with a courier via manifest handover.
	Shipped

	// Delivered is the terminal happy-path status.
	Delivered

	// Exception marks an order needing operator attention. The last failure
	// reason is carried by the order aggregate.
	Exception

	// Cancelled is the terminal status of an order withdrawn before shipping.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Fetched:   "fetched",
		Validated: "validated",
		Picking:   "picking",
		Packed:    "packed",
		Shipped:   "shipped",
		Delivered: "delivered",
		Exception: "exception",
		Cancelled: "cancelled",
	}
}

// transitions lists, per source status, the statuses reachable from it.
// Exception -> Cancelled is additionally guarded by the aggregate: an order
// that ever reached Shipped refuses cancellation regardless of this set.
func transitions() map[Status][]Status {
	return map[Status][]Status{
		Fetched:   {Validated, Exception, Cancelled},
		Validated: {Picking, Exception, Cancelled},
		Picking:   {Packed, Exception, Cancelled},
		Packed:    {Shipped, Exception, Cancelled},
		Shipped:   {Delivered, Exception},
		Exception: {Cancelled},
		Delivered: {},
		Cancelled: {},
	}
}

// Validate checks if the Status value is one of the defined statuses.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidError("status")
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// String returns the lowercase name of the status.
// This method implements fmt.Stringer and is safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether moving to target is legal from s.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo returns the target status when the transition is legal,
// or an IllegalTransitionError otherwise. Self-transitions are illegal here;
// idempotent operations (repeated MarkException) are handled by the aggregate
// before reaching the guard.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, errs.NewIllegalTransitionError("order", s.String(), target.String())
	}
	return target, nil
}

// StatusFromString parses the lowercase status name used in persistence and APIs.
func StatusFromString(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if name == s && status != Unknown {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidError("status")
}

package verification

import "fulfillment/internal/pkg/errs"

// Outcome is the confidence decision of the verification pipeline.
// Pending is the in-flight state; Verified and Failed are terminal;
// NeedsConfirmation suspends the attempt on a customer confirmation request.
type Outcome string

const (
	Pending           Outcome = "pending"
	Verified          Outcome = "verified"
	NeedsConfirmation Outcome = "needs_confirmation"
	Failed            Outcome = "failed"
)

// Validate checks the outcome is one of the defined values.
func (o Outcome) Validate() error {
	switch o {
	case Pending, Verified, NeedsConfirmation, Failed:
		return nil
	default:
		return errs.NewValueIsInvalidError("outcome")
	}
}

// String returns the outcome name.
func (o Outcome) String() string {
	return string(o)
}

// IsTerminal reports whether the attempt can no longer change.
func (o Outcome) IsTerminal() bool {
	return o == Verified || o == Failed
}

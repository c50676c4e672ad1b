package kernel

import (
	"regexp"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrShortCodeIsNotConstructed is returned when validating a ShortCode created
// outside the NewShortCode constructor.
var ErrShortCodeIsNotConstructed = errs.NewValueIsRequiredError(
	"shortcode must be created via NewShortCode constructor")

// shortCodePattern matches a national-address shortcode: four letters followed
// by four digits, e.g. "RESB3139". Matching is case-insensitive at the
// boundary; the stored value keeps its original casing.
var shortCodePattern = regexp.MustCompile(`^[A-Za-z]{4}[0-9]{4}$`)

// ShortCode is the compact national-address code a customer supplies instead
// of a full street address. The verification pipeline resolves it to a
// structured, geocoded address through the external registry.
//
// Format validation happens here, before any network call: a malformed code
// fails fast and never reaches the registry.
type ShortCode struct {
	value string
	guard guard.ConstructorGuard
}

// NewShortCode creates a validated shortcode.
// Returns a ValueIsInvalidError if the code does not match the expected
// four-letters-four-digits pattern.
func NewShortCode(value string) (ShortCode, error) {
	if value == "" {
		return ShortCode{}, errs.NewValueIsRequiredError("shortcode")
	}
	if !shortCodePattern.MatchString(value) {
		return ShortCode{}, errs.NewValueIsInvalidError("shortcode")
	}

	return ShortCode{
		value: value,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate checks the shortcode was created through NewShortCode.
func (c ShortCode) Validate() error {
	return c.guard.Validate(ErrShortCodeIsNotConstructed)
}

// String returns the shortcode text.
func (c ShortCode) String() string {
	return c.value
}

// IsEqual compares two shortcodes by value.
func (c ShortCode) IsEqual(other ShortCode) bool {
	return c.value == other.value
}

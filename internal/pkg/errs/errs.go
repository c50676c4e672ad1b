package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used for classification with errors.Is.
var (
	ErrValueIsRequired     = errors.New("value is required")
	ErrValueIsInvalid      = errors.New("value is invalid")
	ErrValueIsOutOfRange   = errors.New("value is out of range")
	ErrObjectNotFound      = errors.New("object not found")
	ErrIllegalTransition   = errors.New("illegal transition")
	ErrExternalUnavailable = errors.New("external service unavailable")
	ErrExternalRejected    = errors.New("external service rejected request")
	ErrRetryExhausted      = errors.New("retry budget exhausted")
	ErrDuplicateRequest    = errors.New("duplicate request")
	ErrScanContextMismatch = errors.New("scan context mismatch")
)

// sanitize flattens multi-line values so error messages stay single-line in logs.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

// ValueIsRequiredError indicates a required value was missing or empty.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError indicates a value was present but malformed or not allowed.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError indicates a numeric value fell outside its allowed bounds.
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value any, minValue any, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value any, minValue any, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v (cause: %s)",
			ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, e.Value, e.ParamName, e.Min, e.Max))
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ObjectNotFoundError indicates a lookup by identifier found nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// IllegalTransitionError indicates a state machine guard rejected a transition.
// From and To carry the attempted transition for diagnostics.
type IllegalTransitionError struct {
	Entity string
	From   string
	To     string
}

func NewIllegalTransitionError(entity string, from string, to string) *IllegalTransitionError {
	return &IllegalTransitionError{Entity: entity, From: from, To: to}
}

func (e *IllegalTransitionError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s cannot move from %s to %s", ErrIllegalTransition, e.Entity, e.From, e.To))
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// ExternalUnavailableError indicates a transient failure of an external
// collaborator. Operations failing with this error are retried with backoff.
type ExternalUnavailableError struct {
	Service string
	Cause   error
}

func NewExternalUnavailableError(service string, cause error) *ExternalUnavailableError {
	return &ExternalUnavailableError{Service: service, Cause: cause}
}

func (e *ExternalUnavailableError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrExternalUnavailable, e.Service, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrExternalUnavailable, e.Service))
}

func (e *ExternalUnavailableError) Unwrap() error {
	return ErrExternalUnavailable
}

// ExternalRejectedError indicates a definitive negative answer from an external
// collaborator (not found / invalid). Operations failing with this error are
// never retried.
type ExternalRejectedError struct {
	Service string
	Reason  string
}

func NewExternalRejectedError(service string, reason string) *ExternalRejectedError {
	return &ExternalRejectedError{Service: service, Reason: reason}
}

func (e *ExternalRejectedError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s: %s", ErrExternalRejected, e.Service, e.Reason))
}

func (e *ExternalRejectedError) Unwrap() error {
	return ErrExternalRejected
}

// RetryExhaustedError indicates an operation failed terminally after
// consuming its whole retry budget.
type RetryExhaustedError struct {
	Operation string
	Attempts  int
	Cause     error
}

func NewRetryExhaustedError(operation string, attempts int, cause error) *RetryExhaustedError {
	return &RetryExhaustedError{Operation: operation, Attempts: attempts, Cause: cause}
}

func (e *RetryExhaustedError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s after %d attempts (cause: %s)",
			ErrRetryExhausted, e.Operation, e.Attempts, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s after %d attempts", ErrRetryExhausted, e.Operation, e.Attempts))
}

func (e *RetryExhaustedError) Unwrap() error {
	return ErrRetryExhausted
}

// DuplicateRequestError indicates an operation was already performed for the
// same idempotency key. Callers treat it as a no-op, not a failure.
type DuplicateRequestError struct {
	ParamName string
	Key       string
}

func NewDuplicateRequestError(paramName string, key string) *DuplicateRequestError {
	return &DuplicateRequestError{ParamName: paramName, Key: key}
}

func (e *DuplicateRequestError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s: %s", ErrDuplicateRequest, e.ParamName, e.Key))
}

func (e *DuplicateRequestError) Unwrap() error {
	return ErrDuplicateRequest
}

// ScanContextMismatchError indicates a scanned code did not match any open
// task for the declared scan context. The scan leaves no state behind.
type ScanContextMismatchError struct {
	Code    string
	Context string
}

func NewScanContextMismatchError(code string, context string) *ScanContextMismatchError {
	return &ScanContextMismatchError{Code: code, Context: context}
}

func (e *ScanContextMismatchError) Error() string {
	return sanitize(fmt.Sprintf("%s: code %s has no open task in context %s", ErrScanContextMismatch, e.Code, e.Context))
}

func (e *ScanContextMismatchError) Unwrap() error {
	return ErrScanContextMismatch
}

// Package errs provides standardized error types for the fulfillment engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// Two families of errors live here:
//
//   - Generic validation errors shared by all value objects and commands:
//     ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError,
//     ObjectNotFoundError.
//
//   - The orchestration taxonomy used by the order state machine, the address
//     verification pipeline, and the webhook delivery layer:
//     IllegalTransitionError, ExternalUnavailableError, ExternalRejectedError,
//     RetryExhaustedError, DuplicateRequestError, ScanContextMismatchError.
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrIllegalTransition)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is can classify against the sentinel
//
// The sentinels are the classification boundary: callers decide retry-vs-fail
// behavior with errors.Is against ErrExternalUnavailable / ErrExternalRejected
// and never by inspecting message text.
package errs

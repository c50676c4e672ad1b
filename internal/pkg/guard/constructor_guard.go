// Package guard implements the constructor guard pattern used by value objects,
// commands, and aggregates to detect instances created outside their designated
// constructor function. A zero-value struct fails validation, which keeps
// invariants enforceable even when structs are exported.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when a nil validation
// error is supplied. This keeps validation failing with a meaningful message
// even if the caller forgot to define a type-specific error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as created through its constructor.
// Embed it as a private field and set it with NewConstructorGuard inside the
// constructor; any zero-value instance will then fail Validate.
//
// Example:
//
//	type ShortCode struct {
//	    value string
//	    guard guard.ConstructorGuard
//	}
//
//	func NewShortCode(v string) (ShortCode, error) {
//	    ...
//	    return ShortCode{value: v, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c ShortCode) Validate() error {
//	    return c.guard.Validate(ErrShortCodeIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marking the enclosing object as
// properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the object was created through its constructor,
// otherwise the provided validationError (or ErrDefaultConstructorGuard when
// validationError is nil).
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}

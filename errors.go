package factory

import (
	"fmt"
	"strings"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeNotRegistered indicates no factory is registered for a key
	CodeNotRegistered = "NOT_REGISTERED"

	// CodeCircularDependency indicates a circular dependency was detected
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"

	// CodeTypeMismatch indicates a resolved instance has an unexpected type
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeDispose indicates an error occurred while disposing cached instances
	CodeDispose = "DISPOSE"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrNotRegistered is a sentinel for missing registrations (for error checking).
var ErrNotRegistered = errs.NewError(CodeNotRegistered, "not registered", nil)

// ErrCircularDependencySentinel is a sentinel for circular dependencies (for error checking).
var ErrCircularDependencySentinel = errs.NewError(CodeCircularDependency, "circular dependency", nil)

// ErrTypeMismatchSentinel is a sentinel for type mismatches (for error checking).
var ErrTypeMismatchSentinel = errs.NewError(CodeTypeMismatch, "type mismatch", nil)

// ErrDisposeSentinel is a sentinel for dispose failures (for error checking).
var ErrDisposeSentinel = errs.NewError(CodeDispose, "dispose failed", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrServiceNotRegistered creates an error for a key with no registration.
func ErrServiceNotRegistered(key Key) *errs.Error {
	return errs.NewError(
		CodeNotRegistered,
		fmt.Sprintf("no factory registered for %s", key),
		nil,
	).WithContext("key", key.String()).(*errs.Error)
}

// ErrCircularDependency creates an error describing a dependency cycle.
func ErrCircularDependency(chain []string) *errs.Error {
	return errs.NewError(
		CodeCircularDependency,
		cycleMessage(chain),
		nil,
	).WithContext("chain", chain).(*errs.Error)
}

// ErrTypeMismatch creates an error for an instance that is not of the expected type.
func ErrTypeMismatch(key Key, actual any) *errs.Error {
	return errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("%s type mismatch: got %T", key, actual),
		nil,
	).WithContext("key", key.String()).
		WithContext("actual_type", fmt.Sprintf("%T", actual)).(*errs.Error)
}

// NewDisposeError wraps the failures collected while disposing instances.
func NewDisposeError(container string, cause error) *errs.Error {
	return errs.NewError(
		CodeDispose,
		fmt.Sprintf("container %s dispose failed", container),
		cause,
	).WithContext("container", container).(*errs.Error)
}

func cycleMessage(chain []string) string {
	return "circular dependency chain - " + strings.Join(chain, " > ")
}

package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientPermissions is returned before any data fetch when the
	// portal context does not satisfy an operation's access rule.
	ErrInsufficientPermissions = errors.New("insufficient permissions")

	// ErrCommissionTrackingDisabled is returned when commission tracking is
	// switched off for the engine's portal type.
	ErrCommissionTrackingDisabled = errors.New("commission tracking is disabled for this portal")

	// ErrUnknownPortalType is returned by the factory for portal types it
	// has no configuration for.
	ErrUnknownPortalType = errors.New("unknown portal type")
)

// DependencyError marks a calculation that failed because a provider fetch
// failed, as opposed to bad caller input. Handlers map it to 502.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

func dependencyFailure(op string, err error) error {
	return &DependencyError{Op: op, Err: err}
}

package countdown

import "github.com/tickworks/countdown/internal/errorutil"

// Common errors.
const (
	ErrInvalidArgument = errorutil.ErrInvalidArgument
	// ErrInvalidConfiguration is returned when a config carries values
	// outside the accepted range, e.g. a negative duration or interval.
	ErrInvalidConfiguration Error = "invalid configuration"
)

// Engine errors.
const (
	// ErrEngineClosed is returned when attempting to use a closed engine.
	ErrEngineClosed Error = "engine closed"
)

// Manager errors.
const (
	ErrEngineExists   Error = "engine already exists"
	ErrEngineNotFound Error = "engine not found"
	ErrManagerClosed  Error = "engine manager closed"
)

// Error represents a countdown error.
// See [errorutil.Error].
type Error = errorutil.Error

// NewInvalidArgumentError creates a new error with [ErrInvalidArgument] or
// wraps provided error with [ErrInvalidArgument].
func NewInvalidArgumentError(args ...any) error {
	return errorutil.NewInvalidArgumentError(args...) //errtrace:skip
}

// NewInvalidConfigurationError creates a new error with [ErrInvalidConfiguration]
// or wraps provided error with [ErrInvalidConfiguration].
func NewInvalidConfigurationError(args ...any) error {
	return errorutil.NewWrapperError(ErrInvalidConfiguration, args...) //errtrace:skip
}

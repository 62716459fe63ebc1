package pricing

import (
	"fmt"

	"github.com/quamilek/ralph-pricing/internal/domain/shared"
)

// Domain errors of the pricing context
var (
	ErrUsageTypeNotFound = shared.NewDomainError("USAGE_TYPE_NOT_FOUND", "Usage type not found")
	ErrVentureNotFound   = shared.NewDomainError("VENTURE_NOT_FOUND", "Venture not found")
	ErrInvalidPercent    = shared.NewDomainError("INVALID_PERCENT", "Percent must be between 0 and 100")
	ErrNegativeUsage     = shared.NewDomainError("NEGATIVE_USAGE", "Usage value cannot be negative")
)

// UnknownServiceEnvironmentNotConfiguredError is returned when a collector has
// no fallback venture configured, or the configured one does not exist.
type UnknownServiceEnvironmentNotConfiguredError struct {
	Collector string
}

// Error implements the error interface
func (e *UnknownServiceEnvironmentNotConfiguredError) Error() string {
	return fmt.Sprintf("Unknown service environment not configured for %q", e.Collector)
}

// Unwrap lets errors.Is match shared.ErrNotConfigured
func (e *UnknownServiceEnvironmentNotConfiguredError) Unwrap() error {
	return shared.ErrNotConfigured
}

// Is matches any UnknownServiceEnvironmentNotConfiguredError, whatever the collector
func (e *UnknownServiceEnvironmentNotConfiguredError) Is(target error) bool {
	_, ok := target.(*UnknownServiceEnvironmentNotConfiguredError)
	return ok
}

// ErrUnknownServiceEnvironmentNotConfigured is the sentinel for errors.Is checks
var ErrUnknownServiceEnvironmentNotConfigured = &UnknownServiceEnvironmentNotConfiguredError{}

// NewUnknownServiceEnvironmentNotConfiguredError creates the error for a collector
func NewUnknownServiceEnvironmentNotConfiguredError(collector string) error {
	return &UnknownServiceEnvironmentNotConfiguredError{Collector: collector}
}

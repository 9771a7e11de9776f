package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every ValidationError through errors.Is.
	ErrValidation = errors.New("validation failed")
	// ErrConfiguration matches every ConfigurationError through errors.Is.
	ErrConfiguration = errors.New("configuration incomplete")
)

// ValidationError reports an input contract violation. It is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds a ValidationError with a formatted reason.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConfigurationError reports a missing business setting that has a documented
// fallback. Pricing continues with the fallback; the error is only reported.
type ConfigurationError struct {
	State    string
	Fallback string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no sales tax rate configured for state %q, using default %s", e.State, e.Fallback)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

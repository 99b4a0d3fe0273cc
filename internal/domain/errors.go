package domain

import (
	"errors"
	"fmt"
)

// Category sentinels. Tool and gateway code classifies failures by wrapping
// one of these; callers dispatch with errors.Is.
var (
	ErrInvalidInput  = fmt.Errorf("invalid input")
	ErrProviderError = fmt.Errorf("provider error")
	ErrTimeout       = fmt.Errorf("operation timed out")
	ErrRateLimit     = fmt.Errorf("rate limit exceeded")
	ErrToolNotFound  = fmt.Errorf("tool not found")
	ErrSSRFBlocked   = fmt.Errorf("request to private/reserved IP blocked")
	ErrConfigLoad    = fmt.Errorf("failed to load configuration")
)

// DomainError wraps a sentinel error with context.
type DomainError struct {
	Op     string // operation name (e.g. "Provider.SearchImages")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// InvalidInput creates an ErrInvalidInput DomainError qualified by field.
// Input errors fail the call before any network I/O.
func InvalidInput(field, format string, args ...any) *DomainError {
	return &DomainError{
		Op:     "args." + field,
		Err:    ErrInvalidInput,
		Detail: fmt.Sprintf(format, args...),
	}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsInputError reports whether err originated from malformed caller input.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

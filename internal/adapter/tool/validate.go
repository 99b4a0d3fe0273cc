package tool

import (
	"strings"

	"search-mcp/internal/domain"
)

// RequireField returns an ErrInvalidInput error if the string value is blank.
func RequireField(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.InvalidInput(name, "must not be empty")
	}
	return nil
}

// ValidateRange checks that value is within [min, max].
func ValidateRange(name string, value, min, max int) error {
	if value < min || value > max {
		return domain.InvalidInput(name, "must be %d-%d, got %d", min, max, value)
	}
	return nil
}

// ValidateEnum checks that value is one of the allowed values.
// An empty value is allowed (treated as "not set").
func ValidateEnum(name, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return domain.InvalidInput(name, "invalid value %q (want: %s)", value, joinComma(allowed))
}

// ValidateAll returns the first non-nil error from the given list.
func ValidateAll(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

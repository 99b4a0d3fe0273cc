package tool

import (
	"testing"

	"search-mcp/internal/domain"
)

func TestRequireField(t *testing.T) {
	if err := RequireField("query", "golang"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, v := range []string{"", "   ", "\t\n"} {
		err := RequireField("query", v)
		if err == nil {
			t.Errorf("RequireField(%q) = nil, want error", v)
			continue
		}
		if !domain.IsInputError(err) {
			t.Errorf("RequireField(%q) should be an input error", v)
		}
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange("n", 5, 1, 10); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateRange("n", 1, 1, 10); err != nil {
		t.Errorf("min boundary should pass: %v", err)
	}
	if err := ValidateRange("n", 10, 1, 10); err != nil {
		t.Errorf("max boundary should pass: %v", err)
	}
	if err := ValidateRange("n", 0, 1, 10); err == nil {
		t.Error("below min should fail")
	}
	if err := ValidateRange("n", 11, 1, 10); err == nil {
		t.Error("above max should fail")
	}
}

func TestValidateEnum(t *testing.T) {
	if err := ValidateEnum("size", "", domain.ImageSizes); err != nil {
		t.Errorf("empty value should pass: %v", err)
	}
	if err := ValidateEnum("size", "large", domain.ImageSizes); err != nil {
		t.Errorf("valid value should pass: %v", err)
	}
	err := ValidateEnum("size", "enormous", domain.ImageSizes)
	if err == nil {
		t.Fatal("invalid value should fail")
	}
	if !domain.IsInputError(err) {
		t.Error("enum failures should be input errors")
	}
}

func TestValidateAll(t *testing.T) {
	if err := ValidateAll(nil, nil); err != nil {
		t.Errorf("all-nil should pass: %v", err)
	}
	first := domain.InvalidInput("a", "bad")
	second := domain.InvalidInput("b", "worse")
	if got := ValidateAll(nil, first, second); got != first {
		t.Errorf("ValidateAll should return the first error, got %v", got)
	}
}

package tool

import (
	"strings"
	"testing"

	"search-mcp/internal/domain"
)

func TestFormatWebResultsFallbacks(t *testing.T) {
	out := formatWebResults([]domain.WebResult{{}})
	for _, want := range []string{"1. Untitled", "No URL", "No description"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatWebResultsDelimiter(t *testing.T) {
	out := formatWebResults([]domain.WebResult{
		{Title: "a", Link: "http://a", Snippet: "sa"},
		{Title: "b", Link: "http://b", Snippet: "sb"},
	})
	if strings.Count(out, "---") != 1 {
		t.Errorf("want exactly one delimiter between two blocks:\n%s", out)
	}
	if !strings.Contains(out, "1. a") || !strings.Contains(out, "2. b") {
		t.Errorf("blocks not numbered:\n%s", out)
	}
}

func TestFormatImageResultsComplete(t *testing.T) {
	out := formatImageResults([]domain.ImageResult{{
		Link:          "http://a/cat.png",
		Title:         "Cat",
		ThumbnailLink: "http://a/cat_t.png",
		ContextLink:   "http://a/cats",
		Width:         800,
		Height:        600,
	}})
	for _, want := range []string{
		"1. Cat",
		"URL: http://a/cat.png",
		"Thumbnail: http://a/cat_t.png",
		"Source: http://a/cats",
		"Dimensions: 800x600",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatImageResultsUnknownDimensions(t *testing.T) {
	out := formatImageResults([]domain.ImageResult{{Link: "http://a/x.png", Width: 640}})
	if !strings.Contains(out, "Dimensions: 640x?") {
		t.Errorf("partial dimensions not rendered with ?:\n%s", out)
	}

	out = formatImageResults([]domain.ImageResult{{Link: "http://a/y.png"}})
	if !strings.Contains(out, "Dimensions: ?x?") {
		t.Errorf("unknown dimensions not rendered as ?x?:\n%s", out)
	}
}

func TestDimensions(t *testing.T) {
	tests := []struct {
		w, h int
		want string
	}{
		{800, 600, "800x600"},
		{0, 600, "?x600"},
		{800, 0, "800x?"},
		{0, 0, "?x?"},
		{-1, -5, "?x?"},
	}
	for _, tt := range tests {
		if got := dimensions(tt.w, tt.h); got != tt.want {
			t.Errorf("dimensions(%d, %d) = %q, want %q", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestFormatEmptyInputs(t *testing.T) {
	if formatWebResults(nil) != "" {
		t.Error("empty web results should render empty")
	}
	if formatImageResults(nil) != "" {
		t.Error("empty image results should render empty")
	}
}

package tool

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"search-mcp/internal/domain"
)

func TestSearchToolName(t *testing.T) {
	st := NewSearchTool(&fakeProvider{}, 0, newTestLogger())
	if st.Name() != "search" {
		t.Errorf("Name() = %q, want %q", st.Name(), "search")
	}
	if st.Description() == "" {
		t.Error("Description() returned empty string")
	}
}

func TestSearchToolSchema(t *testing.T) {
	st := NewSearchTool(&fakeProvider{}, 0, newTestLogger())
	schema := st.Schema()
	if schema.Name != "search" {
		t.Errorf("Schema.Name = %q", schema.Name)
	}
	var params map[string]interface{}
	if err := json.Unmarshal(schema.Parameters, &params); err != nil {
		t.Errorf("Schema.Parameters is invalid JSON: %v", err)
	}
}

func TestSearchToolInvalidJSON(t *testing.T) {
	st := NewSearchTool(&fakeProvider{}, 0, newTestLogger())
	result, err := st.Execute(context.Background(), json.RawMessage(`invalid`))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for invalid JSON")
	}
}

func TestSearchToolEmptyQuery(t *testing.T) {
	fp := &fakeProvider{}
	st := NewSearchTool(fp, 0, newTestLogger())
	result, err := st.Execute(context.Background(), json.RawMessage(`{"query": "   "}`))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected error for blank query")
	}
	if fp.searchCalls != 0 {
		t.Error("input errors must fail before any provider call")
	}
}

func TestSearchToolNumResultsRange(t *testing.T) {
	for _, n := range []int{-1, 11, 100} {
		fp := &fakeProvider{}
		st := NewSearchTool(fp, 0, newTestLogger())
		params, _ := json.Marshal(searchParams{Query: "q", NumResults: n})
		result, err := st.Execute(context.Background(), params)
		if err != nil {
			t.Fatal(err)
		}
		if !result.IsError {
			t.Errorf("num_results=%d: expected error", n)
		}
		if fp.searchCalls != 0 {
			t.Errorf("num_results=%d: provider must not be called", n)
		}
	}
}

func TestSearchToolDefaultCount(t *testing.T) {
	fp := &fakeProvider{webResults: []domain.WebResult{{Title: "t", Link: "http://a", Snippet: "s"}}}
	st := NewSearchTool(fp, 0, newTestLogger())
	result, err := st.Execute(context.Background(), json.RawMessage(`{"query": "golang"}`))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content)
	}
	if fp.lastNum != 5 {
		t.Errorf("default num_results = %d, want 5", fp.lastNum)
	}
}

func TestSearchToolFormatsResults(t *testing.T) {
	fp := &fakeProvider{webResults: []domain.WebResult{
		{Title: "Go", Link: "https://go.dev", Snippet: "The Go programming language"},
		{Link: "https://no-title.example"},
	}}
	st := NewSearchTool(fp, 0, newTestLogger())
	result, err := st.Execute(context.Background(), json.RawMessage(`{"query": "golang"}`))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", result.Content)
	}
	for _, want := range []string{"1. Go", "https://go.dev", "2. Untitled", "No description", "---"} {
		if !strings.Contains(result.Content, want) {
			t.Errorf("output missing %q:\n%s", want, result.Content)
		}
	}
}

func TestSearchToolNoResults(t *testing.T) {
	st := NewSearchTool(&fakeProvider{}, 0, newTestLogger())
	result, err := st.Execute(context.Background(), json.RawMessage(`{"query": "zxqv"}`))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("no results must not be an error: %s", result.Content)
	}
	if !strings.Contains(result.Content, "No search results found") {
		t.Errorf("unexpected content: %s", result.Content)
	}
}

func TestSearchToolCaching(t *testing.T) {
	fp := &fakeProvider{webResults: []domain.WebResult{{Title: "t", Link: "http://a", Snippet: "s"}}}
	st := NewSearchTool(fp, 0, newTestLogger())
	params := json.RawMessage(`{"query": "cached"}`)

	for i := 0; i < 3; i++ {
		if _, err := st.Execute(context.Background(), params); err != nil {
			t.Fatal(err)
		}
	}
	if fp.searchCalls != 1 {
		t.Errorf("provider called %d times, want 1 (cache)", fp.searchCalls)
	}
}

func TestSearchToolProviderError(t *testing.T) {
	fp := &fakeProvider{err: domain.NewDomainError("fake", domain.ErrProviderError, "HTTP 500")}
	st := NewSearchTool(fp, 0, newTestLogger())
	result, err := st.Execute(context.Background(), json.RawMessage(`{"query": "q"}`))
	if err != nil {
		t.Fatal("provider failures must degrade to a textual result, not a protocol fault")
	}
	if !result.IsError {
		t.Error("expected IsError for provider failure")
	}
	if !result.IsRetryable {
		t.Error("provider failures should be flagged retryable")
	}
}

func TestSearchToolTruncatesExcess(t *testing.T) {
	fp := &fakeProvider{webResults: []domain.WebResult{
		{Title: "1", Link: "http://1"}, {Title: "2", Link: "http://2"}, {Title: "3", Link: "http://3"},
	}}
	st := NewSearchTool(fp, 0, newTestLogger())
	params, _ := json.Marshal(searchParams{Query: "q", NumResults: 2})
	result, err := st.Execute(context.Background(), params)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(result.Content, "3. ") {
		t.Errorf("results not truncated to requested count:\n%s", result.Content)
	}
}

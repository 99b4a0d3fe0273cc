package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"search-mcp/internal/domain"
	"search-mcp/internal/infra/tracer"
)

const (
	defaultNumResults = 5
	maxNumResults     = 10
	defaultCacheTTL   = 15 * time.Minute
)

// cacheEntry holds a cached search result with its expiration time.
type cacheEntry struct {
	result    string
	expiresAt time.Time
}

// SearchTool performs text web searches via a SearchProvider. Results pass
// through to the formatter unmodified; no validation is involved.
type SearchTool struct {
	provider domain.SearchProvider
	cacheTTL time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewSearchTool creates a text search tool backed by the given provider.
func NewSearchTool(provider domain.SearchProvider, cacheTTL time.Duration, logger *slog.Logger) *SearchTool {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &SearchTool{
		provider: provider,
		cacheTTL: cacheTTL,
		logger:   logger,
		cache:    make(map[string]cacheEntry),
	}
}

func (t *SearchTool) Name() string        { return "search" }
func (t *SearchTool) Description() string { return "Search the web" }

func (t *SearchTool) Schema() domain.ToolSchema {
	return domain.ToolSchema{
		Name:        t.Name(),
		Description: t.Description(),
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "The search query"},
				"num_results": {"type": "integer", "minimum": 1, "maximum": 10, "description": "Number of results (default: 5)"}
			},
			"required": ["query"]
		}`),
	}
}

type searchParams struct {
	Query      string `json:"query"`
	NumResults int    `json:"num_results,omitempty"`
}

func (t *SearchTool) Execute(ctx context.Context, params json.RawMessage) (*domain.ToolResult, error) {
	return Execute(ctx, "tool.search", t.logger, params,
		func(ctx context.Context, span trace.Span, p searchParams) (any, error) {
			if err := RequireField("query", p.Query); err != nil {
				return nil, err
			}
			if p.NumResults == 0 {
				p.NumResults = defaultNumResults
			}
			if err := ValidateRange("num_results", p.NumResults, 1, maxNumResults); err != nil {
				return nil, err
			}

			span.SetAttributes(
				tracer.StringAttr("search.query", p.Query),
				tracer.IntAttr("search.num_results", p.NumResults),
			)

			cacheKey := fmt.Sprintf("%s|%d", p.Query, p.NumResults)
			if cached, ok := t.getCached(cacheKey); ok {
				t.logger.Debug("search cache hit", "query", p.Query)
				span.SetAttributes(tracer.StringAttr("search.cache", "hit"))
				return cached, nil
			}

			results, err := t.provider.Search(ctx, p.Query, p.NumResults)
			if err != nil {
				return nil, err
			}

			if len(results) == 0 {
				return fmt.Sprintf("No search results found for %q.", p.Query), nil
			}

			// Providers may return more items than asked for.
			if len(results) > p.NumResults {
				results = results[:p.NumResults]
			}

			content := formatWebResults(results)
			t.putCache(cacheKey, content)

			t.logger.Debug("search completed", "query", p.Query, "results", len(results))
			return content, nil
		},
	)
}

// getCached returns a cached result if it exists and has not expired.
func (t *SearchTool) getCached(key string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.cache[key]
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expiresAt) {
		delete(t.cache, key)
		return "", false
	}
	return entry.result, true
}

// putCache stores a result in the cache with the configured TTL.
func (t *SearchTool) putCache(key, result string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cache[key] = cacheEntry{
		result:    result,
		expiresAt: time.Now().Add(t.cacheTTL),
	}

	// Lazy eviction: remove expired entries if cache grows large
	if len(t.cache) > 100 {
		now := time.Now()
		for k, v := range t.cache {
			if now.After(v.expiresAt) {
				delete(t.cache, k)
			}
		}
	}
}

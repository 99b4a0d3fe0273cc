package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"search-mcp/internal/domain"
	"search-mcp/internal/infra/config"
)

const (
	defaultEndpoint = "https://www.googleapis.com/customsearch/v1"

	// maxResults is the provider-side cap on results per call.
	maxResults = 10

	maxErrorBodySize = 8 * 1024
)

// searchResponse models the relevant portion of the Custom Search JSON API
// response.
type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
		Image   *struct {
			ContextLink   string `json:"contextLink"`
			ThumbnailLink string `json:"thumbnailLink"`
			Width         int    `json:"width"`
			Height        int    `json:"height"`
		} `json:"image"`
	} `json:"items"`
}

// GoogleClient queries the Google Custom Search JSON API.
type GoogleClient struct {
	client   *http.Client
	limiter  *rate.Limiter
	apiKey   string
	engineID string
	endpoint string
	logger   *slog.Logger
}

// NewGoogle creates a Custom Search client. When cfg.QPS > 0, outgoing calls
// are paced by a client-side limiter so bursts of tool calls cannot blow
// through the API quota.
func NewGoogle(cfg config.ProviderConfig, logger *slog.Logger) *GoogleClient {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	var limiter *rate.Limiter
	if cfg.QPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.QPS), 1)
	}

	return &GoogleClient{
		client: &http.Client{
			Transport: newPooledTransport(cfg.Pool),
			Timeout:   cfg.Timeout,
		},
		limiter:  limiter,
		apiKey:   cfg.APIKey,
		engineID: cfg.EngineID,
		endpoint: endpoint,
		logger:   logger,
	}
}

func (g *GoogleClient) Name() string { return "google" }

// Search performs a text search.
func (g *GoogleClient) Search(ctx context.Context, query string, num int) ([]domain.WebResult, error) {
	resp, err := g.query(ctx, query, num, nil)
	if err != nil {
		return nil, err
	}

	results := make([]domain.WebResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, domain.WebResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	g.logger.Debug("text search completed", "query", query, "results", len(results))
	return results, nil
}

// SearchImages performs an image search with optional filters.
func (g *GoogleClient) SearchImages(ctx context.Context, query string, num int, filters domain.ImageFilters) ([]domain.ImageResult, error) {
	extra := url.Values{}
	extra.Set("searchType", "image")
	if filters.Size != "" {
		extra.Set("imgSize", filters.Size)
	}
	if filters.Type != "" {
		extra.Set("imgType", filters.Type)
	}
	if filters.DominantColor != "" {
		extra.Set("imgDominantColor", filters.DominantColor)
	}
	if filters.ColorType != "" {
		extra.Set("imgColorType", filters.ColorType)
	}

	resp, err := g.query(ctx, query, num, extra)
	if err != nil {
		return nil, err
	}

	results := make([]domain.ImageResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		r := domain.ImageResult{
			Link:  item.Link,
			Title: item.Title,
		}
		if item.Image != nil {
			r.ThumbnailLink = item.Image.ThumbnailLink
			r.ContextLink = item.Image.ContextLink
			r.Width = item.Image.Width
			r.Height = item.Image.Height
		}
		results = append(results, r)
	}
	g.logger.Debug("image search completed", "query", query, "results", len(results))
	return results, nil
}

// query issues one API call. Duplicate-content filtering and safe search are
// always on.
func (g *GoogleClient) query(ctx context.Context, query string, num int, extra url.Values) (*searchResponse, error) {
	if num < 1 {
		num = 1
	}
	if num > maxResults {
		num = maxResults
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, domain.NewDomainError("Google.query", domain.ErrRateLimit, err.Error())
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("key", g.apiKey)
	q.Set("cx", g.engineID)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(num))
	q.Set("filter", "1")
	q.Set("safe", "active")
	for k, vs := range extra {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, domain.NewDomainError("Google.query", domain.ErrProviderError, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return nil, domain.NewDomainError("Google.query", domain.ErrProviderError,
			fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, domain.NewDomainError("Google.query", domain.ErrProviderError,
			fmt.Sprintf("parse response: %v", err))
	}
	return &parsed, nil
}

// Compile-time interface check.
var _ domain.SearchProvider = (*GoogleClient)(nil)

package tool

import (
	"context"
	"io"
	"log/slog"

	"search-mcp/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProvider implements domain.SearchProvider with canned results and call
// recording.
type fakeProvider struct {
	webResults []domain.WebResult
	imgResults []domain.ImageResult
	err        error

	searchCalls int
	imageCalls  int
	lastQuery   string
	lastNum     int
	lastFilters domain.ImageFilters
}

func (f *fakeProvider) Search(_ context.Context, query string, num int) ([]domain.WebResult, error) {
	f.searchCalls++
	f.lastQuery = query
	f.lastNum = num
	if f.err != nil {
		return nil, f.err
	}
	return f.webResults, nil
}

func (f *fakeProvider) SearchImages(_ context.Context, query string, num int, filters domain.ImageFilters) ([]domain.ImageResult, error) {
	f.imageCalls++
	f.lastQuery = query
	f.lastNum = num
	f.lastFilters = filters
	if f.err != nil {
		return nil, f.err
	}
	return f.imgResults, nil
}

func (f *fakeProvider) Name() string { return "fake" }

// fakeBatch implements BatchValidator with canned verdicts and call counting.
type fakeBatch struct {
	verdicts map[string]bool
	calls    int
}

func (f *fakeBatch) CheckAll(_ context.Context, candidates []domain.ImageResult) map[string]bool {
	f.calls++
	out := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		if c.Link == "" {
			continue
		}
		out[c.Link] = f.verdicts[c.Link]
	}
	return out
}

func imageCandidates(links ...string) []domain.ImageResult {
	out := make([]domain.ImageResult, len(links))
	for i, l := range links {
		out[i] = domain.ImageResult{Link: l, Title: "img " + l}
	}
	return out
}

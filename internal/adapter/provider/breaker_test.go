package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-mcp/internal/domain"
	"search-mcp/internal/infra/config"
)

// fakeProvider implements domain.SearchProvider with canned behavior.
type fakeProvider struct {
	webResults []domain.WebResult
	imgResults []domain.ImageResult
	err        error
	calls      int
}

func (f *fakeProvider) Search(_ context.Context, _ string, _ int) ([]domain.WebResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.webResults, nil
}

func (f *fakeProvider) SearchImages(_ context.Context, _ string, _ int, _ domain.ImageFilters) ([]domain.ImageResult, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.imgResults, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func testBreakerCfg() config.BreakerConfig {
	return config.BreakerConfig{
		MaxFailures: 3,
		Timeout:     time.Minute,
		Interval:    time.Minute,
	}
}

func TestBreakerPassesThroughSuccess(t *testing.T) {
	inner := &fakeProvider{
		webResults: []domain.WebResult{{Title: "ok", Link: "http://a"}},
		imgResults: []domain.ImageResult{{Link: "http://a/1.png"}},
	}
	p := NewBreakerProvider(inner, testBreakerCfg(), testLogger())

	web, err := p.Search(context.Background(), "q", 5)
	require.NoError(t, err)
	assert.Len(t, web, 1)

	imgs, err := p.SearchImages(context.Background(), "q", 5, domain.ImageFilters{})
	require.NoError(t, err)
	assert.Len(t, imgs, 1)

	assert.Equal(t, "fake", p.Name())
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &fakeProvider{err: domain.NewDomainError("fake", domain.ErrProviderError, "down")}
	p := NewBreakerProvider(inner, testBreakerCfg(), testLogger())

	for i := 0; i < 3; i++ {
		_, err := p.Search(context.Background(), "q", 5)
		require.Error(t, err)
	}

	// Circuit is now open: the call fails fast without reaching the provider.
	before := inner.calls
	_, err := p.Search(context.Background(), "q", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrProviderError)
	assert.Contains(t, err.Error(), "circuit open")
	assert.Equal(t, before, inner.calls)
}

func TestBreakerIgnoresInputErrors(t *testing.T) {
	inner := &fakeProvider{err: domain.InvalidInput("query", "must not be empty")}
	p := NewBreakerProvider(inner, testBreakerCfg(), testLogger())

	for i := 0; i < 10; i++ {
		_, err := p.Search(context.Background(), "", 5)
		require.Error(t, err)
	}

	// Input errors never trip the breaker; the provider keeps being called.
	_, err := p.Search(context.Background(), "", 5)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "circuit open")
	assert.Equal(t, 11, inner.calls)
}

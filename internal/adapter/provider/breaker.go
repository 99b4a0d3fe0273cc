package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"search-mcp/internal/domain"
	"search-mcp/internal/infra/config"
)

// Default circuit breaker settings.
const (
	defaultCBMaxFailures uint32        = 5
	defaultCBTimeout     time.Duration = 30 * time.Second
	defaultCBInterval    time.Duration = 60 * time.Second
)

// BreakerProvider wraps a SearchProvider with circuit breaker protection.
// When the provider fails repeatedly (network, auth, quota), the circuit
// opens and subsequent calls fail fast without reaching the API.
type BreakerProvider struct {
	inner   domain.SearchProvider
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
}

// NewBreakerProvider wraps inner with a circuit breaker.
// Zero-valued cfg fields fall back to defaults.
func NewBreakerProvider(inner domain.SearchProvider, cfg config.BreakerConfig, logger *slog.Logger) *BreakerProvider {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = defaultCBMaxFailures
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultCBTimeout
	}
	interval := cfg.Interval
	if interval == 0 {
		interval = defaultCBInterval
	}

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "search:" + inner.Name(),
		MaxRequests: 1, // allow 1 probe in half-open state
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			// Caller mistakes must not poison the circuit.
			return err == nil || domain.IsInputError(err)
		},
	})

	return &BreakerProvider{
		inner:   inner,
		breaker: cb,
		logger:  logger,
	}
}

// Search implements domain.SearchProvider. Calls route through the breaker.
func (p *BreakerProvider) Search(ctx context.Context, query string, num int) ([]domain.WebResult, error) {
	v, err := p.breaker.Execute(func() (any, error) {
		return p.inner.Search(ctx, query, num)
	})
	if err != nil {
		return nil, p.wrapBreakerErr(err)
	}
	return v.([]domain.WebResult), nil
}

// SearchImages implements domain.SearchProvider. Calls route through the breaker.
func (p *BreakerProvider) SearchImages(ctx context.Context, query string, num int, filters domain.ImageFilters) ([]domain.ImageResult, error) {
	v, err := p.breaker.Execute(func() (any, error) {
		return p.inner.SearchImages(ctx, query, num, filters)
	})
	if err != nil {
		return nil, p.wrapBreakerErr(err)
	}
	return v.([]domain.ImageResult), nil
}

// Name implements domain.SearchProvider.
func (p *BreakerProvider) Name() string { return p.inner.Name() }

// State returns the current circuit breaker state for monitoring.
func (p *BreakerProvider) State() gobreaker.State {
	return p.breaker.State()
}

func (p *BreakerProvider) wrapBreakerErr(err error) error {
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return domain.NewDomainError("Breaker", domain.ErrProviderError,
			fmt.Sprintf("provider %q circuit open: %v", p.inner.Name(), err))
	}
	return err
}

// Compile-time interface check.
var _ domain.SearchProvider = (*BreakerProvider)(nil)

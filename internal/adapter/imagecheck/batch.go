package imagecheck

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"search-mcp/internal/domain"
)

// URLChecker is the per-URL validity probe. Implementations must treat all
// failures as a false verdict rather than an error.
type URLChecker interface {
	Check(ctx context.Context, url string) bool
}

// Batch fans a URLChecker out across a candidate set. Each check is raced
// against a backstop timer so a probe that ignores its own deadlines can
// never stall the batch.
type Batch struct {
	checker  URLChecker
	backstop time.Duration
	logger   *slog.Logger
}

// NewBatch creates a batch validator. backstop must exceed the checker's own
// internal deadlines; config validation enforces this.
func NewBatch(checker URLChecker, backstop time.Duration, logger *slog.Logger) *Batch {
	return &Batch{
		checker:  checker,
		backstop: backstop,
		logger:   logger,
	}
}

// CheckAll returns a verdict per unique candidate URL. Candidates with an
// empty Link produce no entry. An empty input returns an empty map with no
// network I/O. CheckAll is a full join barrier: it returns only once every
// launched check has resolved or hit the backstop.
func (b *Batch) CheckAll(ctx context.Context, candidates []domain.ImageResult) map[string]bool {
	verdicts := make(map[string]bool, len(candidates))
	if len(candidates) == 0 {
		return verdicts
	}

	// Duplicate URLs collapse to one check; the verdict is shared.
	urls := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if c.Link == "" {
			continue
		}
		if _, dup := seen[c.Link]; dup {
			continue
		}
		seen[c.Link] = struct{}{}
		urls = append(urls, c.Link)
	}
	if len(urls) == 0 {
		return verdicts
	}

	start := time.Now()

	// Write-once slots, one per URL; no lock needed beyond the join.
	results := make([]bool, len(urls))
	var g errgroup.Group
	for i, url := range urls {
		g.Go(func() error {
			results[i] = b.checkWithBackstop(ctx, url)
			return nil
		})
	}
	g.Wait()

	valid := 0
	for i, url := range urls {
		verdicts[url] = results[i]
		if results[i] {
			valid++
		}
	}

	b.logger.Debug("image batch validated",
		"checked", len(urls), "valid", valid, "elapsed", time.Since(start))
	return verdicts
}

// checkWithBackstop races one check against the backstop timer. The losing
// check keeps running in the background and its result is discarded; probes
// are side-effect-free beyond the HTTP call itself, so abandonment is safe.
func (b *Batch) checkWithBackstop(ctx context.Context, url string) bool {
	done := make(chan bool, 1)
	go func() {
		done <- b.checker.Check(ctx, url)
	}()

	timer := time.NewTimer(b.backstop)
	defer timer.Stop()

	select {
	case ok := <-done:
		return ok
	case <-timer.C:
		b.logger.Warn("image check exceeded backstop", "url", url, "backstop", b.backstop)
		return false
	case <-ctx.Done():
		return false
	}
}

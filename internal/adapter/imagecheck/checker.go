package imagecheck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"search-mcp/internal/infra/config"
	"search-mcp/internal/security"
)

// Checker probes a single URL and decides whether it points to a real,
// substantial image. It never returns an error: every failure mode collapses
// to a false verdict.
type Checker struct {
	client *http.Client
	cfg    config.ValidationConfig
	logger *slog.Logger
}

// NewChecker creates a checker from validation settings. When
// cfg.BlockPrivateIPs is set, probes go through an SSRF-safe transport that
// re-validates DNS at dial time, covering redirect hops as well.
func NewChecker(cfg config.ValidationConfig, logger *slog.Logger) *Checker {
	var transport http.RoundTripper
	if cfg.BlockPrivateIPs {
		transport = security.NewSafeTransport()
	} else {
		transport = http.DefaultTransport
	}

	return &Checker{
		client: &http.Client{
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		cfg:    cfg,
		logger: logger,
	}
}

// Check reports whether url points to a live image of plausible size.
//
// A cheap HEAD probe rejects dead links before the full GET is attempted.
// The GET response must carry a 2xx status, an image content type, and a
// content length (when present) of at least MinBytes; tiny payloads are
// almost always broken-image placeholders.
func (c *Checker) Check(ctx context.Context, url string) bool {
	resp, ok := c.probe(ctx, http.MethodHead, url, c.cfg.HeadTimeout)
	if !ok {
		return false
	}
	resp.Body.Close()

	resp, ok = c.probe(ctx, http.MethodGet, url, c.cfg.GetTimeout)
	if !ok {
		return false
	}
	defer resp.Body.Close()

	ct := resp.Header.Get("Content-Type")
	if !isImageContentType(ct) {
		c.logger.Debug("image check rejected: not an image", "url", url, "content_type", ct)
		return false
	}
	if resp.ContentLength >= 0 && resp.ContentLength < c.cfg.MinBytes {
		c.logger.Debug("image check rejected: too small", "url", url,
			"content_length", resp.ContentLength)
		return false
	}
	return true
}

// probe issues one HTTP request under its own deadline and reports whether it
// succeeded with a 2xx status. On success the response is returned with its
// body still open; the caller must close it.
func (c *Checker) probe(ctx context.Context, method, url string, timeout time.Duration) (*http.Response, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		cancel()
		return nil, false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		cancel()
		c.logger.Debug("image probe failed", "method", method, "url", url, "error", err)
		return nil, false
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		cancel()
		c.logger.Debug("image probe non-success", "method", method, "url", url, "status", resp.StatusCode)
		return nil, false
	}

	// Tie the context's lifetime to the body so header inspection after
	// return stays valid.
	resp.Body = &cancelingBody{ReadCloser: resp.Body, cancel: cancel}
	return resp, true
}

// cancelingBody releases the probe's timeout context when the response body
// is closed.
type cancelingBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelingBody) Close() error {
	b.cancel()
	return b.ReadCloser.Close()
}

// isImageContentType reports whether a Content-Type header value names an
// image media type.
func isImageContentType(ct string) bool {
	if ct == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		// Lenient fallback for servers that send bare or malformed values.
		mediaType = strings.TrimSpace(strings.ToLower(strings.SplitN(ct, ";", 2)[0]))
	}
	return strings.HasPrefix(mediaType, "image/")
}

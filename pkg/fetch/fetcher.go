// Package fetch retrieves raw article HTML with timeout and content-type
// enforcement.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newsgraph-ai/newsgraph-engine/pkg/apperrors"
)

// maxBodyBytes bounds how much of a page is read into memory.
const maxBodyBytes = 4 << 20

// Fetcher performs read-only HTTP GETs for article pages.
type Fetcher struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a Fetcher. A nil client gets a default with the given timeout.
func New(client *http.Client, userAgent string, timeout time.Duration, logger *zap.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		timeout:   timeout,
		logger:    logger.Named("fetch"),
	}
}

// Fetch retrieves the raw HTML for rawURL. The URL must be absolute http(s);
// responses must be 2xx with a text/html content type.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", apperrors.Newf(apperrors.KindInvalidInput, "invalid url: %q", rawURL)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", apperrors.New(apperrors.KindInvalidInput, "build request", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.New(apperrors.KindFetchTimeout,
				fmt.Sprintf("fetch exceeded %s", f.timeout), err)
		}
		return "", apperrors.New(apperrors.KindFetchError, "fetch failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.Newf(apperrors.KindFetchError,
			"unexpected status %d from %s", resp.StatusCode, parsed.Host)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(strings.ToLower(contentType), "text/html") {
		return "", apperrors.Newf(apperrors.KindUnsupportedContentType,
			"content type %q is not text/html", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.New(apperrors.KindFetchTimeout,
				fmt.Sprintf("fetch exceeded %s", f.timeout), err)
		}
		return "", apperrors.New(apperrors.KindFetchError, "read response body", err)
	}

	f.logger.Debug("Fetched page",
		zap.String("host", parsed.Host),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	return string(body), nil
}

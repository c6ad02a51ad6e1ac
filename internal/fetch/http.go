// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderlens/internal/config"
	"github.com/tomtom215/wanderlens/internal/metrics"
	"github.com/tomtom215/wanderlens/internal/models"
)

// Config configures HTTPFetcher.
type Config struct {
	// Timeout bounds a whole Fetch including retries.
	Timeout time.Duration

	UserAgent string

	// MaxRetries is the number of extra attempts on 429, 5xx and
	// transport errors.
	MaxRetries int

	// RetryBaseDelay doubles per attempt unless Retry-After says otherwise.
	RetryBaseDelay time.Duration

	// MaxConnsPerHost caps concurrent requests per upstream host.
	MaxConnsPerHost int

	// MaxBodyBytes truncates oversized bodies. Zero means 32MB.
	MaxBodyBytes int64

	// Client overrides the HTTP client. Optional.
	Client *http.Client
}

// ConfigFrom converts the fetch section of the application config.
func ConfigFrom(c config.FetchConfig) Config {
	return Config{
		Timeout:         c.Timeout,
		UserAgent:       c.UserAgent,
		MaxRetries:      c.MaxRetries,
		RetryBaseDelay:  c.RetryBaseDelay,
		MaxConnsPerHost: c.MaxConnsPerHost,
	}
}

const (
	defaultMaxBodyBytes = 32 << 20
	maxRetryAfter       = 30 * time.Second
)

// HTTPFetcher is the production Fetcher.
type HTTPFetcher struct {
	cfg    Config
	client *http.Client
	hosts  *hostLimiter
	logger zerolog.Logger
}

// NewHTTPFetcher creates an HTTPFetcher with a tuned shared transport.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHTTPFetcher(cfg Config, logger zerolog.Logger) *HTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = 500 * time.Millisecond
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: max(cfg.MaxConnsPerHost, 2),
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &HTTPFetcher{
		cfg:    cfg,
		client: client,
		hosts:  newHostLimiter(cfg.MaxConnsPerHost),
		logger: logger.With().Str("component", "fetch").Logger(),
	}
}

// Fetch performs a GET with retries and returns the decoded body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	return f.do(ctx, http.MethodGet, url)
}

// Head performs a HEAD request with retries.
func (f *HTTPFetcher) Head(ctx context.Context, url string) (*Response, error) {
	return f.do(ctx, http.MethodHead, url)
}

func (f *HTTPFetcher) do(ctx context.Context, method, url string) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := f.doWithRetry(ctx, method, url)
	metrics.RecordFetch(hostOf(url), outcome(err), time.Since(start))
	if err != nil {
		if errors.Is(err, models.ErrFetchFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s %s: %w", models.ErrFetchFailed, method, url, err)
	}
	return resp, nil
}

func (f *HTTPFetcher) doWithRetry(ctx context.Context, method, url string) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= f.cfg.MaxRetries; attempt++ {
		resp, wait, err := f.attempt(ctx, method, url)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if wait < 0 || attempt == f.cfg.MaxRetries {
			break
		}
		if wait == 0 {
			wait = f.cfg.RetryBaseDelay << attempt
		}
		f.logger.Debug().Err(err).Str("url", url).Int("attempt", attempt+1).Dur("wait", wait).Msg("retrying fetch")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

// attempt performs one request. wait is -1 when the error is not
// retryable, 0 for the default backoff, or a Retry-After hint.
func (f *HTTPFetcher) attempt(ctx context.Context, method, url string) (*Response, time.Duration, error) {
	release, err := f.hosts.acquire(ctx, url)
	if err != nil {
		return nil, -1, err
	}
	defer release()

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, -1, fmt.Errorf("%w: %w", models.ErrInvalidInput, err)
	}
	req.Header.Set("Accept-Encoding", acceptEncoding)
	if f.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", f.cfg.UserAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, -1, ctx.Err()
		}
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		statusErr := &StatusError{URL: url, StatusCode: resp.StatusCode}
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, parseRetryAfter(resp.Header.Get("Retry-After")), statusErr
		case resp.StatusCode >= 500:
			return nil, 0, statusErr
		default:
			return nil, -1, statusErr
		}
	}

	out := &Response{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Size:       resp.ContentLength,
	}
	if method == http.MethodHead {
		if out.Size < 0 {
			out.Size = 0
		}
		return out, -1, nil
	}

	body, err := decodeBody(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, -1, err
	}
	data, err := io.ReadAll(io.LimitReader(body, f.cfg.MaxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, -1, ctx.Err()
		}
		return nil, 0, fmt.Errorf("read body: %w", err)
	}
	out.Body = data
	if out.Size < 0 || resp.Header.Get("Content-Encoding") != "" {
		out.Size = int64(len(data))
	}
	return out, -1, nil
}

// parseRetryAfter parses Retry-After (seconds or HTTP-date), capped at
// maxRetryAfter. Unparseable values fall back to the default backoff.
func parseRetryAfter(s string) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if sec, err := strconv.Atoi(s); err == nil && sec >= 0 {
		return min(time.Duration(sec)*time.Second, maxRetryAfter)
	}
	t, err := http.ParseTime(s)
	if err != nil {
		return 0
	}
	until := time.Until(t)
	if until <= 0 {
		return time.Millisecond
	}
	return min(until, maxRetryAfter)
}

func outcome(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &statusErr):
		return "http_error"
	default:
		return "error"
	}
}

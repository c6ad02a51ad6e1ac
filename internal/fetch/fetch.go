// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

// Package fetch is the network transport injected into the asset cache,
// the stream optimizer and the provider adapters.
//
// Every failure is reported as an error wrapping models.ErrFetchFailed so
// callers can route it to their fallback path with errors.Is.
package fetch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tomtom215/wanderlens/internal/models"
)

// Response is a completed fetch.
type Response struct {
	// URL is the final URL after redirects.
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte

	// Size is the Content-Length when known, otherwise len(Body).
	Size int64
}

// Fetcher retrieves remote content.
type Fetcher interface {
	// Fetch performs a GET and returns the decoded body.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Head performs a HEAD request; Body is always empty.
	Head(ctx context.Context, url string) (*Response, error)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Unwrap lets errors.Is match models.ErrFetchFailed.
func (e *StatusError) Unwrap() error { return models.ErrFetchFailed }

// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wanderlens/internal/models"
)

// maxResponseBytes bounds provider payloads.
const maxResponseBytes = 4 << 20

// apiClient holds what every adapter needs to call its JSON API.
type apiClient struct {
	name      string
	baseURL   string
	userAgent string
	http      *http.Client
}

func newAPIClient(name, baseURL, userAgent string, timeout time.Duration, client *http.Client) apiClient {
	if client == nil {
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return apiClient{name: name, baseURL: baseURL, userAgent: userAgent, http: client}
}

// getJSON issues a GET to baseURL+path with query and decodes the body
// into out.
func (c *apiClient) getJSON(ctx context.Context, path string, query url.Values, header http.Header, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %s request: %w", models.ErrInvalidInput, c.name, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", models.ErrFetchFailed, c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return &StatusError{Provider: c.name, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: decode response: %w", models.ErrFetchFailed, c.name, err)
	}
	return nil
}

// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package fetch

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/sync/semaphore"
)

// hostLimiter caps concurrent requests per upstream host so that a burst of
// preloads cannot hammer a single CDN.
type hostLimiter struct {
	mu    sync.Mutex
	sems  map[string]*semaphore.Weighted
	limit int64
}

func newHostLimiter(limit int) *hostLimiter {
	if limit < 1 {
		limit = 1
	}
	return &hostLimiter{sems: make(map[string]*semaphore.Weighted), limit: int64(limit)}
}

// acquire blocks until a slot for rawURL's host is free or ctx ends.
func (h *hostLimiter) acquire(ctx context.Context, rawURL string) (func(), error) {
	sem := h.semFor(hostKey(rawURL))
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return func() { sem.Release(1) }, nil
}

func (h *hostLimiter) semFor(host string) *semaphore.Weighted {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sems[host]
	if !ok {
		s = semaphore.NewWeighted(h.limit)
		h.sems[host] = s
	}
	return s
}

func hostKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Scheme + "://" + u.Host
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return u.Hostname()
}

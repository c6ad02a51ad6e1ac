// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package fetch

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/tomtom215/wanderlens/internal/models"
)

// Fake is a deterministic in-memory Fetcher for tests.
//
// By default every URL succeeds with a body of DefaultSize bytes. Routes
// override individual URLs; FailAll makes every call fail. Gate, when set,
// blocks every call until it is closed, which lets tests pile up
// concurrent callers behind one in-flight fetch.
type Fake struct {
	mu      sync.Mutex
	routes  map[string]FakeRoute
	calls   map[string]int
	total   atomic.Int64
	failAll atomic.Bool

	// DefaultSize is the Size reported for unrouted URLs.
	DefaultSize int64

	// Gate blocks calls until closed. Optional.
	Gate chan struct{}
}

// FakeRoute is a canned outcome for one URL.
type FakeRoute struct {
	Status int
	Size   int64
	Header http.Header
	Body   []byte
	Err    error
}

// NewFake returns a Fake whose unrouted URLs succeed with 1KB bodies.
func NewFake() *Fake {
	return &Fake{
		routes:      make(map[string]FakeRoute),
		calls:       make(map[string]int),
		DefaultSize: 1 << 10,
	}
}

// Route installs a canned outcome for url.
//
//nolint:gocritic // hugeParam: test helper
func (f *Fake) Route(url string, r FakeRoute) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[url] = r
}

// SetFailAll makes every subsequent call fail.
func (f *Fake) SetFailAll(fail bool) { f.failAll.Store(fail) }

// Calls returns the number of calls made for url.
func (f *Fake) Calls(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

// TotalCalls returns the number of calls across all URLs.
func (f *Fake) TotalCalls() int64 { return f.total.Load() }

// Fetch implements Fetcher.
func (f *Fake) Fetch(ctx context.Context, url string) (*Response, error) {
	return f.serve(ctx, url, true)
}

// Head implements Fetcher.
func (f *Fake) Head(ctx context.Context, url string) (*Response, error) {
	return f.serve(ctx, url, false)
}

func (f *Fake) serve(ctx context.Context, url string, withBody bool) (*Response, error) {
	f.total.Add(1)
	f.mu.Lock()
	f.calls[url]++
	route, routed := f.routes[url]
	f.mu.Unlock()

	if f.Gate != nil {
		select {
		case <-f.Gate:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", models.ErrFetchFailed, ctx.Err())
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrFetchFailed, err)
	}
	if f.failAll.Load() {
		return nil, fmt.Errorf("%w: fake transport failure for %s", models.ErrFetchFailed, url)
	}

	if !routed {
		route = FakeRoute{Status: http.StatusOK, Size: f.DefaultSize}
	}
	if route.Err != nil {
		return nil, fmt.Errorf("%w: %w", models.ErrFetchFailed, route.Err)
	}
	status := route.Status
	if status == 0 {
		status = http.StatusOK
	}
	if status < 200 || status > 299 {
		return nil, &StatusError{URL: url, StatusCode: status}
	}

	size := route.Size
	if size == 0 {
		size = int64(len(route.Body))
	}
	resp := &Response{URL: url, StatusCode: status, Header: route.Header.Clone(), Size: size}
	if resp.Header == nil {
		resp.Header = http.Header{}
	}
	if withBody {
		resp.Body = route.Body
	}
	return resp, nil
}

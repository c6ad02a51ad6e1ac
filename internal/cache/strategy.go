// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package cache

import (
	"context"

	"github.com/tomtom215/wanderlens/internal/metrics"
)

// StrategyName identifies the FetchStrategy that served a Result.
type StrategyName string

const (
	StrategyLocal    StrategyName = "local"
	StrategyCached   StrategyName = "cached"
	StrategyNetwork  StrategyName = "network"
	StrategyFallback StrategyName = "fallback"
)

// Request is one resolution attempt passed down the strategy list.
type Request struct {
	URL  string
	Tier Tier
	Key  string
}

// FetchStrategy resolves a Request or declines it. Strategies are tried
// in order and the first one that returns ok serves the request.
type FetchStrategy interface {
	Name() StrategyName
	Resolve(ctx context.Context, req Request) (resolvedURL string, ok bool)
}

// Result is the outcome of GetOptimized.
type Result struct {
	URL      string       `json:"url"`
	Strategy StrategyName `json:"strategy"`
	Tier     Tier         `json:"tier"`
	Key      string       `json:"key,omitempty"`
}

// Fallback reports whether the designated fallback asset was returned.
func (r Result) Fallback() bool { return r.Strategy == StrategyFallback }

// localStrategy serves bundled assets as-is.
type localStrategy struct{}

func (localStrategy) Name() StrategyName { return StrategyLocal }

func (localStrategy) Resolve(_ context.Context, req Request) (string, bool) {
	if IsLocal(req.URL) {
		return req.URL, true
	}
	return "", false
}

// cachedStrategy serves live entries from the in-memory map.
type cachedStrategy struct{ c *AssetCache }

func (cachedStrategy) Name() StrategyName { return StrategyCached }

func (s cachedStrategy) Resolve(_ context.Context, req Request) (string, bool) {
	e, ok := s.c.lookup(req.Key)
	if !ok {
		s.c.misses.Add(1)
		metrics.CacheMisses.WithLabelValues(req.Tier.String()).Inc()
		return "", false
	}
	s.c.hits.Add(1)
	metrics.CacheHits.WithLabelValues(req.Tier.String()).Inc()
	return e.ResolvedURL, true
}

// networkStrategy fetches through the injected transport. Concurrent
// requests for one key share a single fetch.
type networkStrategy struct{ c *AssetCache }

func (networkStrategy) Name() StrategyName { return StrategyNetwork }

func (s networkStrategy) Resolve(ctx context.Context, req Request) (string, bool) {
	ch := s.c.group.DoChan(req.Key, func() (any, error) {
		return s.c.fetchAndStore(ctx, req)
	})
	select {
	case res := <-ch:
		if res.Shared {
			metrics.CacheCoalescedWaits.Inc()
		}
		if res.Err != nil {
			return "", false
		}
		resolved, _ := res.Val.(string)
		return resolved, true
	case <-ctx.Done():
		return "", false
	}
}

// fallbackStrategy always succeeds with the designated fallback asset.
type fallbackStrategy struct{ url string }

func (fallbackStrategy) Name() StrategyName { return StrategyFallback }

func (s fallbackStrategy) Resolve(context.Context, Request) (string, bool) {
	return s.url, true
}

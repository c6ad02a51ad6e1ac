// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package stream

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/tomtom215/wanderlens/internal/metrics"
	"github.com/tomtom215/wanderlens/internal/models"
)

// PreloadVideos derives renditions for urls and verifies the rendition
// that would be served first with a HEAD request. Nothing is counted
// against the budget. High priority blocks until every URL is checked,
// with at most HighPriorityConcurrency in flight; low and medium priority
// return immediately and run at most LowPriorityConcurrency at a time.
// Failures are logged only.
func (o *Optimizer) PreloadVideos(ctx context.Context, urls []string, priority models.Priority) {
	pending := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			pending = append(pending, u)
		}
	}
	if len(pending) == 0 {
		return
	}

	if priority.Blocking() {
		o.preloadAll(ctx, pending, o.highSem)
		return
	}

	bg := context.WithoutCancel(ctx)
	o.background.Add(1)
	go func() {
		defer o.background.Done()
		o.preloadAll(bg, pending, o.lowSem)
	}()
}

func (o *Optimizer) preloadAll(ctx context.Context, urls []string, sem *semaphore.Weighted) {
	var wg sync.WaitGroup
	for _, u := range urls {
		if err := sem.Acquire(ctx, 1); err != nil {
			metrics.PreloadResults.WithLabelValues("video", "skipped").Inc()
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			o.verify(ctx, u)
		}()
	}
	wg.Wait()
}

func (o *Optimizer) verify(ctx context.Context, url string) {
	candidates := plan(o.resolve(url), nil)
	if len(candidates) == 0 || o.fetcher == nil {
		metrics.PreloadResults.WithLabelValues("video", "skipped").Inc()
		return
	}
	target := candidates[0]
	if _, err := o.fetcher.Head(ctx, target.URL); err != nil {
		o.logger.Warn().Err(err).Str("url", target.URL).Stringer("resolution", target.Resolution).Msg("video preload failed")
		metrics.PreloadResults.WithLabelValues("video", "failed").Inc()
		return
	}
	metrics.PreloadResults.WithLabelValues("video", "ok").Inc()
}

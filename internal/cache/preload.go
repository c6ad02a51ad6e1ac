// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package cache

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/wanderlens/internal/metrics"
	"github.com/tomtom215/wanderlens/internal/models"
)

// PreloadTier is the tier warmed by Preload.
const PreloadTier = TierLow

// Preload warms urls at PreloadTier. See PreloadAt.
func (c *AssetCache) Preload(ctx context.Context, urls []string, priority models.Priority) error {
	return c.PreloadAt(ctx, urls, PreloadTier, priority)
}

// PreloadAt warms urls at tier. High priority blocks until every URL is
// resolved, running at most PreloadConcurrency fetches at once. Low and
// medium priority return immediately and warm sequentially in the
// background. URLs preloaded within the dedup TTL are skipped, as are
// local assets. Failures are logged and never returned; the only error is
// ErrInvalidInput for an invalid tier.
func (c *AssetCache) PreloadAt(ctx context.Context, urls []string, tier Tier, priority models.Priority) error {
	if !tier.Valid() {
		return fmt.Errorf("%w: tier %d", models.ErrInvalidInput, int(tier))
	}

	pending := make([]string, 0, len(urls))
	for _, u := range urls {
		u, err := validateRequest(u, tier)
		if err != nil {
			c.logger.Debug().Err(err).Msg("skipping invalid preload url")
			continue
		}
		if IsLocal(u) || !c.preloaded.claim(Key(u, tier)) {
			metrics.PreloadResults.WithLabelValues("photo", "skipped").Inc()
			continue
		}
		pending = append(pending, u)
	}
	if len(pending) == 0 {
		return nil
	}

	if priority.Blocking() {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.cfg.PreloadConcurrency)
		for _, u := range pending {
			g.Go(func() error {
				c.warm(gctx, u, tier)
				return nil
			})
		}
		return g.Wait()
	}

	bg := context.WithoutCancel(ctx)
	c.background.Add(1)
	go func() {
		defer c.background.Done()
		for _, u := range pending {
			c.warm(bg, u, tier)
		}
	}()
	return nil
}

func (c *AssetCache) warm(ctx context.Context, url string, tier Tier) {
	res, err := c.GetOptimized(ctx, url, tier)
	if err != nil || res.Fallback() {
		c.preloaded.release(Key(url, tier))
		metrics.PreloadResults.WithLabelValues("photo", "failed").Inc()
		return
	}
	metrics.PreloadResults.WithLabelValues("photo", "ok").Inc()
}

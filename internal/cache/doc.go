// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

/*
Package cache implements the tiered media asset cache.

Every remote asset exists at three quality tiers (high, medium, low).
An entry is keyed by a hash of the source URL and tier, records the
resolved tier URL and its size, and lives until it expires (MaxAge) or is
evicted under memory pressure.

# Resolution

GetOptimized walks an ordered list of fetch strategies:

  - local: asset://, file:// and relative URLs are returned unchanged
  - cached: a live entry is returned without fetching
  - network: the tier URL is fetched; concurrent misses for one key share a
    single fetch (golang.org/x/sync/singleflight)
  - fallback: the configured fallback asset, returned when the fetch fails

A failed fetch never creates an entry.

# Eviction

Evict removes expired entries first. If usage is still above the memory
budget (or the pass is forced), it removes the oldest entries by creation
time until usage is at most EvictTargetRatio of the budget (2/3 by
default). An insert that pushes usage over budget triggers the same pass
synchronously; the supervised eviction service runs it every five minutes.

# Persistence

The resident entry set can be snapshotted as an Index and written to a
store.IndexStore (FlushIndex), then restored at startup (LoadIndex).
Only metadata is persisted, never asset bytes.

# Usage

	c := cache.New(cache.DefaultConfig(), fetcher, logger)
	if _, err := c.LoadIndex(ctx, indexStore); err != nil {
	    logger.Warn().Err(err).Msg("starting with empty cache")
	}

	res, err := c.GetOptimized(ctx, "https://images.unsplash.com/photo-1", cache.TierMedium)
	if err != nil {
	    return err // only models.ErrInvalidInput
	}
	if res.Fallback() {
	    // upstream failed; res.URL is the bundled fallback image
	}
*/
package cache

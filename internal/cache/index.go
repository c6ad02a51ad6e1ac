// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package cache

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wanderlens/internal/metrics"
	"github.com/tomtom215/wanderlens/internal/models"
	"github.com/tomtom215/wanderlens/internal/store"
)

// IndexKey is the store key holding the serialized Index.
const IndexKey = "cache/index"

// indexVersion is bumped when the Index encoding changes incompatibly.
const indexVersion = 1

// Index is a serializable snapshot of resident entries. It is written as
// a single blob so a crash never leaves a partially updated index.
type Index struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
	Entries []Entry   `json:"entries"`
}

// Snapshot returns the current entries ordered by creation time.
func (c *AssetCache) Snapshot() Index {
	c.mu.RLock()
	entries := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		entries = append(entries, *e)
	}
	c.mu.RUnlock()

	slices.SortFunc(entries, func(a, b Entry) int {
		if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
			return n
		}
		return strings.Compare(a.Key, b.Key)
	})
	return Index{Version: indexVersion, SavedAt: c.now().UTC(), Entries: entries}
}

// Restore loads idx into the cache. Expired entries, entries whose key
// does not match their URL and tier, and local assets are skipped.
// Existing entries with the same key are replaced. It returns the number
// of entries restored.
func (c *AssetCache) Restore(idx Index) int {
	now := c.now()
	restored := 0

	c.mu.Lock()
	for i := range idx.Entries {
		e := idx.Entries[i]
		if !e.Tier.Valid() || e.SizeBytes < 0 || IsLocal(e.SourceURL) || e.Key != Key(e.SourceURL, e.Tier) {
			continue
		}
		if c.expired(&e, now) {
			continue
		}
		if old, ok := c.entries[e.Key]; ok {
			c.resident -= old.SizeBytes
		}
		c.entries[e.Key] = &e
		c.resident += e.SizeBytes
		restored++
	}
	if c.resident > c.cfg.MemoryBudgetBytes {
		c.evictLocked(false)
	}
	c.publishLocked()
	c.mu.Unlock()

	// A freshly restored cache matches what is on disk.
	c.flushedGen.Store(c.generation.Add(1))
	return restored
}

// LoadIndex restores the index persisted in s. A missing index is a cold
// start and not an error. A corrupt index is reported and left in place;
// the cache stays empty.
func (c *AssetCache) LoadIndex(ctx context.Context, s store.IndexStore) (int, error) {
	data, err := s.Get(ctx, IndexKey)
	if errors.Is(err, models.ErrNotFound) {
		c.logger.Info().Msg("no persisted cache index, starting cold")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load cache index: %w", err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return 0, fmt.Errorf("decode cache index: %w", err)
	}
	if idx.Version != indexVersion {
		c.logger.Warn().Int("version", idx.Version).Msg("ignoring cache index with unknown version")
		return 0, nil
	}

	n := c.Restore(idx)
	c.logger.Info().
		Int("restored", n).
		Int("persisted", len(idx.Entries)).
		Time("saved_at", idx.SavedAt).
		Msg("cache index loaded")
	return n, nil
}

// Dirty reports whether the cache changed since the last flush.
func (c *AssetCache) Dirty() bool {
	return c.generation.Load() != c.flushedGen.Load()
}

// FlushIndex writes a snapshot to s when the cache changed since the last
// flush, or unconditionally when force is set. It reports whether a write
// happened.
func (c *AssetCache) FlushIndex(ctx context.Context, s store.IndexStore, force bool) (bool, error) {
	gen := c.generation.Load()
	if !force && gen == c.flushedGen.Load() {
		metrics.IndexFlushes.WithLabelValues("skipped").Inc()
		return false, nil
	}

	idx := c.Snapshot()
	data, err := json.Marshal(idx)
	if err != nil {
		metrics.IndexFlushes.WithLabelValues("error").Inc()
		return false, fmt.Errorf("encode cache index: %w", err)
	}
	if err := s.Put(ctx, IndexKey, data); err != nil {
		metrics.IndexFlushes.WithLabelValues("error").Inc()
		return false, fmt.Errorf("write cache index: %w", err)
	}
	c.flushedGen.Store(gen)
	metrics.IndexFlushes.WithLabelValues("ok").Inc()
	c.logger.Debug().Int("entries", len(idx.Entries)).Int("bytes", len(data)).Msg("cache index flushed")
	return true, nil
}

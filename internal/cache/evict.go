// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package cache

import (
	"maps"
	"slices"
	"strings"

	"github.com/tomtom215/wanderlens/internal/metrics"
)

// EvictionReport summarizes one eviction pass.
type EvictionReport struct {
	Expired       int   `json:"expired"`
	Pressure      int   `json:"pressure"`
	FreedBytes    int64 `json:"freed_bytes"`
	ResidentBytes int64 `json:"resident_bytes"`
}

// Evict runs an eviction pass. Expired entries are always removed. When
// usage is still over budget, or force is set, the oldest remaining
// entries by creation time are removed until usage is at most
// EvictTargetRatio of the budget.
func (c *AssetCache) Evict(force bool) EvictionReport {
	c.mu.Lock()
	report := c.evictLocked(force)
	c.publishLocked()
	c.mu.Unlock()

	swept := c.preloaded.sweep()
	if report.Expired+report.Pressure > 0 {
		c.logger.Info().
			Int("expired", report.Expired).
			Int("pressure", report.Pressure).
			Int64("freed_bytes", report.FreedBytes).
			Int64("resident_bytes", report.ResidentBytes).
			Int("preload_keys_swept", swept).
			Bool("forced", force).
			Msg("cache eviction completed")
	}
	return report
}

// Must be called with c.mu held.
func (c *AssetCache) evictLocked(force bool) EvictionReport {
	var report EvictionReport
	now := c.now()

	for _, e := range c.entries {
		if c.expired(e, now) {
			c.removeLocked(e)
			report.Expired++
			report.FreedBytes += e.SizeBytes
		}
	}

	if force || c.resident > c.cfg.MemoryBudgetBytes {
		target := int64(float64(c.cfg.MemoryBudgetBytes) * c.cfg.EvictTargetRatio)
		if c.resident > target {
			byAge := slices.SortedFunc(maps.Values(c.entries), func(a, b *Entry) int {
				if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
					return n
				}
				return strings.Compare(a.Key, b.Key)
			})
			for _, e := range byAge {
				if c.resident <= target {
					break
				}
				c.removeLocked(e)
				report.Pressure++
				report.FreedBytes += e.SizeBytes
			}
		}
	}

	if report.Expired > 0 {
		metrics.CacheEvictions.WithLabelValues("expired").Add(float64(report.Expired))
	}
	if report.Pressure > 0 {
		metrics.CacheEvictions.WithLabelValues("pressure").Add(float64(report.Pressure))
	}
	c.evictions.Add(int64(report.Expired + report.Pressure))
	report.ResidentBytes = c.resident
	return report
}

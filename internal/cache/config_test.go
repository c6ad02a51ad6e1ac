// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package cache

import (
	"testing"
	"time"

	"github.com/tomtom215/wanderlens/internal/config"
)

func TestConfigFrom(t *testing.T) {
	t.Parallel()

	got := ConfigFrom(config.CacheConfig{
		MemoryBudgetMB:   20,
		MaxAge:           time.Hour,
		EvictTargetRatio: 1.5,
		FallbackURL:      "asset://fallback/custom.jpg",
	}, 3*time.Second)

	def := DefaultConfig()
	if got.MemoryBudgetBytes != 20<<20 {
		t.Errorf("MemoryBudgetBytes = %d, want %d", got.MemoryBudgetBytes, 20<<20)
	}
	if got.MaxAge != time.Hour || got.FetchTimeout != 3*time.Second {
		t.Errorf("MaxAge = %v, FetchTimeout = %v", got.MaxAge, got.FetchTimeout)
	}
	if got.EvictTargetRatio != def.EvictTargetRatio {
		t.Errorf("out of range ratio accepted: %v", got.EvictTargetRatio)
	}
	if got.FallbackURL != "asset://fallback/custom.jpg" {
		t.Errorf("FallbackURL = %q", got.FallbackURL)
	}
	if got.PreloadConcurrency != def.PreloadConcurrency || got.PreloadDedupTTL != def.PreloadDedupTTL {
		t.Error("unset fields must keep defaults")
	}
}

// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package cache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderlens/internal/fetch"
	"github.com/tomtom215/wanderlens/internal/models"
)

const mb = 1 << 20

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestCache(t *testing.T, cfg Config, f *fetch.Fake, opts ...Option) *AssetCache {
	t.Helper()
	return New(cfg, f, zerolog.Nop(), opts...)
}

func testURL(i int) string { return fmt.Sprintf("https://cdn.test/photos/%d.jpg", i) }

func TestGetOptimized_InvalidInput(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, DefaultConfig(), fetch.NewFake())
	tests := []struct {
		name string
		url  string
		tier Tier
	}{
		{"empty url", "", TierHigh},
		{"blank url", "   ", TierHigh},
		{"invalid tier", testURL(1), Tier(7)},
		{"negative tier", testURL(1), Tier(-1)},
		{"unsupported scheme", "ftp://cdn.test/a.jpg", TierLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.GetOptimized(context.Background(), tt.url, tt.tier); !errors.Is(err, models.ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestGetOptimized_LocalBypass(t *testing.T) {
	t.Parallel()

	f := fetch.NewFake()
	c := newTestCache(t, DefaultConfig(), f)

	for _, u := range []string{"asset://destinations/cdg/eiffel.jpg", "file:///opt/app/logo.png", "images/fallback.jpg"} {
		res, err := c.GetOptimized(context.Background(), u, TierHigh)
		if err != nil {
			t.Fatalf("GetOptimized(%s): %v", u, err)
		}
		if res.Strategy != StrategyLocal || res.URL != u {
			t.Errorf("GetOptimized(%s) = %+v, want local passthrough", u, res)
		}
	}
	if f.TotalCalls() != 0 {
		t.Errorf("fetches = %d, want 0", f.TotalCalls())
	}
	if s := c.Stats(); s.EntryCount != 0 || s.Hits != 0 || s.Misses != 0 {
		t.Errorf("stats = %+v, want untouched", s)
	}
}

func TestGetOptimized_MissThenHit(t *testing.T) {
	t.Parallel()

	f := fetch.NewFake()
	c := newTestCache(t, DefaultConfig(), f)
	ctx := context.Background()

	first, err := c.GetOptimized(ctx, testURL(1), TierMedium)
	if err != nil {
		t.Fatal(err)
	}
	if first.Strategy != StrategyNetwork {
		t.Errorf("first strategy = %s, want network", first.Strategy)
	}
	second, err := c.GetOptimized(ctx, testURL(1), TierMedium)
	if err != nil {
		t.Fatal(err)
	}
	if second.Strategy != StrategyCached || second.URL != first.URL {
		t.Errorf("second = %+v, want cached %s", second, first.URL)
	}
	if f.Calls(testURL(1)) != 1 {
		t.Errorf("fetches = %d, want 1", f.Calls(testURL(1)))
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 1 || s.HitRate != 50 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, 50%%", s)
	}
	if s.EntryCount != 1 || s.ResidentBytes != f.DefaultSize {
		t.Errorf("stats = %+v, want one %d-byte entry", s, f.DefaultSize)
	}
}

func TestGetOptimized_TiersAreSeparateEntries(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, DefaultConfig(), fetch.NewFake())
	for _, tier := range []Tier{TierHigh, TierMedium, TierLow} {
		if _, err := c.GetOptimized(context.Background(), testURL(1), tier); err != nil {
			t.Fatal(err)
		}
	}
	if n := c.Stats().EntryCount; n != 3 {
		t.Errorf("EntryCount = %d, want 3", n)
	}
}

func TestGetOptimized_SingleFlight(t *testing.T) {
	t.Parallel()

	f := fetch.NewFake()
	f.Gate = make(chan struct{})
	c := newTestCache(t, DefaultConfig(), f)

	const callers = 50
	results := make([]Result, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := c.GetOptimized(context.Background(), testURL(42), TierHigh)
			if err != nil {
				t.Errorf("GetOptimized: %v", err)
			}
			results[i] = res
		}()
	}

	deadline := time.Now().Add(5 * time.Second)
	for c.Stats().Misses < callers && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	close(f.Gate)
	wg.Wait()

	if n := f.TotalCalls(); n != 1 {
		t.Fatalf("fetches = %d, want exactly 1", n)
	}
	for i, res := range results {
		if res.Fallback() || res.URL != testURL(42) {
			t.Errorf("caller %d got %+v", i, res)
		}
	}
	if c.Stats().InFlight != 0 {
		t.Errorf("InFlight = %d after completion", c.Stats().InFlight)
	}
}

func TestGetOptimized_FailureReturnsFallbackWithoutCaching(t *testing.T) {
	t.Parallel()

	f := fetch.NewFake()
	f.Route(testURL(1), fetch.FakeRoute{Status: http.StatusBadGateway})
	cfg := DefaultConfig()
	c := newTestCache(t, cfg, f)

	for range 2 {
		res, err := c.GetOptimized(context.Background(), testURL(1), TierHigh)
		if err != nil {
			t.Fatalf("GetOptimized returned error %v, want fallback", err)
		}
		if !res.Fallback() || res.URL != cfg.FallbackURL {
			t.Errorf("result = %+v, want fallback %s", res, cfg.FallbackURL)
		}
	}
	if n := c.Stats().EntryCount; n != 0 {
		t.Errorf("EntryCount = %d, failures must not be cached", n)
	}
	if n := f.Calls(testURL(1)); n != 2 {
		t.Errorf("fetches = %d, want a retry on the second call", n)
	}
}

func TestGetOptimized_TimeoutFallsBack(t *testing.T) {
	t.Parallel()

	f := fetch.NewFake()
	f.Gate = make(chan struct{})
	defer close(f.Gate)

	cfg := DefaultConfig()
	cfg.FetchTimeout = 20 * time.Millisecond
	c := newTestCache(t, cfg, f)

	start := time.Now()
	res, err := c.GetOptimized(context.Background(), testURL(1), TierLow)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Fallback() {
		t.Errorf("result = %+v, want fallback after timeout", res)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
	if n := c.Stats().EntryCount; n != 0 {
		t.Errorf("EntryCount = %d after timeout", n)
	}
}

func TestGetOptimized_CallerCancellation(t *testing.T) {
	t.Parallel()

	f := fetch.NewFake()
	f.Gate = make(chan struct{})
	c := newTestCache(t, DefaultConfig(), f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := c.GetOptimized(ctx, testURL(1), TierHigh)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Fallback() {
		t.Errorf("result = %+v, want fallback for canceled caller", res)
	}
	close(f.Gate)
}

func TestExpiration(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	f := fetch.NewFake()
	cfg := DefaultConfig()
	cfg.MaxAge = time.Hour
	c := newTestCache(t, cfg, f, WithClock(clock.Now))
	ctx := context.Background()

	if _, err := c.GetOptimized(ctx, testURL(1), TierHigh); err != nil {
		t.Fatal(err)
	}
	clock.Advance(59 * time.Minute)
	if res, _ := c.GetOptimized(ctx, testURL(1), TierHigh); res.Strategy != StrategyCached {
		t.Errorf("before expiry strategy = %s, want cached", res.Strategy)
	}

	clock.Advance(2 * time.Minute)
	res, err := c.GetOptimized(ctx, testURL(1), TierHigh)
	if err != nil {
		t.Fatal(err)
	}
	if res.Strategy != StrategyNetwork {
		t.Errorf("after expiry strategy = %s, want network refetch", res.Strategy)
	}
	if n := f.Calls(testURL(1)); n != 2 {
		t.Errorf("fetches = %d, want 2", n)
	}
	if e := c.Stats().Evictions; e != 1 {
		t.Errorf("Evictions = %d, want 1 expired entry", e)
	}
}

func TestEvict_ExpiredFirstThenOldest(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	f := fetch.NewFake()
	f.DefaultSize = mb
	cfg := DefaultConfig()
	cfg.MemoryBudgetBytes = 10 * mb
	cfg.MaxAge = 10 * time.Minute
	c := newTestCache(t, cfg, f, WithClock(clock.Now))
	ctx := context.Background()

	for i := range 9 {
		if _, err := c.GetOptimized(ctx, testURL(i), TierHigh); err != nil {
			t.Fatal(err)
		}
		clock.Advance(time.Minute)
	}
	// Now at +9m; entries were created at +0m..+8m.
	clock.Advance(2 * time.Minute)

	report := c.Evict(true)
	if report.Expired != 2 {
		t.Errorf("Expired = %d, want 2", report.Expired)
	}
	if report.Pressure != 1 {
		t.Errorf("Pressure = %d, want 1", report.Pressure)
	}
	limit := int64(float64(cfg.MemoryBudgetBytes) * cfg.EvictTargetRatio)
	if report.ResidentBytes > limit {
		t.Errorf("ResidentBytes = %d, want <= %d", report.ResidentBytes, limit)
	}
	for i := range 3 {
		if _, ok := c.Lookup(testURL(i), TierHigh); ok {
			t.Errorf("entry %d should have been evicted", i)
		}
	}
	for i := 3; i < 9; i++ {
		if _, ok := c.Lookup(testURL(i), TierHigh); !ok {
			t.Errorf("entry %d should still be resident", i)
		}
	}
}

func TestEvict_NotForcedUnderBudgetKeepsEntries(t *testing.T) {
	t.Parallel()

	f := fetch.NewFake()
	f.DefaultSize = mb
	cfg := DefaultConfig()
	cfg.MemoryBudgetBytes = 10 * mb
	c := newTestCache(t, cfg, f)

	for i := range 8 {
		_, _ = c.GetOptimized(context.Background(), testURL(i), TierHigh)
	}
	if report := c.Evict(false); report.Pressure != 0 || report.Expired != 0 {
		t.Errorf("report = %+v, want nothing evicted", report)
	}
	if n := c.Stats().EntryCount; n != 8 {
		t.Errorf("EntryCount = %d, want 8", n)
	}
}

func TestEvict_InsertOverBudgetShrinksToTarget(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	f := fetch.NewFake()
	f.DefaultSize = mb
	cfg := DefaultConfig()
	cfg.MemoryBudgetBytes = 10 * mb
	c := newTestCache(t, cfg, f, WithClock(clock.Now))

	for i := range 11 {
		if _, err := c.GetOptimized(context.Background(), testURL(i), TierHigh); err != nil {
			t.Fatal(err)
		}
		clock.Advance(time.Second)
	}

	s := c.Stats()
	limit := int64(float64(cfg.MemoryBudgetBytes) * cfg.EvictTargetRatio)
	if s.ResidentBytes > limit {
		t.Errorf("ResidentBytes = %d, want <= %d (2/3 of budget)", s.ResidentBytes, limit)
	}
	if s.EntryCount != 6 || s.Evictions != 5 {
		t.Errorf("stats = %+v, want 6 entries after evicting the 5 oldest", s)
	}
	if _, ok := c.Lookup(testURL(10), TierHigh); !ok {
		t.Error("newest entry must survive pressure eviction")
	}
	if _, ok := c.Lookup(testURL(0), TierHigh); ok {
		t.Error("oldest entry must be evicted first")
	}
}

func TestMemoryBudgetUnderSustainedInserts(t *testing.T) {
	t.Parallel()

	f := fetch.NewFake()
	f.DefaultSize = mb
	cfg := DefaultConfig()
	cfg.MemoryBudgetBytes = 50 * mb
	c := newTestCache(t, cfg, f)
	ctx := context.Background()

	var peak int64
	for i := range 10_000 {
		if _, err := c.GetOptimized(ctx, testURL(i), TierHigh); err != nil {
			t.Fatal(err)
		}
		if r := c.Stats().ResidentBytes; r > peak {
			peak = r
		}
	}
	if peak > 55*mb {
		t.Errorf("peak resident = %.1fMB, want <= 55MB", float64(peak)/mb)
	}
	if f.TotalCalls() != 10_000 {
		t.Errorf("fetches = %d, want 10000", f.TotalCalls())
	}
}

func TestProgressiveURLs(t *testing.T) {
	t.Parallel()

	f := fetch.NewFake()
	c := newTestCache(t, DefaultConfig(), f)
	src := "https://images.unsplash.com/photo-1502602898657"

	p := c.ProgressiveURLs(src)
	if p.PreviewCached {
		t.Error("preview should not be cached yet")
	}
	if p.Preview != TierURL(src, TierLow) || p.Full != TierURL(src, TierHigh) {
		t.Errorf("progressive = %+v", p)
	}
	if f.TotalCalls() != 0 {
		t.Errorf("ProgressiveURLs must not fetch, got %d calls", f.TotalCalls())
	}

	if _, err := c.GetOptimized(context.Background(), src, TierLow); err != nil {
		t.Fatal(err)
	}
	if p := c.ProgressiveURLs(src); !p.PreviewCached || p.Preview != TierURL(src, TierLow) {
		t.Errorf("after warming progressive = %+v", p)
	}

	local := c.ProgressiveURLs("asset://fallback/destination.jpg")
	if local.Preview != local.Full {
		t.Errorf("local progressive = %+v", local)
	}

	opaque := "https://cdn.example.org/harbour.jpg"
	p = c.ProgressiveURLs(opaque)
	if p.Full != opaque || p.Preview != DefaultConfig().FallbackURL {
		t.Errorf("untiered host progressive = %+v, want fallback preview", p)
	}
}

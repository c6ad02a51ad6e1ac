// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/wanderlens/internal/config"
	"github.com/tomtom215/wanderlens/internal/fetch"
	"github.com/tomtom215/wanderlens/internal/metrics"
)

// Config configures an AssetCache.
type Config struct {
	// MemoryBudgetBytes is the soft cap on resident bytes.
	MemoryBudgetBytes int64

	// MaxAge expires entries older than this. Zero disables expiry.
	MaxAge time.Duration

	// EvictTargetRatio is the fraction of the budget that pressure
	// eviction shrinks usage to.
	EvictTargetRatio float64

	// FallbackURL is returned whenever a fetch fails.
	FallbackURL string

	// FetchTimeout bounds each upstream fetch.
	FetchTimeout time.Duration

	PreloadDedupTTL    time.Duration
	PreloadConcurrency int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MemoryBudgetBytes:  50 << 20,
		MaxAge:             24 * time.Hour,
		EvictTargetRatio:   2.0 / 3.0,
		FallbackURL:        "asset://fallback/destination.jpg",
		FetchTimeout:       10 * time.Second,
		PreloadDedupTTL:    10 * time.Minute,
		PreloadConcurrency: 4,
	}
}

// ConfigFrom converts the cache section of the application config. Unset
// fields keep their defaults.
func ConfigFrom(c config.CacheConfig, fetchTimeout time.Duration) Config {
	cfg := DefaultConfig()
	if b := c.MemoryBudgetBytes(); b > 0 {
		cfg.MemoryBudgetBytes = b
	}
	if c.MaxAge > 0 {
		cfg.MaxAge = c.MaxAge
	}
	if c.EvictTargetRatio > 0 && c.EvictTargetRatio <= 1 {
		cfg.EvictTargetRatio = c.EvictTargetRatio
	}
	if c.FallbackURL != "" {
		cfg.FallbackURL = c.FallbackURL
	}
	if fetchTimeout > 0 {
		cfg.FetchTimeout = fetchTimeout
	}
	if c.PreloadDedupTTL > 0 {
		cfg.PreloadDedupTTL = c.PreloadDedupTTL
	}
	if c.PreloadConcurrency > 0 {
		cfg.PreloadConcurrency = c.PreloadConcurrency
	}
	return cfg
}

// Entry is one resident cache entry.
type Entry struct {
	Key         string    `json:"key"`
	SourceURL   string    `json:"source_url"`
	ResolvedURL string    `json:"resolved_url"`
	SizeBytes   int64     `json:"size_bytes"`
	Tier        Tier      `json:"tier"`
	CreatedAt   time.Time `json:"created_at"`
}

// Stats is a point-in-time view of cache usage.
type Stats struct {
	ResidentBytes int64   `json:"resident_bytes"`
	BudgetBytes   int64   `json:"budget_bytes"`
	EntryCount    int     `json:"entry_count"`
	HitRate       float64 `json:"hit_rate"`
	Hits          int64   `json:"hits"`
	Misses        int64   `json:"misses"`
	Evictions     int64   `json:"evictions"`
	InFlight      int64   `json:"in_flight"`
}

// Option customizes an AssetCache.
type Option func(*AssetCache)

// WithClock replaces the wall clock. Used by tests to drive expiry.
func WithClock(now func() time.Time) Option {
	return func(c *AssetCache) { c.now = now }
}

// AssetCache is the tiered in-memory asset cache.
//
// The entry map and resident byte counter are guarded by mu. Fetches run
// outside the lock; concurrent misses for one key are coalesced through a
// singleflight group.
type AssetCache struct {
	cfg     Config
	fetcher fetch.Fetcher
	logger  zerolog.Logger
	now     func() time.Time

	mu       sync.RWMutex
	entries  map[string]*Entry
	resident int64

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
	inFlight  atomic.Int64

	// generation increments on every mutation; flushedGen is the
	// generation last written by FlushIndex.
	generation atomic.Uint64
	flushedGen atomic.Uint64

	group      singleflight.Group
	strategies []FetchStrategy
	preloaded  *preloadSet
	background sync.WaitGroup
}

// New creates an AssetCache that fetches misses through fetcher.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, fetcher fetch.Fetcher, logger zerolog.Logger, opts ...Option) *AssetCache {
	def := DefaultConfig()
	if cfg.MemoryBudgetBytes <= 0 {
		cfg.MemoryBudgetBytes = def.MemoryBudgetBytes
	}
	if cfg.EvictTargetRatio <= 0 || cfg.EvictTargetRatio > 1 {
		cfg.EvictTargetRatio = def.EvictTargetRatio
	}
	if cfg.FallbackURL == "" {
		cfg.FallbackURL = def.FallbackURL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = def.FetchTimeout
	}
	if cfg.PreloadConcurrency <= 0 {
		cfg.PreloadConcurrency = def.PreloadConcurrency
	}

	c := &AssetCache{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logger.With().Str("component", "asset_cache").Logger(),
		now:     time.Now,
		entries: make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.preloaded = newPreloadSet(0, cfg.PreloadDedupTTL, c.now)
	c.strategies = []FetchStrategy{
		localStrategy{},
		cachedStrategy{c: c},
		networkStrategy{c: c},
		fallbackStrategy{url: cfg.FallbackURL},
	}
	return c
}

// Config returns the effective configuration.
func (c *AssetCache) Config() Config { return c.cfg }

// GetOptimized resolves url at tier. A live entry is returned without
// fetching; a miss performs at most one fetch per (url, tier) no matter
// how many callers ask concurrently. Fetch failures and timeouts return
// the fallback asset and cache nothing. The only error is ErrInvalidInput.
func (c *AssetCache) GetOptimized(ctx context.Context, url string, tier Tier) (Result, error) {
	url, err := validateRequest(url, tier)
	if err != nil {
		return Result{}, err
	}
	req := Request{URL: url, Tier: tier}
	if !IsLocal(url) {
		req.Key = Key(url, tier)
	}

	for _, s := range c.strategies {
		resolved, ok := s.Resolve(ctx, req)
		if !ok {
			continue
		}
		metrics.CacheStrategyServed.WithLabelValues(string(s.Name())).Inc()
		return Result{URL: resolved, Strategy: s.Name(), Tier: tier, Key: req.Key}, nil
	}
	// Unreachable while fallbackStrategy terminates the list.
	return Result{URL: c.cfg.FallbackURL, Strategy: StrategyFallback, Tier: tier, Key: req.Key}, nil
}

// Lookup returns the live entry for (url, tier) without fetching.
func (c *AssetCache) Lookup(url string, tier Tier) (Entry, bool) {
	if IsLocal(url) || !tier.Valid() {
		return Entry{}, false
	}
	e, ok := c.lookup(Key(url, tier))
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Stats returns current usage counters.
func (c *AssetCache) Stats() Stats {
	c.mu.RLock()
	resident, count := c.resident, len(c.entries)
	c.mu.RUnlock()

	s := Stats{
		ResidentBytes: resident,
		BudgetBytes:   c.cfg.MemoryBudgetBytes,
		EntryCount:    count,
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Evictions:     c.evictions.Load(),
		InFlight:      c.inFlight.Load(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total) * 100
	}
	return s
}

// Wait blocks until background preloads have finished.
func (c *AssetCache) Wait() { c.background.Wait() }

// lookup returns the live entry for key. An expired entry is removed.
func (c *AssetCache) lookup(key string) (*Entry, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.expired(e, c.now()) {
		return e, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[key]; ok && cur == e {
		c.removeLocked(e)
		c.evictions.Add(1)
		metrics.CacheEvictions.WithLabelValues("expired").Inc()
		c.publishLocked()
	}
	return nil, false
}

// fetchAndStore runs inside the singleflight group. The fetch is detached
// from the caller's cancellation so one departing waiter cannot fail the
// others; it is still bounded by FetchTimeout.
func (c *AssetCache) fetchAndStore(ctx context.Context, req Request) (string, error) {
	if e, ok := c.lookup(req.Key); ok {
		return e.ResolvedURL, nil
	}

	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.FetchTimeout)
	defer cancel()

	resolved := TierURL(req.URL, req.Tier)
	resp, err := c.fetcher.Fetch(fctx, resolved)
	if err != nil {
		c.logger.Warn().Err(err).Str("url", resolved).Str("tier", req.Tier.String()).Msg("asset fetch failed, serving fallback")
		return "", err
	}

	size := resp.Size
	if size <= 0 {
		size = int64(len(resp.Body))
	}
	if size <= 0 {
		size = EstimatedSize(req.Tier)
	}
	c.insert(&Entry{
		Key:         req.Key,
		SourceURL:   req.URL,
		ResolvedURL: resolved,
		SizeBytes:   size,
		Tier:        req.Tier,
		CreatedAt:   c.now(),
	})
	return resolved, nil
}

// insert stores e and evicts immediately when the budget is exceeded.
func (c *AssetCache) insert(e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[e.Key]; ok {
		c.resident -= old.SizeBytes
	}
	c.entries[e.Key] = e
	c.resident += e.SizeBytes
	c.generation.Add(1)

	if c.resident > c.cfg.MemoryBudgetBytes {
		report := c.evictLocked(false)
		c.logger.Debug().
			Int("expired", report.Expired).
			Int("pressure", report.Pressure).
			Int64("resident_bytes", c.resident).
			Msg("insert exceeded memory budget")
	}
	c.publishLocked()
}

// Must be called with c.mu held.
func (c *AssetCache) removeLocked(e *Entry) {
	delete(c.entries, e.Key)
	c.resident -= e.SizeBytes
	c.generation.Add(1)
}

// Must be called with c.mu held.
func (c *AssetCache) publishLocked() {
	metrics.UpdateCacheGauges(c.resident, len(c.entries))
}

func (c *AssetCache) expired(e *Entry, now time.Time) bool {
	return c.cfg.MaxAge > 0 && now.Sub(e.CreatedAt) >= c.cfg.MaxAge
}

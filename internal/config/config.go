// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package config

import (
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values from defaultConfig()
//  2. Config File: optional YAML file (CONFIG_PATH or config.yaml)
//  3. Environment Variables: override any mapped setting
//
// Configuration Categories:
//
//  1. Engine:
//     - Cache: tiered asset cache budget, expiry and eviction cadence
//     - Selector: provider result sizes, diversity cap and score bonuses
//     - Stream: data usage budget and video preload concurrency
//
//  2. Collaborators:
//     - Fetch: HTTP transport timeout and retry policy
//     - Providers: external stock media services, breaker and rate limits
//     - Store: persistent cache index backend
//
//  3. Runtime:
//     - Server: HTTP listener, CORS and request rate limits
//     - Logging: level and output format
//     - Supervisor: suture restart policy
type Config struct {
	Cache      CacheConfig      `koanf:"cache"`
	Selector   SelectorConfig   `koanf:"selector"`
	Stream     StreamConfig     `koanf:"stream"`
	Fetch      FetchConfig      `koanf:"fetch"`
	Providers  ProvidersConfig  `koanf:"providers"`
	Store      StoreConfig      `koanf:"store"`
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// CacheConfig controls the tiered asset cache.
type CacheConfig struct {
	// MemoryBudgetMB is the soft ceiling on resident entry size.
	MemoryBudgetMB int `koanf:"memory_budget_mb"`

	// MaxAge is how long an entry stays fresh.
	MaxAge time.Duration `koanf:"max_age"`

	// EvictionInterval is the period of the background eviction sweep.
	EvictionInterval time.Duration `koanf:"eviction_interval"`

	// EvictTargetRatio is the fraction of the budget phase-two eviction drains to.
	EvictTargetRatio float64 `koanf:"evict_target_ratio"`

	// FallbackURL is served when a fetch fails.
	FallbackURL string `koanf:"fallback_url"`

	// PreloadDedupTTL suppresses re-warming a URL preloaded within this window.
	PreloadDedupTTL time.Duration `koanf:"preload_dedup_ttl"`

	// PreloadConcurrency bounds parallel fetches of a high-priority preload.
	PreloadConcurrency int `koanf:"preload_concurrency"`

	// IndexFlushInterval is the period of the persistent index flush.
	IndexFlushInterval time.Duration `koanf:"index_flush_interval"`
}

// SelectorConfig controls candidate gathering and scoring.
type SelectorConfig struct {
	ProviderMaxResults int `koanf:"provider_max_results"`
	DiversityCap       int `koanf:"diversity_cap"`
	KeywordBonus       int `koanf:"keyword_bonus"`
	MoodBonus          int `koanf:"mood_bonus"`
	HighlightBonus     int `koanf:"highlight_bonus"`
	InterestBonus      int `koanf:"interest_bonus"`
}

// StreamConfig controls video rendition selection.
type StreamConfig struct {
	// BudgetMB is the data usage allowance per BudgetPeriod.
	BudgetMB float64 `koanf:"budget_mb"`

	// BudgetPeriod is the wall-clock reset period of the budget.
	BudgetPeriod time.Duration `koanf:"budget_period"`

	// CleanupInterval is the period of the inactive rendition sweep.
	CleanupInterval time.Duration `koanf:"cleanup_interval"`

	HighPriorityConcurrency int `koanf:"high_priority_concurrency"`
	LowPriorityConcurrency  int `koanf:"low_priority_concurrency"`

	// ClipSeconds is the assumed clip length for size estimates.
	ClipSeconds int `koanf:"clip_seconds"`
}

// FetchConfig controls the HTTP fetch transport.
type FetchConfig struct {
	Timeout         time.Duration `koanf:"timeout"`
	UserAgent       string        `koanf:"user_agent"`
	MaxRetries      int           `koanf:"max_retries"`
	RetryBaseDelay  time.Duration `koanf:"retry_base_delay"`
	MaxConnsPerHost int           `koanf:"max_conns_per_host"`
}

// ProvidersConfig lists the external stock media services in priority order.
type ProvidersConfig struct {
	// Order is the fixed priority in which providers are tried.
	Order []string `koanf:"order"`

	Unsplash ProviderConfig `koanf:"unsplash"`
	Pexels   ProviderConfig `koanf:"pexels"`

	// RateLimit is requests per second per provider.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// ProviderConfig configures one provider adapter.
type ProviderConfig struct {
	Enabled bool   `koanf:"enabled"`
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
}

// BreakerConfig configures the per-provider circuit breaker.
type BreakerConfig struct {
	MaxFailures uint32        `koanf:"max_failures"`
	Interval    time.Duration `koanf:"interval"`
	OpenTimeout time.Duration `koanf:"open_timeout"`
}

// StoreConfig selects the persistent cache index backend.
type StoreConfig struct {
	// Backend is badger, sqlite or memory.
	Backend string `koanf:"backend"`
	Path    string `koanf:"path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes file:line in logs.
	Caller bool `koanf:"caller"`
}

// SupervisorConfig mirrors suture's restart policy knobs.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// Load reads configuration from defaults, the optional config file and the
// environment. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// MemoryBudgetBytes returns the cache budget in bytes.
func (c *CacheConfig) MemoryBudgetBytes() int64 {
	return int64(c.MemoryBudgetMB) << 20
}

// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package config

import (
	"fmt"
	"net/url"
	"strings"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

var validStoreBackends = map[string]bool{
	"badger": true,
	"sqlite": true,
	"memory": true,
}

var knownProviders = map[string]bool{
	"unsplash": true,
	"pexels":   true,
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateCache,
		c.validateSelector,
		c.validateStream,
		c.validateFetch,
		c.validateProviders,
		c.validateStore,
		c.validateServer,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.MemoryBudgetMB <= 0 {
		return fmt.Errorf("CACHE_MEMORY_BUDGET_MB must be positive, got %d", c.Cache.MemoryBudgetMB)
	}
	if c.Cache.MaxAge <= 0 {
		return fmt.Errorf("CACHE_MAX_AGE must be positive")
	}
	if c.Cache.EvictionInterval <= 0 {
		return fmt.Errorf("CACHE_EVICTION_INTERVAL must be positive")
	}
	if c.Cache.EvictTargetRatio <= 0 || c.Cache.EvictTargetRatio >= 1 {
		return fmt.Errorf("CACHE_EVICT_TARGET_RATIO must be between 0 and 1 exclusive, got %v", c.Cache.EvictTargetRatio)
	}
	if c.Cache.FallbackURL == "" {
		return fmt.Errorf("CACHE_FALLBACK_URL is required")
	}
	if c.Cache.PreloadConcurrency < 1 {
		return fmt.Errorf("CACHE_PRELOAD_CONCURRENCY must be at least 1")
	}
	return nil
}

func (c *Config) validateSelector() error {
	s := c.Selector
	if s.DiversityCap < 1 {
		return fmt.Errorf("SELECTOR_DIVERSITY_CAP must be at least 1")
	}
	if s.ProviderMaxResults < 1 {
		return fmt.Errorf("SELECTOR_PROVIDER_MAX_RESULTS must be at least 1")
	}
	for name, v := range map[string]int{
		"SELECTOR_KEYWORD_BONUS":   s.KeywordBonus,
		"SELECTOR_MOOD_BONUS":      s.MoodBonus,
		"SELECTOR_HIGHLIGHT_BONUS": s.HighlightBonus,
		"SELECTOR_INTEREST_BONUS":  s.InterestBonus,
	} {
		if v < 0 || v > 50 {
			return fmt.Errorf("%s must be between 0 and 50, got %d", name, v)
		}
	}
	return nil
}

func (c *Config) validateStream() error {
	s := c.Stream
	if s.BudgetMB <= 0 {
		return fmt.Errorf("STREAM_BUDGET_MB must be positive")
	}
	if s.BudgetPeriod <= 0 {
		return fmt.Errorf("STREAM_BUDGET_PERIOD must be positive")
	}
	if s.CleanupInterval <= 0 {
		return fmt.Errorf("STREAM_CLEANUP_INTERVAL must be positive")
	}
	if s.HighPriorityConcurrency < 1 || s.LowPriorityConcurrency < 1 {
		return fmt.Errorf("stream preload concurrency must be at least 1")
	}
	if s.ClipSeconds < 1 {
		return fmt.Errorf("STREAM_CLIP_SECONDS must be at least 1")
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.Fetch.MaxRetries < 0 {
		return fmt.Errorf("FETCH_MAX_RETRIES cannot be negative")
	}
	return nil
}

func (c *Config) validateProviders() error {
	p := c.Providers
	for _, name := range p.Order {
		if !knownProviders[strings.ToLower(name)] {
			return fmt.Errorf("PROVIDER_ORDER contains unknown provider %q", name)
		}
	}
	for name, pc := range map[string]ProviderConfig{"UNSPLASH": p.Unsplash, "PEXELS": p.Pexels} {
		if !pc.Enabled {
			continue
		}
		if err := validateHTTPURL(pc.BaseURL); err != nil {
			return fmt.Errorf("%s_BASE_URL: %w", name, err)
		}
		if pc.APIKey == "" {
			return fmt.Errorf("%s API key is required when the provider is enabled", name)
		}
	}
	if p.RateLimit <= 0 || p.RateBurst < 1 {
		return fmt.Errorf("PROVIDER_RATE_LIMIT and PROVIDER_RATE_BURST must be positive")
	}
	if p.Breaker.MaxFailures == 0 {
		return fmt.Errorf("PROVIDER_BREAKER_MAX_FAILURES must be at least 1")
	}
	return nil
}

func (c *Config) validateStore() error {
	if !validStoreBackends[c.Store.Backend] {
		return fmt.Errorf("INDEX_STORE_BACKEND must be one of: badger, sqlite, memory")
	}
	if c.Store.Backend != "memory" && c.Store.Path == "" {
		return fmt.Errorf("INDEX_STORE_PATH is required for the %s backend", c.Store.Backend)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS must be at least 1")
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	return nil
}

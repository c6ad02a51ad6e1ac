// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/wanderlens/config.yaml",
	"/etc/wanderlens/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			MemoryBudgetMB:     50,
			MaxAge:             24 * time.Hour,
			EvictionInterval:   5 * time.Minute,
			EvictTargetRatio:   2.0 / 3.0,
			FallbackURL:        "asset://fallback/destination.jpg",
			PreloadDedupTTL:    10 * time.Minute,
			PreloadConcurrency: 4,
			IndexFlushInterval: time.Minute,
		},
		Selector: SelectorConfig{
			ProviderMaxResults: 10,
			DiversityCap:       2,
			KeywordBonus:       5,
			MoodBonus:          15,
			HighlightBonus:     8,
			InterestBonus:      3,
		},
		Stream: StreamConfig{
			BudgetMB:                500,
			BudgetPeriod:            24 * time.Hour,
			CleanupInterval:         5 * time.Minute,
			HighPriorityConcurrency: 2,
			LowPriorityConcurrency:  1,
			ClipSeconds:             15,
		},
		Fetch: FetchConfig{
			Timeout:         10 * time.Second,
			UserAgent:       "wanderlens/1.0",
			MaxRetries:      2,
			RetryBaseDelay:  500 * time.Millisecond,
			MaxConnsPerHost: 8,
		},
		Providers: ProvidersConfig{
			Order: []string{"unsplash", "pexels"},
			Unsplash: ProviderConfig{
				Enabled: false,
				BaseURL: "https://api.unsplash.com",
			},
			Pexels: ProviderConfig{
				Enabled: false,
				BaseURL: "https://api.pexels.com",
			},
			RateLimit: 5,
			RateBurst: 10,
			Breaker: BreakerConfig{
				MaxFailures: 5,
				Interval:    time.Minute,
				OpenTimeout: 30 * time.Second,
			},
		},
		Store: StoreConfig{
			Backend: "badger",
			Path:    "/data/wanderlens/index",
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// CACHE_MEMORY_BUDGET_MB -> cache.memory_budget_mb
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when they come
// from the environment.
var sliceConfigPaths = []string{
	"providers.order",
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if len(values) == 0 {
			continue
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored so unrelated environment does not leak
// into the config.
var envMappings = map[string]string{
	"cache_memory_budget_mb":     "cache.memory_budget_mb",
	"cache_max_age":              "cache.max_age",
	"cache_eviction_interval":    "cache.eviction_interval",
	"cache_evict_target_ratio":   "cache.evict_target_ratio",
	"cache_fallback_url":         "cache.fallback_url",
	"cache_preload_dedup_ttl":    "cache.preload_dedup_ttl",
	"cache_preload_concurrency":  "cache.preload_concurrency",
	"cache_index_flush_interval": "cache.index_flush_interval",

	"selector_provider_max_results": "selector.provider_max_results",
	"selector_diversity_cap":        "selector.diversity_cap",
	"selector_keyword_bonus":        "selector.keyword_bonus",
	"selector_mood_bonus":           "selector.mood_bonus",
	"selector_highlight_bonus":      "selector.highlight_bonus",
	"selector_interest_bonus":       "selector.interest_bonus",

	"stream_budget_mb":                 "stream.budget_mb",
	"stream_budget_period":             "stream.budget_period",
	"stream_cleanup_interval":          "stream.cleanup_interval",
	"stream_high_priority_concurrency": "stream.high_priority_concurrency",
	"stream_low_priority_concurrency":  "stream.low_priority_concurrency",
	"stream_clip_seconds":              "stream.clip_seconds",

	"fetch_timeout":            "fetch.timeout",
	"fetch_user_agent":         "fetch.user_agent",
	"fetch_max_retries":        "fetch.max_retries",
	"fetch_retry_base_delay":   "fetch.retry_base_delay",
	"fetch_max_conns_per_host": "fetch.max_conns_per_host",

	"provider_order":                "providers.order",
	"provider_rate_limit":           "providers.rate_limit",
	"provider_rate_burst":           "providers.rate_burst",
	"provider_breaker_max_failures": "providers.breaker.max_failures",
	"provider_breaker_interval":     "providers.breaker.interval",
	"provider_breaker_open_timeout": "providers.breaker.open_timeout",
	"unsplash_enabled":              "providers.unsplash.enabled",
	"unsplash_base_url":             "providers.unsplash.base_url",
	"unsplash_access_key":           "providers.unsplash.api_key",
	"pexels_enabled":                "providers.pexels.enabled",
	"pexels_base_url":               "providers.pexels.base_url",
	"pexels_api_key":                "providers.pexels.api_key",

	"index_store_backend": "store.backend",
	"index_store_path":    "store.path",

	"http_host":         "server.host",
	"http_port":         "server.port",
	"http_timeout":      "server.timeout",
	"cors_origins":      "server.cors_origins",
	"rate_limit_reqs":   "server.rate_limit_reqs",
	"rate_limit_window": "server.rate_limit_window",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"supervisor_failure_threshold": "supervisor.failure_threshold",
	"supervisor_failure_decay":     "supervisor.failure_decay",
	"supervisor_failure_backoff":   "supervisor.failure_backoff",
	"supervisor_shutdown_timeout":  "supervisor.shutdown_timeout",
}

// envTransformFunc maps an environment variable name to a koanf path, or ""
// to skip it.
//
// Examples:
//   - CACHE_MEMORY_BUDGET_MB -> cache.memory_budget_mb
//   - PEXELS_API_KEY -> providers.pexels.api_key
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

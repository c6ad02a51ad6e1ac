// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Tiered asset cache efficiency and eviction
// - Fetch transport latency and outcomes
// - Provider requests and circuit breakers
// - Selection latency and result sizes
// - Video tier selection and data usage
// - API endpoint latency and throughput

var (
	// Asset Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlens_cache_hits_total",
			Help: "Total number of asset cache hits",
		},
		[]string{"tier"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlens_cache_misses_total",
			Help: "Total number of asset cache misses",
		},
		[]string{"tier"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlens_cache_evictions_total",
			Help: "Total number of evicted cache entries",
		},
		[]string{"reason"}, // "expired", "pressure"
	)

	CacheResidentBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wanderlens_cache_resident_bytes",
			Help: "Estimated bytes held by live cache entries",
		},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wanderlens_cache_entries",
			Help: "Current number of live cache entries",
		},
	)

	CacheCoalescedWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wanderlens_cache_coalesced_waits_total",
			Help: "Callers that joined an in-flight fetch instead of starting one",
		},
	)

	CacheStrategyServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlens_cache_strategy_served_total",
			Help: "Requests served per fetch strategy",
		},
		[]string{"strategy"}, // "local", "cached", "network", "fallback"
	)

	IndexFlushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlens_cache_index_flushes_total",
			Help: "Persistent cache index flushes",
		},
		[]string{"result"},
	)

	// Fetch Transport Metrics
	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderlens_fetch_duration_seconds",
			Help:    "Duration of upstream fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"host"},
	)

	FetchResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlens_fetch_results_total",
			Help: "Upstream fetch outcomes",
		},
		[]string{"result"}, // "ok", "http_error", "timeout", "error"
	)

	// Provider Metrics
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlens_provider_requests_total",
			Help: "Provider search requests by outcome",
		},
		[]string{"provider", "result"}, // result: "ok", "empty", "error", "rejected", "rate_limited"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wanderlens_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlens_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Selection Metrics
	SelectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wanderlens_selection_duration_seconds",
			Help:    "Duration of content selection in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SelectionResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "wanderlens_selection_result_size",
			Help:    "Number of assets returned per selection",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 12, 20},
		},
	)

	// Stream Metrics
	VideoTierSelections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlens_video_tier_selections_total",
			Help: "Video renditions served by resolution and outcome",
		},
		[]string{"resolution", "state"}, // state: "serving", "degraded", "thumbnail_only"
	)

	DataUsageMB = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wanderlens_data_usage_mb",
			Help: "Video data usage counted in the current budget period",
		},
	)

	PreloadResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlens_preload_results_total",
			Help: "Preload outcomes by kind",
		},
		[]string{"kind", "result"}, // kind: "photo", "video"; result: "ok", "failed", "skipped"
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wanderlens_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wanderlens_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wanderlens_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordFetch records one upstream fetch.
func RecordFetch(host, result string, duration time.Duration) {
	FetchDuration.WithLabelValues(host).Observe(duration.Seconds())
	FetchResults.WithLabelValues(result).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSelection records one selection run.
func RecordSelection(duration time.Duration, results int) {
	SelectionDuration.Observe(duration.Seconds())
	SelectionResultSize.Observe(float64(results))
}

// UpdateCacheGauges sets the resident size and entry count gauges.
func UpdateCacheGauges(residentBytes int64, entries int) {
	CacheResidentBytes.Set(float64(residentBytes))
	CacheEntries.Set(float64(entries))
}

// RecordBreakerTransition records a breaker state change. States use the
// gobreaker numbering: 0=closed, 1=half-open, 2=open.
func RecordBreakerTransition(name, from, to string, toState int) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(float64(toState))
}

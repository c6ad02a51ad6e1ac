// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

/*
Package metrics provides Prometheus instrumentation for Wanderlens.

Collectors are registered with promauto on the default registry and exposed
at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

Cache:
  - wanderlens_cache_hits_total / wanderlens_cache_misses_total (labels: tier)
  - wanderlens_cache_evictions_total (labels: reason = expired | pressure)
  - wanderlens_cache_resident_bytes, wanderlens_cache_entries (gauges)
  - wanderlens_cache_coalesced_waits_total: callers that joined an in-flight fetch
  - wanderlens_cache_strategy_served_total (labels: strategy)

Upstream:
  - wanderlens_fetch_duration_seconds (labels: host)
  - wanderlens_provider_requests_total (labels: provider, result)
  - wanderlens_circuit_breaker_state (0=closed, 1=half-open, 2=open)

Engine:
  - wanderlens_selection_duration_seconds, wanderlens_selection_result_size
  - wanderlens_video_tier_selections_total (labels: resolution, state)
  - wanderlens_data_usage_mb
  - wanderlens_preload_results_total (labels: kind, result)
*/
package metrics

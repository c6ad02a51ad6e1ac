// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

/*
Package middleware provides the chi-compatible HTTP middleware used by the
Wanderlens API.

  - RequestID: accepts or generates X-Request-ID and stores it for logging
  - AccessLog: one zerolog line per request
  - PrometheusMetrics: request counts and latency by route pattern
  - Compression: gzip for clients that accept it

All middleware has the func(http.Handler) http.Handler shape so it can be
passed to chi's Use. A typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(logger))
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)

Metrics are labeled with the chi route pattern, not the raw path, so
"/api/v1/media/CDG" and "/api/v1/media/JFK" share one series.
*/
package middleware

// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

/*
Package api exposes the engine over HTTP using the chi router.

# Endpoints

	GET  /api/v1/health/live
	GET  /api/v1/destinations
	GET  /api/v1/media/{destination}?mood=&season=&time_of_day=&style=&interests=&limit=&videos=
	GET  /api/v1/airlines/{code}/logo?variant=primary|tail|icon
	POST /api/v1/preload            {"destinations": ["CDG", "KEF"]}
	GET  /api/v1/cache/stats
	POST /api/v1/cache/evict?force=true
	GET  /api/v1/stream/budget
	POST /api/v1/stream/visible     {"urls": ["https://..."]}
	GET  /metrics

Every JSON response uses the models.APIResponse envelope. Validation
failures are 400 with code VALIDATION_ERROR, an unknown airline is 404, and
any other engine error is a 500 whose details are only logged.

# Middleware

Global: request ID, real IP, panic recovery, access log, CORS.
/api/v1 additionally gets per-IP rate limiting via httprate, Prometheus
request metrics and gzip compression. Health checks are not rate limited.
*/
package api

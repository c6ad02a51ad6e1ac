// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

/*
Package services provides suture.Service wrappers for Wanderlens components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer so suture can name it in log events.

# Available Services

Eviction (EvictionService):
  - Runs the asset cache's two-phase eviction sweep on an interval
  - Expired entries first, then oldest entries while over budget

Index flush (IndexFlushService):
  - Writes the cache index to the index store when it changed
  - Performs a final forced flush on shutdown, detached from the
    canceled context and bounded by its own timeout

Video cleanup (VideoCleanupService):
  - Drops rendition metadata for videos outside the last reported
    visible set

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the ListenAndServe pattern to Serve

# Interval Services

The three interval services share one ticker loop. A failed tick is logged
and the loop continues; Serve only returns when its context is canceled,
so suture never restarts them for a transient failure.
*/
package services

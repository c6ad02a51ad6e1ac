// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

/*
Package models defines the data structures shared by the Wanderlens engine.

Key Components:

  - MediaAsset: one candidate photo or video with its descriptive metadata
  - Source: closed variant, either the local curated catalog or a named provider
  - Mood, Season, TimeOfDay, TravelStyle: fixed enumerations with Parse functions
  - SelectionCriteria: per-call filter and ranking input
  - ComputeQualityScore: pure scoring function, memoised by ScoreMemo, a bounded LRU
  - APIResponse: standard HTTP response envelope

Error Taxonomy:

ErrInvalidInput is the only sentinel returned across the public API.
ErrNotFound, ErrFetchFailed and ErrBudgetExceeded are absorbed by the
component that observes them and converted into degraded results.

	if errors.Is(err, models.ErrInvalidInput) {
	    // 400 Bad Request
	}

Thread Safety:

MediaAsset and SelectionCriteria values are immutable after construction
and safe to share for reading. ScoreMemo is safe for concurrent use.
*/
package models

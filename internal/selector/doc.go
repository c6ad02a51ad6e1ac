// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

// Package selector produces a ranked, diversified shortlist of media assets
// for a destination.
//
// # Pipeline
//
//	gather -> filter -> score -> rank -> diversify -> backfill -> limit
//
// Curated catalog assets are always gathered first. External providers are
// only queried when the catalog yields fewer candidates than requested, and a
// failing provider contributes nothing.
//
// # Scoring
//
// Every candidate starts from its quality score (0-100) and gains small fixed
// bonuses:
//
//   - KeywordBonus per destination keyword found in its tags or description
//   - MoodBonus when its mood equals the requested mood
//   - HighlightBonus per cultural highlight found in its tags or description
//   - InterestBonus per traveller interest or travel style it matches
//
// The bonus magnitudes are tunable through config.SelectorConfig.
//
// # Diversification
//
// The ranked list is walked once, accepting an asset only while its source
// and its mood have each been accepted fewer than DiversityCap times.
// Unfilled slots are backfilled from the highest-scoring rejected assets.
// Ranking is a stable sort, so identical inputs always produce identical
// output.
package selector

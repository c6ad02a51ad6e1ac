// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package selector

import (
	"cmp"
	"slices"

	"github.com/tomtom215/wanderlens/internal/models"
)

// rank sorts candidates by descending score. Ties keep discovery order.
func rank(candidates []Candidate) {
	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		if n := cmp.Compare(b.Score, a.Score); n != 0 {
			return n
		}
		return cmp.Compare(a.Order, b.Order)
	})
}

// diversify walks ranked candidates and accepts one only while its source
// and its mood have each been accepted fewer than maxPerGroup times. An
// unspecified mood is not capped. Slots left empty are backfilled from the
// highest-scoring rejected candidates, ignoring the caps.
func diversify(ranked []Candidate, k, maxPerGroup int) []Candidate {
	if k <= 0 || len(ranked) == 0 {
		return nil
	}
	k = min(k, len(ranked))
	if maxPerGroup <= 0 {
		return slices.Clone(ranked[:k])
	}

	bySource := make(map[models.Source]int)
	byMood := make(map[models.Mood]int)
	result := make([]Candidate, 0, k)
	rejected := make([]Candidate, 0, len(ranked))

	for i := range ranked {
		c := ranked[i]
		if len(result) == k {
			break
		}
		src, mood := c.Asset.Metadata.Source, c.Asset.Metadata.Mood
		if bySource[src] >= maxPerGroup || (mood != models.MoodUnspecified && byMood[mood] >= maxPerGroup) {
			rejected = append(rejected, c)
			continue
		}
		bySource[src]++
		if mood != models.MoodUnspecified {
			byMood[mood]++
		}
		result = append(result, c)
	}

	// rejected is already in rank order.
	for i := 0; len(result) < k && i < len(rejected); i++ {
		result = append(result, rejected[i])
	}
	return result
}

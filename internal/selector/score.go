// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package selector

import (
	"strings"

	"github.com/tomtom215/wanderlens/internal/models"
)

// Candidate is a scored asset. Order is its discovery position and breaks
// score ties.
type Candidate struct {
	Asset models.MediaAsset `json:"asset"`
	Score int               `json:"score"`
	Order int               `json:"-"`
}

// scoreContext is the per-destination input to scoring.
type scoreContext struct {
	keywords   []string
	highlights []string
	interests  []string
	mood       models.Mood
}

func newScoreContext(keywords, highlights []string, criteria *models.SelectionCriteria) scoreContext {
	interests := make([]string, 0, len(criteria.Interests)+1)
	for _, in := range criteria.Interests {
		if in = strings.ToLower(strings.TrimSpace(in)); in != "" {
			interests = append(interests, in)
		}
	}
	if s := criteria.Style.String(); s != "" {
		interests = append(interests, s)
	}
	return scoreContext{
		keywords:   keywords,
		highlights: highlights,
		interests:  interests,
		mood:       criteria.Mood,
	}
}

// score returns quality plus every applicable bonus.
func (s *Selector) score(a *models.MediaAsset, sc *scoreContext) int {
	total := s.memo.Score(a)
	desc := strings.ToLower(a.Description)

	total += s.cfg.KeywordBonus * countMatches(a, desc, sc.keywords)
	if sc.mood != models.MoodUnspecified && a.Metadata.Mood == sc.mood {
		total += s.cfg.MoodBonus
	}
	total += s.cfg.HighlightBonus * countMatches(a, desc, sc.highlights)
	total += s.cfg.InterestBonus * countMatches(a, desc, sc.interests)
	return total
}

// countMatches counts terms found as a tag or inside the lowercased
// description. Each term counts once.
func countMatches(a *models.MediaAsset, desc string, terms []string) int {
	n := 0
	for _, term := range terms {
		if a.HasTag(term) || (desc != "" && strings.Contains(desc, term)) {
			n++
		}
	}
	return n
}

// admissible reports whether a passes the caller's filters. Mood, season
// and time of day only disqualify when both sides set them and disagree.
func admissible(a *models.MediaAsset, c *models.SelectionCriteria) bool {
	if c.Excludes(a.Kind) {
		return false
	}
	m := a.Metadata
	if c.Mood != models.MoodUnspecified && m.Mood != models.MoodUnspecified && c.Mood != m.Mood {
		return false
	}
	if c.Season != models.SeasonUnspecified && m.Season != models.SeasonUnspecified && c.Season != m.Season {
		return false
	}
	if c.TimeOfDay != models.TimeUnspecified && m.TimeOfDay != models.TimeUnspecified && c.TimeOfDay != m.TimeOfDay {
		return false
	}
	return true
}

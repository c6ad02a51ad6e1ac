// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package selector

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderlens/internal/catalog"
	"github.com/tomtom215/wanderlens/internal/config"
	"github.com/tomtom215/wanderlens/internal/metrics"
	"github.com/tomtom215/wanderlens/internal/models"
	"github.com/tomtom215/wanderlens/internal/provider"
)

// Config holds the selector tunables.
type Config struct {
	// ProviderMaxResults is the minimum number of results requested from
	// providers when the catalog falls short.
	ProviderMaxResults int

	// DiversityCap is how many accepted assets may share one source or one
	// mood before diversification rejects the next.
	DiversityCap int

	KeywordBonus   int
	MoodBonus      int
	HighlightBonus int
	InterestBonus  int

	// ScoreMemoCapacity and ScoreMemoTTL bound the quality score memo.
	// Zero takes the models defaults.
	ScoreMemoCapacity int
	ScoreMemoTTL      time.Duration
}

// DefaultConfig returns the production tunables.
func DefaultConfig() Config {
	return Config{
		ProviderMaxResults: 10,
		DiversityCap:       2,
		KeywordBonus:       5,
		MoodBonus:          15,
		HighlightBonus:     8,
		InterestBonus:      3,
	}
}

// ConfigFrom converts the loaded configuration section.
func ConfigFrom(c config.SelectorConfig) Config {
	return Config{
		ProviderMaxResults: c.ProviderMaxResults,
		DiversityCap:       c.DiversityCap,
		KeywordBonus:       c.KeywordBonus,
		MoodBonus:          c.MoodBonus,
		HighlightBonus:     c.HighlightBonus,
		InterestBonus:      c.InterestBonus,
	}
}

// Searcher is the provider surface the selector consumes. provider.Chain
// satisfies it.
type Searcher interface {
	provider.Provider
	provider.VideoSearcher
}

// Selector ranks and diversifies destination media.
type Selector struct {
	catalog   *catalog.Catalog
	providers Searcher
	cfg       Config
	memo      *models.ScoreMemo
	logger    zerolog.Logger
}

// New creates a Selector. providers may be nil, in which case only the
// catalog is consulted.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cat *catalog.Catalog, providers Searcher, cfg Config, logger zerolog.Logger) *Selector {
	if cfg.DiversityCap <= 0 {
		cfg.DiversityCap = DefaultConfig().DiversityCap
	}
	if cfg.ProviderMaxResults <= 0 {
		cfg.ProviderMaxResults = DefaultConfig().ProviderMaxResults
	}
	return &Selector{
		catalog:   cat,
		providers: providers,
		cfg:       cfg,
		memo:      models.NewScoreMemo(cfg.ScoreMemoCapacity, cfg.ScoreMemoTTL),
		logger:    logger.With().Str("component", "selector").Logger(),
	}
}

// Select returns up to limit assets for destination, best first.
func (s *Selector) Select(ctx context.Context, destination string, criteria models.SelectionCriteria, limit int) []models.MediaAsset {
	ranked := s.SelectScored(ctx, destination, criteria, limit)
	if len(ranked) == 0 {
		return nil
	}
	out := make([]models.MediaAsset, len(ranked))
	for i := range ranked {
		out[i] = ranked[i].Asset
	}
	return out
}

// SelectScored is Select with the total score of each asset. An unknown
// destination with no provider results, or limit <= 0, yields an empty
// result; provider failures are absorbed.
func (s *Selector) SelectScored(ctx context.Context, destination string, criteria models.SelectionCriteria, limit int) []Candidate {
	if limit <= 0 {
		return nil
	}
	start := time.Now()
	code := strings.ToUpper(strings.TrimSpace(destination))
	logger := s.logger.With().Str("destination", code).Int("limit", limit).Logger()

	gathered := s.gather(ctx, code, &criteria, limit)

	sc := newScoreContext(s.catalog.Keywords(code), s.catalog.Highlights(code), &criteria)
	candidates := make([]Candidate, 0, len(gathered))
	for i := range gathered {
		a := &gathered[i]
		if !admissible(a, &criteria) {
			continue
		}
		candidates = append(candidates, Candidate{Asset: *a, Score: s.score(a, &sc), Order: i})
	}

	rank(candidates)
	out := diversify(candidates, limit, s.cfg.DiversityCap)

	metrics.RecordSelection(time.Since(start), len(out))
	logger.Debug().
		Int("gathered", len(gathered)).
		Int("admissible", len(candidates)).
		Int("returned", len(out)).
		Msg("selection complete")
	return out
}

// gather collects catalog assets and, when those of a wanted kind fall
// short of limit, provider results. Duplicate IDs keep their first occurrence.
func (s *Selector) gather(ctx context.Context, code string, criteria *models.SelectionCriteria, limit int) []models.MediaAsset {
	assets := s.catalog.Lookup(code)
	usable := countUsable(assets, criteria)
	if usable >= limit || s.providers == nil || ctx.Err() != nil {
		return assets
	}

	seen := make(map[string]struct{}, len(assets))
	for i := range assets {
		seen[assets[i].ID] = struct{}{}
	}
	add := func(found []models.MediaAsset) {
		for i := range found {
			if _, dup := seen[found[i].ID]; dup {
				continue
			}
			seen[found[i].ID] = struct{}{}
			assets = append(assets, models.NewMediaAsset(found[i]))
			if !criteria.Excludes(found[i].Kind) {
				usable++
			}
		}
	}

	query := s.query(code, criteria)
	want := max(limit-usable, s.cfg.ProviderMaxResults)
	if !criteria.Excludes(models.KindPhoto) {
		found, err := s.providers.Search(ctx, query, provider.OrientationPortrait, want)
		if err != nil {
			s.logger.Warn().Err(err).Str("query", query).Msg("provider photo search failed")
		}
		add(found)
	}
	if !criteria.Excludes(models.KindVideo) && usable < limit {
		found, err := s.providers.SearchVideos(ctx, query, provider.OrientationPortrait, want)
		if err != nil {
			s.logger.Warn().Err(err).Str("query", query).Msg("provider video search failed")
		}
		add(found)
	}
	return assets
}

// countUsable counts the assets whose kind the criteria do not exclude.
func countUsable(assets []models.MediaAsset, criteria *models.SelectionCriteria) int {
	n := 0
	for i := range assets {
		if !criteria.Excludes(assets[i].Kind) {
			n++
		}
	}
	return n
}

// query builds the provider search text: the destination's city, or the
// code itself when it is not curated, followed by the requested mood.
func (s *Selector) query(code string, criteria *models.SelectionCriteria) string {
	terms := make([]string, 0, 2)
	if d, ok := s.catalog.Destination(code); ok && d.City != "" {
		terms = append(terms, d.City)
	} else {
		terms = append(terms, code)
	}
	if m := criteria.Mood.String(); m != "" {
		terms = append(terms, m)
	}
	return strings.Join(terms, " ")
}

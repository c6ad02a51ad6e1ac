// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

// Package engine composes the catalog, selector, asset cache and stream
// optimizer into the operations the application calls.
package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/wanderlens/internal/cache"
	"github.com/tomtom215/wanderlens/internal/catalog"
	"github.com/tomtom215/wanderlens/internal/models"
	"github.com/tomtom215/wanderlens/internal/selector"
	"github.com/tomtom215/wanderlens/internal/stream"
)

// Config configures an Engine.
type Config struct {
	// PhotoTier is the cache tier photos are resolved at.
	PhotoTier cache.Tier

	// MaxLimit caps the number of results per selection.
	MaxLimit int

	// ResolveConcurrency bounds parallel resolution within one selection.
	ResolveConcurrency int
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		PhotoTier:          cache.TierMedium,
		MaxLimit:           50,
		ResolveConcurrency: 4,
	}
}

// ResolvedMedia is a selected asset with its fetchable references.
type ResolvedMedia struct {
	Asset models.MediaAsset `json:"asset"`
	Score int               `json:"score"`

	// URL is the resolved photo URL, or the video rendition URL. It is
	// empty for a thumbnail-only video.
	URL string `json:"url,omitempty"`

	// Preview is a cheap placeholder shown while URL loads.
	Preview string `json:"preview,omitempty"`

	// Strategy records how a photo was served.
	Strategy cache.StrategyName `json:"strategy,omitempty"`

	Video *stream.Video `json:"video,omitempty"`
}

// Logo is an airline logo resolved for display.
type Logo struct {
	Airline string              `json:"airline"`
	Name    string              `json:"name"`
	Variant catalog.LogoVariant `json:"variant"`
	URL     string              `json:"url"`
	Colors  catalog.BrandColors `json:"colors"`
}

// Engine is the application facade.
type Engine struct {
	cfg      Config
	catalog  *catalog.Catalog
	selector *selector.Selector
	cache    *cache.AssetCache
	stream   *stream.Optimizer
	logger   zerolog.Logger
}

// New creates an Engine over already constructed components.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, cat *catalog.Catalog, sel *selector.Selector, c *cache.AssetCache, opt *stream.Optimizer, logger zerolog.Logger) *Engine {
	def := DefaultConfig()
	if !cfg.PhotoTier.Valid() {
		cfg.PhotoTier = def.PhotoTier
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.ResolveConcurrency <= 0 {
		cfg.ResolveConcurrency = def.ResolveConcurrency
	}
	return &Engine{
		cfg:      cfg,
		catalog:  cat,
		selector: sel,
		cache:    c,
		stream:   opt,
		logger:   logger.With().Str("component", "engine").Logger(),
	}
}

// SelectMedia selects up to limit assets for destination and resolves
// each one: photos through the asset cache, videos through the stream
// optimizer. Videos are only considered when includeVideos is set. An
// unknown destination yields an empty result. The only error is
// ErrInvalidInput for an empty destination.
func (e *Engine) SelectMedia(ctx context.Context, destination string, criteria models.SelectionCriteria, limit int, includeVideos bool) ([]ResolvedMedia, error) {
	code := strings.ToUpper(strings.TrimSpace(destination))
	if code == "" {
		return nil, fmt.Errorf("%w: empty destination", models.ErrInvalidInput)
	}
	if limit <= 0 {
		return nil, nil
	}
	limit = min(limit, e.cfg.MaxLimit)
	if !includeVideos && !criteria.Excludes(models.KindVideo) {
		criteria.ExcludeKinds = append(slices.Clone(criteria.ExcludeKinds), models.KindVideo)
	}

	start := time.Now()
	logger := e.logger.With().
		Str("selection_id", uuid.NewString()).
		Str("destination", code).
		Logger()

	ranked := e.selector.SelectScored(ctx, code, criteria, limit)
	resolved := make([]ResolvedMedia, len(ranked))
	usable := make([]bool, len(ranked))

	// An asset whose reference cannot be resolved is dropped; the rest of
	// the selection is unaffected.
	var g errgroup.Group
	g.SetLimit(e.cfg.ResolveConcurrency)
	for i := range ranked {
		g.Go(func() error {
			rm, err := e.resolve(ctx, &ranked[i])
			if err != nil {
				logger.Warn().Err(err).Str("asset", ranked[i].Asset.ID).Msg("dropping unresolvable asset")
				return nil
			}
			resolved[i], usable[i] = rm, true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]ResolvedMedia, 0, len(resolved))
	for i := range resolved {
		if usable[i] {
			out = append(out, resolved[i])
		}
	}

	logger.Debug().
		Int("ranked", len(ranked)).
		Int("selected", len(out)).
		Dur("elapsed", time.Since(start)).
		Msg("media selected")
	return out, nil
}

func (e *Engine) resolve(ctx context.Context, c *selector.Candidate) (ResolvedMedia, error) {
	rm := ResolvedMedia{Asset: c.Asset, Score: c.Score}

	if c.Asset.Kind == models.KindVideo {
		v, err := e.stream.GetOptimizedVideo(ctx, stream.Request{URL: c.Asset.SourceURL, Thumbnail: c.Asset.PreviewURL})
		if err != nil {
			return ResolvedMedia{}, fmt.Errorf("resolve video %s: %w", c.Asset.ID, err)
		}
		rm.URL = v.URL
		rm.Preview = v.Thumbnail
		rm.Video = &v
		return rm, nil
	}

	res, err := e.cache.GetOptimized(ctx, c.Asset.SourceURL, e.cfg.PhotoTier)
	if err != nil {
		return ResolvedMedia{}, fmt.Errorf("resolve photo %s: %w", c.Asset.ID, err)
	}
	rm.URL = res.URL
	rm.Strategy = res.Strategy
	rm.Preview = c.Asset.PreviewURL
	if rm.Preview == "" {
		rm.Preview = e.cache.ProgressiveURLs(c.Asset.SourceURL).Preview
	}
	return rm, nil
}

// AirlineLogo returns the logo of variant for an airline, falling back to
// the primary logo when the airline has no such variant. found is false
// for an unknown airline. An unknown variant name is ErrInvalidInput.
func (e *Engine) AirlineLogo(ctx context.Context, code, variant string) (logo Logo, found bool, err error) {
	v, err := catalog.ParseLogoVariant(variant)
	if err != nil {
		return Logo{}, false, err
	}
	brand, ok := e.catalog.AirlineBranding(code)
	if !ok {
		return Logo{}, false, nil
	}

	raw, served := brand.Logo(v)
	res, err := e.cache.GetOptimized(ctx, raw, cache.TierHigh)
	if err != nil {
		return Logo{}, false, fmt.Errorf("resolve logo %s: %w", brand.Code, err)
	}
	return Logo{
		Airline: brand.Code,
		Name:    brand.Name,
		Variant: served,
		URL:     res.URL,
		Colors:  brand.Colors,
	}, true, nil
}

// PreloadForUpcoming warms the next destinations without blocking: photo
// and video thumbnail URLs at low tier in the asset cache, and video
// renditions in the stream optimizer. Unknown destinations are skipped.
func (e *Engine) PreloadForUpcoming(ctx context.Context, destinations []string) error {
	var photos, videos []string
	for _, d := range destinations {
		assets := e.catalog.Lookup(d)
		if assets == nil {
			if strings.TrimSpace(d) != "" {
				e.logger.Debug().Str("destination", d).Msg("no curated assets to preload")
			}
			continue
		}
		for i := range assets {
			a := &assets[i]
			if a.Kind == models.KindVideo {
				videos = append(videos, a.SourceURL)
				if a.PreviewURL != "" {
					photos = append(photos, a.PreviewURL)
				}
				continue
			}
			photos = append(photos, a.SourceURL)
		}
	}

	if err := e.cache.Preload(ctx, photos, models.PriorityLow); err != nil {
		return err
	}
	e.stream.PreloadVideos(ctx, videos, models.PriorityLow)

	e.logger.Debug().
		Strs("destinations", destinations).
		Int("photos", len(photos)).
		Int("videos", len(videos)).
		Msg("upcoming destinations preloading")
	return nil
}

// CacheStats returns asset cache usage.
func (e *Engine) CacheStats() cache.Stats { return e.cache.Stats() }

// Evict runs an eviction sweep on the asset cache.
func (e *Engine) Evict(force bool) cache.EvictionReport { return e.cache.Evict(force) }

// BudgetStatus returns the video data usage budget.
func (e *Engine) BudgetStatus() stream.BudgetStatus { return e.stream.Budget().Status() }

// ReportVisible records the videos currently on screen for the next
// inactive-metadata sweep.
func (e *Engine) ReportVisible(urls []string) { e.stream.ReportVisible(urls) }

// Destinations lists the curated destination codes.
func (e *Engine) Destinations() []string { return e.catalog.Destinations() }

// Wait blocks until background preloads have finished.
func (e *Engine) Wait() {
	e.cache.Wait()
	e.stream.Wait()
}

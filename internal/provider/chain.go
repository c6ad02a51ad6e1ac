// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package provider

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderlens/internal/config"
	"github.com/tomtom215/wanderlens/internal/models"
)

// Chain queries providers in a fixed priority order until enough results
// are collected. A failing provider contributes nothing; Chain itself
// never returns an error.
type Chain struct {
	providers []Provider
	logger    zerolog.Logger
}

// NewChain creates a Chain over providers in the given order.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewChain(logger zerolog.Logger, providers ...Provider) *Chain {
	return &Chain{
		providers: providers,
		logger:    logger.With().Str("component", "provider_chain").Logger(),
	}
}

// FromConfig builds a Chain of the enabled providers in cfg.Providers.Order,
// each wrapped in a Guard.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func FromConfig(cfg *config.Config, logger zerolog.Logger) *Chain {
	guard := GuardConfig{
		RateLimit:   cfg.Providers.RateLimit,
		RateBurst:   cfg.Providers.RateBurst,
		MaxFailures: cfg.Providers.Breaker.MaxFailures,
		Interval:    cfg.Providers.Breaker.Interval,
		OpenTimeout: cfg.Providers.Breaker.OpenTimeout,
	}

	var providers []Provider
	for _, name := range cfg.Providers.Order {
		var p Provider
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "unsplash":
			if !cfg.Providers.Unsplash.Enabled {
				continue
			}
			p = NewUnsplash(UnsplashConfig{
				BaseURL:   cfg.Providers.Unsplash.BaseURL,
				AccessKey: cfg.Providers.Unsplash.APIKey,
				UserAgent: cfg.Fetch.UserAgent,
				Timeout:   cfg.Fetch.Timeout,
			})
		case "pexels":
			if !cfg.Providers.Pexels.Enabled {
				continue
			}
			p = NewPexels(PexelsConfig{
				BaseURL:   cfg.Providers.Pexels.BaseURL,
				APIKey:    cfg.Providers.Pexels.APIKey,
				UserAgent: cfg.Fetch.UserAgent,
				Timeout:   cfg.Fetch.Timeout,
			})
		default:
			logger.Warn().Str("provider", name).Msg("ignoring unknown content provider")
			continue
		}
		providers = append(providers, NewGuard(p, guard, logger))
	}
	return NewChain(logger, providers...)
}

// Name implements Provider.
func (c *Chain) Name() string { return "chain" }

// Len returns the number of chained providers.
func (c *Chain) Len() int { return len(c.providers) }

// Names returns provider names in priority order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.providers))
	for i, p := range c.providers {
		names[i] = p.Name()
	}
	return names
}

// Search implements Provider.
func (c *Chain) Search(ctx context.Context, query string, orientation Orientation, maxResults int) ([]models.MediaAsset, error) {
	return c.collect(ctx, maxResults, func(p Provider, want int) ([]models.MediaAsset, error) {
		return p.Search(ctx, query, orientation, want)
	}), nil
}

// SearchVideos implements VideoSearcher over the providers that support it.
func (c *Chain) SearchVideos(ctx context.Context, query string, orientation Orientation, maxResults int) ([]models.MediaAsset, error) {
	return c.collect(ctx, maxResults, func(p Provider, want int) ([]models.MediaAsset, error) {
		vs, ok := p.(VideoSearcher)
		if !ok {
			return nil, nil
		}
		return vs.SearchVideos(ctx, query, orientation, want)
	}), nil
}

func (c *Chain) collect(ctx context.Context, maxResults int, search func(Provider, int) ([]models.MediaAsset, error)) []models.MediaAsset {
	if maxResults <= 0 {
		return nil
	}
	var out []models.MediaAsset
	seen := make(map[string]struct{})
	for _, p := range c.providers {
		if len(out) >= maxResults || ctx.Err() != nil {
			break
		}
		assets, err := search(p, maxResults-len(out))
		if err != nil {
			c.logger.Warn().Err(err).Str("provider", p.Name()).Msg("provider search failed, treating as no results")
			continue
		}
		for i := range assets {
			if _, dup := seen[assets[i].ID]; dup {
				continue
			}
			seen[assets[i].ID] = struct{}{}
			out = append(out, assets[i])
			if len(out) == maxResults {
				break
			}
		}
	}
	return out
}

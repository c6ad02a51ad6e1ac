// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/wanderlens/internal/metrics"
	"github.com/tomtom215/wanderlens/internal/models"
)

// ErrRateLimited is returned when the local request budget for a provider
// is exhausted.
var ErrRateLimited = fmt.Errorf("%w: provider rate limit reached", models.ErrFetchFailed)

// GuardConfig configures a Guard.
type GuardConfig struct {
	// RateLimit is requests per second; zero disables limiting.
	RateLimit float64
	RateBurst int

	// MaxFailures consecutive failures open the breaker.
	MaxFailures uint32

	// Interval resets failure counts while closed.
	Interval time.Duration

	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
}

// Guard wraps a Provider with a token bucket and a circuit breaker.
//
// The breaker uses wall-clock time for its interval and timeout. Tests
// drive it through consecutive failures rather than by mocking time.
type Guard struct {
	inner   Provider
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]models.MediaAsset]
	logger  zerolog.Logger
}

// NewGuard wraps p.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewGuard(p Provider, cfg GuardConfig, logger zerolog.Logger) *Guard {
	name := "provider-" + p.Name()
	g := &Guard{
		inner:  p,
		logger: logger.With().Str("component", "provider").Str("provider", p.Name()).Logger(),
	}
	if cfg.RateLimit > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	g.cb = gobreaker.NewCircuitBreaker[[]models.MediaAsset](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn().Str("from", stateName(from)).Str("to", stateName(to)).Msg("provider circuit breaker state change")
			metrics.RecordBreakerTransition(name, stateName(from), stateName(to), stateValue(to))
		},
	})
	return g
}

// Name implements Provider.
func (g *Guard) Name() string { return g.inner.Name() }

// State returns the breaker state as "closed", "half-open" or "open".
func (g *Guard) State() string { return stateName(g.cb.State()) }

// Search implements Provider.
func (g *Guard) Search(ctx context.Context, query string, orientation Orientation, maxResults int) ([]models.MediaAsset, error) {
	return g.execute(func() ([]models.MediaAsset, error) {
		return g.inner.Search(ctx, query, orientation, maxResults)
	})
}

// SearchVideos implements VideoSearcher. Providers without video search
// return no results.
func (g *Guard) SearchVideos(ctx context.Context, query string, orientation Orientation, maxResults int) ([]models.MediaAsset, error) {
	vs, ok := g.inner.(VideoSearcher)
	if !ok {
		return nil, nil
	}
	return g.execute(func() ([]models.MediaAsset, error) {
		return vs.SearchVideos(ctx, query, orientation, maxResults)
	})
}

func (g *Guard) execute(fn func() ([]models.MediaAsset, error)) ([]models.MediaAsset, error) {
	provider := g.inner.Name()
	if g.limiter != nil && !g.limiter.Allow() {
		metrics.ProviderRequests.WithLabelValues(provider, "rate_limited").Inc()
		return nil, ErrRateLimited
	}

	assets, err := g.cb.Execute(fn)
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.ProviderRequests.WithLabelValues(provider, "rejected").Inc()
		return nil, fmt.Errorf("%w: %s: %w", models.ErrFetchFailed, provider, err)
	case err != nil:
		metrics.ProviderRequests.WithLabelValues(provider, "error").Inc()
		return nil, err
	case len(assets) == 0:
		metrics.ProviderRequests.WithLabelValues(provider, "empty").Inc()
	default:
		metrics.ProviderRequests.WithLabelValues(provider, "ok").Inc()
	}
	return assets, nil
}

func stateName(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

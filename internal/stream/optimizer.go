// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package stream

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/tomtom215/wanderlens/internal/cache"
	"github.com/tomtom215/wanderlens/internal/config"
	"github.com/tomtom215/wanderlens/internal/fetch"
	"github.com/tomtom215/wanderlens/internal/metrics"
	"github.com/tomtom215/wanderlens/internal/models"
)

// State is the lifecycle position of one video asset.
type State int

const (
	StateUnresolved State = iota
	StateResolved
	StateServing
	StateDegraded
	StateThumbnailOnly
)

var stateNames = map[State]string{
	StateUnresolved:    "unresolved",
	StateResolved:      "resolved",
	StateServing:       "serving",
	StateDegraded:      "degraded",
	StateThumbnailOnly: "thumbnail_only",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Config configures an Optimizer.
type Config struct {
	BudgetMB     float64
	BudgetPeriod time.Duration

	HighPriorityConcurrency int
	LowPriorityConcurrency  int

	// ClipSeconds is the assumed clip length used for size estimates.
	ClipSeconds int

	// FallbackThumbnail is served when a video has no usable poster.
	FallbackThumbnail string
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		BudgetMB:                500,
		BudgetPeriod:            24 * time.Hour,
		HighPriorityConcurrency: 2,
		LowPriorityConcurrency:  1,
		ClipSeconds:             15,
		FallbackThumbnail:       "asset://fallback/video-poster.jpg",
	}
}

// ConfigFrom converts the loaded configuration section.
func ConfigFrom(c config.StreamConfig) Config {
	cfg := DefaultConfig()
	cfg.BudgetMB = c.BudgetMB
	cfg.BudgetPeriod = c.BudgetPeriod
	cfg.HighPriorityConcurrency = c.HighPriorityConcurrency
	cfg.LowPriorityConcurrency = c.LowPriorityConcurrency
	cfg.ClipSeconds = c.ClipSeconds
	return cfg
}

// ThumbnailCache resolves poster images. *cache.AssetCache satisfies it.
type ThumbnailCache interface {
	GetOptimized(ctx context.Context, url string, tier cache.Tier) (cache.Result, error)
}

// Request asks for the best rendition of one video.
type Request struct {
	URL string

	// Thumbnail is the poster image. Derived for Pexels when empty.
	Thumbnail string

	// Preferred overrides the automatic starting resolution.
	Preferred *Resolution
}

// Video is the outcome of a rendition selection. URL is empty when only
// the thumbnail is served.
type Video struct {
	URL             string      `json:"url,omitempty"`
	Thumbnail       string      `json:"thumbnail"`
	Resolution      Resolution  `json:"resolution,omitempty"`
	EstimatedSizeMB float64     `json:"estimated_size_mb,omitempty"`
	State           State       `json:"state"`
	Renditions      []Rendition `json:"renditions,omitempty"`
}

// ThumbnailOnly reports whether no rendition was served.
func (v *Video) ThumbnailOnly() bool { return v.State == StateThumbnailOnly }

type assetState struct {
	renditions []Rendition
	state      State
	served     Resolution
	lastUsed   time.Time
}

// Optimizer picks video renditions under a data usage budget.
type Optimizer struct {
	cfg     Config
	budget  *Budget
	thumbs  ThumbnailCache
	fetcher fetch.Fetcher
	logger  zerolog.Logger
	now     func() time.Time

	mu      sync.Mutex
	assets  map[string]*assetState
	visible []string

	highSem    *semaphore.Weighted
	lowSem     *semaphore.Weighted
	background sync.WaitGroup
}

// Option customizes an Optimizer.
type Option func(*Optimizer)

// WithClock replaces the wall clock used for the budget period.
func WithClock(now func() time.Time) Option {
	return func(o *Optimizer) { o.now = now }
}

// New creates an Optimizer. thumbs resolves poster images and fetcher
// verifies preloads; either may be nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, thumbs ThumbnailCache, fetcher fetch.Fetcher, logger zerolog.Logger, opts ...Option) *Optimizer {
	def := DefaultConfig()
	if cfg.BudgetPeriod <= 0 {
		cfg.BudgetPeriod = def.BudgetPeriod
	}
	if cfg.HighPriorityConcurrency <= 0 {
		cfg.HighPriorityConcurrency = def.HighPriorityConcurrency
	}
	if cfg.LowPriorityConcurrency <= 0 {
		cfg.LowPriorityConcurrency = def.LowPriorityConcurrency
	}
	if cfg.ClipSeconds <= 0 {
		cfg.ClipSeconds = def.ClipSeconds
	}
	if cfg.FallbackThumbnail == "" {
		cfg.FallbackThumbnail = def.FallbackThumbnail
	}

	o := &Optimizer{
		cfg:     cfg,
		thumbs:  thumbs,
		fetcher: fetcher,
		logger:  logger.With().Str("component", "stream_optimizer").Logger(),
		now:     time.Now,
		assets:  make(map[string]*assetState),
		highSem: semaphore.NewWeighted(int64(cfg.HighPriorityConcurrency)),
		lowSem:  semaphore.NewWeighted(int64(cfg.LowPriorityConcurrency)),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.budget = NewBudget(cfg.BudgetMB, cfg.BudgetPeriod, o.now)
	return o
}

// Budget returns the shared data usage budget.
func (o *Optimizer) Budget() *Budget { return o.budget }

// GetOptimizedVideo selects a rendition for req.URL. It starts at the
// preferred resolution, or 720p and below when none is given, and steps
// down one rung at a time while the rendition would exceed the remaining
// budget. When nothing fits only the thumbnail is served and nothing is
// counted. The only error is ErrInvalidInput.
func (o *Optimizer) GetOptimizedVideo(ctx context.Context, req Request) (Video, error) {
	raw := strings.TrimSpace(req.URL)
	if raw == "" {
		return Video{}, fmt.Errorf("%w: empty video url", models.ErrInvalidInput)
	}
	if req.Preferred != nil && !req.Preferred.Valid() {
		return Video{}, fmt.Errorf("%w: resolution %d", models.ErrInvalidInput, int(*req.Preferred))
	}

	renditions := o.resolve(raw)
	v := Video{
		Thumbnail:  o.thumbnail(ctx, raw, req.Thumbnail),
		State:      StateThumbnailOnly,
		Renditions: renditions,
	}

	candidates := plan(renditions, req.Preferred)
	for i, r := range candidates {
		if !o.budget.TryConsume(r.EstimatedSizeMB) {
			continue
		}
		v.URL = r.URL
		v.Resolution = r.Resolution
		v.EstimatedSizeMB = r.EstimatedSizeMB
		v.State = StateServing
		if i > 0 {
			v.State = StateDegraded
		}
		break
	}

	o.record(raw, v.State, v.Resolution)
	metrics.VideoTierSelections.WithLabelValues(v.Resolution.String(), v.State.String()).Inc()

	ev := o.logger.Debug().Str("url", raw).Str("state", v.State.String())
	if v.State == StateThumbnailOnly {
		ev = ev.Float64("remaining_mb", o.budget.Remaining())
	} else {
		ev = ev.Stringer("resolution", v.Resolution)
	}
	ev.Msg("video rendition selected")
	return v, nil
}

// State returns the lifecycle state of url.
func (o *Optimizer) State(url string) State {
	o.mu.Lock()
	defer o.mu.Unlock()
	if a, ok := o.assets[url]; ok {
		return a.state
	}
	return StateUnresolved
}

// Tracked returns how many assets have rendition metadata.
func (o *Optimizer) Tracked() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.assets)
}

// ReportVisible records the set of video URLs currently on screen.
func (o *Optimizer) ReportVisible(urls []string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visible = append(o.visible[:0], urls...)
}

// Visible returns the last reported visible set.
func (o *Optimizer) Visible() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.visible))
	copy(out, o.visible)
	return out
}

// CleanupInactive drops rendition metadata for every asset not in visible
// and returns how many were dropped.
func (o *Optimizer) CleanupInactive(visible []string) int {
	keep := make(map[string]struct{}, len(visible))
	for _, u := range visible {
		keep[strings.TrimSpace(u)] = struct{}{}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	dropped := 0
	for u := range o.assets {
		if _, ok := keep[u]; !ok {
			delete(o.assets, u)
			dropped++
		}
	}
	if dropped > 0 {
		o.logger.Debug().Int("dropped", dropped).Int("tracked", len(o.assets)).Msg("inactive video metadata dropped")
	}
	return dropped
}

// Wait blocks until background preloads have finished.
func (o *Optimizer) Wait() { o.background.Wait() }

// resolve returns the known renditions of url, deriving them on first use.
func (o *Optimizer) resolve(url string) []Rendition {
	o.mu.Lock()
	defer o.mu.Unlock()
	if a, ok := o.assets[url]; ok {
		a.lastUsed = o.now()
		return a.renditions
	}
	a := &assetState{
		renditions: Derive(url, o.cfg.ClipSeconds),
		state:      StateResolved,
		lastUsed:   o.now(),
	}
	o.assets[url] = a
	return a.renditions
}

func (o *Optimizer) record(url string, s State, r Resolution) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if a, ok := o.assets[url]; ok {
		a.state = s
		a.served = r
	}
}

// thumbnail resolves the poster through the asset cache at low tier.
func (o *Optimizer) thumbnail(ctx context.Context, videoURL, thumb string) string {
	if thumb == "" {
		thumb = pexelsThumbnail(videoURL)
	}
	if thumb == "" {
		return o.cfg.FallbackThumbnail
	}
	if o.thumbs == nil {
		return thumb
	}
	res, err := o.thumbs.GetOptimized(ctx, thumb, cache.TierLow)
	if err != nil {
		o.logger.Debug().Err(err).Str("thumbnail", thumb).Msg("unusable thumbnail reference")
		return o.cfg.FallbackThumbnail
	}
	return res.URL
}

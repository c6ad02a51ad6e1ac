// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderlens/internal/cache"
)

// Evictor runs one eviction sweep.
type Evictor interface {
	Evict(force bool) cache.EvictionReport
}

// EvictionService sweeps the asset cache on an interval.
type EvictionService struct {
	evictor  Evictor
	interval time.Duration
	logger   zerolog.Logger
}

// NewEvictionService creates the eviction service. A non-positive interval
// defaults to five minutes.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEvictionService(evictor Evictor, interval time.Duration, logger zerolog.Logger) *EvictionService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &EvictionService{
		evictor:  evictor,
		interval: interval,
		logger:   logger.With().Str("service", "cache-eviction").Logger(),
	}
}

// Serve implements suture.Service.
func (s *EvictionService) Serve(ctx context.Context) error {
	return runEvery(ctx, s.interval, s.logger, func(context.Context) error {
		s.sweep()
		return nil
	})
}

func (s *EvictionService) sweep() {
	report := s.evictor.Evict(false)
	if report.Expired == 0 && report.Pressure == 0 {
		return
	}
	s.logger.Info().
		Int("expired", report.Expired).
		Int("pressure", report.Pressure).
		Int64("freed_bytes", report.FreedBytes).
		Int64("resident_bytes", report.ResidentBytes).
		Msg("cache entries evicted")
}

// String implements fmt.Stringer.
func (s *EvictionService) String() string {
	return "cache-eviction"
}

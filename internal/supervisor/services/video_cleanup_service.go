// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// VideoCleaner drops rendition metadata for videos that are not visible.
type VideoCleaner interface {
	Visible() []string
	CleanupInactive(visible []string) int
}

// VideoCleanupService periodically removes metadata for videos outside
// the last reported visible set.
type VideoCleanupService struct {
	cleaner  VideoCleaner
	interval time.Duration
	logger   zerolog.Logger
}

// NewVideoCleanupService creates the cleanup service. A non-positive
// interval defaults to five minutes.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewVideoCleanupService(cleaner VideoCleaner, interval time.Duration, logger zerolog.Logger) *VideoCleanupService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &VideoCleanupService{
		cleaner:  cleaner,
		interval: interval,
		logger:   logger.With().Str("service", "video-cleanup").Logger(),
	}
}

// Serve implements suture.Service.
func (s *VideoCleanupService) Serve(ctx context.Context) error {
	return runEvery(ctx, s.interval, s.logger, func(context.Context) error {
		if n := s.cleaner.CleanupInactive(s.cleaner.Visible()); n > 0 {
			s.logger.Debug().Int("removed", n).Msg("inactive video metadata removed")
		}
		return nil
	})
}

// String implements fmt.Stringer.
func (s *VideoCleanupService) String() string {
	return "video-cleanup"
}

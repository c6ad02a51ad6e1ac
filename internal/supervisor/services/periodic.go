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

// runEvery calls tick every interval until ctx is canceled. Tick errors
// are logged and do not stop the loop.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func runEvery(ctx context.Context, interval time.Duration, logger zerolog.Logger, tick func(context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info().Dur("interval", interval).Msg("service running")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("service shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := tick(ctx); err != nil {
				logger.Warn().Err(err).Msg("scheduled run failed")
			}
		}
	}
}

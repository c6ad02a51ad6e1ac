// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderlens/internal/store"
)

// IndexFlusher persists the cache index to a store. It reports whether
// anything was written.
type IndexFlusher interface {
	FlushIndex(ctx context.Context, s store.IndexStore, force bool) (bool, error)
}

// finalFlushTimeout bounds the flush performed on shutdown.
const finalFlushTimeout = 5 * time.Second

// IndexFlushService writes the cache index to the index store whenever it
// has changed, and once more on shutdown.
type IndexFlushService struct {
	flusher  IndexFlusher
	store    store.IndexStore
	interval time.Duration
	logger   zerolog.Logger
}

// NewIndexFlushService creates the flush service. A non-positive interval
// defaults to one minute.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewIndexFlushService(flusher IndexFlusher, s store.IndexStore, interval time.Duration, logger zerolog.Logger) *IndexFlushService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &IndexFlushService{
		flusher:  flusher,
		store:    s,
		interval: interval,
		logger:   logger.With().Str("service", "index-flush").Logger(),
	}
}

// Serve implements suture.Service.
func (s *IndexFlushService) Serve(ctx context.Context) error {
	err := runEvery(ctx, s.interval, s.logger, func(ctx context.Context) error {
		return s.flush(ctx, false)
	})

	flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalFlushTimeout)
	defer cancel()
	if ferr := s.flush(flushCtx, true); ferr != nil {
		s.logger.Error().Err(ferr).Msg("final index flush failed")
	}
	return err
}

func (s *IndexFlushService) flush(ctx context.Context, force bool) error {
	wrote, err := s.flusher.FlushIndex(ctx, s.store, force)
	if err != nil {
		return fmt.Errorf("flush cache index: %w", err)
	}
	if wrote {
		s.logger.Debug().Bool("force", force).Msg("cache index flushed")
	}
	return nil
}

// String implements fmt.Stringer.
func (s *IndexFlushService) String() string {
	return "index-flush"
}

// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package provider

import (
	"context"
	"sync/atomic"

	"github.com/tomtom215/wanderlens/internal/models"
)

// Static is an in-memory Provider for tests. It returns Assets (photos)
// and Videos truncated to maxResults, or Err when set.
type Static struct {
	ProviderName string
	Assets       []models.MediaAsset
	Videos       []models.MediaAsset
	Err          error

	calls atomic.Int64
}

// Name implements Provider.
func (s *Static) Name() string { return s.ProviderName }

// Calls returns how many searches were made.
func (s *Static) Calls() int64 { return s.calls.Load() }

// Search implements Provider.
func (s *Static) Search(_ context.Context, _ string, _ Orientation, maxResults int) ([]models.MediaAsset, error) {
	return s.serve(s.Assets, maxResults)
}

// SearchVideos implements VideoSearcher.
func (s *Static) SearchVideos(_ context.Context, _ string, _ Orientation, maxResults int) ([]models.MediaAsset, error) {
	return s.serve(s.Videos, maxResults)
}

func (s *Static) serve(assets []models.MediaAsset, maxResults int) ([]models.MediaAsset, error) {
	s.calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	if maxResults < len(assets) {
		assets = assets[:max(maxResults, 0)]
	}
	out := make([]models.MediaAsset, len(assets))
	copy(out, assets)
	return out, nil
}

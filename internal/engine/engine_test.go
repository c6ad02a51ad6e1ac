// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderlens/internal/cache"
	"github.com/tomtom215/wanderlens/internal/catalog"
	"github.com/tomtom215/wanderlens/internal/fetch"
	"github.com/tomtom215/wanderlens/internal/models"
	"github.com/tomtom215/wanderlens/internal/provider"
	"github.com/tomtom215/wanderlens/internal/selector"
	"github.com/tomtom215/wanderlens/internal/stream"
)

type fixture struct {
	engine *Engine
	cache  *cache.AssetCache
	fetch  *fetch.Fake
}

func newFixture(t *testing.T, p selector.Searcher) *fixture {
	t.Helper()
	cat, err := catalog.New()
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	f := fetch.NewFake()
	log := zerolog.Nop()
	c := cache.New(cache.DefaultConfig(), f, log)
	sel := selector.New(cat, p, selector.DefaultConfig(), log)
	opt := stream.New(stream.DefaultConfig(), c, f, log)
	return &fixture{
		engine: New(DefaultConfig(), cat, sel, c, opt, log),
		cache:  c,
		fetch:  f,
	}
}

func TestSelectMedia_CDGRomantic(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, nil)
	got, err := fx.engine.SelectMedia(context.Background(), "cdg", models.SelectionCriteria{Mood: models.MoodRomantic}, 5, false)
	if err != nil {
		t.Fatalf("SelectMedia() error = %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	if got[0].Asset.ID != "cdg-eiffel-sunset" {
		t.Errorf("first = %s, want cdg-eiffel-sunset", got[0].Asset.ID)
	}
	for _, rm := range got {
		if rm.Strategy != cache.StrategyLocal {
			t.Errorf("%s served by %s, want local", rm.Asset.ID, rm.Strategy)
		}
		if rm.URL != rm.Asset.SourceURL {
			t.Errorf("%s url = %q, want bundled reference unchanged", rm.Asset.ID, rm.URL)
		}
		if rm.Preview == "" {
			t.Errorf("%s has no preview", rm.Asset.ID)
		}
	}
	if fx.fetch.TotalCalls() != 0 {
		t.Errorf("bundled assets triggered %d fetches", fx.fetch.TotalCalls())
	}
}

func TestSelectMedia_Videos(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, nil)
	ctx := context.Background()

	withVideo, err := fx.engine.SelectMedia(ctx, "JFK", models.SelectionCriteria{}, 4, true)
	if err != nil {
		t.Fatalf("SelectMedia() error = %v", err)
	}
	var video *ResolvedMedia
	for i := range withVideo {
		if withVideo[i].Asset.Kind == models.KindVideo {
			video = &withVideo[i]
		}
	}
	if video == nil {
		t.Fatal("expected the times square video")
	}
	if video.Video == nil || video.Video.Resolution != stream.Res720 {
		t.Errorf("video = %+v, want 720p rendition", video.Video)
	}
	if !strings.HasSuffix(video.URL, "hd_1280_720_30fps.mp4") {
		t.Errorf("video url = %q", video.URL)
	}

	photosOnly, err := fx.engine.SelectMedia(ctx, "JFK", models.SelectionCriteria{}, 4, false)
	if err != nil {
		t.Fatalf("SelectMedia() error = %v", err)
	}
	for _, rm := range photosOnly {
		if rm.Asset.Kind == models.KindVideo {
			t.Errorf("video %s returned although videos were not requested", rm.Asset.ID)
		}
		if rm.URL == "" {
			t.Errorf("%s has no url", rm.Asset.ID)
		}
	}
}

func TestSelectMedia_EdgeCases(t *testing.T) {
	t.Parallel()

	bad := &provider.Static{ProviderName: "broken", Assets: []models.MediaAsset{
		{ID: "ftp-1", SourceURL: "ftp://files.example.org/a.jpg", Metadata: models.Metadata{Source: models.ProviderSource("broken")}},
		{ID: "ok-1", SourceURL: "https://cdn.test/ok.jpg", Metadata: models.Metadata{Source: models.ProviderSource("broken")}},
	}}
	fx := newFixture(t, bad)
	ctx := context.Background()

	if _, err := fx.engine.SelectMedia(ctx, "  ", models.SelectionCriteria{}, 5, false); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("empty destination error = %v, want ErrInvalidInput", err)
	}

	got, err := fx.engine.SelectMedia(ctx, "ZZZ", models.SelectionCriteria{}, 0, false)
	if err != nil || len(got) != 0 {
		t.Errorf("limit 0 = %v, %v; want empty", got, err)
	}
	if bad.Calls() != 0 {
		t.Error("limit 0 must not reach providers")
	}

	got, err = fx.engine.SelectMedia(ctx, "ZZZ", models.SelectionCriteria{}, 5, false)
	if err != nil {
		t.Fatalf("SelectMedia() error = %v", err)
	}
	if len(got) != 1 || got[0].Asset.ID != "ok-1" {
		t.Errorf("got %d results, want only ok-1 (unresolvable asset dropped)", len(got))
	}
}

func TestAirlineLogo(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name        string
		code        string
		variant     string
		wantFound   bool
		wantVariant catalog.LogoVariant
		wantErr     error
	}{
		{"primary by default", "AF", "", true, catalog.LogoPrimary, nil},
		{"tail", "af", "tail", true, catalog.LogoTail, nil},
		{"missing variant falls back", "BA", "icon", true, catalog.LogoPrimary, nil},
		{"unknown airline", "ZZ", "primary", false, "", nil},
		{"unknown variant", "AF", "neon", false, "", models.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logo, found, err := fx.engine.AirlineLogo(ctx, tt.code, tt.variant)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AirlineLogo() error = %v", err)
			}
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if !found {
				return
			}
			if logo.Variant != tt.wantVariant || logo.URL == "" || logo.Colors.Primary == "" {
				t.Errorf("logo = %+v, want variant %s", logo, tt.wantVariant)
			}
		})
	}
}

func TestPreloadForUpcoming(t *testing.T) {
	t.Parallel()

	fx := newFixture(t, nil)
	err := fx.engine.PreloadForUpcoming(context.Background(), []string{"JFK", "XXX", ""})
	if err != nil {
		t.Fatalf("PreloadForUpcoming() error = %v", err)
	}
	fx.engine.Wait()

	for _, u := range []string{
		"https://images.unsplash.com/photo-1568515387631-8b650bbcdb90",
		"https://images.pexels.com/photos/466685/pexels-photo-466685.jpeg",
		"https://images.pexels.com/videos/2100379/free-video-2100379.jpg",
	} {
		if _, ok := fx.cache.Lookup(u, cache.TierLow); !ok {
			t.Errorf("%s not warmed at low tier", u)
		}
	}
	rendition := "https://videos.pexels.com/video-files/2100379/2100379-hd_1280_720_30fps.mp4"
	if n := fx.fetch.Calls(rendition); n != 1 {
		t.Errorf("video rendition verified %d times, want 1", n)
	}
	if fx.engine.BudgetStatus().UsedMB != 0 {
		t.Error("preloading must not consume the data budget")
	}
}

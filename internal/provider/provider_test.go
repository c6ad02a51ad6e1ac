// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderlens/internal/config"
	"github.com/tomtom215/wanderlens/internal/models"
)

const unsplashBody = `{
  "total": 2,
  "results": [
    {
      "id": "abc123",
      "width": 4000,
      "height": 6000,
      "description": null,
      "alt_description": "eiffel tower at night",
      "urls": {"raw": "https://images.unsplash.com/photo-abc123?ixid=x", "regular": "https://images.unsplash.com/photo-abc123?w=1080", "small": "https://images.unsplash.com/photo-abc123?w=400"},
      "user": {"name": "Jane Doe"},
      "tags": [{"title": "Paris"}, {"title": "night"}]
    },
    {"id": "", "urls": {"raw": "https://images.unsplash.com/broken"}}
  ]
}`

const pexelsPhotoBody = `{
  "photos": [
    {"id": 338515, "width": 3000, "height": 2000, "photographer": "Pixabay", "alt": "Seine river",
     "src": {"original": "https://images.pexels.com/photos/338515/pexels-photo-338515.jpeg", "small": "https://images.pexels.com/photos/338515/pexels-photo-338515.jpeg?h=130"}}
  ]
}`

const pexelsVideoBody = `{
  "videos": [
    {"id": 2100379, "width": 1920, "height": 1080, "duration": 14, "image": "https://images.pexels.com/videos/2100379/free-video-2100379.jpg",
     "user": {"name": "Kelly"},
     "video_files": [
       {"quality": "sd", "file_type": "video/mp4", "width": 640, "height": 360, "link": "https://videos.pexels.com/video-files/2100379/2100379-sd_640_360_30fps.mp4"},
       {"quality": "hd", "file_type": "video/mp4", "width": 1920, "height": 1080, "link": "https://videos.pexels.com/video-files/2100379/2100379-hd_1920_1080_30fps.mp4"},
       {"quality": "hls", "file_type": "application/x-mpegURL", "width": 0, "height": 0, "link": "https://player.vimeo.com/external/2100379.m3u8"}
     ]}
  ]
}`

func TestUnsplashSearch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/photos" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Client-ID key-1" {
			t.Errorf("Authorization = %q", got)
		}
		q := r.URL.Query()
		if q.Get("query") != "Paris romantic" || q.Get("per_page") != "5" || q.Get("orientation") != "portrait" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(unsplashBody))
	}))
	defer srv.Close()

	u := NewUnsplash(UnsplashConfig{BaseURL: srv.URL, AccessKey: "key-1", Timeout: time.Second})
	assets, err := u.Search(context.Background(), "Paris romantic", OrientationPortrait, 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("assets = %d, want 1 (incomplete result skipped)", len(assets))
	}
	a := assets[0]
	if a.ID != "unsplash-abc123" || a.Kind != models.KindPhoto {
		t.Errorf("asset = %+v", a)
	}
	if a.Description != "eiffel tower at night" || a.Credit != "Photo by Jane Doe on Unsplash" {
		t.Errorf("description/credit = %q / %q", a.Description, a.Credit)
	}
	if a.Metadata.Source.Provider() != "unsplash" || !a.HasTag("paris") {
		t.Errorf("source/tags = %v / %v", a.Metadata.Source, a.Tags)
	}
	if a.Dimensions == nil || !a.Dimensions.IsPortrait() || a.QualityScore == 0 {
		t.Errorf("dimensions/score = %+v / %d", a.Dimensions, a.QualityScore)
	}
}

func TestPexelsSearch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "pexels-key" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		switch r.URL.Path {
		case "/v1/search":
			_, _ = w.Write([]byte(pexelsPhotoBody))
		case "/videos/search":
			_, _ = w.Write([]byte(pexelsVideoBody))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewPexels(PexelsConfig{BaseURL: srv.URL, APIKey: "pexels-key", Timeout: time.Second})

	photos, err := p.Search(context.Background(), "Paris", OrientationAny, 10)
	if err != nil || len(photos) != 1 {
		t.Fatalf("Search = %v, %v", photos, err)
	}
	if photos[0].ID != "pexels-338515" || photos[0].Credit != "Photo by Pixabay on Pexels" {
		t.Errorf("photo = %+v", photos[0])
	}

	videos, err := p.SearchVideos(context.Background(), "Times Square", OrientationPortrait, 10)
	if err != nil || len(videos) != 1 {
		t.Fatalf("SearchVideos = %v, %v", videos, err)
	}
	v := videos[0]
	if v.Kind != models.KindVideo || v.SourceURL != "https://videos.pexels.com/video-files/2100379/2100379-hd_1920_1080_30fps.mp4" {
		t.Errorf("video = %+v, want largest mp4 as source", v)
	}
	if v.PreviewURL == "" {
		t.Error("video thumbnail missing")
	}
}

func TestAdapterNon2xxIsFetchFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewPexels(PexelsConfig{BaseURL: srv.URL}).Search(context.Background(), "x", OrientationAny, 3)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("error = %v, want StatusError 401", err)
	}
	if !errors.Is(err, models.ErrFetchFailed) {
		t.Errorf("error = %v, want ErrFetchFailed", err)
	}
}

func TestAdapterSkipsRequestWhenNothingWanted(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hits.Add(1) }))
	defer srv.Close()

	u := NewUnsplash(UnsplashConfig{BaseURL: srv.URL})
	if got, err := u.Search(context.Background(), "Paris", OrientationAny, 0); got != nil || err != nil {
		t.Errorf("Search(max=0) = %v, %v", got, err)
	}
	if got, err := u.Search(context.Background(), "  ", OrientationAny, 5); got != nil || err != nil {
		t.Errorf("Search(blank) = %v, %v", got, err)
	}
	if hits.Load() != 0 {
		t.Errorf("server hit %d times", hits.Load())
	}
}

func TestGuardOpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	inner := &Static{ProviderName: "flaky", Err: errors.New("boom")}
	g := NewGuard(inner, GuardConfig{MaxFailures: 2, OpenTimeout: time.Minute}, zerolog.Nop())

	for range 2 {
		if _, err := g.Search(context.Background(), "q", OrientationAny, 3); err == nil {
			t.Fatal("expected failure")
		}
	}
	if g.State() != "open" {
		t.Fatalf("state = %s, want open", g.State())
	}
	_, err := g.Search(context.Background(), "q", OrientationAny, 3)
	if !errors.Is(err, models.ErrFetchFailed) {
		t.Errorf("open breaker error = %v, want ErrFetchFailed", err)
	}
	if inner.Calls() != 2 {
		t.Errorf("inner calls = %d, open breaker must short-circuit", inner.Calls())
	}
}

func TestGuardRateLimit(t *testing.T) {
	t.Parallel()

	inner := &Static{ProviderName: "busy"}
	g := NewGuard(inner, GuardConfig{RateLimit: 0.001, RateBurst: 1}, zerolog.Nop())

	if _, err := g.Search(context.Background(), "q", OrientationAny, 3); err != nil {
		t.Fatalf("first search: %v", err)
	}
	if _, err := g.Search(context.Background(), "q", OrientationAny, 3); !errors.Is(err, ErrRateLimited) {
		t.Errorf("second search error = %v, want ErrRateLimited", err)
	}
	if inner.Calls() != 1 {
		t.Errorf("inner calls = %d, want 1", inner.Calls())
	}
}

func asset(id, provider string) models.MediaAsset {
	return models.NewMediaAsset(models.MediaAsset{
		ID:        id,
		Kind:      models.KindPhoto,
		SourceURL: "https://cdn.test/" + id + ".jpg",
		Metadata:  models.Metadata{Source: models.ProviderSource(provider)},
	})
}

func TestChainOrderAndFallthrough(t *testing.T) {
	t.Parallel()

	failing := &Static{ProviderName: "unsplash", Err: errors.New("timeout")}
	second := &Static{ProviderName: "pexels", Assets: []models.MediaAsset{asset("p1", "pexels"), asset("p2", "pexels")}}
	third := &Static{ProviderName: "spare", Assets: []models.MediaAsset{asset("s1", "spare"), asset("p2", "spare"), asset("s2", "spare")}}
	c := NewChain(zerolog.Nop(), failing, second, third)

	got, err := c.Search(context.Background(), "Paris", OrientationAny, 4)
	if err != nil {
		t.Fatalf("Chain.Search returned error %v", err)
	}
	ids := make([]string, len(got))
	for i, a := range got {
		ids[i] = a.ID
	}
	want := []string{"p1", "p2", "s1"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids = %v, want %v", ids, want)
			break
		}
	}
	if failing.Calls() != 1 || second.Calls() != 1 || third.Calls() != 1 {
		t.Errorf("calls = %d/%d/%d", failing.Calls(), second.Calls(), third.Calls())
	}
}

func TestChainStopsWhenSatisfied(t *testing.T) {
	t.Parallel()

	first := &Static{ProviderName: "a", Assets: []models.MediaAsset{asset("a1", "a"), asset("a2", "a")}}
	second := &Static{ProviderName: "b", Assets: []models.MediaAsset{asset("b1", "b")}}
	c := NewChain(zerolog.Nop(), first, second)

	got, _ := c.Search(context.Background(), "q", OrientationAny, 2)
	if len(got) != 2 || second.Calls() != 0 {
		t.Errorf("got %d assets, second provider called %d times", len(got), second.Calls())
	}
	if got, _ := c.Search(context.Background(), "q", OrientationAny, 0); got != nil || first.Calls() != 1 {
		t.Errorf("max=0 should not query providers: %v, calls %d", got, first.Calls())
	}
}

func TestChainVideos(t *testing.T) {
	t.Parallel()

	photoOnly := NewGuard(NewUnsplash(UnsplashConfig{BaseURL: "http://127.0.0.1:1"}), GuardConfig{}, zerolog.Nop())
	videos := &Static{ProviderName: "pexels", Videos: []models.MediaAsset{asset("v1", "pexels")}}
	c := NewChain(zerolog.Nop(), photoOnly, videos)

	got, err := c.SearchVideos(context.Background(), "q", OrientationPortrait, 5)
	if err != nil || len(got) != 1 || got[0].ID != "v1" {
		t.Errorf("SearchVideos = %v, %v", got, err)
	}
}

func TestFromConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Providers.Order = []string{"pexels", "unsplash", "flickr"}
	cfg.Providers.Unsplash.Enabled = true
	cfg.Providers.Pexels.Enabled = true
	cfg.Fetch.Timeout = time.Second

	c := FromConfig(cfg, zerolog.Nop())
	names := c.Names()
	if len(names) != 2 || names[0] != "pexels" || names[1] != "unsplash" {
		t.Errorf("names = %v, want [pexels unsplash]", names)
	}

	cfg.Providers.Pexels.Enabled = false
	if n := FromConfig(cfg, zerolog.Nop()).Len(); n != 1 {
		t.Errorf("Len = %d, want 1 with pexels disabled", n)
	}
}

func TestParseOrientation(t *testing.T) {
	t.Parallel()

	if o, err := ParseOrientation("Portrait"); err != nil || o != OrientationPortrait {
		t.Errorf("ParseOrientation(Portrait) = %v, %v", o, err)
	}
	if _, err := ParseOrientation("diagonal"); !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("ParseOrientation(diagonal) error = %v", err)
	}
}

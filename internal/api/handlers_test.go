// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderlens/internal/cache"
	"github.com/tomtom215/wanderlens/internal/catalog"
	"github.com/tomtom215/wanderlens/internal/engine"
	"github.com/tomtom215/wanderlens/internal/fetch"
	"github.com/tomtom215/wanderlens/internal/selector"
	"github.com/tomtom215/wanderlens/internal/stream"
)

type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata struct {
		RequestID string `json:"request_id"`
	} `json:"metadata"`
	Error *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

func newTestServer(t *testing.T, mw *ChiMiddlewareConfig) (http.Handler, *engine.Engine) {
	t.Helper()
	cat, err := catalog.New()
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	log := zerolog.Nop()
	f := fetch.NewFake()
	c := cache.New(cache.DefaultConfig(), f, log)
	sel := selector.New(cat, nil, selector.DefaultConfig(), log)
	opt := stream.New(stream.DefaultConfig(), c, f, log)
	eng := engine.New(engine.DefaultConfig(), cat, sel, c, opt, log)
	t.Cleanup(eng.Wait)

	if mw == nil {
		mw = DefaultChiMiddlewareConfig()
		mw.RateLimitDisabled = true
	}
	return NewRouter(NewHandler(eng, log), mw, log).Handler(), eng
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v", method, target, err)
		}
	}
	return rec, env
}

func TestMedia(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/media/cdg?mood=romantic&limit=5", "")
	if rec.Code != http.StatusOK || env.Status != "success" {
		t.Fatalf("status = %d %s", rec.Code, env.Status)
	}
	if env.Metadata.RequestID == "" || rec.Header().Get("X-Request-ID") != env.Metadata.RequestID {
		t.Error("request id not propagated into the envelope")
	}

	var got MediaResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.Destination != "CDG" || got.Count != 5 || len(got.Results) != 5 {
		t.Fatalf("got %s count %d", got.Destination, got.Count)
	}
	if got.Results[0].Asset.ID != "cdg-eiffel-sunset" {
		t.Errorf("first = %s, want cdg-eiffel-sunset", got.Results[0].Asset.ID)
	}
}

func TestMedia_UnknownDestinationIsEmpty(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/media/ZZZ", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got MediaResponse
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.Count != 0 || got.Results == nil {
		t.Errorf("got %+v, want empty non-null results", got)
	}
}

func TestMedia_BadRequests(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, nil)

	tests := []struct {
		name   string
		target string
	}{
		{"unknown mood", "/api/v1/media/CDG?mood=grumpy"},
		{"unknown season", "/api/v1/media/CDG?season=monsoon"},
		{"limit not a number", "/api/v1/media/CDG?limit=ten"},
		{"limit too large", "/api/v1/media/CDG?limit=500"},
		{"limit zero", "/api/v1/media/CDG?limit=0"},
		{"videos not a bool", "/api/v1/media/CDG?videos=maybe"},
		{"destination too long", "/api/v1/media/ABCDEFGHIJ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, env := do(t, h, http.MethodGet, tt.target, "")
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("error = %+v, want VALIDATION_ERROR", env.Error)
			}
		})
	}
}

func TestAirlineLogo(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, nil)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"known", "/api/v1/airlines/AF/logo", http.StatusOK},
		{"tail", "/api/v1/airlines/af/logo?variant=tail", http.StatusOK},
		{"monochrome", "/api/v1/airlines/BA/logo?variant=monochrome", http.StatusOK},
		{"unknown airline", "/api/v1/airlines/ZZ/logo", http.StatusNotFound},
		{"unknown variant", "/api/v1/airlines/AF/logo?variant=neon", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, _ := do(t, h, http.MethodGet, tt.target, "")
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestPreload(t *testing.T) {
	t.Parallel()
	h, eng := newTestServer(t, nil)

	rec, _ := do(t, h, http.MethodPost, "/api/v1/preload", `{"destinations":["JFK"]}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	eng.Wait()
	if eng.CacheStats().EntryCount == 0 {
		t.Error("preload did not warm the cache")
	}

	for _, body := range []string{`{"destinations":[]}`, `{"destinations":["J-K"]}`, `{"cities":["JFK"]}`, `not json`} {
		rec, env := do(t, h, http.MethodPost, "/api/v1/preload", body)
		if rec.Code != http.StatusBadRequest || env.Error == nil {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestCacheAndStreamEndpoints(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, nil)

	rec, env := do(t, h, http.MethodGet, "/api/v1/cache/stats", "")
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), "budget_bytes") {
		t.Errorf("cache stats = %d %s", rec.Code, env.Data)
	}

	rec, env = do(t, h, http.MethodPost, "/api/v1/cache/evict?force=true", "")
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), "resident_bytes") {
		t.Errorf("evict = %d %s", rec.Code, env.Data)
	}
	if rec, _ = do(t, h, http.MethodPost, "/api/v1/cache/evict?force=perhaps", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad force = %d, want 400", rec.Code)
	}

	rec, env = do(t, h, http.MethodGet, "/api/v1/stream/budget", "")
	if rec.Code != http.StatusOK || !strings.Contains(string(env.Data), "remaining_mb") {
		t.Errorf("budget = %d %s", rec.Code, env.Data)
	}

	url := "https://videos.pexels.com/video-files/1/1-hd_1920_1080_30fps.mp4"
	rec, _ = do(t, h, http.MethodPost, "/api/v1/stream/visible", `{"urls":["`+url+`"]}`)
	if rec.Code != http.StatusOK {
		t.Errorf("visible = %d", rec.Code)
	}
}

func TestRouting(t *testing.T) {
	t.Parallel()
	h, _ := newTestServer(t, nil)

	if rec, env := do(t, h, http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK || env.Status != "success" {
		t.Errorf("health = %d", rec.Code)
	}
	if rec, env := do(t, h, http.MethodGet, "/api/v1/nope", ""); rec.Code != http.StatusNotFound || env.Error.Code != "NOT_FOUND" {
		t.Errorf("unknown route = %d", rec.Code)
	}
	if rec, _ := do(t, h, http.MethodDelete, "/api/v1/cache/stats", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method = %d", rec.Code)
	}
	rec, _ := do(t, h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "wanderlens_") {
		t.Errorf("metrics = %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 2
	h, _ := newTestServer(t, mw)

	codes := make([]int, 0, 3)
	for range 3 {
		rec, _ := do(t, h, http.MethodGet, "/api/v1/destinations", "")
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
	if rec, _ := do(t, h, http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("health must not be rate limited, got %d", rec.Code)
	}
}

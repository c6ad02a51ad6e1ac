// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/wanderlens/internal/config"
)

func TestChiMiddlewareConfigFrom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		in           config.ServerConfig
		wantDisabled bool
		wantWindow   time.Duration
	}{
		{"enabled", config.ServerConfig{CORSOrigins: []string{"https://app.test"}, RateLimitReqs: 50, RateLimitWindow: 30 * time.Second}, false, 30 * time.Second},
		{"zero requests disables", config.ServerConfig{RateLimitReqs: 0}, true, time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ChiMiddlewareConfigFrom(tt.in)
			if got.RateLimitDisabled != tt.wantDisabled || got.RateLimitWindow != tt.wantWindow {
				t.Errorf("got disabled=%v window=%v", got.RateLimitDisabled, got.RateLimitWindow)
			}
			if len(got.CORSAllowedOrigins) != len(tt.in.CORSOrigins) {
				t.Errorf("origins = %v", got.CORSAllowedOrigins)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.CORSAllowedOrigins = []string{"https://app.wanderlens.test"}
	h := NewChiMiddleware(cfg).CORS()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		origin string
		want   string
	}{
		{"https://app.wanderlens.test", "https://app.wanderlens.test"},
		{"https://evil.test", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/destinations", nil)
		req.Header.Set("Origin", tt.origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %s: allow = %q, want %q", tt.origin, got, tt.want)
		}
	}
}

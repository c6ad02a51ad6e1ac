// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package fetch

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderlens/internal/models"
)

func newTestFetcher(timeout time.Duration) *HTTPFetcher {
	return NewHTTPFetcher(Config{
		Timeout:         timeout,
		UserAgent:       "wanderlens-test",
		MaxRetries:      2,
		RetryBaseDelay:  5 * time.Millisecond,
		MaxConnsPerHost: 4,
	}, zerolog.Nop())
}

func TestHTTPFetcher_DecodesBrotli(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"id":"cdg-eiffel","kind":"photo"}`)
	var encoded bytes.Buffer
	bw := brotli.NewWriter(&encoded)
	if _, err := bw.Write(payload); err != nil {
		t.Fatalf("brotli write: %v", err)
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("brotli close: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept-Encoding"); got != acceptEncoding {
			t.Errorf("Accept-Encoding = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "wanderlens-test" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Header().Set("Content-Encoding", "br")
		_, _ = w.Write(encoded.Bytes())
	}))
	defer srv.Close()

	resp, err := newTestFetcher(time.Second).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(resp.Body, payload) {
		t.Errorf("Body = %q, want %q", resp.Body, payload)
	}
	if resp.Size != int64(len(payload)) {
		t.Errorf("Size = %d, want decoded length %d", resp.Size, len(payload))
	}
}

func TestHTTPFetcher_DecodesGzip(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte("wanderlens"), 100)
	var encoded bytes.Buffer
	zw := gzip.NewWriter(&encoded)
	_, _ = zw.Write(payload)
	_ = zw.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(encoded.Bytes())
	}))
	defer srv.Close()

	resp, err := newTestFetcher(time.Second).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(resp.Body, payload) {
		t.Errorf("gzip body mismatch: got %d bytes", len(resp.Body))
	}
}

func TestHTTPFetcher_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	resp, err := newTestFetcher(time.Second).Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(resp.Body) != "ok" {
		t.Errorf("Body = %q", resp.Body)
	}
	if hits.Load() != 3 {
		t.Errorf("server hits = %d, want 3", hits.Load())
	}
}

func TestHTTPFetcher_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestFetcher(time.Second).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, models.ErrFetchFailed) {
		t.Fatalf("error = %v, want ErrFetchFailed", err)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("error = %v, want StatusError 404", err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1", hits.Load())
	}
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := newTestFetcher(50 * time.Millisecond).Fetch(context.Background(), srv.URL)
	if !errors.Is(err, models.ErrFetchFailed) {
		t.Fatalf("error = %v, want ErrFetchFailed", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want DeadlineExceeded in chain", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}

func TestHTTPFetcher_Head(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("method = %s, want HEAD", r.Method)
		}
		w.Header().Set("Content-Length", "4096")
		w.Header().Set("Content-Type", "video/mp4")
	}))
	defer srv.Close()

	resp, err := newTestFetcher(time.Second).Head(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if resp.Size != 4096 {
		t.Errorf("Size = %d, want 4096", resp.Size)
	}
	if resp.Header.Get("Content-Type") != "video/mp4" {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
}

func TestParseRetryAfter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 0},
		{"2", 2 * time.Second},
		{"600", maxRetryAfter},
		{"garbage", 0},
	}
	for _, tt := range tests {
		if got := parseRetryAfter(tt.in); got != tt.want {
			t.Errorf("parseRetryAfter(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFake(t *testing.T) {
	t.Parallel()

	f := NewFake()
	f.Route("https://cdn.test/missing.jpg", FakeRoute{Status: http.StatusNotFound})
	f.Route("https://cdn.test/big.jpg", FakeRoute{Size: 5 << 20})

	if _, err := f.Fetch(context.Background(), "https://cdn.test/missing.jpg"); !errors.Is(err, models.ErrFetchFailed) {
		t.Errorf("404 route error = %v", err)
	}
	resp, err := f.Fetch(context.Background(), "https://cdn.test/big.jpg")
	if err != nil || resp.Size != 5<<20 {
		t.Errorf("big route = %+v, %v", resp, err)
	}
	resp, err = f.Fetch(context.Background(), "https://cdn.test/any.jpg")
	if err != nil || resp.Size != 1<<10 {
		t.Errorf("default route = %+v, %v", resp, err)
	}

	f.SetFailAll(true)
	if _, err := f.Head(context.Background(), "https://cdn.test/any.jpg"); !errors.Is(err, models.ErrFetchFailed) {
		t.Errorf("FailAll error = %v", err)
	}
	if f.Calls("https://cdn.test/any.jpg") != 2 || f.TotalCalls() != 4 {
		t.Errorf("calls = %d total = %d", f.Calls("https://cdn.test/any.jpg"), f.TotalCalls())
	}
}

// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func histogramCount(t *testing.T, h interface{ Write(*dto.Metric) error }) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("Write metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordFetch(t *testing.T) {
	before := testutil.ToFloat64(FetchResults.WithLabelValues("timeout"))

	RecordFetch("images.unsplash.com", "timeout", 250*time.Millisecond)
	RecordFetch("images.unsplash.com", "timeout", 10*time.Second)

	if got := testutil.ToFloat64(FetchResults.WithLabelValues("timeout")) - before; got != 2 {
		t.Errorf("timeout results delta = %v, want 2", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/media/{destination}", "200"))

	RecordAPIRequest("GET", "/api/v1/media/{destination}", 200, 15*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/media/{destination}", "200"))
	if after-before != 1 {
		t.Errorf("api requests delta = %v, want 1", after-before)
	}
}

func TestRecordSelection(t *testing.T) {
	before := histogramCount(t, SelectionResultSize)

	RecordSelection(3*time.Millisecond, 5)

	if got := histogramCount(t, SelectionResultSize) - before; got != 1 {
		t.Errorf("selection result samples delta = %d, want 1", got)
	}
}

func TestUpdateCacheGauges(t *testing.T) {
	UpdateCacheGauges(32<<20, 32)

	if got := testutil.ToFloat64(CacheResidentBytes); got != float64(32<<20) {
		t.Errorf("CacheResidentBytes = %v", got)
	}
	if got := testutil.ToFloat64(CacheEntries); got != 32 {
		t.Errorf("CacheEntries = %v", got)
	}
}

func TestRecordBreakerTransition(t *testing.T) {
	RecordBreakerTransition("provider-pexels", "closed", "open", 2)

	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("provider-pexels")); got != 2 {
		t.Errorf("breaker state = %v, want 2", got)
	}
	if got := testutil.ToFloat64(CircuitBreakerTransitions.WithLabelValues("provider-pexels", "closed", "open")); got < 1 {
		t.Errorf("breaker transitions = %v, want >= 1", got)
	}
}

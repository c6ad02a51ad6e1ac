// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

// Package provider adapts third-party stock media search services to a
// single Search contract and chains them in a fixed priority order.
//
// Adapters translate provider payloads into models.MediaAsset. Every
// adapter is wrapped in a Guard (rate limiter plus circuit breaker) and the
// Chain treats any failure, non-2xx response or timeout as "no results".
package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/wanderlens/internal/models"
)

// Orientation hints the preferred aspect of search results.
type Orientation string

const (
	OrientationAny       Orientation = ""
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
	OrientationSquare    Orientation = "square"
)

// ParseOrientation parses an orientation hint. Empty means any.
func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case OrientationAny, OrientationLandscape, OrientationPortrait, OrientationSquare:
		return o, nil
	default:
		return "", fmt.Errorf("%w: unknown orientation %q", models.ErrInvalidInput, s)
	}
}

// Provider searches a content service for photos.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, orientation Orientation, maxResults int) ([]models.MediaAsset, error)
}

// VideoSearcher is implemented by providers that also serve video.
type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string, orientation Orientation, maxResults int) ([]models.MediaAsset, error)
}

// StatusError is a non-2xx provider response.
type StatusError struct {
	Provider   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.Provider, e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap makes StatusError match models.ErrFetchFailed.
func (e *StatusError) Unwrap() error { return models.ErrFetchFailed }

// clampResults bounds maxResults to what the provider APIs accept.
func clampResults(n int) int {
	switch {
	case n <= 0:
		return 0
	case n > 80:
		return 80
	default:
		return n
	}
}

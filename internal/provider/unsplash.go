// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package provider

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/wanderlens/internal/models"
)

// Unsplash searches the Unsplash photo API.
type Unsplash struct {
	api       apiClient
	accessKey string
}

// UnsplashConfig configures the Unsplash adapter.
type UnsplashConfig struct {
	BaseURL   string
	AccessKey string
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client
}

// NewUnsplash creates an Unsplash adapter.
func NewUnsplash(cfg UnsplashConfig) *Unsplash {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.unsplash.com"
	}
	return &Unsplash{
		api:       newAPIClient("unsplash", base, cfg.UserAgent, cfg.Timeout, cfg.Client),
		accessKey: cfg.AccessKey,
	}
}

// Name implements Provider.
func (u *Unsplash) Name() string { return "unsplash" }

type unsplashSearchResponse struct {
	Total   int             `json:"total"`
	Results []unsplashPhoto `json:"results"`
}

type unsplashPhoto struct {
	ID             string `json:"id"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	URLs           struct {
		Raw     string `json:"raw"`
		Regular string `json:"regular"`
		Small   string `json:"small"`
		Thumb   string `json:"thumb"`
	} `json:"urls"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
	Tags []struct {
		Title string `json:"title"`
	} `json:"tags"`
}

// Search implements Provider.
func (u *Unsplash) Search(ctx context.Context, query string, orientation Orientation, maxResults int) ([]models.MediaAsset, error) {
	maxResults = clampResults(maxResults)
	if maxResults == 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(maxResults))
	q.Set("content_filter", "high")
	if orientation == OrientationSquare {
		q.Set("orientation", "squarish")
	} else if orientation != OrientationAny {
		q.Set("orientation", string(orientation))
	}
	header := http.Header{}
	header.Set("Authorization", "Client-ID "+u.accessKey)
	header.Set("Accept-Version", "v1")

	var resp unsplashSearchResponse
	if err := u.api.getJSON(ctx, "/search/photos", q, header, &resp); err != nil {
		return nil, err
	}

	out := make([]models.MediaAsset, 0, len(resp.Results))
	for i := range resp.Results {
		p := &resp.Results[i]
		src := p.URLs.Raw
		if src == "" {
			src = p.URLs.Regular
		}
		if p.ID == "" || src == "" {
			continue
		}
		desc := p.Description
		if desc == "" {
			desc = p.AltDescription
		}
		tags := make([]string, 0, len(p.Tags))
		for _, t := range p.Tags {
			tags = append(tags, t.Title)
		}
		a := models.MediaAsset{
			ID:          "unsplash-" + p.ID,
			Kind:        models.KindPhoto,
			SourceURL:   src,
			PreviewURL:  p.URLs.Small,
			Description: desc,
			Tags:        tags,
			Metadata:    models.Metadata{Source: models.ProviderSource("unsplash")},
		}
		if p.User.Name != "" {
			a.Credit = "Photo by " + p.User.Name + " on Unsplash"
		}
		if p.Width > 0 && p.Height > 0 {
			a.Dimensions = &models.Dimensions{Width: p.Width, Height: p.Height}
		}
		out = append(out, models.NewMediaAsset(a))
		if len(out) == maxResults {
			break
		}
	}
	return out, nil
}

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

// Pexels searches the Pexels photo and video APIs.
type Pexels struct {
	api    apiClient
	apiKey string
}

// PexelsConfig configures the Pexels adapter.
type PexelsConfig struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
	Client    *http.Client
}

// NewPexels creates a Pexels adapter.
func NewPexels(cfg PexelsConfig) *Pexels {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.pexels.com"
	}
	return &Pexels{
		api:    newAPIClient("pexels", base, cfg.UserAgent, cfg.Timeout, cfg.Client),
		apiKey: cfg.APIKey,
	}
}

// Name implements Provider.
func (p *Pexels) Name() string { return "pexels" }

type pexelsPhotoResponse struct {
	Photos []struct {
		ID           int64  `json:"id"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		Photographer string `json:"photographer"`
		Alt          string `json:"alt"`
		Src          struct {
			Original string `json:"original"`
			Large2x  string `json:"large2x"`
			Medium   string `json:"medium"`
			Small    string `json:"small"`
		} `json:"src"`
	} `json:"photos"`
}

type pexelsVideoResponse struct {
	Videos []struct {
		ID       int64  `json:"id"`
		Width    int    `json:"width"`
		Height   int    `json:"height"`
		Duration int    `json:"duration"`
		Image    string `json:"image"`
		User     struct {
			Name string `json:"name"`
		} `json:"user"`
		VideoFiles []pexelsVideoFile `json:"video_files"`
	} `json:"videos"`
}

type pexelsVideoFile struct {
	Quality  string `json:"quality"`
	FileType string `json:"file_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Link     string `json:"link"`
}

func (p *Pexels) query(query string, orientation Orientation, maxResults int) url.Values {
	q := url.Values{}
	q.Set("query", query)
	q.Set("per_page", strconv.Itoa(maxResults))
	if orientation != OrientationAny {
		q.Set("orientation", string(orientation))
	}
	return q
}

func (p *Pexels) header() http.Header {
	h := http.Header{}
	h.Set("Authorization", p.apiKey)
	return h
}

// Search implements Provider.
func (p *Pexels) Search(ctx context.Context, query string, orientation Orientation, maxResults int) ([]models.MediaAsset, error) {
	maxResults = clampResults(maxResults)
	if maxResults == 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	var resp pexelsPhotoResponse
	if err := p.api.getJSON(ctx, "/v1/search", p.query(query, orientation, maxResults), p.header(), &resp); err != nil {
		return nil, err
	}

	out := make([]models.MediaAsset, 0, len(resp.Photos))
	for i := range resp.Photos {
		ph := &resp.Photos[i]
		if ph.ID == 0 || ph.Src.Original == "" {
			continue
		}
		a := models.MediaAsset{
			ID:          "pexels-" + strconv.FormatInt(ph.ID, 10),
			Kind:        models.KindPhoto,
			SourceURL:   ph.Src.Original,
			PreviewURL:  ph.Src.Small,
			Description: ph.Alt,
			Metadata:    models.Metadata{Source: models.ProviderSource("pexels")},
		}
		if ph.Photographer != "" {
			a.Credit = "Photo by " + ph.Photographer + " on Pexels"
		}
		if ph.Width > 0 && ph.Height > 0 {
			a.Dimensions = &models.Dimensions{Width: ph.Width, Height: ph.Height}
		}
		out = append(out, models.NewMediaAsset(a))
		if len(out) == maxResults {
			break
		}
	}
	return out, nil
}

// SearchVideos implements VideoSearcher. The source URL of each result is
// its largest MP4 file, from which renditions are derived downstream.
func (p *Pexels) SearchVideos(ctx context.Context, query string, orientation Orientation, maxResults int) ([]models.MediaAsset, error) {
	maxResults = clampResults(maxResults)
	if maxResults == 0 || strings.TrimSpace(query) == "" {
		return nil, nil
	}

	var resp pexelsVideoResponse
	if err := p.api.getJSON(ctx, "/videos/search", p.query(query, orientation, maxResults), p.header(), &resp); err != nil {
		return nil, err
	}

	out := make([]models.MediaAsset, 0, len(resp.Videos))
	for i := range resp.Videos {
		v := &resp.Videos[i]
		best := largestMP4(v.VideoFiles)
		if v.ID == 0 || best == nil {
			continue
		}
		a := models.MediaAsset{
			ID:         "pexels-video-" + strconv.FormatInt(v.ID, 10),
			Kind:       models.KindVideo,
			SourceURL:  best.Link,
			PreviewURL: v.Image,
			Metadata:   models.Metadata{Source: models.ProviderSource("pexels")},
		}
		if v.User.Name != "" {
			a.Credit = "Video by " + v.User.Name + " on Pexels"
		}
		if v.Width > 0 && v.Height > 0 {
			a.Dimensions = &models.Dimensions{Width: v.Width, Height: v.Height}
		}
		out = append(out, models.NewMediaAsset(a))
		if len(out) == maxResults {
			break
		}
	}
	return out, nil
}

func largestMP4(files []pexelsVideoFile) *pexelsVideoFile {
	var best *pexelsVideoFile
	for i := range files {
		f := &files[i]
		if f.Link == "" || (f.FileType != "" && f.FileType != "video/mp4") {
			continue
		}
		if best == nil || f.Height > best.Height {
			best = f
		}
	}
	return best
}

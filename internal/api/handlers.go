// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tomtom215/wanderlens/internal/cache"
	"github.com/tomtom215/wanderlens/internal/engine"
	"github.com/tomtom215/wanderlens/internal/logging"
	"github.com/tomtom215/wanderlens/internal/models"
	"github.com/tomtom215/wanderlens/internal/stream"
	"github.com/tomtom215/wanderlens/internal/validation"
)

// defaultLimit is used when the limit query parameter is absent.
const defaultLimit = 10

// MediaEngine is the engine surface the HTTP handlers call.
type MediaEngine interface {
	SelectMedia(ctx context.Context, destination string, criteria models.SelectionCriteria, limit int, includeVideos bool) ([]engine.ResolvedMedia, error)
	AirlineLogo(ctx context.Context, code, variant string) (engine.Logo, bool, error)
	PreloadForUpcoming(ctx context.Context, destinations []string) error
	CacheStats() cache.Stats
	Evict(force bool) cache.EvictionReport
	BudgetStatus() stream.BudgetStatus
	ReportVisible(urls []string)
	Destinations() []string
}

// Handler serves the HTTP endpoints.
type Handler struct {
	engine    MediaEngine
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandler creates a Handler over eng.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandler(eng MediaEngine, logger zerolog.Logger) *Handler {
	return &Handler{engine: eng, logger: logger, startTime: time.Now()}
}

// mediaQuery holds the validated parameters of a media request.
type mediaQuery struct {
	Destination string `json:"destination" validate:"destination"`
	Limit       int    `json:"limit" validate:"min=1,max=50"`
}

// MediaResponse is the payload of GET /api/v1/media/{destination}.
type MediaResponse struct {
	Destination string                 `json:"destination"`
	Count       int                    `json:"count"`
	Results     []engine.ResolvedMedia `json:"results"`
}

// HealthResponse is the payload of GET /api/v1/health/live.
type HealthResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// fail maps an engine error onto the envelope. Invalid input is reported
// to the client; anything else is logged and hidden.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, models.ErrInvalidInput) {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	logging.Ctx(r.Context(), h.logger).Error().
		Str("error", sanitizeLogValue(err.Error())).
		Str("path", sanitizeLogValue(r.URL.Path)).
		Msg("request failed")
	respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}

// HealthLive reports that the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, HealthResponse{Status: "ok", UptimeSeconds: time.Since(h.startTime).Seconds()})
}

// Destinations lists curated destination codes.
func (h *Handler) Destinations(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, h.engine.Destinations())
}

// Media selects and resolves media for a destination.
//
// Query parameters: mood, season, time_of_day, style, interests (comma
// separated), limit (1..50, default 10) and videos (bool, default false).
func (h *Handler) Media(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	mq := mediaQuery{
		Destination: chi.URLParam(r, "destination"),
		Limit:       defaultLimit,
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be an integer", nil)
			return
		}
		mq.Limit = n
	}
	if verr := validation.ValidateStruct(&mq); verr != nil {
		respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", verr.Error(), verr.Details())
		return
	}

	criteria, err := parseCriteria(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	videos := false
	if raw := q.Get("videos"); raw != "" {
		if videos, err = strconv.ParseBool(raw); err != nil {
			respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "videos must be a boolean", nil)
			return
		}
	}

	results, err := h.engine.SelectMedia(r.Context(), mq.Destination, criteria, mq.Limit, videos)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if results == nil {
		results = []engine.ResolvedMedia{}
	}
	respondData(w, r, MediaResponse{
		Destination: strings.ToUpper(mq.Destination),
		Count:       len(results),
		Results:     results,
	})
}

func parseCriteria(r *http.Request) (models.SelectionCriteria, error) {
	q := r.URL.Query()
	var (
		c   models.SelectionCriteria
		err error
	)
	if c.Mood, err = models.ParseMood(q.Get("mood")); err != nil {
		return c, err
	}
	if c.Season, err = models.ParseSeason(q.Get("season")); err != nil {
		return c, err
	}
	if c.TimeOfDay, err = models.ParseTimeOfDay(q.Get("time_of_day")); err != nil {
		return c, err
	}
	if c.Style, err = models.ParseTravelStyle(q.Get("style")); err != nil {
		return c, err
	}
	for _, s := range strings.Split(q.Get("interests"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			c.Interests = append(c.Interests, s)
		}
	}
	return c, nil
}

// AirlineLogo returns an airline's logo. The variant query parameter
// selects primary (default), monochrome, tail or icon.
func (h *Handler) AirlineLogo(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	logo, found, err := h.engine.AirlineLogo(r.Context(), code, r.URL.Query().Get("variant"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !found {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Unknown airline", map[string]interface{}{"code": sanitizeLogValue(code)})
		return
	}
	respondData(w, r, logo)
}

// Preload warms upcoming destinations in the background.
func (h *Handler) Preload(w http.ResponseWriter, r *http.Request) {
	var req models.PreloadRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.engine.PreloadForUpcoming(r.Context(), req.Destinations); err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusAccepted, &models.APIResponse{
		Status: "success",
		Data:   map[string]int{"destinations": len(req.Destinations)},
	})
}

// CacheStats reports asset cache usage.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, h.engine.CacheStats())
}

// CacheEvict runs an eviction sweep. force=true also trims entries that are
// within budget.
func (h *Handler) CacheEvict(w http.ResponseWriter, r *http.Request) {
	force := false
	if raw := r.URL.Query().Get("force"); raw != "" {
		var err error
		if force, err = strconv.ParseBool(raw); err != nil {
			respondError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "force must be a boolean", nil)
			return
		}
	}
	report := h.engine.Evict(force)
	logging.Ctx(r.Context(), h.logger).Info().
		Bool("force", force).
		Int("expired", report.Expired).
		Int("pressure", report.Pressure).
		Msg("manual cache eviction")
	respondData(w, r, report)
}

// StreamBudget reports the video data budget.
func (h *Handler) StreamBudget(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, h.engine.BudgetStatus())
}

// StreamVisible records the videos currently on screen.
func (h *Handler) StreamVisible(w http.ResponseWriter, r *http.Request) {
	var req models.VisibleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.engine.ReportVisible(req.URLs)
	respondData(w, r, map[string]int{"visible": len(req.URLs)})
}

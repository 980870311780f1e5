// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/logging"
	"github.com/reelswipe/reelswipe/internal/metrics"
	"github.com/reelswipe/reelswipe/internal/recommend"
)

// maxBodyBytes caps request body size; swipe and preference payloads are
// tiny, anything larger is abuse.
const maxBodyBytes = 64 << 10

// HealthCheck is a named readiness probe run by the health endpoint.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Handler holds the HTTP handlers for the recommendation service.
type Handler struct {
	engine  *recommend.Engine
	logger  zerolog.Logger
	checks  []HealthCheck
	started time.Time
}

// NewHandler creates a handler around the given engine. Health checks are
// optional component probes reported by GET /api/v1/health.
func NewHandler(engine *recommend.Engine, checks ...HealthCheck) *Handler {
	return &Handler{
		engine:  engine,
		logger:  logging.WithComponent("api"),
		checks:  checks,
		started: time.Now(),
	}
}

// RecordAction handles POST /api/v1/actions.
func (h *Handler) RecordAction(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ActionRequest
	if !h.decodeBody(rw, r, &req) {
		return
	}
	if details := validateRequest(&req); details != nil {
		metrics.RecordActionError("validation_failed")
		rw.ValidationError("Invalid action payload", details)
		return
	}

	kind, ok := recommend.ParseActionKind(req.Kind)
	if !ok {
		// Unreachable after oneof validation, kept for defense in depth.
		metrics.RecordActionError("unknown_kind")
		rw.BadRequest("Unknown action kind: " + req.Kind)
		return
	}

	action := recommend.Action{
		UserID:      req.UserID,
		CandidateID: req.CandidateID,
		Kind:        kind,
		Genres:      req.Genres,
		Language:    req.Language,
		Timestamp:   time.Now().UTC(),
	}

	if err := h.engine.RecordAction(r.Context(), action); err != nil {
		metrics.RecordActionError(errorReason(err))
		h.writeEngineError(rw, r, err)
		return
	}

	metrics.RecordAction(kind.String())
	rw.Accepted(map[string]interface{}{
		"user_id":      req.UserID,
		"candidate_id": req.CandidateID,
		"kind":         kind.String(),
	})
}

// UndoAction handles DELETE /api/v1/actions/{userID}/{candidateID}.
func (h *Handler) UndoAction(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	candidateID, err := strconv.Atoi(chi.URLParam(r, "candidateID"))
	if err != nil {
		rw.BadRequest("Invalid candidate ID")
		return
	}

	if err := h.engine.Undo(r.Context(), userID, candidateID); err != nil {
		h.writeEngineError(rw, r, err)
		return
	}

	metrics.RecordActionUndo()
	rw.NoContent()
}

// Recommendations handles GET /api/v1/recommendations/{userID}.
//
// Query parameters:
//   - limit: deck size (default and cap come from engine configuration)
//   - discovery_ratio: fraction of the deck reserved for discovery picks
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := RecommendationsRequest{
		UserID: chi.URLParam(r, "userID"),
		Limit:  getIntParam(r, "limit", 0),
	}
	if raw := r.URL.Query().Get("discovery_ratio"); raw != "" {
		ratio, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			rw.BadRequest("Invalid discovery_ratio")
			return
		}
		req.DiscoveryRatio = ratio
	}
	if details := validateRequest(&req); details != nil {
		rw.ValidationError("Invalid recommendation query", details)
		return
	}

	resp, err := h.engine.Recommend(r.Context(), recommend.Request{
		UserID:         req.UserID,
		Limit:          req.Limit,
		DiscoveryRatio: req.DiscoveryRatio,
		RequestID:      logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		h.writeEngineError(rw, r, err)
		return
	}

	h.recordServed(resp)
	rw.Success(resp)
}

// SetPreferences handles PUT /api/v1/users/{userID}/preferences.
func (h *Handler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")

	var req PreferencesRequest
	if !h.decodeBody(rw, r, &req) {
		return
	}
	if details := validateRequest(&req); details != nil {
		rw.ValidationError("Invalid preferences payload", details)
		return
	}

	if err := h.engine.SetDeclaredPreferences(userID, req.Genres, req.Languages); err != nil {
		h.writeEngineError(rw, r, err)
		return
	}

	rw.Success(map[string]interface{}{
		"user_id":   userID,
		"genres":    req.Genres,
		"languages": req.Languages,
	})
}

// Similarity handles GET /api/v1/similarity?user_a=X&user_b=Y.
// This is a diagnostic endpoint exposing the pairwise user similarity
// breakdown used by the collaborative stage.
func (h *Handler) Similarity(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	req := SimilarityRequest{
		UserA: r.URL.Query().Get("user_a"),
		UserB: r.URL.Query().Get("user_b"),
	}
	if details := validateRequest(&req); details != nil {
		rw.ValidationError("Invalid similarity query", details)
		return
	}

	rw.Success(h.engine.Similarity(req.UserA, req.UserB))
}

// Stats handles GET /api/v1/stats, exposing engine counters.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.engine.Metrics())
}

// RebuildSimilarities handles POST /api/v1/similarity/rebuild. The rebuild
// also runs on a schedule; this endpoint exists for operational use after
// bulk imports.
func (h *Handler) RebuildSimilarities(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	start := time.Now()
	h.engine.RebuildSimilarities(r.Context())

	m := h.engine.Metrics()
	metrics.RecordSimilarityRebuild(time.Since(start), m.TablePairs, uint64(m.TableVersion))

	rw.Success(map[string]interface{}{
		"table_version": m.TableVersion,
		"table_pairs":   m.TablePairs,
	})
}

// Health handles GET /api/v1/health. Liveness is implicit (the process is
// answering); component checks report readiness detail.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	type componentStatus struct {
		Name   string `json:"name"`
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	healthy := true
	components := make([]componentStatus, 0, len(h.checks))
	for _, c := range h.checks {
		status := componentStatus{Name: c.Name, Status: "ok"}
		if err := c.Check(ctx); err != nil {
			healthy = false
			status.Status = "degraded"
			status.Error = err.Error()
		}
		components = append(components, status)
	}

	body := map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"components":     components,
	}
	if !healthy {
		body["status"] = "degraded"
	}

	// Degraded components still serve recommendations from fallbacks, so
	// health reports 200 with detail rather than flapping the probe.
	rw.Success(body)
}

// decodeBody decodes a JSON request body, answering a 400 on failure.
func (h *Handler) decodeBody(rw *ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		rw.BadRequest("Invalid JSON body: " + err.Error())
		return false
	}
	return true
}

// writeEngineError maps engine sentinel errors onto HTTP statuses.
func (h *Handler) writeEngineError(rw *ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrEmptyUserID),
		errors.Is(err, recommend.ErrInvalidCandidate),
		errors.Is(err, recommend.ErrUnknownActionKind),
		errors.Is(err, recommend.ErrMalformedGenre),
		errors.Is(err, recommend.ErrMalformedLanguage):
		rw.ValidationError(err.Error(), nil)
	case errors.Is(err, recommend.ErrNoSuchAction):
		rw.NotFound("No action recorded for that candidate")
	case errors.Is(err, recommend.ErrNoCatalog):
		rw.ServiceUnavailable("Catalog is not available")
	default:
		h.logger.Error().
			Err(err).
			Str("request_id", logging.RequestIDFromContext(r.Context())).
			Msg("request failed")
		rw.InternalError("Internal error")
	}
}

// recordServed updates Prometheus counters for a served recommendation
// response.
func (h *Handler) recordServed(resp *recommend.Response) {
	mode := "blended"
	switch {
	case resp.ColdStart:
		mode = "cold_start"
	case resp.Degraded:
		mode = "degraded"
	}
	metrics.RecordRecommendation(mode, time.Duration(resp.Metadata.LatencyMS)*time.Millisecond)

	if resp.Metadata.CacheHit {
		metrics.RecordCacheHit()
	} else {
		metrics.RecordCacheMiss()
	}
}

// errorReason converts an engine error into a bounded metric label.
func errorReason(err error) string {
	switch {
	case errors.Is(err, recommend.ErrEmptyUserID):
		return "empty_user_id"
	case errors.Is(err, recommend.ErrInvalidCandidate):
		return "invalid_candidate"
	case errors.Is(err, recommend.ErrUnknownActionKind):
		return "unknown_kind"
	case errors.Is(err, recommend.ErrMalformedGenre):
		return "malformed_genre"
	case errors.Is(err, recommend.ErrMalformedLanguage):
		return "malformed_language"
	default:
		return "internal"
	}
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

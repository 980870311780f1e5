// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/recommend"
)

type stubCatalog struct {
	pool []recommend.Candidate
}

func (c *stubCatalog) Candidates(_ context.Context) ([]recommend.Candidate, error) {
	return c.pool, nil
}

func (c *stubCatalog) Candidate(_ context.Context, id int) (recommend.Candidate, bool, error) {
	for _, cand := range c.pool {
		if cand.ID == id {
			return cand, true, nil
		}
	}
	return recommend.Candidate{}, false, nil
}

func testPool() []recommend.Candidate {
	return []recommend.Candidate{
		{ID: 1, Title: "Heat", Genres: []string{"Crime", "Thriller"}, OriginalLanguage: "en", VoteAverage: 8.3, VoteCount: 7000, Popularity: 60},
		{ID: 2, Title: "Amelie", Genres: []string{"Comedy", "Romance"}, OriginalLanguage: "fr", VoteAverage: 8.0, VoteCount: 5000, Popularity: 45},
		{ID: 3, Title: "Oldboy", Genres: []string{"Thriller", "Mystery"}, OriginalLanguage: "ko", VoteAverage: 8.2, VoteCount: 6000, Popularity: 50},
		{ID: 4, Title: "Paddington", Genres: []string{"Comedy", "Family"}, OriginalLanguage: "en", VoteAverage: 7.9, VoteCount: 4000, Popularity: 40},
	}
}

// newTestServer builds the full router around a real engine so tests
// exercise routing, validation and error mapping together.
func newTestServer(t *testing.T, catalog recommend.CatalogProvider) http.Handler {
	t.Helper()

	engine, err := recommend.NewEngine(recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if catalog != nil {
		engine.SetCatalogProvider(catalog)
	}

	mw := DefaultMiddlewareConfig()
	mw.RateLimitDisabled = true
	return NewRouter(NewHandler(engine), mw).Setup()
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var envelope APIResponse
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
		}
	}
	return rec, envelope
}

func TestRecordActionAccepted(t *testing.T) {
	srv := newTestServer(t, &stubCatalog{pool: testPool()})

	rec, envelope := doJSON(t, srv, http.MethodPost, "/api/v1/actions", ActionRequest{
		UserID:      "u1",
		CandidateID: 1,
		Kind:        "like",
		Genres:      []string{"Crime", "Thriller"},
		Language:    "en",
	})

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (body %s)", rec.Code, rec.Body.String())
	}
	if !envelope.Success {
		t.Error("expected success envelope")
	}
	if envelope.Meta == nil || envelope.Meta.RequestID == "" {
		t.Error("expected request ID in meta")
	}
}

func TestRecordActionValidation(t *testing.T) {
	srv := newTestServer(t, &stubCatalog{pool: testPool()})

	tests := []struct {
		name string
		body ActionRequest
	}{
		{"missing user", ActionRequest{CandidateID: 1, Kind: "like"}},
		{"zero candidate", ActionRequest{UserID: "u1", Kind: "like"}},
		{"unknown kind", ActionRequest{UserID: "u1", CandidateID: 1, Kind: "meh"}},
		{"uppercase language", ActionRequest{UserID: "u1", CandidateID: 1, Kind: "like", Language: "EN"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, envelope := doJSON(t, srv, http.MethodPost, "/api/v1/actions", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if envelope.Success {
				t.Error("expected error envelope")
			}
			if envelope.Error == nil || envelope.Error.Code != ErrCodeValidationFailed {
				t.Errorf("error = %+v, want code %s", envelope.Error, ErrCodeValidationFailed)
			}
		})
	}
}

func TestRecordActionMalformedJSON(t *testing.T) {
	srv := newTestServer(t, &stubCatalog{pool: testPool()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestUndoAction(t *testing.T) {
	srv := newTestServer(t, &stubCatalog{pool: testPool()})

	// Undo before any action is a 404.
	rec, envelope := doJSON(t, srv, http.MethodDelete, "/api/v1/actions/u1/1", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != ErrCodeNotFound {
		t.Errorf("error = %+v, want code %s", envelope.Error, ErrCodeNotFound)
	}

	doJSON(t, srv, http.MethodPost, "/api/v1/actions", ActionRequest{
		UserID: "u1", CandidateID: 1, Kind: "pass", Genres: []string{"Crime"},
	})

	rec, _ = doJSON(t, srv, http.MethodDelete, "/api/v1/actions/u1/1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status after undo = %d, want 204", rec.Code)
	}
}

func TestUndoActionInvalidCandidate(t *testing.T) {
	srv := newTestServer(t, &stubCatalog{pool: testPool()})

	rec, _ := doJSON(t, srv, http.MethodDelete, "/api/v1/actions/u1/notanumber", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRecommendationsColdStart(t *testing.T) {
	srv := newTestServer(t, &stubCatalog{pool: testPool()})

	rec, envelope := doJSON(t, srv, http.MethodGet, "/api/v1/recommendations/newcomer?limit=3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	var resp recommend.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if !resp.ColdStart {
		t.Error("expected cold start for a new user")
	}
	if len(resp.Items) == 0 {
		t.Error("expected a non-empty deck")
	}
	if len(resp.Items) > 3 {
		t.Errorf("len(items) = %d, want <= 3", len(resp.Items))
	}
}

func TestRecommendationsBadQuery(t *testing.T) {
	srv := newTestServer(t, &stubCatalog{pool: testPool()})

	rec, _ := doJSON(t, srv, http.MethodGet, "/api/v1/recommendations/u1?discovery_ratio=abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec, envelope := doJSON(t, srv, http.MethodGet, "/api/v1/recommendations/u1?discovery_ratio=1.5", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status for ratio 1.5 = %d, want 400", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != ErrCodeValidationFailed {
		t.Errorf("error = %+v, want code %s", envelope.Error, ErrCodeValidationFailed)
	}
}

func TestRecommendationsWithoutCatalog(t *testing.T) {
	srv := newTestServer(t, nil)

	rec, envelope := doJSON(t, srv, http.MethodGet, "/api/v1/recommendations/u1", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if envelope.Error == nil || envelope.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("error = %+v, want code %s", envelope.Error, ErrCodeServiceUnavailable)
	}
}

func TestSetPreferences(t *testing.T) {
	srv := newTestServer(t, &stubCatalog{pool: testPool()})

	rec, envelope := doJSON(t, srv, http.MethodPut, "/api/v1/users/u1/preferences", PreferencesRequest{
		Genres:    []string{"Comedy"},
		Languages: []string{"fr"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	if !envelope.Success {
		t.Error("expected success envelope")
	}

	// Declared preferences steer the cold-start deck.
	rec, envelope = doJSON(t, srv, http.MethodGet, "/api/v1/recommendations/u1?limit=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("recommendation status = %d, want 200", rec.Code)
	}
	raw, _ := json.Marshal(envelope.Data)
	var resp recommend.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(resp.Items))
	}
	if got := resp.Items[0].CandidateID; got != 2 {
		t.Errorf("top candidate = %d, want 2 (french comedy)", got)
	}
}

func TestSetPreferencesValidation(t *testing.T) {
	srv := newTestServer(t, &stubCatalog{pool: testPool()})

	rec, _ := doJSON(t, srv, http.MethodPut, "/api/v1/users/u1/preferences", PreferencesRequest{
		Languages: []string{"ENGLISH"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSimilarityEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubCatalog{pool: testPool()})

	rec, _ := doJSON(t, srv, http.MethodGet, "/api/v1/similarity?user_a=u1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status without user_b = %d, want 400", rec.Code)
	}

	rec, envelope := doJSON(t, srv, http.MethodGet, "/api/v1/similarity?user_a=u1&user_b=u2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !envelope.Success {
		t.Error("expected success envelope")
	}
}

func TestStatsEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubCatalog{pool: testPool()})

	doJSON(t, srv, http.MethodPost, "/api/v1/actions", ActionRequest{
		UserID: "u1", CandidateID: 1, Kind: "like", Genres: []string{"Crime"},
	})

	rec, envelope := doJSON(t, srv, http.MethodGet, "/api/v1/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	raw, _ := json.Marshal(envelope.Data)
	var m recommend.Metrics
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if m.ActionCount != 1 {
		t.Errorf("ActionCount = %d, want 1", m.ActionCount)
	}
}

func TestRebuildEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubCatalog{pool: testPool()})

	rec, envelope := doJSON(t, srv, http.MethodPost, "/api/v1/similarity/rebuild", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want object", envelope.Data)
	}
	if v, ok := data["table_version"].(float64); !ok || v != 1 {
		t.Errorf("table_version = %v, want 1", data["table_version"])
	}
}

func TestHealthReportsComponentFailure(t *testing.T) {
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	engine.SetCatalogProvider(&stubCatalog{pool: testPool()})

	handler := NewHandler(engine,
		HealthCheck{Name: "catalog", Check: func(context.Context) error { return nil }},
		HealthCheck{Name: "storage", Check: func(context.Context) error { return errors.New("disk gone") }},
	)
	mw := DefaultMiddlewareConfig()
	mw.RateLimitDisabled = true
	srv := NewRouter(handler, mw).Setup()

	rec, envelope := doJSON(t, srv, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %T, want object", envelope.Data)
	}
	if data["status"] != "degraded" {
		t.Errorf("status = %v, want degraded", data["status"])
	}
}

func TestRequestIDEchoed(t *testing.T) {
	srv := newTestServer(t, &stubCatalog{pool: testPool()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "trace-123" {
		t.Errorf("X-Request-ID = %q, want trace-123", got)
	}

	var envelope APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Meta == nil || envelope.Meta.RequestID != "trace-123" {
		t.Errorf("meta request ID = %+v, want trace-123", envelope.Meta)
	}
}

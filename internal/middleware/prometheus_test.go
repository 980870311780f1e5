// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/reelswipe/reelswipe/internal/metrics"
)

func TestPrometheusUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Prometheus)
	r.Get("/api/v1/recommendations/{userID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	const pattern = "/api/v1/recommendations/{userID}"
	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", pattern, "200"))

	for _, user := range []string{"alice", "bob"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/"+user, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	}

	// Both requests collapse onto the route pattern, not per-user paths.
	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("GET", pattern, "200"))
	if after != before+2 {
		t.Errorf("APIRequestsTotal = %v, want %v", after, before+2)
	}
}

func TestPrometheusRecordsStatusCode(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Prometheus)
	r.Post("/api/v1/actions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	before := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("POST", "/api/v1/actions", "400"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/actions", nil))

	after := testutil.ToFloat64(metrics.APIRequestsTotal.WithLabelValues("POST", "/api/v1/actions", "400"))
	if after != before+1 {
		t.Errorf("APIRequestsTotal = %v, want %v", after, before+1)
	}
}

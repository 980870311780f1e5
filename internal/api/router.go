// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

// Package api provides HTTP routing using the chi router.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelswipe/reelswipe/internal/middleware"
)

// Router assembles the HTTP surface from a handler and middleware factory.
type Router struct {
	handler    *Handler
	middleware *Middleware
}

// NewRouter creates a router. A nil middleware config gets secure defaults.
func NewRouter(handler *Handler, mwConfig *MiddlewareConfig) *Router {
	return &Router{
		handler:    handler,
		middleware: NewMiddleware(mwConfig),
	}
}

// Setup configures all HTTP routes and returns the root handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())
	r.Use(middleware.Prometheus)

	// Health endpoints get a permissive limit so monitors can poll freely.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.middleware.RateLimitHealth())
		r.Get("/", router.handler.Health)
	})

	// Core API endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())

		r.Post("/actions", router.handler.RecordAction)
		r.Delete("/actions/{userID}/{candidateID}", router.handler.UndoAction)

		r.Get("/recommendations/{userID}", router.handler.Recommendations)
		r.Put("/users/{userID}/preferences", router.handler.SetPreferences)

		r.Get("/similarity", router.handler.Similarity)
		r.Post("/similarity/rebuild", router.handler.RebuildSimilarities)
		r.Get("/stats", router.handler.Stats)
	})

	// Prometheus exposition, outside the rate-limited API tree.
	r.Handle("/metrics", promhttp.Handler())

	return r
}

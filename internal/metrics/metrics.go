// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - API endpoint latency and throughput
// - Swipe action ingestion
// - Recommendation pipeline performance and cache efficiency
// - Similarity table rebuilds
// - Catalog provider health

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Swipe Action Metrics
	ActionsRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipe_actions_total",
			Help: "Total number of swipe actions recorded",
		},
		[]string{"kind"}, // "like", "pass", "skip"
	)

	ActionsUndone = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swipe_actions_undone_total",
			Help: "Total number of swipe actions undone",
		},
	)

	ActionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipe_action_errors_total",
			Help: "Total number of rejected swipe actions",
		},
		[]string{"reason"},
	)

	// Recommendation Pipeline Metrics
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendation responses served",
		},
		[]string{"mode"}, // "blended", "cold_start", "degraded"
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_compute_duration_seconds",
			Help:    "Duration of recommendation list computation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendationCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	RecommendationCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	// Similarity Table Metrics
	SimilarityRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similarity_rebuild_duration_seconds",
			Help:    "Duration of item similarity table rebuilds in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SimilarityTablePairs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similarity_table_pairs",
			Help: "Number of item pairs in the current similarity table",
		},
	)

	SimilarityTableVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similarity_table_version",
			Help: "Version of the current similarity table (increments on rebuild)",
		},
	)

	// Catalog Provider Metrics
	CatalogFetchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_fetch_errors_total",
			Help: "Total number of failed catalog fetches",
		},
	)

	CatalogBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_breaker_state",
			Help: "Catalog circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	CatalogPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_pool_size",
			Help: "Number of candidates in the last successfully fetched catalog pool",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRateLimitHit records a rate limit rejection for an endpoint
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordAction records an accepted swipe action by kind
func RecordAction(kind string) {
	ActionsRecorded.WithLabelValues(kind).Inc()
}

// RecordActionUndo records an undone swipe action
func RecordActionUndo() {
	ActionsUndone.Inc()
}

// RecordActionError records a rejected swipe action. Long reasons are
// truncated to keep label cardinality bounded.
func RecordActionError(reason string) {
	if len(reason) > 50 {
		reason = reason[:50]
	}
	ActionErrors.WithLabelValues(reason).Inc()
}

// RecordRecommendation records a served recommendation response
func RecordRecommendation(mode string, duration time.Duration) {
	RecommendationsServed.WithLabelValues(mode).Inc()
	RecommendationDuration.Observe(duration.Seconds())
}

// RecordCacheHit records a recommendation cache hit
func RecordCacheHit() {
	RecommendationCacheHits.Inc()
}

// RecordCacheMiss records a recommendation cache miss
func RecordCacheMiss() {
	RecommendationCacheMisses.Inc()
}

// RecordSimilarityRebuild records a completed similarity table rebuild
func RecordSimilarityRebuild(duration time.Duration, pairs int, version uint64) {
	SimilarityRebuildDuration.Observe(duration.Seconds())
	SimilarityTablePairs.Set(float64(pairs))
	SimilarityTableVersion.Set(float64(version))
}

// RecordCatalogFetchError records a failed catalog fetch
func RecordCatalogFetchError() {
	CatalogFetchErrors.Inc()
}

// UpdateCatalogBreakerState updates the circuit breaker state gauge
func UpdateCatalogBreakerState(state int) {
	CatalogBreakerState.Set(float64(state))
}

// UpdateCatalogPoolSize updates the catalog pool size gauge
func UpdateCatalogPoolSize(size int) {
	CatalogPoolSize.Set(float64(size))
}

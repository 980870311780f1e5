// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus client
library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Swipe action ingestion and undo rates
  - Recommendation pipeline latency and cache efficiency
  - Item similarity table rebuild duration and size
  - Catalog provider health and circuit breaker state

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8600/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Swipe Action Metrics:
  - swipe_actions_total: Accepted actions (counter)
    Labels: kind (like, pass, skip)
  - swipe_actions_undone_total: Undone actions (counter)
  - swipe_action_errors_total: Rejected actions (counter)
    Labels: reason

Recommendation Metrics:
  - recommendations_served_total: Served responses (counter)
    Labels: mode (blended, cold_start, degraded)
  - recommendation_compute_duration_seconds: List computation time (histogram)
  - recommendation_cache_hits_total / recommendation_cache_misses_total (counters)

Similarity Metrics:
  - similarity_rebuild_duration_seconds: Table rebuild time (histogram)
  - similarity_table_pairs: Pairs in the current table (gauge)
  - similarity_table_version: Current table version (gauge)

Catalog Metrics:
  - catalog_fetch_errors_total: Failed upstream fetches (counter)
  - catalog_breaker_state: Circuit breaker state (gauge)
    Values: 0=closed, 1=half-open, 2=open
  - catalog_pool_size: Candidates in the last good pool (gauge)

# Usage Example

Recording metrics from a handler:

	start := time.Now()
	// ... serve the request ...
	metrics.RecordAPIRequest(r.Method, routePattern(r), strconv.Itoa(status), time.Since(start))

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

To prevent high cardinality issues:

  - Endpoint labels use chi route patterns, never raw URL paths
  - Action error reasons are truncated to 50 characters
  - User identifiers never appear in labels

# See Also

  - internal/api: HTTP handlers with metrics integration
  - internal/recommend: Recommendation pipeline instrumentation
  - https://prometheus.io/docs/practices/naming/: Metric naming conventions
*/
package metrics

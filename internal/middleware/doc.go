// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

/*
Package middleware provides HTTP middleware for cross-cutting concerns.

The package contains middleware that is independent of any particular route
group: request ID propagation for tracing and Prometheus instrumentation.
Route-specific middleware (rate limiting, CORS) lives in internal/api where
the routes are declared.

# Request ID

RequestID honors an X-Request-ID header set by an upstream proxy, generates
a UUID when absent, echoes the ID on the response header and stores it in
the request context for structured logging:

	r.Use(middleware.RequestID)

# Prometheus

Prometheus records request counts and latency per chi route pattern. Using
the route pattern rather than the raw URL path keeps metric cardinality
bounded regardless of how many users or candidates appear in paths.
*/
package middleware

// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

/*
Package api provides the HTTP surface of the recommendation service.

The package wires chi routing, go-chi middleware (CORS, rate limiting) and
go-playground/validator request validation around the recommendation engine.
All endpoints return the standardized APIResponse envelope.

# Endpoints

Swipe actions:

	POST   /api/v1/actions                                  record a swipe
	DELETE /api/v1/actions/{userID}/{candidateID}           undo a swipe

Recommendations:

	GET    /api/v1/recommendations/{userID}                 personalized deck
	PUT    /api/v1/users/{userID}/preferences               declared onboarding taste

Diagnostics:

	GET    /api/v1/similarity                               pairwise user similarity
	GET    /api/v1/stats                                    engine counters
	GET    /api/v1/health                                   liveness and component checks
	GET    /metrics                                         Prometheus exposition

# Error Mapping

Engine sentinel errors map onto HTTP statuses: validation failures return
400, an unknown undo target returns 404, a missing catalog returns 503.
Everything else is a 500 with the detail logged rather than leaked.
*/
package api

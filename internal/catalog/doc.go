// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

// Package catalog supplies the candidate movie pool the engine scores
// against. The pool can come from a static JSON file (self-contained
// deployments) or an upstream metadata service over HTTP. The HTTP path is
// wrapped in a circuit breaker that falls back to the last successfully
// fetched pool, so a metadata outage degrades recommendations instead of
// failing them.
package catalog

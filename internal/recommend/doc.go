// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

// Package recommend implements the hybrid recommendation engine: a
// deterministic, rule-based preference model per user, a content scorer, an
// item-item similarity table rebuilt in batch, an on-demand user-user
// similarity engine, and the blender that combines them into one ranked
// list served through a time-boxed per-user cache.
//
// # Data Flow
//
// A swipe (Action) updates the user's preference model, marks the title
// seen, invalidates the user's cache entry synchronously and publishes an
// event that schedules the next batch similarity rebuild. A read serves
// from cache inside the freshness window; on a miss a single-flight blender
// run scores the candidate pool, dedupes against the seen-set and caches
// the result.
//
// # Degradation
//
// Sparse data is the steady state for new users: missing similarity rows,
// unknown directors and absent languages all degrade to neutral
// contributions, and users below the action minimum fall back to a
// high-quality cold-start ranking. Storage failures degrade the engine to
// compute-only operation; no user-facing operation fails on sparse data.
package recommend

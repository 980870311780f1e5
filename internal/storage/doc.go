// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

// Package storage persists the recommendation engine's logical state: the
// per-user action log, seen-sets and preference snapshots. Two backends
// are provided, an in-memory store for tests and single-run deployments
// and a BadgerDB store for durability across restarts. Both satisfy
// recommend.Store.
//
// Preference snapshots are fully derivable from the action log; they are
// stored so warm start can restore a user without replaying their history.
// A snapshot that fell behind the log (for example after a failed save) is
// detected and ignored in favor of replay.
//
// The action log is compacting: one record per (user, candidate) pair,
// holding the superseding action. This matches how the engine consumes the
// log, and keeps storage proportional to distinct interactions rather than
// raw swipe volume.
package storage

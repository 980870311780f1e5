// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

// Package services provides suture service wrappers for the application
// components: the HTTP server, the similarity rebuild loop and the catalog
// health poller. Each wrapper translates a component's lifecycle into
// suture's context-aware Serve pattern.
package services

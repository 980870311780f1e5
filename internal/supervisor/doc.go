// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

/*
Package supervisor provides the suture supervision tree for the service.

The tree is organized into two layers:

  - engine: the similarity rebuild loop and catalog health poller
  - api: the HTTP server

This structure provides failure isolation. A crash in the engine layer
restarts the rebuild loop without dropping in-flight HTTP requests; the
engine keeps serving from the last good similarity table in the meantime.

Supervisor lifecycle events (service failures, backoff entry and exit) are
logged through zerolog via the tree's event hook.
*/
package supervisor

// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

/*
Package main is the entry point for the ReelSwipe recommendation server.

ReelSwipe serves personalized movie decks for a swipe-based discovery app.
Swipes stream in over the REST API, a hybrid blender (content scoring plus
user and item collaborative filtering) ranks the catalog per user, and the
batch item similarity table is rebuilt in the background as actions arrive.

# Application Architecture

The server initializes components in the following order:

 1. Configuration: layered settings from defaults, config file and
    environment variables (koanf v2)
 2. Storage: the action log and seen-sets, in-memory or BadgerDB
 3. Catalog: the candidate pool, a static JSON file or an upstream
    metadata service behind a circuit breaker
 4. Engine: the recommendation engine, warm-started from the action log
 5. Event bus: in-process watermill channel linking swipe ingestion to
    the similarity rebuild loop
 6. Supervisor tree: suture-managed background services and HTTP server

# Configuration

Configuration is loaded via koanf v2 with layered sources (highest
priority wins): environment variables, then the config file, then built-in
defaults. The config file is located via CONFIG_PATH or the default search
paths (./config.yaml, /etc/reelswipe/config.yaml).

Common environment variables:

	HTTP_PORT=8600
	STORE_TYPE=badger
	STORE_PATH=/data/reelswipe
	CATALOG_SOURCE=http
	CATALOG_URL=https://metadata.internal
	CATALOG_API_KEY=...
	LOG_LEVEL=info

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM: the HTTP
server stops accepting connections and drains in-flight requests, the
rebuild loop finishes its cycle, and the action store is closed cleanly.
*/
package main

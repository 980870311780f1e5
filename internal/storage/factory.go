// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package storage

import (
	"fmt"

	"github.com/reelswipe/reelswipe/internal/recommend"
)

// StoreType selects the storage backend.
type StoreType string

const (
	// StoreMemory uses in-memory storage (default, not persistent).
	StoreMemory StoreType = "memory"

	// StoreBadger uses BadgerDB for persistent storage.
	StoreBadger StoreType = "badger"
)

// Store is the backend-agnostic handle returned by Open. It adds lifecycle
// management on top of the engine's persistence interface.
type Store interface {
	recommend.Store
	Close() error
}

// closerless adapts a store without teardown needs.
type closerless struct {
	recommend.Store
}

func (closerless) Close() error { return nil }

// Open creates a store of the given type. An empty type falls back to the
// in-memory backend.
func Open(storeType StoreType, path string) (Store, error) {
	switch storeType {
	case StoreBadger:
		if path == "" {
			return nil, fmt.Errorf("badger store requires a path")
		}
		return NewBadgerStore(path)
	case StoreMemory, "":
		return closerless{NewMemoryStore()}, nil
	default:
		return nil, fmt.Errorf("unknown store type %q", storeType)
	}
}

// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package catalog

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-json"

	"github.com/reelswipe/reelswipe/internal/recommend"
)

// StaticCatalog serves a fixed candidate pool from memory. Replace swaps
// the pool atomically, so reloads never expose a partial list.
type StaticCatalog struct {
	mu   sync.RWMutex
	pool []recommend.Candidate
	byID map[int]recommend.Candidate
}

// NewStaticCatalog creates a catalog over the given candidates.
func NewStaticCatalog(pool []recommend.Candidate) *StaticCatalog {
	c := &StaticCatalog{}
	c.Replace(pool)
	return c
}

// LoadStaticCatalog reads a JSON candidate file from disk.
func LoadStaticCatalog(path string) (*StaticCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var pool []recommend.Candidate
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	return NewStaticCatalog(pool), nil
}

// Replace swaps the entire pool.
func (c *StaticCatalog) Replace(pool []recommend.Candidate) {
	byID := make(map[int]recommend.Candidate, len(pool))
	for _, cand := range pool {
		byID[cand.ID] = cand
	}
	copied := append([]recommend.Candidate(nil), pool...)

	c.mu.Lock()
	c.pool = copied
	c.byID = byID
	c.mu.Unlock()
}

// Candidates returns the current candidate pool.
func (c *StaticCatalog) Candidates(_ context.Context) ([]recommend.Candidate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]recommend.Candidate(nil), c.pool...), nil
}

// Candidate returns metadata for a single title.
func (c *StaticCatalog) Candidate(_ context.Context, id int) (recommend.Candidate, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cand, ok := c.byID[id]
	return cand, ok, nil
}

// Len returns the pool size.
func (c *StaticCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pool)
}

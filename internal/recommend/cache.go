// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package recommend

import (
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cacheEntry holds one user's live recommendation list. The request
// parameters are stored with it: a request with different parameters is a
// miss, keeping exactly one live entry per user.
type cacheEntry struct {
	response       *Response
	limit          int
	discoveryRatio float64
	expiresAt      time.Time
}

// RecommendationCache holds the blender's last output per user within a
// freshness window. Entries are invalidated synchronously whenever a new
// action is recorded, so a read after a swipe always recomputes. Concurrent
// misses for the same user are single-flight: one request computes, the
// rest share its result.
type RecommendationCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration

	group singleflight.Group
}

// NewRecommendationCache creates a cache with the given freshness window.
func NewRecommendationCache(cfg CacheConfig) *RecommendationCache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RecommendationCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get returns the user's live entry when fresh and parameter-compatible.
// The returned response is a copy; callers may not mutate the cached list.
func (c *RecommendationCache) Get(userID string, limit int, discoveryRatio float64) (*Response, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		return nil, false
	}
	if entry.limit != limit || entry.discoveryRatio != discoveryRatio {
		return nil, false
	}
	return copyResponse(entry.response), true
}

// Put stores a freshly computed list for the user, replacing any prior
// entry. Population is idempotent and has no side effects beyond storage.
func (c *RecommendationCache) Put(userID string, limit int, discoveryRatio float64, resp *Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = cacheEntry{
		response:       copyResponse(resp),
		limit:          limit,
		discoveryRatio: discoveryRatio,
		expiresAt:      time.Now().Add(c.ttl),
	}
}

// Invalidate drops the user's entry. Called synchronously on every recorded
// action so stale lists never contradict a just-recorded preference.
func (c *RecommendationCache) Invalidate(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

// compute collapses concurrent recomputes into a single blender run; every
// waiter receives its own copy of the shared result. Flights are keyed by
// the same (user, limit, ratio) triple as cache entries, so a request with
// different parameters never inherits a result sized for another caller.
func (c *RecommendationCache) compute(userID string, limit int, discoveryRatio float64, fn func() (*Response, error)) (*Response, error) {
	key := userID + ":" + strconv.Itoa(limit) + ":" + strconv.FormatFloat(discoveryRatio, 'g', -1, 64)
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		return nil, err
	}
	return copyResponse(v.(*Response)), nil
}

// copyResponse returns a shallow-safe copy of a response.
func copyResponse(resp *Response) *Response {
	if resp == nil {
		return nil
	}
	items := make([]ScoredCandidate, len(resp.Items))
	copy(items, resp.Items)
	cp := *resp
	cp.Items = items
	return &cp
}

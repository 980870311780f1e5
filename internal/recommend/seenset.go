// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package recommend

import "sort"

// SeenSet is a per-user append-only record of candidates already surfaced.
// Membership tests are O(1). Entries never expire silently; removal happens
// only through an explicit undo. Not safe for concurrent use - the engine
// serializes access per user.
type SeenSet struct {
	ids map[int]struct{}
}

// NewSeenSet creates an empty seen-set.
func NewSeenSet() *SeenSet {
	return &SeenSet{ids: make(map[int]struct{})}
}

// Add records candidates as surfaced.
func (s *SeenSet) Add(ids ...int) {
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Remove deletes one candidate, the undo path.
func (s *SeenSet) Remove(id int) {
	delete(s.ids, id)
}

// Contains reports membership.
func (s *SeenSet) Contains(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of surfaced candidates.
func (s *SeenSet) Len() int {
	return len(s.ids)
}

// clone returns a copy for lock-free reads during a blend.
func (s *SeenSet) clone() *SeenSet {
	cp := NewSeenSet()
	for id := range s.ids {
		cp.ids[id] = struct{}{}
	}
	return cp
}

// IDs returns the members in ascending order.
func (s *SeenSet) IDs() []int {
	out := make([]int, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package storage

import (
	"context"
	"sync"

	"github.com/reelswipe/reelswipe/internal/recommend"
)

type pairID struct {
	userID      string
	candidateID int
}

// MemoryStore implements recommend.Store in process memory. State is lost
// on restart; the engine rebuilds itself from an empty log.
type MemoryStore struct {
	mu      sync.RWMutex
	actions map[pairID]recommend.Action
	seen    map[string]map[int]struct{}
	prefs   map[string]recommend.PreferenceSnapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		actions: make(map[pairID]recommend.Action),
		seen:    make(map[string]map[int]struct{}),
		prefs:   make(map[string]recommend.PreferenceSnapshot),
	}
}

// AppendAction stores the superseding action for (user, candidate).
func (s *MemoryStore) AppendAction(_ context.Context, a recommend.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions[pairID{a.UserID, a.CandidateID}] = a
	return nil
}

// DeleteAction removes the action record for (user, candidate).
func (s *MemoryStore) DeleteAction(_ context.Context, userID string, candidateID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.actions, pairID{userID, candidateID})
	return nil
}

// Actions returns every stored action across all users.
func (s *MemoryStore) Actions(_ context.Context) ([]recommend.Action, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	actions := make([]recommend.Action, 0, len(s.actions))
	for _, a := range s.actions {
		actions = append(actions, a)
	}
	return actions, nil
}

// MarkSeen adds candidate ids to the user's seen-set.
func (s *MemoryStore) MarkSeen(_ context.Context, userID string, ids []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[userID] == nil {
		s.seen[userID] = make(map[int]struct{})
	}
	for _, id := range ids {
		s.seen[userID][id] = struct{}{}
	}
	return nil
}

// UnmarkSeen removes one candidate id from the user's seen-set.
func (s *MemoryStore) UnmarkSeen(_ context.Context, userID string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen[userID], id)
	return nil
}

// SavePreferences stores the user's preference snapshot.
func (s *MemoryStore) SavePreferences(_ context.Context, userID string, snap recommend.PreferenceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[userID] = snap
	return nil
}

// Preferences returns the user's stored snapshot.
func (s *MemoryStore) Preferences(_ context.Context, userID string) (recommend.PreferenceSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.prefs[userID]
	return snap, ok, nil
}

// SeenIDs returns the user's seen-set members.
func (s *MemoryStore) SeenIDs(_ context.Context, userID string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(s.seen[userID]))
	for id := range s.seen[userID] {
		ids = append(ids, id)
	}
	return ids, nil
}

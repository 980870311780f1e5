// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/reelswipe/reelswipe/internal/recommend"
)

// Key prefixes for BadgerDB storage.
const (
	actionKeyPrefix = "action:"
	seenKeyPrefix   = "seen:"
	prefsKeyPrefix  = "prefs:"
)

// BadgerStore implements recommend.Store on BadgerDB. Keys embed the user
// id so per-user reads are prefix scans.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens a BadgerDB at the given path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// NewBadgerStoreFromDB wraps an already-open database, used by tests and
// callers sharing one database across stores.
func NewBadgerStoreFromDB(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func actionKey(userID string, candidateID int) []byte {
	return []byte(actionKeyPrefix + userID + ":" + strconv.Itoa(candidateID))
}

func seenKey(userID string, candidateID int) []byte {
	return []byte(seenKeyPrefix + userID + ":" + strconv.Itoa(candidateID))
}

func prefsKey(userID string) []byte {
	return []byte(prefsKeyPrefix + userID)
}

// AppendAction stores the superseding action for (user, candidate). A
// repeat swipe on the same candidate overwrites the earlier record, which
// mirrors the engine's in-memory interpretation.
func (s *BadgerStore) AppendAction(_ context.Context, a recommend.Action) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal action: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(actionKey(a.UserID, a.CandidateID), data)
	})
}

// DeleteAction removes the action record for (user, candidate).
func (s *BadgerStore) DeleteAction(_ context.Context, userID string, candidateID int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(actionKey(userID, candidateID))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete action: %w", err)
		}
		return nil
	})
}

// Actions returns every stored action across all users.
func (s *BadgerStore) Actions(_ context.Context) ([]recommend.Action, error) {
	var actions []recommend.Action

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(actionKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var a recommend.Action
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &a)
			})
			if err != nil {
				return fmt.Errorf("unmarshal action: %w", err)
			}
			actions = append(actions, a)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan actions: %w", err)
	}
	return actions, nil
}

// MarkSeen adds candidate ids to the user's seen-set.
func (s *BadgerStore) MarkSeen(_ context.Context, userID string, ids []int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, id := range ids {
			if err := txn.Set(seenKey(userID, id), nil); err != nil {
				return fmt.Errorf("set seen: %w", err)
			}
		}
		return nil
	})
}

// UnmarkSeen removes one candidate id from the user's seen-set.
func (s *BadgerStore) UnmarkSeen(_ context.Context, userID string, id int) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(seenKey(userID, id))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete seen: %w", err)
		}
		return nil
	})
}

// SavePreferences stores the user's preference snapshot, replacing any
// prior one.
func (s *BadgerStore) SavePreferences(_ context.Context, userID string, snap recommend.PreferenceSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal preference snapshot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(prefsKey(userID), data)
	})
}

// Preferences returns the user's stored snapshot, false when absent.
func (s *BadgerStore) Preferences(_ context.Context, userID string) (recommend.PreferenceSnapshot, bool, error) {
	var snap recommend.PreferenceSnapshot
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(prefsKey(userID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return recommend.PreferenceSnapshot{}, false, fmt.Errorf("read preference snapshot: %w", err)
	}
	return snap, found, nil
}

// SeenIDs returns the user's seen-set members.
func (s *BadgerStore) SeenIDs(_ context.Context, userID string) ([]int, error) {
	var ids []int

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(seenKeyPrefix + userID + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := string(it.Item().Key())
			raw := strings.TrimPrefix(key, string(prefix))
			id, err := strconv.Atoi(raw)
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan seen-set: %w", err)
	}
	return ids, nil
}

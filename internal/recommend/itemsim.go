// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package recommend

import (
	"sort"
	"time"
)

// pairKey is a canonicalized movie pair with a <= b, so each pair is stored
// exactly once regardless of interaction order.
type pairKey struct {
	a, b int
}

// newPairKey canonicalizes two candidate ids into a pair key.
func newPairKey(x, y int) pairKey {
	if x > y {
		x, y = y, x
	}
	return pairKey{a: x, b: y}
}

// ItemSimilarity is the affinity record for one canonical movie pair.
type ItemSimilarity struct {
	// Score is commonLikes / totalInteractions, in [0, 1].
	Score float64

	// CommonLikes is how many users liked both titles.
	CommonLikes int

	// TotalInteractions is how many users acted on both titles.
	TotalInteractions int
}

// simPartner is one similar title with its pair score.
type simPartner struct {
	CandidateID int
	Score       float64
}

// ItemSimilarityTable is an immutable item-item affinity snapshot built in
// batch from the full action log. Readers always see a complete version;
// rebuilds swap the whole table behind an atomic pointer in the engine, so a
// partially-rebuilt table is never observable.
type ItemSimilarityTable struct {
	pairs    map[pairKey]ItemSimilarity
	partners map[int][]simPartner

	// Version increments on every rebuild.
	Version int

	// BuiltAt is when the rebuild completed.
	BuiltAt time.Time
}

// Lookup returns the similarity record for a pair of titles.
func (t *ItemSimilarityTable) Lookup(x, y int) (ItemSimilarity, bool) {
	if t == nil {
		return ItemSimilarity{}, false
	}
	sim, ok := t.pairs[newPairKey(x, y)]
	return sim, ok
}

// Partners returns the retained similar titles for a candidate, strongest
// first.
func (t *ItemSimilarityTable) Partners(candidateID int) []simPartner {
	if t == nil {
		return nil
	}
	return t.partners[candidateID]
}

// Len returns the number of retained pairs.
func (t *ItemSimilarityTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.pairs)
}

// BuildItemSimilarityTable recomputes the table from all actions. This is a
// full rebuild, not incremental: cost is O(users x pairs-per-user^2), which
// is acceptable on a schedule and keeps the logic auditable. Only the
// superseding action per (user, candidate) counts. Pairs below the
// MinInteractions sparse-data guard are excluded entirely.
func BuildItemSimilarityTable(actions []Action, cfg ItemSimConfig, version int) *ItemSimilarityTable {
	if cfg.MinInteractions <= 0 {
		cfg.MinInteractions = 3
	}
	if cfg.MaxPartners <= 0 {
		cfg.MaxPartners = 50
	}

	// Superseding action per (user, candidate).
	byUser := make(map[string]map[int]ActionKind)
	for _, a := range actions {
		if byUser[a.UserID] == nil {
			byUser[a.UserID] = make(map[int]ActionKind)
		}
		byUser[a.UserID][a.CandidateID] = a.Kind
	}

	type pairCounts struct {
		commonLikes       int
		totalInteractions int
	}
	counts := make(map[pairKey]*pairCounts)

	for _, candidates := range byUser {
		ids := make([]int, 0, len(candidates))
		for id := range candidates {
			ids = append(ids, id)
		}
		sort.Ints(ids)

		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				key := newPairKey(ids[i], ids[j])
				pc := counts[key]
				if pc == nil {
					pc = &pairCounts{}
					counts[key] = pc
				}
				pc.totalInteractions++
				if candidates[ids[i]] == ActionLike && candidates[ids[j]] == ActionLike {
					pc.commonLikes++
				}
			}
		}
	}

	pairs := make(map[pairKey]ItemSimilarity)
	partners := make(map[int][]simPartner)
	for key, pc := range counts {
		if pc.totalInteractions < cfg.MinInteractions {
			continue
		}
		sim := ItemSimilarity{
			Score:             float64(pc.commonLikes) / float64(pc.totalInteractions),
			CommonLikes:       pc.commonLikes,
			TotalInteractions: pc.totalInteractions,
		}
		pairs[key] = sim
		partners[key.a] = append(partners[key.a], simPartner{CandidateID: key.b, Score: sim.Score})
		partners[key.b] = append(partners[key.b], simPartner{CandidateID: key.a, Score: sim.Score})
	}

	for id := range partners {
		ps := partners[id]
		sort.Slice(ps, func(i, j int) bool {
			if ps[i].Score != ps[j].Score {
				return ps[i].Score > ps[j].Score
			}
			return ps[i].CandidateID < ps[j].CandidateID
		})
		if len(ps) > cfg.MaxPartners {
			ps = ps[:cfg.MaxPartners]
		}
		partners[id] = ps
	}

	return &ItemSimilarityTable{
		pairs:    pairs,
		partners: partners,
		Version:  version,
		BuiltAt:  time.Now(),
	}
}

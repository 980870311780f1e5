// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package recommend

import (
	"testing"
)

func testPool() []Candidate {
	return []Candidate{
		{ID: 1, Title: "Heat", Genres: []string{"Crime", "Drama"}, OriginalLanguage: "en", VoteAverage: 8.3, VoteCount: 5000, Popularity: 60},
		{ID: 2, Title: "Collateral", Genres: []string{"Crime", "Thriller"}, OriginalLanguage: "en", VoteAverage: 7.6, VoteCount: 4000, Popularity: 50},
		{ID: 3, Title: "Amelie", Genres: []string{"Comedy", "Romance"}, OriginalLanguage: "fr", VoteAverage: 8.0, VoteCount: 3000, Popularity: 40},
		{ID: 4, Title: "Oldboy", Genres: []string{"Thriller", "Mystery"}, OriginalLanguage: "ko", VoteAverage: 8.4, VoteCount: 6000, Popularity: 70},
		{ID: 5, Title: "Paddington", Genres: []string{"Comedy", "Family"}, OriginalLanguage: "en", VoteAverage: 7.2, VoteCount: 2000, Popularity: 30},
		{ID: 6, Title: "Ran", Genres: []string{"Drama", "War"}, OriginalLanguage: "ja", VoteAverage: 8.2, VoteCount: 1500, Popularity: 20},
	}
}

func likedCrimePrefs(cfg *Config) *PreferenceModel {
	p := NewPreferenceModel(cfg.Preferences)
	p.ApplyAction(action(101, ActionLike, []string{"Crime", "Drama"}, "en"), "")
	p.ApplyAction(action(102, ActionLike, []string{"Crime", "Thriller"}, "en"), "")
	p.ApplyAction(action(103, ActionLike, []string{"Crime"}, "en"), "")
	return p
}

func TestBlendSeenCandidatesExcluded(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	b := NewBlender(cfg)
	seen := NewSeenSet()
	seen.Add(1)
	seen.Add(4)

	res := b.Blend(blendInput{
		prefs:          likedCrimePrefs(cfg),
		seen:           seen,
		pool:           testPool(),
		limit:          10,
		discoveryRatio: 0,
	})

	for _, item := range res.items {
		if item.CandidateID == 1 || item.CandidateID == 4 {
			t.Errorf("seen candidate %d reappeared in results", item.CandidateID)
		}
	}
}

func TestBlendDiscoveryRatioExtremes(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	b := NewBlender(cfg)

	t.Run("zero ratio yields no discovery items", func(t *testing.T) {
		t.Parallel()
		res := b.Blend(blendInput{
			prefs:          likedCrimePrefs(cfg),
			seen:           NewSeenSet(),
			pool:           testPool(),
			limit:          6,
			discoveryRatio: 0,
		})
		for _, item := range res.items {
			if item.IsDiscovery {
				t.Errorf("candidate %d flagged as discovery with ratio 0", item.CandidateID)
			}
		}
	})

	t.Run("full ratio yields only discovery items", func(t *testing.T) {
		t.Parallel()
		res := b.Blend(blendInput{
			prefs:          likedCrimePrefs(cfg),
			seen:           NewSeenSet(),
			pool:           testPool(),
			limit:          4,
			discoveryRatio: 1,
		})
		if len(res.items) == 0 {
			t.Fatal("expected discovery items")
		}
		for _, item := range res.items {
			if !item.IsDiscovery {
				t.Errorf("candidate %d not flagged as discovery with ratio 1", item.CandidateID)
			}
		}
	})
}

func TestBlendDiscoverySlotCount(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	b := NewBlender(cfg)

	// floor(10 x 0.3) = 3 discovery slots.
	res := b.Blend(blendInput{
		prefs:          likedCrimePrefs(cfg),
		seen:           NewSeenSet(),
		pool:           testPool(),
		limit:          10,
		discoveryRatio: 0.3,
	})

	discovery := 0
	for _, item := range res.items {
		if item.IsDiscovery {
			discovery++
		}
	}
	if discovery != 3 {
		t.Errorf("discovery items = %d, want 3", discovery)
	}
}

func TestBlendDiscoveryPrefersOffCluster(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	b := NewBlender(cfg)

	// Dominant genre is Crime; discovery should prefer non-Crime titles.
	res := b.Blend(blendInput{
		prefs:          likedCrimePrefs(cfg),
		seen:           NewSeenSet(),
		pool:           testPool(),
		limit:          6,
		discoveryRatio: 0.34, // floor(6 x 0.34) = 2 slots
	})

	for _, item := range res.items {
		if !item.IsDiscovery {
			continue
		}
		for _, g := range candidateByID(t, item.CandidateID).Genres {
			if g == "Crime" {
				t.Errorf("discovery item %d is in the dominant genre cluster", item.CandidateID)
			}
		}
	}
}

func candidateByID(t *testing.T, id int) Candidate {
	t.Helper()
	for _, c := range testPool() {
		if c.ID == id {
			return c
		}
	}
	t.Fatalf("candidate %d not in pool", id)
	return Candidate{}
}

func TestBlendRespectsLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	b := NewBlender(cfg)

	res := b.Blend(blendInput{
		prefs:          likedCrimePrefs(cfg),
		seen:           NewSeenSet(),
		pool:           testPool(),
		limit:          3,
		discoveryRatio: 0.3,
	})
	if len(res.items) > 3 {
		t.Errorf("returned %d items, limit was 3", len(res.items))
	}
}

func TestBlendDeterministic(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	b := NewBlender(cfg)

	run := func() []int {
		res := b.Blend(blendInput{
			prefs:          likedCrimePrefs(cfg),
			seen:           NewSeenSet(),
			pool:           testPool(),
			limit:          6,
			discoveryRatio: 0.3,
		})
		ids := make([]int, 0, len(res.items))
		for _, item := range res.items {
			ids = append(ids, item.CandidateID)
		}
		return ids
	}

	first := run()
	for i := 0; i < 5; i++ {
		got := run()
		if len(got) != len(first) {
			t.Fatalf("run %d returned %d items, first returned %d", i, len(got), len(first))
		}
		for j := range got {
			if got[j] != first[j] {
				t.Fatalf("run %d diverged at rank %d: %v vs %v", i, j, got, first)
			}
		}
	}
}

func TestBlendItemCFContribution(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	b := NewBlender(cfg)

	// The user liked 101; the table links 101 strongly to pool candidate 2
	// only. With content signals flat, candidate 2's item-CF contribution
	// should put it ahead of a pool twin with no table link.
	actions := []Action{
		simAction("u1", 101, ActionLike), simAction("u1", 2, ActionLike),
		simAction("u2", 101, ActionLike), simAction("u2", 2, ActionLike),
		simAction("u3", 101, ActionLike), simAction("u3", 2, ActionLike),
	}
	table := BuildItemSimilarityTable(actions, cfg.ItemSim, 1)
	if _, ok := table.Lookup(101, 2); !ok {
		t.Fatal("setup: pair (101, 2) should be in the table")
	}

	prefs := NewPreferenceModel(cfg.Preferences)
	prefs.ApplyAction(action(101, ActionLike, nil, ""), "")

	pool := []Candidate{
		{ID: 2, Genres: []string{"Thriller"}, Popularity: 10},
		{ID: 3, Genres: []string{"Thriller"}, Popularity: 10},
	}

	res := b.Blend(blendInput{
		prefs:          prefs,
		seen:           NewSeenSet(),
		pool:           pool,
		table:          table,
		limit:          2,
		discoveryRatio: 0,
	})
	if len(res.items) == 0 {
		t.Fatal("expected results")
	}
	if res.items[0].CandidateID != 2 {
		t.Errorf("top item = %d, want 2 (item-CF boosted)", res.items[0].CandidateID)
	}
	if res.items[0].Source != SourceItemCF {
		t.Errorf("top item source = %v, want %v", res.items[0].Source, SourceItemCF)
	}
}

func TestBlendUserCFContribution(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	b := NewBlender(cfg)

	prefs := NewPreferenceModel(cfg.Preferences)
	prefs.ApplyAction(action(101, ActionLike, nil, ""), "")

	pool := []Candidate{
		{ID: 2, Genres: []string{"Thriller"}, Popularity: 10},
		{ID: 3, Genres: []string{"Thriller"}, Popularity: 10},
	}

	res := b.Blend(blendInput{
		prefs: prefs,
		seen:  NewSeenSet(),
		pool:  pool,
		neighbors: []similarNeighbor{
			{userID: "n1", score: 0.8, likes: []int{2}},
			{userID: "n2", score: 0.7, likes: []int{2}},
		},
		limit:          2,
		discoveryRatio: 0,
	})
	if len(res.items) == 0 {
		t.Fatal("expected results")
	}
	if res.items[0].CandidateID != 2 {
		t.Errorf("top item = %d, want 2 (user-CF boosted)", res.items[0].CandidateID)
	}
	if res.items[0].Source != SourceUserCF {
		t.Errorf("top item source = %v, want %v", res.items[0].Source, SourceUserCF)
	}
}

func TestBlendDegradesWithoutCollaborativeData(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	b := NewBlender(cfg)

	res := b.Blend(blendInput{
		prefs:          likedCrimePrefs(cfg),
		seen:           NewSeenSet(),
		pool:           testPool(),
		limit:          6,
		discoveryRatio: 0,
	})
	if len(res.items) == 0 {
		t.Fatal("content-only blend should still produce results")
	}
	for _, s := range res.sources {
		if s == SourceUserCF.String() || s == SourceItemCF.String() {
			t.Errorf("collaborative source %q reported with no collaborative data", s)
		}
	}
}

func TestColdStartNeverEmptyWithNonEmptyPool(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	b := NewBlender(cfg)
	prefs := NewPreferenceModel(cfg.Preferences)

	// No candidate meets the quality floor and none matches the declared
	// preferences: progressive loosening must still return something.
	pool := []Candidate{
		{ID: 1, Genres: []string{"Horror"}, OriginalLanguage: "en", VoteAverage: 4.0, VoteCount: 10},
		{ID: 2, Genres: []string{"Horror"}, OriginalLanguage: "en", VoteAverage: 3.0, VoteCount: 5},
	}
	declared := map[string]struct{}{"Comedy": {}}

	items := b.ColdStart(prefs, declared, nil, NewSeenSet(), pool, 10)
	if len(items) == 0 {
		t.Fatal("cold start with a non-empty pool must not be empty")
	}
	if items[0].CandidateID != 1 {
		t.Errorf("top item = %d, want 1 (highest rating)", items[0].CandidateID)
	}
	for _, item := range items {
		if item.Source != SourceColdStart {
			t.Errorf("item %d source = %v, want %v", item.CandidateID, item.Source, SourceColdStart)
		}
	}
}

func TestColdStartDeclaredPreferencesFirst(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	b := NewBlender(cfg)
	prefs := NewPreferenceModel(cfg.Preferences)

	declared := map[string]struct{}{"Comedy": {}}
	items := b.ColdStart(prefs, declared, nil, NewSeenSet(), testPool(), 2)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	// Comedy matches candidates 3 and 5; the non-empty intersection is used
	// exclusively, ordered by rating.
	if items[0].CandidateID != 3 || items[1].CandidateID != 5 {
		t.Errorf("items = [%d, %d], want [3, 5]", items[0].CandidateID, items[1].CandidateID)
	}
}

func TestColdStartRespectsSeenSet(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	b := NewBlender(cfg)
	prefs := NewPreferenceModel(cfg.Preferences)

	seen := NewSeenSet()
	seen.Add(4)

	items := b.ColdStart(prefs, nil, nil, seen, testPool(), 10)
	for _, item := range items {
		if item.CandidateID == 4 {
			t.Error("seen candidate 4 reappeared in cold start")
		}
	}
}

func TestNormalizeByMax(t *testing.T) {
	t.Parallel()

	scores := map[int]float64{1: 2.0, 2: 4.0, 3: 0}
	got := normalizeByMax(scores)
	if !approx(got[2], 1.0) {
		t.Errorf("max score should normalize to 1.0, got %f", got[2])
	}
	if !approx(got[1], 0.5) {
		t.Errorf("half-max score should normalize to 0.5, got %f", got[1])
	}
	if got[3] != 0 {
		t.Errorf("zero score should stay zero, got %f", got[3])
	}
}

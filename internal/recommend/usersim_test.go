// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package recommend

import (
	"testing"
)

func TestSimilarityNoSharedCandidates(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	a := NewPreferenceModel(cfg.Preferences)
	b := NewPreferenceModel(cfg.Preferences)

	a.ApplyAction(action(1, ActionLike, []string{"Drama"}, "en"), "")
	b.ApplyAction(action(2, ActionLike, []string{"Drama"}, "en"), "")

	sim := similarity(a, b, cfg.UserSim)
	if sim.Score != 0 || sim.CommonLikes != 0 {
		t.Errorf("users with no shared candidates should score zero, got %+v", sim)
	}
}

func TestSimilaritySharedLikesDisjointTastes(t *testing.T) {
	t.Parallel()

	// Four mutually liked titles but no overlap in genres or languages:
	// agreement is perfect, both overlap components are zero, so the score is
	// exactly the agreement weight share.
	cfg := DefaultConfig()
	a := NewPreferenceModel(cfg.Preferences)
	b := NewPreferenceModel(cfg.Preferences)

	for id := 1; id <= 4; id++ {
		a.ApplyAction(action(id, ActionLike, []string{"Horror"}, "en"), "")
		b.ApplyAction(action(id, ActionLike, []string{"Comedy"}, "fr"), "")
	}

	sim := similarity(a, b, cfg.UserSim)
	if sim.CommonLikes != 4 {
		t.Errorf("commonLikes = %d, want 4", sim.CommonLikes)
	}
	want := cfg.UserSim.AgreementWeight /
		(cfg.UserSim.AgreementWeight + cfg.UserSim.GenreWeight + cfg.UserSim.LanguageWeight)
	if !approx(sim.Score, want) {
		t.Errorf("score = %f, want %f", sim.Score, want)
	}
}

func TestSimilarityIdenticalHistories(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	a := NewPreferenceModel(cfg.Preferences)
	b := NewPreferenceModel(cfg.Preferences)

	for id := 1; id <= 3; id++ {
		a.ApplyAction(action(id, ActionLike, []string{"Drama", "Crime"}, "en"), "")
		b.ApplyAction(action(id, ActionLike, []string{"Drama", "Crime"}, "en"), "")
	}

	sim := similarity(a, b, cfg.UserSim)
	if !approx(sim.Score, 1.0) {
		t.Errorf("identical users should score 1.0, got %f", sim.Score)
	}
}

func TestSimilarityDisagreementDilutes(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	a := NewPreferenceModel(cfg.Preferences)
	b := NewPreferenceModel(cfg.Preferences)

	// Same genres and languages, but one mutual like and one disagreement.
	a.ApplyAction(action(1, ActionLike, []string{"Drama"}, "en"), "")
	b.ApplyAction(action(1, ActionLike, []string{"Drama"}, "en"), "")
	a.ApplyAction(action(2, ActionLike, []string{"Drama"}, "en"), "")
	b.ApplyAction(action(2, ActionPass, []string{"Drama"}, "en"), "")

	agree := similarity(a, a, cfg.UserSim)
	mixed := similarity(a, b, cfg.UserSim)
	if mixed.Score >= agree.Score {
		t.Errorf("disagreement should lower the score: mixed %f >= agree %f", mixed.Score, agree.Score)
	}
	if mixed.CommonLikes != 1 {
		t.Errorf("commonLikes = %d, want 1", mixed.CommonLikes)
	}
}

func TestAgreementPoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b ActionKind
		want float64
	}{
		{"mutual like", ActionLike, ActionLike, agreementMutualLike},
		{"mutual pass", ActionPass, ActionPass, agreementMutualPass},
		{"like vs unwatched", ActionLike, ActionUnwatched, agreementLikeUnseen},
		{"unwatched vs like", ActionUnwatched, ActionLike, agreementLikeUnseen},
		{"like vs pass", ActionLike, ActionPass, agreementDisagreement},
		{"pass vs unwatched", ActionPass, ActionUnwatched, agreementDisagreement},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := agreementPoints(tc.a, tc.b); got != tc.want {
				t.Errorf("agreementPoints(%v, %v) = %f, want %f", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestJaccard(t *testing.T) {
	t.Parallel()

	set := func(items ...string) map[string]struct{} {
		m := make(map[string]struct{}, len(items))
		for _, s := range items {
			m[s] = struct{}{}
		}
		return m
	}

	tests := []struct {
		name string
		a, b map[string]struct{}
		want float64
	}{
		{"both empty", nil, nil, 0},
		{"one empty", set("Drama"), nil, 0},
		{"disjoint", set("Drama"), set("Comedy"), 0},
		{"identical", set("Drama", "Crime"), set("Drama", "Crime"), 1},
		{"partial", set("Drama", "Crime"), set("Drama", "Comedy"), 1.0 / 3.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := jaccard(tc.a, tc.b); !approx(got, tc.want) {
				t.Errorf("jaccard = %f, want %f", got, tc.want)
			}
		})
	}
}

// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package recommend

// Action-agreement weights over movies both users acted on. Mutual likes are
// the strongest signal, mutual passes moderate, a like against an unwatched
// is weak, and outright disagreement is near zero.
const (
	agreementMutualLike   = 1.0
	agreementMutualPass   = 0.6
	agreementLikeUnseen   = 0.2
	agreementDisagreement = 0.05
)

// UserSimilarity is the pairwise affinity between two users.
type UserSimilarity struct {
	// Score is the weighted similarity in [0, 1].
	Score float64

	// CommonLikes is the number of mutually liked titles.
	CommonLikes int
}

// similarity computes pairwise user affinity on demand. It is a weighted
// sum of action agreement, liked-genre overlap and language-preference
// overlap; the component weights are fixed configuration summing to the
// scorer's full range. Users with zero shared acted-on candidates score
// zero and are excluded from collaborative contribution by the caller.
func similarity(a, b *PreferenceModel, cfg UserSimConfig) UserSimilarity {
	shared := 0
	commonLikes := 0
	var agreement float64

	for id, actA := range a.lastAction {
		actB, ok := b.lastAction[id]
		if !ok {
			continue
		}
		shared++
		agreement += agreementPoints(actA.Kind, actB.Kind)
		if actA.Kind == ActionLike && actB.Kind == ActionLike {
			commonLikes++
		}
	}

	if shared == 0 {
		return UserSimilarity{}
	}

	agreementScore := agreement / float64(shared)
	genreOverlap := jaccard(a.LikedGenres(), b.LikedGenres())
	languageOverlap := jaccard(a.PreferredLanguages(), b.PreferredLanguages())

	total := cfg.AgreementWeight + cfg.GenreWeight + cfg.LanguageWeight
	if total == 0 {
		return UserSimilarity{CommonLikes: commonLikes}
	}

	score := (cfg.AgreementWeight*agreementScore +
		cfg.GenreWeight*genreOverlap +
		cfg.LanguageWeight*languageOverlap) / total

	return UserSimilarity{Score: clamp01(score), CommonLikes: commonLikes}
}

// agreementPoints scores one shared candidate by how the two users agreed.
func agreementPoints(a, b ActionKind) float64 {
	switch {
	case a == ActionLike && b == ActionLike:
		return agreementMutualLike
	case a == ActionPass && b == ActionPass:
		return agreementMutualPass
	case (a == ActionLike && b == ActionUnwatched) || (a == ActionUnwatched && b == ActionLike):
		return agreementLikeUnseen
	default:
		return agreementDisagreement
	}
}

// jaccard computes set overlap, zero when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

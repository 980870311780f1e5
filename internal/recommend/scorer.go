// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package recommend

import "strings"

// ContentScorer scores one candidate against one preference model. The
// model is additive over weighted terms and the result is clamped into
// [0, 1] once, at the end of the pass. Scores are comparable only within a
// single scoring pass; they are not calibrated probabilities.
type ContentScorer struct {
	cfg ScoringConfig
}

// NewContentScorer creates a scorer with the given term weights.
func NewContentScorer(cfg ScoringConfig) *ContentScorer {
	return &ContentScorer{cfg: cfg}
}

// Score computes the content score for a candidate.
func (s *ContentScorer) Score(prefs *PreferenceModel, c Candidate) float64 {
	score := s.genreMatchTerm(prefs, c)
	score -= s.dislikeTerm(prefs, c)
	score += s.qualityTerm(c)
	score += s.languageTerm(prefs, c)
	score += s.directorTerm(prefs, c)
	return clamp01(score)
}

// genreMatchTerm is the fraction of candidate genres present in the liked
// set, weighted by their window counts and normalized so a candidate whose
// every genre fills the window scores the full GenreMatchWeight.
func (s *ContentScorer) genreMatchTerm(prefs *PreferenceModel, c Candidate) float64 {
	genres := validGenres(c.Genres)
	if len(genres) == 0 {
		return 0
	}

	windowSize := prefs.cfg.WindowSize
	var acc float64
	for _, g := range genres {
		if count := prefs.LikedGenreCount(g); count > 0 {
			acc += float64(count) / float64(windowSize)
		}
	}
	return s.cfg.GenreMatchWeight * acc / float64(len(genres))
}

// dislikeTerm subtracts a fixed weight per disliked candidate genre. When
// the anime penalty fires it supersedes the generic Animation penalty: the
// two are mutually exclusive and never stack on one score.
func (s *ContentScorer) dislikeTerm(prefs *PreferenceModel, c Candidate) float64 {
	animePenalty := DetectAnime(c) && prefs.AnimePenaltyActive()

	var penalty float64
	if animePenalty {
		penalty += s.cfg.AnimePenalty
	}
	for _, g := range validGenres(c.Genres) {
		if !prefs.IsGenreDisliked(g) {
			continue
		}
		if animePenalty && g == animationGenre {
			// Superseded by the anime penalty above.
			continue
		}
		penalty += s.cfg.GenreDislikePenalty
	}
	return penalty
}

// qualityTerm is a fixed bonus for candidates clearing both quality floors.
func (s *ContentScorer) qualityTerm(c Candidate) float64 {
	if c.VoteAverage >= s.cfg.QualityMinRating && c.VoteCount >= s.cfg.QualityMinVotes {
		return s.cfg.QualityBoost
	}
	return 0
}

// languageTerm is a boost proportional to the user's weight for the
// candidate's language, normalized by the strongest language weight. It is
// never a hard filter: an unpreferred language only scores lower, it stays
// eligible.
func (s *ContentScorer) languageTerm(prefs *PreferenceModel, c Candidate) float64 {
	if c.OriginalLanguage == "" {
		return 0
	}
	max := prefs.maxLanguageWeight()
	if max == 0 {
		return 0
	}
	return s.cfg.LanguageBoostWeight * prefs.LanguageWeight(c.OriginalLanguage) / max
}

// directorTerm is a bonus scaled by the user's affinity for the candidate's
// director, zero when the director is unknown or unseen.
func (s *ContentScorer) directorTerm(prefs *PreferenceModel, c Candidate) float64 {
	if c.Director == "" {
		return 0
	}
	return s.cfg.DirectorBoostWeight * prefs.DirectorAffinity(c.Director)
}

// validGenres filters out blank genre strings.
func validGenres(genres []string) []string {
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		if g != "" {
			out = append(out, g)
		}
	}
	return out
}

// clamp01 clamps a score into the scorer's fixed [0, 1] output range.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

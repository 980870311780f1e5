// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package recommend

import (
	"fmt"
	"time"
)

// Config contains all tunable parameters for the recommendation engine.
// The blend weights and the dislike threshold are deliberately configuration,
// not invariants: they have drifted across product iterations and a weight
// change must be a single edit here, never a parallel copy of scoring logic.
type Config struct {
	// Blend defines the relative contribution of each blend stage.
	Blend BlendWeights `json:"blend"`

	// Scoring contains content-scorer term weights.
	Scoring ScoringConfig `json:"scoring"`

	// Preferences contains preference-model parameters.
	Preferences PreferenceConfig `json:"preferences"`

	// ItemSim contains item-similarity table parameters.
	ItemSim ItemSimConfig `json:"item_sim"`

	// UserSim contains user-similarity parameters.
	UserSim UserSimConfig `json:"user_sim"`

	// ColdStart contains cold-start fallback parameters.
	ColdStart ColdStartConfig `json:"cold_start"`

	// Limits contains operational caps.
	Limits LimitsConfig `json:"limits"`

	// Cache contains recommendation-cache parameters.
	Cache CacheConfig `json:"cache"`
}

// BlendWeights defines the relative contribution of each blend stage.
// Weights are normalized at runtime, so they don't need to sum to 1.0.
type BlendWeights struct {
	// Content is the weight of the content scorer.
	Content float64 `json:"content"`

	// UserCF is the weight of user-based collaborative filtering.
	UserCF float64 `json:"user_cf"`

	// ItemCF is the weight of item-based collaborative filtering.
	ItemCF float64 `json:"item_cf"`
}

// Normalize returns a copy with weights summing to 1.0.
func (w BlendWeights) Normalize() BlendWeights {
	sum := w.Content + w.UserCF + w.ItemCF
	if sum == 0 {
		return BlendWeights{Content: 1.0 / 3, UserCF: 1.0 / 3, ItemCF: 1.0 / 3}
	}
	return BlendWeights{
		Content: w.Content / sum,
		UserCF:  w.UserCF / sum,
		ItemCF:  w.ItemCF / sum,
	}
}

// ScoringConfig contains content-scorer term weights. The final score is
// additive over these terms and clamped into [0, 1]; clamping happens once,
// at the end of a scoring pass.
type ScoringConfig struct {
	// GenreMatchWeight scales the liked-genre match term.
	GenreMatchWeight float64 `json:"genre_match_weight"`

	// GenreDislikePenalty is subtracted once per disliked candidate genre.
	GenreDislikePenalty float64 `json:"genre_dislike_penalty"`

	// AnimePenalty is subtracted for Japanese-animated candidates when the
	// user dislikes Animation. It supersedes, and never stacks with, the
	// generic Animation dislike penalty.
	AnimePenalty float64 `json:"anime_penalty"`

	// QualityBoost is added when a candidate clears both quality floors.
	QualityBoost float64 `json:"quality_boost"`

	// QualityMinRating is the vote-average floor for the quality boost.
	QualityMinRating float64 `json:"quality_min_rating"`

	// QualityMinVotes is the vote-count floor for the quality boost.
	QualityMinVotes int `json:"quality_min_votes"`

	// LanguageBoostWeight scales the language preference boost. Language is
	// a boost only, never a hard filter.
	LanguageBoostWeight float64 `json:"language_boost_weight"`

	// DirectorBoostWeight scales the director affinity bonus.
	DirectorBoostWeight float64 `json:"director_boost_weight"`
}

// PreferenceConfig contains preference-model parameters.
type PreferenceConfig struct {
	// WindowSize is the rolling window length per genre.
	WindowSize int `json:"window_size"`

	// DislikeThreshold is the number of passes within the window at which a
	// genre enters the disliked set.
	DislikeThreshold int `json:"dislike_threshold"`

	// LanguageDecay is the multiplicative decay applied to every language
	// weight before the acted language is incremented, so preferences drift
	// toward recent behavior.
	LanguageDecay float64 `json:"language_decay"`

	// DirectorAffinityStep is the affinity increment per liked title.
	DirectorAffinityStep float64 `json:"director_affinity_step"`
}

// ItemSimConfig contains item-similarity table parameters.
type ItemSimConfig struct {
	// MinInteractions is the sparse-data guard: pairs co-acted-on by fewer
	// users are excluded from the table entirely.
	MinInteractions int `json:"min_interactions"`

	// MaxPartners caps stored partners per title.
	MaxPartners int `json:"max_partners"`

	// RebuildInterval is the batch rebuild schedule.
	RebuildInterval time.Duration `json:"rebuild_interval"`
}

// UserSimConfig contains user-similarity parameters.
type UserSimConfig struct {
	// AgreementWeight scales the action-agreement component.
	AgreementWeight float64 `json:"agreement_weight"`

	// GenreWeight scales the liked-genre Jaccard component.
	GenreWeight float64 `json:"genre_weight"`

	// LanguageWeight scales the language-preference Jaccard component.
	LanguageWeight float64 `json:"language_weight"`

	// Threshold is the minimum similarity for a user to contribute to
	// blending.
	Threshold float64 `json:"threshold"`

	// MaxCandidateUsers caps how many other users are compared per request.
	MaxCandidateUsers int `json:"max_candidate_users"`
}

// ColdStartConfig contains cold-start fallback parameters.
type ColdStartConfig struct {
	// MinActions is the action count below which collaborative stages are
	// skipped entirely.
	MinActions int `json:"min_actions"`

	// MinRating is the vote-average floor for cold-start candidates.
	MinRating float64 `json:"min_rating"`

	// MinVotes is the vote-count floor for cold-start candidates.
	MinVotes int `json:"min_votes"`
}

// LimitsConfig contains operational caps. Every Blender run has a bounded
// worst-case cost: the candidate pool, similar-user set and similarity
// lookups are all capped, with deterministic truncation.
type LimitsConfig struct {
	// DefaultLimit is the default result count.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit is the maximum allowed result count.
	MaxLimit int `json:"max_limit"`

	// MaxCandidates caps the candidate pool per request.
	MaxCandidates int `json:"max_candidates"`
}

// CacheConfig contains recommendation-cache parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	Enabled bool `json:"enabled"`

	// TTL is the freshness window of a cache entry.
	TTL time.Duration `json:"ttl"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Blend: BlendWeights{
			Content: 0.3,
			UserCF:  0.4,
			ItemCF:  0.3,
		},
		Scoring: ScoringConfig{
			GenreMatchWeight:    0.5,
			GenreDislikePenalty: 0.15,
			AnimePenalty:        0.4,
			QualityBoost:        0.1,
			QualityMinRating:    8.0,
			QualityMinVotes:     1000,
			LanguageBoostWeight: 0.1,
			DirectorBoostWeight: 0.15,
		},
		Preferences: PreferenceConfig{
			WindowSize:           5,
			DislikeThreshold:     2,
			LanguageDecay:        0.95,
			DirectorAffinityStep: 0.2,
		},
		ItemSim: ItemSimConfig{
			MinInteractions: 3,
			MaxPartners:     50,
			RebuildInterval: 6 * time.Hour,
		},
		UserSim: UserSimConfig{
			AgreementWeight:   0.5,
			GenreWeight:       0.3,
			LanguageWeight:    0.2,
			Threshold:         0.2,
			MaxCandidateUsers: 200,
		},
		ColdStart: ColdStartConfig{
			MinActions: 10,
			MinRating:  7.0,
			MinVotes:   500,
		},
		Limits: LimitsConfig{
			DefaultLimit:  20,
			MaxLimit:      100,
			MaxCandidates: 1000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     24 * time.Hour,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Preferences.WindowSize < 1 {
		return fmt.Errorf("preferences.window_size must be positive, got %d", c.Preferences.WindowSize)
	}
	if c.Preferences.DislikeThreshold < 1 || c.Preferences.DislikeThreshold > c.Preferences.WindowSize {
		return fmt.Errorf("preferences.dislike_threshold must be in [1, window_size], got %d", c.Preferences.DislikeThreshold)
	}
	if c.Preferences.LanguageDecay <= 0 || c.Preferences.LanguageDecay > 1 {
		return fmt.Errorf("preferences.language_decay must be in (0, 1], got %f", c.Preferences.LanguageDecay)
	}
	if c.ItemSim.MinInteractions < 1 {
		return fmt.Errorf("item_sim.min_interactions must be positive, got %d", c.ItemSim.MinInteractions)
	}
	if c.UserSim.Threshold < 0 || c.UserSim.Threshold > 1 {
		return fmt.Errorf("user_sim.threshold must be in [0, 1], got %f", c.UserSim.Threshold)
	}
	if c.UserSim.MaxCandidateUsers < 1 {
		return fmt.Errorf("user_sim.max_candidate_users must be positive, got %d", c.UserSim.MaxCandidateUsers)
	}
	if c.ColdStart.MinActions < 0 {
		return fmt.Errorf("cold_start.min_actions must be non-negative, got %d", c.ColdStart.MinActions)
	}
	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.MaxCandidates < 1 {
		return fmt.Errorf("limits.max_candidates must be positive, got %d", c.Limits.MaxCandidates)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %v", c.Cache.TTL)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	cp := *c
	return &cp
}

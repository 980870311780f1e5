// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package recommend

import (
	"context"
	"time"
)

// ActionKind classifies a swipe action on a candidate title.
type ActionKind int

const (
	// ActionLike indicates the user swiped right on the title.
	ActionLike ActionKind = iota
	// ActionPass indicates the user swiped left on the title.
	ActionPass
	// ActionUnwatched indicates the user marked the title as not yet watched.
	ActionUnwatched
)

// String returns a human-readable name for the action kind.
func (k ActionKind) String() string {
	switch k {
	case ActionLike:
		return "like"
	case ActionPass:
		return "pass"
	case ActionUnwatched:
		return "unwatched"
	default:
		return "unknown"
	}
}

// ParseActionKind parses an action kind from its wire representation.
// Returns false for unknown kinds; unknown kinds are rejected at ingestion.
func ParseActionKind(s string) (ActionKind, bool) {
	switch s {
	case "like":
		return ActionLike, true
	case "pass":
		return ActionPass, true
	case "unwatched":
		return ActionUnwatched, true
	default:
		return 0, false
	}
}

// Action is an immutable swipe event. Actions are the only writable ground
// truth; all other engine state is derived from them. At most one Action per
// (user, candidate) pair is meaningful for preference purposes - a later
// Action supersedes the earlier one, while full history is retained for
// collaborative computation.
type Action struct {
	// UserID is the opaque user identifier.
	UserID string `json:"user_id"`

	// CandidateID is the catalog identifier of the title acted on.
	CandidateID int `json:"candidate_id"`

	// Kind is the swipe classification.
	Kind ActionKind `json:"kind"`

	// Genres is the genre set of the title as reported at swipe time.
	Genres []string `json:"genres"`

	// Language is the original language of the title.
	Language string `json:"language,omitempty"`

	// Timestamp is when the swipe occurred.
	Timestamp time.Time `json:"timestamp"`
}

// Candidate is the catalog metadata for one title. The catalog is an
// external collaborator; the engine never fetches titles itself.
type Candidate struct {
	// ID is the unique catalog identifier.
	ID int `json:"id"`

	// Title is the display title.
	Title string `json:"title,omitempty"`

	// Genres is the genre set of the title.
	Genres []string `json:"genres"`

	// OriginalLanguage is the ISO 639-1 original language code.
	OriginalLanguage string `json:"original_language,omitempty"`

	// VoteAverage is the community rating (0-10).
	VoteAverage float64 `json:"vote_average"`

	// VoteCount is the number of community votes.
	VoteCount int `json:"vote_count"`

	// Director is the credited director, when known.
	Director string `json:"director,omitempty"`

	// Popularity is a pre-computed catalog popularity metric.
	Popularity float64 `json:"popularity,omitempty"`
}

// Source identifies which stage of the blend a recommendation came from.
type Source int

const (
	// SourceContent indicates the content scorer dominated the blend.
	SourceContent Source = iota
	// SourceUserCF indicates user-based collaborative filtering dominated.
	SourceUserCF
	// SourceItemCF indicates item-based collaborative filtering dominated.
	SourceItemCF
	// SourceDiscovery indicates a reserved discovery slot.
	SourceDiscovery
	// SourceColdStart indicates the cold-start catalog fallback.
	SourceColdStart
)

// String returns the wire representation of the source.
func (s Source) String() string {
	switch s {
	case SourceContent:
		return "content"
	case SourceUserCF:
		return "user-cf"
	case SourceItemCF:
		return "item-cf"
	case SourceDiscovery:
		return "discovery"
	case SourceColdStart:
		return "cold-start"
	default:
		return "unknown"
	}
}

// ScoredCandidate is one ranked recommendation.
type ScoredCandidate struct {
	// CandidateID is the catalog identifier.
	CandidateID int `json:"candidate_id"`

	// Score is the blended score in [0, 1].
	Score float64 `json:"score"`

	// Source is the dominant contributing stage.
	Source Source `json:"-"`

	// SourceName is the JSON representation of Source.
	SourceName string `json:"source"`

	// Reason is an interpretable explanation for the recommendation.
	Reason string `json:"reason,omitempty"`

	// IsDiscovery marks candidates placed in reserved discovery slots.
	IsDiscovery bool `json:"is_discovery"`
}

// Request is a recommendation query.
type Request struct {
	// UserID is the user to recommend for.
	UserID string `json:"user_id"`

	// Limit is the number of recommendations to return.
	// Defaults to Config.Limits.DefaultLimit if zero.
	Limit int `json:"limit,omitempty"`

	// DiscoveryRatio is the fraction of slots reserved for discovery
	// candidates, in [0, 1].
	DiscoveryRatio float64 `json:"discovery_ratio"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// Response is an ordered recommendation list with diagnostics.
// An empty Items slice is a valid response, distinct from an error.
type Response struct {
	// Items is the ranked, deduplicated recommendation list.
	Items []ScoredCandidate `json:"items"`

	// ColdStart indicates the collaborative stages were skipped.
	ColdStart bool `json:"cold_start"`

	// Degraded indicates the result was computed without caching because
	// storage was unavailable.
	Degraded bool `json:"degraded,omitempty"`

	// Metadata contains timing and diagnostic information.
	Metadata ResponseMetadata `json:"metadata"`
}

// ResponseMetadata contains timing and diagnostic information.
type ResponseMetadata struct {
	// RequestID is the unique request identifier.
	RequestID string `json:"request_id"`

	// UserID is the user the recommendations are for.
	UserID string `json:"user_id"`

	// SourcesUsed lists the blend stages that contributed.
	SourcesUsed []string `json:"sources_used"`

	// LatencyMS is the total computation latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`

	// CacheHit indicates whether the result was served from cache.
	CacheHit bool `json:"cache_hit"`

	// TableVersion is the item-similarity table version used.
	TableVersion int `json:"table_version"`

	// ComputedAt is when the underlying ranking was computed.
	ComputedAt time.Time `json:"computed_at"`
}

// CatalogProvider supplies candidate metadata for a pool of titles.
// Implementations live outside the engine and are dependency-injected.
type CatalogProvider interface {
	// Candidates returns the current candidate pool.
	Candidates(ctx context.Context) ([]Candidate, error)

	// Candidate returns metadata for a single title.
	// The second return is false when the title is unknown.
	Candidate(ctx context.Context, id int) (Candidate, bool, error)
}

// Store persists the engine's logical state: the append-mostly action log,
// preference snapshots and per-user seen-sets. Implementations must be safe
// for concurrent use. A failing Store degrades the engine to compute-only
// operation; it never makes a request fail.
type Store interface {
	// AppendAction records an action in the log.
	AppendAction(ctx context.Context, a Action) error

	// DeleteAction removes the action for (user, candidate) from the log.
	DeleteAction(ctx context.Context, userID string, candidateID int) error

	// Actions returns the full action log.
	Actions(ctx context.Context) ([]Action, error)

	// MarkSeen adds candidate ids to the user's seen-set.
	MarkSeen(ctx context.Context, userID string, ids []int) error

	// UnmarkSeen removes one candidate id from the user's seen-set.
	UnmarkSeen(ctx context.Context, userID string, id int) error

	// SeenIDs returns the user's seen-set members.
	SeenIDs(ctx context.Context, userID string) ([]int, error)

	// SavePreferences stores the user's preference snapshot, replacing any
	// prior one. Snapshots are derivable from the action log; they exist so
	// warm start can skip replaying a user's history.
	SavePreferences(ctx context.Context, userID string, snap PreferenceSnapshot) error

	// Preferences returns the user's stored snapshot. The second return is
	// false when no snapshot exists.
	Preferences(ctx context.Context, userID string) (PreferenceSnapshot, bool, error)
}

// TopicActionRecorded is the event topic published after each accepted
// action. The similarity rebuild service subscribes to it so that batch
// recomputation is an explicit, auditable pipeline step rather than a
// storage side effect.
const TopicActionRecorded = "reelswipe.action.recorded"

// ActionEvent is the payload published on TopicActionRecorded.
type ActionEvent struct {
	UserID      string    `json:"user_id"`
	CandidateID int       `json:"candidate_id"`
	Kind        string    `json:"kind"`
	Undo        bool      `json:"undo,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

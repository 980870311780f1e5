// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package recommend

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Note: this package depends only on its injected interfaces. The
// CatalogProvider and Store interfaces allow integration with the catalog
// and storage packages without circular imports.

// Ingestion validation errors. Anything else degrades, never fails.
var (
	// ErrEmptyUserID rejects actions and queries without a user.
	ErrEmptyUserID = errors.New("empty user id")

	// ErrInvalidCandidate rejects non-positive candidate ids.
	ErrInvalidCandidate = errors.New("invalid candidate id")

	// ErrUnknownActionKind rejects action kinds outside the taxonomy.
	ErrUnknownActionKind = errors.New("unknown action kind")

	// ErrMalformedGenre rejects genre values that are not plausible names.
	ErrMalformedGenre = errors.New("malformed genre value")

	// ErrMalformedLanguage rejects language values that are not ISO codes.
	ErrMalformedLanguage = errors.New("malformed language value")

	// ErrNoSuchAction is returned by Undo when the user never acted on the
	// candidate.
	ErrNoSuchAction = errors.New("no action recorded for candidate")

	// ErrNoCatalog is returned when no catalog provider is configured.
	ErrNoCatalog = errors.New("catalog provider not set")
)

var (
	genreRe    = regexp.MustCompile(`^[\p{L}\p{N} &'\-]{1,64}$`)
	languageRe = regexp.MustCompile(`^[a-z]{2,3}$`)
)

// userState is the mutable per-user state. Actions for one user apply in
// arrival order under mu (the rolling window is order-sensitive); different
// users never contend.
type userState struct {
	mu                sync.Mutex
	prefs             *PreferenceModel
	seen              *SeenSet
	declaredGenres    map[string]struct{}
	declaredLanguages map[string]struct{}
}

// Metrics contains engine counters for observability.
type Metrics struct {
	RequestCount int64 `json:"request_count"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	ErrorCount   int64 `json:"error_count"`
	ActionCount  int64 `json:"action_count"`
	Users        int   `json:"users"`
	TableVersion int   `json:"table_version"`
	TablePairs   int   `json:"table_pairs"`
}

// Engine coordinates the preference models, similarity tables, blender and
// cache behind the public operations: RecordAction, Undo and Recommend.
// It is safe for concurrent use.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	blender *Blender
	cache   *RecommendationCache

	catalog   CatalogProvider
	store     Store
	publisher message.Publisher

	mu     sync.RWMutex
	users  map[string]*userState
	likers map[int]map[string]struct{}

	table        atomic.Pointer[ItemSimilarityTable]
	tableVersion atomic.Int32

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
	actionCount  atomic.Int64
}

// NewEngine creates a recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:  cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
		blender: NewBlender(cfg),
		cache:   NewRecommendationCache(cfg.Cache),
		users:   make(map[string]*userState),
		likers:  make(map[int]map[string]struct{}),
	}, nil
}

// SetCatalogProvider injects the external catalog collaborator.
func (e *Engine) SetCatalogProvider(cp CatalogProvider) {
	e.catalog = cp
}

// SetStore injects the persistence layer. The engine stays fully functional
// without one; it just loses durability.
func (e *Engine) SetStore(s Store) {
	e.store = s
}

// SetPublisher injects the event bus used to announce recorded actions.
func (e *Engine) SetPublisher(p message.Publisher) {
	e.publisher = p
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// WarmStart restores in-memory state from storage and rebuilds the
// similarity table. Call once at startup, before serving. Users with a
// preference snapshot matching their log skip the per-action replay; a
// missing or stale snapshot falls back to replaying that user's actions.
func (e *Engine) WarmStart(ctx context.Context) error {
	if e.store == nil {
		return nil
	}

	actions, err := e.store.Actions(ctx)
	if err != nil {
		return fmt.Errorf("load action log: %w", err)
	}

	// The rolling window is order-sensitive; replay in arrival order.
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Timestamp.Before(actions[j].Timestamp)
	})

	byUser := make(map[string][]Action)
	for _, a := range actions {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}

	var restored int
	for userID, userActions := range byUser {
		state := e.userStateFor(userID)

		replay := true
		snap, ok, err := e.store.Preferences(ctx, userID)
		switch {
		case err != nil:
			e.logger.Warn().Err(err).Str("user_id", userID).Msg("loading preference snapshot failed, replaying log")
		case ok && snap.ActionCount() == len(userActions):
			state.mu.Lock()
			state.prefs.RestoreSnapshot(snap)
			state.mu.Unlock()
			replay = false
			restored++
		case ok:
			e.logger.Warn().
				Str("user_id", userID).
				Int("snapshot_actions", snap.ActionCount()).
				Int("log_actions", len(userActions)).
				Msg("preference snapshot out of step with log, replaying")
		}

		for _, a := range userActions {
			if replay {
				director := e.lookupDirector(ctx, a.CandidateID)
				state.mu.Lock()
				state.prefs.ApplyAction(a, director)
				state.mu.Unlock()
			}
			state.mu.Lock()
			state.seen.Add(a.CandidateID)
			state.mu.Unlock()
			e.indexAction(a.UserID, a.CandidateID, a.Kind)
		}
	}

	e.mu.RLock()
	userIDs := make([]string, 0, len(e.users))
	for id := range e.users {
		userIDs = append(userIDs, id)
	}
	e.mu.RUnlock()

	for _, id := range userIDs {
		seenIDs, err := e.store.SeenIDs(ctx, id)
		if err != nil {
			e.logger.Warn().Err(err).Str("user_id", id).Msg("loading seen-set failed")
			continue
		}
		state := e.userStateFor(id)
		state.mu.Lock()
		state.seen.Add(seenIDs...)
		state.mu.Unlock()
	}

	e.RebuildSimilarities(ctx)

	e.logger.Info().
		Int("actions", len(actions)).
		Int("users", len(userIDs)).
		Int("snapshots_restored", restored).
		Msg("warm start complete")
	return nil
}

// RecordAction validates and ingests one swipe: it updates the preference
// model, marks the candidate seen, persists, invalidates the user's cache
// entry synchronously and publishes an action event. Duplicate submissions
// for a (user, candidate) pair supersede the earlier interpretation.
func (e *Engine) RecordAction(ctx context.Context, a Action) error {
	if err := validateAction(a); err != nil {
		e.errorCount.Add(1)
		return err
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}

	director := e.lookupDirector(ctx, a.CandidateID)

	state := e.userStateFor(a.UserID)
	state.mu.Lock()
	state.prefs.ApplyAction(a, director)
	state.seen.Add(a.CandidateID)
	state.mu.Unlock()

	e.indexAction(a.UserID, a.CandidateID, a.Kind)
	e.actionCount.Add(1)

	if e.store != nil {
		if err := e.store.AppendAction(ctx, a); err != nil {
			e.logger.Warn().Err(err).Str("user_id", a.UserID).Msg("persisting action failed, continuing degraded")
		}
		if err := e.store.MarkSeen(ctx, a.UserID, []int{a.CandidateID}); err != nil {
			e.logger.Warn().Err(err).Str("user_id", a.UserID).Msg("persisting seen-set failed, continuing degraded")
		}
		e.persistPreferences(ctx, a.UserID, state)
	}

	// Invalidation is an explicit pipeline step, not a storage trigger.
	e.cache.Invalidate(a.UserID)

	e.publishActionEvent(a, false)

	e.logger.Debug().
		Str("user_id", a.UserID).
		Int("candidate_id", a.CandidateID).
		Str("kind", a.Kind.String()).
		Msg("action recorded")
	return nil
}

// Undo removes the most recent action for a candidate: the preference
// model's rolling-window entry is reverted and the candidate leaves the
// seen-set, making it eligible to surface again.
func (e *Engine) Undo(ctx context.Context, userID string, candidateID int) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	if candidateID <= 0 {
		return ErrInvalidCandidate
	}

	state := e.userStateFor(userID)
	state.mu.Lock()
	removed, ok := state.prefs.UndoAction(candidateID)
	if ok {
		state.seen.Remove(candidateID)
	}
	state.mu.Unlock()

	if !ok {
		return ErrNoSuchAction
	}

	e.unindexAction(userID, candidateID)

	if e.store != nil {
		if err := e.store.DeleteAction(ctx, userID, candidateID); err != nil {
			e.logger.Warn().Err(err).Str("user_id", userID).Msg("deleting action failed, continuing degraded")
		}
		if err := e.store.UnmarkSeen(ctx, userID, candidateID); err != nil {
			e.logger.Warn().Err(err).Str("user_id", userID).Msg("unmarking seen failed, continuing degraded")
		}
		e.persistPreferences(ctx, userID, state)
	}

	e.cache.Invalidate(userID)
	e.publishActionEvent(removed, true)

	e.logger.Debug().
		Str("user_id", userID).
		Int("candidate_id", candidateID).
		Msg("action undone")
	return nil
}

// SetDeclaredPreferences records onboarding genre/language preferences used
// by the cold-start intersection.
func (e *Engine) SetDeclaredPreferences(userID string, genres, languages []string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	state := e.userStateFor(userID)
	state.mu.Lock()
	defer state.mu.Unlock()

	state.declaredGenres = make(map[string]struct{}, len(genres))
	for _, g := range genres {
		state.declaredGenres[g] = struct{}{}
	}
	state.declaredLanguages = make(map[string]struct{}, len(languages))
	for _, l := range languages {
		state.declaredLanguages[l] = struct{}{}
	}
	e.cache.Invalidate(userID)
	return nil
}

// Recommend returns the ranked list for a user, serving from cache inside
// the freshness window and computing single-flight on a miss. Served
// candidates are marked seen; merely scored ones are not.
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	if req.UserID == "" {
		e.errorCount.Add(1)
		return nil, ErrEmptyUserID
	}
	req = e.prepareRequest(req)

	if e.config.Cache.Enabled {
		if resp, ok := e.cache.Get(req.UserID, req.Limit, req.DiscoveryRatio); ok {
			e.cacheHits.Add(1)
			resp.Metadata.CacheHit = true
			resp.Metadata.RequestID = req.RequestID
			resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
			return resp, nil
		}
		e.cacheMisses.Add(1)
	}

	resp, err := e.cache.compute(req.UserID, req.Limit, req.DiscoveryRatio, func() (*Response, error) {
		// A concurrent flight may have populated the cache while this
		// request waited on the flight group.
		if e.config.Cache.Enabled {
			if cached, ok := e.cache.Get(req.UserID, req.Limit, req.DiscoveryRatio); ok {
				return cached, nil
			}
		}

		computed, err := e.computeRecommendations(ctx, req)
		if err != nil {
			return nil, err
		}
		if e.markServed(ctx, req.UserID, computed.Items) {
			if e.config.Cache.Enabled {
				e.cache.Put(req.UserID, req.Limit, req.DiscoveryRatio, computed)
			}
		} else {
			// The list is still valid; surface the storage failure and skip
			// caching so the next request retries persistence.
			computed.Degraded = true
		}
		return computed, nil
	})
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	resp.Metadata.RequestID = req.RequestID
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()

	e.logger.Debug().
		Str("request_id", req.RequestID).
		Str("user_id", req.UserID).
		Int("returned", len(resp.Items)).
		Bool("cold_start", resp.ColdStart).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")
	return resp, nil
}

// prepareRequest applies limit defaults and caps and clamps the ratio.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.Limit <= 0 {
		req.Limit = e.config.Limits.DefaultLimit
	}
	if req.Limit > e.config.Limits.MaxLimit {
		req.Limit = e.config.Limits.MaxLimit
	}
	if req.DiscoveryRatio < 0 {
		req.DiscoveryRatio = 0
	}
	if req.DiscoveryRatio > 1 {
		req.DiscoveryRatio = 1
	}
	return req
}

// computeRecommendations runs one full blender (or cold-start) pass.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) computeRecommendations(ctx context.Context, req Request) (*Response, error) {
	if e.catalog == nil {
		return nil, ErrNoCatalog
	}

	pool, err := e.catalog.Candidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch candidate pool: %w", err)
	}
	pool = capPool(pool, e.config.Limits.MaxCandidates)

	// Snapshot the user's state so a concurrent swipe never races the
	// scoring pass and no cross-user locks are held during the blend.
	state := e.userStateFor(req.UserID)
	state.mu.Lock()
	prefs := state.prefs.clone()
	seen := state.seen.clone()
	declaredGenres := state.declaredGenres
	declaredLanguages := state.declaredLanguages
	state.mu.Unlock()

	table := e.table.Load()

	resp := &Response{
		Metadata: ResponseMetadata{
			UserID:     req.UserID,
			ComputedAt: time.Now(),
		},
	}
	if table != nil {
		resp.Metadata.TableVersion = table.Version
	}

	if prefs.ActionCount() < e.config.ColdStart.MinActions {
		resp.ColdStart = true
		resp.Items = e.blender.ColdStart(prefs, declaredGenres, declaredLanguages, seen, pool, req.Limit)
		resp.Metadata.SourcesUsed = []string{SourceColdStart.String()}
		return resp, nil
	}

	neighbors := e.similarNeighbors(req.UserID, prefs)

	result := e.blender.Blend(blendInput{
		prefs:          prefs,
		seen:           seen,
		pool:           pool,
		table:          table,
		neighbors:      neighbors,
		limit:          req.Limit,
		discoveryRatio: req.DiscoveryRatio,
	})

	resp.Items = result.items
	resp.Metadata.SourcesUsed = result.sources
	if resp.Items == nil {
		resp.Items = []ScoredCandidate{}
	}
	return resp, nil
}

// similarNeighbors finds users above the similarity threshold among those
// sharing at least one liked movie, capped deterministically by shared-like
// count. Similarity is recomputed per request; it is cheap relative to the
// storage churn of persisting it.
func (e *Engine) similarNeighbors(userID string, prefs *PreferenceModel) []similarNeighbor {
	sharedLikes := make(map[string]int)

	e.mu.RLock()
	for _, likedID := range prefs.LikedCandidates() {
		for other := range e.likers[likedID] {
			if other != userID {
				sharedLikes[other]++
			}
		}
	}
	e.mu.RUnlock()

	if len(sharedLikes) == 0 {
		return nil
	}

	candidates := make([]string, 0, len(sharedLikes))
	for other := range sharedLikes {
		candidates = append(candidates, other)
	}
	// Deterministic truncation: strongest prior signal first.
	sort.Slice(candidates, func(i, j int) bool {
		if sharedLikes[candidates[i]] != sharedLikes[candidates[j]] {
			return sharedLikes[candidates[i]] > sharedLikes[candidates[j]]
		}
		return candidates[i] < candidates[j]
	})
	if len(candidates) > e.config.UserSim.MaxCandidateUsers {
		candidates = candidates[:e.config.UserSim.MaxCandidateUsers]
	}

	neighbors := make([]similarNeighbor, 0, len(candidates))
	for _, other := range candidates {
		state := e.userStateFor(other)
		state.mu.Lock()
		sim := similarity(prefs, state.prefs, e.config.UserSim)
		likes := state.prefs.LikedCandidates()
		state.mu.Unlock()

		if sim.Score < e.config.UserSim.Threshold {
			continue
		}
		neighbors = append(neighbors, similarNeighbor{
			userID: other,
			score:  sim.Score,
			likes:  likes,
		})
	}
	return neighbors
}

// Similarity exposes the pairwise user similarity for diagnostics.
func (e *Engine) Similarity(userA, userB string) UserSimilarity {
	a := e.userStateFor(userA)
	a.mu.Lock()
	prefsA := a.prefs.clone()
	a.mu.Unlock()

	b := e.userStateFor(userB)
	b.mu.Lock()
	defer b.mu.Unlock()
	return similarity(prefsA, b.prefs, e.config.UserSim)
}

// markServed records actually-returned candidates in the seen-set. Scoring
// alone never marks a candidate seen. The return reports whether the
// seen-set was persisted; an absent store counts as persisted since nothing
// was lost.
func (e *Engine) markServed(ctx context.Context, userID string, items []ScoredCandidate) bool {
	if len(items) == 0 {
		return true
	}
	ids := make([]int, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.CandidateID)
	}

	state := e.userStateFor(userID)
	state.mu.Lock()
	state.seen.Add(ids...)
	state.mu.Unlock()

	if e.store != nil {
		if err := e.store.MarkSeen(ctx, userID, ids); err != nil {
			e.logger.Warn().Err(err).Str("user_id", userID).Msg("persisting served seen-set failed, continuing degraded")
			return false
		}
	}
	return true
}

// persistPreferences stores the user's current preference snapshot so the
// next warm start can restore this user without replaying the log.
func (e *Engine) persistPreferences(ctx context.Context, userID string, state *userState) {
	state.mu.Lock()
	snap := state.prefs.Snapshot()
	state.mu.Unlock()

	if err := e.store.SavePreferences(ctx, userID, snap); err != nil {
		e.logger.Warn().Err(err).Str("user_id", userID).Msg("persisting preference snapshot failed, continuing degraded")
	}
}

// RebuildSimilarities recomputes the item-similarity table in batch and
// swaps it in wholesale, so readers never observe a partial rebuild.
func (e *Engine) RebuildSimilarities(ctx context.Context) {
	start := time.Now()
	actions := e.collectActions(ctx)

	version := int(e.tableVersion.Add(1))
	table := BuildItemSimilarityTable(actions, e.config.ItemSim, version)
	e.table.Store(table)

	e.logger.Info().
		Int("version", version).
		Int("pairs", table.Len()).
		Int("actions", len(actions)).
		Dur("duration", time.Since(start)).
		Msg("item similarity table rebuilt")
}

// collectActions prefers the persisted log and falls back to in-memory
// superseding actions when storage is unavailable.
func (e *Engine) collectActions(ctx context.Context) []Action {
	if e.store != nil {
		actions, err := e.store.Actions(ctx)
		if err == nil {
			return actions
		}
		e.logger.Warn().Err(err).Msg("reading action log failed, rebuilding from memory")
	}

	var actions []Action
	e.mu.RLock()
	ids := make([]string, 0, len(e.users))
	for id := range e.users {
		ids = append(ids, id)
	}
	e.mu.RUnlock()

	for _, id := range ids {
		state := e.userStateFor(id)
		state.mu.Lock()
		for _, a := range state.prefs.lastAction {
			actions = append(actions, a)
		}
		state.mu.Unlock()
	}
	return actions
}

// SimilarityTable returns the live table snapshot, nil before first build.
func (e *Engine) SimilarityTable() *ItemSimilarityTable {
	return e.table.Load()
}

// Metrics returns the current engine counters.
func (e *Engine) Metrics() Metrics {
	e.mu.RLock()
	users := len(e.users)
	e.mu.RUnlock()

	m := Metrics{
		RequestCount: e.requestCount.Load(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
		ErrorCount:   e.errorCount.Load(),
		ActionCount:  e.actionCount.Load(),
		Users:        users,
	}
	if t := e.table.Load(); t != nil {
		m.TableVersion = t.Version
		m.TablePairs = t.Len()
	}
	return m
}

// userStateFor returns the state for a user, creating it on first
// interaction.
func (e *Engine) userStateFor(userID string) *userState {
	e.mu.RLock()
	state, ok := e.users[userID]
	e.mu.RUnlock()
	if ok {
		return state
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if state, ok = e.users[userID]; ok {
		return state
	}
	state = &userState{
		prefs: NewPreferenceModel(e.config.Preferences),
		seen:  NewSeenSet(),
	}
	e.users[userID] = state
	return state
}

// indexAction maintains the liked-by inverted index behind user-CF
// candidate discovery.
func (e *Engine) indexAction(userID string, candidateID int, kind ActionKind) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if kind == ActionLike {
		if e.likers[candidateID] == nil {
			e.likers[candidateID] = make(map[string]struct{})
		}
		e.likers[candidateID][userID] = struct{}{}
		return
	}
	// A superseding non-like removes any earlier like.
	if set, ok := e.likers[candidateID]; ok {
		delete(set, userID)
		if len(set) == 0 {
			delete(e.likers, candidateID)
		}
	}
}

// unindexAction removes a user's like on undo.
func (e *Engine) unindexAction(userID string, candidateID int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if set, ok := e.likers[candidateID]; ok {
		delete(set, userID)
		if len(set) == 0 {
			delete(e.likers, candidateID)
		}
	}
}

// lookupDirector resolves the director credit for affinity updates,
// empty when the catalog cannot answer.
func (e *Engine) lookupDirector(ctx context.Context, candidateID int) string {
	if e.catalog == nil {
		return ""
	}
	c, ok, err := e.catalog.Candidate(ctx, candidateID)
	if err != nil || !ok {
		return ""
	}
	return c.Director
}

// publishActionEvent announces a recorded or undone action on the event
// bus. Publishing is best-effort; the synchronous invalidation above is
// what guarantees correctness.
func (e *Engine) publishActionEvent(a Action, undo bool) {
	if e.publisher == nil {
		return
	}
	payload, err := json.Marshal(ActionEvent{
		UserID:      a.UserID,
		CandidateID: a.CandidateID,
		Kind:        a.Kind.String(),
		Undo:        undo,
		Timestamp:   a.Timestamp,
	})
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := e.publisher.Publish(TopicActionRecorded, msg); err != nil {
		e.logger.Warn().Err(err).Msg("publishing action event failed")
	}
}

// validateAction applies the ingestion taxonomy: unknown kinds and
// malformed genre or language values reject the action outright.
func validateAction(a Action) error {
	if a.UserID == "" {
		return ErrEmptyUserID
	}
	if a.CandidateID <= 0 {
		return ErrInvalidCandidate
	}
	switch a.Kind {
	case ActionLike, ActionPass, ActionUnwatched:
	default:
		return ErrUnknownActionKind
	}
	for _, g := range a.Genres {
		if g == "" {
			// Unknown genre strings are a scoring no-op, not an error.
			continue
		}
		if !genreRe.MatchString(g) {
			return fmt.Errorf("%w: %q", ErrMalformedGenre, g)
		}
	}
	if a.Language != "" && !languageRe.MatchString(a.Language) {
		return fmt.Errorf("%w: %q", ErrMalformedLanguage, a.Language)
	}
	return nil
}

// capPool truncates the candidate pool deterministically, keeping the
// strongest prior signal (popularity, then id) first.
func capPool(pool []Candidate, max int) []Candidate {
	if len(pool) <= max {
		return pool
	}
	sorted := append([]Candidate(nil), pool...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Popularity != sorted[j].Popularity {
			return sorted[i].Popularity > sorted[j].Popularity
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted[:max]
}

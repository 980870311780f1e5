// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package recommend

import (
	"sort"
	"strings"
)

// animationGenre is the genre name the anime penalty keys on.
const animationGenre = "Animation"

// japaneseLanguage is the ISO 639-1 code the anime detector keys on.
const japaneseLanguage = "ja"

// languageWeightFloor is the weight below which a language no longer counts
// toward a user's preferred-language set.
const languageWeightFloor = 0.05

// genreObservation is one rolling-window entry. Windows are keyed by
// candidate id: a superseding action for the same candidate replaces the
// entry instead of appending, which makes reapplication idempotent.
type genreObservation struct {
	candidateID int
	kind        ActionKind
}

// PreferenceModel is the per-user preference aggregate derived from the
// action history. It is an explicit value owned by exactly one user and
// mutated only through ApplyAction and UndoAction; there is no ambient
// shared state. It is not safe for concurrent use - the engine serializes
// access per user.
type PreferenceModel struct {
	cfg PreferenceConfig

	// windows holds the last WindowSize genre-relevant observations per
	// genre, oldest first.
	windows map[string][]genreObservation

	// likedCounts and passCounts are derived from windows and kept in sync
	// on every mutation.
	likedCounts map[string]int
	passCounts  map[string]int

	// dislikedGenres holds genres where at least DislikeThreshold of the
	// window entries are passes. A genre is never simultaneously liked and
	// disliked within one scoring pass.
	dislikedGenres map[string]struct{}

	languageWeights  map[string]float64
	directorAffinity map[string]float64

	// lastAction is the superseding action per candidate.
	lastAction map[int]Action

	// lastDirector remembers the director credited when a like was applied,
	// so undo can revert the affinity increment.
	lastDirector map[int]string
}

// NewPreferenceModel creates an empty preference model.
func NewPreferenceModel(cfg PreferenceConfig) *PreferenceModel {
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = 5
	}
	if cfg.DislikeThreshold <= 0 {
		cfg.DislikeThreshold = 2
	}
	if cfg.LanguageDecay <= 0 || cfg.LanguageDecay > 1 {
		cfg.LanguageDecay = 0.95
	}
	if cfg.DirectorAffinityStep <= 0 {
		cfg.DirectorAffinityStep = 0.2
	}

	return &PreferenceModel{
		cfg:              cfg,
		windows:          make(map[string][]genreObservation),
		likedCounts:      make(map[string]int),
		passCounts:       make(map[string]int),
		dislikedGenres:   make(map[string]struct{}),
		languageWeights:  make(map[string]float64),
		directorAffinity: make(map[string]float64),
		lastAction:       make(map[int]Action),
		lastDirector:     make(map[int]string),
	}
}

// clone returns a deep copy for lock-free reads during a blend. The engine
// snapshots a user's model so a concurrent swipe never races a scoring pass.
func (p *PreferenceModel) clone() *PreferenceModel {
	cp := &PreferenceModel{
		cfg:              p.cfg,
		windows:          make(map[string][]genreObservation, len(p.windows)),
		likedCounts:      make(map[string]int, len(p.likedCounts)),
		passCounts:       make(map[string]int, len(p.passCounts)),
		dislikedGenres:   make(map[string]struct{}, len(p.dislikedGenres)),
		languageWeights:  make(map[string]float64, len(p.languageWeights)),
		directorAffinity: make(map[string]float64, len(p.directorAffinity)),
		lastAction:       make(map[int]Action, len(p.lastAction)),
		lastDirector:     make(map[int]string, len(p.lastDirector)),
	}
	for g, w := range p.windows {
		cp.windows[g] = append([]genreObservation(nil), w...)
	}
	for g, c := range p.likedCounts {
		cp.likedCounts[g] = c
	}
	for g, c := range p.passCounts {
		cp.passCounts[g] = c
	}
	for g := range p.dislikedGenres {
		cp.dislikedGenres[g] = struct{}{}
	}
	for l, w := range p.languageWeights {
		cp.languageWeights[l] = w
	}
	for d, w := range p.directorAffinity {
		cp.directorAffinity[d] = w
	}
	for id, a := range p.lastAction {
		cp.lastAction[id] = a
	}
	for id, d := range p.lastDirector {
		cp.lastDirector[id] = d
	}
	return cp
}

// WindowEntry is one serialized rolling-window observation.
type WindowEntry struct {
	CandidateID int        `json:"candidate_id"`
	Kind        ActionKind `json:"kind"`
}

// PreferenceSnapshot is the serializable form of a PreferenceModel, stored
// per user so a warm start can skip replaying that user's action history.
// Derived state (counts, disliked set) is recomputed on restore and is not
// part of the snapshot.
type PreferenceSnapshot struct {
	Windows          map[string][]WindowEntry `json:"windows,omitempty"`
	LanguageWeights  map[string]float64       `json:"language_weights,omitempty"`
	DirectorAffinity map[string]float64       `json:"director_affinity,omitempty"`
	LastAction       map[int]Action           `json:"last_action,omitempty"`
	LastDirector     map[int]string           `json:"last_director,omitempty"`
}

// ActionCount returns the number of candidates with a live action in the
// snapshot. Warm start compares it against the user's log to detect a
// snapshot that fell behind (for example after a failed save).
func (s PreferenceSnapshot) ActionCount() int {
	return len(s.LastAction)
}

// Snapshot exports the model's state for persistence.
func (p *PreferenceModel) Snapshot() PreferenceSnapshot {
	snap := PreferenceSnapshot{
		Windows:          make(map[string][]WindowEntry, len(p.windows)),
		LanguageWeights:  make(map[string]float64, len(p.languageWeights)),
		DirectorAffinity: make(map[string]float64, len(p.directorAffinity)),
		LastAction:       make(map[int]Action, len(p.lastAction)),
		LastDirector:     make(map[int]string, len(p.lastDirector)),
	}
	for g, w := range p.windows {
		entries := make([]WindowEntry, 0, len(w))
		for _, obs := range w {
			entries = append(entries, WindowEntry{CandidateID: obs.candidateID, Kind: obs.kind})
		}
		snap.Windows[g] = entries
	}
	for l, w := range p.languageWeights {
		snap.LanguageWeights[l] = w
	}
	for d, w := range p.directorAffinity {
		snap.DirectorAffinity[d] = w
	}
	for id, a := range p.lastAction {
		snap.LastAction[id] = a
	}
	for id, d := range p.lastDirector {
		snap.LastDirector[id] = d
	}
	return snap
}

// RestoreSnapshot replaces the model's state with a stored snapshot and
// recomputes the derived genre counts and disliked set.
func (p *PreferenceModel) RestoreSnapshot(snap PreferenceSnapshot) {
	p.windows = make(map[string][]genreObservation, len(snap.Windows))
	p.languageWeights = make(map[string]float64, len(snap.LanguageWeights))
	p.directorAffinity = make(map[string]float64, len(snap.DirectorAffinity))
	p.lastAction = make(map[int]Action, len(snap.LastAction))
	p.lastDirector = make(map[int]string, len(snap.LastDirector))
	p.likedCounts = make(map[string]int)
	p.passCounts = make(map[string]int)
	p.dislikedGenres = make(map[string]struct{})

	for g, entries := range snap.Windows {
		w := make([]genreObservation, 0, len(entries))
		for _, e := range entries {
			w = append(w, genreObservation{candidateID: e.CandidateID, kind: e.Kind})
		}
		p.windows[g] = w
	}
	for l, w := range snap.LanguageWeights {
		p.languageWeights[l] = w
	}
	for d, w := range snap.DirectorAffinity {
		p.directorAffinity[d] = w
	}
	for id, a := range snap.LastAction {
		p.lastAction[id] = a
	}
	for id, d := range snap.LastDirector {
		p.lastDirector[id] = d
	}
	for g := range p.windows {
		p.recomputeGenre(g)
	}
}

// DetectAnime reports whether a candidate is Japanese animation. The flag is
// computed from catalog metadata and never stored as model state.
func DetectAnime(c Candidate) bool {
	if c.OriginalLanguage != japaneseLanguage {
		return false
	}
	for _, g := range c.Genres {
		if g == animationGenre {
			return true
		}
	}
	return false
}

// ApplyAction folds one action into the model. The director is the catalog
// credit for the acted candidate, empty when unknown. Reapplying an
// identical action is a no-op; an action of a different kind for the same
// candidate supersedes the earlier one.
func (p *PreferenceModel) ApplyAction(a Action, director string) {
	prev, existed := p.lastAction[a.CandidateID]
	if existed && prev.Kind == a.Kind {
		// Duplicate submission - must not double-count.
		return
	}
	if existed {
		p.retract(prev)
	}

	for _, g := range a.Genres {
		g = strings.TrimSpace(g)
		if g == "" {
			// Unknown genre strings are ignored, not an error.
			continue
		}
		p.pushObservation(g, genreObservation{candidateID: a.CandidateID, kind: a.Kind})
		p.recomputeGenre(g)
	}

	p.applyLanguage(a.Language)

	if a.Kind == ActionLike && director != "" {
		p.directorAffinity[director] += p.cfg.DirectorAffinityStep
		if p.directorAffinity[director] > 1 {
			p.directorAffinity[director] = 1
		}
		p.lastDirector[a.CandidateID] = director
	}

	p.lastAction[a.CandidateID] = a
}

// UndoAction reverts the rolling-window entry for a candidate and the
// director affinity it contributed. Language drift is not reverted; only the
// window entry is. Returns the removed action and whether one existed.
func (p *PreferenceModel) UndoAction(candidateID int) (Action, bool) {
	prev, ok := p.lastAction[candidateID]
	if !ok {
		return Action{}, false
	}
	p.retract(prev)
	delete(p.lastAction, candidateID)
	return prev, true
}

// retract removes an action's window entries and director contribution.
func (p *PreferenceModel) retract(a Action) {
	for _, g := range a.Genres {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		p.removeObservation(g, a.CandidateID)
		p.recomputeGenre(g)
	}

	if a.Kind == ActionLike {
		if director, ok := p.lastDirector[a.CandidateID]; ok {
			p.directorAffinity[director] -= p.cfg.DirectorAffinityStep
			if p.directorAffinity[director] <= 0 {
				delete(p.directorAffinity, director)
			}
			delete(p.lastDirector, a.CandidateID)
		}
	}
}

// pushObservation appends to a genre window, evicting the oldest entry once
// the window is over capacity.
func (p *PreferenceModel) pushObservation(genre string, obs genreObservation) {
	w := p.windows[genre]

	// Keyed by candidate id: replace any prior entry for this candidate.
	for i := range w {
		if w[i].candidateID == obs.candidateID {
			w = append(w[:i], w[i+1:]...)
			break
		}
	}

	w = append(w, obs)
	if len(w) > p.cfg.WindowSize {
		w = w[len(w)-p.cfg.WindowSize:]
	}
	p.windows[genre] = w
}

// removeObservation drops a candidate's entry from a genre window.
func (p *PreferenceModel) removeObservation(genre string, candidateID int) {
	w := p.windows[genre]
	for i := range w {
		if w[i].candidateID == candidateID {
			w = append(w[:i], w[i+1:]...)
			break
		}
	}
	if len(w) == 0 {
		delete(p.windows, genre)
		return
	}
	p.windows[genre] = w
}

// recomputeGenre refreshes the derived counts and disliked membership for
// one genre after its window changed.
func (p *PreferenceModel) recomputeGenre(genre string) {
	var likes, passes int
	for _, obs := range p.windows[genre] {
		switch obs.kind {
		case ActionLike:
			likes++
		case ActionPass:
			passes++
		}
	}

	if likes == 0 {
		delete(p.likedCounts, genre)
	} else {
		p.likedCounts[genre] = likes
	}
	if passes == 0 {
		delete(p.passCounts, genre)
	} else {
		p.passCounts[genre] = passes
	}

	if passes >= p.cfg.DislikeThreshold {
		p.dislikedGenres[genre] = struct{}{}
	} else {
		delete(p.dislikedGenres, genre)
	}
}

// applyLanguage decays all language weights and increments the acted one.
// A missing language is a neutral bucket contributing zero weight.
func (p *PreferenceModel) applyLanguage(lang string) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return
	}
	for l := range p.languageWeights {
		p.languageWeights[l] *= p.cfg.LanguageDecay
		if p.languageWeights[l] < languageWeightFloor/10 {
			delete(p.languageWeights, l)
		}
	}
	p.languageWeights[lang]++
}

// LikedGenreCount returns the like count within the genre's window, zero for
// disliked genres so that a genre is never liked and disliked at once.
func (p *PreferenceModel) LikedGenreCount(genre string) int {
	if _, disliked := p.dislikedGenres[genre]; disliked {
		return 0
	}
	return p.likedCounts[genre]
}

// IsGenreDisliked reports disliked-set membership.
func (p *PreferenceModel) IsGenreDisliked(genre string) bool {
	_, ok := p.dislikedGenres[genre]
	return ok
}

// AnimePenaltyActive reports whether the anime penalty is live for this
// user, i.e. Animation is currently disliked.
func (p *PreferenceModel) AnimePenaltyActive() bool {
	return p.IsGenreDisliked(animationGenre)
}

// LanguageWeight returns the raw weight for a language, zero if absent.
func (p *PreferenceModel) LanguageWeight(lang string) float64 {
	return p.languageWeights[lang]
}

// maxLanguageWeight returns the largest language weight, used to normalize
// the language boost.
func (p *PreferenceModel) maxLanguageWeight() float64 {
	var max float64
	for _, w := range p.languageWeights {
		if w > max {
			max = w
		}
	}
	return max
}

// DirectorAffinity returns the affinity for a director, zero if absent.
func (p *PreferenceModel) DirectorAffinity(director string) float64 {
	return p.directorAffinity[director]
}

// ActionCount returns the number of candidates with a live action, the
// cold-start gate input.
func (p *PreferenceModel) ActionCount() int {
	return len(p.lastAction)
}

// ActionFor returns the superseding action for a candidate.
func (p *PreferenceModel) ActionFor(candidateID int) (Action, bool) {
	a, ok := p.lastAction[candidateID]
	return a, ok
}

// LikedCandidates returns the ids of liked candidates in ascending order.
func (p *PreferenceModel) LikedCandidates() []int {
	ids := make([]int, 0, len(p.lastAction))
	for id, a := range p.lastAction {
		if a.Kind == ActionLike {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// LikedGenres returns the set of liked genres (excluding disliked ones).
func (p *PreferenceModel) LikedGenres() map[string]struct{} {
	out := make(map[string]struct{}, len(p.likedCounts))
	for g := range p.likedCounts {
		if _, disliked := p.dislikedGenres[g]; disliked {
			continue
		}
		out[g] = struct{}{}
	}
	return out
}

// PreferredLanguages returns languages whose weight clears the floor.
func (p *PreferenceModel) PreferredLanguages() map[string]struct{} {
	out := make(map[string]struct{}, len(p.languageWeights))
	for l, w := range p.languageWeights {
		if w >= languageWeightFloor {
			out[l] = struct{}{}
		}
	}
	return out
}

// dominantGenre returns the genre with the highest like count, used by the
// discovery allocator to diversify away from the user's main cluster.
// Ties break lexicographically for determinism.
func (p *PreferenceModel) dominantGenre() string {
	var best string
	var bestCount int
	for g, c := range p.likedCounts {
		if _, disliked := p.dislikedGenres[g]; disliked {
			continue
		}
		if c > bestCount || (c == bestCount && (best == "" || g < best)) {
			best = g
			bestCount = c
		}
	}
	return best
}

// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package recommend

import (
	"math"
	"sort"
)

// similarNeighbor is one similar user contributing to the user-CF stage.
type similarNeighbor struct {
	userID string
	score  float64
	likes  []int
}

// blendInput carries everything one Blender run needs. All inputs are
// snapshots: the blender itself holds no mutable state.
type blendInput struct {
	prefs          *PreferenceModel
	seen           *SeenSet
	pool           []Candidate
	table          *ItemSimilarityTable
	neighbors      []similarNeighbor
	limit          int
	discoveryRatio float64
}

// blendResult is a Blender run's output with diagnostics.
type blendResult struct {
	items   []ScoredCandidate
	sources []string
}

// Blender combines the content scorer's output with item-based and
// user-based collaborative candidates into one ranked, deduplicated list.
// Missing similarity data degrades to fewer contributing sources, never to
// an error; an empty output is valid.
type Blender struct {
	cfg    *Config
	scorer *ContentScorer
}

// NewBlender creates a blender over the given configuration.
func NewBlender(cfg *Config) *Blender {
	return &Blender{cfg: cfg, scorer: NewContentScorer(cfg.Scoring)}
}

// Blend runs the full pipeline: per-stage ranking, weighted blending,
// discovery slot allocation, seen-set dedupe and deterministic ordering.
func (b *Blender) Blend(in blendInput) blendResult {
	byID := make(map[int]Candidate, len(in.pool))
	eligible := make([]Candidate, 0, len(in.pool))
	for _, c := range in.pool {
		byID[c.ID] = c
		if in.seen.Contains(c.ID) {
			continue
		}
		eligible = append(eligible, c)
	}

	contentScores := b.contentStage(in.prefs, eligible)
	itemScores := b.itemCFStage(in, byID)
	userScores := b.userCFStage(in, byID)

	var sources []string
	if len(contentScores) > 0 {
		sources = append(sources, SourceContent.String())
	}
	if len(userScores) > 0 {
		sources = append(sources, SourceUserCF.String())
	}
	if len(itemScores) > 0 {
		sources = append(sources, SourceItemCF.String())
	}

	blended := b.combine(contentScores, userScores, itemScores)

	discoveryCount := int(math.Floor(float64(in.limit) * in.discoveryRatio))
	if discoveryCount > in.limit {
		discoveryCount = in.limit
	}

	discovery := b.discoveryStage(in, eligible, itemScores, userScores, contentScores, discoveryCount)
	if len(discovery) > 0 {
		sources = append(sources, SourceDiscovery.String())
	}

	picked := make(map[int]struct{}, len(discovery))
	for _, d := range discovery {
		picked[d.CandidateID] = struct{}{}
	}

	main := make([]ScoredCandidate, 0, len(blended))
	for _, sc := range blended {
		if _, ok := picked[sc.CandidateID]; ok {
			continue
		}
		main = append(main, sc)
	}
	mainCount := in.limit - len(discovery)
	if mainCount < 0 {
		mainCount = 0
	}
	if len(main) > mainCount {
		main = main[:mainCount]
	}

	items := append(main, discovery...)
	sortRanked(items)

	return blendResult{items: items, sources: sources}
}

// contentStage scores every non-seen candidate with the content scorer.
func (b *Blender) contentStage(prefs *PreferenceModel, eligible []Candidate) map[int]float64 {
	scores := make(map[int]float64, len(eligible))
	for _, c := range eligible {
		scores[c.ID] = b.scorer.Score(prefs, c)
	}
	return scores
}

// itemCFStage aggregates similarity-table partners of the user's liked
// titles. Partner scores are summed, weighted by pair similarity, then
// normalized by the stage maximum so stages blend on a common scale.
func (b *Blender) itemCFStage(in blendInput, byID map[int]Candidate) map[int]float64 {
	if in.table == nil || in.table.Len() == 0 {
		return nil
	}

	scores := make(map[int]float64)
	for _, likedID := range in.prefs.LikedCandidates() {
		for _, partner := range in.table.Partners(likedID) {
			if in.seen.Contains(partner.CandidateID) {
				continue
			}
			if _, inPool := byID[partner.CandidateID]; !inPool {
				continue
			}
			if _, acted := in.prefs.ActionFor(partner.CandidateID); acted {
				continue
			}
			scores[partner.CandidateID] += partner.Score
		}
	}
	return normalizeByMax(scores)
}

// userCFStage collects what similar users liked that this user has not
// seen. A candidate's raw score is avgSimilarity x recommenderCount, which
// rewards both strong and broad agreement; it is then normalized by the
// stage maximum.
func (b *Blender) userCFStage(in blendInput, byID map[int]Candidate) map[int]float64 {
	if len(in.neighbors) == 0 {
		return nil
	}

	simSum := make(map[int]float64)
	count := make(map[int]int)
	for _, n := range in.neighbors {
		for _, id := range n.likes {
			if in.seen.Contains(id) {
				continue
			}
			if _, inPool := byID[id]; !inPool {
				continue
			}
			if _, acted := in.prefs.ActionFor(id); acted {
				continue
			}
			simSum[id] += n.score
			count[id]++
		}
	}

	scores := make(map[int]float64, len(simSum))
	for id, sum := range simSum {
		avg := sum / float64(count[id])
		scores[id] = avg * float64(count[id])
	}
	return normalizeByMax(scores)
}

// combine blends the per-stage scores with the configured weights. Missing
// stages contribute zero. Each candidate records the dominant source by the
// largest weighted contribution.
func (b *Blender) combine(content, user, item map[int]float64) []ScoredCandidate {
	weights := b.cfg.Blend.Normalize()

	ids := make(map[int]struct{}, len(content)+len(user)+len(item))
	for id := range content {
		ids[id] = struct{}{}
	}
	for id := range user {
		ids[id] = struct{}{}
	}
	for id := range item {
		ids[id] = struct{}{}
	}

	out := make([]ScoredCandidate, 0, len(ids))
	for id := range ids {
		wc := weights.Content * content[id]
		wu := weights.UserCF * user[id]
		wi := weights.ItemCF * item[id]

		source := SourceContent
		reason := "matches your favorite genres"
		if wu > wc && wu >= wi {
			source = SourceUserCF
			reason = "liked by users with similar taste"
		} else if wi > wc && wi > wu {
			source = SourceItemCF
			reason = "similar to titles you liked"
		}

		out = append(out, ScoredCandidate{
			CandidateID: id,
			Score:       clamp01(wc + wu + wi),
			Source:      source,
			SourceName:  source.String(),
			Reason:      reason,
		})
	}
	sortRanked(out)
	return out
}

// discoveryStage reserves slots for catalog titles the user never
// interacted with and the collaborative signals never surfaced, diversified
// away from the user's dominant genre cluster.
func (b *Blender) discoveryStage(in blendInput, eligible []Candidate, item, user, content map[int]float64, count int) []ScoredCandidate {
	if count <= 0 {
		return nil
	}

	dominant := in.prefs.dominantGenre()

	candidates := make([]Candidate, 0, len(eligible))
	for _, c := range eligible {
		if _, acted := in.prefs.ActionFor(c.ID); acted {
			continue
		}
		if _, ok := item[c.ID]; ok {
			continue
		}
		if _, ok := user[c.ID]; ok {
			continue
		}
		candidates = append(candidates, c)
	}

	offCluster := func(c Candidate) bool {
		if dominant == "" {
			return true
		}
		for _, g := range c.Genres {
			if g == dominant {
				return false
			}
		}
		return true
	}

	sort.Slice(candidates, func(i, j int) bool {
		oi, oj := offCluster(candidates[i]), offCluster(candidates[j])
		if oi != oj {
			return oi
		}
		if candidates[i].Popularity != candidates[j].Popularity {
			return candidates[i].Popularity > candidates[j].Popularity
		}
		return candidates[i].ID < candidates[j].ID
	})

	if len(candidates) > count {
		candidates = candidates[:count]
	}

	out := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, ScoredCandidate{
			CandidateID: c.ID,
			Score:       content[c.ID],
			Source:      SourceDiscovery,
			SourceName:  SourceDiscovery.String(),
			Reason:      "outside your usual genres",
			IsDiscovery: true,
		})
	}
	return out
}

// ColdStart returns the fallback ranking for users below the collaborative
// minimum: high-quality catalog titles intersected with the user's declared
// genre and language preferences, seen-set deduped. The intersection
// loosens progressively so the result is only empty when the pool is.
func (b *Blender) ColdStart(prefs *PreferenceModel, declaredGenres, declaredLanguages map[string]struct{}, seen *SeenSet, pool []Candidate, limit int) []ScoredCandidate {
	eligible := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if !seen.Contains(c.ID) {
			eligible = append(eligible, c)
		}
	}

	quality := make([]Candidate, 0, len(eligible))
	for _, c := range eligible {
		if c.VoteAverage >= b.cfg.ColdStart.MinRating && c.VoteCount >= b.cfg.ColdStart.MinVotes {
			quality = append(quality, c)
		}
	}

	matches := func(c Candidate) bool {
		if len(declaredGenres) == 0 && len(declaredLanguages) == 0 {
			return true
		}
		for _, g := range c.Genres {
			if _, ok := declaredGenres[g]; ok {
				return true
			}
		}
		_, ok := declaredLanguages[c.OriginalLanguage]
		return ok
	}

	preferred := make([]Candidate, 0, len(quality))
	for _, c := range quality {
		if matches(c) {
			preferred = append(preferred, c)
		}
	}

	// Loosen: preference intersection, then quality floor, then anything.
	picked := preferred
	if len(picked) == 0 {
		picked = quality
	}
	if len(picked) == 0 {
		picked = eligible
	}

	sort.Slice(picked, func(i, j int) bool {
		if picked[i].VoteAverage != picked[j].VoteAverage {
			return picked[i].VoteAverage > picked[j].VoteAverage
		}
		if picked[i].VoteCount != picked[j].VoteCount {
			return picked[i].VoteCount > picked[j].VoteCount
		}
		return picked[i].ID < picked[j].ID
	})

	if len(picked) > limit {
		picked = picked[:limit]
	}

	out := make([]ScoredCandidate, 0, len(picked))
	for _, c := range picked {
		out = append(out, ScoredCandidate{
			CandidateID: c.ID,
			Score:       clamp01(c.VoteAverage / 10),
			Source:      SourceColdStart,
			SourceName:  SourceColdStart.String(),
			Reason:      "highly rated",
		})
	}
	return out
}

// sortRanked orders by score descending with candidate id ascending as the
// deterministic tiebreak.
func sortRanked(items []ScoredCandidate) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].CandidateID < items[j].CandidateID
	})
}

// normalizeByMax scales scores so the strongest is 1.0, preserving zeros.
func normalizeByMax(scores map[int]float64) map[int]float64 {
	if len(scores) == 0 {
		return scores
	}
	var max float64
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	if max == 0 {
		return scores
	}
	for id, s := range scores {
		scores[id] = s / max
	}
	return scores
}

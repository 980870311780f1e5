// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
		duration   time.Duration
	}{
		{
			name:       "successful recommendation fetch",
			method:     "GET",
			endpoint:   "/api/v1/recommendations/{userID}",
			statusCode: "200",
			duration:   25 * time.Millisecond,
		},
		{
			name:       "action accepted",
			method:     "POST",
			endpoint:   "/api/v1/actions",
			statusCode: "202",
			duration:   2 * time.Millisecond,
		},
		{
			name:       "validation failure",
			method:     "POST",
			endpoint:   "/api/v1/actions",
			statusCode: "400",
			duration:   time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode))

			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, tt.duration)

			after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode))
			if after != before+1 {
				t.Errorf("APIRequestsTotal = %v, want %v", after, before+1)
			}
		})
	}
}

// TestRecordAction tests swipe action metric recording by kind
func TestRecordAction(t *testing.T) {
	for _, kind := range []string{"like", "pass", "skip"} {
		before := testutil.ToFloat64(ActionsRecorded.WithLabelValues(kind))
		RecordAction(kind)
		after := testutil.ToFloat64(ActionsRecorded.WithLabelValues(kind))
		if after != before+1 {
			t.Errorf("ActionsRecorded[%s] = %v, want %v", kind, after, before+1)
		}
	}
}

// TestRecordActionError tests that long rejection reasons are truncated
func TestRecordActionError(t *testing.T) {
	long := strings.Repeat("x", 80)
	truncated := long[:50]

	before := testutil.ToFloat64(ActionErrors.WithLabelValues(truncated))
	RecordActionError(long)
	after := testutil.ToFloat64(ActionErrors.WithLabelValues(truncated))
	if after != before+1 {
		t.Errorf("ActionErrors[truncated] = %v, want %v", after, before+1)
	}
}

// TestRecordRecommendation tests recommendation serving metrics
func TestRecordRecommendation(t *testing.T) {
	for _, mode := range []string{"blended", "cold_start", "degraded"} {
		before := testutil.ToFloat64(RecommendationsServed.WithLabelValues(mode))
		RecordRecommendation(mode, 15*time.Millisecond)
		after := testutil.ToFloat64(RecommendationsServed.WithLabelValues(mode))
		if after != before+1 {
			t.Errorf("RecommendationsServed[%s] = %v, want %v", mode, after, before+1)
		}
	}
}

// TestCacheCounters tests cache hit and miss counters
func TestCacheCounters(t *testing.T) {
	hitsBefore := testutil.ToFloat64(RecommendationCacheHits)
	missesBefore := testutil.ToFloat64(RecommendationCacheMisses)

	RecordCacheHit()
	RecordCacheHit()
	RecordCacheMiss()

	if got := testutil.ToFloat64(RecommendationCacheHits); got != hitsBefore+2 {
		t.Errorf("RecommendationCacheHits = %v, want %v", got, hitsBefore+2)
	}
	if got := testutil.ToFloat64(RecommendationCacheMisses); got != missesBefore+1 {
		t.Errorf("RecommendationCacheMisses = %v, want %v", got, missesBefore+1)
	}
}

// TestRecordSimilarityRebuild tests that rebuild gauges reflect the last rebuild
func TestRecordSimilarityRebuild(t *testing.T) {
	RecordSimilarityRebuild(120*time.Millisecond, 4821, 7)

	if got := testutil.ToFloat64(SimilarityTablePairs); got != 4821 {
		t.Errorf("SimilarityTablePairs = %v, want 4821", got)
	}
	if got := testutil.ToFloat64(SimilarityTableVersion); got != 7 {
		t.Errorf("SimilarityTableVersion = %v, want 7", got)
	}

	// A later rebuild overwrites both gauges.
	RecordSimilarityRebuild(90*time.Millisecond, 4530, 8)
	if got := testutil.ToFloat64(SimilarityTablePairs); got != 4530 {
		t.Errorf("SimilarityTablePairs = %v, want 4530", got)
	}
	if got := testutil.ToFloat64(SimilarityTableVersion); got != 8 {
		t.Errorf("SimilarityTableVersion = %v, want 8", got)
	}
}

// TestCatalogGauges tests catalog health gauge updates
func TestCatalogGauges(t *testing.T) {
	UpdateCatalogBreakerState(2)
	if got := testutil.ToFloat64(CatalogBreakerState); got != 2 {
		t.Errorf("CatalogBreakerState = %v, want 2", got)
	}
	UpdateCatalogBreakerState(0)
	if got := testutil.ToFloat64(CatalogBreakerState); got != 0 {
		t.Errorf("CatalogBreakerState = %v, want 0", got)
	}

	UpdateCatalogPoolSize(350)
	if got := testutil.ToFloat64(CatalogPoolSize); got != 350 {
		t.Errorf("CatalogPoolSize = %v, want 350", got)
	}
}

// TestConcurrentRecording verifies recording functions are safe for
// concurrent use
func TestConcurrentRecording(t *testing.T) {
	const workers = 16
	const perWorker = 50

	before := testutil.ToFloat64(ActionsUndone)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				RecordActionUndo()
				RecordCacheHit()
				RecordAction("like")
			}
		}()
	}
	wg.Wait()

	after := testutil.ToFloat64(ActionsUndone)
	if after != before+workers*perWorker {
		t.Errorf("ActionsUndone = %v, want %v", after, before+workers*perWorker)
	}
}

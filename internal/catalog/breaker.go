// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/reelswipe/reelswipe/internal/recommend"
)

// BreakerCatalog wraps any provider with a circuit breaker and a last-good
// pool fallback. While the circuit is open, Candidates keeps serving the
// most recent successful fetch so a metadata outage never empties the
// recommendation pipeline.
type BreakerCatalog struct {
	inner  recommend.CatalogProvider
	cb     *gobreaker.CircuitBreaker[any]
	logger zerolog.Logger

	mu       sync.RWMutex
	lastGood []recommend.Candidate
	fetched  time.Time
}

// NewBreakerCatalog wraps a provider. Breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 30 second timeout before attempting recovery
// - Opens after 60% failure rate with minimum 5 requests
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerCatalog(inner recommend.CatalogProvider, logger zerolog.Logger) *BreakerCatalog {
	bc := &BreakerCatalog{
		inner:  inner,
		logger: logger.With().Str("component", "catalog").Logger(),
	}

	bc.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "catalog-upstream",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			bc.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("catalog circuit state changed")
		},
	})
	return bc
}

// Candidates fetches the pool through the breaker, falling back to the
// last successful fetch when the upstream is failing or the circuit is
// open.
func (bc *BreakerCatalog) Candidates(ctx context.Context) ([]recommend.Candidate, error) {
	result, err := bc.cb.Execute(func() (any, error) {
		return bc.inner.Candidates(ctx)
	})
	if err == nil {
		pool := result.([]recommend.Candidate)
		bc.mu.Lock()
		bc.lastGood = pool
		bc.fetched = time.Now()
		bc.mu.Unlock()
		return pool, nil
	}

	bc.mu.RLock()
	fallback := bc.lastGood
	fetched := bc.fetched
	bc.mu.RUnlock()

	if fallback != nil {
		bc.logger.Warn().Err(err).
			Time("fetched_at", fetched).
			Int("candidates", len(fallback)).
			Msg("serving stale candidate pool")
		return fallback, nil
	}
	return nil, fmt.Errorf("catalog unavailable with no cached pool: %w", err)
}

// Candidate fetches one title through the breaker. There is no stale
// fallback for single lookups; callers treat a failure as a miss.
func (bc *BreakerCatalog) Candidate(ctx context.Context, id int) (recommend.Candidate, bool, error) {
	type lookup struct {
		cand recommend.Candidate
		ok   bool
	}
	result, err := bc.cb.Execute(func() (any, error) {
		cand, ok, err := bc.inner.Candidate(ctx, id)
		if err != nil {
			return nil, err
		}
		return lookup{cand: cand, ok: ok}, nil
	})
	if err != nil {
		return recommend.Candidate{}, false, err
	}
	l := result.(lookup)
	return l.cand, l.ok, nil
}

// State exposes the breaker state for health reporting.
func (bc *BreakerCatalog) State() gobreaker.State {
	return bc.cb.State()
}

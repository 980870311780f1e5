// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/recommend"
)

type countingCatalog struct {
	polls atomic.Int32
	fail  bool
}

func (c *countingCatalog) Candidates(_ context.Context) ([]recommend.Candidate, error) {
	c.polls.Add(1)
	if c.fail {
		return nil, errors.New("upstream down")
	}
	return []recommend.Candidate{{ID: 1, Genres: []string{"Drama"}}}, nil
}

func (c *countingCatalog) Candidate(_ context.Context, _ int) (recommend.Candidate, bool, error) {
	return recommend.Candidate{}, false, nil
}

func TestCatalogServicePollsImmediatelyAndPeriodically(t *testing.T) {
	catalog := &countingCatalog{}
	svc := NewCatalogService(catalog, 20*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = svc.Serve(ctx) }()

	if !waitFor(t, 2*time.Second, func() bool { return catalog.polls.Load() >= 2 }) {
		t.Fatalf("polls = %d, want at least 2 (startup + tick)", catalog.polls.Load())
	}
}

func TestCatalogServiceSurvivesPollFailure(t *testing.T) {
	catalog := &countingCatalog{fail: true}
	svc := NewCatalogService(catalog, 20*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Failed polls are logged, not fatal; the loop keeps running.
	if !waitFor(t, 2*time.Second, func() bool { return catalog.polls.Load() >= 3 }) {
		t.Fatalf("polls = %d, want at least 3 despite failures", catalog.polls.Load())
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/metrics"
	"github.com/reelswipe/reelswipe/internal/recommend"
)

// Rebuilder is the slice of the engine the similarity service needs.
type Rebuilder interface {
	RebuildSimilarities(ctx context.Context)
	Metrics() recommend.Metrics
}

// SimilarityServiceConfig holds configuration for the rebuild loop.
type SimilarityServiceConfig struct {
	// Interval is how often a rebuild is considered. Rebuilds only run
	// when actions arrived since the last one.
	Interval time.Duration

	// RebuildOnStartup forces a build when the service starts, so a
	// restarted process has a table before the first interval elapses.
	RebuildOnStartup bool
}

// SimilarityService batch-recomputes the item similarity table. It
// subscribes to recorded-action events and marks the table dirty; a ticker
// then rebuilds at most once per interval. Swipes between ticks only set a
// flag, so ingestion cost stays flat no matter how hot the event stream is.
type SimilarityService struct {
	engine     Rebuilder
	subscriber message.Subscriber
	config     SimilarityServiceConfig
	logger     zerolog.Logger
	dirty      atomic.Bool
	name       string
}

// NewSimilarityService creates the rebuild loop service. The subscriber may
// be nil, in which case the loop rebuilds on every interval unconditionally.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewSimilarityService(engine Rebuilder, subscriber message.Subscriber, cfg SimilarityServiceConfig, logger zerolog.Logger) *SimilarityService {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	return &SimilarityService{
		engine:     engine,
		subscriber: subscriber,
		config:     cfg,
		logger:     logger.With().Str("service", "similarity").Logger(),
		name:       "similarity-service",
	}
}

// Serve implements the suture.Service interface.
func (s *SimilarityService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("interval", s.config.Interval).
		Bool("rebuild_on_startup", s.config.RebuildOnStartup).
		Msg("similarity service starting")

	var events <-chan *message.Message
	subscribed := false
	if s.subscriber != nil {
		ch, err := s.subscriber.Subscribe(ctx, recommend.TopicActionRecorded)
		if err != nil {
			return err
		}
		events = ch
		subscribed = true
	}

	if s.config.RebuildOnStartup {
		s.rebuild(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("similarity service shutting down")
			return ctx.Err()

		case msg, ok := <-events:
			if !ok {
				// Subscriber closed; fall back to unconditional
				// interval rebuilds.
				events = nil
				subscribed = false
				continue
			}
			msg.Ack()
			s.dirty.Store(true)

		case <-ticker.C:
			if subscribed && !s.dirty.Swap(false) {
				continue
			}
			s.rebuild(ctx)
		}
	}
}

// rebuild runs one table build and records its metrics.
func (s *SimilarityService) rebuild(ctx context.Context) {
	start := time.Now()
	s.engine.RebuildSimilarities(ctx)

	m := s.engine.Metrics()
	metrics.RecordSimilarityRebuild(time.Since(start), m.TablePairs, uint64(m.TableVersion))

	s.logger.Debug().
		Int("version", m.TableVersion).
		Int("pairs", m.TablePairs).
		Msg("similarity rebuild cycle complete")
}

// String returns the service name for supervisor logging.
func (s *SimilarityService) String() string {
	return s.name
}

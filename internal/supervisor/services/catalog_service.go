// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelswipe/reelswipe/internal/metrics"
	"github.com/reelswipe/reelswipe/internal/recommend"
)

// CatalogService periodically polls the catalog provider. The poll keeps
// the circuit breaker's view of upstream health current and the pool-size
// gauge fresh, and it pre-warms the last-good fallback pool after restarts
// before the first user request arrives.
type CatalogService struct {
	catalog  recommend.CatalogProvider
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewCatalogService creates a catalog poller.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogService(catalog recommend.CatalogProvider, interval time.Duration, logger zerolog.Logger) *CatalogService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CatalogService{
		catalog:  catalog,
		interval: interval,
		logger:   logger.With().Str("service", "catalog").Logger(),
		name:     "catalog-service",
	}
}

// Serve implements the suture.Service interface.
func (s *CatalogService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("catalog poller starting")

	s.poll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog poller shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

func (s *CatalogService) poll(ctx context.Context) {
	pollCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := s.catalog.Candidates(pollCtx)
	if err != nil {
		metrics.RecordCatalogFetchError()
		s.logger.Warn().Err(err).Msg("catalog poll failed")
		return
	}

	metrics.UpdateCatalogPoolSize(len(pool))
	s.logger.Debug().Int("pool", len(pool)).Msg("catalog poll complete")
}

// String returns the service name for supervisor logging.
func (s *CatalogService) String() string {
	return s.name
}

// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package main

import (
	"fmt"

	"github.com/reelswipe/reelswipe/internal/catalog"
	"github.com/reelswipe/reelswipe/internal/config"
	"github.com/reelswipe/reelswipe/internal/logging"
	"github.com/reelswipe/reelswipe/internal/recommend"
)

// initCatalog builds the candidate pool provider selected by configuration.
// The http source is wrapped in a circuit breaker so a flapping metadata
// service degrades to the last good pool instead of failing requests.
func initCatalog(cfg *config.Config) (recommend.CatalogProvider, error) {
	switch cfg.Catalog.Source {
	case "static":
		static, err := catalog.LoadStaticCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("loading static catalog: %w", err)
		}
		logging.Info().
			Str("path", cfg.Catalog.Path).
			Int("candidates", static.Len()).
			Msg("Static catalog loaded")
		return static, nil

	case "http":
		upstream := catalog.NewHTTPCatalog(catalog.HTTPConfig{
			BaseURL: cfg.Catalog.BaseURL,
			APIKey:  cfg.Catalog.APIKey,
			Timeout: cfg.Catalog.Timeout,
		})
		breaker := catalog.NewBreakerCatalog(upstream, logging.Logger())
		logging.Info().
			Str("base_url", cfg.Catalog.BaseURL).
			Msg("HTTP catalog configured with circuit breaker")
		return breaker, nil

	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

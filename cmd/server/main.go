// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/reelswipe/reelswipe/internal/api"
	"github.com/reelswipe/reelswipe/internal/config"
	"github.com/reelswipe/reelswipe/internal/logging"
	"github.com/reelswipe/reelswipe/internal/recommend"
	"github.com/reelswipe/reelswipe/internal/storage"
	"github.com/reelswipe/reelswipe/internal/supervisor"
	"github.com/reelswipe/reelswipe/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings.
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("storage", cfg.Storage.Type).
		Str("catalog", cfg.Catalog.Source).
		Int("port", cfg.Server.Port).
		Msg("Configuration loaded")

	// Action log and seen-set persistence.
	store, err := storage.Open(storage.StoreType(cfg.Storage.Type), cfg.Storage.Path)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open action store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing action store")
		}
	}()
	logging.Info().Str("type", cfg.Storage.Type).Msg("Action store opened")

	// Candidate pool provider.
	catalogProvider, err := initCatalog(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize catalog")
	}

	// Recommendation engine.
	engine, err := recommend.NewEngine(cfg.RecommendConfig(), logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	engine.SetStore(store)
	engine.SetCatalogProvider(catalogProvider)

	// In-process event bus: swipe ingestion publishes, the similarity
	// rebuild loop subscribes.
	bus := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, watermill.NewStdLogger(false, false))
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()
	engine.SetPublisher(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Replay the persisted action log before serving.
	if err := engine.WarmStart(ctx); err != nil {
		logging.Fatal().Err(err).Msg("Failed to warm start engine")
	}
	m := engine.Metrics()
	logging.Info().
		Int("users", m.Users).
		Int64("actions", m.ActionCount).
		Msg("Engine warm start complete")

	tree := supervisor.NewTree(logging.Logger(), supervisor.DefaultTreeConfig())

	// Engine layer services.
	tree.AddEngineService(services.NewSimilarityService(engine, bus, services.SimilarityServiceConfig{
		Interval:         cfg.Engine.RebuildInterval,
		RebuildOnStartup: true,
	}, logging.Logger()))
	tree.AddEngineService(services.NewCatalogService(catalogProvider, 5*time.Minute, logging.Logger()))

	// HTTP surface.
	handler := api.NewHandler(engine,
		api.HealthCheck{Name: "catalog", Check: func(ctx context.Context) error {
			_, err := catalogProvider.Candidates(ctx)
			return err
		}},
		api.HealthCheck{Name: "similarity-table", Check: func(context.Context) error {
			if engine.SimilarityTable() == nil {
				return errors.New("not built yet")
			}
			return nil
		}},
	)

	mwConfig := api.DefaultMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.API.CORSOrigins
	mwConfig.RateLimitRequests = cfg.API.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.API.RateLimitWindow
	mwConfig.RateLimitDisabled = cfg.API.RateLimitDisabled

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, mwConfig).Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Graceful shutdown on SIGINT and SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain the error channel until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

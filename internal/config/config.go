// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

// Package config loads and validates the ReelSwipe server configuration.
// Configuration is layered: built-in defaults, then an optional YAML file,
// then environment variables. Later layers override earlier ones.
package config

import (
	"fmt"
	"time"

	"github.com/reelswipe/reelswipe/internal/recommend"
)

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Storage StorageConfig `koanf:"storage"`
	Catalog CatalogConfig `koanf:"catalog"`
	Engine  EngineConfig  `koanf:"engine"`
	Logging LoggingConfig `koanf:"logging"`
	API     APIConfig     `koanf:"api"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Type is "memory" or "badger".
	Type string `koanf:"type"`

	// Path is the BadgerDB directory, required when Type is "badger".
	Path string `koanf:"path"`
}

// CatalogConfig selects the candidate pool source.
type CatalogConfig struct {
	// Source is "static" or "http".
	Source string `koanf:"source"`

	// Path is the JSON candidate file, required when Source is "static".
	Path string `koanf:"path"`

	// BaseURL is the metadata service root, required when Source is "http".
	BaseURL string `koanf:"base_url"`

	// APIKey authenticates against the metadata service.
	APIKey string `koanf:"api_key"`

	// Timeout bounds each metadata request.
	Timeout time.Duration `koanf:"timeout"`
}

// EngineConfig carries the recommendation tunables exposed through the
// config surface. Anything not listed here keeps the engine default.
type EngineConfig struct {
	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
	MinActions      int           `koanf:"min_actions"`
	DefaultLimit    int           `koanf:"default_limit"`
	MaxLimit        int           `koanf:"max_limit"`
	MaxCandidates   int           `koanf:"max_candidates"`
	RebuildInterval time.Duration `koanf:"rebuild_interval"`
	BlendContent    float64       `koanf:"blend_content"`
	BlendUserCF     float64       `koanf:"blend_user_cf"`
	BlendItemCF     float64       `koanf:"blend_item_cf"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// APIConfig configures the HTTP API surface.
type APIConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// CORSOrigins is empty by default; browsers are denied cross-origin
	// access until origins are configured explicitly.
	CORSOrigins []string `koanf:"cors_origins"`
}

// defaultConfig returns a Config with all default values. These are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	engine := recommend.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8600,
			Timeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type: "memory",
			Path: "/data/reelswipe",
		},
		Catalog: CatalogConfig{
			Source:  "static",
			Path:    "/data/catalog.json",
			Timeout: 10 * time.Second,
		},
		Engine: EngineConfig{
			CacheEnabled:    engine.Cache.Enabled,
			CacheTTL:        engine.Cache.TTL,
			MinActions:      engine.ColdStart.MinActions,
			DefaultLimit:    engine.Limits.DefaultLimit,
			MaxLimit:        engine.Limits.MaxLimit,
			MaxCandidates:   engine.Limits.MaxCandidates,
			RebuildInterval: engine.ItemSim.RebuildInterval,
			BlendContent:    engine.Blend.Content,
			BlendUserCF:     engine.Blend.UserCF,
			BlendItemCF:     engine.Blend.ItemCF,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		API: APIConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}

	switch c.Storage.Type {
	case "memory":
	case "badger":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path required for badger storage")
		}
	default:
		return fmt.Errorf("unknown storage.type %q", c.Storage.Type)
	}

	switch c.Catalog.Source {
	case "static":
		if c.Catalog.Path == "" {
			return fmt.Errorf("catalog.path required for static catalog")
		}
	case "http":
		if c.Catalog.BaseURL == "" {
			return fmt.Errorf("catalog.base_url required for http catalog")
		}
	default:
		return fmt.Errorf("unknown catalog.source %q", c.Catalog.Source)
	}

	if c.Engine.MinActions < 0 {
		return fmt.Errorf("engine.min_actions must be non-negative")
	}
	if c.Engine.DefaultLimit <= 0 || c.Engine.MaxLimit < c.Engine.DefaultLimit {
		return fmt.Errorf("engine limits invalid: default %d, max %d", c.Engine.DefaultLimit, c.Engine.MaxLimit)
	}
	if c.Engine.BlendContent < 0 || c.Engine.BlendUserCF < 0 || c.Engine.BlendItemCF < 0 {
		return fmt.Errorf("engine blend weights must be non-negative")
	}
	if c.Engine.BlendContent+c.Engine.BlendUserCF+c.Engine.BlendItemCF == 0 {
		return fmt.Errorf("engine blend weights must not all be zero")
	}

	if c.API.RateLimitReqs <= 0 && !c.API.RateLimitDisabled {
		return fmt.Errorf("api.rate_limit_requests must be positive unless rate limiting is disabled")
	}
	return nil
}

// RecommendConfig materializes the recommend package configuration with
// the exposed tunables applied over its defaults.
func (c *Config) RecommendConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Cache.Enabled = c.Engine.CacheEnabled
	cfg.Cache.TTL = c.Engine.CacheTTL
	cfg.ColdStart.MinActions = c.Engine.MinActions
	cfg.Limits.DefaultLimit = c.Engine.DefaultLimit
	cfg.Limits.MaxLimit = c.Engine.MaxLimit
	cfg.Limits.MaxCandidates = c.Engine.MaxCandidates
	cfg.ItemSim.RebuildInterval = c.Engine.RebuildInterval
	cfg.Blend.Content = c.Engine.BlendContent
	cfg.Blend.UserCF = c.Engine.BlendUserCF
	cfg.Blend.ItemCF = c.Engine.BlendItemCF
	return cfg
}

// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, true},
		{"badger without path", func(c *Config) { c.Storage.Type = "badger"; c.Storage.Path = "" }, true},
		{"badger with path", func(c *Config) { c.Storage.Type = "badger" }, false},
		{"unknown storage", func(c *Config) { c.Storage.Type = "postgres" }, true},
		{"http catalog without url", func(c *Config) { c.Catalog.Source = "http" }, true},
		{"http catalog with url", func(c *Config) { c.Catalog.Source = "http"; c.Catalog.BaseURL = "http://metadata:8700" }, false},
		{"unknown catalog source", func(c *Config) { c.Catalog.Source = "csv" }, true},
		{"max below default limit", func(c *Config) { c.Engine.MaxLimit = c.Engine.DefaultLimit - 1 }, true},
		{"negative blend weight", func(c *Config) { c.Engine.BlendContent = -0.1 }, true},
		{"all blend weights zero", func(c *Config) {
			c.Engine.BlendContent, c.Engine.BlendUserCF, c.Engine.BlendItemCF = 0, 0, 0
		}, true},
		{"zero rate limit", func(c *Config) { c.API.RateLimitReqs = 0 }, true},
		{"rate limiting disabled", func(c *Config) { c.API.RateLimitReqs = 0; c.API.RateLimitDisabled = true }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9000
engine:
  min_actions: 5
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_TIMEOUT", "45s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("SOME_UNRELATED_VAR", "ignored")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// File overrides defaults.
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d, want 9000 from file", cfg.Server.Port)
	}
	if cfg.Engine.MinActions != 5 {
		t.Errorf("min actions = %d, want 5 from file", cfg.Engine.MinActions)
	}
	// Env overrides file and defaults.
	if cfg.Server.Timeout != 45*time.Second {
		t.Errorf("timeout = %v, want 45s from env", cfg.Server.Timeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug from env", cfg.Logging.Level)
	}
	// Untouched settings keep their defaults.
	if cfg.Storage.Type != "memory" {
		t.Errorf("storage type = %q, want default memory", cfg.Storage.Type)
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 0\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	if _, err := Load(); err == nil {
		t.Error("invalid config should fail validation")
	}
}

func TestRecommendConfigMapping(t *testing.T) {
	cfg := defaultConfig()
	cfg.Engine.MinActions = 3
	cfg.Engine.CacheTTL = time.Hour
	cfg.Engine.BlendContent = 0.5
	cfg.Engine.BlendUserCF = 0.25
	cfg.Engine.BlendItemCF = 0.25

	rc := cfg.RecommendConfig()
	if rc.ColdStart.MinActions != 3 {
		t.Errorf("min actions = %d, want 3", rc.ColdStart.MinActions)
	}
	if rc.Cache.TTL != time.Hour {
		t.Errorf("cache ttl = %v, want 1h", rc.Cache.TTL)
	}
	if rc.Blend.Content != 0.5 || rc.Blend.UserCF != 0.25 || rc.Blend.ItemCF != 0.25 {
		t.Errorf("blend = %+v", rc.Blend)
	}
	if err := rc.Validate(); err != nil {
		t.Errorf("mapped config invalid: %v", err)
	}
}

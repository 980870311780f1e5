// ReelSwipe - Swipe-Based Movie Discovery
// Copyright 2026 ReelSwipe Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelswipe/reelswipe

package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelswipe/reelswipe/internal/recommend"
)

// HTTPConfig configures the upstream metadata client.
type HTTPConfig struct {
	// BaseURL is the metadata service root, e.g. "http://metadata:8700".
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// APIKey is sent as a query parameter when non-empty.
	APIKey string `koanf:"api_key"`

	// Timeout bounds each request.
	Timeout time.Duration `koanf:"timeout"`
}

// HTTPCatalog fetches the candidate pool from an upstream metadata
// service. Endpoints:
//
//	GET {base}/v1/movies            -> [] of candidates
//	GET {base}/v1/movies/{id}       -> one candidate, 404 when unknown
type HTTPCatalog struct {
	cfg    HTTPConfig
	client *http.Client
}

// NewHTTPCatalog creates a metadata client.
func NewHTTPCatalog(cfg HTTPConfig) *HTTPCatalog {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPCatalog{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPCatalog) buildURL(path string) string {
	u := c.cfg.BaseURL + path
	if c.cfg.APIKey != "" {
		params := url.Values{}
		params.Set("api_key", c.cfg.APIKey)
		u += "?" + params.Encode()
	}
	return u
}

func (c *HTTPCatalog) get(ctx context.Context, path string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path), http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, resp.StatusCode, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return resp.Body, resp.StatusCode, nil
}

// Candidates fetches the full candidate pool.
func (c *HTTPCatalog) Candidates(ctx context.Context) ([]recommend.Candidate, error) {
	body, _, err := c.get(ctx, "/v1/movies")
	if err != nil {
		return nil, fmt.Errorf("fetch candidate pool: %w", err)
	}
	defer body.Close()

	var pool []recommend.Candidate
	if err := json.NewDecoder(body).Decode(&pool); err != nil {
		return nil, fmt.Errorf("decode candidate pool: %w", err)
	}
	return pool, nil
}

// Candidate fetches one title. A 404 is a miss, not an error.
func (c *HTTPCatalog) Candidate(ctx context.Context, id int) (recommend.Candidate, bool, error) {
	body, status, err := c.get(ctx, "/v1/movies/"+strconv.Itoa(id))
	if err != nil {
		if status == http.StatusNotFound {
			return recommend.Candidate{}, false, nil
		}
		return recommend.Candidate{}, false, fmt.Errorf("fetch candidate %d: %w", id, err)
	}
	defer body.Close()

	var cand recommend.Candidate
	if err := json.NewDecoder(body).Decode(&cand); err != nil {
		return recommend.Candidate{}, false, fmt.Errorf("decode candidate %d: %w", id, err)
	}
	return cand, true, nil
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

// Package catalog is a read-only client for the TMDB v3 API.
//
// Every request carries the API key and language as query parameters.
// Calls go through a rate limiter, a circuit breaker and a short-lived
// response cache. Upstream failures are reported as ErrUpstream and a
// missing title as ErrNotFound.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reeltrack/internal/breaker"
	"github.com/tomtom215/reeltrack/internal/cache"
	"github.com/tomtom215/reeltrack/internal/config"
	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/metrics"
)

const (
	// PlaceholderPoster is shown for titles without a poster.
	PlaceholderPoster = "https://via.placeholder.com/400?text=No_Poster"

	// DefaultRegion is used for watch providers when none is given.
	DefaultRegion = "US"

	maxResponseBytes = 4 << 20
	breakerName      = "tmdb-api"
)

var (
	// ErrUpstream is returned when TMDB cannot be reached or answers with an
	// error.
	ErrUpstream = errors.New("catalog upstream failure")

	// ErrNotFound is returned when TMDB has no such title.
	ErrNotFound = errors.New("catalog title not found")

	// ErrInvalid is returned for a bad media kind or id.
	ErrInvalid = errors.New("invalid catalog request")
)

// Client talks to TMDB.
type Client struct {
	http      *http.Client
	baseURL   string
	apiKey    string
	language  string
	imageBase string
	region    string
	timeout   time.Duration

	limiter *rate.Limiter
	breaker *breaker.Breaker[[]byte]
	cache   *cache.Cache[[]byte]
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithBreakerSettings replaces the default breaker settings.
func WithBreakerSettings(s breaker.Settings) Option {
	return func(c *Client) { c.breaker = breaker.New[[]byte](s) }
}

// New returns a Client for cfg.
func New(cfg config.CatalogConfig, opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		language:  cfg.Language,
		imageBase: strings.TrimRight(cfg.ImageBaseURL, "/"),
		region:    cfg.Region,
		timeout:   cfg.Timeout,
	}
	if c.region == "" {
		c.region = DefaultRegion
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(limit, burst)

	if cfg.CacheTTL > 0 {
		c.cache = cache.New[[]byte]("catalog", cfg.CacheTTL)
	}

	for _, o := range opts {
		o(c)
	}
	if c.breaker == nil {
		s := breaker.DefaultSettings(breakerName)
		s.IsSuccessful = countsAsSuccess
		c.breaker = breaker.New[[]byte](s)
	}
	return c
}

// Close releases the response cache.
func (c *Client) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}

// BreakerState reports the circuit breaker state for health checks.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

// countsAsSuccess keeps 404s and caller cancellations from tripping the
// breaker.
func countsAsSuccess(err error) bool {
	return err == nil ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, context.Canceled)
}

// get fetches path with query q. endpoint labels metrics and logs.
func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values) ([]byte, error) {
	if q == nil {
		q = url.Values{}
	}
	if c.language != "" {
		q.Set("language", c.language)
	}
	key := path + "?" + q.Encode()

	if c.cache != nil {
		if body, ok := c.cache.Get(key); ok {
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordCatalogRequest(endpoint, "rejected", 0)
		return nil, fmt.Errorf("%w: rate limit wait: %w", ErrUpstream, err)
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.fetch(ctx, path, q)
	})
	dur := time.Since(start)

	switch {
	case err == nil:
		metrics.RecordCatalogRequest(endpoint, "ok", dur)
	case breaker.IsRejected(err):
		metrics.RecordCatalogRequest(endpoint, "rejected", dur)
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, endpoint, err)
	default:
		metrics.RecordCatalogRequest(endpoint, "error", dur)
		if !errors.Is(err, ErrNotFound) {
			logging.Ctx(ctx).Warn().Err(err).Str("endpoint", endpoint).Msg("Catalog request failed")
		}
		return nil, err
	}

	if c.cache != nil {
		c.cache.Set(key, body)
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	params := url.Values{}
	for k, v := range q {
		params[k] = v
	}
	params.Set("api_key", c.apiKey)

	u := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request %s: %w", ErrUpstream, path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%s: %w", path, context.Canceled)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, path, scrubKey(err, c.apiKey))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrUpstream, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	default:
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrUpstream, path, resp.StatusCode, statusMessage(body))
	}
}

// statusMessage extracts TMDB's status_message from an error body.
func statusMessage(body []byte) string {
	var e struct {
		StatusMessage string `json:"status_message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.StatusMessage != "" {
		return e.StatusMessage
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}

// scrubKey removes the API key from errors that embed the request URL.
func scrubKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), key, logging.SanitizeToken(key)))
}

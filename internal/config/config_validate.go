// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package config

import (
	"fmt"
	"net/url"
	"slices"
)

// MinJWTSecretLength is the shortest HS256 secret accepted.
const MinJWTSecretLength = 32

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateSecurity,
		c.validateStore,
		c.validateCatalog,
		c.validateEvents,
		c.validateLedger,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains([]string{"json", "console"}, c.Logging.Format) {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "jwt":
		if len(c.Security.JWTSecret) < MinJWTSecretLength {
			return fmt.Errorf("JWT_SECRET must be at least %d characters when AUTH_MODE=jwt", MinJWTSecretLength)
		}
	case "oidc":
		if c.Security.OIDC.IssuerURL == "" {
			return fmt.Errorf("OIDC_ISSUER_URL is required when AUTH_MODE=oidc")
		}
		if c.Security.OIDC.ClientID == "" {
			return fmt.Errorf("OIDC_CLIENT_ID is required when AUTH_MODE=oidc")
		}
	case "none":
		if c.IsProduction() {
			return fmt.Errorf("AUTH_MODE=none is not allowed with ENVIRONMENT=production")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be jwt, oidc or none, got %q", c.Security.AuthMode)
	}

	if c.IsProduction() && c.Security.AuthMode != "none" && slices.Contains(c.Security.CORSOrigins, "*") {
		return fmt.Errorf("CORS_ORIGINS=* is not allowed in production with authentication enabled")
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case "memory":
	case "badger":
		if c.Store.BadgerPath == "" && !c.Store.BadgerInMemory {
			return fmt.Errorf("BADGER_PATH is required when STORE_BACKEND=badger")
		}
	case "firestore":
		if c.Store.FirestoreProject == "" {
			return fmt.Errorf("FIRESTORE_PROJECT is required when STORE_BACKEND=firestore")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be memory, badger or firestore, got %q", c.Store.Backend)
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if c.Catalog.APIKey == "" {
		return fmt.Errorf("TMDB_API_KEY is required")
	}
	u, err := url.Parse(c.Catalog.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("TMDB_BASE_URL must be an absolute URL, got %q", c.Catalog.BaseURL)
	}
	if c.Catalog.RatePerSecond <= 0 {
		return fmt.Errorf("TMDB_RATE_PER_SECOND must be positive")
	}
	if c.Catalog.Burst < 1 {
		return fmt.Errorf("TMDB_BURST must be at least 1")
	}
	return nil
}

func (c *Config) validateEvents() error {
	switch c.Events.Transport {
	case "memory":
	case "nats":
		if c.Events.NATS.URL == "" {
			return fmt.Errorf("NATS_URL is required when EVENTS_TRANSPORT=nats")
		}
		if c.Events.NATS.EmbeddedServer && c.Events.NATS.StoreDir == "" {
			return fmt.Errorf("NATS_STORE_DIR is required when NATS_EMBEDDED=true")
		}
	default:
		return fmt.Errorf("EVENTS_TRANSPORT must be memory or nats, got %q", c.Events.Transport)
	}
	return nil
}

func (c *Config) validateLedger() error {
	if c.Ledger.FanOutConcurrency < 1 {
		return fmt.Errorf("LEDGER_FANOUT_CONCURRENCY must be at least 1")
	}
	return nil
}

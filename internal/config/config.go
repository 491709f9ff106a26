// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

// Package config loads Reeltrack configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Security SecurityConfig `koanf:"security"`
	Store    StoreConfig    `koanf:"store"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Events   EventsConfig   `koanf:"events"`
	Ledger   LedgerConfig   `koanf:"ledger"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// SecurityConfig covers authentication, authorization and request limits.
type SecurityConfig struct {
	// AuthMode is one of jwt, oidc or none. In none mode the X-User-ID header
	// identifies the caller, which is only accepted outside production.
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	TokenTTL          time.Duration `koanf:"token_ttl"`
	OIDC              OIDCConfig    `koanf:"oidc"`
	AdminUsers        []string      `koanf:"admin_users"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// OIDCConfig configures ID token verification. Firebase Authentication is
// an OIDC issuer (https://securetoken.google.com/<project>).
type OIDCConfig struct {
	IssuerURL string `koanf:"issuer_url"`
	ClientID  string `koanf:"client_id"`
	JWKSURL   string `koanf:"jwks_url"`
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	// Backend is memory, badger or firestore.
	Backend          string        `koanf:"backend"`
	BadgerPath       string        `koanf:"badger_path"`
	BadgerInMemory   bool          `koanf:"badger_in_memory"`
	FirestoreProject string        `koanf:"firestore_project"`
	CredentialsFile  string        `koanf:"credentials_file"`
	OpTimeout        time.Duration `koanf:"op_timeout"`
}

// CatalogConfig configures the TMDB client.
type CatalogConfig struct {
	BaseURL       string        `koanf:"base_url"`
	APIKey        string        `koanf:"api_key"`
	Language      string        `koanf:"language"`
	ImageBaseURL  string        `koanf:"image_base_url"`
	Region        string        `koanf:"region"`
	Timeout       time.Duration `koanf:"timeout"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	Burst         int           `koanf:"burst"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`
}

// EventsConfig selects the activity event transport.
type EventsConfig struct {
	// Transport is memory or nats.
	Transport string     `koanf:"transport"`
	NATS      NATSConfig `koanf:"nats"`
}

// NATSConfig configures the NATS JetStream transport.
type NATSConfig struct {
	URL             string        `koanf:"url"`
	EmbeddedServer  bool          `koanf:"embedded_server"`
	Port            int           `koanf:"port"`
	StoreDir        string        `koanf:"store_dir"`
	DurablePrefix   string        `koanf:"durable_prefix"`
	QueueGroup      string        `koanf:"queue_group"`
	AckWaitTimeout  time.Duration `koanf:"ack_wait_timeout"`
	SubscriberCount int           `koanf:"subscriber_count"`
}

// LedgerConfig tunes the rating ledger.
type LedgerConfig struct {
	// FanOutConcurrency bounds concurrent writes during an avatar fan-out.
	FanOutConcurrency int `koanf:"fanout_concurrency"`
}

// Load is the entry point used by main.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs with production checks.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// ShouldWarnAboutCORS reports a wildcard CORS origin combined with real
// authentication, which lets any site drive the API with a stolen token.
func (c *Config) ShouldWarnAboutCORS() bool {
	if c.Security.AuthMode == "none" {
		return false
	}
	for _, o := range c.Security.CORSOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	cfg.Catalog.APIKey = "key"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults with secrets", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
		{"unknown auth mode", func(c *Config) { c.Security.AuthMode = "basic" }, "AUTH_MODE"},
		{"oidc without issuer", func(c *Config) { c.Security.AuthMode = "oidc" }, "OIDC_ISSUER_URL"},
		{"oidc complete", func(c *Config) {
			c.Security.AuthMode = "oidc"
			c.Security.OIDC.IssuerURL = "https://securetoken.google.com/reeltrack"
			c.Security.OIDC.ClientID = "reeltrack"
		}, ""},
		{"none in production", func(c *Config) {
			c.Security.AuthMode = "none"
			c.Server.Environment = "production"
		}, "AUTH_MODE=none"},
		{"wildcard cors in production", func(c *Config) { c.Server.Environment = "production" }, "CORS_ORIGINS"},
		{"rate limit zero", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled", func(c *Config) {
			c.Security.RateLimitReqs = 0
			c.Security.RateLimitDisabled = true
		}, ""},
		{"unknown backend", func(c *Config) { c.Store.Backend = "postgres" }, "STORE_BACKEND"},
		{"firestore without project", func(c *Config) { c.Store.Backend = "firestore" }, "FIRESTORE_PROJECT"},
		{"badger in memory", func(c *Config) {
			c.Store.BadgerPath = ""
			c.Store.BadgerInMemory = true
		}, ""},
		{"missing tmdb key", func(c *Config) { c.Catalog.APIKey = "" }, "TMDB_API_KEY"},
		{"relative tmdb url", func(c *Config) { c.Catalog.BaseURL = "/3" }, "TMDB_BASE_URL"},
		{"unknown transport", func(c *Config) { c.Events.Transport = "kafka" }, "EVENTS_TRANSPORT"},
		{"nats embedded without dir", func(c *Config) {
			c.Events.Transport = "nats"
			c.Events.NATS.StoreDir = ""
		}, "NATS_STORE_DIR"},
		{"fanout zero", func(c *Config) { c.Ledger.FanOutConcurrency = 0 }, "LEDGER_FANOUT_CONCURRENCY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mode    string
		origins []string
		want    bool
	}{
		{"jwt wildcard", "jwt", []string{"*"}, true},
		{"oidc wildcard among others", "oidc", []string{"https://app.example.com", "*"}, true},
		{"jwt explicit", "jwt", []string{"https://app.example.com"}, false},
		{"none wildcard", "none", []string{"*"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := &Config{Security: SecurityConfig{AuthMode: tt.mode, CORSOrigins: tt.origins}}
			if got := cfg.ShouldWarnAboutCORS(); got != tt.want {
				t.Errorf("ShouldWarnAboutCORS() = %v, want %v", got, tt.want)
			}
		})
	}
}

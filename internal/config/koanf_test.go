// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Catalog.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("Catalog.BaseURL = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.Language != "en-US" {
		t.Errorf("Catalog.Language = %q, want en-US", cfg.Catalog.Language)
	}
	if cfg.Catalog.Region != "US" {
		t.Errorf("Catalog.Region = %q, want US", cfg.Catalog.Region)
	}
	if cfg.Store.Backend != "badger" {
		t.Errorf("Store.Backend = %q, want badger", cfg.Store.Backend)
	}
	if cfg.Events.Transport != "memory" {
		t.Errorf("Events.Transport = %q, want memory", cfg.Events.Transport)
	}
	if cfg.Ledger.FanOutConcurrency != 8 {
		t.Errorf("Ledger.FanOutConcurrency = %d, want 8", cfg.Ledger.FanOutConcurrency)
	}
	if cfg.Security.RateLimitWindow != time.Minute {
		t.Errorf("Security.RateLimitWindow = %v, want 1m", cfg.Security.RateLimitWindow)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"TMDB_API_KEY", "catalog.api_key"},
		{"tmdb_region", "catalog.region"},
		{"STORE_BACKEND", "store.backend"},
		{"GOOGLE_APPLICATION_CREDENTIALS", "store.credentials_file"},
		{"NATS_EMBEDDED", "events.nats.embedded_server"},
		{"OIDC_ISSUER_URL", "security.oidc.issuer_url"},
		{"LEDGER_FANOUT_CONCURRENCY", "ledger.fanout_concurrency"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.env); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
		}
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	if got := findConfigFile(); got == filepath.Join(dir, "missing.yaml") {
		t.Errorf("findConfigFile() returned a missing file")
	}
}

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "none.yaml"))
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("TMDB_API_KEY", "tmdb-key")
}

func TestLoadWithKoanfEnvVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("TMDB_CACHE_TTL", "90s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ADMIN_USERS", "root-uid")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("Store.Backend = %q, want memory", cfg.Store.Backend)
	}
	if cfg.Catalog.CacheTTL != 90*time.Second {
		t.Errorf("Catalog.CacheTTL = %v, want 90s", cfg.Catalog.CacheTTL)
	}
	if cfg.Catalog.APIKey != "tmdb-key" {
		t.Errorf("Catalog.APIKey = %q, want tmdb-key", cfg.Catalog.APIKey)
	}
	if got := strings.Join(cfg.Security.CORSOrigins, "|"); got != "https://a.example|https://b.example" {
		t.Errorf("Security.CORSOrigins = %q", got)
	}
	if len(cfg.Security.AdminUsers) != 1 || cfg.Security.AdminUsers[0] != "root-uid" {
		t.Errorf("Security.AdminUsers = %v, want [root-uid]", cfg.Security.AdminUsers)
	}
}

func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  port: 7000
catalog:
  language: nl-BE
events:
  transport: nats
  nats:
    embedded_server: false
    url: nats://broker:4222
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7100")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("Server.Port = %d, want 7100 (env wins)", cfg.Server.Port)
	}
	if cfg.Catalog.Language != "nl-BE" {
		t.Errorf("Catalog.Language = %q, want nl-BE (file)", cfg.Catalog.Language)
	}
	if cfg.Events.Transport != "nats" || cfg.Events.NATS.URL != "nats://broker:4222" {
		t.Errorf("Events = %+v", cfg.Events)
	}
	if cfg.Catalog.Region != "US" {
		t.Errorf("Catalog.Region = %q, want US (default)", cfg.Catalog.Region)
	}
}

func TestLoadWithKoanfValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "short")

	_, err := LoadWithKoanf()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Errorf("LoadWithKoanf() error = %v, want JWT_SECRET complaint", err)
	}
}

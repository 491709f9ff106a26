// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/reeltrack/config.yaml",
	"/etc/reeltrack/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			TokenTTL:        24 * time.Hour,
			AdminUsers:      []string{},
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   120,
			RateLimitWindow: time.Minute,
		},
		Store: StoreConfig{
			Backend:    "badger",
			BadgerPath: "/data/reeltrack",
			OpTimeout:  10 * time.Second,
		},
		Catalog: CatalogConfig{
			BaseURL:       "https://api.themoviedb.org/3",
			Language:      "en-US",
			ImageBaseURL:  "https://image.tmdb.org/t/p/w300",
			Region:        "US",
			Timeout:       10 * time.Second,
			RatePerSecond: 20,
			Burst:         40,
			CacheTTL:      10 * time.Minute,
		},
		Events: EventsConfig{
			Transport: "memory",
			NATS: NATSConfig{
				URL:             "nats://127.0.0.1:4222",
				EmbeddedServer:  true,
				Port:            4222,
				StoreDir:        "/data/nats",
				DurablePrefix:   "reeltrack",
				QueueGroup:      "activity",
				AckWaitTimeout:  30 * time.Second,
				SubscriberCount: 1,
			},
		},
		Ledger: LedgerConfig{
			FanOutConcurrency: 8,
		},
	}
}

// LoadWithKoanf loads configuration in three layers, later layers winning:
//  1. built-in defaults
//  2. optional YAML file
//  3. environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are split on commas when they arrive as strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.admin_users",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
// Variables not listed are ignored.
var envMappings = map[string]string{
	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Security
	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"token_ttl":           "security.token_ttl",
	"oidc_issuer_url":     "security.oidc.issuer_url",
	"oidc_client_id":      "security.oidc.client_id",
	"oidc_jwks_url":       "security.oidc.jwks_url",
	"admin_users":         "security.admin_users",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Document store
	"store_backend":                  "store.backend",
	"badger_path":                    "store.badger_path",
	"badger_in_memory":               "store.badger_in_memory",
	"firestore_project":              "store.firestore_project",
	"google_application_credentials": "store.credentials_file",
	"store_op_timeout":               "store.op_timeout",

	// Catalog
	"tmdb_base_url":        "catalog.base_url",
	"tmdb_api_key":         "catalog.api_key",
	"tmdb_language":        "catalog.language",
	"tmdb_image_base_url":  "catalog.image_base_url",
	"tmdb_region":          "catalog.region",
	"tmdb_timeout":         "catalog.timeout",
	"tmdb_rate_per_second": "catalog.rate_per_second",
	"tmdb_burst":           "catalog.burst",
	"tmdb_cache_ttl":       "catalog.cache_ttl",

	// Events
	"events_transport": "events.transport",
	"nats_url":         "events.nats.url",
	"nats_embedded":    "events.nats.embedded_server",
	"nats_port":        "events.nats.port",
	"nats_store_dir":   "events.nats.store_dir",
	"nats_durable":     "events.nats.durable_prefix",
	"nats_queue_group": "events.nats.queue_group",
	"nats_ack_wait":    "events.nats.ack_wait_timeout",
	"nats_subscribers": "events.nats.subscriber_count",

	// Ledger
	"ledger_fanout_concurrency": "ledger.fanout_concurrency",
}

// envTransformFunc maps TMDB_API_KEY to catalog.api_key and so on.
// Unmapped variables return "" which koanf skips.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

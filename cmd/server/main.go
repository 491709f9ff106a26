// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/reeltrack/internal/api"
	"github.com/tomtom215/reeltrack/internal/auth"
	"github.com/tomtom215/reeltrack/internal/authz"
	"github.com/tomtom215/reeltrack/internal/catalog"
	"github.com/tomtom215/reeltrack/internal/config"
	"github.com/tomtom215/reeltrack/internal/docstore"
	"github.com/tomtom215/reeltrack/internal/events"
	"github.com/tomtom215/reeltrack/internal/friends"
	"github.com/tomtom215/reeltrack/internal/ledger"
	"github.com/tomtom215/reeltrack/internal/lists"
	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/metrics"
	"github.com/tomtom215/reeltrack/internal/profile"
	"github.com/tomtom215/reeltrack/internal/supervisor"
	"github.com/tomtom215/reeltrack/internal/supervisor/services"
	ws "github.com/tomtom215/reeltrack/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	storeGCInterval     = 10 * time.Minute
	storeGCDiscardRatio = 0.5
	busMonitorInterval  = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential startup wiring
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("store", cfg.Store.Backend).
		Str("events", cfg.Events.Transport).
		Str("auth_mode", cfg.Security.AuthMode).
		Msg("Starting Reeltrack with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := docstore.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("open document store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing document store")
		}
	}()

	bus, err := events.Open(ctx, cfg.Events)
	if err != nil {
		return fmt.Errorf("open events bus: %w", err)
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing events bus")
		}
	}()
	publisher := events.NewPublisher(bus.Publisher(), events.PublisherBreakerSettings())
	defer publisher.Close()

	graph := friends.New(store, publisher)
	led := ledger.New(store,
		ledger.WithNotifier(publisher),
		ledger.WithFriends(graph),
		ledger.WithFanOutConcurrency(cfg.Ledger.FanOutConcurrency),
	)
	profiles := profile.New(store)
	userLists := lists.New(store)

	tmdb := catalog.New(cfg.Catalog)
	defer tmdb.Close()
	if cfg.Catalog.APIKey == "" {
		logging.Warn().Msg("TMDB_API_KEY is not set: catalog requests will be rejected upstream")
	}

	hub := ws.NewHub()

	handler := api.NewHandler(cfg, api.Deps{
		Store:    store,
		Lists:    userLists,
		Ledger:   led,
		Friends:  graph,
		Profiles: profiles,
		Catalog:  tmdb,
		Hub:      hub,
		Checks: map[string]api.HealthChecker{
			"events": bus.Healthy,
		},
	})

	authenticator, err := auth.NewAuthenticator(ctx, &cfg.Security)
	if err != nil {
		return fmt.Errorf("initialize authentication: %w", err)
	}
	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		return fmt.Errorf("initialize authorization: %w", err)
	}
	defer enforcer.Close()

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS_ORIGINS=* with authentication enabled: any website can call the API with a user's token")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, authenticator, enforcer).Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
		// No WriteTimeout: websocket connections are long-lived.
	}

	router, err := events.NewRouter(events.DefaultRouterConfig(), bus, hub)
	if err != nil {
		return fmt.Errorf("create events router: %w", err)
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLoggerForComponent("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	// Data layer
	tree.AddDataService(services.NewBusMonitorService(bus, busMonitorInterval))
	if inst, ok := store.(*docstore.Instrumented); ok {
		if badger, ok := inst.Unwrap().(*docstore.BadgerStore); ok {
			tree.AddDataService(services.NewStoreGCService(badger, storeGCInterval, storeGCDiscardRatio))
			logging.Info().Dur("interval", storeGCInterval).Msg("Badger value log GC added to supervisor tree")
		}
	}

	// Messaging layer
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(router)

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Msg("Starting supervisor tree...")
	treeErr := tree.Serve(ctx)
	if errors.Is(treeErr, context.Canceled) {
		treeErr = nil
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return treeErr
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

// Package api serves the Reeltrack HTTP/JSON API. Every user-scoped route
// lives under /api/v1/me and acts on the authenticated subject; there is no
// way to address another user's lists.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/reeltrack/internal/auth"
	"github.com/tomtom215/reeltrack/internal/config"
	"github.com/tomtom215/reeltrack/internal/docstore"
	"github.com/tomtom215/reeltrack/internal/friends"
	"github.com/tomtom215/reeltrack/internal/ledger"
	"github.com/tomtom215/reeltrack/internal/lists"
	"github.com/tomtom215/reeltrack/internal/middleware"
	"github.com/tomtom215/reeltrack/internal/models"
	"github.com/tomtom215/reeltrack/internal/profile"
	ws "github.com/tomtom215/reeltrack/internal/websocket"
)

// Catalog is the movie metadata source. *catalog.Client implements it.
type Catalog interface {
	TopRated(ctx context.Context, kind models.MediaKind) ([]models.CatalogItem, error)
	Trending(ctx context.Context, kind models.MediaKind) ([]models.CatalogItem, error)
	Search(ctx context.Context, query string, page int) ([]models.CatalogItem, error)
	Details(ctx context.Context, kind models.MediaKind, id string) (models.CatalogDetails, error)
	Providers(ctx context.Context, kind models.MediaKind, id, region string) (models.WatchProviders, error)
	Recommendations(ctx context.Context, kind models.MediaKind, id string) ([]models.CatalogItem, error)
}

// HealthChecker reports whether a dependency is usable.
type HealthChecker func(ctx context.Context) bool

// Deps are the services the handlers operate on.
type Deps struct {
	Store    docstore.Store
	Lists    *lists.Lists
	Ledger   *ledger.Ledger
	Friends  *friends.Graph
	Profiles *profile.Store
	Catalog  Catalog
	Hub      *ws.Hub

	// Checks are consulted by /health/ready in addition to the store.
	Checks map[string]HealthChecker
}

// Handler holds the HTTP handlers.
type Handler struct {
	store    docstore.Store
	lists    *lists.Lists
	promoter *lists.Promoter
	rater    *lists.Rater
	ledger   *ledger.Ledger
	friends  *friends.Graph
	profiles *profile.Store
	catalog  Catalog
	wsHub    *ws.Hub
	checks   map[string]HealthChecker
	config   *config.Config
	perfMon  *middleware.PerformanceMonitor

	startTime time.Time
}

// NewHandler wires the handlers. The rater and promoter are built here so
// the dual-write and promotion flows always use the same stores as the
// plain list routes.
func NewHandler(cfg *config.Config, d Deps) *Handler {
	return &Handler{
		store:     d.Store,
		lists:     d.Lists,
		promoter:  lists.NewPromoter(d.Lists),
		rater:     lists.NewRater(d.Lists, d.Ledger, d.Profiles),
		ledger:    d.Ledger,
		friends:   d.Friends,
		profiles:  d.Profiles,
		catalog:   d.Catalog,
		wsHub:     d.Hub,
		checks:    d.Checks,
		config:    cfg,
		perfMon:   middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowThreshold),
		startTime: time.Now(),
	}
}

// subject returns the authenticated caller or writes 401.
func subject(w http.ResponseWriter, r *http.Request) (*auth.AuthSubject, bool) {
	s, err := auth.SubjectFromContext(r.Context())
	if err != nil {
		respondError(w, r, err)
		return nil, false
	}
	return s, true
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/reeltrack/internal/auth"
	"github.com/tomtom215/reeltrack/internal/authz"
	"github.com/tomtom215/reeltrack/internal/middleware"
)

// Router wires handlers to routes and the middleware chain.
type Router struct {
	handler       *Handler
	authn         *auth.Middleware
	authz         *authz.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates the router. Every route under /api/v1 except the health
// probes is authenticated by authenticator and authorized by enforcer.
func NewRouter(handler *Handler, authenticator auth.Authenticator, enforcer *authz.Enforcer) *Router {
	var admins []string
	chiCfg := DefaultChiMiddlewareConfig()
	if handler.config != nil {
		admins = handler.config.Security.AdminUsers
		chiCfg = ChiMiddlewareConfigFromSecurity(handler.config.Security)
	}

	return &Router{
		handler:       handler,
		authn:         auth.NewMiddleware(authenticator, admins, authError),
		authz:         authz.NewMiddleware(enforcer, authzError),
		chiMiddleware: NewChiMiddleware(chiCfg),
	}
}

// Setup builds the HTTP handler.
func (router *Router) Setup() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)
	r.Use(h.perfMon.Middleware)
	r.Use(middleware.Compression)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health/live", h.HealthLive)
		r.Get("/health/ready", h.HealthReady)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(router.authn.Authenticate)
			r.Use(router.authz.AuthorizeRequest)

			r.Get("/me", h.Me)
			r.Route("/me/profile", func(r chi.Router) {
				r.Get("/", h.GetMyProfile)
				r.Post("/", h.RegisterProfile)
				r.Put("/", h.UpsertProfile)
				r.Put("/avatar", h.UpdateAvatar)
			})

			r.Route("/me/watchlist", func(r chi.Router) {
				r.Get("/", h.ListWatchlist)
				r.Post("/", h.AddToWatchlist)
				r.Get("/{movieId}", h.GetWatchlistEntry)
				r.Patch("/{movieId}", h.UpdateWatchlistProgress)
				r.Delete("/{movieId}", h.RemoveFromWatchlist)
				r.Post("/{movieId}/finish", h.FinishMovie)
			})
			r.Route("/me/finished", func(r chi.Router) {
				r.Get("/", h.ListFinished)
				r.Post("/", h.AddToFinished)
				r.Get("/{movieId}", h.GetFinishedEntry)
				r.Put("/{movieId}/rating", h.RateMovie)
				r.Delete("/{movieId}", h.RemoveFromFinished)
			})
			r.Route("/me/series/watchlist", func(r chi.Router) {
				r.Get("/", h.ListSeriesWatchlist)
				r.Post("/", h.AddToSeriesWatchlist)
				r.Get("/{seriesId}", h.GetSeriesWatchlistEntry)
				r.Patch("/{seriesId}", h.UpdateSeriesProgress)
				r.Delete("/{seriesId}", h.RemoveFromSeriesWatchlist)
				r.Post("/{seriesId}/finish", h.FinishSeries)
			})
			r.Route("/me/series/finished", func(r chi.Router) {
				r.Get("/", h.ListSeriesFinished)
				r.Post("/", h.AddToSeriesFinished)
				r.Get("/{seriesId}", h.GetSeriesFinishedEntry)
				r.Put("/{seriesId}/rating", h.RateSeries)
				r.Delete("/{seriesId}", h.RemoveFromSeriesFinished)
			})

			r.Get("/me/ratings", h.ListMyRatings)
			r.Delete("/me/ratings/{contentId}", h.DeleteMyRating)

			r.Route("/me/friends", func(r chi.Router) {
				r.Get("/", h.ListFriends)
				r.Post("/", h.AddFriend)
				r.Get("/{friendId}", h.CheckFriend)
				r.Delete("/{friendId}", h.RemoveFriend)
			})
			r.Get("/me/feed", h.Feed)

			r.Get("/users/search", h.SearchUsers)
			r.Get("/users/{userId}/profile", h.GetUserProfile)

			r.Route("/catalog", func(r chi.Router) {
				r.Get("/search", h.SearchCatalog)
				r.Get("/{kind}/top-rated", h.TopRated)
				r.Get("/{kind}/trending", h.Trending)
				r.Get("/{kind}/{id}", h.CatalogDetails)
				r.Get("/{kind}/{id}/providers", h.WatchProviders)
				r.Get("/{kind}/{id}/recommendations", h.Recommendations)
				r.Post("/{kind}/{id}/watchlist", h.AddCatalogToWatchlist)
			})

			r.Get("/ws", h.WebSocket)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/users/{userId}/ratings", h.AdminUserRatings)
				r.Get("/performance", h.AdminPerformance)
			})
		})
	})

	return r
}

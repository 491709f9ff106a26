// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/reeltrack/internal/middleware"
)

// PerformanceResponse is the body of GET /admin/performance.
type PerformanceResponse struct {
	Endpoints []middleware.EndpointStats  `json:"endpoints"`
	Recent    []middleware.RequestMetrics `json:"recent"`
	Clients   int                         `json:"websocketClients"`
	Uptime    string                      `json:"uptime"`
}

// AdminUserRatings returns any user's rating ledger. Routed behind the
// admin role.
func (h *Handler) AdminUserRatings(w http.ResponseWriter, r *http.Request) {
	h.writeRatings(w, r, chi.URLParam(r, "userId"))
}

// AdminPerformance returns per-route latency statistics.
func (h *Handler) AdminPerformance(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, r, PerformanceResponse{
		Endpoints: h.perfMon.GetStats(),
		Recent:    h.perfMon.GetRecentMetrics(intQuery(r, "limit", 50)),
		Clients:   h.clientCount(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

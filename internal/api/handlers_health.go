// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package api

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/tomtom215/reeltrack/internal/docstore"
)

// readinessTimeout bounds each dependency probe.
const readinessTimeout = 2 * time.Second

// HealthStatus is the body of the health endpoints.
type HealthStatus struct {
	Status     string          `json:"status"`
	Uptime     float64         `json:"uptime_seconds"`
	GoVersion  string          `json:"go_version,omitempty"`
	Components map[string]bool `json:"components,omitempty"`
	Clients    int             `json:"websocket_clients"`
}

// HealthLive reports that the process is serving requests.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(HealthStatus{
		Status:    "alive",
		Uptime:    time.Since(h.startTime).Seconds(),
		GoVersion: runtime.Version(),
		Clients:   h.clientCount(),
	})
}

// HealthReady probes the document store and every registered check. It
// answers 503 when any of them fails.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	components := map[string]bool{"store": h.storeReady(r.Context())}
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		components[name] = h.checks[name](ctx)
		cancel()
	}

	status := HealthStatus{
		Status:     "ready",
		Uptime:     time.Since(h.startTime).Seconds(),
		Components: components,
		Clients:    h.clientCount(),
	}
	for _, ok := range components {
		if !ok {
			status.Status = "not_ready"
		}
	}

	rw := NewResponseWriter(w, r)
	if status.Status != "ready" {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service not ready", status)
		return
	}
	rw.Success(status)
}

func (h *Handler) storeReady(ctx context.Context) bool {
	if h.store == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	_, err := h.store.Get(ctx, docstore.Collection("health").Doc("probe"))
	return err == nil || errors.Is(err, docstore.ErrNotFound)
}

func (h *Handler) clientCount() int {
	if h.wsHub == nil {
		return 0
	}
	return h.wsHub.GetClientCount()
}

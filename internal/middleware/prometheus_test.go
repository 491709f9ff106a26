// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/reeltrack/internal/metrics"
)

func TestPrometheusMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics)
	r.Get("/api/v1/me/watchlist/{movieId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := metrics.APIRequestsTotal.WithLabelValues("GET", "/api/v1/me/watchlist/{movieId}", "404")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/me/watchlist/"+id, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Errorf("api_requests_total delta = %v, want 3", got)
	}
	if got := testutil.ToFloat64(metrics.APIActiveRequests); got != 0 {
		t.Errorf("api_active_requests = %v, want 0", got)
	}
}

func TestRoutePatternUnmatched(t *testing.T) {
	t.Parallel()
	if got := routePattern(httptest.NewRequest(http.MethodGet, "/nope", nil)); got != "unmatched" {
		t.Errorf("routePattern() = %q, want unmatched", got)
	}
}

func TestStatusRecorderKeepsFirstStatus(t *testing.T) {
	t.Parallel()
	rec := newStatusRecorder(httptest.NewRecorder())
	rec.WriteHeader(http.StatusCreated)
	rec.WriteHeader(http.StatusInternalServerError)
	if rec.statusCode != http.StatusCreated {
		t.Errorf("statusCode = %d, want %d", rec.statusCode, http.StatusCreated)
	}
	if _, _, err := rec.Hijack(); err == nil {
		t.Error("Hijack() on a recorder expected error, got nil")
	}
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

/*
Package middleware provides the infrastructure HTTP middleware of the API:
request ids, Prometheus instrumentation, gzip compression and slow-request
tracking. Everything is written against http.Handler so it plugs into chi:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(monitor.Middleware)
	r.Use(middleware.Compression)

Authentication and authorization live in the auth and authz packages and are
mounted after these.

The response writer wrapper used for status capture implements
http.Hijacker and http.Flusher so websocket upgrades pass through.
*/
package middleware

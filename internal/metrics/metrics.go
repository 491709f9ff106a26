// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

// Package metrics holds the Prometheus collectors for Reeltrack. Collectors are
// package globals registered with the default registry via promauto.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Document store
	StoreOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "docstore_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation", "collection"},
	)

	StoreOpErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docstore_operation_errors_total",
			Help: "Total number of failed document store operations",
		},
		[]string{"operation", "collection", "error_type"}, // not_found, unavailable, other
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Catalog (TMDB)
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Total number of upstream catalog requests",
		},
		[]string{"endpoint", "result"}, // result: ok, error, rejected
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Upstream catalog request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions (TTL expiry)",
		},
		[]string{"cache_type"},
	)

	// Multi-step flows
	FlowSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_steps_total",
			Help: "Steps of non-transactional multi-step flows by outcome",
		},
		[]string{"flow", "step", "result"}, // flow: promote, rate, befriend
	)

	FanOutWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_fanout_writes_total",
			Help: "Avatar fan-out writes to rating ledger entries",
		},
		[]string{"result"},
	)

	FeedFriends = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ledger_feed_friends",
			Help:    "Number of friends read per feed request",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	// Events
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Activity events published by topic and result",
		},
		[]string{"topic", "result"},
	)

	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_consumed_total",
			Help: "Activity events consumed by topic",
		},
		[]string{"topic"},
	)

	EventsBusUp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "events_bus_up",
			Help: "Whether the activity event transport is healthy (1) or not (0)",
		},
	)

	// Badger value log GC
	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docstore_gc_runs_total",
			Help: "Value log garbage collection runs by result",
		},
		[]string{"result"}, // result: success, error
	)

	// WebSocket
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordStoreOp records one document store call. errorType is empty on success.
func RecordStoreOp(operation, collection string, duration time.Duration, errorType string) {
	StoreOpDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
	if errorType != "" {
		StoreOpErrors.WithLabelValues(operation, collection, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCatalogRequest records one upstream TMDB call.
func RecordCatalogRequest(endpoint, result string, duration time.Duration) {
	CatalogRequests.WithLabelValues(endpoint, result).Inc()
	CatalogRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordFlowStep records the outcome of one step of a multi-step flow.
func RecordFlowStep(flow, step string, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	FlowSteps.WithLabelValues(flow, step, result).Inc()
}

// RecordFanOut records the outcome of an avatar fan-out.
func RecordFanOut(updated, failed int) {
	FanOutWrites.WithLabelValues("ok").Add(float64(updated))
	FanOutWrites.WithLabelValues("failed").Add(float64(failed))
}

// RecordEventPublished records a publish attempt.
func RecordEventPublished(topic string, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	EventsPublished.WithLabelValues(topic, result).Inc()
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/metrics"
)

// GarbageCollector matches *docstore.BadgerStore.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// StoreGCService runs value log garbage collection on a fixed interval.
//
// A failed run is counted and logged but does not stop the service; badger
// reports most GC problems as transient.
type StoreGCService struct {
	store        GarbageCollector
	interval     time.Duration
	discardRatio float64
	name         string
}

// NewStoreGCService creates the GC loop. Defaults: 10m interval, 0.5 ratio.
func NewStoreGCService(store GarbageCollector, interval time.Duration, discardRatio float64) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = 0.5
	}
	return &StoreGCService{
		store:        store,
		interval:     interval,
		discardRatio: discardRatio,
		name:         "docstore-gc",
	}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *StoreGCService) runOnce() {
	start := time.Now()
	if err := s.store.RunGC(s.discardRatio); err != nil {
		metrics.StoreGCRuns.WithLabelValues("error").Inc()
		logging.Warn().Err(fmt.Errorf("value log gc: %w", err)).Str("service", s.name).Msg("Store GC failed")
		return
	}
	metrics.StoreGCRuns.WithLabelValues("success").Inc()
	logging.Debug().Str("service", s.name).Dur("took", time.Since(start)).Msg("Store GC completed")
}

// String implements fmt.Stringer for logging.
func (s *StoreGCService) String() string {
	return s.name
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package services

import (
	"context"
	"time"

	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/metrics"
)

// BusHealthChecker matches *events.Bus.
type BusHealthChecker interface {
	Healthy(ctx context.Context) bool
}

// BusMonitorService polls the event transport and exports its health as the
// events_bus_up gauge. State changes are logged once per transition.
//
// Example usage:
//
//	tree.AddDataService(services.NewBusMonitorService(bus, 30*time.Second))
type BusMonitorService struct {
	bus      BusHealthChecker
	interval time.Duration
	timeout  time.Duration
	name     string
}

// NewBusMonitorService creates the monitor. Non-positive intervals default to 30s.
func NewBusMonitorService(bus BusHealthChecker, interval time.Duration) *BusMonitorService {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	timeout := interval / 2
	if timeout > 5*time.Second {
		timeout = 5 * time.Second
	}
	return &BusMonitorService{
		bus:      bus,
		interval: interval,
		timeout:  timeout,
		name:     "events-bus-monitor",
	}
}

// Serve implements suture.Service. It checks once immediately and then on
// every tick until ctx is canceled.
func (s *BusMonitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	healthy := s.check(ctx, true)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			healthy = s.check(ctx, healthy)
		}
	}
}

func (s *BusMonitorService) check(ctx context.Context, was bool) bool {
	checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ok := s.bus.Healthy(checkCtx)
	if ok {
		metrics.EventsBusUp.Set(1)
	} else {
		metrics.EventsBusUp.Set(0)
	}

	switch {
	case was && !ok:
		logging.Warn().Str("service", s.name).Msg("Event bus became unhealthy")
	case !was && ok:
		logging.Info().Str("service", s.name).Msg("Event bus recovered")
	}
	return ok
}

// String implements fmt.Stringer for logging.
func (s *BusMonitorService) String() string {
	return s.name
}

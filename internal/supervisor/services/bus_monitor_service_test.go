// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/reeltrack/internal/metrics"
)

type fakeBus struct {
	healthy atomic.Bool
	checks  atomic.Int32
}

func (f *fakeBus) Healthy(context.Context) bool {
	f.checks.Add(1)
	return f.healthy.Load()
}

var _ suture.Service = (*BusMonitorService)(nil)

func TestNewBusMonitorServiceDefaults(t *testing.T) {
	t.Parallel()

	svc := NewBusMonitorService(&fakeBus{}, 0)
	if svc.interval != 30*time.Second {
		t.Errorf("interval = %v, want 30s", svc.interval)
	}
	if svc.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", svc.timeout)
	}
	if svc.String() != "events-bus-monitor" {
		t.Errorf("String() = %q, want %q", svc.String(), "events-bus-monitor")
	}
}

// Not parallel: asserts on the package-global gauge.
func TestBusMonitorServiceTracksHealth(t *testing.T) {
	bus := &fakeBus{}
	bus.healthy.Store(true)
	svc := NewBusMonitorService(bus, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitFor(t, func() bool { return testutil.ToFloat64(metrics.EventsBusUp) == 1 })

	bus.healthy.Store(false)
	waitFor(t, func() bool { return testutil.ToFloat64(metrics.EventsBusUp) == 0 })

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() error = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
	if bus.checks.Load() < 2 {
		t.Errorf("checks = %d, want >= 2", bus.checks.Load())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/reeltrack/internal/metrics"
)

var errUpstream = errors.New("upstream failed")

func tripSettings(name string) Settings {
	return Settings{
		Name:         name,
		MaxRequests:  1,
		Timeout:      time.Hour,
		MinRequests:  3,
		FailureRatio: 0.5,
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()
	b := New[int](tripSettings("test-open"))

	for i := 0; i < 3; i++ {
		if _, err := b.Execute(func() (int, error) { return 0, errUpstream }); !errors.Is(err, errUpstream) {
			t.Fatalf("Execute() #%d error = %v, want upstream error", i, err)
		}
	}
	if got := b.State(); got != "open" {
		t.Fatalf("State() = %q, want open", got)
	}

	called := false
	_, err := b.Execute(func() (int, error) { called = true; return 1, nil })
	if !IsRejected(err) {
		t.Errorf("Execute() while open error = %v, want rejection", err)
	}
	if called {
		t.Error("protected function ran while the breaker was open")
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-open")); got != 2 {
		t.Errorf("state gauge = %v, want 2", got)
	}
}

func TestBreakerStaysClosedBelowMinimum(t *testing.T) {
	t.Parallel()
	b := New[string](tripSettings("test-min"))

	for i := 0; i < 2; i++ {
		_, _ = b.Execute(func() (string, error) { return "", errUpstream })
	}
	if got := b.State(); got != "closed" {
		t.Errorf("State() = %q, want closed", got)
	}
	v, err := b.Execute(func() (string, error) { return "ok", nil })
	if err != nil || v != "ok" {
		t.Errorf("Execute() = %q, %v, want ok, nil", v, err)
	}
}

func TestBreakerIsSuccessful(t *testing.T) {
	t.Parallel()
	notFound := errors.New("not found")
	s := tripSettings("test-success")
	s.IsSuccessful = func(err error) bool { return err == nil || errors.Is(err, notFound) }
	b := New[int](s)

	for i := 0; i < 5; i++ {
		_, _ = b.Execute(func() (int, error) { return 0, notFound })
	}
	if got := b.State(); got != "closed" {
		t.Errorf("State() = %q, want closed when errors are counted as success", got)
	}
}

func TestDefaultSettings(t *testing.T) {
	t.Parallel()
	s := DefaultSettings("tmdb")
	if s.Name != "tmdb" || s.MinRequests != 10 || s.FailureRatio != 0.6 || s.Timeout != 2*time.Minute {
		t.Errorf("DefaultSettings() = %+v", s)
	}
}

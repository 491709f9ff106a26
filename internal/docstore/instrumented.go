// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package docstore

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/reeltrack/internal/metrics"
)

// Instrumented records latency and failures of every call on the wrapped
// store. Metrics are labelled by collection name ("watchlist"), never by
// full path, to keep label cardinality independent of the user count.
type Instrumented struct {
	next    Store
	timeout time.Duration
}

// NewInstrumented wraps next.
func NewInstrumented(next Store) *Instrumented {
	return &Instrumented{next: next}
}

// NewInstrumentedWithTimeout wraps next and bounds every call to timeout
// unless the caller's context already expires sooner.
func NewInstrumentedWithTimeout(next Store, timeout time.Duration) *Instrumented {
	return &Instrumented{next: next, timeout: timeout}
}

func (s *Instrumented) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Unwrap returns the wrapped store.
func (s *Instrumented) Unwrap() Store { return s.next }

func observe(op Op, col CollectionRef, start time.Time, err error) {
	metrics.RecordStoreOp(string(op), col.Name(), time.Since(start), errorType(err))
}

func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}

// Set implements Store.
func (s *Instrumented) Set(ctx context.Context, ref DocRef, fields Fields) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	start := time.Now()
	err := s.next.Set(ctx, ref, fields)
	observe(OpSet, ref.Collection, start, err)
	return err
}

// SetMerge implements Store.
func (s *Instrumented) SetMerge(ctx context.Context, ref DocRef, fields Fields) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	start := time.Now()
	err := s.next.SetMerge(ctx, ref, fields)
	observe(OpSetMerge, ref.Collection, start, err)
	return err
}

// Update implements Store.
func (s *Instrumented) Update(ctx context.Context, ref DocRef, fields Fields) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	start := time.Now()
	err := s.next.Update(ctx, ref, fields)
	observe(OpUpdate, ref.Collection, start, err)
	return err
}

// Get implements Store.
func (s *Instrumented) Get(ctx context.Context, ref DocRef) (Document, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	start := time.Now()
	doc, err := s.next.Get(ctx, ref)
	observe(OpGet, ref.Collection, start, err)
	return doc, err
}

// GetAll implements Store.
func (s *Instrumented) GetAll(ctx context.Context, col CollectionRef) ([]Document, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	start := time.Now()
	docs, err := s.next.GetAll(ctx, col)
	observe(OpGetAll, col, start, err)
	return docs, err
}

// Delete implements Store.
func (s *Instrumented) Delete(ctx context.Context, ref DocRef) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	start := time.Now()
	err := s.next.Delete(ctx, ref)
	observe(OpDelete, ref.Collection, start, err)
	return err
}

// Close implements Store.
func (s *Instrumented) Close() error {
	return s.next.Close()
}

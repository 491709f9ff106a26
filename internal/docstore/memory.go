// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package docstore

import (
	"context"
	"maps"
	"sync"
	"time"
)

// FaultFunc decides whether an operation should fail. A non-nil return is
// reported to the caller wrapped in ErrUnavailable.
type FaultFunc func(op Op, ref DocRef) error

// MemoryStore keeps documents in process memory. It backs tests and
// single-process development runs.
type MemoryStore struct {
	mu    sync.RWMutex
	cols  map[CollectionRef]map[string]Fields
	now   func() time.Time
	fault FaultFunc
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock sets the clock used to resolve ServerTimestamp.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) { m.now = now }
}

// NewMemory returns an empty MemoryStore.
func NewMemory(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		cols: make(map[CollectionRef]map[string]Fields),
		now:  time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// FailWhen installs a fault hook. Pass nil to clear it.
func (m *MemoryStore) FailWhen(f FaultFunc) {
	m.mu.Lock()
	m.fault = f
	m.mu.Unlock()
}

func (m *MemoryStore) check(ctx context.Context, op Op, ref DocRef) error {
	if err := ctx.Err(); err != nil {
		return unavailable(op, ref.Path(), err)
	}
	m.mu.RLock()
	f := m.fault
	m.mu.RUnlock()
	if f != nil {
		if err := f(op, ref); err != nil {
			return unavailable(op, ref.Path(), err)
		}
	}
	return nil
}

// Set implements Store.
func (m *MemoryStore) Set(ctx context.Context, ref DocRef, fields Fields) error {
	if err := ref.validate(); err != nil {
		return err
	}
	if err := m.check(ctx, OpSet, ref); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collection(ref.Collection)[ref.ID] = cloneFields(resolve(fields, m.now()))
	return nil
}

// SetMerge implements Store.
func (m *MemoryStore) SetMerge(ctx context.Context, ref DocRef, fields Fields) error {
	if err := ref.validate(); err != nil {
		return err
	}
	if err := m.check(ctx, OpSetMerge, ref); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	col := m.collection(ref.Collection)
	existing, ok := col[ref.ID]
	if !ok {
		existing = Fields{}
	}
	maps.Copy(existing, cloneFields(resolve(fields, m.now())))
	col[ref.ID] = existing
	return nil
}

// Update implements Store.
func (m *MemoryStore) Update(ctx context.Context, ref DocRef, fields Fields) error {
	if err := ref.validate(); err != nil {
		return err
	}
	if err := m.check(ctx, OpUpdate, ref); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.cols[ref.Collection][ref.ID]
	if !ok {
		return notFound(ref.Path())
	}
	maps.Copy(existing, cloneFields(resolve(fields, m.now())))
	return nil
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, ref DocRef) (Document, error) {
	if err := ref.validate(); err != nil {
		return Document{}, err
	}
	if err := m.check(ctx, OpGet, ref); err != nil {
		return Document{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.cols[ref.Collection][ref.ID]
	if !ok {
		return Document{}, notFound(ref.Path())
	}
	return Document{ID: ref.ID, Fields: cloneFields(f)}, nil
}

// GetAll implements Store.
func (m *MemoryStore) GetAll(ctx context.Context, col CollectionRef) ([]Document, error) {
	if err := col.validate(); err != nil {
		return nil, err
	}
	if err := m.check(ctx, OpGetAll, DocRef{Collection: col}); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	docs := make([]Document, 0, len(m.cols[col]))
	for id, f := range m.cols[col] {
		docs = append(docs, Document{ID: id, Fields: cloneFields(f)})
	}
	return docs, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, ref DocRef) error {
	if err := ref.validate(); err != nil {
		return err
	}
	if err := m.check(ctx, OpDelete, ref); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cols[ref.Collection], ref.ID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }

// collection must be called with mu held for writing.
func (m *MemoryStore) collection(c CollectionRef) map[string]Fields {
	col, ok := m.cols[c]
	if !ok {
		col = make(map[string]Fields)
		m.cols[c] = col
	}
	return col
}

// cloneFields copies the map and the slice values records use, so callers
// never share backing arrays with stored documents.
func cloneFields(f Fields) Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		switch tv := v.(type) {
		case []int:
			out[k] = append([]int(nil), tv...)
		case []string:
			out[k] = append([]string(nil), tv...)
		case []any:
			out[k] = append([]any(nil), tv...)
		default:
			out[k] = v
		}
	}
	return out
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package docstore

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key layout: "doc:" + collection path + 0x00 + id. The separator keeps a
// prefix scan of one collection from reaching nested sub-collections.
const (
	docKeyPrefix = "doc:"
	keySep       = "\x00"

	// conflictRetries bounds retries of read-modify-write transactions that
	// lose a race on the same key.
	conflictRetries = 3
)

// BadgerStore persists documents as JSON values in an embedded BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	now func() time.Time
}

// BadgerOptions configures OpenBadger.
type BadgerOptions struct {
	Path     string
	InMemory bool
	Now      func() time.Time
}

// OpenBadger opens (or creates) a BadgerDB at opts.Path.
func OpenBadger(opts BadgerOptions) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", opts.Path, err)
	}
	return NewBadger(db, opts.Now), nil
}

// NewBadger wraps an already open database. now may be nil.
func NewBadger(db *badger.DB, now func() time.Time) *BadgerStore {
	if now == nil {
		now = time.Now
	}
	return &BadgerStore{db: db, now: now}
}

func collectionPrefix(c CollectionRef) []byte {
	return []byte(docKeyPrefix + string(c) + keySep)
}

func docKey(ref DocRef) []byte {
	return append(collectionPrefix(ref.Collection), ref.ID...)
}

func encodeFields(f Fields) ([]byte, error) {
	return json.Marshal(f)
}

func decodeFields(b []byte) (Fields, error) {
	var f Fields
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	return f, nil
}

// Set implements Store.
func (s *BadgerStore) Set(ctx context.Context, ref DocRef, fields Fields) error {
	if err := ref.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return unavailable(OpSet, ref.Path(), err)
	}
	data, err := encodeFields(resolve(fields, s.now()))
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref.Path(), err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(docKey(ref), data)
	}); err != nil {
		return unavailable(OpSet, ref.Path(), err)
	}
	return nil
}

// SetMerge implements Store.
func (s *BadgerStore) SetMerge(ctx context.Context, ref DocRef, fields Fields) error {
	if err := ref.validate(); err != nil {
		return err
	}
	return s.merge(ctx, OpSetMerge, ref, fields, false)
}

// Update implements Store.
func (s *BadgerStore) Update(ctx context.Context, ref DocRef, fields Fields) error {
	if err := ref.validate(); err != nil {
		return err
	}
	return s.merge(ctx, OpUpdate, ref, fields, true)
}

func (s *BadgerStore) merge(ctx context.Context, op Op, ref DocRef, fields Fields, mustExist bool) error {
	key := docKey(ref)
	var err error
	for attempt := 0; attempt < conflictRetries; attempt++ {
		if cerr := ctx.Err(); cerr != nil {
			return unavailable(op, ref.Path(), cerr)
		}
		err = s.db.Update(func(txn *badger.Txn) error {
			existing := Fields{}
			item, gerr := txn.Get(key)
			switch {
			case errors.Is(gerr, badger.ErrKeyNotFound):
				if mustExist {
					return notFound(ref.Path())
				}
			case gerr != nil:
				return gerr
			default:
				if verr := item.Value(func(val []byte) error {
					f, derr := decodeFields(val)
					existing = f
					return derr
				}); verr != nil {
					return verr
				}
			}
			maps.Copy(existing, resolve(fields, s.now()))
			data, eerr := encodeFields(existing)
			if eerr != nil {
				return eerr
			}
			return txn.Set(key, data)
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound):
		return err
	default:
		return unavailable(op, ref.Path(), err)
	}
}

// Get implements Store.
func (s *BadgerStore) Get(ctx context.Context, ref DocRef) (Document, error) {
	if err := ref.validate(); err != nil {
		return Document{}, err
	}
	if err := ctx.Err(); err != nil {
		return Document{}, unavailable(OpGet, ref.Path(), err)
	}
	var fields Fields
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(docKey(ref))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return notFound(ref.Path())
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			f, derr := decodeFields(val)
			fields = f
			return derr
		})
	})
	switch {
	case err == nil:
		return Document{ID: ref.ID, Fields: fields}, nil
	case errors.Is(err, ErrNotFound):
		return Document{}, err
	default:
		return Document{}, unavailable(OpGet, ref.Path(), err)
	}
}

// GetAll implements Store.
func (s *BadgerStore) GetAll(ctx context.Context, col CollectionRef) ([]Document, error) {
	if err := col.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, unavailable(OpGetAll, string(col), err)
	}
	prefix := collectionPrefix(col)
	var docs []Document
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id := string(item.Key()[len(prefix):])
			if err := item.Value(func(val []byte) error {
				f, derr := decodeFields(val)
				if derr != nil {
					return derr
				}
				docs = append(docs, Document{ID: id, Fields: f})
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, unavailable(OpGetAll, string(col), err)
	}
	return docs, nil
}

// Delete implements Store.
func (s *BadgerStore) Delete(ctx context.Context, ref DocRef) error {
	if err := ref.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return unavailable(OpDelete, ref.Path(), err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(docKey(ref))
	}); err != nil {
		return unavailable(OpDelete, ref.Path(), err)
	}
	return nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// RunGC rewrites value log files until badger reports nothing left to
// reclaim. In-memory databases have no value log and return nil.
func (s *BadgerStore) RunGC(discardRatio float64) error {
	for {
		err := s.db.RunValueLogGC(discardRatio)
		switch {
		case errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
			return nil
		case err != nil:
			return fmt.Errorf("badger value log gc: %w", err)
		}
	}
}

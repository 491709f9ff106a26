// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

// Package lists stores the four per-user title lists: movies being watched,
// finished movies, series being watched and finished series.
//
// Each list is a Store over one record type. Entries are keyed by their
// content id, so adding the same title twice overwrites the first entry.
// Progress and rating updates are strict: they fail with
// docstore.ErrNotFound when the entry does not exist and never create it.
//
// Moving a title from a watchlist to a finished list is done by Promoter as
// two independent writes. A failure between them is logged and returned but
// not rolled back, so the title can appear in both lists.
package lists

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/reeltrack/internal/docstore"
	"github.com/tomtom215/reeltrack/internal/validation"
)

// ErrInvalid is returned when an entry or update fails validation. Nothing is
// written in that case.
var ErrInvalid = errors.New("invalid list entry")

// Collection names under users/{userId}/.
const (
	CollectionWatchlist       = "watchlist"
	CollectionFinished        = "finishedlist"
	CollectionSeriesWatchlist = "seriesWatchlist"
	CollectionSeriesFinished  = "seriesFinishedlist"
)

// Entry is implemented by every list record.
type Entry interface {
	Key() string
}

// kind describes how one record type is stored.
type kind[E Entry] struct {
	collection string
	normalize  func(E) E
	check      func(E) error
	encode     func(E) docstore.Fields
}

// Store persists one kind of list entry for many users.
type Store[E Entry] struct {
	db docstore.Store
	k  kind[E]
}

func newStore[E Entry](db docstore.Store, k kind[E]) *Store[E] {
	return &Store[E]{db: db, k: k}
}

// Collection returns the collection name of this list.
func (s *Store[E]) Collection() string { return s.k.collection }

func (s *Store[E]) ref(userID, id string) docstore.DocRef {
	return docstore.UserCollection(userID, s.k.collection).Doc(id)
}

// Add writes e at its key, replacing any existing entry. Optional numeric
// fields are normalized and server timestamps are set.
func (s *Store[E]) Add(ctx context.Context, userID string, e E) error {
	if userID == "" {
		return fmt.Errorf("%w: empty user id", ErrInvalid)
	}
	if s.k.normalize != nil {
		e = s.k.normalize(e)
	}
	if err := s.validate(e); err != nil {
		return err
	}
	if err := s.db.Set(ctx, s.ref(userID, e.Key()), s.k.encode(e)); err != nil {
		return fmt.Errorf("add %s to %s: %w", e.Key(), s.k.collection, err)
	}
	return nil
}

// List returns every entry of the user's list. Order is not defined.
func (s *Store[E]) List(ctx context.Context, userID string) ([]E, error) {
	docs, err := s.db.GetAll(ctx, docstore.UserCollection(userID, s.k.collection))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.k.collection, err)
	}
	entries, err := docstore.DecodeAll[E](docs)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.k.collection, err)
	}
	return entries, nil
}

// Get returns one entry or docstore.ErrNotFound.
func (s *Store[E]) Get(ctx context.Context, userID, id string) (E, error) {
	var zero E
	doc, err := s.db.Get(ctx, s.ref(userID, id))
	if err != nil {
		return zero, fmt.Errorf("get %s from %s: %w", id, s.k.collection, err)
	}
	e, err := docstore.Decode[E](doc)
	if err != nil {
		return zero, fmt.Errorf("get %s from %s: %w", id, s.k.collection, err)
	}
	return e, nil
}

// Remove deletes the entry. Removing an absent entry is not an error.
func (s *Store[E]) Remove(ctx context.Context, userID, id string) error {
	if err := s.db.Delete(ctx, s.ref(userID, id)); err != nil {
		return fmt.Errorf("remove %s from %s: %w", id, s.k.collection, err)
	}
	return nil
}

func (s *Store[E]) update(ctx context.Context, userID, id string, fields docstore.Fields) error {
	if err := s.db.Update(ctx, s.ref(userID, id), fields); err != nil {
		return fmt.Errorf("update %s in %s: %w", id, s.k.collection, err)
	}
	return nil
}

func (s *Store[E]) validate(e E) error {
	if verr := validation.ValidateStruct(e); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, verr)
	}
	if s.k.check != nil {
		if err := s.k.check(e); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}
	return nil
}

// Lists groups the four list stores of the service.
type Lists struct {
	Watchlist       *MovieWatchlist
	Finished        *MovieFinished
	SeriesWatchlist *SeriesWatchlist
	SeriesFinished  *SeriesFinished
}

// New builds all four list stores on db.
func New(db docstore.Store) *Lists {
	return &Lists{
		Watchlist:       &MovieWatchlist{newStore(db, watchlistKind)},
		Finished:        &MovieFinished{newStore(db, finishedKind)},
		SeriesWatchlist: &SeriesWatchlist{newStore(db, seriesWatchlistKind)},
		SeriesFinished:  &SeriesFinished{newStore(db, seriesFinishedKind)},
	}
}

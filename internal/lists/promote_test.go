// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package lists

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/tomtom215/reeltrack/internal/docstore"
)

func TestPromoteMovieCarriesFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l, _ := newTestLists(t)
	p := NewPromoter(l)

	w := matrix()
	w.ProgressMinutes = 120
	if err := l.Watchlist.Add(ctx, "u1", w); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	original, _ := l.Watchlist.Get(ctx, "u1", "603")

	if _, err := p.PromoteMovie(ctx, "u1", "603"); err != nil {
		t.Fatalf("PromoteMovie() error = %v", err)
	}

	finished, err := l.Finished.List(ctx, "u1")
	if err != nil {
		t.Fatalf("Finished.List() error = %v", err)
	}
	if len(finished) != 1 {
		t.Fatalf("len(Finished.List()) = %d, want 1", len(finished))
	}
	f := finished[0]
	if f.MovieID != original.MovieID || f.MovieTitle != original.MovieTitle ||
		f.PosterURL != original.PosterURL || f.Length != original.Length ||
		f.LengthMinutes != original.LengthMinutes {
		t.Errorf("finished entry = %+v, want fields of %+v", f, original)
	}
	if !f.DateAdded.Equal(original.DateAdded) {
		t.Errorf("DateAdded = %v, want %v", f.DateAdded, original.DateAdded)
	}
	if f.Rating != 0 {
		t.Errorf("Rating = %d, want 0", f.Rating)
	}
	if f.DateFinished.IsZero() {
		t.Error("DateFinished not set")
	}

	watching, _ := l.Watchlist.List(ctx, "u1")
	for _, e := range watching {
		if e.MovieID == "603" {
			t.Error("movie still on watchlist after promotion")
		}
	}
}

func TestPromoteMovieNotAtomic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l, db := newTestLists(t)
	p := NewPromoter(l)

	_ = l.Watchlist.Add(ctx, "u1", matrix())
	db.FailWhen(func(op docstore.Op, ref docstore.DocRef) error {
		if op == docstore.OpDelete && ref.Collection.Name() == CollectionWatchlist {
			return errors.New("connection reset")
		}
		return nil
	})

	_, err := p.PromoteMovie(ctx, "u1", "603")
	if !errors.Is(err, docstore.ErrUnavailable) {
		t.Fatalf("PromoteMovie() error = %v, want ErrUnavailable", err)
	}

	if _, err := l.Finished.Get(ctx, "u1", "603"); err != nil {
		t.Errorf("finished entry missing after failed remove: %v", err)
	}
	if _, err := l.Watchlist.Get(ctx, "u1", "603"); err != nil {
		t.Errorf("watchlist entry missing after failed remove: %v", err)
	}
}

func TestPromoteMovieAddFailureKeepsWatchlist(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l, db := newTestLists(t)
	p := NewPromoter(l)

	_ = l.Watchlist.Add(ctx, "u1", matrix())
	db.FailWhen(func(op docstore.Op, ref docstore.DocRef) error {
		if op == docstore.OpSet && ref.Collection.Name() == CollectionFinished {
			return errors.New("quota exceeded")
		}
		return nil
	})

	if _, err := p.PromoteMovie(ctx, "u1", "603"); err == nil {
		t.Fatal("PromoteMovie() error = nil, want failure")
	}
	if _, err := l.Watchlist.Get(ctx, "u1", "603"); err != nil {
		t.Errorf("watchlist entry removed although finished add failed: %v", err)
	}
	if _, err := l.Finished.Get(ctx, "u1", "603"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Finished.Get() error = %v, want ErrNotFound", err)
	}
}

func TestPromoteMissingEntry(t *testing.T) {
	t.Parallel()
	l, _ := newTestLists(t)

	_, err := NewPromoter(l).PromoteMovie(context.Background(), "u1", "603")
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("PromoteMovie() error = %v, want ErrNotFound", err)
	}
}

func TestPromoteSeries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l, _ := newTestLists(t)

	_ = l.SeriesWatchlist.Add(ctx, "u1", gameOfThrones())
	f, err := NewPromoter(l).PromoteSeries(ctx, "u1", "1399")
	if err != nil {
		t.Fatalf("PromoteSeries() error = %v", err)
	}
	if f.SeriesTitle != "Game of Thrones" || f.Seasons != 2 || f.Rating != 0 {
		t.Errorf("PromoteSeries() = %+v", f)
	}

	stored, err := l.SeriesFinished.Get(ctx, "u1", "1399")
	if err != nil {
		t.Fatalf("SeriesFinished.Get() error = %v", err)
	}
	if !slices.Equal(stored.EpisodesPerSeason, []int{10, 8}) {
		t.Errorf("EpisodesPerSeason = %v, want [10 8]", stored.EpisodesPerSeason)
	}
	if _, err := l.SeriesWatchlist.Get(ctx, "u1", "1399"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("series still on watchlist: %v", err)
	}
}

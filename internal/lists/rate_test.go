// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package lists_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/reeltrack/internal/docstore"
	"github.com/tomtom215/reeltrack/internal/ledger"
	"github.com/tomtom215/reeltrack/internal/lists"
	"github.com/tomtom215/reeltrack/internal/models"
	"github.com/tomtom215/reeltrack/internal/profile"
)

type ratingFixture struct {
	db       *docstore.MemoryStore
	lists    *lists.Lists
	ledger   *ledger.Ledger
	profiles *profile.Store
	rater    *lists.Rater
}

func newRatingFixture(t *testing.T) *ratingFixture {
	t.Helper()
	ctx := context.Background()
	db := docstore.NewMemory()
	f := &ratingFixture{
		db:       db,
		lists:    lists.New(db),
		ledger:   ledger.New(db),
		profiles: profile.New(db),
	}
	f.rater = lists.NewRater(f.lists, f.ledger, f.profiles)

	if err := f.profiles.Register(ctx, "u1", profile.Input{Username: "neo", Avatar: "spiderman"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := f.lists.Finished.Add(ctx, "u1", models.FinishedEntry{MovieID: "603", MovieTitle: "The Matrix"}); err != nil {
		t.Fatalf("Finished.Add() error = %v", err)
	}
	if err := f.lists.SeriesFinished.Add(ctx, "u1", models.SeriesFinishedEntry{SeriesID: "1399", SeriesTitle: "Game of Thrones"}); err != nil {
		t.Fatalf("SeriesFinished.Add() error = %v", err)
	}
	return f
}

func TestRateMovieWritesBothCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRatingFixture(t)

	if err := f.rater.RateMovie(ctx, "u1", "603", 4); err != nil {
		t.Fatalf("RateMovie() error = %v", err)
	}

	fin, err := f.lists.Finished.Get(ctx, "u1", "603")
	if err != nil {
		t.Fatalf("Finished.Get() error = %v", err)
	}
	if fin.Rating != 4 {
		t.Errorf("finished rating = %d, want 4", fin.Rating)
	}

	entry, err := f.ledger.Get(ctx, "u1", "603")
	if err != nil {
		t.Fatalf("ledger.Get() error = %v", err)
	}
	if entry.Rating != 4 || entry.AvatarName != "spiderman" || entry.UserName != "neo" {
		t.Errorf("ledger entry = %+v", entry)
	}
	if entry.MovieTitle != "The Matrix" {
		t.Errorf("ledger title = %q, want The Matrix", entry.MovieTitle)
	}
}

func TestRateSeries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRatingFixture(t)

	if err := f.rater.RateSeries(ctx, "u1", "1399", 5); err != nil {
		t.Fatalf("RateSeries() error = %v", err)
	}
	fin, _ := f.lists.SeriesFinished.Get(ctx, "u1", "1399")
	entry, _ := f.ledger.Get(ctx, "u1", "1399")
	if fin.Rating != 5 || entry.Rating != 5 {
		t.Errorf("ratings = finished %d, ledger %d, want 5, 5", fin.Rating, entry.Rating)
	}
}

func TestRateZeroSkipsLedger(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRatingFixture(t)

	_ = f.rater.RateMovie(ctx, "u1", "603", 3)
	if err := f.rater.RateMovie(ctx, "u1", "603", 0); err != nil {
		t.Fatalf("RateMovie(0) error = %v", err)
	}
	fin, _ := f.lists.Finished.Get(ctx, "u1", "603")
	if fin.Rating != 0 {
		t.Errorf("finished rating = %d, want 0", fin.Rating)
	}
	entry, _ := f.ledger.Get(ctx, "u1", "603")
	if entry.Rating != 3 {
		t.Errorf("ledger rating = %d, want untouched 3", entry.Rating)
	}
}

func TestRateLedgerFailureKeepsFinishedRating(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRatingFixture(t)

	f.db.FailWhen(func(op docstore.Op, ref docstore.DocRef) error {
		if ref.Collection.Name() == ledger.CollectionRatings {
			return errors.New("unavailable")
		}
		return nil
	})

	err := f.rater.RateMovie(ctx, "u1", "603", 2)
	if !errors.Is(err, docstore.ErrUnavailable) {
		t.Fatalf("RateMovie() error = %v, want ErrUnavailable", err)
	}
	fin, _ := f.lists.Finished.Get(ctx, "u1", "603")
	if fin.Rating != 2 {
		t.Errorf("finished rating = %d, want 2 left applied", fin.Rating)
	}
}

func TestRateFinishedFailureStillWritesLedger(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRatingFixture(t)

	f.db.FailWhen(func(op docstore.Op, ref docstore.DocRef) error {
		if op == docstore.OpUpdate && ref.Collection.Name() == lists.CollectionFinished {
			return errors.New("deadline exceeded")
		}
		return nil
	})

	if err := f.rater.RateMovie(ctx, "u1", "603", 5); !errors.Is(err, docstore.ErrUnavailable) {
		t.Fatalf("RateMovie() error = %v, want ErrUnavailable", err)
	}
	entry, err := f.ledger.Get(ctx, "u1", "603")
	if err != nil || entry.Rating != 5 {
		t.Errorf("ledger entry = %+v, %v, want rating 5", entry, err)
	}
}

func TestRateValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newRatingFixture(t)

	if err := f.rater.RateMovie(ctx, "u1", "603", 7); !errors.Is(err, lists.ErrInvalid) {
		t.Errorf("RateMovie(7) error = %v, want ErrInvalid", err)
	}
	if err := f.rater.RateMovie(ctx, "u1", "absent", 3); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("RateMovie(absent) error = %v, want ErrNotFound", err)
	}
}

func TestRateWithoutProfileUsesDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := docstore.NewMemory()
	l := lists.New(db)
	led := ledger.New(db)
	_ = l.Finished.Add(ctx, "u9", models.FinishedEntry{MovieID: "603", MovieTitle: "The Matrix"})

	if err := lists.NewRater(l, led, profile.New(db)).RateMovie(ctx, "u9", "603", 4); err != nil {
		t.Fatalf("RateMovie() error = %v", err)
	}
	entry, _ := led.Get(ctx, "u9", "603")
	if entry.AvatarName != models.DefaultAvatar || entry.UserName != "" {
		t.Errorf("ledger entry = %+v, want default author", entry)
	}
}

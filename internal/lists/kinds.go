// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package lists

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/reeltrack/internal/docstore"
	"github.com/tomtom215/reeltrack/internal/models"
	"github.com/tomtom215/reeltrack/internal/validation"
)

var (
	errProgressPastEnd = errors.New("progressMinutes exceeds lengthMinutes")
	errSeasonPastEnd   = errors.New("seasonsProgress exceeds seasons")
	errEpisodePastEnd  = errors.New("episodesProgress exceeds episodes in season")
	errRatingRange     = errors.New("rating must be between 0 and 5")
)

// MovieWatchlist is the users/{userId}/watchlist store.
type MovieWatchlist struct {
	*Store[models.WatchlistEntry]
}

// MovieFinished is the users/{userId}/finishedlist store.
type MovieFinished struct {
	*Store[models.FinishedEntry]
}

// SeriesWatchlist is the users/{userId}/seriesWatchlist store.
type SeriesWatchlist struct {
	*Store[models.SeriesWatchlistEntry]
}

// SeriesFinished is the users/{userId}/seriesFinishedlist store.
type SeriesFinished struct {
	*Store[models.SeriesFinishedEntry]
}

var watchlistKind = kind[models.WatchlistEntry]{
	collection: CollectionWatchlist,
	check: func(e models.WatchlistEntry) error {
		return checkMovieProgress(e.ProgressMinutes, e.LengthMinutes)
	},
	encode: func(e models.WatchlistEntry) docstore.Fields {
		return docstore.Fields{
			"movieId":         e.MovieID,
			"movieTitle":      e.MovieTitle,
			"posterUrl":       e.PosterURL,
			"length":          e.Length,
			"lengthMinutes":   e.LengthMinutes,
			"progressMinutes": e.ProgressMinutes,
			"dateAdded":       docstore.ServerTimestamp,
			"lastUpdated":     docstore.ServerTimestamp,
		}
	},
}

var finishedKind = kind[models.FinishedEntry]{
	collection: CollectionFinished,
	encode: func(e models.FinishedEntry) docstore.Fields {
		return docstore.Fields{
			"movieId":       e.MovieID,
			"movieTitle":    e.MovieTitle,
			"posterUrl":     e.PosterURL,
			"length":        e.Length,
			"lengthMinutes": e.LengthMinutes,
			"rating":        e.Rating,
			"dateAdded":     carriedOrNow(e.DateAdded),
			"dateFinished":  docstore.ServerTimestamp,
		}
	},
}

var seriesWatchlistKind = kind[models.SeriesWatchlistEntry]{
	collection: CollectionSeriesWatchlist,
	normalize: func(e models.SeriesWatchlistEntry) models.SeriesWatchlistEntry {
		if e.SeasonsProgress < 1 {
			e.SeasonsProgress = 1
		}
		if e.EpisodesProgress < 0 {
			e.EpisodesProgress = 0
		}
		e.EpisodesPerSeason = copyInts(e.EpisodesPerSeason)
		return e
	},
	check: func(e models.SeriesWatchlistEntry) error {
		return checkSeriesProgress(e.Seasons, e.EpisodesPerSeason, e.SeasonsProgress, e.EpisodesProgress)
	},
	encode: func(e models.SeriesWatchlistEntry) docstore.Fields {
		return docstore.Fields{
			"seriesId":          e.SeriesID,
			"seriesTitle":       e.SeriesTitle,
			"posterUrl":         e.PosterURL,
			"runtime":           e.Runtime,
			"seasons":           e.Seasons,
			"episodesPerSeason": e.EpisodesPerSeason,
			"seasonsProgress":   e.SeasonsProgress,
			"episodesProgress":  e.EpisodesProgress,
			"dateAdded":         docstore.ServerTimestamp,
			"lastUpdated":       docstore.ServerTimestamp,
		}
	},
}

var seriesFinishedKind = kind[models.SeriesFinishedEntry]{
	collection: CollectionSeriesFinished,
	normalize: func(e models.SeriesFinishedEntry) models.SeriesFinishedEntry {
		e.EpisodesPerSeason = copyInts(e.EpisodesPerSeason)
		return e
	},
	encode: func(e models.SeriesFinishedEntry) docstore.Fields {
		return docstore.Fields{
			"seriesId":          e.SeriesID,
			"seriesTitle":       e.SeriesTitle,
			"posterUrl":         e.PosterURL,
			"runtime":           e.Runtime,
			"seasons":           e.Seasons,
			"episodesPerSeason": e.EpisodesPerSeason,
			"rating":            e.Rating,
			"dateAdded":         carriedOrNow(e.DateAdded),
			"dateFinished":      docstore.ServerTimestamp,
		}
	},
}

// UpdateProgress sets progressMinutes and refreshes lastUpdated.
func (w *MovieWatchlist) UpdateProgress(ctx context.Context, userID, movieID string, p models.MovieProgress) error {
	if verr := validation.ValidateStruct(p); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, verr)
	}
	cur, err := w.Get(ctx, userID, movieID)
	if err != nil {
		return err
	}
	if err := checkMovieProgress(p.ProgressMinutes, cur.LengthMinutes); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return w.update(ctx, userID, movieID, docstore.Fields{
		"progressMinutes": p.ProgressMinutes,
		"lastUpdated":     docstore.ServerTimestamp,
	})
}

// UpdateProgress sets the current season and episode and refreshes
// lastUpdated. Season metadata is left untouched.
func (w *SeriesWatchlist) UpdateProgress(ctx context.Context, userID, seriesID string, p models.SeriesProgress) error {
	if verr := validation.ValidateStruct(p); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, verr)
	}
	cur, err := w.Get(ctx, userID, seriesID)
	if err != nil {
		return err
	}
	if err := checkSeriesProgress(cur.Seasons, cur.EpisodesPerSeason, p.SeasonsProgress, p.EpisodesProgress); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return w.update(ctx, userID, seriesID, docstore.Fields{
		"seasonsProgress":  p.SeasonsProgress,
		"episodesProgress": p.EpisodesProgress,
		"lastUpdated":      docstore.ServerTimestamp,
	})
}

// UpdateRating sets the rating of a finished movie. 0 clears it.
func (f *MovieFinished) UpdateRating(ctx context.Context, userID, movieID string, rating int) error {
	if err := checkRating(rating); err != nil {
		return err
	}
	return f.update(ctx, userID, movieID, docstore.Fields{"rating": rating})
}

// UpdateRating sets the rating of a finished series. 0 clears it.
func (f *SeriesFinished) UpdateRating(ctx context.Context, userID, seriesID string, rating int) error {
	if err := checkRating(rating); err != nil {
		return err
	}
	return f.update(ctx, userID, seriesID, docstore.Fields{"rating": rating})
}

func checkRating(rating int) error {
	if rating < 0 || rating > 5 {
		return fmt.Errorf("%w: %w (got %d)", ErrInvalid, errRatingRange, rating)
	}
	return nil
}

func checkMovieProgress(progress, length int) error {
	if length > 0 && progress > length {
		return fmt.Errorf("%w (%d > %d)", errProgressPastEnd, progress, length)
	}
	return nil
}

// checkSeriesProgress only checks bounds that are known: a series without
// season metadata accepts any non-negative progress.
func checkSeriesProgress(seasons int, episodes []int, season, episode int) error {
	if seasons > 0 && season > seasons {
		return fmt.Errorf("%w (%d > %d)", errSeasonPastEnd, season, seasons)
	}
	if season >= 1 && season <= len(episodes) {
		if limit := episodes[season-1]; limit > 0 && episode > limit {
			return fmt.Errorf("%w (season %d: %d > %d)", errEpisodePastEnd, season, episode, limit)
		}
	}
	return nil
}

// carriedOrNow keeps a timestamp carried over from another list, or asks the
// store to stamp the write when there is none.
func carriedOrNow(t time.Time) any {
	if t.IsZero() {
		return docstore.ServerTimestamp
	}
	return t
}

func copyInts(in []int) []int {
	out := make([]int, len(in))
	copy(out, in)
	return out
}

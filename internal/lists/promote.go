// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package lists

import (
	"context"
	"fmt"

	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/metrics"
	"github.com/tomtom215/reeltrack/internal/models"
)

// Promoter moves titles from a watchlist to the matching finished list.
//
// Promotion is add-then-remove with no rollback. If the remove fails the
// title stays in both lists and the error is returned to the caller.
type Promoter struct {
	lists *Lists
}

// NewPromoter returns a Promoter over l.
func NewPromoter(l *Lists) *Promoter {
	return &Promoter{lists: l}
}

// PromoteMovie finishes a movie from the watchlist. The finished entry
// carries the watchlist's identifying fields and dateAdded with rating 0.
func (p *Promoter) PromoteMovie(ctx context.Context, userID, movieID string) (models.FinishedEntry, error) {
	return promote(ctx, "promote_movie", userID, movieID,
		p.lists.Watchlist.Store, p.lists.Finished.Store,
		models.WatchlistEntry.Finished)
}

// PromoteSeries finishes a series from the series watchlist.
func (p *Promoter) PromoteSeries(ctx context.Context, userID, seriesID string) (models.SeriesFinishedEntry, error) {
	return promote(ctx, "promote_series", userID, seriesID,
		p.lists.SeriesWatchlist.Store, p.lists.SeriesFinished.Store,
		models.SeriesWatchlistEntry.Finished)
}

func promote[W, F Entry](ctx context.Context, flow, userID, id string, from *Store[W], to *Store[F], finish func(W) F) (F, error) {
	var zero F
	log := logging.Ctx(ctx).With().
		Str("flow", flow).
		Str("user_id", userID).
		Str("content_id", id).
		Logger()

	entry, err := from.Get(ctx, userID, id)
	metrics.RecordFlowStep(flow, "read", err)
	if err != nil {
		return zero, err
	}

	finished := finish(entry)
	err = to.Add(ctx, userID, finished)
	metrics.RecordFlowStep(flow, "add_finished", err)
	if err != nil {
		log.Warn().Err(err).Msg("Promotion failed adding finished entry")
		return zero, err
	}

	err = from.Remove(ctx, userID, id)
	metrics.RecordFlowStep(flow, "remove_watching", err)
	if err != nil {
		log.Warn().Err(err).
			Str("finished_list", to.Collection()).
			Str("watch_list", from.Collection()).
			Msg("Promotion left title in both lists")
		return finished, fmt.Errorf("%s %s: finished entry written but watchlist entry kept: %w", flow, id, err)
	}

	log.Debug().Msg("Title promoted to finished list")
	return finished, nil
}

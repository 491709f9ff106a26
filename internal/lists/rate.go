// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package lists

import (
	"context"
	"errors"

	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/metrics"
	"github.com/tomtom215/reeltrack/internal/models"
)

// RatingRecorder receives the friend-visible copy of a rating.
type RatingRecorder interface {
	RecordRating(ctx context.Context, userID string, in models.RatingInput) error
}

// AuthorLookup resolves the display name and avatar stamped on a rating.
type AuthorLookup interface {
	Get(ctx context.Context, userID string) (models.UserInfo, error)
}

// Rater writes a rating to the finished list and to the rating ledger.
//
// The two copies are independent. Both writes are attempted, failures are
// logged and joined, and neither is rolled back when the other fails.
type Rater struct {
	lists   *Lists
	ledger  RatingRecorder
	authors AuthorLookup
}

// NewRater returns a Rater. authors may be nil, in which case ratings carry
// an empty name and the default avatar.
func NewRater(l *Lists, ledger RatingRecorder, authors AuthorLookup) *Rater {
	return &Rater{lists: l, ledger: ledger, authors: authors}
}

// RateMovie sets the rating of a finished movie. A rating of 0 clears the
// finished-list rating and leaves the ledger alone.
func (r *Rater) RateMovie(ctx context.Context, userID, movieID string, rating int) error {
	if err := checkRating(rating); err != nil {
		return err
	}
	entry, err := r.lists.Finished.Get(ctx, userID, movieID)
	if err != nil {
		return err
	}
	return r.rate(ctx, "rate_movie", userID, movieID, entry.MovieTitle, rating,
		r.lists.Finished.UpdateRating)
}

// RateSeries sets the rating of a finished series.
func (r *Rater) RateSeries(ctx context.Context, userID, seriesID string, rating int) error {
	if err := checkRating(rating); err != nil {
		return err
	}
	entry, err := r.lists.SeriesFinished.Get(ctx, userID, seriesID)
	if err != nil {
		return err
	}
	return r.rate(ctx, "rate_series", userID, seriesID, entry.SeriesTitle, rating,
		r.lists.SeriesFinished.UpdateRating)
}

func (r *Rater) rate(
	ctx context.Context,
	flow, userID, id, title string,
	rating int,
	updateFinished func(context.Context, string, string, int) error,
) error {
	log := logging.Ctx(ctx).With().
		Str("flow", flow).
		Str("user_id", userID).
		Str("content_id", id).
		Int("rating", rating).
		Logger()

	finishedErr := updateFinished(ctx, userID, id, rating)
	metrics.RecordFlowStep(flow, "finished_rating", finishedErr)
	if finishedErr != nil {
		log.Warn().Err(finishedErr).Msg("Failed to update finished-list rating")
	}

	if rating == 0 {
		return finishedErr
	}

	name, avatar := r.author(ctx, userID)
	ledgerErr := r.ledger.RecordRating(ctx, userID, models.RatingInput{
		ContentID:  id,
		Title:      title,
		Rating:     rating,
		UserName:   name,
		AvatarName: avatar,
	})
	metrics.RecordFlowStep(flow, "ledger_rating", ledgerErr)
	if ledgerErr != nil {
		log.Warn().Err(ledgerErr).Msg("Failed to record rating in ledger")
	}

	return errors.Join(finishedErr, ledgerErr)
}

func (r *Rater) author(ctx context.Context, userID string) (name, avatar string) {
	if r.authors == nil {
		return "", models.DefaultAvatar
	}
	info, err := r.authors.Get(ctx, userID)
	if err != nil {
		logging.Ctx(ctx).Debug().Err(err).Str("user_id", userID).Msg("No profile for rating author, using defaults")
		return "", models.DefaultAvatar
	}
	return info.Username, models.ResolveAvatar(info.ProfilePicture)
}

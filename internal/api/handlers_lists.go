// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/reeltrack/internal/lists"
	"github.com/tomtom215/reeltrack/internal/models"
)

// Path parameters of the list routes.
const (
	paramMovieID  = "movieId"
	paramSeriesID = "seriesId"
)

// listEntries writes every entry of the caller's list.
func listEntries[E lists.Entry](w http.ResponseWriter, r *http.Request, store *lists.Store[E]) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	entries, err := store.List(r.Context(), s.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if entries == nil {
		entries = []E{}
	}
	NewResponseWriter(w, r).List(entries, len(entries))
}

// getEntry writes one entry keyed by the path parameter param.
func getEntry[E lists.Entry](w http.ResponseWriter, r *http.Request, store *lists.Store[E], param string) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	e, err := store.Get(r.Context(), s.ID, chi.URLParam(r, param))
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, e)
}

// addEntry decodes an entry from the body, stores it and writes the stored
// document back so server timestamps are visible.
func addEntry[E lists.Entry](w http.ResponseWriter, r *http.Request, store *lists.Store[E]) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	var in E
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	if err := store.Add(r.Context(), s.ID, in); err != nil {
		respondError(w, r, err)
		return
	}
	stored, err := store.Get(r.Context(), s.ID, in.Key())
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(stored)
}

// removeEntry deletes one entry. Absent entries still yield 204.
func removeEntry[E lists.Entry](w http.ResponseWriter, r *http.Request, store *lists.Store[E], param string) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	if err := store.Remove(r.Context(), s.ID, chi.URLParam(r, param)); err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// ListWatchlist returns the movies the caller is watching.
func (h *Handler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	listEntries(w, r, h.lists.Watchlist.Store)
}

// GetWatchlistEntry returns one watchlist movie.
func (h *Handler) GetWatchlistEntry(w http.ResponseWriter, r *http.Request) {
	getEntry(w, r, h.lists.Watchlist.Store, paramMovieID)
}

// AddToWatchlist adds or replaces a watchlist movie.
func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	addEntry(w, r, h.lists.Watchlist.Store)
}

// UpdateWatchlistProgress sets the minutes watched of an existing entry.
func (h *Handler) UpdateWatchlistProgress(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	var in models.MovieProgress
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	id := chi.URLParam(r, paramMovieID)
	if err := h.lists.Watchlist.UpdateProgress(r.Context(), s.ID, id, in); err != nil {
		respondError(w, r, err)
		return
	}
	getEntry(w, r, h.lists.Watchlist.Store, paramMovieID)
}

// RemoveFromWatchlist deletes a watchlist movie.
func (h *Handler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	removeEntry(w, r, h.lists.Watchlist.Store, paramMovieID)
}

// FinishMovie moves a watchlist movie to the finished list.
func (h *Handler) FinishMovie(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	e, err := h.promoter.PromoteMovie(r.Context(), s.ID, chi.URLParam(r, paramMovieID))
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, e)
}

// ListFinished returns the caller's finished movies.
func (h *Handler) ListFinished(w http.ResponseWriter, r *http.Request) {
	listEntries(w, r, h.lists.Finished.Store)
}

// GetFinishedEntry returns one finished movie.
func (h *Handler) GetFinishedEntry(w http.ResponseWriter, r *http.Request) {
	getEntry(w, r, h.lists.Finished.Store, paramMovieID)
}

// AddToFinished adds a movie straight to the finished list.
func (h *Handler) AddToFinished(w http.ResponseWriter, r *http.Request) {
	addEntry(w, r, h.lists.Finished.Store)
}

// RateMovie sets the rating of a finished movie and records it in the
// caller's rating ledger.
func (h *Handler) RateMovie(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	var in RatingRequest
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.rater.RateMovie(r.Context(), s.ID, chi.URLParam(r, paramMovieID), *in.Rating); err != nil {
		respondError(w, r, err)
		return
	}
	getEntry(w, r, h.lists.Finished.Store, paramMovieID)
}

// RemoveFromFinished deletes a finished movie.
func (h *Handler) RemoveFromFinished(w http.ResponseWriter, r *http.Request) {
	removeEntry(w, r, h.lists.Finished.Store, paramMovieID)
}

// ListSeriesWatchlist returns the series the caller is watching.
func (h *Handler) ListSeriesWatchlist(w http.ResponseWriter, r *http.Request) {
	listEntries(w, r, h.lists.SeriesWatchlist.Store)
}

// GetSeriesWatchlistEntry returns one watchlist series.
func (h *Handler) GetSeriesWatchlistEntry(w http.ResponseWriter, r *http.Request) {
	getEntry(w, r, h.lists.SeriesWatchlist.Store, paramSeriesID)
}

// AddToSeriesWatchlist adds or replaces a watchlist series.
func (h *Handler) AddToSeriesWatchlist(w http.ResponseWriter, r *http.Request) {
	addEntry(w, r, h.lists.SeriesWatchlist.Store)
}

// UpdateSeriesProgress sets the current season and episode.
func (h *Handler) UpdateSeriesProgress(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	var in models.SeriesProgress
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	id := chi.URLParam(r, paramSeriesID)
	if err := h.lists.SeriesWatchlist.UpdateProgress(r.Context(), s.ID, id, in); err != nil {
		respondError(w, r, err)
		return
	}
	getEntry(w, r, h.lists.SeriesWatchlist.Store, paramSeriesID)
}

// RemoveFromSeriesWatchlist deletes a watchlist series.
func (h *Handler) RemoveFromSeriesWatchlist(w http.ResponseWriter, r *http.Request) {
	removeEntry(w, r, h.lists.SeriesWatchlist.Store, paramSeriesID)
}

// FinishSeries moves a watchlist series to the finished list.
func (h *Handler) FinishSeries(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	e, err := h.promoter.PromoteSeries(r.Context(), s.ID, chi.URLParam(r, paramSeriesID))
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, e)
}

// ListSeriesFinished returns the caller's finished series.
func (h *Handler) ListSeriesFinished(w http.ResponseWriter, r *http.Request) {
	listEntries(w, r, h.lists.SeriesFinished.Store)
}

// GetSeriesFinishedEntry returns one finished series.
func (h *Handler) GetSeriesFinishedEntry(w http.ResponseWriter, r *http.Request) {
	getEntry(w, r, h.lists.SeriesFinished.Store, paramSeriesID)
}

// AddToSeriesFinished adds a series straight to the finished list.
func (h *Handler) AddToSeriesFinished(w http.ResponseWriter, r *http.Request) {
	addEntry(w, r, h.lists.SeriesFinished.Store)
}

// RateSeries sets the rating of a finished series and records it in the
// caller's rating ledger.
func (h *Handler) RateSeries(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	var in RatingRequest
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.rater.RateSeries(r.Context(), s.ID, chi.URLParam(r, paramSeriesID), *in.Rating); err != nil {
		respondError(w, r, err)
		return
	}
	getEntry(w, r, h.lists.SeriesFinished.Store, paramSeriesID)
}

// RemoveFromSeriesFinished deletes a finished series.
func (h *Handler) RemoveFromSeriesFinished(w http.ResponseWriter, r *http.Request) {
	removeEntry(w, r, h.lists.SeriesFinished.Store, paramSeriesID)
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/reeltrack/internal/models"
)

// defaultRegion is used for watch providers when ?region= is absent.
const defaultRegion = "US"

type carouselFunc func(ctx context.Context, kind models.MediaKind) ([]models.CatalogItem, error)

func (h *Handler) carousel(w http.ResponseWriter, r *http.Request, fetch carouselFunc) {
	kind, err := mediaKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	items, err := fetch(r.Context(), kind)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeItems(w, r, items)
}

func writeItems(w http.ResponseWriter, r *http.Request, items []models.CatalogItem) {
	if items == nil {
		items = []models.CatalogItem{}
	}
	NewResponseWriter(w, r).List(items, len(items))
}

// TopRated lists the top rated movies or series.
func (h *Handler) TopRated(w http.ResponseWriter, r *http.Request) {
	h.carousel(w, r, h.catalog.TopRated)
}

// Trending lists titles trending this week.
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	h.carousel(w, r, h.catalog.Trending)
}

// SearchCatalog runs a multi search for movies and series. A blank query
// returns an empty list without calling upstream.
func (h *Handler) SearchCatalog(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeItems(w, r, nil)
		return
	}
	items, err := h.catalog.Search(r.Context(), q, intQuery(r, "page", 1))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeItems(w, r, items)
}

// CatalogDetails returns the detail view of one title.
func (h *Handler) CatalogDetails(w http.ResponseWriter, r *http.Request) {
	kind, err := mediaKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	d, err := h.catalog.Details(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, d)
}

// WatchProviders lists where a title can be streamed in ?region=.
func (h *Handler) WatchProviders(w http.ResponseWriter, r *http.Request) {
	kind, err := mediaKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	region := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("region")))
	if region == "" {
		region = defaultRegion
	}
	p, err := h.catalog.Providers(r.Context(), kind, chi.URLParam(r, "id"), region)
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, p)
}

// Recommendations lists titles similar to one title.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	kind, err := mediaKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	items, err := h.catalog.Recommendations(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeItems(w, r, items)
}

// AddCatalogToWatchlist fetches a title's details and adds it to the
// matching watchlist of the caller.
func (h *Handler) AddCatalogToWatchlist(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	kind, err := mediaKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	d, err := h.catalog.Details(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx := r.Context()
	switch kind {
	case models.KindTV:
		e := d.SeriesWatchlistEntry()
		if err := h.lists.SeriesWatchlist.Add(ctx, s.ID, e); err != nil {
			respondError(w, r, err)
			return
		}
		stored, err := h.lists.SeriesWatchlist.Get(ctx, s.ID, e.Key())
		if err != nil {
			respondError(w, r, err)
			return
		}
		NewResponseWriter(w, r).Created(stored)
	default:
		e := d.WatchlistEntry()
		if err := h.lists.Watchlist.Add(ctx, s.ID, e); err != nil {
			respondError(w, r, err)
			return
		}
		stored, err := h.lists.Watchlist.Get(ctx, s.ID, e.Key())
		if err != nil {
			respondError(w, r, err)
			return
		}
		NewResponseWriter(w, r).Created(stored)
	}
}

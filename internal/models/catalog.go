// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package models

// MediaKind distinguishes movies from series in catalog requests.
type MediaKind string

const (
	KindMovie MediaKind = "movie"
	KindTV    MediaKind = "tv"
)

// Valid reports whether k is movie or tv.
func (k MediaKind) Valid() bool {
	return k == KindMovie || k == KindTV
}

// CatalogItem is a title as shown in carousels and search results.
type CatalogItem struct {
	ID          string    `json:"id"`
	Kind        MediaKind `json:"kind"`
	Title       string    `json:"title"`
	PosterURL   string    `json:"posterUrl"`
	Year        string    `json:"year,omitempty"`
	VoteAverage float64   `json:"voteAverage"`
}

// CatalogDetails is the full detail view of a title.
type CatalogDetails struct {
	ID                string    `json:"id"`
	Kind              MediaKind `json:"kind"`
	Title             string    `json:"title"`
	Overview          string    `json:"overview"`
	PosterURL         string    `json:"posterUrl"`
	Year              string    `json:"year"`
	Runtime           string    `json:"runtime"`
	RuntimeMinutes    int       `json:"runtimeMinutes"`
	Seasons           int       `json:"seasons"`
	EpisodesPerSeason []int     `json:"episodesPerSeason,omitempty"`
	Genres            []string  `json:"genres"`
	VoteAverage       float64   `json:"voteAverage"`
	VoteCount         int       `json:"voteCount"`
}

// WatchlistEntry builds the movie watchlist record for an add from the
// catalog detail view.
func (d CatalogDetails) WatchlistEntry() WatchlistEntry {
	return WatchlistEntry{
		MovieID:       d.ID,
		MovieTitle:    d.Title,
		PosterURL:     d.PosterURL,
		Length:        d.Runtime,
		LengthMinutes: d.RuntimeMinutes,
	}
}

// SeriesWatchlistEntry builds the series watchlist record, starting at
// season 1 with no episode watched.
func (d CatalogDetails) SeriesWatchlistEntry() SeriesWatchlistEntry {
	eps := make([]int, len(d.EpisodesPerSeason))
	copy(eps, d.EpisodesPerSeason)
	return SeriesWatchlistEntry{
		SeriesID:          d.ID,
		SeriesTitle:       d.Title,
		PosterURL:         d.PosterURL,
		Runtime:           d.Runtime,
		Seasons:           d.Seasons,
		EpisodesPerSeason: eps,
		SeasonsProgress:   1,
		EpisodesProgress:  0,
	}
}

// WatchProvider is a streaming service offering a title.
type WatchProvider struct {
	ProviderName string `json:"providerName"`
	LogoURL      string `json:"logoUrl"`
}

// WatchProviders lists flat-rate providers for one region.
type WatchProviders struct {
	Region   string          `json:"region"`
	Link     string          `json:"link"`
	Flatrate []WatchProvider `json:"flatrate"`
}

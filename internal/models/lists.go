// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

// Package models defines the records stored per user and the shapes returned
// by the catalog and activity feed.
//
// All JSON field names are camelCase so stored documents keep the layout of
// the original mobile app's collections.
package models

import "time"

// WatchlistEntry is a movie the user is currently watching.
// Stored at users/{userId}/watchlist/{movieId}.
type WatchlistEntry struct {
	MovieID         string    `json:"movieId" validate:"required,max=64"`
	MovieTitle      string    `json:"movieTitle" validate:"required,max=512"`
	PosterURL       string    `json:"posterUrl" validate:"omitempty,url"`
	Length          string    `json:"length" validate:"max=64"`
	LengthMinutes   int       `json:"lengthMinutes" validate:"gte=0"`
	ProgressMinutes int       `json:"progressMinutes" validate:"gte=0"`
	DateAdded       time.Time `json:"dateAdded"`
	LastUpdated     time.Time `json:"lastUpdated"`
}

// Key returns the document id.
func (e WatchlistEntry) Key() string { return e.MovieID }

// FinishedEntry is a completed movie with the user's rating (0 = unrated).
// Stored at users/{userId}/finishedlist/{movieId}.
type FinishedEntry struct {
	MovieID       string    `json:"movieId" validate:"required,max=64"`
	MovieTitle    string    `json:"movieTitle" validate:"required,max=512"`
	PosterURL     string    `json:"posterUrl" validate:"omitempty,url"`
	Length        string    `json:"length" validate:"max=64"`
	LengthMinutes int       `json:"lengthMinutes" validate:"gte=0"`
	Rating        int       `json:"rating" validate:"gte=0,lte=5"`
	DateAdded     time.Time `json:"dateAdded"`
	DateFinished  time.Time `json:"dateFinished"`
}

// Key returns the document id.
func (e FinishedEntry) Key() string { return e.MovieID }

// SeriesWatchlistEntry is a series the user is currently watching.
// SeasonsProgress is 1-based; EpisodesProgress is the last watched episode
// of that season, 0 when none.
type SeriesWatchlistEntry struct {
	SeriesID          string    `json:"seriesId" validate:"required,max=64"`
	SeriesTitle       string    `json:"seriesTitle" validate:"required,max=512"`
	PosterURL         string    `json:"posterUrl" validate:"omitempty,url"`
	Runtime           string    `json:"runtime" validate:"max=64"`
	Seasons           int       `json:"seasons" validate:"gte=0"`
	EpisodesPerSeason []int     `json:"episodesPerSeason" validate:"dive,gte=0"`
	SeasonsProgress   int       `json:"seasonsProgress" validate:"gte=0"`
	EpisodesProgress  int       `json:"episodesProgress" validate:"gte=0"`
	DateAdded         time.Time `json:"dateAdded"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

// Key returns the document id.
func (e SeriesWatchlistEntry) Key() string { return e.SeriesID }

// SeriesFinishedEntry is a completed series with the user's rating.
type SeriesFinishedEntry struct {
	SeriesID          string    `json:"seriesId" validate:"required,max=64"`
	SeriesTitle       string    `json:"seriesTitle" validate:"required,max=512"`
	PosterURL         string    `json:"posterUrl" validate:"omitempty,url"`
	Runtime           string    `json:"runtime" validate:"max=64"`
	Seasons           int       `json:"seasons" validate:"gte=0"`
	EpisodesPerSeason []int     `json:"episodesPerSeason" validate:"dive,gte=0"`
	Rating            int       `json:"rating" validate:"gte=0,lte=5"`
	DateAdded         time.Time `json:"dateAdded"`
	DateFinished      time.Time `json:"dateFinished"`
}

// Key returns the document id.
func (e SeriesFinishedEntry) Key() string { return e.SeriesID }

// MovieProgress is the only field a movie progress update may change.
type MovieProgress struct {
	ProgressMinutes int `json:"progressMinutes" validate:"gte=0"`
}

// SeriesProgress is the pair of fields a series progress update may change.
type SeriesProgress struct {
	SeasonsProgress  int `json:"seasonsProgress" validate:"gte=1"`
	EpisodesProgress int `json:"episodesProgress" validate:"gte=0"`
}

// Finished builds the finished-list record for a promoted movie. Identifying
// fields and dateAdded carry over; the rating starts unset.
func (e WatchlistEntry) Finished() FinishedEntry {
	return FinishedEntry{
		MovieID:       e.MovieID,
		MovieTitle:    e.MovieTitle,
		PosterURL:     e.PosterURL,
		Length:        e.Length,
		LengthMinutes: e.LengthMinutes,
		Rating:        0,
		DateAdded:     e.DateAdded,
	}
}

// Finished builds the finished-list record for a promoted series.
func (e SeriesWatchlistEntry) Finished() SeriesFinishedEntry {
	eps := make([]int, len(e.EpisodesPerSeason))
	copy(eps, e.EpisodesPerSeason)
	return SeriesFinishedEntry{
		SeriesID:          e.SeriesID,
		SeriesTitle:       e.SeriesTitle,
		PosterURL:         e.PosterURL,
		Runtime:           e.Runtime,
		Seasons:           e.Seasons,
		EpisodesPerSeason: eps,
		Rating:            0,
		DateAdded:         e.DateAdded,
	}
}

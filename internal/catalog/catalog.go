// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reeltrack/internal/models"
)

type tmdbPage struct {
	Page    int          `json:"page"`
	Results []tmdbResult `json:"results"`
}

type tmdbResult struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	PosterPath   string  `json:"poster_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
}

type tmdbDetails struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	Runtime          int     `json:"runtime"`
	NumberOfSeasons  int     `json:"number_of_seasons"`
	NumberOfEpisodes int     `json:"number_of_episodes"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Seasons          []struct {
		SeasonNumber int `json:"season_number"`
		EpisodeCount int `json:"episode_count"`
	} `json:"seasons"`
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
}

type tmdbProviders struct {
	Results map[string]struct {
		Link     string `json:"link"`
		Flatrate []struct {
			LogoPath     string `json:"logo_path"`
			ProviderName string `json:"provider_name"`
		} `json:"flatrate"`
	} `json:"results"`
}

// TopRated returns the first page of top rated movies or series.
func (c *Client) TopRated(ctx context.Context, kind models.MediaKind) ([]models.CatalogItem, error) {
	if !kind.Valid() {
		return nil, invalidKind(kind)
	}
	return c.page(ctx, "top_rated", "/"+string(kind)+"/top_rated", pageQuery(1), kind)
}

// Trending returns this week's trending movies or series.
func (c *Client) Trending(ctx context.Context, kind models.MediaKind) ([]models.CatalogItem, error) {
	if !kind.Valid() {
		return nil, invalidKind(kind)
	}
	return c.page(ctx, "trending", "/trending/"+string(kind)+"/week", pageQuery(1), kind)
}

// Search looks up movies and series by title. A blank query returns no
// results without contacting TMDB.
func (c *Client) Search(ctx context.Context, query string, page int) ([]models.CatalogItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.CatalogItem{}, nil
	}
	if page < 1 {
		page = 1
	}
	q := pageQuery(page)
	q.Set("query", query)
	return c.page(ctx, "search", "/search/multi", q, "")
}

// Recommendations returns titles similar to id.
func (c *Client) Recommendations(ctx context.Context, kind models.MediaKind, id string) ([]models.CatalogItem, error) {
	if err := checkTitle(kind, id); err != nil {
		return nil, err
	}
	return c.page(ctx, "recommendations", titlePath(kind, id)+"/recommendations", pageQuery(1), kind)
}

// Details returns the detail view of one title.
func (c *Client) Details(ctx context.Context, kind models.MediaKind, id string) (models.CatalogDetails, error) {
	if err := checkTitle(kind, id); err != nil {
		return models.CatalogDetails{}, err
	}
	body, err := c.get(ctx, "details", titlePath(kind, id), nil)
	if err != nil {
		return models.CatalogDetails{}, err
	}
	var d tmdbDetails
	if err := json.Unmarshal(body, &d); err != nil {
		return models.CatalogDetails{}, fmt.Errorf("%w: decode details: %w", ErrUpstream, err)
	}
	return c.mapDetails(kind, d), nil
}

// Providers returns the flat-rate streaming offers for a title in region.
// An empty region uses the client default. A region TMDB has no data for
// yields an empty list, not an error.
func (c *Client) Providers(ctx context.Context, kind models.MediaKind, id, region string) (models.WatchProviders, error) {
	if err := checkTitle(kind, id); err != nil {
		return models.WatchProviders{}, err
	}
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = c.region
	}

	out := models.WatchProviders{Region: region, Flatrate: []models.WatchProvider{}}
	body, err := c.get(ctx, "providers", titlePath(kind, id)+"/watch/providers", nil)
	if err != nil {
		return out, err
	}
	var p tmdbProviders
	if err := json.Unmarshal(body, &p); err != nil {
		return out, fmt.Errorf("%w: decode providers: %w", ErrUpstream, err)
	}

	r, ok := p.Results[region]
	if !ok {
		return out, nil
	}
	out.Link = r.Link
	for _, f := range r.Flatrate {
		out.Flatrate = append(out.Flatrate, models.WatchProvider{
			ProviderName: f.ProviderName,
			LogoURL:      c.imageURL(f.LogoPath, ""),
		})
	}
	return out, nil
}

// PosterURL returns the full poster URL for a TMDB poster path.
func (c *Client) PosterURL(path string) string {
	return c.imageURL(path, PlaceholderPoster)
}

func (c *Client) imageURL(path, fallback string) string {
	if path == "" {
		return fallback
	}
	return c.imageBase + path
}

func (c *Client) page(ctx context.Context, endpoint, path string, q url.Values, kind models.MediaKind) ([]models.CatalogItem, error) {
	body, err := c.get(ctx, endpoint, path, q)
	if err != nil {
		return nil, err
	}
	var p tmdbPage
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrUpstream, endpoint, err)
	}

	items := make([]models.CatalogItem, 0, len(p.Results))
	for _, r := range p.Results {
		k := kind
		if k == "" {
			k = models.MediaKind(r.MediaType)
			if !k.Valid() {
				continue
			}
		}
		items = append(items, models.CatalogItem{
			ID:          strconv.Itoa(r.ID),
			Kind:        k,
			Title:       firstNonEmpty(r.Title, r.Name),
			PosterURL:   c.PosterURL(r.PosterPath),
			Year:        year(firstNonEmpty(r.ReleaseDate, r.FirstAirDate)),
			VoteAverage: r.VoteAverage,
		})
	}
	return items, nil
}

func (c *Client) mapDetails(kind models.MediaKind, d tmdbDetails) models.CatalogDetails {
	out := models.CatalogDetails{
		ID:             strconv.Itoa(d.ID),
		Kind:           kind,
		Title:          firstNonEmpty(d.Title, d.Name),
		Overview:       d.Overview,
		PosterURL:      c.PosterURL(d.PosterPath),
		Year:           year(firstNonEmpty(d.ReleaseDate, d.FirstAirDate)),
		Runtime:        runtimeText(d.Runtime, d.NumberOfSeasons, d.NumberOfEpisodes),
		RuntimeMinutes: d.Runtime,
		Seasons:        d.NumberOfSeasons,
		Genres:         make([]string, 0, len(d.Genres)),
		VoteAverage:    d.VoteAverage,
		VoteCount:      d.VoteCount,
	}
	for _, s := range d.Seasons {
		// Season 0 holds specials.
		if s.SeasonNumber > 0 {
			out.EpisodesPerSeason = append(out.EpisodesPerSeason, s.EpisodeCount)
		}
	}
	for _, g := range d.Genres {
		out.Genres = append(out.Genres, g.Name)
	}
	return out
}

// runtimeText renders a movie runtime as "2h 16m" and a series as
// "Seasons: N | Episodes: M".
func runtimeText(minutes, seasons, episodes int) string {
	switch {
	case minutes > 0:
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	case seasons > 0:
		return fmt.Sprintf("Seasons: %d | Episodes: %d", seasons, episodes)
	default:
		return "N/A"
	}
}

func year(date string) string {
	if len(date) < 4 {
		return ""
	}
	return date[:4]
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func pageQuery(page int) url.Values {
	return url.Values{"page": {strconv.Itoa(page)}}
}

func titlePath(kind models.MediaKind, id string) string {
	return "/" + string(kind) + "/" + url.PathEscape(id)
}

func checkTitle(kind models.MediaKind, id string) error {
	if !kind.Valid() {
		return invalidKind(kind)
	}
	if _, err := strconv.Atoi(id); err != nil {
		return fmt.Errorf("%w: id %q is not numeric", ErrInvalid, id)
	}
	return nil
}

func invalidKind(kind models.MediaKind) error {
	return fmt.Errorf("%w: media kind %q", ErrInvalid, kind)
}

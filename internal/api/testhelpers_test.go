// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reeltrack/internal/auth"
	"github.com/tomtom215/reeltrack/internal/authz"
	"github.com/tomtom215/reeltrack/internal/catalog"
	"github.com/tomtom215/reeltrack/internal/config"
	"github.com/tomtom215/reeltrack/internal/docstore"
	"github.com/tomtom215/reeltrack/internal/friends"
	"github.com/tomtom215/reeltrack/internal/ledger"
	"github.com/tomtom215/reeltrack/internal/lists"
	"github.com/tomtom215/reeltrack/internal/models"
	"github.com/tomtom215/reeltrack/internal/profile"
)

const adminID = "admin-1"

// tickingClock advances by one second on every read so ledger timestamps
// are strictly ordered.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// fakeCatalog serves canned titles.
type fakeCatalog struct {
	details map[string]models.CatalogDetails
	items   []models.CatalogItem
	err     error
}

func (f *fakeCatalog) TopRated(_ context.Context, kind models.MediaKind) ([]models.CatalogItem, error) {
	return f.list(kind)
}

func (f *fakeCatalog) Trending(_ context.Context, kind models.MediaKind) ([]models.CatalogItem, error) {
	return f.list(kind)
}

func (f *fakeCatalog) Search(_ context.Context, _ string, _ int) ([]models.CatalogItem, error) {
	return f.items, f.err
}

func (f *fakeCatalog) Details(_ context.Context, kind models.MediaKind, id string) (models.CatalogDetails, error) {
	if f.err != nil {
		return models.CatalogDetails{}, f.err
	}
	d, ok := f.details[string(kind)+"/"+id]
	if !ok {
		return models.CatalogDetails{}, catalog.ErrNotFound
	}
	return d, nil
}

func (f *fakeCatalog) Providers(_ context.Context, _ models.MediaKind, _, region string) (models.WatchProviders, error) {
	return models.WatchProviders{Region: region}, f.err
}

func (f *fakeCatalog) Recommendations(_ context.Context, kind models.MediaKind, _ string) ([]models.CatalogItem, error) {
	return f.list(kind)
}

func (f *fakeCatalog) list(kind models.MediaKind) ([]models.CatalogItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.CatalogItem
	for _, it := range f.items {
		if it.Kind == kind {
			out = append(out, it)
		}
	}
	return out, nil
}

type testServer struct {
	handler http.Handler
	store   *docstore.MemoryStore
	catalog *fakeCatalog
}

func newTestServer(t *testing.T, checks map[string]HealthChecker) *testServer {
	t.Helper()

	clock := &tickingClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := docstore.NewMemory(docstore.WithClock(clock.Now))
	graph := friends.New(store, nil)
	led := ledger.New(store, ledger.WithFriends(graph))
	fc := &fakeCatalog{
		details: map[string]models.CatalogDetails{
			"movie/603": {ID: "603", Kind: models.KindMovie, Title: "The Matrix", Runtime: "2h 16m", RuntimeMinutes: 136},
			"tv/1399": {
				ID: "1399", Kind: models.KindTV, Title: "Game of Thrones", Runtime: "8 seasons",
				Seasons: 2, EpisodesPerSeason: []int{10, 10},
			},
		},
		items: []models.CatalogItem{
			{ID: "603", Kind: models.KindMovie, Title: "The Matrix"},
			{ID: "1399", Kind: models.KindTV, Title: "Game of Thrones"},
		},
	}

	cfg := &config.Config{
		Security: config.SecurityConfig{
			AuthMode:          string(auth.AuthModeNone),
			AdminUsers:        []string{adminID},
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
	}
	h := NewHandler(cfg, Deps{
		Store:    store,
		Lists:    lists.New(store),
		Ledger:   led,
		Friends:  graph,
		Profiles: profile.New(store),
		Catalog:  fc,
		Checks:   checks,
	})

	enforcer, err := authz.NewEnforcer(authz.DefaultEnforcerConfig())
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(enforcer.Close)

	router := NewRouter(h, auth.NewHeaderAuthenticator(), enforcer)
	return &testServer{handler: router.Setup(), store: store, catalog: fc}
}

// envelope mirrors APIResponse with a raw payload.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func (ts *testServer) do(t *testing.T, method, path, userID string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(auth.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode response %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec, env
}

// mustDo performs the request and fails unless the status matches.
func (ts *testServer) mustDo(t *testing.T, method, path, userID string, body interface{}, want int) envelope {
	t.Helper()
	rec, env := ts.do(t, method, path, userID, body)
	if rec.Code != want {
		t.Fatalf("%s %s status = %d, want %d (body %s)", method, path, rec.Code, want, rec.Body.String())
	}
	return env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode data %s: %v", env.Data, err)
	}
	return v
}

func (ts *testServer) register(t *testing.T, userID, username, avatar string) {
	t.Helper()
	ts.mustDo(t, http.MethodPost, "/api/v1/me/profile", userID,
		map[string]string{"username": username, "avatar": avatar}, http.StatusCreated)
}

func newSecurityConfig(origins []string) *config.Config {
	return &config.Config{Security: config.SecurityConfig{CORSOrigins: origins}}
}

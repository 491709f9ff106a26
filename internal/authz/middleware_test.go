// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/reeltrack/internal/auth"
)

func TestAuthorizeRequest(t *testing.T) {
	t.Parallel()
	mw := NewMiddleware(setupEnforcer(t, nil), nil)
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name    string
		subject *auth.AuthSubject
		method  string
		path    string
		want    int
	}{
		{"anonymous", nil, http.MethodGet, "/api/v1/me", http.StatusUnauthorized},
		{"user own list", &auth.AuthSubject{ID: "u", Roles: []string{"user"}}, http.MethodPost, "/api/v1/me/watchlist", http.StatusNoContent},
		{"trailing slash", &auth.AuthSubject{ID: "u", Roles: []string{"user"}}, http.MethodGet, "/api/v1/me/", http.StatusNoContent},
		{"user admin route", &auth.AuthSubject{ID: "u", Roles: []string{"user"}}, http.MethodGet, "/api/v1/admin/users/x/ratings", http.StatusForbidden},
		{"admin route", &auth.AuthSubject{ID: "a", Roles: []string{"user", "admin"}}, http.MethodGet, "/api/v1/admin/users/x/ratings", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.subject != nil {
				r = r.WithContext(auth.ContextWithSubject(r.Context(), tt.subject))
			}
			w := httptest.NewRecorder()
			mw.AuthorizeRequest(ok).ServeHTTP(w, r)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestMethodToAction(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		http.MethodGet:    ActionRead,
		http.MethodHead:   ActionRead,
		http.MethodPost:   ActionWrite,
		http.MethodPut:    ActionWrite,
		http.MethodPatch:  ActionWrite,
		http.MethodDelete: ActionDelete,
	}
	for method, want := range tests {
		if got := methodToAction(method); got != want {
			t.Errorf("methodToAction(%s) = %s, want %s", method, got, want)
		}
	}
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package authz

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setupEnforcer(t *testing.T, config *EnforcerConfig) *Enforcer {
	t.Helper()
	enforcer, err := NewEnforcer(config)
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	t.Cleanup(enforcer.Close)
	return enforcer
}

func TestEmbeddedPolicy(t *testing.T) {
	t.Parallel()
	e := setupEnforcer(t, nil)

	tests := []struct {
		name   string
		role   string
		object string
		action string
		want   bool
	}{
		{"user reads identity", "user", "/api/v1/me", ActionRead, true},
		{"user writes own list", "user", "/api/v1/me/watchlist/27205", ActionWrite, true},
		{"user deletes own friend", "user", "/api/v1/me/friends/uid-bob", ActionDelete, true},
		{"user reads catalog", "user", "/api/v1/catalog/movie/27205", ActionRead, true},
		{"user adds from catalog", "user", "/api/v1/catalog/tv/1399/watchlist", ActionWrite, true},
		{"user cannot write catalog", "user", "/api/v1/catalog/movie/27205", ActionWrite, false},
		{"user reads profiles", "user", "/api/v1/users/uid-bob/profile", ActionRead, true},
		{"user cannot write profiles", "user", "/api/v1/users/uid-bob/profile", ActionWrite, false},
		{"user cannot reach admin", "user", "/api/v1/admin/users/uid-bob/ratings", ActionRead, false},
		{"admin reaches admin", "admin", "/api/v1/admin/users/uid-bob/ratings", ActionRead, true},
		{"admin inherits user", "admin", "/api/v1/me/ratings", ActionRead, true},
		{"unknown role", "guest", "/api/v1/me", ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := e.Enforce(tt.role, tt.object, tt.action)
			if err != nil {
				t.Fatalf("Enforce() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Enforce(%s, %s, %s) = %v, want %v", tt.role, tt.object, tt.action, got, tt.want)
			}
		})
	}
}

func TestEnforceWithRoles(t *testing.T) {
	t.Parallel()
	e := setupEnforcer(t, nil)

	tests := []struct {
		name  string
		roles []string
		want  bool
	}{
		{"admin role", []string{"user", "admin"}, true},
		{"user role", []string{"user"}, false},
		{"no roles falls back to default", nil, false},
	}
	for _, tt := range tests {
		got, err := e.EnforceWithRoles("uid-1", tt.roles, "/api/v1/admin/users/x/ratings", ActionRead)
		if err != nil {
			t.Fatalf("%s: EnforceWithRoles() error = %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("%s: EnforceWithRoles() = %v, want %v", tt.name, got, tt.want)
		}
	}

	got, err := e.EnforceWithRoles("uid-1", nil, "/api/v1/me", ActionRead)
	if err != nil || !got {
		t.Errorf("EnforceWithRoles(default role) = %v, %v, want true", got, err)
	}
}

func TestAddRoleForUserInvalidatesCache(t *testing.T) {
	t.Parallel()
	e := setupEnforcer(t, nil)

	if ok, _ := e.Enforce("uid-ops", "/api/v1/admin/users", ActionRead); ok {
		t.Fatal("Enforce() before grant = true, want false")
	}
	if _, err := e.AddRoleForUser("uid-ops", "admin"); err != nil {
		t.Fatalf("AddRoleForUser() error = %v", err)
	}
	if ok, _ := e.Enforce("uid-ops", "/api/v1/admin/users", ActionRead); !ok {
		t.Error("Enforce() after grant = false, want true")
	}
	roles, err := e.GetRolesForUser("uid-ops")
	if err != nil || len(roles) != 1 || roles[0] != "admin" {
		t.Errorf("GetRolesForUser() = %v, %v, want [admin]", roles, err)
	}
}

func TestPolicyFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.csv")
	if err := os.WriteFile(path, []byte("p, user, /api/v1/me, read\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	e := setupEnforcer(t, &EnforcerConfig{PolicyPath: path})
	if ok, _ := e.Enforce("user", "/api/v1/me", ActionRead); !ok {
		t.Error("Enforce(/me) = false, want true")
	}
	if ok, _ := e.Enforce("user", "/api/v1/me/watchlist", ActionRead); ok {
		t.Error("Enforce(/me/watchlist) = true, want false with file policy")
	}
	if err := e.LoadPolicy(); err != nil {
		t.Errorf("LoadPolicy() error = %v", err)
	}
}

func TestLoadPolicyWithoutAdapter(t *testing.T) {
	t.Parallel()
	e := setupEnforcer(t, nil)
	if err := e.LoadPolicy(); !errors.Is(err, ErrNoAdapter) {
		t.Errorf("LoadPolicy() error = %v, want ErrNoAdapter", err)
	}
}

func TestLoadEmbeddedPolicyRejectsMalformedLines(t *testing.T) {
	t.Parallel()
	e := setupEnforcer(t, &EnforcerConfig{})
	if err := loadEmbeddedPolicy(e.enforcer, "p, user\n"); err == nil {
		t.Error("loadEmbeddedPolicy() expected error, got nil")
	}
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reeltrack/internal/config"
	"github.com/tomtom215/reeltrack/internal/logging"
)

// NewAuthenticator returns the authenticator for cfg.AuthMode.
func NewAuthenticator(ctx context.Context, cfg *config.SecurityConfig) (Authenticator, error) {
	mode, err := ParseAuthMode(cfg.AuthMode)
	if err != nil {
		return nil, err
	}

	switch mode {
	case AuthModeNone:
		logging.Warn().Msg("AUTH_MODE=none: trusting X-User-ID header, do not expose this server")
		return NewHeaderAuthenticator(), nil
	case AuthModeOIDC:
		return NewOIDCAuthenticator(ctx, cfg.OIDC)
	default:
		manager, err := NewJWTManager(cfg)
		if err != nil {
			return nil, err
		}
		return NewJWTAuthenticator(manager), nil
	}
}

// ErrorHandler writes the response for a failed authentication.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Middleware authenticates requests and stores the subject in the request
// context.
type Middleware struct {
	authenticator Authenticator
	admins        map[string]struct{}
	onError       ErrorHandler
}

// NewMiddleware creates the middleware. Subjects whose id is listed in
// adminUsers get RoleAdmin. onError may be nil.
func NewMiddleware(authenticator Authenticator, adminUsers []string, onError ErrorHandler) *Middleware {
	admins := make(map[string]struct{}, len(adminUsers))
	for _, id := range adminUsers {
		admins[id] = struct{}{}
	}
	if onError == nil {
		onError = writeUnauthorized
	}
	return &Middleware{authenticator: authenticator, admins: admins, onError: onError}
}

// Authenticate rejects requests without valid credentials with 401.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		subject, err := m.authenticator.Authenticate(ctx, r)
		if err != nil {
			logging.LogAuthFailure(ctx, m.authenticator.Name(), reason(err), r.RemoteAddr)
			if !errors.Is(err, ErrAuthRequired) {
				err = fmt.Errorf("%w: %v", ErrAuthRequired, err)
			}
			m.onError(w, r, err)
			return
		}

		m.assignRoles(subject)
		logging.LogAuthSuccess(ctx, m.authenticator.Name(), subject.ID)

		ctx = ContextWithSubject(ctx, subject)
		ctx = logging.ContextWithUserID(ctx, subject.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) assignRoles(subject *AuthSubject) {
	if !subject.HasRole(RoleUser) {
		subject.Roles = append(subject.Roles, RoleUser)
	}
	if _, ok := m.admins[subject.ID]; ok && !subject.HasRole(RoleAdmin) {
		subject.Roles = append(subject.Roles, RoleAdmin)
	}
}

func reason(err error) string {
	switch {
	case errors.Is(err, ErrNoCredentials):
		return "no_credentials"
	case errors.Is(err, ErrExpiredCredentials):
		return "expired"
	case errors.Is(err, ErrAuthenticatorUnavailable):
		return "unavailable"
	default:
		return "invalid"
	}
}

func writeUnauthorized(w http.ResponseWriter, _ *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="reeltrack"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

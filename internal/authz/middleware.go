// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package authz

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/reeltrack/internal/auth"
	"github.com/tomtom215/reeltrack/internal/logging"
)

// ErrForbidden is passed to the error handler when a request is denied.
var ErrForbidden = errors.New("insufficient permissions")

// ErrorHandler writes the response for a rejected request. err is
// auth.ErrAuthRequired, ErrForbidden, or an enforcement failure.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, status int, err error)

// Middleware authorizes requests by path and method.
type Middleware struct {
	enforcer *Enforcer
	onError  ErrorHandler
}

// NewMiddleware creates a new authorization middleware. onError may be nil.
func NewMiddleware(enforcer *Enforcer, onError ErrorHandler) *Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, status int, err error) {
			http.Error(w, err.Error(), status)
		}
	}
	return &Middleware{enforcer: enforcer, onError: onError}
}

// AuthorizeRequest derives the action from the HTTP method and authorizes the
// request path. It must run after auth.Middleware.
func (m *Middleware) AuthorizeRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, err := auth.SubjectFromContext(r.Context())
		if err != nil {
			m.onError(w, r, http.StatusUnauthorized, err)
			return
		}

		action := methodToAction(r.Method)
		object := strings.TrimSuffix(r.URL.Path, "/")

		allowed, err := m.enforcer.EnforceWithRoles(subject.ID, subject.Roles, object, action)
		if err != nil {
			logging.Ctx(r.Context()).Error().Err(err).Msg("Authorization error")
			m.onError(w, r, http.StatusInternalServerError, err)
			return
		}
		if !allowed {
			logging.LogForbidden(r.Context(), strings.Join(subject.Roles, ","), object, action)
			m.onError(w, r, http.StatusForbidden, ErrForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// methodToAction maps HTTP methods to Casbin actions.
func methodToAction(method string) string {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return ActionWrite
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionRead
	}
}

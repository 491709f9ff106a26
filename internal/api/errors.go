// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/reeltrack/internal/auth"
	"github.com/tomtom215/reeltrack/internal/authz"
	"github.com/tomtom215/reeltrack/internal/catalog"
	"github.com/tomtom215/reeltrack/internal/docstore"
	"github.com/tomtom215/reeltrack/internal/friends"
	"github.com/tomtom215/reeltrack/internal/ledger"
	"github.com/tomtom215/reeltrack/internal/lists"
	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/profile"
	"github.com/tomtom215/reeltrack/internal/validation"
)

// errMalformedBody is returned when a request body is not valid JSON.
var errMalformedBody = errors.New("malformed request body")

// respondError maps a domain error onto the response envelope.
//
//	validation / ErrInvalid    -> 400
//	auth.ErrAuthRequired       -> 401
//	not found                  -> 404
//	catalog.ErrUpstream        -> 502
//	docstore.ErrUnavailable    -> 503
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	rw := NewResponseWriter(w, r)
	log := logging.Ctx(r.Context())

	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		rw.ValidationError(verr.Error(), verr.Details())
	case errors.Is(err, errMalformedBody):
		rw.BadRequest(err.Error())
	case isInvalid(err):
		rw.BadRequest(err.Error())
	case errors.Is(err, auth.ErrAuthRequired):
		rw.Unauthorized("Authentication required")
	case errors.Is(err, authz.ErrForbidden):
		rw.Forbidden("Insufficient permissions")
	case errors.Is(err, docstore.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		rw.NotFound("Resource not found")
	case errors.Is(err, catalog.ErrUpstream):
		rw.ExternalServiceError("tmdb", err)
	case errors.Is(err, docstore.ErrUnavailable):
		log.Error().Err(err).Msg("Document store unavailable")
		rw.ServiceUnavailable("Storage temporarily unavailable")
	default:
		log.Error().Err(err).Msg("Unhandled API error")
		rw.InternalError("Internal server error")
	}
}

func isInvalid(err error) bool {
	return errors.Is(err, lists.ErrInvalid) ||
		errors.Is(err, ledger.ErrInvalid) ||
		errors.Is(err, friends.ErrInvalid) ||
		errors.Is(err, profile.ErrInvalid) ||
		errors.Is(err, catalog.ErrInvalid) ||
		errors.Is(err, docstore.ErrInvalidPath)
}

// authError adapts respondError to auth.ErrorHandler.
func authError(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, err)
}

// authzError adapts respondError to authz.ErrorHandler.
func authzError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status == http.StatusInternalServerError {
		NewResponseWriter(w, r).InternalError("Authorization failed")
		return
	}
	respondError(w, r, err)
}

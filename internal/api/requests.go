// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reeltrack/internal/models"
	"github.com/tomtom215/reeltrack/internal/validation"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// AvatarRequest is the body of PUT /me/profile/avatar.
type AvatarRequest struct {
	Avatar string `json:"avatar" validate:"required,avatar"`
}

// RatingRequest is the body of rating updates. Zero clears a rating.
type RatingRequest struct {
	Rating *int `json:"rating" validate:"required,gte=0,lte=5"`
}

// FriendRequest is the body of POST /me/friends.
type FriendRequest struct {
	FriendID string `json:"friendId" validate:"required,max=128"`
}

// decodeJSON reads a size-limited JSON body into v and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errMalformedBody, err)
	}
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr
	}
	return nil
}

// mediaKind parses the {kind} path segment.
func mediaKind(s string) (models.MediaKind, error) {
	k := models.MediaKind(strings.ToLower(s))
	if !k.Valid() {
		return "", fmt.Errorf("%w: kind must be movie or tv", errMalformedBody)
	}
	return k, nil
}

// intQuery returns the positive integer query parameter key, or def.
func intQuery(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package auth

import (
	"context"
	"net/http"
	"strings"
)

// Headers read in none mode.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserName  = "X-User-Name"
	HeaderUserEmail = "X-User-Email"
)

// HeaderAuthenticator trusts identity headers set by the caller. It exists
// for local development and tests and must not face the internet.
type HeaderAuthenticator struct{}

// NewHeaderAuthenticator creates a header authenticator.
func NewHeaderAuthenticator() *HeaderAuthenticator {
	return &HeaderAuthenticator{}
}

// Authenticate implements Authenticator.
func (a *HeaderAuthenticator) Authenticate(_ context.Context, r *http.Request) (*AuthSubject, error) {
	id := strings.TrimSpace(r.Header.Get(HeaderUserID))
	if id == "" {
		// websocket clients cannot set headers from the browser
		id = strings.TrimSpace(r.URL.Query().Get("user_id"))
	}
	if id == "" {
		return nil, ErrNoCredentials
	}
	return &AuthSubject{
		ID:         id,
		Name:       r.Header.Get(HeaderUserName),
		Email:      r.Header.Get(HeaderUserEmail),
		Issuer:     "local",
		AuthMethod: AuthModeNone,
	}, nil
}

// Name implements Authenticator.
func (a *HeaderAuthenticator) Name() string {
	return string(AuthModeNone)
}

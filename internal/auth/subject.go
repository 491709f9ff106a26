// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

// Package auth resolves the calling user from a request. Identity is
// external: the service only verifies tokens (HS256 JWT or OIDC ID tokens)
// and never stores credentials.
package auth

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"
)

// AuthMode represents the authentication strategy.
type AuthMode string

const (
	// AuthModeNone trusts the X-User-ID header. Development only.
	AuthModeNone AuthMode = "none"

	// AuthModeJWT uses HS256 Bearer tokens signed with the shared secret.
	AuthModeJWT AuthMode = "jwt"

	// AuthModeOIDC verifies ID tokens from an OpenID Connect issuer.
	AuthModeOIDC AuthMode = "oidc"
)

// ParseAuthMode converts a string to AuthMode.
func ParseAuthMode(s string) (AuthMode, error) {
	switch s {
	case "none":
		return AuthModeNone, nil
	case "jwt", "":
		return AuthModeJWT, nil
	case string(AuthModeOIDC):
		return AuthModeOIDC, nil
	default:
		return "", errors.New("invalid auth mode: " + s)
	}
}

// String returns the string representation of AuthMode.
func (m AuthMode) String() string {
	return string(m)
}

// Roles assigned to subjects.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Standard authentication errors
var (
	// ErrAuthRequired is returned when an operation needs a signed-in user.
	// Every error below wraps it.
	ErrAuthRequired = errors.New("authentication required")

	// ErrNoCredentials indicates no credentials were provided.
	ErrNoCredentials = wrap("no credentials provided")

	// ErrInvalidCredentials indicates credentials were invalid.
	ErrInvalidCredentials = wrap("invalid credentials")

	// ErrExpiredCredentials indicates credentials have expired.
	ErrExpiredCredentials = wrap("credentials expired")

	// ErrAuthenticatorUnavailable indicates the auth provider is unreachable.
	ErrAuthenticatorUnavailable = wrap("authenticator unavailable")
)

type authError struct{ msg string }

func wrap(msg string) error { return &authError{msg: msg} }

func (e *authError) Error() string { return e.msg }

func (e *authError) Unwrap() error { return ErrAuthRequired }

// Authenticator defines the interface for authentication providers.
type Authenticator interface {
	// Authenticate extracts and validates credentials from the request.
	Authenticate(ctx context.Context, r *http.Request) (*AuthSubject, error)

	// Name returns the authenticator's name for logging.
	Name() string
}

// AuthSubject is the authenticated caller, normalized across auth modes.
type AuthSubject struct {
	// ID is the stable user id (the 'sub' claim). Every user-scoped
	// document path is keyed by it.
	ID string `json:"id"`

	// Name is the display name from the token, when present.
	Name string `json:"name,omitempty"`

	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`

	// Roles drive authorization. Every subject has RoleUser.
	Roles []string `json:"roles,omitempty"`

	Issuer     string   `json:"issuer,omitempty"`
	AuthMethod AuthMode `json:"auth_method"`
	IssuedAt   int64    `json:"issued_at,omitempty"`
	ExpiresAt  int64    `json:"expires_at,omitempty"`
}

// HasRole reports whether the subject holds role.
func (s *AuthSubject) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}

// IsAdmin reports whether the subject holds RoleAdmin.
func (s *AuthSubject) IsAdmin() bool {
	return s.HasRole(RoleAdmin)
}

// IsExpired reports whether the subject's credentials have expired at now.
func (s *AuthSubject) IsExpired(now time.Time) bool {
	return s.ExpiresAt > 0 && now.Unix() >= s.ExpiresAt
}

type contextKey string

// AuthSubjectContextKey is the context key for the authenticated subject.
const AuthSubjectContextKey contextKey = "auth_subject"

// ContextWithSubject returns ctx carrying subject.
func ContextWithSubject(ctx context.Context, subject *AuthSubject) context.Context {
	return context.WithValue(ctx, AuthSubjectContextKey, subject)
}

// SubjectFromContext returns the authenticated subject, or ErrAuthRequired
// when the request was not authenticated.
func SubjectFromContext(ctx context.Context) (*AuthSubject, error) {
	subject, ok := ctx.Value(AuthSubjectContextKey).(*AuthSubject)
	if !ok || subject == nil || subject.ID == "" {
		return nil, ErrAuthRequired
	}
	return subject, nil
}

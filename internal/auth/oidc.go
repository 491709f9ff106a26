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
	"time"

	"github.com/zitadel/oidc/v3/pkg/client"
	"github.com/zitadel/oidc/v3/pkg/client/rp"
	"github.com/zitadel/oidc/v3/pkg/oidc"

	"github.com/tomtom215/reeltrack/internal/config"
	"github.com/tomtom215/reeltrack/internal/logging"
)

// OIDCAuthenticator verifies ID tokens issued by an OpenID Connect provider.
// Firebase Authentication tokens verify with issuer
// https://securetoken.google.com/<project> and the project id as client id.
type OIDCAuthenticator struct {
	issuer   string
	verifier *rp.IDTokenVerifier
}

// OIDCOption configures NewOIDCAuthenticator.
type OIDCOption func(*oidcOptions)

type oidcOptions struct {
	httpClient *http.Client
}

// WithHTTPClient sets the client used for discovery and key fetches.
func WithHTTPClient(c *http.Client) OIDCOption {
	return func(o *oidcOptions) { o.httpClient = c }
}

// NewOIDCAuthenticator builds an ID token verifier. When cfg.JWKSURL is
// empty the key set location is found through issuer discovery.
func NewOIDCAuthenticator(ctx context.Context, cfg config.OIDCConfig, opts ...OIDCOption) (*OIDCAuthenticator, error) {
	if cfg.IssuerURL == "" || cfg.ClientID == "" {
		return nil, fmt.Errorf("oidc issuer and client id are required")
	}
	o := oidcOptions{httpClient: &http.Client{Timeout: 10 * time.Second}}
	for _, opt := range opts {
		opt(&o)
	}

	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		discovery, err := client.Discover(ctx, cfg.IssuerURL, o.httpClient)
		if err != nil {
			return nil, fmt.Errorf("%w: discovery: %v", ErrAuthenticatorUnavailable, err)
		}
		jwksURL = discovery.JwksURI
	}

	keySet := rp.NewRemoteKeySet(o.httpClient, jwksURL)
	return &OIDCAuthenticator{
		issuer:   cfg.IssuerURL,
		verifier: rp.NewIDTokenVerifier(cfg.IssuerURL, cfg.ClientID, keySet),
	}, nil
}

// Authenticate implements Authenticator.
func (a *OIDCAuthenticator) Authenticate(ctx context.Context, r *http.Request) (*AuthSubject, error) {
	token := extractBearerToken(r)
	if token == "" {
		return nil, ErrNoCredentials
	}

	claims, err := rp.VerifyIDToken[*oidc.IDTokenClaims](ctx, token, a.verifier)
	if err != nil {
		return nil, mapVerificationError(err)
	}

	subject := &AuthSubject{
		ID:            claims.GetSubject(),
		Name:          claims.Name,
		Email:         claims.Email,
		EmailVerified: bool(claims.EmailVerified),
		Issuer:        claims.GetIssuer(),
		AuthMethod:    AuthModeOIDC,
		IssuedAt:      claims.GetIssuedAt().Unix(),
		ExpiresAt:     claims.GetExpiration().Unix(),
	}
	if subject.Name == "" {
		subject.Name = claims.PreferredUsername
	}
	return subject, nil
}

// Name implements Authenticator.
func (a *OIDCAuthenticator) Name() string {
	return string(AuthModeOIDC)
}

// Issuer returns the configured issuer URL.
func (a *OIDCAuthenticator) Issuer() string {
	return a.issuer
}

func mapVerificationError(err error) error {
	if errors.Is(err, oidc.ErrExpired) {
		return ErrExpiredCredentials
	}
	logging.Debug().Err(err).Msg("ID token verification failed")
	return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
}

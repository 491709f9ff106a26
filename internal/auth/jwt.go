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
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/reeltrack/internal/config"
)

// localIssuer is the iss claim of tokens minted by JWTManager.
const localIssuer = "reeltrack"

// Claims represents JWT claims
type Claims struct {
	Name  string   `json:"name,omitempty"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT token creation and validation
type JWTManager struct {
	secret  []byte
	timeout time.Duration
	now     func() time.Time
}

// NewJWTManager creates a JWT manager signing with HMAC-SHA256.
// The secret must be non-empty; config validation enforces its length.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}
	timeout := cfg.TokenTTL
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}

	return &JWTManager{
		secret:  []byte(cfg.JWTSecret),
		timeout: timeout,
		now:     time.Now,
	}, nil
}

// GenerateToken signs a token for userID. It is used by operators and tests
// to mint tokens; end-user sign-in happens at the identity provider.
func (m *JWTManager) GenerateToken(userID, name, email string, roles []string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}
	now := m.now()
	claims := &Claims{
		Name:  name,
		Email: email,
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    localIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateToken verifies the signature, algorithm and time claims of
// tokenString. Expired tokens return ErrExpiredCredentials; everything else
// that fails returns ErrInvalidCredentials.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if !token.Valid {
		return nil, ErrInvalidCredentials
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidCredentials)
	}

	return claims, nil
}

// JWTAuthenticator authenticates Bearer tokens minted by a JWTManager.
type JWTAuthenticator struct {
	manager *JWTManager
}

// NewJWTAuthenticator creates a JWT authenticator.
func NewJWTAuthenticator(manager *JWTManager) *JWTAuthenticator {
	return &JWTAuthenticator{manager: manager}
}

// Authenticate implements Authenticator.
func (a *JWTAuthenticator) Authenticate(_ context.Context, r *http.Request) (*AuthSubject, error) {
	token := extractBearerToken(r)
	if token == "" {
		return nil, ErrNoCredentials
	}

	claims, err := a.manager.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	subject := &AuthSubject{
		ID:         claims.Subject,
		Name:       claims.Name,
		Email:      claims.Email,
		Roles:      append([]string(nil), claims.Roles...),
		Issuer:     claims.Issuer,
		AuthMethod: AuthModeJWT,
	}
	if claims.IssuedAt != nil {
		subject.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		subject.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return subject, nil
}

// Name implements Authenticator.
func (a *JWTAuthenticator) Name() string {
	return string(AuthModeJWT)
}

// extractBearerToken reads the Authorization header. Browsers cannot set
// headers on websocket upgrades, so the access_token query parameter is
// accepted as a fallback.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return r.URL.Query().Get("access_token")
}

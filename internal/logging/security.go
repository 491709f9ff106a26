// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package logging

import (
	"context"
)

// Security event types.
const (
	SecurityAuthFailure = "auth_failure"
	SecurityAuthSuccess = "auth_success"
	SecurityForbidden   = "forbidden"
)

// LogAuthFailure records a rejected credential. The token itself is never logged.
func LogAuthFailure(ctx context.Context, mode, reason, ip string) {
	Ctx(ctx).Warn().
		Str("security_event", SecurityAuthFailure).
		Str("auth_mode", mode).
		Str("reason", reason).
		Str("ip", ip).
		Msg("authentication failed")
}

// LogAuthSuccess records an accepted credential at debug level.
func LogAuthSuccess(ctx context.Context, mode, userID string) {
	Ctx(ctx).Debug().
		Str("security_event", SecurityAuthSuccess).
		Str("auth_mode", mode).
		Str("subject", SanitizeUserID(userID)).
		Msg("authenticated")
}

// LogForbidden records an authorization denial.
func LogForbidden(ctx context.Context, role, object, action string) {
	Ctx(ctx).Warn().
		Str("security_event", SecurityForbidden).
		Str("role", role).
		Str("object", object).
		Str("action", action).
		Msg("access denied")
}

// SanitizeToken keeps only enough of a bearer token to correlate log lines.
func SanitizeToken(token string) string {
	if len(token) <= 8 {
		return "[REDACTED]"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeUserID truncates long provider-issued ids.
func SanitizeUserID(userID string) string {
	if len(userID) <= 12 {
		return userID
	}
	return userID[:12] + "..."
}

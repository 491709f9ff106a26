// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("Level = %q, want %q", cfg.Level, "info")
	}
	if cfg.Format != "json" {
		t.Errorf("Format = %q, want %q", cfg.Format, "json")
	}
	if cfg.Caller {
		t.Error("Caller = true, want false")
	}
	if !cfg.Timestamp {
		t.Error("Timestamp = false, want true")
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Timestamp: true, Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Str("movie_id", "603").Msg("watchlist entry added")

	out := buf.String()
	for _, want := range []string{`"level":"info"`, `"movie_id":"603"`, "watchlist entry added"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestInitLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Output: &buf})
	t.Cleanup(func() { Init(DefaultConfig()) })

	Info().Msg("hidden")
	Warn().Msg("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info entry logged at warn level: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn entry missing: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	t.Parallel()

	if got := SanitizeToken("short"); got != "[REDACTED]" {
		t.Errorf("SanitizeToken(short) = %q, want [REDACTED]", got)
	}
	if got := SanitizeToken("eyJhbGciOiJIUzI1NiJ9.payload.sig"); got != "eyJh....sig" {
		t.Errorf("SanitizeToken(jwt) = %q, want %q", got, "eyJh....sig")
	}
}

func TestSanitizeUserID(t *testing.T) {
	t.Parallel()

	if got := SanitizeUserID("u1"); got != "u1" {
		t.Errorf("SanitizeUserID(u1) = %q", got)
	}
	if got := SanitizeUserID("abcdefghijklmnopqrstuvwxyz"); got != "abcdefghijkl..." {
		t.Errorf("SanitizeUserID(long) = %q", got)
	}
}

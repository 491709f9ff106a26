// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompression(t *testing.T) {
	t.Parallel()
	body := strings.Repeat(`{"title":"Inception"}`, 100)
	handler := Compression(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
	}))

	tests := []struct {
		name     string
		path     string
		encoding string
		upgrade  string
		wantGzip bool
	}{
		{"gzip accepted", "/api/v1/me/watchlist", "gzip, deflate", "", true},
		{"no accept-encoding", "/api/v1/me/watchlist", "", "", false},
		{"websocket upgrade", "/api/v1/ws", "gzip", "websocket", false},
		{"metrics endpoint", "/metrics", "gzip", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.encoding != "" {
				req.Header.Set("Accept-Encoding", tt.encoding)
			}
			if tt.upgrade != "" {
				req.Header.Set("Upgrade", tt.upgrade)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			gotGzip := rec.Header().Get("Content-Encoding") == "gzip"
			if gotGzip != tt.wantGzip {
				t.Fatalf("gzip = %v, want %v", gotGzip, tt.wantGzip)
			}

			var reader io.Reader = rec.Body
			if gotGzip {
				gz, err := gzip.NewReader(rec.Body)
				if err != nil {
					t.Fatalf("gzip.NewReader() error = %v", err)
				}
				reader = gz
			}
			got, err := io.ReadAll(reader)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != body {
				t.Errorf("body length = %d, want %d", len(got), len(body))
			}
		})
	}
}

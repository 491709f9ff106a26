// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/reeltrack/internal/logging"
	ws "github.com/tomtom215/reeltrack/internal/websocket"
)

func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins. Requests
// without an Origin header come from native clients; they already passed
// bearer authentication, which browsers cannot attach cross-site.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if h.config == nil {
		return true
	}
	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	logging.Ctx(r.Context()).Warn().
		Str("origin", sanitizeLogValue(origin)).
		Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket upgrades the request and subscribes the caller to their
// friends' activity.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		NewResponseWriter(w, r).ServiceUnavailable("WebSocket service unavailable")
		return
	}
	s, ok := subject(w, r)
	if !ok {
		return
	}

	links, err := h.friends.List(r.Context(), s.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	friendIDs := make([]string, len(links))
	for i, l := range links {
		friendIDs[i] = l.UserID
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn, s.ID, friendIDs)
	h.wsHub.Register <- client
	client.Start()
}

// sanitizeLogValue strips control characters and caps the length of
// client-supplied values before they are logged.
func sanitizeLogValue(s string) string {
	const maxLen = 200
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

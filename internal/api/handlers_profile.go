// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/reeltrack/internal/ledger"
	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/models"
	"github.com/tomtom215/reeltrack/internal/profile"
)

// ProfileResponse is returned by profile writes. FanOut is present when the
// avatar changed and the rating ledger was rewritten.
type ProfileResponse struct {
	Profile models.UserInfo      `json:"profile"`
	FanOut  *ledger.FanOutResult `json:"fanOut,omitempty"`
}

// Me returns the caller's identity: token subject merged with the profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	id, err := h.profiles.Identity(r.Context(), s.ID, s.Email, s.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, id)
}

// GetMyProfile returns the caller's stored profile.
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	h.writeProfile(w, r, s.ID)
}

// RegisterProfile creates or replaces the caller's profile.
func (h *Handler) RegisterProfile(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	var in profile.Input
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.profiles.Register(r.Context(), s.ID, in); err != nil {
		respondError(w, r, err)
		return
	}
	info, err := h.profiles.Get(r.Context(), s.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(ProfileResponse{Profile: info})
}

// UpsertProfile updates username and avatar, creating the profile if
// needed. A changed avatar is propagated to the caller's ratings.
func (h *Handler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	var in profile.Input
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	changed, err := h.profiles.Upsert(r.Context(), s.ID, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.respondProfileChange(w, r, s.ID, changed)
}

// UpdateAvatar changes only the avatar of an existing profile.
func (h *Handler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	var in AvatarRequest
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	changed, err := h.profiles.UpdateProfilePicture(r.Context(), s.ID, in.Avatar)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.respondProfileChange(w, r, s.ID, changed)
}

func (h *Handler) respondProfileChange(w http.ResponseWriter, r *http.Request, userID string, avatarChanged bool) {
	info, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	resp := ProfileResponse{Profile: info}
	if avatarChanged {
		res := h.fanOutAvatar(r.Context(), userID, info.ProfilePicture)
		resp.FanOut = &res
	}
	WriteSuccess(w, r, resp)
}

// fanOutAvatar rewrites the avatar on the user's ratings. The profile write
// already succeeded, so failures are logged and reported, never returned.
func (h *Handler) fanOutAvatar(ctx context.Context, userID, avatar string) ledger.FanOutResult {
	res, err := h.ledger.FanOutAvatarChange(ctx, userID, avatar)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("user_id", userID).
			Int("failed", len(res.Failed)).
			Msg("Avatar fan-out incomplete")
	}
	if res.Updated == nil {
		res.Updated = []string{}
	}
	if res.Failed == nil {
		res.Failed = []string{}
	}
	return res
}

// SearchUsers finds profiles by username prefix, excluding the caller.
func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	users, err := h.profiles.Search(r.Context(), q, s.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if users == nil {
		users = []models.UserInfo{}
	}
	NewResponseWriter(w, r).List(users, len(users))
}

// GetUserProfile returns another user's public profile.
func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	h.writeProfile(w, r, chi.URLParam(r, "userId"))
}

func (h *Handler) writeProfile(w http.ResponseWriter, r *http.Request, userID string) {
	info, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, info)
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/models"
)

// FriendshipStatus answers GET /me/friends/{friendId}.
type FriendshipStatus struct {
	FriendID string `json:"friendId"`
	IsFriend bool   `json:"isFriend"`
}

// ListMyRatings returns the caller's rating ledger.
func (h *Handler) ListMyRatings(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	h.writeRatings(w, r, s.ID)
}

// DeleteMyRating removes one ledger entry. The finished list is untouched.
func (h *Handler) DeleteMyRating(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	if err := h.ledger.Delete(r.Context(), s.ID, chi.URLParam(r, "contentId")); err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

func (h *Handler) writeRatings(w http.ResponseWriter, r *http.Request, userID string) {
	entries, err := h.ledger.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if entries == nil {
		entries = []models.RatingEntry{}
	}
	NewResponseWriter(w, r).List(entries, len(entries))
}

// ListFriends returns the caller's outgoing friend links.
func (h *Handler) ListFriends(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	links, err := h.friends.List(r.Context(), s.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if links == nil {
		links = []models.FriendLink{}
	}
	NewResponseWriter(w, r).List(links, len(links))
}

// AddFriend links the caller and an existing user in both directions.
func (h *Handler) AddFriend(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	var in FriendRequest
	if err := decodeJSON(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}
	if in.FriendID != s.ID {
		if _, err := h.profiles.Get(r.Context(), in.FriendID); err != nil {
			respondError(w, r, err)
			return
		}
	}
	if err := h.friends.Befriend(r.Context(), s.ID, in.FriendID); err != nil {
		respondError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("friend_id", in.FriendID).Msg("Friend added")
	NewResponseWriter(w, r).Created(FriendshipStatus{FriendID: in.FriendID, IsFriend: true})
}

// RemoveFriend deletes the friendship in both directions.
func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	if err := h.friends.Unfriend(r.Context(), s.ID, chi.URLParam(r, "friendId")); err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// CheckFriend reports whether the caller has a link to friendId.
func (h *Handler) CheckFriend(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	fid := chi.URLParam(r, "friendId")
	isFriend, err := h.friends.Check(r.Context(), s.ID, fid)
	if err != nil {
		respondError(w, r, err)
		return
	}
	WriteSuccess(w, r, FriendshipStatus{FriendID: fid, IsFriend: isFriend})
}

// Feed returns the ratings of the caller's friends, newest first.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	s, ok := subject(w, r)
	if !ok {
		return
	}
	feed, err := h.ledger.FeedForViewer(r.Context(), s.ID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(feed, len(feed))
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

// Package profile stores the public user records at userInfo/{userId}: the
// display name and avatar friends see.
package profile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/reeltrack/internal/docstore"
	"github.com/tomtom215/reeltrack/internal/models"
	"github.com/tomtom215/reeltrack/internal/validation"
)

// CollectionUserInfo is the top-level profile collection.
const CollectionUserInfo = "userInfo"

// SearchLimit caps the number of profiles Search returns.
const SearchLimit = 25

// ErrInvalid is returned for malformed profile input.
var ErrInvalid = errors.New("invalid profile")

// Input is the user-editable part of a profile.
type Input struct {
	Username string `json:"username" validate:"required,max=64"`
	Avatar   string `json:"avatar" validate:"omitempty,avatar"`
}

// Store is the profile store.
type Store struct {
	db docstore.Store
}

// New returns a Store on db.
func New(db docstore.Store) *Store {
	return &Store{db: db}
}

func (s *Store) ref(userID string) docstore.DocRef {
	return docstore.Collection(CollectionUserInfo).Doc(userID)
}

func validateInput(in Input) error {
	if verr := validation.ValidateStruct(in); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, verr)
	}
	return nil
}

// Register writes a complete profile, replacing any existing one.
func (s *Store) Register(ctx context.Context, userID string, in Input) error {
	if err := validateInput(in); err != nil {
		return err
	}
	err := s.db.Set(ctx, s.ref(userID), docstore.Fields{
		"userId":         userID,
		"username":       in.Username,
		"profilePicture": models.ResolveAvatar(in.Avatar),
		"timestamp":      docstore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("register %s: %w", userID, err)
	}
	return nil
}

// Upsert creates the profile when absent, otherwise merges username and
// avatar into it. An empty avatar leaves the stored one as is. changed
// reports whether an existing profile got a new avatar, in which case the
// caller propagates it to the rating ledger.
func (s *Store) Upsert(ctx context.Context, userID string, in Input) (changed bool, err error) {
	if err := validateInput(in); err != nil {
		return false, err
	}
	cur, err := s.Get(ctx, userID)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return false, s.Register(ctx, userID, in)
	case err != nil:
		return false, err
	}

	// An omitted avatar keeps the current one.
	avatar := cur.ProfilePicture
	if in.Avatar != "" {
		avatar = in.Avatar
	}

	err = s.db.SetMerge(ctx, s.ref(userID), docstore.Fields{
		"username":       in.Username,
		"profilePicture": avatar,
	})
	if err != nil {
		return false, fmt.Errorf("update profile %s: %w", userID, err)
	}
	return cur.ProfilePicture != avatar, nil
}

// UpdateProfilePicture changes the avatar of an existing profile. It fails
// with docstore.ErrNotFound when the profile does not exist.
func (s *Store) UpdateProfilePicture(ctx context.Context, userID, avatar string) (changed bool, err error) {
	if !models.IsAvatar(avatar) {
		return false, fmt.Errorf("%w: unknown avatar %q", ErrInvalid, avatar)
	}
	cur, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	if err := s.db.Update(ctx, s.ref(userID), docstore.Fields{"profilePicture": avatar}); err != nil {
		return false, fmt.Errorf("update avatar of %s: %w", userID, err)
	}
	return cur.ProfilePicture != avatar, nil
}

// Get returns the profile or docstore.ErrNotFound.
func (s *Store) Get(ctx context.Context, userID string) (models.UserInfo, error) {
	doc, err := s.db.Get(ctx, s.ref(userID))
	if err != nil {
		return models.UserInfo{}, fmt.Errorf("get profile %s: %w", userID, err)
	}
	info, err := docstore.Decode[models.UserInfo](doc)
	if err != nil {
		return models.UserInfo{}, err
	}
	if info.UserID == "" {
		info.UserID = doc.ID
	}
	return info, nil
}

// Search returns profiles whose username starts with prefix, excluding
// excludeUserID, sorted by username. A blank prefix returns no results
// without reading the store.
func (s *Store) Search(ctx context.Context, prefix, excludeUserID string) ([]models.UserInfo, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []models.UserInfo{}, nil
	}

	docs, err := s.db.GetAll(ctx, docstore.Collection(CollectionUserInfo))
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}

	out := make([]models.UserInfo, 0)
	for _, d := range docs {
		if d.ID == excludeUserID {
			continue
		}
		info, err := docstore.Decode[models.UserInfo](d)
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(info.Username, prefix) {
			continue
		}
		if info.UserID == "" {
			info.UserID = d.ID
		}
		out = append(out, info)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Username != out[j].Username {
			return out[i].Username < out[j].Username
		}
		return out[i].UserID < out[j].UserID
	})
	if len(out) > SearchLimit {
		out = out[:SearchLimit]
	}
	return out, nil
}

// Identity combines the authenticated subject with the stored profile. A
// missing profile falls back to fallbackName and the default avatar.
func (s *Store) Identity(ctx context.Context, userID, email, fallbackName string) (models.Identity, error) {
	id := models.Identity{
		ID:               userID,
		DisplayName:      fallbackName,
		Email:            email,
		AvatarIdentifier: models.DefaultAvatar,
	}
	info, err := s.Get(ctx, userID)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return id, nil
	case err != nil:
		return models.Identity{}, err
	}
	if info.Username != "" {
		id.DisplayName = info.Username
	}
	id.AvatarIdentifier = models.ResolveAvatar(info.ProfilePicture)
	return id, nil
}

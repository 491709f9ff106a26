// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package models

import "time"

// RatingEntry is the current rating snapshot a user shares with friends.
// Stored at users/{userId}/ratings/{contentId}. MovieID holds the content
// id for series as well.
type RatingEntry struct {
	MovieID    string    `json:"movieId"`
	MovieTitle string    `json:"movieTitle"`
	Rating     int       `json:"rating"`
	UserName   string    `json:"userName"`
	AvatarName string    `json:"avatarName"`
	Timestamp  time.Time `json:"timestamp"`
}

// RatingInput is what a caller supplies to record a rating.
type RatingInput struct {
	ContentID  string `json:"contentId" validate:"required,max=64"`
	Title      string `json:"title" validate:"required,max=512"`
	Rating     int    `json:"rating" validate:"gte=1,lte=5"`
	UserName   string `json:"userName" validate:"max=64"`
	AvatarName string `json:"avatarName" validate:"max=64"`
}

// FeedItem is one entry of a friend activity feed.
type FeedItem struct {
	AuthorID string `json:"authorId"`
	RatingEntry
}

// FriendLink is one direction of a friendship.
// Stored at users/{userId}/friends/{friendId}.
type FriendLink struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// UserInfo is the public profile stored at userInfo/{userId}.
// ProfilePicture holds an avatar name from Avatars.
type UserInfo struct {
	UserID         string    `json:"userId"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profilePicture"`
	Timestamp      time.Time `json:"timestamp"`
}

// Identity is the authenticated caller as seen by the service.
type Identity struct {
	ID               string `json:"id"`
	DisplayName      string `json:"displayName"`
	Email            string `json:"email,omitempty"`
	AvatarIdentifier string `json:"avatarIdentifier"`
}

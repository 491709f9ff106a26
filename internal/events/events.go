// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

// Package events carries friend activity between the stores and live
// clients.
//
// Stores report changes through Publisher, which implements the ledger and
// friend graph notifier hooks. Publishing is best-effort: a failed publish
// is logged and counted but never fails the write that caused it. A Router
// consumes the activity topics and hands each event to a Sink, normally the
// websocket hub.
//
// Two transports are supported. The memory transport uses a Watermill
// gochannel and needs no infrastructure. The nats transport uses JetStream,
// either against an external server or an embedded one.
package events

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/reeltrack/internal/models"
)

// SchemaVersion is the current ActivityEvent layout.
const SchemaVersion = 1

// Activity topics.
const (
	TopicRatingRecorded = "activity.rating_recorded"
	TopicAvatarChanged  = "activity.avatar_changed"
	TopicFriendAdded    = "activity.friend_added"
	TopicFriendRemoved  = "activity.friend_removed"
)

// Topics lists every activity topic.
var Topics = []string{TopicRatingRecorded, TopicAvatarChanged, TopicFriendAdded, TopicFriendRemoved}

// ErrInvalidEvent is returned for events that cannot be published.
var ErrInvalidEvent = errors.New("invalid activity event")

// ActivityEvent is one piece of friend activity. AuthorID is the user whose
// friends should see it.
type ActivityEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	Topic         string    `json:"topic"`
	AuthorID      string    `json:"author_id"`
	Timestamp     time.Time `json:"timestamp"`

	// Set on rating_recorded.
	Rating *models.RatingEntry `json:"rating,omitempty"`

	// Set on avatar_changed.
	Avatar string `json:"avatar,omitempty"`

	// Set on friend_added and friend_removed.
	FriendID string `json:"friend_id,omitempty"`
}

func newEvent(topic, authorID string) *ActivityEvent {
	return &ActivityEvent{
		SchemaVersion: SchemaVersion,
		EventID:       uuid.NewString(),
		Topic:         topic,
		AuthorID:      authorID,
		Timestamp:     time.Now().UTC(),
	}
}

// NewRatingRecorded builds the event for a rating written to authorID's ledger.
func NewRatingRecorded(authorID string, entry models.RatingEntry) *ActivityEvent {
	e := newEvent(TopicRatingRecorded, authorID)
	e.Rating = &entry
	return e
}

// NewAvatarChanged builds the event for a profile picture change.
func NewAvatarChanged(userID, avatar string) *ActivityEvent {
	e := newEvent(TopicAvatarChanged, userID)
	e.Avatar = avatar
	return e
}

// NewFriendAdded builds the event for userID adding friendID.
func NewFriendAdded(userID, friendID string) *ActivityEvent {
	e := newEvent(TopicFriendAdded, userID)
	e.FriendID = friendID
	return e
}

// NewFriendRemoved builds the event for userID removing friendID.
func NewFriendRemoved(userID, friendID string) *ActivityEvent {
	e := newEvent(TopicFriendRemoved, userID)
	e.FriendID = friendID
	return e
}

// Validate checks the fields required for the event's topic.
func (e *ActivityEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	}
	if e.AuthorID == "" {
		return fmt.Errorf("%w: author_id is required", ErrInvalidEvent)
	}
	switch e.Topic {
	case TopicRatingRecorded:
		if e.Rating == nil || e.Rating.MovieID == "" {
			return fmt.Errorf("%w: rating is required", ErrInvalidEvent)
		}
	case TopicAvatarChanged:
		if e.Avatar == "" {
			return fmt.Errorf("%w: avatar is required", ErrInvalidEvent)
		}
	case TopicFriendAdded, TopicFriendRemoved:
		if e.FriendID == "" {
			return fmt.Errorf("%w: friend_id is required", ErrInvalidEvent)
		}
	default:
		return fmt.Errorf("%w: unknown topic %q", ErrInvalidEvent, e.Topic)
	}
	return nil
}

// Type returns the topic without the activity prefix, e.g. rating_recorded.
func (e *ActivityEvent) Type() string {
	return strings.TrimPrefix(e.Topic, "activity.")
}

// Serialize encodes e as JSON.
func Serialize(e *ActivityEvent) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("%w: nil event", ErrInvalidEvent)
	}
	return json.Marshal(e)
}

// Deserialize decodes and validates an event.
func Deserialize(data []byte) (*ActivityEvent, error) {
	var e ActivityEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if e.SchemaVersion == 0 {
		e.SchemaVersion = SchemaVersion
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

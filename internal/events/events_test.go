// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package events

import (
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/reeltrack/internal/models"
)

func TestNewEventsValidate(t *testing.T) {
	t.Parallel()

	entry := models.RatingEntry{MovieID: "603", MovieTitle: "The Matrix", Rating: 5}
	tests := []struct {
		name  string
		event *ActivityEvent
		topic string
	}{
		{"rating", NewRatingRecorded("alice", entry), TopicRatingRecorded},
		{"avatar", NewAvatarChanged("alice", "luffy"), TopicAvatarChanged},
		{"friend", NewFriendAdded("alice", "bob"), TopicFriendAdded},
		{"unfriend", NewFriendRemoved("alice", "bob"), TopicFriendRemoved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.event.Topic != tt.topic {
				t.Errorf("Topic = %q, want %q", tt.event.Topic, tt.topic)
			}
			if tt.event.EventID == "" || tt.event.SchemaVersion != SchemaVersion {
				t.Errorf("event = %+v, want id and schema version", tt.event)
			}
			if err := tt.event.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event ActivityEvent
	}{
		{"no id", ActivityEvent{Topic: TopicAvatarChanged, AuthorID: "a", Avatar: "olaf"}},
		{"no author", ActivityEvent{EventID: "1", Topic: TopicAvatarChanged, Avatar: "olaf"}},
		{"rating missing", ActivityEvent{EventID: "1", Topic: TopicRatingRecorded, AuthorID: "a"}},
		{"avatar missing", ActivityEvent{EventID: "1", Topic: TopicAvatarChanged, AuthorID: "a"}},
		{"friend missing", ActivityEvent{EventID: "1", Topic: TopicFriendAdded, AuthorID: "a"}},
		{"removed friend missing", ActivityEvent{EventID: "1", Topic: TopicFriendRemoved, AuthorID: "a"}},
		{"unknown topic", ActivityEvent{EventID: "1", Topic: "activity.other", AuthorID: "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.event.Validate(); !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("Validate() error = %v, want ErrInvalidEvent", err)
			}
		})
	}
}

func TestSerializeDeserialize(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in := NewRatingRecorded("alice", models.RatingEntry{
		MovieID: "1399", MovieTitle: "Game of Thrones", Rating: 4,
		UserName: "Alice", AvatarName: "olaf", Timestamp: ts,
	})

	data, err := Serialize(in)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	out, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	if out.EventID != in.EventID || out.AuthorID != "alice" || out.Rating == nil {
		t.Fatalf("Deserialize() = %+v", out)
	}
	if *out.Rating != *in.Rating {
		t.Errorf("Rating = %+v, want %+v", *out.Rating, *in.Rating)
	}
}

func TestDeserializeRejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := Deserialize([]byte("{not json")); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("Deserialize(garbage) error = %v, want ErrInvalidEvent", err)
	}
	if _, err := Deserialize([]byte(`{"event_id":"1","topic":"activity.friend_added","author_id":"a"}`)); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("Deserialize(incomplete) error = %v, want ErrInvalidEvent", err)
	}
	if _, err := Serialize(nil); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("Serialize(nil) error = %v, want ErrInvalidEvent", err)
	}
}

func TestTypeAndDurableName(t *testing.T) {
	t.Parallel()

	if got := NewFriendAdded("a", "b").Type(); got != "friend_added" {
		t.Errorf("Type() = %q, want friend_added", got)
	}
	tests := []struct {
		prefix, topic, want string
	}{
		{"reeltrack", TopicRatingRecorded, "reeltrack_rating_recorded"},
		{"", TopicAvatarChanged, "avatar_changed"},
		{"rt", "activity.a.b", "rt_a_b"},
	}
	for _, tt := range tests {
		if got := DurableName(tt.prefix, tt.topic); got != tt.want {
			t.Errorf("DurableName(%q, %q) = %q, want %q", tt.prefix, tt.topic, got, tt.want)
		}
	}
}

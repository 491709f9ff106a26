// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/reeltrack/internal/docstore"
	"github.com/tomtom215/reeltrack/internal/models"
)

func TestRegisterAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(docstore.NewMemory())

	if err := s.Register(ctx, "u1", Input{Username: "neo", Avatar: "luffy"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	info, err := s.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if info.UserID != "u1" || info.Username != "neo" || info.ProfilePicture != "luffy" {
		t.Errorf("Get() = %+v", info)
	}
	if info.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	if _, err := s.Get(ctx, "u2"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("Get(absent) error = %v, want ErrNotFound", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	s := New(docstore.NewMemory())

	tests := []struct {
		name string
		in   Input
	}{
		{"empty username", Input{Username: "", Avatar: "luffy"}},
		{"unknown avatar", Input{Username: "neo", Avatar: "batman"}},
	}
	for _, tt := range tests {
		if err := s.Register(context.Background(), "u1", tt.in); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: Register() error = %v, want ErrInvalid", tt.name, err)
		}
	}
}

func TestUpsert(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(docstore.NewMemory())

	changed, err := s.Upsert(ctx, "u1", Input{Username: "neo"})
	if err != nil {
		t.Fatalf("Upsert() create error = %v", err)
	}
	if changed {
		t.Error("Upsert() create reported avatar change")
	}
	info, _ := s.Get(ctx, "u1")
	if info.ProfilePicture != models.DefaultAvatar {
		t.Errorf("ProfilePicture = %q, want default", info.ProfilePicture)
	}

	changed, err = s.Upsert(ctx, "u1", Input{Username: "thomas", Avatar: "default"})
	if err != nil || changed {
		t.Errorf("Upsert() same avatar = %v, %v, want false, nil", changed, err)
	}

	changed, err = s.Upsert(ctx, "u1", Input{Username: "thomas", Avatar: "mario"})
	if err != nil || !changed {
		t.Errorf("Upsert() new avatar = %v, %v, want true, nil", changed, err)
	}
	info, _ = s.Get(ctx, "u1")
	if info.Username != "thomas" || info.ProfilePicture != "mario" || info.UserID != "u1" {
		t.Errorf("after Upsert() = %+v", info)
	}

	changed, err = s.Upsert(ctx, "u1", Input{Username: "mr-anderson"})
	if err != nil || changed {
		t.Errorf("Upsert() without avatar = %v, %v, want false, nil", changed, err)
	}
	info, _ = s.Get(ctx, "u1")
	if info.Username != "mr-anderson" || info.ProfilePicture != "mario" {
		t.Errorf("after Upsert() without avatar = %+v, want avatar mario kept", info)
	}
}

func TestUpdateProfilePictureStrict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(docstore.NewMemory())

	if _, err := s.UpdateProfilePicture(ctx, "u1", "olaf"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("UpdateProfilePicture(absent) error = %v, want ErrNotFound", err)
	}
	if _, err := s.Get(ctx, "u1"); !errors.Is(err, docstore.ErrNotFound) {
		t.Error("UpdateProfilePicture() created a profile")
	}

	_ = s.Register(ctx, "u1", Input{Username: "neo", Avatar: "luffy"})
	changed, err := s.UpdateProfilePicture(ctx, "u1", "olaf")
	if err != nil || !changed {
		t.Fatalf("UpdateProfilePicture() = %v, %v, want true, nil", changed, err)
	}
	info, _ := s.Get(ctx, "u1")
	if info.ProfilePicture != "olaf" || info.Username != "neo" {
		t.Errorf("after UpdateProfilePicture() = %+v", info)
	}

	if _, err := s.UpdateProfilePicture(ctx, "u1", "batman"); !errors.Is(err, ErrInvalid) {
		t.Errorf("UpdateProfilePicture(unknown) error = %v, want ErrInvalid", err)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(docstore.NewMemory())

	for id, name := range map[string]string{"u1": "neo", "u2": "nemo", "u3": "morpheus", "u4": "Nero"} {
		_ = s.Register(ctx, id, Input{Username: name})
	}

	tests := []struct {
		name    string
		prefix  string
		exclude string
		want    []string
	}{
		{"prefix", "ne", "", []string{"nemo", "neo"}},
		{"excludes caller", "ne", "u1", []string{"nemo"}},
		{"case sensitive", "Ne", "", []string{"Nero"}},
		{"no match", "trin", "", []string{}},
		{"blank", "   ", "", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Search(ctx, tt.prefix, tt.exclude)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			names := make([]string, len(got))
			for i, u := range got {
				names[i] = u.Username
			}
			if len(names) != len(tt.want) {
				t.Fatalf("Search() = %v, want %v", names, tt.want)
			}
			for i := range names {
				if names[i] != tt.want[i] {
					t.Errorf("Search()[%d] = %q, want %q", i, names[i], tt.want[i])
				}
			}
		})
	}
}

func TestSearchBlankSkipsStore(t *testing.T) {
	t.Parallel()
	db := docstore.NewMemory()
	db.FailWhen(func(docstore.Op, docstore.DocRef) error { return errors.New("store touched") })

	got, err := New(db).Search(context.Background(), "", "u1")
	if err != nil || len(got) != 0 {
		t.Errorf("Search(\"\") = %v, %v, want empty, nil", got, err)
	}
}

func TestIdentity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := New(docstore.NewMemory())

	id, err := s.Identity(ctx, "u1", "neo@example.com", "Thomas")
	if err != nil {
		t.Fatalf("Identity() error = %v", err)
	}
	want := models.Identity{ID: "u1", DisplayName: "Thomas", Email: "neo@example.com", AvatarIdentifier: models.DefaultAvatar}
	if id != want {
		t.Errorf("Identity() without profile = %+v, want %+v", id, want)
	}

	_ = s.Register(ctx, "u1", Input{Username: "neo", Avatar: "walle"})
	id, _ = s.Identity(ctx, "u1", "neo@example.com", "Thomas")
	if id.DisplayName != "neo" || id.AvatarIdentifier != "walle" {
		t.Errorf("Identity() with profile = %+v", id)
	}
}

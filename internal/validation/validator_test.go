// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/reeltrack/internal/models"
)

func TestValidateStructValid(t *testing.T) {
	t.Parallel()

	entry := models.FinishedEntry{MovieID: "603", MovieTitle: "The Matrix", Rating: 5}
	if err := ValidateStruct(&entry); err != nil {
		t.Errorf("ValidateStruct() = %v, want nil", err)
	}
}

func TestValidateStructMessagesUseJSONNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input interface{}
		field string
		msg   string
	}{
		{
			name:  "rating above five",
			input: &models.FinishedEntry{MovieID: "1", MovieTitle: "x", Rating: 6},
			field: "rating",
			msg:   "rating must be less than or equal to 5",
		},
		{
			name:  "missing id",
			input: &models.WatchlistEntry{MovieTitle: "x"},
			field: "movieId",
			msg:   "movieId is required",
		},
		{
			name:  "season below one",
			input: &models.SeriesProgress{SeasonsProgress: 0},
			field: "seasonsProgress",
			msg:   "seasonsProgress must be greater than or equal to 1",
		},
		{
			name:  "unknown avatar",
			input: &models.RatingInput{ContentID: "1", Title: "x", Rating: 3, AvatarName: "batman"},
			field: "avatarName",
			msg:   "avatarName must be a known avatar",
		},
		{
			name:  "bad poster url",
			input: &models.WatchlistEntry{MovieID: "1", MovieTitle: "x", PosterURL: "not a url"},
			field: "posterUrl",
			msg:   "posterUrl must be a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			got := err.Errors()
			if len(got) != 1 {
				t.Fatalf("len(Errors()) = %d, want 1: %v", len(got), err)
			}
			if got[0].Field != tt.field {
				t.Errorf("Field = %q, want %q", got[0].Field, tt.field)
			}
			if got[0].Message != tt.msg {
				t.Errorf("Message = %q, want %q", got[0].Message, tt.msg)
			}
		})
	}
}

func TestRequestValidationErrorJoinsMessages(t *testing.T) {
	t.Parallel()

	err := ValidateStruct(&models.WatchlistEntry{LengthMinutes: -1})
	if err == nil {
		t.Fatal("ValidateStruct() = nil, want error")
	}
	if n := len(err.Errors()); n != 3 {
		t.Errorf("len(Errors()) = %d, want 3", n)
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Errorf("Error() = %q, want joined messages", err.Error())
	}
	fields, ok := err.Details()["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Errorf("Details() = %v", err.Details())
	}
}

func TestMediaKindTag(t *testing.T) {
	t.Parallel()

	type req struct {
		Kind string `json:"kind" validate:"mediakind"`
	}
	if err := ValidateStruct(&req{Kind: "tv"}); err != nil {
		t.Errorf("tv: %v", err)
	}
	if err := ValidateStruct(&req{Kind: "person"}); err == nil {
		t.Error("person: want error")
	}
}

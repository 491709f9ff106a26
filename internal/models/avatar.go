// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package models

import "slices"

// DefaultAvatar is used when a profile has no avatar or an unknown one.
const DefaultAvatar = "default"

// Avatars is the fixed set of avatar names the clients ship images for.
var Avatars = []string{
	DefaultAvatar,
	"luffy",
	"ironman",
	"starwars",
	"spiderman",
	"mario",
	"aang",
	"mickey",
	"minion",
	"olaf",
	"walle",
	"pirate",
}

// IsAvatar reports whether name is a known avatar.
func IsAvatar(name string) bool {
	return slices.Contains(Avatars, name)
}

// ResolveAvatar maps unknown or empty names to DefaultAvatar.
func ResolveAvatar(name string) string {
	if IsAvatar(name) {
		return name
	}
	return DefaultAvatar
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

// Package friends stores one-directional friend links at
// users/{userId}/friends/{friendId}.
//
// The store does not keep links symmetric. Befriend and Unfriend write both
// directions as two independent operations.
package friends

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/reeltrack/internal/docstore"
	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/metrics"
	"github.com/tomtom215/reeltrack/internal/models"
)

// CollectionFriends is the friend link collection under users/{userId}/.
const CollectionFriends = "friends"

// ErrInvalid is returned for empty ids and self links.
var ErrInvalid = errors.New("invalid friend link")

// Notifier is told about added and removed links.
type Notifier interface {
	FriendAdded(ctx context.Context, userID, friendID string)
	FriendRemoved(ctx context.Context, userID, friendID string)
}

// Graph is the friend link store.
type Graph struct {
	db     docstore.Store
	notify Notifier
}

// New returns a Graph on db. notify may be nil.
func New(db docstore.Store, notify Notifier) *Graph {
	return &Graph{db: db, notify: notify}
}

func (g *Graph) ref(userID, friendID string) docstore.DocRef {
	return docstore.UserCollection(userID, CollectionFriends).Doc(friendID)
}

// Add creates the link userID -> friendID. The reverse link is not touched.
func (g *Graph) Add(ctx context.Context, userID, friendID string) error {
	if userID == "" || friendID == "" {
		return fmt.Errorf("%w: empty user id", ErrInvalid)
	}
	if userID == friendID {
		return fmt.Errorf("%w: cannot befriend yourself", ErrInvalid)
	}
	err := g.db.Set(ctx, g.ref(userID, friendID), docstore.Fields{
		"userId":    friendID,
		"timestamp": docstore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("add friend %s: %w", friendID, err)
	}
	if g.notify != nil {
		g.notify.FriendAdded(ctx, userID, friendID)
	}
	return nil
}

// List returns the outgoing links of userID, unordered.
func (g *Graph) List(ctx context.Context, userID string) ([]models.FriendLink, error) {
	docs, err := g.db.GetAll(ctx, docstore.UserCollection(userID, CollectionFriends))
	if err != nil {
		return nil, fmt.Errorf("list friends of %s: %w", userID, err)
	}
	links, err := docstore.DecodeAll[models.FriendLink](docs)
	if err != nil {
		return nil, fmt.Errorf("list friends of %s: %w", userID, err)
	}
	return links, nil
}

// Remove deletes the link userID -> friendID. Absent links are not an error.
func (g *Graph) Remove(ctx context.Context, userID, friendID string) error {
	if err := g.db.Delete(ctx, g.ref(userID, friendID)); err != nil {
		return fmt.Errorf("remove friend %s: %w", friendID, err)
	}
	if g.notify != nil {
		g.notify.FriendRemoved(ctx, userID, friendID)
	}
	return nil
}

// Check reports whether the link userID -> friendID exists.
func (g *Graph) Check(ctx context.Context, userID, friendID string) (bool, error) {
	_, err := g.db.Get(ctx, g.ref(userID, friendID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, docstore.ErrNotFound):
		return false, nil
	default:
		return false, fmt.Errorf("check friend %s: %w", friendID, err)
	}
}

// Befriend links a and b in both directions. The second write is attempted
// even if the first fails; nothing is undone.
func (g *Graph) Befriend(ctx context.Context, a, b string) error {
	return g.both(ctx, "befriend", a, b, g.Add)
}

// Unfriend removes both directions, best effort.
func (g *Graph) Unfriend(ctx context.Context, a, b string) error {
	return g.both(ctx, "unfriend", a, b, g.Remove)
}

func (g *Graph) both(ctx context.Context, flow, a, b string, op func(context.Context, string, string) error) error {
	if a == b {
		return fmt.Errorf("%w: cannot %s yourself", ErrInvalid, flow)
	}
	forward := op(ctx, a, b)
	metrics.RecordFlowStep(flow, "forward", forward)
	reverse := op(ctx, b, a)
	metrics.RecordFlowStep(flow, "reverse", reverse)

	if err := errors.Join(forward, reverse); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Str("flow", flow).
			Str("user_id", a).
			Str("friend_id", b).
			Msg("Friend link left asymmetric")
		return err
	}
	return nil
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

// Package ledger keeps the friend-visible rating snapshots of each user.
//
// There is one entry per (user, content id) at users/{userId}/ratings/{id}.
// Rating a title again overwrites the entry and refreshes its timestamp.
// Entries carry the author's display name and avatar at rating time; an
// avatar change is propagated to old entries by FanOutAvatarChange.
//
// Friends read the ledger through FeedFor, which concatenates the ledgers of
// a list of friends and orders the result newest first.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/reeltrack/internal/docstore"
	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/metrics"
	"github.com/tomtom215/reeltrack/internal/models"
	"github.com/tomtom215/reeltrack/internal/validation"
)

// CollectionRatings is the ledger collection under users/{userId}/.
const CollectionRatings = "ratings"

// DefaultFanOutConcurrency bounds concurrent writes in FanOutAvatarChange.
const DefaultFanOutConcurrency = 8

// ErrInvalid is returned for ratings outside 1..5 or malformed input.
var ErrInvalid = errors.New("invalid rating")

// Notifier is told about ledger changes after they are written. Calls must
// not block for long; the events package implements it.
type Notifier interface {
	RatingRecorded(ctx context.Context, authorID string, entry models.RatingEntry)
	AvatarChanged(ctx context.Context, userID, avatar string)
}

// FriendLister lists the outgoing friend links of a user.
type FriendLister interface {
	List(ctx context.Context, userID string) ([]models.FriendLink, error)
}

// Ledger is the rating ledger store.
type Ledger struct {
	db          docstore.Store
	friends     FriendLister
	notify      Notifier
	concurrency int
	now         func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithNotifier sets the change notifier.
func WithNotifier(n Notifier) Option {
	return func(l *Ledger) { l.notify = n }
}

// WithFriends sets the friend lister used by FeedForViewer.
func WithFriends(f FriendLister) Option {
	return func(l *Ledger) { l.friends = f }
}

// WithFanOutConcurrency bounds concurrent fan-out writes. Values below 1
// keep the default.
func WithFanOutConcurrency(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithClock sets the clock stamped on published events.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New returns a Ledger on db.
func New(db docstore.Store, opts ...Option) *Ledger {
	l := &Ledger{
		db:          db,
		concurrency: DefaultFanOutConcurrency,
		now:         time.Now,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *Ledger) collection(userID string) docstore.CollectionRef {
	return docstore.UserCollection(userID, CollectionRatings)
}

// RecordRating upserts the ledger entry for in.ContentID. Fields of an
// existing entry that in does not name are kept; timestamp is refreshed.
func (l *Ledger) RecordRating(ctx context.Context, userID string, in models.RatingInput) error {
	if verr := validation.ValidateStruct(in); verr != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, verr)
	}
	avatar := avatarOrDefault(in.AvatarName)

	ref := l.collection(userID).Doc(in.ContentID)
	err := l.db.SetMerge(ctx, ref, docstore.Fields{
		"movieId":    in.ContentID,
		"movieTitle": in.Title,
		"rating":     in.Rating,
		"userName":   in.UserName,
		"avatarName": avatar,
		"timestamp":  docstore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("record rating %s: %w", in.ContentID, err)
	}

	if l.notify != nil {
		l.notify.RatingRecorded(ctx, userID, models.RatingEntry{
			MovieID:    in.ContentID,
			MovieTitle: in.Title,
			Rating:     in.Rating,
			UserName:   in.UserName,
			AvatarName: avatar,
			Timestamp:  l.now(),
		})
	}
	return nil
}

// Get returns one ledger entry or docstore.ErrNotFound.
func (l *Ledger) Get(ctx context.Context, userID, contentID string) (models.RatingEntry, error) {
	doc, err := l.db.Get(ctx, l.collection(userID).Doc(contentID))
	if err != nil {
		return models.RatingEntry{}, fmt.Errorf("get rating %s: %w", contentID, err)
	}
	return docstore.Decode[models.RatingEntry](doc)
}

// List returns every entry of the user's ledger, unordered.
func (l *Ledger) List(ctx context.Context, userID string) ([]models.RatingEntry, error) {
	docs, err := l.db.GetAll(ctx, l.collection(userID))
	if err != nil {
		return nil, fmt.Errorf("list ratings of %s: %w", userID, err)
	}
	return docstore.DecodeAll[models.RatingEntry](docs)
}

// UpdateRating merges a new rating into an entry and refreshes its timestamp.
func (l *Ledger) UpdateRating(ctx context.Context, userID, contentID string, rating int) error {
	if rating < 1 || rating > 5 {
		return fmt.Errorf("%w: %d not in 1..5", ErrInvalid, rating)
	}
	err := l.db.SetMerge(ctx, l.collection(userID).Doc(contentID), docstore.Fields{
		"rating":    rating,
		"timestamp": docstore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("update rating %s: %w", contentID, err)
	}
	return nil
}

// Delete removes an entry. Deleting an absent entry is not an error.
func (l *Ledger) Delete(ctx context.Context, userID, contentID string) error {
	if err := l.db.Delete(ctx, l.collection(userID).Doc(contentID)); err != nil {
		return fmt.Errorf("delete rating %s: %w", contentID, err)
	}
	return nil
}

// FanOutResult lists the entries a fan-out did and did not rewrite.
type FanOutResult struct {
	Updated []string `json:"updated"`
	Failed  []string `json:"failed"`
}

// FanOutAvatarChange rewrites avatarName on every ledger entry of userID.
// The name is stored as given; only an empty name becomes the default.
//
// Writes run concurrently and independently. A failed write does not stop or
// undo the others: the result lists both sides and the returned error joins
// every failure.
func (l *Ledger) FanOutAvatarChange(ctx context.Context, userID, avatar string) (FanOutResult, error) {
	var res FanOutResult
	avatar = avatarOrDefault(avatar)

	docs, err := l.db.GetAll(ctx, l.collection(userID))
	if err != nil {
		return res, fmt.Errorf("fan-out avatar for %s: %w", userID, err)
	}

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	g.SetLimit(l.concurrency)

	for _, d := range docs {
		id := d.ID
		g.Go(func() error {
			werr := l.db.SetMerge(ctx, l.collection(userID).Doc(id), docstore.Fields{"avatarName": avatar})
			mu.Lock()
			defer mu.Unlock()
			if werr != nil {
				res.Failed = append(res.Failed, id)
				errs = append(errs, fmt.Errorf("entry %s: %w", id, werr))
				return nil
			}
			res.Updated = append(res.Updated, id)
			return nil
		})
	}
	_ = g.Wait()

	sort.Strings(res.Updated)
	sort.Strings(res.Failed)
	metrics.RecordFanOut(len(res.Updated), len(res.Failed))

	log := logging.Ctx(ctx)
	if len(errs) > 0 {
		log.Warn().
			Str("user_id", userID).
			Int("updated", len(res.Updated)).
			Int("failed", len(res.Failed)).
			Msg("Avatar fan-out partially failed")
	} else {
		log.Debug().Str("user_id", userID).Int("updated", len(res.Updated)).Msg("Avatar fan-out complete")
	}

	if l.notify != nil && len(res.Updated) > 0 {
		l.notify.AvatarChanged(ctx, userID, avatar)
	}
	return res, errors.Join(errs...)
}

// avatarOrDefault keeps avatar names opaque. Unknown names are resolved when
// they are displayed, not when they are stored.
func avatarOrDefault(name string) string {
	if name == "" {
		return models.DefaultAvatar
	}
	return name
}

// FeedFor reads the ledger of every friend in order and returns all entries
// sorted by timestamp, newest first. Entries with equal timestamps keep the
// order of friendIDs. The first read error aborts the feed.
func (l *Ledger) FeedFor(ctx context.Context, friendIDs []string) ([]models.FeedItem, error) {
	metrics.FeedFriends.Observe(float64(len(friendIDs)))
	feed := make([]models.FeedItem, 0)
	for _, fid := range friendIDs {
		entries, err := l.List(ctx, fid)
		if err != nil {
			return nil, fmt.Errorf("feed: %w", err)
		}
		// Backend order is undefined; ties must still be reproducible.
		sort.Slice(entries, func(i, j int) bool { return entries[i].MovieID < entries[j].MovieID })
		for _, e := range entries {
			feed = append(feed, models.FeedItem{AuthorID: fid, RatingEntry: e})
		}
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})
	return feed, nil
}

// FeedForViewer builds the feed from the viewer's own friend links.
func (l *Ledger) FeedForViewer(ctx context.Context, viewerID string) ([]models.FeedItem, error) {
	if l.friends == nil {
		return nil, errors.New("ledger: no friend lister configured")
	}
	links, err := l.friends.List(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("feed friends of %s: %w", viewerID, err)
	}
	ids := make([]string, len(links))
	for i, fl := range links {
		ids[i] = fl.UserID
	}
	sort.Strings(ids)
	return l.FeedFor(ctx, ids)
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/reeltrack/internal/breaker"
	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/metrics"
	"github.com/tomtom215/reeltrack/internal/models"
)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("publisher is closed")

// Publisher sends activity events through a circuit breaker. Its notifier
// methods never return errors: activity is a side channel and must not fail
// the store write that produced it.
type Publisher struct {
	pub     message.Publisher
	breaker *breaker.Breaker[struct{}]

	mu     sync.RWMutex
	closed bool
}

// PublisherBreakerSettings are the breaker defaults for event publishing.
// The breaker opens quickly so a dead broker costs little per write.
func PublisherBreakerSettings() breaker.Settings {
	return breaker.Settings{
		Name:         "events-publisher",
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.5,
	}
}

// NewPublisher wraps pub.
func NewPublisher(pub message.Publisher, s breaker.Settings) *Publisher {
	return &Publisher{pub: pub, breaker: breaker.New[struct{}](s)}
}

// Publish validates and sends e on its topic.
func (p *Publisher) Publish(ctx context.Context, e *ActivityEvent) error {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return ErrPublisherClosed
	}

	if err := e.Validate(); err != nil {
		return err
	}
	data, err := Serialize(e)
	if err != nil {
		return fmt.Errorf("serialize event: %w", err)
	}

	msg := message.NewMessage(e.EventID, data)
	msg.Metadata.Set("author_id", e.AuthorID)
	msg.Metadata.Set("type", e.Type())
	msg.Metadata.Set(natsgo.MsgIdHdr, e.EventID)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set("request_id", id)
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.pub.Publish(e.Topic, msg)
	})
	metrics.RecordEventPublished(e.Topic, err)
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Topic, err)
	}
	return nil
}

// RatingRecorded publishes a rating_recorded event.
func (p *Publisher) RatingRecorded(ctx context.Context, authorID string, entry models.RatingEntry) {
	p.emit(ctx, NewRatingRecorded(authorID, entry))
}

// AvatarChanged publishes an avatar_changed event.
func (p *Publisher) AvatarChanged(ctx context.Context, userID, avatar string) {
	p.emit(ctx, NewAvatarChanged(userID, avatar))
}

// FriendAdded publishes a friend_added event.
func (p *Publisher) FriendAdded(ctx context.Context, userID, friendID string) {
	p.emit(ctx, NewFriendAdded(userID, friendID))
}

// FriendRemoved publishes a friend_removed event.
func (p *Publisher) FriendRemoved(ctx context.Context, userID, friendID string) {
	p.emit(ctx, NewFriendRemoved(userID, friendID))
}

func (p *Publisher) emit(ctx context.Context, e *ActivityEvent) {
	if err := p.Publish(ctx, e); err != nil {
		logging.Ctx(ctx).Warn().
			Err(err).
			Str("topic", e.Topic).
			Str("author_id", logging.SanitizeUserID(e.AuthorID)).
			Msg("Activity event not published")
	}
}

// BreakerState returns the publish breaker state.
func (p *Publisher) BreakerState() string {
	return p.breaker.State()
}

// Close stops further publishing. The underlying publisher belongs to the
// Bus and stays open.
func (p *Publisher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Stream settings for the activity topics. Activity is only useful while
// fresh, so the stream keeps a day of history.
const (
	StreamName     = "ACTIVITY"
	StreamSubjects = "activity.>"

	streamMaxAge          = 24 * time.Hour
	streamDuplicateWindow = 2 * time.Minute
)

// JetStreamContext is the part of jetstream.JetStream used to manage the
// stream.
type JetStreamContext interface {
	Stream(ctx context.Context, name string) (jetstream.Stream, error)
	CreateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
	UpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// streamConfig is the desired ACTIVITY stream. Subjects contain dots, which
// stream names may not, so the stream is created here instead of being
// auto-provisioned per topic.
func streamConfig() jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   []string{StreamSubjects},
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     streamMaxAge,
		Duplicates: streamDuplicateWindow,
		Storage:    jetstream.FileStorage,
		Discard:    jetstream.DiscardOld,
	}
}

// EnsureStream creates the activity stream or updates it in place. It is
// idempotent.
func EnsureStream(ctx context.Context, js JetStreamContext) error {
	cfg := streamConfig()

	_, err := js.Stream(ctx, cfg.Name)
	switch {
	case err == nil:
		if _, err := js.UpdateStream(ctx, cfg); err != nil {
			return fmt.Errorf("update stream %s: %w", cfg.Name, err)
		}
		return nil
	case errors.Is(err, jetstream.ErrStreamNotFound):
		if _, err := js.CreateStream(ctx, cfg); err != nil {
			return fmt.Errorf("create stream %s: %w", cfg.Name, err)
		}
		return nil
	default:
		return fmt.Errorf("check stream %s: %w", cfg.Name, err)
	}
}

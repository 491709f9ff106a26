// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package docstore

import (
	"context"
	"fmt"

	"github.com/tomtom215/reeltrack/internal/config"
	"github.com/tomtom215/reeltrack/internal/logging"
)

// Open builds the configured backend wrapped in Instrumented.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	var (
		store Store
		err   error
	)
	switch cfg.Backend {
	case "memory":
		store = NewMemory()
	case "badger":
		store, err = OpenBadger(BadgerOptions{Path: cfg.BadgerPath, InMemory: cfg.BadgerInMemory})
	case "firestore":
		store, err = OpenFirestore(ctx, FirestoreOptions{
			ProjectID:       cfg.FirestoreProject,
			CredentialsFile: cfg.CredentialsFile,
		})
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	logging.Info().Str("backend", cfg.Backend).Msg("document store opened")
	return NewInstrumentedWithTimeout(store, cfg.OpTimeout), nil
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

// Package testinfra starts real backing services in Docker for integration
// tests through testcontainers-go.
//
//   - NATSContainer: a JetStream-enabled nats-server for the external
//     events transport.
//   - FirestoreEmulator: the Cloud Firestore emulator for the firestore
//     document store backend.
//
// Everything here is behind the integration build tag:
//
//	go test -tags integration ./internal/testinfra/...
//
// Tests call SkipIfNoDocker first so they skip cleanly on machines without
// a Docker daemon.
package testinfra

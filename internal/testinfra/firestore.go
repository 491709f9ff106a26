// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultFirestoreEmulatorImage ships the gcloud CLI with its emulators.
	DefaultFirestoreEmulatorImage = "gcr.io/google.com/cloudsdktool/google-cloud-cli:emulators"

	// EmulatorProjectID is accepted by the emulator without credentials.
	EmulatorProjectID = "reeltrack-test"

	firestorePort = "8080/tcp"
)

// FirestoreEmulator is a running Cloud Firestore emulator.
type FirestoreEmulator struct {
	testcontainers.Container
	// Host is host:port; export it as FIRESTORE_EMULATOR_HOST so the
	// firestore client connects to the emulator.
	Host string
}

// NewFirestoreEmulator starts the emulator and waits until it serves requests.
func NewFirestoreEmulator(ctx context.Context) (*FirestoreEmulator, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultFirestoreEmulatorImage,
		ExposedPorts: []string{firestorePort},
		Cmd: []string{
			"gcloud", "emulators", "firestore", "start",
			"--host-port=0.0.0.0:8080",
			"--project=" + EmulatorProjectID,
		},
		WaitingFor: wait.ForLog("Dev App Server is now running").WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create firestore emulator: %w", err)
	}

	host, err := container.PortEndpoint(ctx, firestorePort, "")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("firestore emulator endpoint: %w", err)
	}

	return &FirestoreEmulator{Container: container, Host: host}, nil
}

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
	// DefaultNATSImage matches the nats-server major version the embedded
	// server is built from.
	DefaultNATSImage = "nats:2.12-alpine"

	natsClientPort  = "4222/tcp"
	natsMonitorPort = "8222/tcp"
)

// NATSContainer is a running JetStream-enabled NATS server.
type NATSContainer struct {
	testcontainers.Container
	// URL is the nats:// client URL reachable from the test process.
	URL string
}

// NATSOption configures the NATS container.
type NATSOption func(*natsConfig)

type natsConfig struct {
	image        string
	startTimeout time.Duration
}

// WithNATSImage sets a custom NATS Docker image.
func WithNATSImage(image string) NATSOption {
	return func(c *natsConfig) {
		c.image = image
	}
}

// WithNATSStartTimeout sets how long to wait for the server to accept clients.
func WithNATSStartTimeout(timeout time.Duration) NATSOption {
	return func(c *natsConfig) {
		c.startTimeout = timeout
	}
}

// NewNATSContainer starts nats-server with JetStream enabled.
func NewNATSContainer(ctx context.Context, opts ...NATSOption) (*NATSContainer, error) {
	cfg := &natsConfig{
		image:        DefaultNATSImage,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{natsClientPort, natsMonitorPort},
		Cmd:          []string{"-js", "-m", "8222"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(natsClientPort),
			wait.ForHTTP("/healthz?js-enabled-only=true").WithPort(natsMonitorPort),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create nats container: %w", err)
	}

	endpoint, err := container.PortEndpoint(ctx, natsClientPort, "nats")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("nats endpoint: %w", err)
	}

	return &NATSContainer{Container: container, URL: endpoint}, nil
}

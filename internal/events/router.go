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

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/metrics"
)

// Sink receives consumed activity events.
type Sink interface {
	Deliver(ctx context.Context, e *ActivityEvent)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e *ActivityEvent)

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, e *ActivityEvent) { f(ctx, e) }

// RouterConfig holds Watermill router settings.
type RouterConfig struct {
	// CloseTimeout is how long handlers get to finish on shutdown.
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
}

// DefaultRouterConfig returns production defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
		RetryMultiplier:      2.0,
	}
}

// Router forwards every activity topic to a Sink. It implements
// suture.Service: each Serve call builds a fresh Watermill router, since a
// closed router cannot be run again.
type Router struct {
	config RouterConfig
	bus    *Bus
	sink   Sink
	logger watermill.LoggerAdapter

	ready     chan struct{}
	readyOnce sync.Once
}

// NewRouter returns a Router consuming from bus.
func NewRouter(cfg RouterConfig, bus *Bus, sink Sink) (*Router, error) {
	if bus == nil {
		return nil, errors.New("events bus is required")
	}
	if sink == nil {
		return nil, errors.New("events sink is required")
	}
	if cfg.CloseTimeout <= 0 {
		cfg = DefaultRouterConfig()
	}
	return &Router{
		config: cfg,
		bus:    bus,
		sink:   sink,
		logger: bus.logger,
		ready:  make(chan struct{}),
	}, nil
}

// Ready is closed once the first router is consuming.
func (r *Router) Ready() <-chan struct{} {
	return r.ready
}

func (r *Router) build() (*message.Router, error) {
	mr, err := message.NewRouter(message.RouterConfig{CloseTimeout: r.config.CloseTimeout}, r.logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	mr.AddMiddleware(middleware.Recoverer)
	mr.AddMiddleware(middleware.Retry{
		MaxRetries:      r.config.RetryMaxRetries,
		InitialInterval: r.config.RetryInitialInterval,
		MaxInterval:     r.config.RetryMaxInterval,
		Multiplier:      r.config.RetryMultiplier,
		Logger:          r.logger,
	}.Middleware)

	for _, topic := range Topics {
		sub, err := r.bus.Subscriber(topic)
		if err != nil {
			return nil, err
		}
		mr.AddConsumerHandler("forward_"+DurableName("", topic), topic, sub, r.forward)
	}
	return mr, nil
}

// forward decodes one message and hands it to the sink. Malformed payloads
// are acked and dropped; retrying them cannot help.
func (r *Router) forward(msg *message.Message) error {
	e, err := Deserialize(msg.Payload)
	if err != nil {
		logging.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed activity event")
		return nil
	}
	metrics.EventsConsumed.WithLabelValues(e.Topic).Inc()

	ctx := msg.Context()
	if id := msg.Metadata.Get("request_id"); id != "" {
		ctx = logging.ContextWithRequestID(ctx, id)
	}
	r.sink.Deliver(ctx, e)
	return nil
}

// Serve runs the router until ctx is canceled.
func (r *Router) Serve(ctx context.Context) error {
	mr, err := r.build()
	if err != nil {
		return err
	}

	go func() {
		select {
		case <-mr.Running():
			r.readyOnce.Do(func() { close(r.ready) })
		case <-ctx.Done():
		}
	}()

	if err := mr.Run(ctx); err != nil {
		return fmt.Errorf("events router: %w", err)
	}
	return ctx.Err()
}

// String names the service in supervisor logs.
func (r *Router) String() string {
	return "events-router"
}

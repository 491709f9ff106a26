// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/reeltrack/internal/config"
	"github.com/tomtom215/reeltrack/internal/logging"
)

// Transport names.
const (
	TransportMemory = "memory"
	TransportNATS   = "nats"
)

// Bus owns the publisher and subscribers of one transport.
type Bus struct {
	transport string
	logger    watermill.LoggerAdapter
	publisher message.Publisher
	subscribe func(topic string) (message.Subscriber, error)

	mu      sync.Mutex
	closers []func() error
	closed  bool

	nc     *natsgo.Conn
	js     jetstream.JetStream
	server *EmbeddedServer
}

// NewMemoryBus returns an in-process bus. Events published while no router
// is subscribed are dropped.
func NewMemoryBus(logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 256,
	}, logger)

	b := &Bus{
		transport: TransportMemory,
		logger:    logger,
		publisher: ch,
		subscribe: func(string) (message.Subscriber, error) { return ch, nil },
	}
	b.closers = append(b.closers, ch.Close)
	return b
}

// Open builds the bus for cfg.Transport.
func Open(ctx context.Context, cfg config.EventsConfig) (*Bus, error) {
	logger := watermill.NewSlogLogger(logging.NewSlogLoggerForComponent("events"))

	switch cfg.Transport {
	case "", TransportMemory:
		return NewMemoryBus(logger), nil
	case TransportNATS:
		return openNATS(ctx, cfg.NATS, logger)
	default:
		return nil, fmt.Errorf("unknown events transport %q", cfg.Transport)
	}
}

func openNATS(ctx context.Context, cfg config.NATSConfig, logger watermill.LoggerAdapter) (_ *Bus, err error) {
	b := &Bus{transport: TransportNATS, logger: logger}
	defer func() {
		if err != nil {
			_ = b.Close()
		}
	}()

	url := cfg.URL
	if cfg.EmbeddedServer {
		b.server, err = NewEmbeddedServer(ServerConfig{Port: cfg.Port, StoreDir: cfg.StoreDir})
		if err != nil {
			return nil, fmt.Errorf("start embedded NATS: %w", err)
		}
		b.closers = append(b.closers, func() error {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return b.server.Shutdown(shutdownCtx)
		})
		url = b.server.ClientURL()
		logging.Info().Str("url", url).Msg("Embedded NATS server started")
	}

	natsOpts := connectOptions(logger)

	b.nc, err = natsgo.Connect(url, natsOpts...)
	if err != nil {
		return nil, fmt.Errorf("connect NATS %s: %w", url, err)
	}
	b.closers = append(b.closers, func() error { b.nc.Close(); return nil })

	b.js, err = jetstream.New(b.nc)
	if err != nil {
		return nil, fmt.Errorf("jetstream context: %w", err)
	}
	if err := EnsureStream(ctx, b.js); err != nil {
		return nil, err
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			AutoProvision: false,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	b.publisher = pub
	b.closers = append(b.closers, pub.Close)

	b.subscribe = func(topic string) (message.Subscriber, error) {
		sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
			URL:              url,
			QueueGroupPrefix: cfg.QueueGroup,
			SubscribersCount: max(cfg.SubscriberCount, 1),
			AckWaitTimeout:   cfg.AckWaitTimeout,
			CloseTimeout:     10 * time.Second,
			NatsOptions:      natsOpts,
			Unmarshaler:      &wmNats.NATSMarshaler{},
			JetStream: wmNats.JetStreamConfig{
				AutoProvision: false,
				AckAsync:      false,
				DurablePrefix: DurableName(cfg.DurablePrefix, topic),
				SubscribeOptions: []natsgo.SubOpt{
					natsgo.BindStream(StreamName),
					natsgo.DeliverNew(),
					natsgo.AckWait(cfg.AckWaitTimeout),
					natsgo.MaxDeliver(5),
				},
			},
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create watermill subscriber for %s: %w", topic, err)
		}
		b.mu.Lock()
		b.closers = append(b.closers, sub.Close)
		b.mu.Unlock()
		return sub, nil
	}
	return b, nil
}

func connectOptions(logger watermill.LoggerAdapter) []natsgo.Option {
	return []natsgo.Option{
		natsgo.Name("reeltrack"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}
}

// DurableName derives a JetStream durable consumer name for topic. Durable
// names may not contain dots.
func DurableName(prefix, topic string) string {
	name := strings.ReplaceAll(strings.TrimPrefix(topic, "activity."), ".", "_")
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}

// Transport returns memory or nats.
func (b *Bus) Transport() string { return b.transport }

// Publisher returns the raw Watermill publisher.
func (b *Bus) Publisher() message.Publisher { return b.publisher }

// Subscriber returns a subscriber for topic.
func (b *Bus) Subscriber(topic string) (message.Subscriber, error) {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return nil, errors.New("events bus is closed")
	}
	return b.subscribe(topic)
}

// Healthy reports whether the transport can accept events.
func (b *Bus) Healthy(ctx context.Context) bool {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return false
	}
	if b.transport == TransportMemory {
		return true
	}
	if b.nc == nil || !b.nc.IsConnected() {
		return false
	}
	_, err := b.js.Stream(ctx, StreamName)
	return err == nil
}

// Close releases everything the bus opened, in reverse order.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	closers := b.closers
	b.closers = nil
	b.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

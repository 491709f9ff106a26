// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package websocket

import (
	"context"
	"sort"
	"sync"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reeltrack/internal/events"
	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types for WebSocket communication
const (
	MessageTypeActivity = "activity"
	MessageTypePing     = "ping"
	MessageTypePong     = "pong"
)

// Message represents a WebSocket message
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// ActivityData is the payload of an activity message.
type ActivityData struct {
	Kind string `json:"kind"` // rating_recorded, avatar_changed, friend_added
	*events.ActivityEvent
}

// Hub tracks connected clients by user and routes activity to the friends
// of its author.
type Hub struct {
	clients    map[*Client]bool
	byUser     map[string]map[*Client]struct{}
	activity   chan *events.ActivityEvent
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		byUser:     make(map[string]map[*Client]struct{}),
		activity:   make(chan *events.ActivityEvent, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// RunWithContext runs the hub until ctx is canceled, then closes every
// client. It implements the suture service pattern.
//
// Lifecycle events are handled before activity so a client registered
// just before an event is guaranteed to be considered for it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.register(client)
			continue
		case client := <-h.Unregister:
			h.unregister(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.register(client)
		case client := <-h.Unregister:
			h.unregister(client)
		case e := <-h.activity:
			h.deliverToFriends(e)
		}
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	set, ok := h.byUser[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.byUser[c.userID] = set
	}
	set[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(total))
	logging.Info().
		Str("user_id", logging.SanitizeUserID(c.userID)).
		Int("friends", c.FriendCount()).
		Int("total_clients", total).
		Msg("websocket client connected")
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	removed := h.removeLocked(c)
	total := len(h.clients)
	h.mu.Unlock()

	if removed {
		metrics.WSConnections.Set(float64(total))
		logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
	}
}

// removeLocked drops c and closes its send channel. Callers hold h.mu.
func (h *Hub) removeLocked(c *Client) bool {
	if _, ok := h.clients[c]; !ok {
		return false
	}
	delete(h.clients, c)
	if set := h.byUser[c.userID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.byUser, c.userID)
		}
	}
	close(c.send)
	return true
}

// Deliver queues e for routing. It never blocks; when the queue is full the
// event is dropped. It implements events.Sink.
func (h *Hub) Deliver(_ context.Context, e *events.ActivityEvent) {
	select {
	case h.activity <- e:
	default:
		metrics.WSErrors.WithLabelValues("queue_full").Inc()
		logging.Warn().Str("topic", e.Topic).Msg("activity queue full, dropping event")
	}
}

// deliverToFriends sends e to every client following its author. Clients
// are visited in id order.
func (h *Hub) deliverToFriends(e *events.ActivityEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Link changes adjust the author's own live view. Removals are not
	// pushed to anyone.
	switch e.Topic {
	case events.TopicFriendAdded:
		for c := range h.byUser[e.AuthorID] {
			c.AddFriend(e.FriendID)
		}
	case events.TopicFriendRemoved:
		for c := range h.byUser[e.AuthorID] {
			c.RemoveFriend(e.FriendID)
		}
		return
	}

	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c.Follows(e.AuthorID) {
			targets = append(targets, c)
		}
	}
	if len(targets) == 0 {
		return
	}
	sort.Slice(targets, func(i, j int) bool {
		return targets[i].id < targets[j].id
	})

	msg := Message{
		Type: MessageTypeActivity,
		Data: ActivityData{Kind: e.Type(), ActivityEvent: e},
	}

	var slow []*Client
	for _, c := range targets {
		select {
		case c.send <- msg:
			metrics.WSMessagesSent.Inc()
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		metrics.WSErrors.WithLabelValues("slow_client").Inc()
		logging.Warn().Str("user_id", logging.SanitizeUserID(c.userID)).Msg("dropping slow websocket client")
		h.removeLocked(c)
	}
	if len(slow) > 0 {
		metrics.WSConnections.Set(float64(len(h.clients)))
	}
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	clientCount := h.GetClientCount()
	h.closeAllClients()

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(getShutdownReason(ctx))).
		Int("clients_closed", clientCount).
		Msg("websocket hub stopped")
}

func getShutdownReason(ctx context.Context) ShutdownReason {
	if ctx.Err() == context.DeadlineExceeded {
		return ShutdownReasonContextDeadline
	}
	return ShutdownReasonContextCanceled
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	for _, c := range clients {
		h.removeLocked(c)
	}
	metrics.WSConnections.Set(0)
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// UserClientCount returns the number of open connections of userID.
func (h *Hub) UserClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

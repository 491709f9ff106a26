// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/reeltrack/internal/logging"
	"github.com/tomtom215/reeltrack/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 64
)

// clientIDCounter gives clients a stable delivery order.
var clientIDCounter atomic.Uint64

// Client is a middleman between the websocket connection and the hub
type Client struct {
	id     uint64
	userID string
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message

	friendsMu sync.RWMutex
	friends   map[string]struct{}
}

// NewClient creates a client for userID that follows friendIDs.
func NewClient(hub *Hub, conn *websocket.Conn, userID string, friendIDs []string) *Client {
	friends := make(map[string]struct{}, len(friendIDs))
	for _, id := range friendIDs {
		friends[id] = struct{}{}
	}
	return &Client{
		id:      clientIDCounter.Add(1),
		userID:  userID,
		hub:     hub,
		conn:    conn,
		send:    make(chan Message, sendBuffer),
		friends: friends,
	}
}

// ID returns the client's unique identifier
func (c *Client) ID() uint64 {
	return c.id
}

// UserID returns the connected user.
func (c *Client) UserID() string {
	return c.userID
}

// Follows reports whether authorID is in the client's friend set.
func (c *Client) Follows(authorID string) bool {
	c.friendsMu.RLock()
	defer c.friendsMu.RUnlock()
	_, ok := c.friends[authorID]
	return ok
}

// AddFriend adds friendID to the friend set.
func (c *Client) AddFriend(friendID string) {
	if friendID == "" || friendID == c.userID {
		return
	}
	c.friendsMu.Lock()
	c.friends[friendID] = struct{}{}
	c.friendsMu.Unlock()
}

// RemoveFriend drops friendID from the friend set.
func (c *Client) RemoveFriend(friendID string) {
	c.friendsMu.Lock()
	delete(c.friends, friendID)
	c.friendsMu.Unlock()
}

// FriendCount returns the size of the friend set.
func (c *Client) FriendCount() int {
	c.friendsMu.RLock()
	defer c.friendsMu.RUnlock()
	return len(c.friends)
}

// readPump reads client messages until the connection fails, then
// unregisters the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				metrics.WSErrors.WithLabelValues("read").Inc()
				logging.Warn().Err(err).Msg("unexpected websocket close error")
			}
			return
		}

		if msg.Type == MessageTypePing {
			select {
			case c.send <- Message{Type: MessageTypePong}:
			default:
			}
		}
	}
}

// writePump writes queued messages and keepalive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				// The hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				logging.Debug().Err(err).Msg("failed to write websocket message")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start begins reading and writing for the client
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

/*
Package websocket pushes friend activity to connected clients.

Each Client belongs to one user and carries that user's friend set, loaded
when the connection is opened. The Hub receives activity events from the
events router and delivers an event authored by U to every client whose
friend set contains U:

	events.Router ──Deliver──▶ Hub ──▶ clients of users who follow U

When U adds a friend F, the friend_added event also extends the friend set
of U's open clients, so F's activity shows up without reconnecting. A
friend_removed event shrinks it again and is not delivered to anyone.

Each client has two goroutines:
  - readPump: reads from the connection and answers ping messages
  - writePump: writes queued messages and sends keepalive pings

A client whose send buffer is full is disconnected rather than allowed to
stall delivery to everyone else.

Message Types:

  - activity: a friend's rating, avatar change or new friend link
  - ping / pong: application-level keepalive

Usage:

	hub := websocket.NewHub()
	tree.AddMessagingService(services.NewWebSocketHubService(hub))

	// after upgrading an authenticated request
	client := websocket.NewClient(hub, conn, userID, friendIDs)
	hub.Register <- client
	client.Start()
*/
package websocket

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

/*
Package main is the entry point for the Reeltrack server.

Reeltrack keeps per-user movie and series watchlists, finished lists with
ratings, a friend graph and a feed of what friends rated recently. Titles
come from TMDB through a cached, rate limited and circuit-broken client.

# Application Architecture

	RootSupervisor ("reeltrack")
	├── DataSupervisor ("data-layer")
	│   ├── events bus monitor
	│   └── badger value log GC (store.backend=badger)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket hub (live friend activity)
	│   └── events router (bus to hub)
	└── APISupervisor ("api-layer")
	    └── HTTP server (chi)

Startup order:

 1. Configuration: koanf v2, defaults then config.yaml then environment
 2. Logging: zerolog, json or console
 3. Document store: memory, badger or firestore
 4. Events bus: in-process gochannel, or NATS JetStream (embedded or external)
 5. Domain services: lists, ledger, friends, profiles, catalog
 6. Authentication (jwt, oidc or none) and casbin authorization
 7. Supervisor tree

# Configuration

	HTTP_PORT=8080
	LOG_LEVEL=info
	AUTH_MODE=jwt                 # jwt, oidc or none
	JWT_SECRET=<32+ chars>
	ADMIN_USERS=uid1,uid2
	STORE_BACKEND=badger          # memory, badger or firestore
	BADGER_PATH=/data/badger
	EVENTS_TRANSPORT=nats         # memory or nats
	TMDB_API_KEY=<key>

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains for
SHUTDOWN_TIMEOUT, the hub closes every websocket, and the bus and store are
closed last.
*/
package main

// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

/*
Package supervisor runs the long-lived services of the server under a suture v4
supervisor tree.

	RootSupervisor ("reeltrack")
	├── DataSupervisor ("data-layer")
	│   ├── BusMonitorService (events bus health gauge)
	│   └── StoreGCService (badger backend only)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocketHubService
	│   └── events.Router
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's failure decay and backoff.
Events are logged through sutureslog into the zerolog-backed slog handler.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLoggerForComponent("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(router)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	return tree.Serve(ctx)

A service returning nil is not restarted. Returning an error restarts it.
Services must return promptly once ctx is canceled; the ones that do not
show up in UnstoppedServiceReport.
*/
package supervisor

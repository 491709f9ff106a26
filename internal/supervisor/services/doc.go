// Reeltrack - Movie and Series Tracking with Friend Activity
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reeltrack

/*
Package services adapts server components to suture's Serve(ctx) error
lifecycle.

  - HTTPServerService: ListenAndServe plus graceful Shutdown.
  - WebSocketHubService: the activity hub's RunWithContext loop.
  - BusMonitorService: polls the event transport and exports events_bus_up.
  - StoreGCService: periodic badger value log GC.

Each wrapper names itself through String so supervisor events identify it.
Components are described by small interfaces declared here, which keeps this
package free of imports from the components it supervises.
*/
package services

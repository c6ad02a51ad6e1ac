// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

/*
Package supervisor runs the long-lived Wanderlens services under suture v4.

The tree has three layers, each restarted independently:

	RootSupervisor ("wanderlens")
	├── DataSupervisor ("data-layer")
	│   ├── EvictionService
	│   └── IndexFlushService
	├── EngineSupervisor ("engine-layer")
	│   └── VideoCleanupService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A panicking eviction sweep therefore never takes the HTTP server down, and
a failed listener does not stop index persistence.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewEvictionService(assetCache, cfg.Cache.EvictionInterval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.Timeout, logger))

	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()
	<-errCh

# Restart Policy

Each failure increments a counter that decays over FailureDecay seconds.
When the counter passes FailureThreshold, restarts wait FailureBackoff.
Defaults follow suture: 5 failures, 30s decay, 15s backoff and a 10s
shutdown timeout per service.

Services return nil to stop for good, an error to be restarted, and
ctx.Err() once shutdown is requested.

# Not Supervised

The index store is an embedded database opened and closed by main. The
asset cache, stream optimizer and selector are plain objects driven by
requests and by the services above.

# Logging

Supervisor events are written through sutureslog to an slog.Logger. main
passes logging.NewSlogLogger so the events end up in the zerolog stream.
*/
package supervisor

// Package server exposes a discovery engine over HTTP and a WebSocket feed.
//
// # Routes
//
//	GET /api/hosts?ref=IP                  hosts on the subnet of ref (local subnet when empty)
//	GET /api/self                          the local machine's active interface
//	GET /api/search/ip?ip=A&ip=B&ref=IP    hosts with the given addresses
//	GET /api/search/mac?mac=F&ref=IP       hosts whose MAC contains any fragment
//	GET /api/search/type?type=T&ref=IP     hosts with the given vendor type
//	GET /ws                                live sweep snapshots
//
// Responses are JSON. Failures are returned as {"error": "..."} with status
// 400 for invalid input (discovery.InputError, discovery.AddressError) and 500
// for everything else.
//
// # WebSocket Feed
//
// A background loop sweeps every Config.RefreshInterval, bypassing the
// engine's cache, and broadcasts a Snapshot to every connected client:
//
//	{"type":"hosts","sweep_id":"...","captured_at":"...","hosts":[...]}
//
// A newly connected client immediately receives the latest snapshot when one
// exists. Clients that fall behind are disconnected.
//
// # Concurrency
//
// The discovery engine is not safe for concurrent use, so every request and
// the refresh loop take the same lock around engine calls. A long sweep
// therefore delays other requests.
//
// # Usage Example
//
//	srv := server.New(server.DefaultConfig(), engine, logger)
//	if err := srv.Start(ctx); err != nil {
//	    return err
//	}
//
// Start blocks until ctx is cancelled or SIGINT/SIGTERM is received, then
// shuts down gracefully.
package server

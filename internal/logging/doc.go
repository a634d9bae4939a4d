// Package logging provides structured logging for arpsweep.
//
// This package wraps a global zap logger with convenience functions for the
// events the tool logs: sweeps, probes, HTTP requests and WebSocket messages.
// Components that do real work (the discovery engine, the command runner, the
// mDNS browser, the server) receive a *zap.Logger at construction; the CLI
// hands them children of the global logger obtained with Named.
//
// # Log Levels
//
//   - Debug: Per-address probe and resolve results, command lines, WebSocket frames
//   - Info: Completed sweeps, served HTTP requests, server lifecycle
//   - Warn: Self IP retries, failed mDNS browses
//   - Error: Startup failures
//
// # Configuration
//
// Logging is silent unless a level is given with --log-level or the
// ARPSWEEP_LOG_LEVEL environment variable. Output is written to stderr.
//
//	export ARPSWEEP_LOG_LEVEL=debug
//	arpsweep discover
package logging

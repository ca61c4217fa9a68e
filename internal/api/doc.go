// Package api implements the HTTP REST API for Battery Monitor Core.
//
// This package provides:
//   - Snapshot endpoints (JSON plus plain-text list views)
//   - Runtime settings endpoints (threshold, device exclusions)
//   - A refresh trigger for on-demand re-evaluation
//   - System diagnostics for support bundles
//   - Middleware stack (request ID, logging, recovery, CORS)
//   - TLS support for production deployments
//
// # Architecture
//
// The API server sits between the platform's configuration UI and the
// aggregation engine. Reads are served from the monitor's in-memory
// snapshot, so they never touch Home Assistant or the database. Settings
// writes go through the settings store, which persists to SQLite and
// nudges the monitor to re-evaluate.
//
//	UI / scripts ──HTTP──▶ Server ──▶ monitor.Snapshot()
//	                         │
//	                         ├──▶ settings.Store ──▶ SQLite
//	                         └──▶ monitor.Refresh()
//
// # Graceful Degradation
//
// The server operates without MQTT or a live Home Assistant connection.
// Snapshot reads return the last computed state (flagged degraded when
// the upstream registry was unreachable), and diagnostics report the
// missing collaborators rather than failing.
package api

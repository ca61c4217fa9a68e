// Package settings persists the runtime-adjustable monitor configuration:
// the low-battery threshold and the set of excluded devices.
//
// # Architecture
//
//	API handlers ──▶ Store ──▶ SQLiteRepository ──▶ monitor_settings
//	                  │                             excluded_devices
//	                  └── onChange ──▶ monitor.Trigger()
//
// The Store caches the current settings in memory so the evaluation
// pipeline never touches the database on its hot path. Mutations write
// through to SQLite, refresh the cache, and fire a change callback that
// the monitor uses to schedule a re-evaluation.
//
// A missing settings row is not an error: defaults apply (threshold 20,
// no exclusions), so the service works on a fresh database before the
// user ever changes anything.
package settings

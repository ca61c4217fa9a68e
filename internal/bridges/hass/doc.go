// Package hass connects to the Home Assistant WebSocket API and mirrors
// its registries into in-memory caches.
//
// # Architecture
//
//	Home Assistant ──ws──▶ Client ──▶ caches (states, entities,
//	                         │          devices, areas)
//	                         │
//	                         ├── registry.Reader (registry.go)
//	                         └── OnUpdate ──▶ monitor.Trigger()
//
// On every (re)connection the client authenticates with a long-lived
// token, fetches get_states plus the entity, device, and area
// registries, and subscribes to state_changed and registry update
// events. State changes patch the cache in place; registry changes
// force a full resync.
//
// The caches make the client a registry.Reader: the monitor's
// evaluation pipeline reads entirely from memory. While disconnected,
// lookups return registry.ErrUnavailable and the monitor degrades to an
// empty contribution rather than failing.
//
// # Reconnection
//
// Dropped connections are retried with exponential backoff (1s doubling
// to 60s by default). A rejected token stops the retry loop: operator
// intervention is needed, and hammering the endpoint would not help.
package hass

// Package registry defines the read-only view of the host platform's
// entity, device, and area registries that the battery monitor consumes.
//
// The monitor never talks to the host platform directly. It depends on the
// Reader interface, which is implemented by a platform bridge (currently
// internal/bridges/hass) and by fakes in tests. This keeps the scan and
// aggregation pipeline deterministic and free of ambient state.
//
// # Key Types
//
//   - EntityReading: one observable value (entity) with its current state
//     and attributes, as reported by the host platform
//   - Reader: lookup operations for entity ownership, device names,
//     and area assignment
//
// All Reader methods take a context and may suspend; implementations backed
// by an in-memory cache should still honour cancellation.
package registry

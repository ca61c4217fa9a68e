// Package monitor implements the battery monitoring engine: device
// discovery, classification, deduplication, and aggregation.
//
// # Architecture
//
// Data flows one way through a pure pipeline, orchestrated per
// evaluation by the Monitor:
//
//	registry.Reader ──▶ Classify ──▶ Resolver ──▶ PartitionExcluded ──▶ Evaluate
//	                                                                      │
//	                                                      {Snapshot, []Event}
//
//   - Classify (classifier.go): decides per entity whether it represents
//     a battery reading, via recognised attribute keys or the "battery"
//     name heuristic. Pure; never errors.
//   - Resolver (resolver.go): maps entities to owning devices, merges
//     multiple battery entities per device (worst readable level wins),
//     resolves display name and area.
//   - PartitionExcluded (exclusion.go): applies the configured exclusion
//     set, tolerant of stale device IDs.
//   - Evaluate (aggregate.go): partitions by threshold, sorts
//     deterministically, computes summary statuses, and diffs against the
//     previous snapshot to emit transition events.
//
// The Monitor (monitor.go) serialises evaluations behind a mutex, keeps
// the previous snapshot for event diffing, reads configuration fresh at
// the start of each evaluation, and hands results to a Publisher.
//
// # Error Handling
//
// Nothing in this package terminates the process. Malformed readings
// degrade to "unreadable", stale exclusions are ignored, and an
// unreachable registry produces a degraded snapshot with that registry's
// contribution treated as empty.
package monitor

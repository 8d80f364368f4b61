// Package store provides SQLite-backed durable storage for shell history.
//
// The store keeps one row per executed command:
//   - id: UUIDv7, so lexicographic order matches creation order
//   - timestamp: Unix seconds, may be negative for pre-epoch times
//   - deleted_at: tombstone marker, NULL for live records
//
// # Write Semantics
//
// All inserts use ON CONFLICT(id) DO NOTHING, so saving the same record
// twice is a no-op. Deletion never removes rows; it sets deleted_at so the
// ID stays claimed and a later import cannot resurrect the record.
//
// # Query Semantics
//
// Read queries exclude tombstoned rows and order by timestamp with ID as
// the tie-breaker (COLLATE BINARY), which keeps results deterministic when
// several commands share a second.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store

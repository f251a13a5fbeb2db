// Package store provides SQLite-backed storage for reconciled exploration state.
//
// The store holds five tables:
//   - systems: one row per system address, with derived aggregates
//   - bodies: one row per (system, body id), merged by scan fidelity
//   - biologicals: one row per (body, genus, species)
//   - codex_entries: one row per (entry id, region)
//   - route_history: append-only jump ledger
//
// # Merge Semantics
//
// Every write is keyed by the entity's natural key and is idempotent under
// re-application. The merge rules live in merge.go as pure functions so they
// can be tested without a database. Persistence methods read the current row,
// merge, write, and recompute the owning system's aggregates inside a single
// transaction.
//
// A body's scan_type never decreases. The merge rules guarantee this for
// normal writes; SetBodyScanType rejects explicit downgrades and a trigger
// backs both up at the database level.
//
// # Determinism
//
// Stored timestamps come from the events being applied, never from the wall
// clock, so replaying the same events into an empty store reproduces the same
// rows. Dump exports the full state in a stable order for comparison.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Failures are returned as *Error carrying a Class so callers can decide
// whether to retry.
package store

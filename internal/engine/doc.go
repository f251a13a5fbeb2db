// Package engine reconciles a stream of journal events into stored state.
//
// ARCHITECTURE:
//
// Single-Writer Processing:
// Events are applied one at a time. Process runs a single event to
// completion (all store writes, aggregate recomputes and notifications)
// before returning, and Run drives Process from exactly one goroutine over a
// FIFO queue for live feeds. This ensures:
// - No locking beyond the store's own transactions
// - Backfill and live ingestion share one code path
// - Replaying the same events reproduces the same rows
//
// Event Processing Flow:
//  1. journal.Decode produces a typed event
//  2. Process dispatches on the event type to one handler
//  3. The handler writes through the store's merge operations
//  4. The handler updates the Session and emits a notification unless the
//     event is part of a backfill
//
// Session State:
// Each Engine owns one Session holding game, commander, carrier, surface
// and route state, the current system, and the pending-signal cache. Nothing
// is process-global, so independent engines never interfere.
//
// Pending Signals:
// Signal counts for a body can arrive before its Scan. They are buffered by
// "systemAddress_bodyId" and applied when the Scan lands. The buffer is
// cleared whenever the current system changes and is not persisted, so a
// restart between the two events loses the buffered counts.
package engine

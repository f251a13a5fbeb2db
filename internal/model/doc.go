// Package model defines the reconciled exploration records persisted by the
// store and shared by the engine and notification sinks.
//
// Records are keyed by their natural keys:
//   - System: system address
//   - Body: (system id, body id)
//   - Biological: (body row id, genus, species)
//   - CodexEntry: (entry id, region)
//
// RouteEntry rows are an append-only ledger and are never merged.
package model

// Package harness runs journal scenarios against a fresh engine and checks
// the notifications it emits and the state it leaves behind.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: out_of_order_signals
//	description: "Signals seen before the Scan are applied to the body"
//	session_id: test-session-1
//	backfill: false
//	parity: true
//	events:
//	  - event: FSDJump
//	    StarSystem: Alpha
//	    SystemAddress: 1001
//	    StarPos: [1, 0, 0]
//	  - event: FSSBodySignals
//	    SystemAddress: 1001
//	    BodyID: 5
//	    Signals: [{Type: "$SAA_SignalType_Biological;", Count: 3}]
//	assertions:
//	  - type: trace_order
//	    names: [system-changed, body-scanned]
//	  - type: final_state
//	    table: bodies
//	    where: { body_id: 5 }
//	    expect: { signals: { bio: 3 } }
//
// Events are journal lines written as YAML. A missing timestamp is filled in
// one minute after the previous event, starting from testutil.Epoch.
//
// # Assertion Types
//
//   - trace_contains: a notification with the given name (and subject) was emitted
//   - trace_order: notifications appear in the given order, gaps allowed
//   - trace_count: a notification was emitted exactly N times
//   - final_state: a row of the dumped store matches where and expect
//   - session: the final session snapshot matches expect
//
// # Deterministic Testing
//
// Every run uses an in-memory store, a fixed session id and a manual wall
// clock, so the notification trace is stable enough for golden files.
// With parity set, the events are replayed with the opposite backfill flag
// into a second store and the two dumps must match.
package harness

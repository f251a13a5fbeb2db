package testutil

// DefaultSessionID is returned by a SessionID created with an empty id.
const DefaultSessionID = "test-session-00000000-0000-0000-0000-000000000001"

// SessionID generates the same session id every time.
//
// Backfill and live runs over the same events must stamp identical ids on
// the route ledger for their dumps to compare equal, so every engine built by
// a test or scenario shares one id.
//
// Thread-safety: SessionID is stateless and safe for concurrent use.
type SessionID struct {
	id string
}

// NewSessionID creates a generator for id, or DefaultSessionID when empty.
func NewSessionID(id string) SessionID {
	if id == "" {
		id = DefaultSessionID
	}
	return SessionID{id: id}
}

// Generate returns the fixed id. Implements engine.SessionIDGenerator.
func (g SessionID) Generate() string {
	return g.id
}

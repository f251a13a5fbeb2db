package harness

import (
	"github.com/roach88/cartographer/internal/engine"
	"github.com/roach88/cartographer/internal/model"
	"github.com/roach88/cartographer/internal/store"
)

// TraceEvent is one notification with the event that caused it.
type TraceEvent struct {
	Seq     int    `json:"seq"`
	Event   string `json:"event"`
	Name    string `json:"name"`
	Subject string `json:"subject,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace holds the notifications in emission order.
	Trace []TraceEvent `json:"trace"`

	// Errors holds assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the store dump after the last event.
	State *store.State `json:"state,omitempty"`

	// Session is the engine's session after the last event.
	Session SessionSnapshot `json:"session"`
}

// SessionSnapshot is the exported view of engine.Session used by session
// assertions.
type SessionSnapshot struct {
	ID        string                `json:"id"`
	Game      engine.GameState      `json:"game"`
	Commander engine.CommanderState `json:"commander"`
	Carrier   engine.CarrierState   `json:"carrier"`
	Surface   engine.SurfaceState   `json:"surface"`
	Route     engine.RouteInfo      `json:"route"`
	System    string                `json:"system,omitempty"`
	Pending   int                   `json:"pending"`
}

func snapshotSession(s *engine.Session) SessionSnapshot {
	snap := SessionSnapshot{
		ID:        s.ID(),
		Game:      s.Game(),
		Commander: s.Commander(),
		Carrier:   s.Carrier(),
		Surface:   s.Surface(),
		Route:     s.Route(),
		Pending:   s.PendingLen(),
	}
	if sys := s.CurrentSystem(); sys != nil {
		snap.System = sys.Name
	}
	return snap
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// subject names the record a notification is about.
func subject(payload any) string {
	switch p := payload.(type) {
	case *model.System:
		return p.Name
	case *model.Body:
		return p.Name
	case *model.CodexEntry:
		return p.Name
	case engine.BioScannedPayload:
		if p.Biological != nil {
			return p.Biological.Species
		}
	case engine.AllBodiesFoundPayload:
		return p.SystemName
	case engine.CarrierJumpedPayload:
		return p.Carrier.Name
	case engine.RoutePlottedPayload:
		return p.Route.Destination
	case engine.MismatchPayload:
		return p.Actual.Species
	case engine.CommanderState:
		return p.Name
	}
	return ""
}

package notify

import "encoding/json"

// Notification names.
const (
	SystemChanged      = "system-changed"
	BodyScanned        = "body-scanned"
	BodyMapped         = "body-mapped"
	BodySignalsUpdated = "body-signals-updated"
	BioScanned         = "bio-scanned"
	CodexEntry         = "codex-entry"
	CommanderUpdated   = "commander-updated"
	GameStarted        = "game-started"
	GameStopped        = "game-stopped"
	CarrierJumped      = "carrier-jumped"
	RoutePlotted       = "route-plotted"
	RouteCleared       = "route-cleared"
	AllBodiesFound     = "all-bodies-found"
	BodyFootfalled     = "body-footfalled"
	ExobiologyMismatch = "exobiology-mismatch"
	JournalContinued   = "journal-continued"
)

// Sink receives notifications.
type Sink interface {
	Emit(name string, payload any)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(name string, payload any)

// Emit implements Sink.
func (f SinkFunc) Emit(name string, payload any) { f(name, payload) }

// Discard drops every notification.
var Discard Sink = SinkFunc(func(string, any) {})

// Message is the JSON envelope written to remote observers.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func encode(name string, payload any) ([]byte, error) {
	return json.Marshal(Message{Type: name, Payload: payload})
}

// Multi fans a notification out to every sink in order.
type Multi []Sink

// Emit implements Sink.
func (m Multi) Emit(name string, payload any) {
	for _, s := range m {
		if s != nil {
			s.Emit(name, payload)
		}
	}
}

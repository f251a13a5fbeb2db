package engine

import (
	"fmt"
	"time"

	"github.com/roach88/cartographer/internal/model"
	"github.com/roach88/cartographer/internal/notify"
)

// GameState describes the running game client.
type GameState struct {
	Running     bool      `json:"running"`
	GameMode    string    `json:"game_mode,omitempty"`
	Group       string    `json:"group,omitempty"`
	Horizons    bool      `json:"horizons"`
	Odyssey     bool      `json:"odyssey"`
	Language    string    `json:"language,omitempty"`
	GameVersion string    `json:"game_version,omitempty"`
	Build       string    `json:"build,omitempty"`
	StartedAt   time.Time `json:"started_at"`
}

// CarrierState is set while the commander is aboard a fleet carrier.
type CarrierState struct {
	OnCarrier bool   `json:"on_carrier"`
	Docked    bool   `json:"docked"`
	Name      string `json:"name,omitempty"`
	MarketID  int64  `json:"market_id,omitempty"`
}

// SurfaceState tracks landing, foot and nearby-body status.
type SurfaceState struct {
	Landed     bool    `json:"landed"`
	OnFoot     bool    `json:"on_foot"`
	BodyName   string  `json:"body_name,omitempty"`
	BodyID     *int    `json:"body_id,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	NearBody   string  `json:"near_body,omitempty"`
	NearBodyID *int    `json:"near_body_id,omitempty"`
}

// Ranks are the commander's rank levels.
type Ranks struct {
	Combat       int `json:"combat"`
	Trade        int `json:"trade"`
	Explore      int `json:"explore"`
	Soldier      int `json:"soldier"`
	Exobiologist int `json:"exobiologist"`
	Empire       int `json:"empire"`
	Federation   int `json:"federation"`
	CQC          int `json:"cqc"`
}

// Progress is the percentage towards the next level of each rank.
type Progress Ranks

// Reputation with the major factions.
type Reputation struct {
	Empire      float64 `json:"empire"`
	Federation  float64 `json:"federation"`
	Independent float64 `json:"independent"`
	Alliance    float64 `json:"alliance"`
}

// Powerplay pledge status.
type Powerplay struct {
	Power       string `json:"power,omitempty"`
	Rank        int    `json:"rank"`
	Merits      int64  `json:"merits"`
	TimePledged int64  `json:"time_pledged"`
}

// CommanderState is the commander profile assembled from session events.
type CommanderState struct {
	Name       string     `json:"name,omitempty"`
	FID        string     `json:"fid,omitempty"`
	Credits    int64      `json:"credits"`
	Loan       int64      `json:"loan"`
	Ship       string     `json:"ship,omitempty"`
	ShipID     int        `json:"ship_id"`
	ShipName   string     `json:"ship_name,omitempty"`
	ShipIdent  string     `json:"ship_ident,omitempty"`
	Ranks      Ranks      `json:"ranks"`
	Progress   Progress   `json:"progress"`
	Reputation Reputation `json:"reputation"`
	Powerplay  Powerplay  `json:"powerplay"`
}

// RouteInfo is the plotted route's progress.
type RouteInfo struct {
	Destination        string `json:"destination"`
	DestinationAddress int64  `json:"destination_address"`
	TotalJumps         int    `json:"total_jumps"`
	RemainingJumps     int    `json:"remaining_jumps"`
}

// Active reports whether a route is plotted.
func (r RouteInfo) Active() bool {
	return r.TotalJumps > 0
}

// Session is the state one ingestion run accumulates. It is owned by an
// Engine and only touched from the goroutine running Process.
type Session struct {
	id        string
	game      GameState
	carrier   CarrierState
	surface   SurfaceState
	commander CommanderState
	route     RouteInfo
	current   *model.System
	pending   *pendingSignals
	sink      notify.Sink
}

func newSession(id string, sink notify.Sink) *Session {
	if sink == nil {
		sink = notify.Discard
	}
	return &Session{id: id, pending: newPendingSignals(), sink: sink}
}

// ID returns the session identifier stamped on route entries.
func (s *Session) ID() string { return s.id }

func (s *Session) Game() GameState           { return s.game }
func (s *Session) SetGame(g GameState)       { s.game = g }
func (s *Session) Carrier() CarrierState     { return s.carrier }
func (s *Session) SetCarrier(c CarrierState) { s.carrier = c }
func (s *Session) Surface() SurfaceState     { return s.surface }
func (s *Session) SetSurface(v SurfaceState) { s.surface = v }
func (s *Session) Route() RouteInfo          { return s.route }
func (s *Session) SetRoute(r RouteInfo)      { s.route = r }

// Commander returns a copy of the commander profile.
func (s *Session) Commander() CommanderState { return s.commander }

// SetCommander replaces the commander profile.
func (s *Session) SetCommander(c CommanderState) { s.commander = c }

// CurrentSystem returns the system the commander is in, or nil before the
// first location event.
func (s *Session) CurrentSystem() *model.System { return s.current }

// SetCurrentSystem moves the current-system pointer. The pending-signal cache
// is cleared when the address changes and the method reports whether it did.
func (s *Session) SetCurrentSystem(sys *model.System) (changed bool) {
	changed = s.current == nil || sys == nil || s.current.Address != sys.Address
	if changed {
		s.pending.Clear()
	}
	s.current = sys
	return changed
}

// PendingSignals returns the buffered counts for a body, if any.
func (s *Session) PendingSignals(address int64, bodyID int) (model.Signals, bool) {
	return s.pending.Get(address, bodyID)
}

// PendingLen returns the number of bodies with buffered signals.
func (s *Session) PendingLen() int { return s.pending.Len() }

// emit forwards a notification unless the event is part of a backfill.
func (s *Session) emit(name string, payload any, backfill bool) {
	if backfill {
		return
	}
	s.sink.Emit(name, payload)
}

// Notification payloads that are not plain records.

// AllBodiesFoundPayload accompanies all-bodies-found.
type AllBodiesFoundPayload struct {
	SystemAddress int64  `json:"system_address"`
	SystemName    string `json:"system_name"`
	Count         int    `json:"count"`
}

// GameStoppedPayload accompanies game-stopped.
type GameStoppedPayload struct {
	At time.Time `json:"at"`
}

// ContinuedPayload accompanies journal-continued.
type ContinuedPayload struct {
	Part int `json:"part"`
}

// CarrierJumpedPayload accompanies carrier-jumped.
type CarrierJumpedPayload struct {
	Carrier CarrierState  `json:"carrier"`
	System  *model.System `json:"system"`
}

// BioScannedPayload accompanies bio-scanned.
type BioScannedPayload struct {
	Body       *model.Body       `json:"body"`
	Biological *model.Biological `json:"biological"`
}

// pendingKey builds the cache key for a body.
func pendingKey(address int64, bodyID int) string {
	return fmt.Sprintf("%d_%d", address, bodyID)
}

package journal

import (
	"time"

	"github.com/roach88/cartographer/internal/model"
)

// Kind is the journal's "event" discriminant.
type Kind string

const (
	KindFSDJump           Kind = "FSDJump"
	KindCarrierJump       Kind = "CarrierJump"
	KindLocation          Kind = "Location"
	KindFSSDiscoveryScan  Kind = "FSSDiscoveryScan"
	KindFSSAllBodiesFound Kind = "FSSAllBodiesFound"
	KindNavRoute          Kind = "NavRoute"
	KindNavRouteClear     Kind = "NavRouteClear"

	KindScan            Kind = "Scan"
	KindSAAScanComplete Kind = "SAAScanComplete"
	KindFSSBodySignals  Kind = "FSSBodySignals"
	KindSAASignalsFound Kind = "SAASignalsFound"
	KindScanOrganic     Kind = "ScanOrganic"
	KindCodexEntry      Kind = "CodexEntry"

	KindLoadGame   Kind = "LoadGame"
	KindCommander  Kind = "Commander"
	KindRank       Kind = "Rank"
	KindProgress   Kind = "Progress"
	KindReputation Kind = "Reputation"
	KindPowerplay  Kind = "Powerplay"
	KindPromotion  Kind = "Promotion"
	KindContinued  Kind = "Continued"
	KindShutdown   Kind = "Shutdown"

	KindTouchdown    Kind = "Touchdown"
	KindLiftoff      Kind = "Liftoff"
	KindApproachBody Kind = "ApproachBody"
	KindLeaveBody    Kind = "LeaveBody"
	KindDisembark    Kind = "Disembark"
	KindEmbark       Kind = "Embark"
	KindDocked       Kind = "Docked"
	KindUndocked     Kind = "Undocked"
)

// Event is implemented by every decoded journal event.
type Event interface {
	Kind() Kind
	Time() time.Time
}

// Header holds the fields common to every journal line.
type Header struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
}

// Time returns the event timestamp.
func (h Header) Time() time.Time { return h.Timestamp }

// Unknown is any event whose discriminant has no decoder.
type Unknown struct {
	Header
	Raw []byte `json:"-"`
}

func (Unknown) Kind() Kind { return "" }

// StarPos is the journal's [x, y, z] coordinate triple.
type StarPos [3]float64

// Position converts to the model representation.
func (p StarPos) Position() model.Position {
	return model.Position{X: p[0], Y: p[1], Z: p[2]}
}

// Navigation events.

type FSDJump struct {
	Header
	StarSystem    string  `json:"StarSystem"`
	SystemAddress int64   `json:"SystemAddress"`
	StarPos       StarPos `json:"StarPos"`
	Body          string  `json:"Body"`
	BodyID        int     `json:"BodyID"`
	JumpDist      float64 `json:"JumpDist"`
	FuelUsed      float64 `json:"FuelUsed"`
	FuelLevel     float64 `json:"FuelLevel"`
	Taxi          bool    `json:"Taxi"`
	Multicrew     bool    `json:"Multicrew"`
}

func (FSDJump) Kind() Kind { return KindFSDJump }

type CarrierJump struct {
	Header
	StarSystem    string  `json:"StarSystem"`
	SystemAddress int64   `json:"SystemAddress"`
	StarPos       StarPos `json:"StarPos"`
	Body          string  `json:"Body"`
	BodyID        int     `json:"BodyID"`
	Docked        bool    `json:"Docked"`
	StationName   string  `json:"StationName"`
	StationType   string  `json:"StationType"`
	MarketID      int64   `json:"MarketID"`
}

func (CarrierJump) Kind() Kind { return KindCarrierJump }

type Location struct {
	Header
	StarSystem    string  `json:"StarSystem"`
	SystemAddress int64   `json:"SystemAddress"`
	StarPos       StarPos `json:"StarPos"`
	Body          string  `json:"Body"`
	BodyID        int     `json:"BodyID"`
	BodyType      string  `json:"BodyType"`
	Docked        bool    `json:"Docked"`
	StationName   string  `json:"StationName"`
	StationType   string  `json:"StationType"`
	MarketID      int64   `json:"MarketID"`
	OnFoot        bool    `json:"OnFoot"`
	Taxi          bool    `json:"Taxi"`
}

func (Location) Kind() Kind { return KindLocation }

type FSSDiscoveryScan struct {
	Header
	Progress      float64 `json:"Progress"`
	BodyCount     int     `json:"BodyCount"`
	NonBodyCount  int     `json:"NonBodyCount"`
	SystemName    string  `json:"SystemName"`
	SystemAddress int64   `json:"SystemAddress"`
}

func (FSSDiscoveryScan) Kind() Kind { return KindFSSDiscoveryScan }

type FSSAllBodiesFound struct {
	Header
	SystemName    string `json:"SystemName"`
	SystemAddress int64  `json:"SystemAddress"`
	Count         int    `json:"Count"`
}

func (FSSAllBodiesFound) Kind() Kind { return KindFSSAllBodiesFound }

// RouteHop is one system on a plotted route.
type RouteHop struct {
	StarSystem    string  `json:"StarSystem"`
	SystemAddress int64   `json:"SystemAddress"`
	StarPos       StarPos `json:"StarPos"`
	StarClass     string  `json:"StarClass"`
}

type NavRoute struct {
	Header
	Route []RouteHop `json:"Route"`
}

func (NavRoute) Kind() Kind { return KindNavRoute }

type NavRouteClear struct {
	Header
}

func (NavRouteClear) Kind() Kind { return KindNavRouteClear }

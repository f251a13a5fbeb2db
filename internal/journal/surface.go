package journal

// Surface and docking events.

type Touchdown struct {
	Header
	PlayerControlled   bool    `json:"PlayerControlled"`
	Latitude           float64 `json:"Latitude"`
	Longitude          float64 `json:"Longitude"`
	NearestDestination string  `json:"NearestDestination"`
	StarSystem         string  `json:"StarSystem"`
	SystemAddress      int64   `json:"SystemAddress"`
	Body               string  `json:"Body"`
	BodyID             int     `json:"BodyID"`
	OnStation          bool    `json:"OnStation"`
	OnPlanet           bool    `json:"OnPlanet"`
}

func (Touchdown) Kind() Kind { return KindTouchdown }

type Liftoff struct {
	Header
	PlayerControlled bool   `json:"PlayerControlled"`
	StarSystem       string `json:"StarSystem"`
	SystemAddress    int64  `json:"SystemAddress"`
	Body             string `json:"Body"`
	BodyID           int    `json:"BodyID"`
}

func (Liftoff) Kind() Kind { return KindLiftoff }

type ApproachBody struct {
	Header
	StarSystem    string `json:"StarSystem"`
	SystemAddress int64  `json:"SystemAddress"`
	Body          string `json:"Body"`
	BodyID        int    `json:"BodyID"`
}

func (ApproachBody) Kind() Kind { return KindApproachBody }

type LeaveBody struct {
	Header
	StarSystem    string `json:"StarSystem"`
	SystemAddress int64  `json:"SystemAddress"`
	Body          string `json:"Body"`
	BodyID        int    `json:"BodyID"`
}

func (LeaveBody) Kind() Kind { return KindLeaveBody }

type Disembark struct {
	Header
	SRV           bool   `json:"SRV"`
	Taxi          bool   `json:"Taxi"`
	Multicrew     bool   `json:"Multicrew"`
	StarSystem    string `json:"StarSystem"`
	SystemAddress int64  `json:"SystemAddress"`
	Body          string `json:"Body"`
	BodyID        int    `json:"BodyID"`
	OnStation     bool   `json:"OnStation"`
	OnPlanet      bool   `json:"OnPlanet"`
	StationName   string `json:"StationName"`
	StationType   string `json:"StationType"`
	MarketID      int64  `json:"MarketID"`
}

func (Disembark) Kind() Kind { return KindDisembark }

type Embark struct {
	Header
	SRV           bool   `json:"SRV"`
	Taxi          bool   `json:"Taxi"`
	Multicrew     bool   `json:"Multicrew"`
	StarSystem    string `json:"StarSystem"`
	SystemAddress int64  `json:"SystemAddress"`
	Body          string `json:"Body"`
	BodyID        int    `json:"BodyID"`
	OnStation     bool   `json:"OnStation"`
	OnPlanet      bool   `json:"OnPlanet"`
}

func (Embark) Kind() Kind { return KindEmbark }

type Docked struct {
	Header
	StationName   string `json:"StationName"`
	StationType   string `json:"StationType"`
	StarSystem    string `json:"StarSystem"`
	SystemAddress int64  `json:"SystemAddress"`
	MarketID      int64  `json:"MarketID"`
}

func (Docked) Kind() Kind { return KindDocked }

type Undocked struct {
	Header
	StationName string `json:"StationName"`
	StationType string `json:"StationType"`
	MarketID    int64  `json:"MarketID"`
}

func (Undocked) Kind() Kind { return KindUndocked }

// FleetCarrierStationType is the StationType reported for fleet carriers.
const FleetCarrierStationType = "FleetCarrier"

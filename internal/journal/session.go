package journal

// Session and commander events.

type LoadGame struct {
	Header
	FID           string  `json:"FID"`
	Commander     string  `json:"Commander"`
	Horizons      bool    `json:"Horizons"`
	Odyssey       bool    `json:"Odyssey"`
	Ship          string  `json:"Ship"`
	ShipLocalised string  `json:"Ship_Localised"`
	ShipID        int     `json:"ShipID"`
	ShipName      string  `json:"ShipName"`
	ShipIdent     string  `json:"ShipIdent"`
	FuelLevel     float64 `json:"FuelLevel"`
	FuelCapacity  float64 `json:"FuelCapacity"`
	GameMode      string  `json:"GameMode"`
	Group         string  `json:"Group"`
	Credits       int64   `json:"Credits"`
	Loan          int64   `json:"Loan"`
	Language      string  `json:"language"`
	GameVersion   string  `json:"gameversion"`
	Build         string  `json:"build"`
}

func (LoadGame) Kind() Kind { return KindLoadGame }

type Commander struct {
	Header
	FID  string `json:"FID"`
	Name string `json:"Name"`
}

func (Commander) Kind() Kind { return KindCommander }

type Rank struct {
	Header
	Combat       int `json:"Combat"`
	Trade        int `json:"Trade"`
	Explore      int `json:"Explore"`
	Soldier      int `json:"Soldier"`
	Exobiologist int `json:"Exobiologist"`
	Empire       int `json:"Empire"`
	Federation   int `json:"Federation"`
	CQC          int `json:"CQC"`
}

func (Rank) Kind() Kind { return KindRank }

type Progress struct {
	Header
	Combat       int `json:"Combat"`
	Trade        int `json:"Trade"`
	Explore      int `json:"Explore"`
	Soldier      int `json:"Soldier"`
	Exobiologist int `json:"Exobiologist"`
	Empire       int `json:"Empire"`
	Federation   int `json:"Federation"`
	CQC          int `json:"CQC"`
}

func (Progress) Kind() Kind { return KindProgress }

type Reputation struct {
	Header
	Empire      float64 `json:"Empire"`
	Federation  float64 `json:"Federation"`
	Independent float64 `json:"Independent"`
	Alliance    float64 `json:"Alliance"`
}

func (Reputation) Kind() Kind { return KindReputation }

type Powerplay struct {
	Header
	Power       string `json:"Power"`
	Rank        int    `json:"Rank"`
	Merits      int64  `json:"Merits"`
	TimePledged int64  `json:"TimePledged"`
}

func (Powerplay) Kind() Kind { return KindPowerplay }

// Promotion carries only the ranks that changed; absent fields are nil.
type Promotion struct {
	Header
	Combat       *int `json:"Combat"`
	Trade        *int `json:"Trade"`
	Explore      *int `json:"Explore"`
	Soldier      *int `json:"Soldier"`
	Exobiologist *int `json:"Exobiologist"`
	Empire       *int `json:"Empire"`
	Federation   *int `json:"Federation"`
	CQC          *int `json:"CQC"`
}

func (Promotion) Kind() Kind { return KindPromotion }

type Continued struct {
	Header
	Part int `json:"Part"`
}

func (Continued) Kind() Kind { return KindContinued }

type Shutdown struct {
	Header
}

func (Shutdown) Kind() Kind { return KindShutdown }

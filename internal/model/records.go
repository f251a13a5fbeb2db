package model

import "time"

// Position is a system's location in light years.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BodyType is the coarse classification of a body.
type BodyType string

const (
	BodyUnknown     BodyType = "Unknown"
	BodyStar        BodyType = "Star"
	BodyPlanet      BodyType = "Planet"
	BodyBeltCluster BodyType = "BeltCluster"
	BodyRing        BodyType = "Ring"
)

// ClassifyBody derives the body type from the journal fields available on a Scan.
func ClassifyBody(name, starType, planetClass string) BodyType {
	switch {
	case IsRingName(name):
		return BodyRing
	case IsBeltName(name):
		return BodyBeltCluster
	case starType != "":
		return BodyStar
	case planetClass != "":
		return BodyPlanet
	default:
		return BodyUnknown
	}
}

// System is the reconciled record for one star system.
type System struct {
	ID                int64     `json:"id"`
	Address           int64     `json:"system_address"`
	Name              string    `json:"name"`
	Position          Position  `json:"position"`
	FirstVisited      time.Time `json:"first_visited"`
	LastVisited       time.Time `json:"last_visited"`
	BodyCount         *int      `json:"body_count,omitempty"`
	DiscoveredCount   int       `json:"discovered_count"`
	MappedCount       int       `json:"mapped_count"`
	TotalValue        int64     `json:"total_value"`
	EstimatedFSSValue int64     `json:"estimated_fss_value"`
	EstimatedDSSValue int64     `json:"estimated_dss_value"`
	AllBodiesFound    bool      `json:"all_bodies_found"`
}

// Signals holds the per-category signal counts reported for a body.
type Signals struct {
	Biological int `json:"bio"`
	Geological int `json:"geo"`
	Human      int `json:"human"`
	Thargoid   int `json:"thargoid"`
}

// Body is the reconciled record for one celestial body.
type Body struct {
	ID       int64  `json:"id"`
	SystemID int64  `json:"system_id"`
	BodyID   int    `json:"body_id"`
	Name     string `json:"name"`

	Type    BodyType `json:"body_type"`
	SubType string   `json:"sub_type,omitempty"`

	Mass        *float64 `json:"mass,omitempty"`
	Radius      *float64 `json:"radius,omitempty"`
	Gravity     *float64 `json:"gravity,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Atmosphere  string   `json:"atmosphere,omitempty"`
	Volcanism   string   `json:"volcanism,omitempty"`

	Landable      bool `json:"landable"`
	Terraformable bool `json:"terraformable"`

	WasDiscovered  bool `json:"was_discovered"`
	WasMapped      bool `json:"was_mapped"`
	WasFootfalled  bool `json:"was_footfalled"`
	DiscoveredByMe bool `json:"discovered_by_me"`
	MappedByMe     bool `json:"mapped_by_me"`
	FootfalledByMe bool `json:"footfalled_by_me"`

	ScanType  ScanType `json:"scan_type"`
	ScanValue int64    `json:"scan_value"`
	Signals   Signals  `json:"signals"`

	ParentID      *int     `json:"parent_id,omitempty"`
	SemiMajorAxis *float64 `json:"semi_major_axis,omitempty"`
	DistanceLS    *float64 `json:"distance_ls,omitempty"`

	Snapshot  *ScanSnapshot `json:"snapshot,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CountsTowardValue reports whether the body contributes to system value totals.
func (b *Body) CountsTowardValue() bool {
	return b.Type != BodyRing && b.Type != BodyBeltCluster
}

// Biological is one exobiology sample record on a body.
type Biological struct {
	ID           int64     `json:"id"`
	BodyPK       int64     `json:"body_pk"`
	Genus        string    `json:"genus"`
	Species      string    `json:"species"`
	Variant      string    `json:"variant,omitempty"`
	Value        int64     `json:"value"`
	ScanProgress int       `json:"scan_progress"`
	Scanned      bool      `json:"scanned"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MaxScanProgress is the progress level reached by the Analyse stage.
const MaxScanProgress = 3

// CodexEntry is a discovery codex record.
type CodexEntry struct {
	ID            int64     `json:"id"`
	EntryID       int64     `json:"entry_id"`
	Region        string    `json:"region"`
	Name          string    `json:"name"`
	Category      string    `json:"category,omitempty"`
	SubCategory   string    `json:"sub_category,omitempty"`
	SystemAddress int64     `json:"system_address"`
	BodyID        *int      `json:"body_id,omitempty"`
	IsNewEntry    bool      `json:"is_new_entry"`
	NewTraits     bool      `json:"new_traits"`
	VoucherAmount int64     `json:"voucher_amount"`
	FirstSeen     time.Time `json:"first_seen"`
}

// RouteEntry is one jump in the append-only route ledger.
type RouteEntry struct {
	ID           int64     `json:"id"`
	SystemID     int64     `json:"system_id"`
	Timestamp    time.Time `json:"timestamp"`
	JumpDistance float64   `json:"jump_distance"`
	FuelUsed     float64   `json:"fuel_used"`
	FuelLevel    float64   `json:"fuel_level"`
	SessionID    string    `json:"session_id"`
}

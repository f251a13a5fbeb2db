package journal

import (
	"sort"

	"github.com/roach88/cartographer/internal/model"
)

// ScanRing is a ring entry on a Scan.
type ScanRing struct {
	Name      string  `json:"Name"`
	RingClass string  `json:"RingClass"`
	MassMT    float64 `json:"MassMT"`
	InnerRad  float64 `json:"InnerRad"`
	OuterRad  float64 `json:"OuterRad"`
}

// ScanMaterial is a surface material share on a Scan.
type ScanMaterial struct {
	Name    string  `json:"Name"`
	Percent float64 `json:"Percent"`
}

type Scan struct {
	Header
	ScanType              string           `json:"ScanType"`
	BodyName              string           `json:"BodyName"`
	BodyID                int              `json:"BodyID"`
	Parents               []map[string]int `json:"Parents"`
	StarSystem            string           `json:"StarSystem"`
	SystemAddress         int64            `json:"SystemAddress"`
	DistanceFromArrivalLS *float64         `json:"DistanceFromArrivalLS"`

	StarType    string   `json:"StarType"`
	StellarMass *float64 `json:"StellarMass"`
	Luminosity  string   `json:"Luminosity"`

	PlanetClass        string   `json:"PlanetClass"`
	TerraformState     string   `json:"TerraformState"`
	Atmosphere         string   `json:"Atmosphere"`
	AtmosphereType     string   `json:"AtmosphereType"`
	Volcanism          string   `json:"Volcanism"`
	MassEM             *float64 `json:"MassEM"`
	Radius             *float64 `json:"Radius"`
	SurfaceGravity     *float64 `json:"SurfaceGravity"`
	SurfaceTemperature *float64 `json:"SurfaceTemperature"`
	SurfacePressure    *float64 `json:"SurfacePressure"`
	Landable           bool     `json:"Landable"`
	TidalLock          bool     `json:"TidalLock"`
	SemiMajorAxis      *float64 `json:"SemiMajorAxis"`

	Rings     []ScanRing     `json:"Rings"`
	Materials []ScanMaterial `json:"Materials"`

	WasDiscovered bool `json:"WasDiscovered"`
	WasMapped     bool `json:"WasMapped"`
	WasFootfalled bool `json:"WasFootfalled"`
}

func (Scan) Kind() Kind { return KindScan }

// ParentID returns the body id of the immediate parent, if any.
// The first Parents entry is the nearest parent; its single key names the
// parent kind (Star, Planet, Ring or Null barycentre).
func (s Scan) ParentID() *int {
	if len(s.Parents) == 0 {
		return nil
	}
	keys := make([]string, 0, len(s.Parents[0]))
	for k := range s.Parents[0] {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)
	id := s.Parents[0][keys[0]]
	return &id
}

// Terraformable reports whether the body is a terraforming candidate.
func (s Scan) Terraformable() bool {
	return s.TerraformState == "Terraformable" || s.TerraformState == "Terraforming" || s.TerraformState == "Terraformed"
}

// SubType returns the star type or planet class, whichever applies.
func (s Scan) SubType() string {
	if s.StarType != "" {
		return s.StarType
	}
	return s.PlanetClass
}

// Mass returns MassEM for planets and StellarMass for stars.
func (s Scan) Mass() *float64 {
	if s.MassEM != nil {
		return s.MassEM
	}
	return s.StellarMass
}

// Snapshot builds the versioned snapshot payload for this scan.
func (s Scan) Snapshot() *model.ScanSnapshot {
	snap := &model.ScanSnapshot{
		Version:         model.SnapshotVersion,
		ScanType:        model.ScanTypeFromJournal(s.ScanType),
		BodyName:        s.BodyName,
		StarType:        s.StarType,
		PlanetClass:     s.PlanetClass,
		TerraformState:  s.TerraformState,
		AtmosphereType:  s.AtmosphereType,
		SurfacePressure: s.SurfacePressure,
		TidalLock:       s.TidalLock,
		StellarMass:     s.StellarMass,
		Luminosity:      s.Luminosity,
	}
	for _, r := range s.Rings {
		snap.Rings = append(snap.Rings, model.Ring{
			Name:     r.Name,
			Class:    r.RingClass,
			MassMT:   r.MassMT,
			InnerRad: r.InnerRad,
			OuterRad: r.OuterRad,
		})
	}
	for _, m := range s.Materials {
		snap.Materials = append(snap.Materials, model.Material{Name: m.Name, Percent: m.Percent})
	}
	return snap
}

type SAAScanComplete struct {
	Header
	BodyName         string `json:"BodyName"`
	SystemAddress    int64  `json:"SystemAddress"`
	BodyID           int    `json:"BodyID"`
	ProbesUsed       int    `json:"ProbesUsed"`
	EfficiencyTarget int    `json:"EfficiencyTarget"`
}

func (SAAScanComplete) Kind() Kind { return KindSAAScanComplete }

// Efficient reports whether the mapping earned the efficiency bonus.
func (e SAAScanComplete) Efficient() bool {
	return e.EfficiencyTarget > 0 && e.ProbesUsed <= e.EfficiencyTarget
}

// Signal is one signal category count.
type Signal struct {
	Type          string `json:"Type"`
	TypeLocalised string `json:"Type_Localised"`
	Count         int    `json:"Count"`
}

// Signal type identifiers used by the journal.
const (
	SignalBiological = "$SAA_SignalType_Biological;"
	SignalGeological = "$SAA_SignalType_Geological;"
	SignalHuman      = "$SAA_SignalType_Human;"
	SignalThargoid   = "$SAA_SignalType_Thargoid;"
)

// CountSignals folds a signal list into per-category counts.
// Categories the model does not track are ignored.
func CountSignals(signals []Signal) model.Signals {
	var out model.Signals
	for _, s := range signals {
		switch s.Type {
		case SignalBiological:
			out.Biological += s.Count
		case SignalGeological:
			out.Geological += s.Count
		case SignalHuman:
			out.Human += s.Count
		case SignalThargoid:
			out.Thargoid += s.Count
		}
	}
	return out
}

type FSSBodySignals struct {
	Header
	BodyName      string   `json:"BodyName"`
	BodyID        int      `json:"BodyID"`
	SystemAddress int64    `json:"SystemAddress"`
	Signals       []Signal `json:"Signals"`
}

func (FSSBodySignals) Kind() Kind { return KindFSSBodySignals }

// GenusSignal names a genus detected by surface mapping.
type GenusSignal struct {
	Genus          string `json:"Genus"`
	GenusLocalised string `json:"Genus_Localised"`
}

type SAASignalsFound struct {
	Header
	BodyName      string        `json:"BodyName"`
	BodyID        int           `json:"BodyID"`
	SystemAddress int64         `json:"SystemAddress"`
	Signals       []Signal      `json:"Signals"`
	Genuses       []GenusSignal `json:"Genuses"`
}

func (SAASignalsFound) Kind() Kind { return KindSAASignalsFound }

// Organic scan stages.
const (
	OrganicLog     = "Log"
	OrganicSample  = "Sample"
	OrganicAnalyse = "Analyse"
)

type ScanOrganic struct {
	Header
	ScanType         string `json:"ScanType"`
	Genus            string `json:"Genus"`
	GenusLocalised   string `json:"Genus_Localised"`
	Species          string `json:"Species"`
	SpeciesLocalised string `json:"Species_Localised"`
	Variant          string `json:"Variant"`
	VariantLocalised string `json:"Variant_Localised"`
	SystemAddress    int64  `json:"SystemAddress"`
	Body             int    `json:"Body"`
}

func (ScanOrganic) Kind() Kind { return KindScanOrganic }

// Progress maps the stage to a progress level 1..3; unknown stages map to 0.
func (e ScanOrganic) Progress() int {
	switch e.ScanType {
	case OrganicLog:
		return 1
	case OrganicSample:
		return 2
	case OrganicAnalyse:
		return 3
	default:
		return 0
	}
}

// GenusName prefers the localised name.
func (e ScanOrganic) GenusName() string { return firstNonEmpty(e.GenusLocalised, e.Genus) }

// SpeciesName prefers the localised name.
func (e ScanOrganic) SpeciesName() string { return firstNonEmpty(e.SpeciesLocalised, e.Species) }

// VariantName prefers the localised name.
func (e ScanOrganic) VariantName() string { return firstNonEmpty(e.VariantLocalised, e.Variant) }

type CodexEntry struct {
	Header
	EntryID              int64  `json:"EntryID"`
	Name                 string `json:"Name"`
	NameLocalised        string `json:"Name_Localised"`
	Category             string `json:"Category"`
	CategoryLocalised    string `json:"Category_Localised"`
	SubCategory          string `json:"SubCategory"`
	SubCategoryLocalised string `json:"SubCategory_Localised"`
	Region               string `json:"Region"`
	RegionLocalised      string `json:"Region_Localised"`
	System               string `json:"System"`
	SystemAddress        int64  `json:"SystemAddress"`
	BodyID               *int   `json:"BodyID"`
	IsNewEntry           bool   `json:"IsNewEntry"`
	NewTraitsDiscovered  bool   `json:"NewTraitsDiscovered"`
	VoucherAmount        int64  `json:"VoucherAmount"`
}

func (CodexEntry) Kind() Kind { return KindCodexEntry }

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

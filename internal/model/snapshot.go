package model

import (
	"encoding/json"
	"fmt"
)

// SnapshotVersion is the current ScanSnapshot layout version.
const SnapshotVersion = 1

// Ring describes one ring reported by a Scan.
type Ring struct {
	Name     string  `json:"name"`
	Class    string  `json:"class"`
	MassMT   float64 `json:"mass_mt"`
	InnerRad float64 `json:"inner_rad"`
	OuterRad float64 `json:"outer_rad"`
}

// Material is a surface material share in percent.
type Material struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// ScanSnapshot is the richest scan seen for a body, kept verbatim for display.
// It is written as versioned JSON so older rows can still be decoded after the
// layout grows.
type ScanSnapshot struct {
	Version         int        `json:"version"`
	ScanType        ScanType   `json:"scan_type"`
	BodyName        string     `json:"body_name"`
	StarType        string     `json:"star_type,omitempty"`
	PlanetClass     string     `json:"planet_class,omitempty"`
	TerraformState  string     `json:"terraform_state,omitempty"`
	AtmosphereType  string     `json:"atmosphere_type,omitempty"`
	SurfacePressure *float64   `json:"surface_pressure,omitempty"`
	TidalLock       bool       `json:"tidal_lock,omitempty"`
	StellarMass     *float64   `json:"stellar_mass,omitempty"`
	Luminosity      string     `json:"luminosity,omitempty"`
	Rings           []Ring     `json:"rings,omitempty"`
	Materials       []Material `json:"materials,omitempty"`
}

// EncodeSnapshot serialises a snapshot for storage. A nil snapshot encodes as "".
func EncodeSnapshot(s *ScanSnapshot) (string, error) {
	if s == nil {
		return "", nil
	}
	if s.Version == 0 {
		s.Version = SnapshotVersion
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(data), nil
}

// DecodeSnapshot parses a stored snapshot. An empty string decodes to nil.
func DecodeSnapshot(data string) (*ScanSnapshot, error) {
	if data == "" {
		return nil, nil
	}
	var s ScanSnapshot
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version > SnapshotVersion {
		return nil, fmt.Errorf("decode snapshot: unsupported version %d", s.Version)
	}
	return &s, nil
}

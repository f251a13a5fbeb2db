package model

import "fmt"

// ScanType is the fidelity of the data held for a body.
// Values form a total order: None < Basic < Detailed < Mapped.
type ScanType int

const (
	ScanNone ScanType = iota
	ScanBasic
	ScanDetailed
	ScanMapped
)

func (s ScanType) String() string {
	switch s {
	case ScanNone:
		return "None"
	case ScanBasic:
		return "Basic"
	case ScanDetailed:
		return "Detailed"
	case ScanMapped:
		return "Mapped"
	default:
		return fmt.Sprintf("ScanType(%d)", int(s))
	}
}

// Valid reports whether s is one of the four known levels.
func (s ScanType) Valid() bool {
	return s >= ScanNone && s <= ScanMapped
}

// Merge combines the stored level with an incoming one.
// Mapped wins over everything, then Detailed; otherwise the incoming level is taken.
func (s ScanType) Merge(incoming ScanType) ScanType {
	if s == ScanMapped || incoming == ScanMapped {
		return ScanMapped
	}
	if s == ScanDetailed || incoming == ScanDetailed {
		return ScanDetailed
	}
	return incoming
}

// ScanTypeFromJournal maps the journal's Scan.ScanType string.
// AutoScan and NavBeaconDetail carry the full body description, so they rank
// as Detailed.
func ScanTypeFromJournal(v string) ScanType {
	switch v {
	case "Detailed", "AutoScan", "NavBeaconDetail":
		return ScanDetailed
	default:
		return ScanBasic
	}
}

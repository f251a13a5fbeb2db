package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/cartographer/internal/journal"
)

// Fields are the event-specific keys of a journal line.
type Fields map[string]any

// Line renders a journal line for kind at t with the given fields.
// Panics on unmarshalable fields; fixtures are static.
func Line(kind journal.Kind, t time.Time, fields Fields) []byte {
	obj := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		obj[k] = v
	}
	obj["timestamp"] = t.UTC().Format(time.RFC3339)
	obj["event"] = string(kind)
	b, err := json.Marshal(obj)
	if err != nil {
		panic(fmt.Sprintf("testutil.Line(%s): %v", kind, err))
	}
	return b
}

// Event decodes a Line into a typed journal event.
func Event(kind journal.Kind, t time.Time, fields Fields) journal.Event {
	ev, err := journal.Decode(Line(kind, t, fields))
	if err != nil {
		panic(fmt.Sprintf("testutil.Event(%s): %v", kind, err))
	}
	return ev
}

// Builder produces a timeline of events one minute apart starting at Epoch.
type Builder struct {
	at     time.Time
	events []journal.Event
	lines  [][]byte
}

// NewBuilder returns an empty timeline starting at Epoch.
func NewBuilder() *Builder {
	return &Builder{at: Epoch}
}

// Add appends an event one minute after the previous one.
func (b *Builder) Add(kind journal.Kind, fields Fields) *Builder {
	b.at = b.at.Add(time.Minute)
	line := Line(kind, b.at, fields)
	ev, err := journal.Decode(line)
	if err != nil {
		panic(fmt.Sprintf("testutil.Builder.Add(%s): %v", kind, err))
	}
	b.events = append(b.events, ev)
	b.lines = append(b.lines, line)
	return b
}

// Events returns the timeline.
func (b *Builder) Events() []journal.Event {
	return b.events
}

// JSONL renders the timeline as journal file content.
func (b *Builder) JSONL() []byte {
	return append(bytes.Join(b.lines, []byte("\n")), '\n')
}

// Jump is an FSDJump into the given system.
func Jump(b *Builder, address int64, name string, dist float64) *Builder {
	return b.Add(journal.KindFSDJump, Fields{
		"StarSystem":    name,
		"SystemAddress": address,
		"StarPos":       []float64{float64(address % 1000), 0, 0},
		"JumpDist":      dist,
		"FuelUsed":      dist / 10,
		"FuelLevel":     32 - dist/10,
	})
}

// PlanetScan is a detailed Scan of a landable high-metal-content planet.
func PlanetScan(b *Builder, address int64, system string, bodyID int) *Builder {
	return b.Add(journal.KindScan, Fields{
		"ScanType":           "Detailed",
		"BodyName":           fmt.Sprintf("%s %d", system, bodyID),
		"BodyID":             bodyID,
		"StarSystem":         system,
		"SystemAddress":      address,
		"PlanetClass":        "High metal content body",
		"Atmosphere":         "thin carbon dioxide atmosphere",
		"AtmosphereType":     "CarbonDioxide",
		"MassEM":             0.5,
		"Radius":             3500000.0,
		"SurfaceGravity":     4.9,
		"SurfaceTemperature": 180.0,
		"Landable":           true,
		"WasDiscovered":      false,
		"WasMapped":          false,
		"Parents":            []map[string]int{{"Star": 0}},
	})
}

// Signals is an FSSBodySignals with the given biological count.
func Signals(b *Builder, address int64, system string, bodyID, bio int) *Builder {
	return b.Add(journal.KindFSSBodySignals, Fields{
		"BodyName":      fmt.Sprintf("%s %d", system, bodyID),
		"BodyID":        bodyID,
		"SystemAddress": address,
		"Signals": []Fields{
			{"Type": journal.SignalBiological, "Count": bio},
		},
	})
}

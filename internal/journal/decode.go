package journal

import (
	"encoding/json"
	"fmt"
	"sort"
)

// decoders maps each discriminant to the decoder for its concrete type.
var decoders = map[Kind]func([]byte) (Event, error){}

func register[E Event](k Kind) {
	decoders[k] = func(data []byte) (Event, error) {
		var ev E
		if err := json.Unmarshal(data, &ev); err != nil {
			return nil, fmt.Errorf("decode %s: %w", k, err)
		}
		return ev, nil
	}
}

func init() {
	register[FSDJump](KindFSDJump)
	register[CarrierJump](KindCarrierJump)
	register[Location](KindLocation)
	register[FSSDiscoveryScan](KindFSSDiscoveryScan)
	register[FSSAllBodiesFound](KindFSSAllBodiesFound)
	register[NavRoute](KindNavRoute)
	register[NavRouteClear](KindNavRouteClear)

	register[Scan](KindScan)
	register[SAAScanComplete](KindSAAScanComplete)
	register[FSSBodySignals](KindFSSBodySignals)
	register[SAASignalsFound](KindSAASignalsFound)
	register[ScanOrganic](KindScanOrganic)
	register[CodexEntry](KindCodexEntry)

	register[LoadGame](KindLoadGame)
	register[Commander](KindCommander)
	register[Rank](KindRank)
	register[Progress](KindProgress)
	register[Reputation](KindReputation)
	register[Powerplay](KindPowerplay)
	register[Promotion](KindPromotion)
	register[Continued](KindContinued)
	register[Shutdown](KindShutdown)

	register[Touchdown](KindTouchdown)
	register[Liftoff](KindLiftoff)
	register[ApproachBody](KindApproachBody)
	register[LeaveBody](KindLeaveBody)
	register[Disembark](KindDisembark)
	register[Embark](KindEmbark)
	register[Docked](KindDocked)
	register[Undocked](KindUndocked)
}

// Decode parses one journal line.
// Lines whose discriminant is not handled decode to Unknown without error.
func Decode(line []byte) (Event, error) {
	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	if h.Event == "" {
		return nil, fmt.Errorf("decode header: missing event discriminant")
	}
	dec, ok := decoders[Kind(h.Event)]
	if !ok {
		raw := make([]byte, len(line))
		copy(raw, line)
		return Unknown{Header: h, Raw: raw}, nil
	}
	return dec(line)
}

// Kinds returns every discriminant with a decoder, sorted.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(decoders))
	for k := range decoders {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

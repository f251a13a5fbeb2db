package store

import (
	"time"

	"github.com/roach88/cartographer/internal/model"
)

// SystemUpsert is an incoming observation of a system.
type SystemUpsert struct {
	Address   int64
	Name      string
	Position  *model.Position
	BodyCount *int
	VisitedAt time.Time
}

// MergeSystem applies an observation to the stored system.
// LastVisited only advances, FirstVisited only moves back, and BodyCount is
// overwritten only by a non-null value. Aggregates are left to the recompute.
func MergeSystem(cur model.System, in SystemUpsert) model.System {
	out := cur
	if in.Name != "" {
		out.Name = model.NormalizeName(in.Name)
	}
	if in.Position != nil {
		out.Position = *in.Position
	}
	if in.BodyCount != nil {
		n := *in.BodyCount
		out.BodyCount = &n
	}
	if in.VisitedAt.After(out.LastVisited) {
		out.LastVisited = in.VisitedAt
	}
	if out.FirstVisited.IsZero() || (!in.VisitedAt.IsZero() && in.VisitedAt.Before(out.FirstVisited)) {
		out.FirstVisited = in.VisitedAt
	}
	return out
}

// MergeBody combines a stored body with an incoming scan of the same body.
//
//	scanType      Mapped > Detailed > incoming, never below the stored level
//	scanValue     frozen once Mapped, else max(old, new)
//	snapshot      frozen once Mapped, or Detailed against a non-Detailed scan
//	flags         logical OR
//	physical      incoming unless null/empty
//	parent, axis  incoming unless null
func MergeBody(cur, in model.Body) model.Body {
	out := cur

	out.ScanType = cur.ScanType.Merge(in.ScanType)
	if out.ScanType < cur.ScanType {
		out.ScanType = cur.ScanType
	}

	if cur.ScanType != model.ScanMapped && in.ScanValue > cur.ScanValue {
		out.ScanValue = in.ScanValue
	}

	if snapshotReplaceable(cur.ScanType, in.ScanType) && in.Snapshot != nil {
		out.Snapshot = in.Snapshot
	}

	out.Landable = cur.Landable || in.Landable
	out.Terraformable = cur.Terraformable || in.Terraformable
	out.WasDiscovered = cur.WasDiscovered || in.WasDiscovered
	out.WasMapped = cur.WasMapped || in.WasMapped
	out.WasFootfalled = cur.WasFootfalled || in.WasFootfalled
	out.DiscoveredByMe = cur.DiscoveredByMe || in.DiscoveredByMe
	out.MappedByMe = cur.MappedByMe || in.MappedByMe
	out.FootfalledByMe = cur.FootfalledByMe || in.FootfalledByMe

	if in.Name != "" {
		out.Name = in.Name
	}
	if in.Type != "" && in.Type != model.BodyUnknown {
		out.Type = in.Type
	}
	out.SubType = keepString(cur.SubType, in.SubType)
	out.Atmosphere = keepString(cur.Atmosphere, in.Atmosphere)
	out.Volcanism = keepString(cur.Volcanism, in.Volcanism)
	out.Mass = keepFloat(cur.Mass, in.Mass)
	out.Radius = keepFloat(cur.Radius, in.Radius)
	out.Gravity = keepFloat(cur.Gravity, in.Gravity)
	out.Temperature = keepFloat(cur.Temperature, in.Temperature)
	out.DistanceLS = keepFloat(cur.DistanceLS, in.DistanceLS)

	if in.ParentID != nil {
		out.ParentID = in.ParentID
	}
	if in.SemiMajorAxis != nil {
		out.SemiMajorAxis = in.SemiMajorAxis
	}

	if in.Signals != (model.Signals{}) {
		out.Signals = in.Signals
	}

	if in.UpdatedAt.After(out.UpdatedAt) {
		out.UpdatedAt = in.UpdatedAt
	}
	return out
}

func snapshotReplaceable(current, incoming model.ScanType) bool {
	switch current {
	case model.ScanMapped:
		return false
	case model.ScanDetailed:
		return incoming == model.ScanDetailed
	default:
		return true
	}
}

// MergeBiological combines a stored sample record with an incoming stage.
// Variant is kept when the incoming one is empty, value is kept unless the
// incoming value is positive, and progress only increases.
func MergeBiological(cur, in model.Biological) model.Biological {
	out := cur
	if in.Variant != "" {
		out.Variant = in.Variant
	}
	if in.Value > 0 {
		out.Value = in.Value
	}
	if in.ScanProgress > out.ScanProgress {
		out.ScanProgress = in.ScanProgress
	}
	if out.ScanProgress > model.MaxScanProgress {
		out.ScanProgress = model.MaxScanProgress
	}
	out.Scanned = out.ScanProgress >= model.MaxScanProgress
	if in.UpdatedAt.After(out.UpdatedAt) {
		out.UpdatedAt = in.UpdatedAt
	}
	return out
}

// MergeCodex combines a stored codex entry with a repeat observation.
// The new-traits flag and voucher amount merge via maximum.
func MergeCodex(cur, in model.CodexEntry) model.CodexEntry {
	out := cur
	out.Name = keepString(cur.Name, in.Name)
	out.Category = keepString(cur.Category, in.Category)
	out.SubCategory = keepString(cur.SubCategory, in.SubCategory)
	if out.SystemAddress == 0 {
		out.SystemAddress = in.SystemAddress
	}
	if in.BodyID != nil {
		out.BodyID = in.BodyID
	}
	out.IsNewEntry = cur.IsNewEntry || in.IsNewEntry
	out.NewTraits = cur.NewTraits || in.NewTraits
	if in.VoucherAmount > out.VoucherAmount {
		out.VoucherAmount = in.VoucherAmount
	}
	if out.FirstSeen.IsZero() || (!in.FirstSeen.IsZero() && in.FirstSeen.Before(out.FirstSeen)) {
		out.FirstSeen = in.FirstSeen
	}
	return out
}

func keepString(cur, in string) string {
	if in == "" {
		return cur
	}
	return in
}

func keepFloat(cur, in *float64) *float64 {
	if in == nil {
		return cur
	}
	return in
}

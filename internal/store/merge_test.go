package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/cartographer/internal/model"
)

func TestMergeBody_ScanTypePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		current  model.ScanType
		incoming model.ScanType
		want     model.ScanType
	}{
		{"mapped beats detailed", model.ScanMapped, model.ScanDetailed, model.ScanMapped},
		{"incoming mapped", model.ScanBasic, model.ScanMapped, model.ScanMapped},
		{"detailed beats basic", model.ScanDetailed, model.ScanBasic, model.ScanDetailed},
		{"basic upgrades to detailed", model.ScanBasic, model.ScanDetailed, model.ScanDetailed},
		{"none takes incoming", model.ScanNone, model.ScanBasic, model.ScanBasic},
		{"never below stored", model.ScanBasic, model.ScanNone, model.ScanBasic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeBody(model.Body{ScanType: tt.current}, model.Body{ScanType: tt.incoming})
			assert.Equal(t, tt.want, got.ScanType)
		})
	}
}

func TestMergeBody_ScanValue(t *testing.T) {
	got := MergeBody(model.Body{ScanType: model.ScanDetailed, ScanValue: 500}, model.Body{ScanType: model.ScanBasic, ScanValue: 300})
	assert.Equal(t, int64(500), got.ScanValue, "max of old and new")

	got = MergeBody(model.Body{ScanType: model.ScanBasic, ScanValue: 300}, model.Body{ScanType: model.ScanDetailed, ScanValue: 900})
	assert.Equal(t, int64(900), got.ScanValue)

	got = MergeBody(model.Body{ScanType: model.ScanMapped, ScanValue: 100}, model.Body{ScanType: model.ScanDetailed, ScanValue: 900})
	assert.Equal(t, int64(100), got.ScanValue, "frozen once mapped")
}

func TestMergeBody_Snapshot(t *testing.T) {
	oldSnap := &model.ScanSnapshot{BodyName: "old"}
	newSnap := &model.ScanSnapshot{BodyName: "new"}

	tests := []struct {
		name     string
		current  model.ScanType
		incoming model.ScanType
		want     *model.ScanSnapshot
	}{
		{"frozen when mapped", model.ScanMapped, model.ScanDetailed, oldSnap},
		{"detailed kept against basic", model.ScanDetailed, model.ScanBasic, oldSnap},
		{"detailed replaced by detailed", model.ScanDetailed, model.ScanDetailed, newSnap},
		{"basic replaced", model.ScanBasic, model.ScanBasic, newSnap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeBody(
				model.Body{ScanType: tt.current, Snapshot: oldSnap},
				model.Body{ScanType: tt.incoming, Snapshot: newSnap},
			)
			assert.Same(t, tt.want, got.Snapshot)
		})
	}
}

func TestMergeBody_FlagsAndPhysical(t *testing.T) {
	cur := model.Body{
		WasDiscovered: true,
		Mass:          ptr(1.0),
		Atmosphere:    "thin ammonia",
		SubType:       "Rocky body",
		ParentID:      ptr(1),
		SemiMajorAxis: ptr(10.0),
	}
	in := model.Body{
		WasMapped:   true,
		Radius:      ptr(5.0),
		Volcanism:   "minor water magma",
		SubType:     "",
		ParentID:    ptr(2),
		Temperature: ptr(180.0),
	}

	got := MergeBody(cur, in)

	assert.True(t, got.WasDiscovered)
	assert.True(t, got.WasMapped)
	assert.Equal(t, 1.0, *got.Mass, "kept when incoming is null")
	assert.Equal(t, 5.0, *got.Radius, "filled from incoming")
	assert.Equal(t, 180.0, *got.Temperature)
	assert.Equal(t, "thin ammonia", got.Atmosphere)
	assert.Equal(t, "minor water magma", got.Volcanism)
	assert.Equal(t, "Rocky body", got.SubType, "kept when incoming is empty")
	assert.Equal(t, 2, *got.ParentID, "incoming parent wins")
	assert.Equal(t, 10.0, *got.SemiMajorAxis, "kept when incoming is null")
}

func TestMergeBody_PhysicalIncomingWins(t *testing.T) {
	got := MergeBody(model.Body{Mass: ptr(1.0), Atmosphere: "a"}, model.Body{Mass: ptr(2.0), Atmosphere: "b"})
	assert.Equal(t, 2.0, *got.Mass)
	assert.Equal(t, "b", got.Atmosphere)
}

func TestMergeSystem(t *testing.T) {
	cur := model.System{
		Name:         "Sol",
		FirstVisited: at(10),
		LastVisited:  at(20),
		BodyCount:    ptr(8),
	}

	got := MergeSystem(cur, SystemUpsert{VisitedAt: at(5)})
	assert.Equal(t, at(20), got.LastVisited, "last visited never moves back")
	assert.Equal(t, at(5), got.FirstVisited)
	assert.Equal(t, 8, *got.BodyCount, "null body count keeps existing")

	got = MergeSystem(cur, SystemUpsert{VisitedAt: at(30), BodyCount: ptr(9)})
	assert.Equal(t, at(30), got.LastVisited)
	assert.Equal(t, 9, *got.BodyCount)
	assert.Equal(t, "Sol", got.Name)
}

func TestMergeBiological(t *testing.T) {
	cur := model.Biological{Variant: "Green", Value: 1362000, ScanProgress: 2}

	got := MergeBiological(cur, model.Biological{Value: 0, ScanProgress: 1})
	assert.Equal(t, "Green", got.Variant)
	assert.Equal(t, int64(1362000), got.Value)
	assert.Equal(t, 2, got.ScanProgress)
	assert.False(t, got.Scanned)

	got = MergeBiological(cur, model.Biological{Variant: "Teal", Value: 1500000, ScanProgress: 3})
	assert.Equal(t, "Teal", got.Variant)
	assert.Equal(t, int64(1500000), got.Value)
	assert.True(t, got.Scanned)
}

func TestMergeCodex(t *testing.T) {
	cur := model.CodexEntry{Name: "Stratum", VoucherAmount: 100, NewTraits: true, FirstSeen: at(1)}

	got := MergeCodex(cur, model.CodexEntry{VoucherAmount: 50, FirstSeen: at(2)})
	assert.Equal(t, int64(100), got.VoucherAmount)
	assert.True(t, got.NewTraits)
	assert.Equal(t, at(1), got.FirstSeen)
	assert.Equal(t, "Stratum", got.Name)
}

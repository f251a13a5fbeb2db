package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cartographer/internal/model"
	"github.com/roach88/cartographer/internal/valuation"
)

func TestUpsertBody_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sys := createTestSystem(t, s, 42, "Idempotence")

	first, err := s.UpsertBody(ctx, sys.ID, detailedPlanet(3, 12000, 5))
	require.NoError(t, err)
	sysAfterFirst, err := s.GetSystemByID(ctx, sys.ID)
	require.NoError(t, err)

	second, err := s.UpsertBody(ctx, sys.ID, detailedPlanet(3, 12000, 5))
	require.NoError(t, err)
	sysAfterSecond, err := s.GetSystemByID(ctx, sys.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, sysAfterFirst, sysAfterSecond)

	bodies, err := s.GetSystemBodies(ctx, sys.ID)
	require.NoError(t, err)
	assert.Len(t, bodies, 1)
}

func TestUpsertScannedBody_CreatesSystemWithBody(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := detailedPlanet(4, 9000, 2)
	in.Signals = model.Signals{Biological: 3}
	body, err := s.UpsertScannedBody(ctx, 77, "Scanned First", in)
	require.NoError(t, err)
	assert.Equal(t, 3, body.Signals.Biological)

	sys, err := s.GetSystemByAddress(ctx, 77)
	require.NoError(t, err)
	assert.Equal(t, "Scanned First", sys.Name)
	assert.Equal(t, sys.ID, body.SystemID)
	assert.Equal(t, 1, sys.DiscoveredCount)
	assert.Equal(t, int64(9000), sys.TotalValue)

	again, err := s.UpsertScannedBody(ctx, 77, "", detailedPlanet(4, 9000, 3))
	require.NoError(t, err)
	assert.Equal(t, body.ID, again.ID)
	assert.Equal(t, 3, again.Signals.Biological, "a scan without signals keeps the stored counts")
}

func TestUpsertScannedBody_InvalidScanTypeWritesNothing(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	in := detailedPlanet(4, 9000, 2)
	in.ScanType = model.ScanType(9)
	_, err := s.UpsertScannedBody(ctx, 78, "Never", in)
	require.Error(t, err)

	_, err = s.GetSystemByAddress(ctx, 78)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertBody_MappedIsFrozen(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sys := createTestSystem(t, s, 42, "Fidelity")

	initial := detailedPlanet(7, 5000, 1)
	initial.Radius = nil
	_, err := s.UpsertBody(ctx, sys.ID, initial)
	require.NoError(t, err)

	mapped, changed, err := s.UpdateBodyMapped(ctx, sys.ID, 7, true, at(2))
	require.NoError(t, err)
	require.True(t, changed)
	require.Equal(t, model.ScanMapped, mapped.ScanType)
	value := mapped.ScanValue
	snapshot := mapped.Snapshot

	rescan := detailedPlanet(7, 999999, 3)
	rescan.Mass = ptr(9.0)
	rescan.Radius = ptr(4200000.0)
	rescan.Snapshot = &model.ScanSnapshot{ScanType: model.ScanDetailed, BodyName: "rescan"}
	got, err := s.UpsertBody(ctx, sys.ID, rescan)
	require.NoError(t, err)

	assert.Equal(t, model.ScanMapped, got.ScanType)
	assert.Equal(t, value, got.ScanValue)
	assert.Equal(t, snapshot, got.Snapshot)
	require.NotNil(t, got.Radius, "previously null field is filled")
	assert.Equal(t, 4200000.0, *got.Radius)
}

func TestUpdateBodyMapped_AlreadyMapped(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sys := createTestSystem(t, s, 42, "Mapped Twice")

	_, err := s.UpsertBody(ctx, sys.ID, detailedPlanet(1, 100, 1))
	require.NoError(t, err)

	first, changed, err := s.UpdateBodyMapped(ctx, sys.ID, 1, false, at(2))
	require.NoError(t, err)
	require.True(t, changed)
	assert.True(t, first.MappedByMe)

	second, changed, err := s.UpdateBodyMapped(ctx, sys.ID, 1, true, at(3))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, first.ScanValue, second.ScanValue)
}

func TestUpdateBodyMapped_UnknownBody(t *testing.T) {
	s := createTestStore(t)
	sys := createTestSystem(t, s, 42, "Empty")

	_, _, err := s.UpdateBodyMapped(context.Background(), sys.ID, 99, false, at(1))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestUpsertBody_RecomputesAggregates(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sys := createTestSystem(t, s, 42, "Aggregates")

	star := model.Body{BodyID: 0, Name: "Aggregates", Type: model.BodyStar, SubType: "K", Mass: ptr(0.8), ScanType: model.ScanDetailed, ScanValue: 2500, UpdatedAt: at(1)}
	ring := model.Body{BodyID: 4, Name: "Aggregates 1 A Ring", Type: model.BodyRing, ScanType: model.ScanDetailed, ScanValue: 7777, UpdatedAt: at(1)}

	_, err := s.UpsertBody(ctx, sys.ID, star)
	require.NoError(t, err)
	_, err = s.UpsertBody(ctx, sys.ID, ring)
	require.NoError(t, err)
	_, err = s.UpsertBody(ctx, sys.ID, detailedPlanet(1, 10000, 1))
	require.NoError(t, err)
	planet, _, err := s.UpdateBodyMapped(ctx, sys.ID, 1, false, at(2))
	require.NoError(t, err)

	got, err := s.GetSystemByID(ctx, sys.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, got.DiscoveredCount, "rings are excluded")
	assert.Equal(t, 1, got.MappedCount)
	assert.Equal(t, 2500+planet.ScanValue, got.TotalValue)
	assert.Positive(t, got.EstimatedFSSValue)
	assert.Greater(t, got.EstimatedDSSValue, got.EstimatedFSSValue)
}

func TestUpdateBodySignals(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sys := createTestSystem(t, s, 42, "Signals")

	_, err := s.UpsertBody(ctx, sys.ID, detailedPlanet(2, 100, 1))
	require.NoError(t, err)

	got, err := s.UpdateBodySignals(ctx, sys.ID, 2, model.Signals{Biological: 3, Geological: 1}, at(2))
	require.NoError(t, err)
	assert.Equal(t, model.Signals{Biological: 3, Geological: 1}, got.Signals)

	rescan, err := s.UpsertBody(ctx, sys.ID, detailedPlanet(2, 100, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, rescan.Signals.Biological, "scans without signals keep stored counts")
}

func TestUpdateBodyFootfalled(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sys := createTestSystem(t, s, 42, "Footfall")

	_, err := s.UpsertBody(ctx, sys.ID, detailedPlanet(2, 100, 1))
	require.NoError(t, err)

	got, err := s.UpdateBodyFootfalled(ctx, sys.ID, 2, at(2))
	require.NoError(t, err)
	assert.True(t, got.WasFootfalled)
	assert.True(t, got.FootfalledByMe)
	assert.Equal(t, at(2), got.UpdatedAt)
}

func TestSetBodyScanType_RejectsDowngrade(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sys := createTestSystem(t, s, 42, "Downgrade")

	_, err := s.UpsertBody(ctx, sys.ID, detailedPlanet(2, 100, 1))
	require.NoError(t, err)

	_, err = s.SetBodyScanType(ctx, sys.ID, 2, model.ScanBasic, at(2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrScanTypeDowngrade))
	assert.True(t, IsConstraint(err))

	b, err := s.GetBody(ctx, sys.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, model.ScanDetailed, b.ScanType)

	b, err = s.SetBodyScanType(ctx, sys.ID, 2, model.ScanMapped, at(3))
	require.NoError(t, err)
	assert.Equal(t, model.ScanMapped, b.ScanType)
}

func TestGetBodyByAddress(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sys := createTestSystem(t, s, 4242, "Lookup")

	_, err := s.UpsertBody(ctx, sys.ID, detailedPlanet(6, 100, 1))
	require.NoError(t, err)

	b, err := s.GetBodyByAddress(ctx, 4242, 6)
	require.NoError(t, err)
	assert.Equal(t, sys.ID, b.SystemID)

	_, err = s.GetBodyByAddress(ctx, 4242, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

type fixedCalculator int64

func (c fixedCalculator) ScanValue(valuation.ValueInput) int64 { return int64(c) }

func TestWithCalculator(t *testing.T) {
	path := t.TempDir() + "/calc.db"
	s, err := Open(path, WithCalculator(fixedCalculator(1000)))
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	sys := createTestSystem(t, s, 1, "Calc")
	_, err = s.UpsertBody(ctx, sys.ID, detailedPlanet(1, 10, 1))
	require.NoError(t, err)
	b, _, err := s.UpdateBodyMapped(ctx, sys.ID, 1, false, at(2))
	require.NoError(t, err)
	assert.Equal(t, int64(1000), b.ScanValue)

	got, err := s.GetSystemByID(ctx, sys.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got.EstimatedFSSValue)
	assert.Equal(t, int64(1000), got.EstimatedDSSValue)
}

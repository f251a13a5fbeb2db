package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cartographer/internal/model"
)

func TestUpsertBiological_ValueFloor(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sys := createTestSystem(t, s, 1, "Bio")
	body, err := s.UpsertBody(ctx, sys.ID, detailedPlanet(3, 100, 1))
	require.NoError(t, err)

	_, err = s.UpsertBiological(ctx, model.Biological{
		BodyPK: body.ID, Genus: "Stratum", Species: "Stratum Tectonicas",
		Value: 1362000, ScanProgress: 1, UpdatedAt: at(2),
	})
	require.NoError(t, err)

	got, err := s.UpsertBiological(ctx, model.Biological{
		BodyPK: body.ID, Genus: "Stratum", Species: "Stratum Tectonicas",
		Value: 0, ScanProgress: 2, UpdatedAt: at(3),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1362000), got.Value)
	assert.Equal(t, 2, got.ScanProgress)

	bios, err := s.GetBiologicals(ctx, body.ID)
	require.NoError(t, err)
	require.Len(t, bios, 1)
	assert.Equal(t, int64(1362000), bios[0].Value)
}

func TestUpsertBiological_ProgressMonotonic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	sys := createTestSystem(t, s, 1, "Bio")
	body, err := s.UpsertBody(ctx, sys.ID, detailedPlanet(3, 100, 1))
	require.NoError(t, err)

	bio := model.Biological{BodyPK: body.ID, Genus: "Bacterium", Species: "Bacterium Aurasus", Variant: "Teal"}
	for _, p := range []int{1, 3, 2} {
		bio.ScanProgress = p
		bio.UpdatedAt = at(p)
		_, err := s.UpsertBiological(ctx, bio)
		require.NoError(t, err)
	}

	bios, err := s.GetBiologicals(ctx, body.ID)
	require.NoError(t, err)
	require.Len(t, bios, 1)
	assert.Equal(t, 3, bios[0].ScanProgress)
	assert.True(t, bios[0].Scanned)
	assert.Equal(t, "Teal", bios[0].Variant)
}

func TestUpsertBiological_InvalidProgress(t *testing.T) {
	s := createTestStore(t)
	_, err := s.UpsertBiological(context.Background(), model.Biological{BodyPK: 1, Genus: "g", Species: "s", ScanProgress: 4})
	require.Error(t, err)
}

func TestUpsertCodexEntry_MaxMerge(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertCodexEntry(ctx, model.CodexEntry{
		EntryID: 2420101, Region: "Inner Orion Spur", Name: "Stratum Tectonicas - Emerald",
		VoucherAmount: 100, NewTraits: true, FirstSeen: at(1),
	})
	require.NoError(t, err)

	got, err := s.UpsertCodexEntry(ctx, model.CodexEntry{
		EntryID: 2420101, Region: "Inner Orion Spur", Name: "Stratum Tectonicas - Emerald",
		VoucherAmount: 50, FirstSeen: at(2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.VoucherAmount)
	assert.True(t, got.NewTraits)

	stored, err := s.GetCodexEntry(ctx, 2420101, "Inner Orion Spur")
	require.NoError(t, err)
	assert.Equal(t, int64(100), stored.VoucherAmount)
	assert.Equal(t, at(1), stored.FirstSeen)

	_, err = s.GetCodexEntry(ctx, 2420101, "Elsewhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddRouteEntry_AppendOnly(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	a := createTestSystem(t, s, 1, "A")
	b := createTestSystem(t, s, 2, "B")

	entries := []model.RouteEntry{
		{SystemID: a.ID, Timestamp: at(1), JumpDistance: 20.5, FuelUsed: 1.2, FuelLevel: 30, SessionID: "s1"},
		{SystemID: b.ID, Timestamp: at(2), JumpDistance: 18.1, FuelUsed: 1.0, FuelLevel: 29, SessionID: "s1"},
		{SystemID: a.ID, Timestamp: at(3), JumpDistance: 18.1, FuelUsed: 1.0, FuelLevel: 28, SessionID: "s1"},
	}
	for _, e := range entries {
		inserted, err := s.AddRouteEntry(ctx, e)
		require.NoError(t, err)
		assert.True(t, inserted)
	}

	inserted, err := s.AddRouteEntry(ctx, entries[0])
	require.NoError(t, err)
	assert.False(t, inserted, "re-import of the same jump is ignored")

	history, err := s.RouteHistory(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, at(3), history[0].Timestamp, "newest first")

	recent, err := s.RouteHistory(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestDump_StableAcrossStores(t *testing.T) {
	ctx := context.Background()
	fill := func(s *Store) []byte {
		sys := createTestSystem(t, s, 77, "Dumped")
		body, err := s.UpsertBody(ctx, sys.ID, detailedPlanet(1, 100, 1))
		require.NoError(t, err)
		_, err = s.UpsertBiological(ctx, model.Biological{BodyPK: body.ID, Genus: "Tussock", Species: "Tussock Pennata", ScanProgress: 1, UpdatedAt: at(2)})
		require.NoError(t, err)
		_, err = s.AddRouteEntry(ctx, model.RouteEntry{SystemID: sys.ID, Timestamp: at(0), SessionID: "s"})
		require.NoError(t, err)

		st, err := s.Dump(ctx)
		require.NoError(t, err)
		data, err := st.JSON()
		require.NoError(t, err)
		return data
	}

	a := fill(createTestStore(t))
	b := fill(createTestStore(t))
	assert.Equal(t, string(a), string(b))
	assert.Contains(t, string(a), `"system_address": 77`)
}

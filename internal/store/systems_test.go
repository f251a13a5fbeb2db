package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cartographer/internal/model"
)

func TestUpsertSystem_CreateThenMerge(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	sys, created, err := s.UpsertSystem(ctx, SystemUpsert{
		Address:   100,
		Name:      "Colonia",
		Position:  &model.Position{X: -9530.5, Y: -910.28, Z: 19808.125},
		VisitedAt: at(10),
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, at(10), sys.FirstVisited)
	assert.Nil(t, sys.BodyCount)

	sys, created, err = s.UpsertSystem(ctx, SystemUpsert{Address: 100, Name: "Colonia", VisitedAt: at(5)})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, at(10), sys.LastVisited, "older visit does not move last visited back")
	assert.Equal(t, at(5), sys.FirstVisited)
	assert.Equal(t, -9530.5, sys.Position.X, "missing position keeps stored one")

	stored, err := s.GetSystemByAddress(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, sys, stored)
}

func TestEnsureSystem_Placeholder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	sys, err := s.EnsureSystem(ctx, 555, "", at(1))
	require.NoError(t, err)
	assert.Equal(t, "System 555", sys.Name)
	assert.Equal(t, model.Position{}, sys.Position)

	again, err := s.EnsureSystem(ctx, 555, "Renamed", at(2))
	require.NoError(t, err)
	assert.Equal(t, sys, again, "existing rows are not modified")

	named, _, err := s.UpsertSystem(ctx, SystemUpsert{Address: 555, Name: "Real Name", Position: &model.Position{X: 1}, VisitedAt: at(3)})
	require.NoError(t, err)
	assert.Equal(t, "Real Name", named.Name)
	assert.Equal(t, 1.0, named.Position.X)
	assert.Equal(t, sys.ID, named.ID)
}

func TestSetBodyCount_OnlyNonNull(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestSystem(t, s, 7, "Counted")

	sys, err := s.SetBodyCount(ctx, 7, "", 12, at(1))
	require.NoError(t, err)
	require.NotNil(t, sys.BodyCount)
	assert.Equal(t, 12, *sys.BodyCount)

	sys, _, err = s.UpsertSystem(ctx, SystemUpsert{Address: 7, VisitedAt: at(2)})
	require.NoError(t, err)
	require.NotNil(t, sys.BodyCount)
	assert.Equal(t, 12, *sys.BodyCount)
}

func TestSetAllBodiesFound(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	sys, err := s.SetAllBodiesFound(ctx, 8, "Complete", 5, at(1))
	require.NoError(t, err)
	assert.True(t, sys.AllBodiesFound)
	assert.Equal(t, 5, *sys.BodyCount)

	stored, err := s.GetSystemByAddress(ctx, 8)
	require.NoError(t, err)
	assert.True(t, stored.AllBodiesFound)
}

func TestSetBodyCount_KeepsVisitTimes(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestSystem(t, s, 7, "Counted")

	sys, err := s.SetBodyCount(ctx, 7, "", 9, at(30))
	require.NoError(t, err)
	assert.Equal(t, at(0), sys.LastVisited)
	assert.Equal(t, at(0), sys.FirstVisited)
	assert.Equal(t, "Counted", sys.Name)
	assert.Equal(t, 9, *sys.BodyCount)
}

func TestSetBodyCount_NamesUnknownSystem(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	sys, err := s.SetBodyCount(ctx, 9, "Alpha", 4, at(1))
	require.NoError(t, err)
	assert.Equal(t, "Alpha", sys.Name)
	assert.Equal(t, at(1), sys.FirstVisited)

	found, err := s.SetAllBodiesFound(ctx, 9, "Alpha", 4, at(2))
	require.NoError(t, err)
	assert.Equal(t, "Alpha", found.Name)
}

func TestSetAllBodiesFound_ReplacesPlaceholderName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.EnsureSystem(ctx, 11, "", at(1))
	require.NoError(t, err)

	sys, err := s.SetAllBodiesFound(ctx, 11, "Beta", 3, at(2))
	require.NoError(t, err)
	assert.Equal(t, "Beta", sys.Name)

	stored, err := s.GetSystemByName(ctx, "beta")
	require.NoError(t, err)
	assert.Equal(t, sys.ID, stored.ID)
}

func TestGetSystemByName_IgnoresCase(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	created := createTestSystem(t, s, 9, "Beagle Point")

	got, err := s.GetSystemByName(ctx, "BEAGLE POINT")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = s.GetSystemByName(ctx, "Nowhere")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSystems_OrderedByAddress(t *testing.T) {
	s := createTestStore(t)
	createTestSystem(t, s, 30, "C")
	createTestSystem(t, s, 10, "A")
	createTestSystem(t, s, 20, "B")

	systems, err := s.ListSystems(context.Background())
	require.NoError(t, err)
	require.Len(t, systems, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{systems[0].Name, systems[1].Name, systems[2].Name})
}

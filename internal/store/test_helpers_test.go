package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/cartographer/internal/model"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var baseTime = time.Date(3310, 5, 1, 12, 0, 0, 0, time.UTC)

// at returns baseTime shifted by the given number of minutes.
func at(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}

func ptr[T any](v T) *T { return &v }

// createTestSystem inserts a system at a fixed position.
func createTestSystem(t *testing.T, s *Store, address int64, name string) *model.System {
	t.Helper()
	sys, _, err := s.UpsertSystem(context.Background(), SystemUpsert{
		Address:   address,
		Name:      name,
		Position:  &model.Position{X: 1, Y: 2, Z: 3},
		VisitedAt: at(0),
	})
	require.NoError(t, err)
	return sys
}

// detailedPlanet returns a Detailed scan of a high metal content planet.
func detailedPlanet(bodyID int, value int64, minute int) model.Body {
	return model.Body{
		BodyID:      bodyID,
		Name:        "Test Body",
		Type:        model.BodyPlanet,
		SubType:     "High metal content body",
		Mass:        ptr(0.5),
		Radius:      ptr(3000000.0),
		Gravity:     ptr(0.3),
		Temperature: ptr(250.0),
		Atmosphere:  "thin carbon dioxide atmosphere",
		ScanType:    model.ScanDetailed,
		ScanValue:   value,
		Snapshot:    &model.ScanSnapshot{ScanType: model.ScanDetailed, BodyName: "Test Body", PlanetClass: "High metal content body"},
		UpdatedAt:   at(minute),
	}
}

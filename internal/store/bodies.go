package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/cartographer/internal/model"
	"github.com/roach88/cartographer/internal/valuation"
)

const bodyColumns = `id, system_id, body_id, name, body_type, sub_type,
	mass, radius, gravity, temperature, atmosphere, volcanism,
	landable, terraformable, was_discovered, was_mapped, was_footfalled,
	discovered_by_me, mapped_by_me, footfalled_by_me,
	scan_type, scan_value, bio_signals, geo_signals, human_signals, thargoid_signals,
	parent_id, semi_major_axis, distance_ls, snapshot, updated_at`

// UpsertBody merges an incoming scan into the body keyed by
// (systemID, in.BodyID) and recomputes the system's aggregates.
// Returns the stored body after the merge.
func (s *Store) UpsertBody(ctx context.Context, systemID int64, in model.Body) (*model.Body, error) {
	if !in.ScanType.Valid() {
		return nil, classify("upsert body", fmt.Errorf("invalid scan type %d", in.ScanType))
	}

	var out *model.Body
	err := s.inTx(ctx, "upsert body", func(tx *sql.Tx) error {
		var err error
		out, err = s.upsertBody(ctx, tx, systemID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertScannedBody is UpsertBody for a body whose system may not be stored
// yet. The placeholder system, the body and the aggregates are written in one
// transaction.
func (s *Store) UpsertScannedBody(ctx context.Context, address int64, systemName string, in model.Body) (*model.Body, error) {
	if !in.ScanType.Valid() {
		return nil, classify("upsert scanned body", fmt.Errorf("invalid scan type %d", in.ScanType))
	}

	var out *model.Body
	err := s.inTx(ctx, "upsert scanned body", func(tx *sql.Tx) error {
		sys, err := getSystem(ctx, tx, "system_address = ?", address)
		if errors.Is(err, ErrNotFound) {
			sys, err = insertPlaceholder(ctx, tx, SystemUpsert{Address: address, Name: systemName, VisitedAt: in.UpdatedAt})
		}
		if err != nil {
			return err
		}
		out, err = s.upsertBody(ctx, tx, sys.ID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) upsertBody(ctx context.Context, tx *sql.Tx, systemID int64, in model.Body) (*model.Body, error) {
	in.SystemID = systemID
	cur, err := getBody(ctx, tx, "system_id = ? AND body_id = ?", systemID, in.BodyID)
	var b model.Body
	switch {
	case errors.Is(err, ErrNotFound):
		b = MergeBody(model.Body{SystemID: systemID, BodyID: in.BodyID, Type: model.BodyUnknown}, in)
		id, err := insertBody(ctx, tx, b)
		if err != nil {
			return nil, err
		}
		b.ID = id
	case err != nil:
		return nil, err
	default:
		b = MergeBody(*cur, in)
		if err := updateBody(ctx, tx, b); err != nil {
			return nil, err
		}
	}
	if err := s.recomputeAggregates(ctx, tx, systemID); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBody returns the body keyed by (systemID, bodyID) or ErrNotFound.
func (s *Store) GetBody(ctx context.Context, systemID int64, bodyID int) (*model.Body, error) {
	b, err := getBody(ctx, s.db, "system_id = ? AND body_id = ?", systemID, bodyID)
	return b, classify("get body", err)
}

// GetBodyByAddress resolves the body through its system's address.
func (s *Store) GetBodyByAddress(ctx context.Context, address int64, bodyID int) (*model.Body, error) {
	b, err := getBody(ctx, s.db,
		"system_id = (SELECT id FROM systems WHERE system_address = ?) AND body_id = ?",
		address, bodyID)
	return b, classify("get body", err)
}

// GetSystemBodies returns all bodies of a system ordered by body id.
func (s *Store) GetSystemBodies(ctx context.Context, systemID int64) ([]model.Body, error) {
	bodies, err := listBodies(ctx, s.db, "WHERE system_id = ? ORDER BY body_id ASC", systemID)
	return bodies, classify("get system bodies", err)
}

// UpdateBodyMapped promotes the body to Mapped and stores the mapped value.
// A body that is already Mapped is returned unchanged with changed=false.
func (s *Store) UpdateBodyMapped(ctx context.Context, systemID int64, bodyID int, efficient bool, at time.Time) (b *model.Body, changed bool, err error) {
	err = s.inTx(ctx, "update body mapped", func(tx *sql.Tx) error {
		cur, err := getBody(ctx, tx, "system_id = ? AND body_id = ?", systemID, bodyID)
		if err != nil {
			return err
		}
		if cur.ScanType == model.ScanMapped {
			b = cur
			return nil
		}

		next := *cur
		next.ScanType = model.ScanMapped
		next.MappedByMe = next.MappedByMe || !cur.WasMapped
		next.ScanValue = s.calc.ScanValue(valuation.InputFor(*cur, true, efficient))
		if at.After(next.UpdatedAt) {
			next.UpdatedAt = at
		}
		if err := updateBody(ctx, tx, next); err != nil {
			return err
		}
		b, changed = &next, true
		return s.recomputeAggregates(ctx, tx, systemID)
	})
	if err != nil {
		return nil, false, err
	}
	return b, changed, nil
}

// UpdateBodySignals replaces the body's signal counts.
func (s *Store) UpdateBodySignals(ctx context.Context, systemID int64, bodyID int, signals model.Signals, at time.Time) (*model.Body, error) {
	return s.updateBody(ctx, "update body signals", systemID, bodyID, func(b *model.Body) {
		b.Signals = signals
		if at.After(b.UpdatedAt) {
			b.UpdatedAt = at
		}
	})
}

// UpdateBodyFootfalled records that the commander set foot on the body.
func (s *Store) UpdateBodyFootfalled(ctx context.Context, systemID int64, bodyID int, at time.Time) (*model.Body, error) {
	return s.updateBody(ctx, "update body footfalled", systemID, bodyID, func(b *model.Body) {
		b.FootfalledByMe = b.FootfalledByMe || !b.WasFootfalled
		b.WasFootfalled = true
		if at.After(b.UpdatedAt) {
			b.UpdatedAt = at
		}
	})
}

// SetBodyScanType writes a scan type directly, bypassing the merge rules.
// Lowering the stored level fails with ErrScanTypeDowngrade.
func (s *Store) SetBodyScanType(ctx context.Context, systemID int64, bodyID int, st model.ScanType, at time.Time) (*model.Body, error) {
	if !st.Valid() {
		return nil, classify("set body scan type", fmt.Errorf("invalid scan type %d", st))
	}
	var out *model.Body
	err := s.inTx(ctx, "set body scan type", func(tx *sql.Tx) error {
		cur, err := getBody(ctx, tx, "system_id = ? AND body_id = ?", systemID, bodyID)
		if err != nil {
			return err
		}
		if st < cur.ScanType {
			return fmt.Errorf("%w: %s to %s", ErrScanTypeDowngrade, cur.ScanType, st)
		}
		next := *cur
		next.ScanType = st
		if at.After(next.UpdatedAt) {
			next.UpdatedAt = at
		}
		if err := updateBody(ctx, tx, next); err != nil {
			return err
		}
		out = &next
		return s.recomputeAggregates(ctx, tx, systemID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) updateBody(ctx context.Context, op string, systemID int64, bodyID int, mutate func(*model.Body)) (*model.Body, error) {
	var out *model.Body
	err := s.inTx(ctx, op, func(tx *sql.Tx) error {
		cur, err := getBody(ctx, tx, "system_id = ? AND body_id = ?", systemID, bodyID)
		if err != nil {
			return err
		}
		next := *cur
		mutate(&next)
		if err := updateBody(ctx, tx, next); err != nil {
			return err
		}
		out = &next
		return s.recomputeAggregates(ctx, tx, systemID)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func getBody(ctx context.Context, q queryer, where string, args ...any) (*model.Body, error) {
	row := q.QueryRowContext(ctx, `SELECT `+bodyColumns+` FROM bodies WHERE `+where, args...)
	b, err := scanBody(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return b, err
}

func listBodies(ctx context.Context, q queryer, tail string, args ...any) ([]model.Body, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+bodyColumns+` FROM bodies `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query bodies: %w", err)
	}
	defer rows.Close()

	bodies := []model.Body{}
	for rows.Next() {
		b, err := scanBody(rows)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bodies: %w", err)
	}
	return bodies, nil
}

func scanBody(row rowScanner) (*model.Body, error) {
	var (
		b                                     model.Body
		bodyType, snapshot, updatedAt         string
		mass, radius, gravity, temperature    sql.NullFloat64
		semiMajorAxis, distanceLS             sql.NullFloat64
		parentID                              sql.NullInt64
		landable, terraformable               int
		wasDiscovered, wasMapped, wasFootfall int
		discByMe, mapByMe, footByMe           int
	)
	err := row.Scan(
		&b.ID, &b.SystemID, &b.BodyID, &b.Name, &bodyType, &b.SubType,
		&mass, &radius, &gravity, &temperature, &b.Atmosphere, &b.Volcanism,
		&landable, &terraformable, &wasDiscovered, &wasMapped, &wasFootfall,
		&discByMe, &mapByMe, &footByMe,
		&b.ScanType, &b.ScanValue,
		&b.Signals.Biological, &b.Signals.Geological, &b.Signals.Human, &b.Signals.Thargoid,
		&parentID, &semiMajorAxis, &distanceLS, &snapshot, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan body: %w", err)
	}

	b.Type = model.BodyType(bodyType)
	b.Mass = floatPtr(mass)
	b.Radius = floatPtr(radius)
	b.Gravity = floatPtr(gravity)
	b.Temperature = floatPtr(temperature)
	b.SemiMajorAxis = floatPtr(semiMajorAxis)
	b.DistanceLS = floatPtr(distanceLS)
	b.ParentID = intPtr(parentID)
	b.Landable = landable != 0
	b.Terraformable = terraformable != 0
	b.WasDiscovered = wasDiscovered != 0
	b.WasMapped = wasMapped != 0
	b.WasFootfalled = wasFootfall != 0
	b.DiscoveredByMe = discByMe != 0
	b.MappedByMe = mapByMe != 0
	b.FootfalledByMe = footByMe != 0

	if b.Snapshot, err = model.DecodeSnapshot(snapshot); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func bodyArgs(b model.Body) ([]any, error) {
	snapshot, err := model.EncodeSnapshot(b.Snapshot)
	if err != nil {
		return nil, err
	}
	return []any{
		b.Name, string(b.Type), b.SubType,
		nullFloat(b.Mass), nullFloat(b.Radius), nullFloat(b.Gravity), nullFloat(b.Temperature),
		b.Atmosphere, b.Volcanism,
		boolInt(b.Landable), boolInt(b.Terraformable),
		boolInt(b.WasDiscovered), boolInt(b.WasMapped), boolInt(b.WasFootfalled),
		boolInt(b.DiscoveredByMe), boolInt(b.MappedByMe), boolInt(b.FootfalledByMe),
		int(b.ScanType), b.ScanValue,
		b.Signals.Biological, b.Signals.Geological, b.Signals.Human, b.Signals.Thargoid,
		nullInt(b.ParentID), nullFloat(b.SemiMajorAxis), nullFloat(b.DistanceLS),
		snapshot, formatTime(b.UpdatedAt),
	}, nil
}

func insertBody(ctx context.Context, tx *sql.Tx, b model.Body) (int64, error) {
	args, err := bodyArgs(b)
	if err != nil {
		return 0, fmt.Errorf("insert body: %w", err)
	}
	args = append([]any{b.SystemID, b.BodyID}, args...)
	res, err := tx.ExecContext(ctx, `
		INSERT INTO bodies
		(system_id, body_id, name, body_type, sub_type,
		 mass, radius, gravity, temperature, atmosphere, volcanism,
		 landable, terraformable, was_discovered, was_mapped, was_footfalled,
		 discovered_by_me, mapped_by_me, footfalled_by_me,
		 scan_type, scan_value, bio_signals, geo_signals, human_signals, thargoid_signals,
		 parent_id, semi_major_axis, distance_ls, snapshot, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, args...)
	if err != nil {
		return 0, fmt.Errorf("insert body: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert body: last insert id: %w", err)
	}
	return id, nil
}

func updateBody(ctx context.Context, tx *sql.Tx, b model.Body) error {
	args, err := bodyArgs(b)
	if err != nil {
		return fmt.Errorf("update body: %w", err)
	}
	args = append(args, b.ID)
	_, err = tx.ExecContext(ctx, `
		UPDATE bodies SET
			name = ?, body_type = ?, sub_type = ?,
			mass = ?, radius = ?, gravity = ?, temperature = ?, atmosphere = ?, volcanism = ?,
			landable = ?, terraformable = ?, was_discovered = ?, was_mapped = ?, was_footfalled = ?,
			discovered_by_me = ?, mapped_by_me = ?, footfalled_by_me = ?,
			scan_type = ?, scan_value = ?,
			bio_signals = ?, geo_signals = ?, human_signals = ?, thargoid_signals = ?,
			parent_id = ?, semi_major_axis = ?, distance_ls = ?, snapshot = ?, updated_at = ?
		WHERE id = ?
	`, args...)
	if err != nil {
		return fmt.Errorf("update body: %w", err)
	}
	return nil
}

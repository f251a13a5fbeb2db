package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/cartographer/internal/model"
)

const systemColumns = `id, system_address, name, x, y, z, first_visited, last_visited, body_count,
	discovered_count, mapped_count, total_value, estimated_fss_value, estimated_dss_value, all_bodies_found`

// UpsertSystem creates the system on first sight or merges the observation
// into the stored row. Returns the stored system and whether it was created.
func (s *Store) UpsertSystem(ctx context.Context, in SystemUpsert) (*model.System, bool, error) {
	var (
		out     *model.System
		created bool
	)
	err := s.inTx(ctx, "upsert system", func(tx *sql.Tx) error {
		cur, err := getSystem(ctx, tx, "system_address = ?", in.Address)
		switch {
		case errors.Is(err, ErrNotFound):
			created = true
			out, err = insertPlaceholder(ctx, tx, in)
			return err
		case err != nil:
			return err
		}

		sys := MergeSystem(*cur, in)
		if err := updateSystem(ctx, tx, sys); err != nil {
			return err
		}
		out = &sys
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

// EnsureSystem returns the stored system, creating a placeholder at the origin
// when the address has never been seen. An existing row is not modified.
func (s *Store) EnsureSystem(ctx context.Context, address int64, name string, at time.Time) (*model.System, error) {
	var out *model.System
	err := s.inTx(ctx, "ensure system", func(tx *sql.Tx) error {
		cur, err := getSystem(ctx, tx, "system_address = ?", address)
		if err == nil {
			out = cur
			return nil
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		out, err = insertPlaceholder(ctx, tx, SystemUpsert{Address: address, Name: name, VisitedAt: at})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetSystemByAddress returns the system with the given address or ErrNotFound.
func (s *Store) GetSystemByAddress(ctx context.Context, address int64) (*model.System, error) {
	sys, err := getSystem(ctx, s.db, "system_address = ?", address)
	return sys, classify("get system", err)
}

// GetSystemByID returns the system with the given surrogate id or ErrNotFound.
func (s *Store) GetSystemByID(ctx context.Context, id int64) (*model.System, error) {
	sys, err := getSystem(ctx, s.db, "id = ?", id)
	return sys, classify("get system", err)
}

// GetSystemByName looks a system up by name, ignoring case and Unicode
// normalisation differences. The lowest id wins when names collide.
func (s *Store) GetSystemByName(ctx context.Context, name string) (*model.System, error) {
	sys, err := getSystem(ctx, s.db, "name_key = ? ORDER BY id ASC LIMIT 1", model.NameKey(name))
	return sys, classify("get system", err)
}

// SetBodyCount records the number of bodies reported by a discovery scan.
// An existing row keeps its visit times; an unknown system is created with
// the scan as its first visit.
func (s *Store) SetBodyCount(ctx context.Context, address int64, name string, count int, at time.Time) (*model.System, error) {
	var out *model.System
	err := s.inTx(ctx, "set body count", func(tx *sql.Tx) error {
		cur, err := getSystem(ctx, tx, "system_address = ?", address)
		if errors.Is(err, ErrNotFound) {
			sys, err := insertPlaceholder(ctx, tx, SystemUpsert{Address: address, Name: name, BodyCount: &count, VisitedAt: at})
			out = sys
			return err
		}
		if err != nil {
			return err
		}

		sys := MergeSystem(*cur, SystemUpsert{Address: address, Name: name, BodyCount: &count})
		if err := updateSystem(ctx, tx, sys); err != nil {
			return err
		}
		out = &sys
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetAllBodiesFound marks the system as fully discovered. Unknown systems are
// created as placeholders first.
func (s *Store) SetAllBodiesFound(ctx context.Context, address int64, name string, count int, at time.Time) (*model.System, error) {
	var out *model.System
	err := s.inTx(ctx, "set all bodies found", func(tx *sql.Tx) error {
		cur, err := getSystem(ctx, tx, "system_address = ?", address)
		if errors.Is(err, ErrNotFound) {
			cur, err = insertPlaceholder(ctx, tx, SystemUpsert{Address: address, Name: name, VisitedAt: at})
		}
		if err != nil {
			return err
		}

		sys := MergeSystem(*cur, SystemUpsert{Address: address, Name: name, BodyCount: &count})
		sys.AllBodiesFound = true
		if err := updateSystem(ctx, tx, sys); err != nil {
			return err
		}
		out = &sys
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// insertPlaceholder creates a system row from a partial observation, naming
// it after its address when the observation carries no name.
func insertPlaceholder(ctx context.Context, tx *sql.Tx, in SystemUpsert) (*model.System, error) {
	sys := MergeSystem(model.System{Address: in.Address}, in)
	if sys.Name == "" {
		sys.Name = fmt.Sprintf("System %d", in.Address)
	}
	id, err := insertSystem(ctx, tx, sys)
	if err != nil {
		return nil, err
	}
	sys.ID = id
	return &sys, nil
}

// ListSystems returns all systems ordered by address.
func (s *Store) ListSystems(ctx context.Context) ([]model.System, error) {
	systems, err := listSystems(ctx, s.db)
	return systems, classify("list systems", err)
}

func listSystems(ctx context.Context, q queryer) ([]model.System, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+systemColumns+` FROM systems ORDER BY system_address ASC`)
	if err != nil {
		return nil, fmt.Errorf("query systems: %w", err)
	}
	defer rows.Close()

	systems := []model.System{}
	for rows.Next() {
		sys, err := scanSystem(rows)
		if err != nil {
			return nil, err
		}
		systems = append(systems, *sys)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate systems: %w", err)
	}
	return systems, nil
}

func getSystem(ctx context.Context, q queryer, where string, args ...any) (*model.System, error) {
	row := q.QueryRowContext(ctx, `SELECT `+systemColumns+` FROM systems WHERE `+where, args...)
	sys, err := scanSystem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sys, err
}

func scanSystem(row rowScanner) (*model.System, error) {
	var (
		sys                    model.System
		firstVisited, lastSeen string
		bodyCount              sql.NullInt64
		allFound               int
	)
	err := row.Scan(
		&sys.ID, &sys.Address, &sys.Name,
		&sys.Position.X, &sys.Position.Y, &sys.Position.Z,
		&firstVisited, &lastSeen, &bodyCount,
		&sys.DiscoveredCount, &sys.MappedCount,
		&sys.TotalValue, &sys.EstimatedFSSValue, &sys.EstimatedDSSValue,
		&allFound,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan system: %w", err)
	}
	if sys.FirstVisited, err = parseTime(firstVisited); err != nil {
		return nil, err
	}
	if sys.LastVisited, err = parseTime(lastSeen); err != nil {
		return nil, err
	}
	sys.BodyCount = intPtr(bodyCount)
	sys.AllBodiesFound = allFound != 0
	return &sys, nil
}

func insertSystem(ctx context.Context, tx *sql.Tx, sys model.System) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO systems
		(system_address, name, name_key, x, y, z, first_visited, last_visited, body_count, all_bodies_found)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sys.Address,
		sys.Name,
		model.NameKey(sys.Name),
		sys.Position.X, sys.Position.Y, sys.Position.Z,
		formatTime(sys.FirstVisited),
		formatTime(sys.LastVisited),
		nullInt(sys.BodyCount),
		boolInt(sys.AllBodiesFound),
	)
	if err != nil {
		return 0, fmt.Errorf("insert system: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert system: last insert id: %w", err)
	}
	return id, nil
}

func updateSystem(ctx context.Context, tx *sql.Tx, sys model.System) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE systems SET
			name = ?, name_key = ?, x = ?, y = ?, z = ?,
			first_visited = ?, last_visited = ?, body_count = ?, all_bodies_found = ?
		WHERE id = ?
	`,
		sys.Name,
		model.NameKey(sys.Name),
		sys.Position.X, sys.Position.Y, sys.Position.Z,
		formatTime(sys.FirstVisited),
		formatTime(sys.LastVisited),
		nullInt(sys.BodyCount),
		boolInt(sys.AllBodiesFound),
		sys.ID,
	)
	if err != nil {
		return fmt.Errorf("update system: %w", err)
	}
	return nil
}

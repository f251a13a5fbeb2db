package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/cartographer/internal/model"
)

const routeColumns = `id, system_id, timestamp, jump_distance, fuel_used, fuel_level, session_id`

// AddRouteEntry appends a jump to the route ledger. Entries are never merged;
// a repeat of the same (system, timestamp) is ignored so re-imports are safe.
// Returns whether a new row was inserted.
func (s *Store) AddRouteEntry(ctx context.Context, e model.RouteEntry) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO route_history
		(system_id, timestamp, jump_distance, fuel_used, fuel_level, session_id)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(system_id, timestamp) DO NOTHING
	`,
		e.SystemID, formatTime(e.Timestamp), e.JumpDistance, e.FuelUsed, e.FuelLevel, e.SessionID,
	)
	if err != nil {
		return false, classify("add route entry", fmt.Errorf("insert route entry: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, classify("add route entry", fmt.Errorf("rows affected: %w", err))
	}
	return n > 0, nil
}

// RouteHistory returns the most recent jumps, newest first. A limit of zero
// or less returns the whole ledger.
func (s *Store) RouteHistory(ctx context.Context, limit int) ([]model.RouteEntry, error) {
	tail := "ORDER BY timestamp DESC, id DESC"
	var args []any
	if limit > 0 {
		tail += " LIMIT ?"
		args = append(args, limit)
	}
	entries, err := listRoute(ctx, s.db, tail, args...)
	return entries, classify("route history", err)
}

func listRoute(ctx context.Context, q queryer, tail string, args ...any) ([]model.RouteEntry, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+routeColumns+` FROM route_history `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query route history: %w", err)
	}
	defer rows.Close()

	entries := []model.RouteEntry{}
	for rows.Next() {
		var (
			e  model.RouteEntry
			ts string
		)
		if err := rows.Scan(&e.ID, &e.SystemID, &ts, &e.JumpDistance, &e.FuelUsed, &e.FuelLevel, &e.SessionID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, err
			}
			return nil, fmt.Errorf("scan route entry: %w", err)
		}
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate route history: %w", err)
	}
	return entries, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/cartographer/internal/model"
)

const codexColumns = `id, entry_id, region, name, category, sub_category, system_address,
	body_id, is_new_entry, new_traits, voucher_amount, first_seen`

// UpsertCodexEntry merges a codex observation into the entry keyed by
// (in.EntryID, in.Region).
func (s *Store) UpsertCodexEntry(ctx context.Context, in model.CodexEntry) (*model.CodexEntry, error) {
	var out *model.CodexEntry
	err := s.inTx(ctx, "upsert codex entry", func(tx *sql.Tx) error {
		cur, err := getCodex(ctx, tx, in.EntryID, in.Region)
		switch {
		case errors.Is(err, ErrNotFound):
			entry := MergeCodex(model.CodexEntry{EntryID: in.EntryID, Region: in.Region}, in)
			res, err := tx.ExecContext(ctx, `
				INSERT INTO codex_entries
				(entry_id, region, name, category, sub_category, system_address,
				 body_id, is_new_entry, new_traits, voucher_amount, first_seen)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				entry.EntryID, entry.Region, entry.Name, entry.Category, entry.SubCategory,
				entry.SystemAddress, nullInt(entry.BodyID), boolInt(entry.IsNewEntry),
				boolInt(entry.NewTraits), entry.VoucherAmount, formatTime(entry.FirstSeen),
			)
			if err != nil {
				return fmt.Errorf("insert codex entry: %w", err)
			}
			if entry.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("insert codex entry: last insert id: %w", err)
			}
			out = &entry
			return nil
		case err != nil:
			return err
		}

		entry := MergeCodex(*cur, in)
		_, err = tx.ExecContext(ctx, `
			UPDATE codex_entries SET
				name = ?, category = ?, sub_category = ?, system_address = ?, body_id = ?,
				is_new_entry = ?, new_traits = ?, voucher_amount = ?, first_seen = ?
			WHERE id = ?
		`,
			entry.Name, entry.Category, entry.SubCategory, entry.SystemAddress, nullInt(entry.BodyID),
			boolInt(entry.IsNewEntry), boolInt(entry.NewTraits), entry.VoucherAmount,
			formatTime(entry.FirstSeen), entry.ID,
		)
		if err != nil {
			return fmt.Errorf("update codex entry: %w", err)
		}
		out = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetCodexEntry returns the entry keyed by (entryID, region) or ErrNotFound.
func (s *Store) GetCodexEntry(ctx context.Context, entryID int64, region string) (*model.CodexEntry, error) {
	entry, err := getCodex(ctx, s.db, entryID, region)
	return entry, classify("get codex entry", err)
}

func getCodex(ctx context.Context, q queryer, entryID int64, region string) (*model.CodexEntry, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+codexColumns+` FROM codex_entries WHERE entry_id = ? AND region = ?`,
		entryID, region)
	entry, err := scanCodex(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return entry, err
}

func listCodex(ctx context.Context, q queryer) ([]model.CodexEntry, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+codexColumns+` FROM codex_entries ORDER BY entry_id ASC, region ASC`)
	if err != nil {
		return nil, fmt.Errorf("query codex entries: %w", err)
	}
	defer rows.Close()

	entries := []model.CodexEntry{}
	for rows.Next() {
		entry, err := scanCodex(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate codex entries: %w", err)
	}
	return entries, nil
}

func scanCodex(row rowScanner) (*model.CodexEntry, error) {
	var (
		entry            model.CodexEntry
		bodyID           sql.NullInt64
		isNew, newTraits int
		firstSeen        string
	)
	err := row.Scan(&entry.ID, &entry.EntryID, &entry.Region, &entry.Name, &entry.Category,
		&entry.SubCategory, &entry.SystemAddress, &bodyID, &isNew, &newTraits,
		&entry.VoucherAmount, &firstSeen)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan codex entry: %w", err)
	}
	entry.BodyID = intPtr(bodyID)
	entry.IsNewEntry = isNew != 0
	entry.NewTraits = newTraits != 0
	if entry.FirstSeen, err = parseTime(firstSeen); err != nil {
		return nil, err
	}
	return &entry, nil
}

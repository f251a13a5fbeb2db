package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/cartographer/internal/model"
)

const biologicalColumns = `id, body_pk, genus, species, variant, value, scan_progress, scanned, updated_at`

// UpsertBiological merges a sample stage into the record keyed by
// (in.BodyPK, in.Genus, in.Species).
func (s *Store) UpsertBiological(ctx context.Context, in model.Biological) (*model.Biological, error) {
	if in.ScanProgress < 0 || in.ScanProgress > model.MaxScanProgress {
		return nil, classify("upsert biological", fmt.Errorf("invalid scan progress %d", in.ScanProgress))
	}

	var out *model.Biological
	err := s.inTx(ctx, "upsert biological", func(tx *sql.Tx) error {
		cur, err := getBiological(ctx, tx, in.BodyPK, in.Genus, in.Species)
		switch {
		case errors.Is(err, ErrNotFound):
			bio := MergeBiological(model.Biological{BodyPK: in.BodyPK, Genus: in.Genus, Species: in.Species}, in)
			res, err := tx.ExecContext(ctx, `
				INSERT INTO biologicals
				(body_pk, genus, species, variant, value, scan_progress, scanned, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`,
				bio.BodyPK, bio.Genus, bio.Species, bio.Variant, bio.Value,
				bio.ScanProgress, boolInt(bio.Scanned), formatTime(bio.UpdatedAt),
			)
			if err != nil {
				return fmt.Errorf("insert biological: %w", err)
			}
			if bio.ID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("insert biological: last insert id: %w", err)
			}
			out = &bio
			return nil
		case err != nil:
			return err
		}

		bio := MergeBiological(*cur, in)
		_, err = tx.ExecContext(ctx, `
			UPDATE biologicals SET variant = ?, value = ?, scan_progress = ?, scanned = ?, updated_at = ?
			WHERE id = ?
		`, bio.Variant, bio.Value, bio.ScanProgress, boolInt(bio.Scanned), formatTime(bio.UpdatedAt), bio.ID)
		if err != nil {
			return fmt.Errorf("update biological: %w", err)
		}
		out = &bio
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetBiologicals returns the samples recorded on a body ordered by genus and species.
func (s *Store) GetBiologicals(ctx context.Context, bodyPK int64) ([]model.Biological, error) {
	bios, err := listBiologicals(ctx, s.db, "WHERE body_pk = ? ORDER BY genus ASC, species ASC", bodyPK)
	return bios, classify("get biologicals", err)
}

func getBiological(ctx context.Context, q queryer, bodyPK int64, genus, species string) (*model.Biological, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+biologicalColumns+` FROM biologicals WHERE body_pk = ? AND genus = ? AND species = ?`,
		bodyPK, genus, species)
	bio, err := scanBiological(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return bio, err
}

func listBiologicals(ctx context.Context, q queryer, tail string, args ...any) ([]model.Biological, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+biologicalColumns+` FROM biologicals `+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query biologicals: %w", err)
	}
	defer rows.Close()

	bios := []model.Biological{}
	for rows.Next() {
		bio, err := scanBiological(rows)
		if err != nil {
			return nil, err
		}
		bios = append(bios, *bio)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate biologicals: %w", err)
	}
	return bios, nil
}

func scanBiological(row rowScanner) (*model.Biological, error) {
	var (
		bio       model.Biological
		scanned   int
		updatedAt string
	)
	err := row.Scan(&bio.ID, &bio.BodyPK, &bio.Genus, &bio.Species, &bio.Variant,
		&bio.Value, &bio.ScanProgress, &scanned, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan biological: %w", err)
	}
	bio.Scanned = scanned != 0
	if bio.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &bio, nil
}

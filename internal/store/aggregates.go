package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/cartographer/internal/model"
	"github.com/roach88/cartographer/internal/valuation"
)

// Aggregates are the values derived from a system's bodies.
type Aggregates struct {
	DiscoveredCount   int
	MappedCount       int
	TotalValue        int64
	EstimatedFSSValue int64
	EstimatedDSSValue int64
}

// ComputeAggregates derives system aggregates from its bodies.
// Rings and belt clusters are excluded from every figure.
func (s *Store) ComputeAggregates(bodies []model.Body) Aggregates {
	var agg Aggregates
	for i := range bodies {
		b := &bodies[i]
		if !b.CountsTowardValue() {
			continue
		}
		if b.ScanType >= model.ScanBasic {
			agg.DiscoveredCount++
		}
		if b.ScanType == model.ScanMapped {
			agg.MappedCount++
		}
		agg.TotalValue += b.ScanValue
		agg.EstimatedFSSValue += s.calc.ScanValue(valuation.InputFor(*b, false, false))
		if b.Type == model.BodyStar {
			agg.EstimatedDSSValue += s.calc.ScanValue(valuation.InputFor(*b, false, false))
		} else {
			agg.EstimatedDSSValue += s.calc.ScanValue(valuation.InputFor(*b, true, true))
		}
	}
	return agg
}

// recomputeAggregates refreshes the system row from its bodies. It runs in
// the caller's transaction so the body write and the aggregate land together.
func (s *Store) recomputeAggregates(ctx context.Context, tx *sql.Tx, systemID int64) error {
	bodies, err := listBodies(ctx, tx, "WHERE system_id = ? ORDER BY body_id ASC", systemID)
	if err != nil {
		return fmt.Errorf("recompute aggregates: %w", err)
	}
	agg := s.ComputeAggregates(bodies)
	_, err = tx.ExecContext(ctx, `
		UPDATE systems SET
			discovered_count = ?, mapped_count = ?, total_value = ?,
			estimated_fss_value = ?, estimated_dss_value = ?
		WHERE id = ?
	`,
		agg.DiscoveredCount, agg.MappedCount, agg.TotalValue,
		agg.EstimatedFSSValue, agg.EstimatedDSSValue,
		systemID,
	)
	if err != nil {
		return fmt.Errorf("recompute aggregates: %w", err)
	}
	return nil
}

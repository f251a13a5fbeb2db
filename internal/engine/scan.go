package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/cartographer/internal/journal"
	"github.com/roach88/cartographer/internal/model"
	"github.com/roach88/cartographer/internal/notify"
	"github.com/roach88/cartographer/internal/store"
	"github.com/roach88/cartographer/internal/valuation"
)

// standardGravity converts the journal's m/s² surface gravity to g.
const standardGravity = 9.80665

// MismatchPayload accompanies exobiology-mismatch.
type MismatchPayload struct {
	SystemAddress int64                 `json:"system_address"`
	BodyID        int                   `json:"body_id"`
	Body          valuation.BodyParams  `json:"body"`
	Predicted     []valuation.Candidate `json:"predicted"`
	Actual        valuation.Candidate   `json:"actual"`
}

func (e *Engine) onScan(ctx context.Context, ev journal.Scan, backfill bool) error {
	in := bodyFromScan(ev)
	in.ScanValue = e.calc.ScanValue(valuation.InputFor(in, false, false))
	sig, pending := e.session.pending.Get(ev.SystemAddress, ev.BodyID)
	if pending {
		in.Signals = sig
	}

	body, err := e.store.UpsertScannedBody(ctx, ev.SystemAddress, ev.StarSystem, in)
	if err != nil {
		return fmt.Errorf("Scan: %w", err)
	}
	if pending {
		e.session.pending.Delete(ev.SystemAddress, ev.BodyID)
		e.logger.Debug("applied pending signals", "body", body.Name, "bio", sig.Biological, "geo", sig.Geological)
	}

	e.logEstimate(body)
	e.session.emit(notify.BodyScanned, body, backfill)
	return nil
}

// bodyFromScan maps a Scan onto the Body fields the merge rules consume.
func bodyFromScan(ev journal.Scan) model.Body {
	return model.Body{
		BodyID:         ev.BodyID,
		Name:           ev.BodyName,
		Type:           model.ClassifyBody(ev.BodyName, ev.StarType, ev.PlanetClass),
		SubType:        ev.SubType(),
		Mass:           ev.Mass(),
		Radius:         ev.Radius,
		Gravity:        ev.SurfaceGravity,
		Temperature:    ev.SurfaceTemperature,
		Atmosphere:     ev.Atmosphere,
		Volcanism:      ev.Volcanism,
		Landable:       ev.Landable,
		Terraformable:  ev.Terraformable(),
		WasDiscovered:  ev.WasDiscovered,
		WasMapped:      ev.WasMapped,
		WasFootfalled:  ev.WasFootfalled,
		DiscoveredByMe: !ev.WasDiscovered,
		ScanType:       model.ScanTypeFromJournal(ev.ScanType),
		ParentID:       ev.ParentID(),
		SemiMajorAxis:  ev.SemiMajorAxis,
		DistanceLS:     ev.DistanceFromArrivalLS,
		Snapshot:       ev.Snapshot(),
		UpdatedAt:      ev.Timestamp,
	}
}

func (e *Engine) onSAAScanComplete(ctx context.Context, ev journal.SAAScanComplete, backfill bool) error {
	body, err := e.store.GetBodyByAddress(ctx, ev.SystemAddress, ev.BodyID)
	if errors.Is(err, store.ErrNotFound) {
		e.logger.Warn("mapped body was never scanned", "address", ev.SystemAddress, "body_id", ev.BodyID, "name", ev.BodyName)
		return nil
	}
	if err != nil {
		return fmt.Errorf("SAAScanComplete: %w", err)
	}

	body, changed, err := e.store.UpdateBodyMapped(ctx, body.SystemID, ev.BodyID, ev.Efficient(), ev.Timestamp)
	if err != nil {
		return fmt.Errorf("SAAScanComplete: %w", err)
	}
	if !changed {
		e.logger.Debug("body already mapped", "body", body.Name)
	}
	e.session.emit(notify.BodyMapped, body, backfill)
	return nil
}

// onSignals handles FSSBodySignals and SAASignalsFound.
func (e *Engine) onSignals(ctx context.Context, address int64, bodyID int, name string, sig model.Signals, at time.Time, backfill bool) error {
	body, err := e.store.GetBodyByAddress(ctx, address, bodyID)
	if errors.Is(err, store.ErrNotFound) {
		if model.IsRingName(name) {
			e.logger.Debug("dropping ring signals", "body", name)
			return nil
		}
		e.session.pending.Put(address, bodyID, sig)
		e.logger.Debug("buffered signals", "body", name, "pending", e.session.pending.Len())
		return nil
	}
	if err != nil {
		return fmt.Errorf("signals: %w", err)
	}

	hadBio := body.Signals.Biological > 0
	body, err = e.store.UpdateBodySignals(ctx, body.SystemID, bodyID, sig, at)
	if err != nil {
		return fmt.Errorf("signals: %w", err)
	}

	e.session.emit(notify.BodySignalsUpdated, body, backfill)
	if !hadBio && sig.Biological > 0 {
		e.logEstimate(body)
	}
	return nil
}

func (e *Engine) onScanOrganic(ctx context.Context, ev journal.ScanOrganic, backfill bool) error {
	body, err := e.store.GetBodyByAddress(ctx, ev.SystemAddress, ev.Body)
	if errors.Is(err, store.ErrNotFound) {
		sys, err := e.store.EnsureSystem(ctx, ev.SystemAddress, "", ev.Timestamp)
		if err != nil {
			return fmt.Errorf("ScanOrganic: %w", err)
		}
		body, err = e.store.UpsertBody(ctx, sys.ID, model.Body{
			SystemID:  sys.ID,
			BodyID:    ev.Body,
			Name:      fmt.Sprintf("%s body %d", sys.Name, ev.Body),
			Type:      model.BodyUnknown,
			UpdatedAt: ev.Timestamp,
		})
		if err != nil {
			return fmt.Errorf("ScanOrganic: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("ScanOrganic: %w", err)
	}

	genus, species := ev.GenusName(), ev.SpeciesName()
	value, ok := e.bio.Value(genus, species)
	if !ok {
		e.logger.Debug("no value for species", "genus", genus, "species", species)
	}

	bio, err := e.store.UpsertBiological(ctx, model.Biological{
		BodyPK:       body.ID,
		Genus:        genus,
		Species:      species,
		Variant:      ev.VariantName(),
		Value:        value,
		ScanProgress: ev.Progress(),
		UpdatedAt:    ev.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("ScanOrganic: %w", err)
	}

	if ev.ScanType == journal.OrganicAnalyse && !backfill {
		e.checkMismatch(ev, body, bio)
	}

	e.session.emit(notify.BioScanned, BioScannedPayload{Body: body, Biological: bio}, backfill)
	return nil
}

func (e *Engine) onCodexEntry(ctx context.Context, ev journal.CodexEntry, backfill bool) error {
	name := ev.NameLocalised
	if name == "" {
		name = ev.Name
	}
	entry, err := e.store.UpsertCodexEntry(ctx, model.CodexEntry{
		EntryID:       ev.EntryID,
		Region:        ev.Region,
		Name:          name,
		Category:      firstOf(ev.CategoryLocalised, ev.Category),
		SubCategory:   firstOf(ev.SubCategoryLocalised, ev.SubCategory),
		SystemAddress: ev.SystemAddress,
		BodyID:        ev.BodyID,
		IsNewEntry:    ev.IsNewEntry,
		NewTraits:     ev.NewTraitsDiscovered,
		VoucherAmount: ev.VoucherAmount,
		FirstSeen:     ev.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("CodexEntry: %w", err)
	}
	e.session.emit(notify.CodexEntry, entry, backfill)
	return nil
}

func bodyParams(b *model.Body) valuation.BodyParams {
	p := valuation.BodyParams{
		BodyName:    b.Name,
		PlanetClass: b.SubType,
		Atmosphere:  b.Atmosphere,
		Volcanism:   b.Volcanism,
		Landable:    b.Landable,
		BioSignals:  b.Signals.Biological,
	}
	if b.Temperature != nil {
		p.Temperature = *b.Temperature
	}
	if b.Gravity != nil {
		p.Gravity = *b.Gravity / standardGravity
	}
	return p
}

// logEstimate logs the organisms the estimator expects on the body.
// Estimator failures are logged and otherwise ignored.
func (e *Engine) logEstimate(b *model.Body) {
	if b.Signals.Biological <= 0 {
		return
	}
	candidates, err := e.estimator.Estimate(bodyParams(b))
	if err != nil {
		e.logger.Warn("genus estimate failed", "body", b.Name, "error", err)
		return
	}
	if len(candidates) == 0 {
		return
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Species
	}
	e.logger.Debug("possible genera", "body", b.Name, "bio", b.Signals.Biological, "candidates", names)
}

// checkMismatch compares the analysed organism against the estimate for its
// body. Bodies the estimator has no prediction for are skipped.
func (e *Engine) checkMismatch(ev journal.ScanOrganic, body *model.Body, bio *model.Biological) {
	params := bodyParams(body)
	// A body with an organic scan has at least one bio signal even when the
	// signal event was never seen.
	if params.BioSignals <= 0 {
		params.BioSignals = 1
	}
	predicted, err := e.estimator.Estimate(params)
	if err != nil {
		e.logger.Warn("mismatch check failed", "body", body.Name, "error", err)
		return
	}
	if len(predicted) == 0 {
		return
	}
	actual := valuation.Candidate{Genus: bio.Genus, Species: bio.Species, Variant: bio.Variant}
	if !valuation.Mismatch(predicted, actual) {
		return
	}
	e.logger.Info("exobiology mismatch", "body", body.Name, "species", actual.Species, "predicted", len(predicted))
	e.session.sink.Emit(notify.ExobiologyMismatch, MismatchPayload{
		SystemAddress: ev.SystemAddress,
		BodyID:        ev.Body,
		Body:          params,
		Predicted:     predicted,
		Actual:        actual,
	})
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/cartographer/internal/journal"
	"github.com/roach88/cartographer/internal/notify"
	"github.com/roach88/cartographer/internal/store"
)

func (e *Engine) onTouchdown(ev journal.Touchdown) error {
	v := e.session.Surface()
	id := ev.BodyID
	v.Landed = true
	v.BodyName = ev.Body
	v.BodyID = &id
	v.Latitude = ev.Latitude
	v.Longitude = ev.Longitude
	e.session.SetSurface(v)
	return nil
}

func (e *Engine) onLiftoff(journal.Liftoff) error {
	v := e.session.Surface()
	v.Landed = false
	if !v.OnFoot {
		v.BodyName, v.BodyID = "", nil
		v.Latitude, v.Longitude = 0, 0
	}
	e.session.SetSurface(v)
	return nil
}

func (e *Engine) onApproachBody(ev journal.ApproachBody) error {
	v := e.session.Surface()
	id := ev.BodyID
	v.NearBody = ev.Body
	v.NearBodyID = &id
	e.session.SetSurface(v)
	return nil
}

func (e *Engine) onLeaveBody(journal.LeaveBody) error {
	e.session.SetSurface(SurfaceState{})
	return nil
}

// onDisembark marks the body footfalled when the commander steps onto a
// planet. Bodies that were never scanned only update the surface state.
func (e *Engine) onDisembark(ctx context.Context, ev journal.Disembark, backfill bool) error {
	if !ev.OnPlanet {
		return nil
	}
	v := e.session.Surface()
	id := ev.BodyID
	v.OnFoot = true
	v.BodyName = ev.Body
	v.BodyID = &id
	e.session.SetSurface(v)

	body, err := e.store.GetBodyByAddress(ctx, ev.SystemAddress, ev.BodyID)
	if errors.Is(err, store.ErrNotFound) {
		e.logger.Debug("footfall on unscanned body", "body", ev.Body)
		return nil
	}
	if err != nil {
		return fmt.Errorf("Disembark: %w", err)
	}

	body, err = e.store.UpdateBodyFootfalled(ctx, body.SystemID, ev.BodyID, ev.Timestamp)
	if err != nil {
		return fmt.Errorf("Disembark: %w", err)
	}
	e.session.emit(notify.BodyFootfalled, body, backfill)
	return nil
}

func (e *Engine) onEmbark(journal.Embark) error {
	v := e.session.Surface()
	v.OnFoot = false
	e.session.SetSurface(v)
	return nil
}

func (e *Engine) onDocked(ev journal.Docked) error {
	if ev.StationType != journal.FleetCarrierStationType {
		return nil
	}
	e.session.SetCarrier(CarrierState{
		OnCarrier: true,
		Docked:    true,
		Name:      ev.StationName,
		MarketID:  ev.MarketID,
	})
	return nil
}

func (e *Engine) onUndocked(ev journal.Undocked) error {
	c := e.session.Carrier()
	if !c.OnCarrier {
		return nil
	}
	if ev.StationType == journal.FleetCarrierStationType || ev.MarketID == c.MarketID {
		e.session.SetCarrier(CarrierState{})
	}
	return nil
}

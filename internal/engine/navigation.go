package engine

import (
	"context"
	"fmt"

	"github.com/roach88/cartographer/internal/journal"
	"github.com/roach88/cartographer/internal/model"
	"github.com/roach88/cartographer/internal/notify"
	"github.com/roach88/cartographer/internal/store"
)

// RoutePlottedPayload accompanies route-plotted.
type RoutePlottedPayload struct {
	Route RouteInfo          `json:"route"`
	Hops  []journal.RouteHop `json:"hops"`
}

// arrive upserts the system a navigation event landed in and moves the
// current-system pointer. Reports whether the system changed.
func (e *Engine) arrive(ctx context.Context, address int64, name string, pos journal.StarPos, ev journal.Event) (*model.System, bool, error) {
	p := pos.Position()
	sys, created, err := e.store.UpsertSystem(ctx, store.SystemUpsert{
		Address:   address,
		Name:      name,
		Position:  &p,
		VisitedAt: ev.Time(),
	})
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", ev.Kind(), err)
	}
	if created {
		e.logger.Debug("new system", "address", address, "name", sys.Name)
	}
	changed := e.session.SetCurrentSystem(sys)
	return sys, changed, nil
}

func (e *Engine) onFSDJump(ctx context.Context, ev journal.FSDJump, backfill bool) error {
	s := e.session
	if c := s.Carrier(); c.OnCarrier {
		s.SetCarrier(CarrierState{})
	}
	if v := s.Surface(); v.Landed || v.OnFoot {
		s.SetSurface(SurfaceState{})
	}

	sys, _, err := e.arrive(ctx, ev.SystemAddress, ev.StarSystem, ev.StarPos, ev)
	if err != nil {
		return err
	}

	if r := s.Route(); r.Active() {
		r.RemainingJumps--
		if r.RemainingJumps <= 0 || r.DestinationAddress == ev.SystemAddress {
			s.SetRoute(RouteInfo{})
			s.emit(notify.RouteCleared, nil, backfill)
		} else {
			s.SetRoute(r)
		}
	}

	if _, err := e.store.AddRouteEntry(ctx, model.RouteEntry{
		SystemID:     sys.ID,
		Timestamp:    ev.Timestamp,
		JumpDistance: ev.JumpDist,
		FuelUsed:     ev.FuelUsed,
		FuelLevel:    ev.FuelLevel,
		SessionID:    s.ID(),
	}); err != nil {
		return fmt.Errorf("FSDJump: %w", err)
	}

	s.emit(notify.SystemChanged, sys, backfill)
	return nil
}

func (e *Engine) onCarrierJump(ctx context.Context, ev journal.CarrierJump, backfill bool) error {
	sys, _, err := e.arrive(ctx, ev.SystemAddress, ev.StarSystem, ev.StarPos, ev)
	if err != nil {
		return err
	}

	c := CarrierState{
		OnCarrier: true,
		Docked:    ev.Docked,
		Name:      ev.StationName,
		MarketID:  ev.MarketID,
	}
	e.session.SetCarrier(c)

	e.session.emit(notify.SystemChanged, sys, backfill)
	e.session.emit(notify.CarrierJumped, CarrierJumpedPayload{Carrier: c, System: sys}, backfill)
	return nil
}

func (e *Engine) onLocation(ctx context.Context, ev journal.Location, backfill bool) error {
	sys, changed, err := e.arrive(ctx, ev.SystemAddress, ev.StarSystem, ev.StarPos, ev)
	if err != nil {
		return err
	}

	if ev.Docked && ev.StationType == journal.FleetCarrierStationType {
		e.session.SetCarrier(CarrierState{
			OnCarrier: true,
			Docked:    true,
			Name:      ev.StationName,
			MarketID:  ev.MarketID,
		})
	}

	if changed {
		e.session.emit(notify.SystemChanged, sys, backfill)
	}
	return nil
}

func (e *Engine) onDiscoveryScan(ctx context.Context, ev journal.FSSDiscoveryScan) error {
	if _, err := e.store.SetBodyCount(ctx, ev.SystemAddress, ev.SystemName, ev.BodyCount, ev.Timestamp); err != nil {
		return fmt.Errorf("FSSDiscoveryScan: %w", err)
	}
	return nil
}

func (e *Engine) onAllBodiesFound(ctx context.Context, ev journal.FSSAllBodiesFound, backfill bool) error {
	sys, err := e.store.SetAllBodiesFound(ctx, ev.SystemAddress, ev.SystemName, ev.Count, ev.Timestamp)
	if err != nil {
		return fmt.Errorf("FSSAllBodiesFound: %w", err)
	}
	e.session.emit(notify.AllBodiesFound, AllBodiesFoundPayload{
		SystemAddress: sys.Address,
		SystemName:    sys.Name,
		Count:         ev.Count,
	}, backfill)
	return nil
}

// onNavRoute derives RouteInfo from the plotted hops. The first hop is the
// system the route starts in, so it does not count as a jump.
func (e *Engine) onNavRoute(ev journal.NavRoute, backfill bool) error {
	if len(ev.Route) == 0 {
		return nil
	}
	dest := ev.Route[len(ev.Route)-1]
	jumps := len(ev.Route) - 1
	r := RouteInfo{
		Destination:        dest.StarSystem,
		DestinationAddress: dest.SystemAddress,
		TotalJumps:         jumps,
		RemainingJumps:     jumps,
	}
	e.session.SetRoute(r)
	e.session.emit(notify.RoutePlotted, RoutePlottedPayload{Route: r, Hops: ev.Route}, backfill)
	return nil
}

func (e *Engine) onNavRouteClear(backfill bool) error {
	e.session.SetRoute(RouteInfo{})
	e.session.emit(notify.RouteCleared, nil, backfill)
	return nil
}

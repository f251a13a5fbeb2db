package engine

import (
	"github.com/roach88/cartographer/internal/journal"
	"github.com/roach88/cartographer/internal/notify"
)

func (e *Engine) onLoadGame(ev journal.LoadGame, backfill bool) error {
	s := e.session
	s.SetGame(GameState{
		Running:     true,
		GameMode:    ev.GameMode,
		Group:       ev.Group,
		Horizons:    ev.Horizons,
		Odyssey:     ev.Odyssey,
		Language:    ev.Language,
		GameVersion: ev.GameVersion,
		Build:       ev.Build,
		StartedAt:   ev.Timestamp,
	})

	c := s.Commander()
	c.Name = ev.Commander
	if ev.FID != "" {
		c.FID = ev.FID
	}
	c.Credits = ev.Credits
	c.Loan = ev.Loan
	c.Ship = firstOf(ev.ShipLocalised, ev.Ship)
	c.ShipID = ev.ShipID
	c.ShipName = ev.ShipName
	c.ShipIdent = ev.ShipIdent
	s.SetCommander(c)

	s.emit(notify.GameStarted, s.Game(), backfill)
	s.emit(notify.CommanderUpdated, c, backfill)
	return nil
}

func (e *Engine) onCommander(ev journal.Commander, backfill bool) error {
	c := e.session.Commander()
	c.Name = ev.Name
	c.FID = ev.FID
	return e.updateCommander(c, backfill)
}

func (e *Engine) onRank(ev journal.Rank, backfill bool) error {
	c := e.session.Commander()
	c.Ranks = Ranks{
		Combat:       ev.Combat,
		Trade:        ev.Trade,
		Explore:      ev.Explore,
		Soldier:      ev.Soldier,
		Exobiologist: ev.Exobiologist,
		Empire:       ev.Empire,
		Federation:   ev.Federation,
		CQC:          ev.CQC,
	}
	return e.updateCommander(c, backfill)
}

func (e *Engine) onProgress(ev journal.Progress, backfill bool) error {
	c := e.session.Commander()
	c.Progress = Progress{
		Combat:       ev.Combat,
		Trade:        ev.Trade,
		Explore:      ev.Explore,
		Soldier:      ev.Soldier,
		Exobiologist: ev.Exobiologist,
		Empire:       ev.Empire,
		Federation:   ev.Federation,
		CQC:          ev.CQC,
	}
	return e.updateCommander(c, backfill)
}

func (e *Engine) onReputation(ev journal.Reputation, backfill bool) error {
	c := e.session.Commander()
	c.Reputation = Reputation{
		Empire:      ev.Empire,
		Federation:  ev.Federation,
		Independent: ev.Independent,
		Alliance:    ev.Alliance,
	}
	return e.updateCommander(c, backfill)
}

func (e *Engine) onPowerplay(ev journal.Powerplay, backfill bool) error {
	c := e.session.Commander()
	c.Powerplay = Powerplay{
		Power:       ev.Power,
		Rank:        ev.Rank,
		Merits:      ev.Merits,
		TimePledged: ev.TimePledged,
	}
	return e.updateCommander(c, backfill)
}

// onPromotion merges only the ranks present on the event.
func (e *Engine) onPromotion(ev journal.Promotion, backfill bool) error {
	c := e.session.Commander()
	r := &c.Ranks
	set := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	set(&r.Combat, ev.Combat)
	set(&r.Trade, ev.Trade)
	set(&r.Explore, ev.Explore)
	set(&r.Soldier, ev.Soldier)
	set(&r.Exobiologist, ev.Exobiologist)
	set(&r.Empire, ev.Empire)
	set(&r.Federation, ev.Federation)
	set(&r.CQC, ev.CQC)
	return e.updateCommander(c, backfill)
}

func (e *Engine) updateCommander(c CommanderState, backfill bool) error {
	e.session.SetCommander(c)
	e.session.emit(notify.CommanderUpdated, c, backfill)
	return nil
}

// onContinued is emitted in backfill as well; it marks a file boundary and
// carries no player state.
func (e *Engine) onContinued(ev journal.Continued) error {
	e.logger.Info("journal continued", "part", ev.Part)
	e.session.sink.Emit(notify.JournalContinued, ContinuedPayload{Part: ev.Part})
	return nil
}

func (e *Engine) onShutdown(backfill bool) error {
	g := e.session.Game()
	g.Running = false
	e.session.SetGame(g)
	e.session.emit(notify.GameStopped, GameStoppedPayload{At: e.now()}, backfill)
	return nil
}

package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/cartographer/internal/journal"
	"github.com/roach88/cartographer/internal/model"
	"github.com/roach88/cartographer/internal/notify"
	"github.com/roach88/cartographer/internal/store"
	"github.com/roach88/cartographer/internal/valuation"
)

// Store is the set of merge operations the handlers write through.
// *store.Store implements it.
type Store interface {
	UpsertSystem(ctx context.Context, in store.SystemUpsert) (*model.System, bool, error)
	EnsureSystem(ctx context.Context, address int64, name string, at time.Time) (*model.System, error)
	SetBodyCount(ctx context.Context, address int64, name string, count int, at time.Time) (*model.System, error)
	SetAllBodiesFound(ctx context.Context, address int64, name string, count int, at time.Time) (*model.System, error)
	UpsertBody(ctx context.Context, systemID int64, in model.Body) (*model.Body, error)
	UpsertScannedBody(ctx context.Context, address int64, systemName string, in model.Body) (*model.Body, error)
	GetBodyByAddress(ctx context.Context, address int64, bodyID int) (*model.Body, error)
	UpdateBodyMapped(ctx context.Context, systemID int64, bodyID int, efficient bool, at time.Time) (*model.Body, bool, error)
	UpdateBodySignals(ctx context.Context, systemID int64, bodyID int, signals model.Signals, at time.Time) (*model.Body, error)
	UpdateBodyFootfalled(ctx context.Context, systemID int64, bodyID int, at time.Time) (*model.Body, error)
	UpsertBiological(ctx context.Context, in model.Biological) (*model.Biological, error)
	UpsertCodexEntry(ctx context.Context, in model.CodexEntry) (*model.CodexEntry, error)
	AddRouteEntry(ctx context.Context, e model.RouteEntry) (bool, error)
}

// Engine applies journal events to a Store.
//
// Thread-safety model:
//   - Enqueue(): safe from any goroutine
//   - Run(): must be called from exactly one goroutine
//   - Process(): must not be called concurrently with itself or Run
type Engine struct {
	store     Store
	session   *Session
	calc      valuation.Calculator
	bio       valuation.BioValues
	estimator valuation.Estimator
	logger    *slog.Logger
	now       func() time.Time
	seq       sequence
	queue     *eventQueue

	sink  notify.Sink
	idGen SessionIDGenerator
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink sets the notification sink. Defaults to notify.Discard.
func WithSink(s notify.Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithNow sets the wall clock used for game-stopped. Defaults to time.Now.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithSessionIDs sets the session id generator. Defaults to UUIDv7Generator.
func WithSessionIDs(g SessionIDGenerator) Option {
	return func(e *Engine) { e.idGen = g }
}

// WithCalculator sets the scan value formula. Defaults to valuation.Standard.
func WithCalculator(c valuation.Calculator) Option {
	return func(e *Engine) { e.calc = c }
}

// WithBioValues sets the species value lookup. Defaults to
// valuation.DefaultBioValues.
func WithBioValues(b valuation.BioValues) Option {
	return func(e *Engine) { e.bio = b }
}

// WithEstimator sets the genus estimator. Defaults to the embedded rule table.
func WithEstimator(est valuation.Estimator) Option {
	return func(e *Engine) { e.estimator = est }
}

// New creates an Engine with a fresh Session.
func New(s Store, opts ...Option) *Engine {
	e := &Engine{
		store:     s,
		calc:      valuation.Standard{},
		bio:       valuation.DefaultBioValues,
		estimator: valuation.DefaultEstimator(),
		logger:    slog.Default(),
		now:       time.Now,
		queue:     newEventQueue(),
		sink:      notify.Discard,
		idGen:     UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.session = newSession(e.idGen.Generate(), e.sink)
	return e
}

// Session exposes the engine's session state.
func (e *Engine) Session() *Session {
	return e.session
}

// Processed returns the number of events handed to Process so far.
func (e *Engine) Processed() int64 {
	return e.seq.last()
}

// Process applies one event. Store failures are returned unmodified; the
// caller decides whether to retry, skip or stop based on store.ClassOf.
// Unknown event kinds are ignored.
func (e *Engine) Process(ctx context.Context, ev journal.Event, backfill bool) error {
	seq := e.seq.next()
	e.logger.Debug("processing event", "seq", seq, "kind", ev.Kind(), "timestamp", ev.Time(), "backfill", backfill)

	switch ev := ev.(type) {
	// Navigation
	case journal.FSDJump:
		return e.onFSDJump(ctx, ev, backfill)
	case journal.CarrierJump:
		return e.onCarrierJump(ctx, ev, backfill)
	case journal.Location:
		return e.onLocation(ctx, ev, backfill)
	case journal.FSSDiscoveryScan:
		return e.onDiscoveryScan(ctx, ev)
	case journal.FSSAllBodiesFound:
		return e.onAllBodiesFound(ctx, ev, backfill)
	case journal.NavRoute:
		return e.onNavRoute(ev, backfill)
	case journal.NavRouteClear:
		return e.onNavRouteClear(backfill)

	// Scans
	case journal.Scan:
		return e.onScan(ctx, ev, backfill)
	case journal.SAAScanComplete:
		return e.onSAAScanComplete(ctx, ev, backfill)
	case journal.FSSBodySignals:
		return e.onSignals(ctx, ev.SystemAddress, ev.BodyID, ev.BodyName, journal.CountSignals(ev.Signals), ev.Timestamp, backfill)
	case journal.SAASignalsFound:
		return e.onSignals(ctx, ev.SystemAddress, ev.BodyID, ev.BodyName, journal.CountSignals(ev.Signals), ev.Timestamp, backfill)
	case journal.ScanOrganic:
		return e.onScanOrganic(ctx, ev, backfill)
	case journal.CodexEntry:
		return e.onCodexEntry(ctx, ev, backfill)

	// Session and commander
	case journal.LoadGame:
		return e.onLoadGame(ev, backfill)
	case journal.Commander:
		return e.onCommander(ev, backfill)
	case journal.Rank:
		return e.onRank(ev, backfill)
	case journal.Progress:
		return e.onProgress(ev, backfill)
	case journal.Reputation:
		return e.onReputation(ev, backfill)
	case journal.Powerplay:
		return e.onPowerplay(ev, backfill)
	case journal.Promotion:
		return e.onPromotion(ev, backfill)
	case journal.Continued:
		return e.onContinued(ev)
	case journal.Shutdown:
		return e.onShutdown(backfill)

	// Surface
	case journal.Touchdown:
		return e.onTouchdown(ev)
	case journal.Liftoff:
		return e.onLiftoff(ev)
	case journal.ApproachBody:
		return e.onApproachBody(ev)
	case journal.LeaveBody:
		return e.onLeaveBody(ev)
	case journal.Disembark:
		return e.onDisembark(ctx, ev, backfill)
	case journal.Embark:
		return e.onEmbark(ev)
	case journal.Docked:
		return e.onDocked(ev)
	case journal.Undocked:
		return e.onUndocked(ev)

	default:
		return nil
	}
}

// Enqueue submits an event for processing by the Run loop.
// Thread-safe: may be called from any goroutine.
//
// Returns false if the engine has been stopped.
func (e *Engine) Enqueue(ev journal.Event, backfill bool) bool {
	return e.queue.Enqueue(Item{Event: ev, Backfill: backfill})
}

// Run processes queued events until the context is cancelled or Stop is
// called and the queue has drained.
//
// CRITICAL: Must be called from exactly ONE goroutine.
//
// ERROR HANDLING: A failed event is logged with its store classification and
// the loop moves on. Corruption and configuration failures end the loop with
// a *RunError since every later event would fail the same way.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Info("engine starting", "session", e.session.ID())

	for {
		it, ok := e.queue.TryDequeue()
		if ok {
			if err := e.Process(ctx, it.Event, it.Backfill); err != nil {
				e.logEventError(it, err)
				if stopsRun(err) {
					e.queue.Close()
					return &RunError{
						Seq:       e.seq.last(),
						Kind:      it.Event.Kind(),
						Timestamp: it.Event.Time(),
						Err:       err,
					}
				}
			}
			continue
		}

		select {
		case <-ctx.Done():
			e.logger.Info("engine stopping: context cancelled")
			e.queue.Close()
			return ctx.Err()

		case <-e.queue.Wait():
			// The signal channel closes with the queue, so this case fires
			// immediately once Stop has been called.
			if e.queue.Len() == 0 && e.queue.Closed() {
				e.logger.Info("engine stopping: queue closed", "processed", e.seq.last())
				return nil
			}
		}
	}
}

// Stop closes the queue. Run returns once the remaining events are processed.
func (e *Engine) Stop() {
	e.queue.Close()
}

func (e *Engine) logEventError(it Item, err error) {
	e.logger.Error("event processing failed",
		"seq", e.seq.last(),
		"kind", it.Event.Kind(),
		"timestamp", it.Event.Time(),
		"backfill", it.Backfill,
		"class", store.ClassOf(err),
		"error", err,
	)
}

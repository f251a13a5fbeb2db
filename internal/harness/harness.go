package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/cartographer/internal/engine"
	"github.com/roach88/cartographer/internal/journal"
	"github.com/roach88/cartographer/internal/store"
	"github.com/roach88/cartographer/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each run uses a fresh in-memory database. An error is returned only when
// the scenario cannot be executed at all (bad event, store failure);
// assertion failures are reported through Result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	events, err := decodeEvents(scenario.Events)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	st, sess, err := execute(ctx, scenario, events, scenario.Backfill, func(ev TraceEvent) {
		result.Trace = append(result.Trace, ev)
	})
	if err != nil {
		return nil, err
	}
	defer st.Close()

	state, err := st.Dump(ctx)
	if err != nil {
		return nil, fmt.Errorf("dump state: %w", err)
	}
	result.State = state
	result.Session = snapshotSession(sess)

	if scenario.Parity {
		if err := checkParity(ctx, scenario, events, state); err != nil {
			result.AddError(err.Error())
		}
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// execute feeds the events to a new engine over a new in-memory store.
// The caller closes the returned store.
func execute(ctx context.Context, scenario *Scenario, events []journal.Event, backfill bool, trace func(TraceEvent)) (*store.Store, *engine.Session, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}

	seq := 0
	var kind journal.Kind
	sink := traceSink(func(name string, payload any) {
		trace(TraceEvent{Seq: seq, Event: string(kind), Name: name, Subject: subject(payload)})
	})

	eng := engine.New(st,
		engine.WithSink(sink),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		engine.WithSessionIDs(testutil.NewSessionID(scenario.SessionID)),
		engine.WithNow(testutil.NewManualClock(scenario.Now).Now),
	)

	for i, ev := range events {
		seq, kind = i+1, ev.Kind()
		if err := eng.Process(ctx, ev, backfill); err != nil {
			st.Close()
			return nil, nil, fmt.Errorf("events[%d] (%s): %w", i, ev.Kind(), err)
		}
	}
	return st, eng.Session(), nil
}

func checkParity(ctx context.Context, scenario *Scenario, events []journal.Event, want *store.State) error {
	st, _, err := execute(ctx, scenario, events, !scenario.Backfill, func(TraceEvent) {})
	if err != nil {
		return fmt.Errorf("parity run: %w", err)
	}
	defer st.Close()

	got, err := st.Dump(ctx)
	if err != nil {
		return fmt.Errorf("parity run: dump state: %w", err)
	}
	a, err := want.JSON()
	if err != nil {
		return err
	}
	b, err := got.JSON()
	if err != nil {
		return err
	}
	if !bytes.Equal(a, b) {
		return &AssertionError{
			Type:     "parity",
			Expected: "backfill and live runs leave identical state",
			Actual:   "store dumps differ",
		}
	}
	return nil
}

type traceSink func(name string, payload any)

func (f traceSink) Emit(name string, payload any) { f(name, payload) }

// decodeEvents renders each scenario event as a journal line and decodes it.
func decodeEvents(raw []map[string]any) ([]journal.Event, error) {
	at := testutil.Epoch
	out := make([]journal.Event, 0, len(raw))
	for i, fields := range raw {
		obj := make(map[string]any, len(fields)+1)
		for k, v := range fields {
			obj[k] = v
		}
		if _, ok := obj["timestamp"]; !ok {
			at = at.Add(time.Minute)
			obj["timestamp"] = at.Format(time.RFC3339)
		}

		line, err := json.Marshal(obj)
		if err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		ev, err := journal.Decode(line)
		if err != nil {
			return nil, fmt.Errorf("events[%d]: %w", i, err)
		}
		if t := ev.Time(); t.After(at) {
			at = t
		}
		out = append(out, ev)
	}
	return out, nil
}

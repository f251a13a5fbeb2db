package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/cartographer/internal/engine"
	"github.com/roach88/cartographer/internal/journal"
	"github.com/roach88/cartographer/internal/notify"
	"github.com/roach88/cartographer/internal/store"
)

// verifySession is stamped on both runs so their route ledgers compare equal.
const verifySession = "verify"

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Dump bool
}

// VerifyResult reports whether backfill and live processing agree.
type VerifyResult struct {
	readStats
	Identical     bool   `json:"identical"`
	Notifications int    `json:"notifications"`
	Failed        int    `json:"failed"`
	Systems       int    `json:"systems"`
	Bodies        int    `json:"bodies"`
	FirstDiff     string `json:"first_diff,omitempty"`
}

// RenderText implements TextRenderer.
func (r VerifyResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Verified %d events from %d files", r.Events, r.Files)
	if r.DecodeErrors > 0 {
		fmt.Fprintf(w, " (%d malformed lines skipped)", r.DecodeErrors)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  systems: %d  bodies: %d  live notifications: %d\n", r.Systems, r.Bodies, r.Notifications)
	if r.Failed > 0 {
		fmt.Fprintf(w, "  %d events failed in each run\n", r.Failed)
	}
	if r.Identical {
		fmt.Fprintln(w, "✓ backfill and live state identical")
		return
	}
	fmt.Fprintln(w, "✗ backfill and live state differ")
	if r.FirstDiff != "" {
		fmt.Fprintf(w, "  first difference: %s\n", r.FirstDiff)
	}
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify [files|dirs...]",
		Short: "Check that backfill and live processing produce identical state",
		Long: `Process the journal files twice into two in-memory databases, once as a
backfill and once as a live feed, and compare the resulting state.

Exit codes:
  0 - States are identical
  1 - States differ
  2 - Command error (missing files, bad config)

Examples:
  cartographer verify ./journals
  cartographer verify Journal.2026-10-01T120000.01.log --dump`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Dump, "dump", false, "print the live state as JSON")

	return cmd
}

func runVerify(cmd *cobra.Command, opts *VerifyOptions, args []string) error {
	out := opts.formatter(cmd)
	cfg, err := opts.loadConfig()
	if err != nil {
		return out.Fail(CodeConfig, err)
	}
	logger := opts.newLogger(cfg, cmd.ErrOrStderr())

	files, err := journalPaths(args, cfg.Journal.Dir)
	if err != nil {
		return out.Fail(CodeInput, err)
	}

	var events []journal.Event
	stats, err := eachEvent(files, logger, func(ev journal.Event) error {
		events = append(events, ev)
		return nil
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	backfill, _, failed, err := replay(ctx, events, true, logger)
	if err != nil {
		return err
	}
	live, notified, _, err := replay(ctx, events, false, logger)
	if err != nil {
		return err
	}

	a, err := backfill.JSON()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode state", err)
	}
	b, err := live.JSON()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to encode state", err)
	}

	result := VerifyResult{
		readStats:     stats,
		Identical:     bytes.Equal(a, b),
		Notifications: notified,
		Failed:        failed,
		Systems:       len(live.Systems),
		Bodies:        len(live.Bodies),
	}
	if !result.Identical {
		result.FirstDiff = firstDiff(a, b)
	}

	if opts.Dump {
		if _, err := out.GetErrWriter().Write(b); err != nil {
			return WrapExitError(ExitCommandError, "failed to write state", err)
		}
	}
	if err := out.Success(result); err != nil {
		return err
	}
	if !result.Identical {
		return NewExitError(ExitFailure, "backfill and live state differ")
	}
	return nil
}

// replay processes events into a fresh in-memory store and returns its dump,
// the number of notifications and the number of failed events.
func replay(ctx context.Context, events []journal.Event, backfill bool, logger *slog.Logger) (*store.State, int, int, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, 0, 0, WrapExitError(ExitCommandError, "failed to open in-memory database", err)
	}
	defer st.Close()

	rec := notify.NewRecorder()
	eng := engine.New(st,
		engine.WithLogger(logger.With("backfill", backfill)),
		engine.WithSink(rec),
		engine.WithSessionIDs(engine.NewFixedGenerator(verifySession)),
	)

	failed := 0
	for _, ev := range events {
		if err := eng.Process(ctx, ev, backfill); err != nil {
			if store.IsFatal(err) {
				return nil, 0, 0, WrapExitError(ExitFailure, "replay stopped", err)
			}
			failed++
		}
	}

	state, err := st.Dump(ctx)
	if err != nil {
		return nil, 0, 0, WrapExitError(ExitFailure, "failed to dump state", err)
	}
	return state, rec.Len(), failed, nil
}

// firstDiff locates the first differing line of two JSON documents.
func firstDiff(a, b []byte) string {
	al, bl := splitLines(a), splitLines(b)
	for i := 0; i < len(al) && i < len(bl); i++ {
		if !bytes.Equal(al[i], bl[i]) {
			return fmt.Sprintf("line %d: backfill %s, live %s", i+1, bytes.TrimSpace(al[i]), bytes.TrimSpace(bl[i]))
		}
	}
	return fmt.Sprintf("lengths differ: backfill %d lines, live %d lines", len(al), len(bl))
}

// splitLines splits on newlines without a trailing empty line.
func splitLines(doc []byte) [][]byte {
	return bytes.Split(bytes.TrimSuffix(doc, []byte("\n")), []byte("\n"))
}

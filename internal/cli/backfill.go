package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/cartographer/internal/engine"
	"github.com/roach88/cartographer/internal/journal"
	"github.com/roach88/cartographer/internal/store"
)

// BackfillOptions holds flags for the backfill command.
type BackfillOptions struct {
	*RootOptions
	Database string

	// SessionIDs overrides the session id generator (for testing).
	SessionIDs engine.SessionIDGenerator
}

// BackfillResult summarises a backfill run.
type BackfillResult struct {
	readStats
	Failed      int `json:"failed"`
	Systems     int `json:"systems"`
	Bodies      int `json:"bodies"`
	Biologicals int `json:"biologicals"`
	Jumps       int `json:"jumps"`
}

// RenderText implements TextRenderer.
func (r BackfillResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Backfilled %d events from %d files", r.Events, r.Files)
	if r.DecodeErrors > 0 {
		fmt.Fprintf(w, " (%d malformed lines skipped)", r.DecodeErrors)
	}
	fmt.Fprintln(w)
	if r.Failed > 0 {
		fmt.Fprintf(w, "  %d events failed\n", r.Failed)
	}
	fmt.Fprintf(w, "  systems: %d  bodies: %d  organics: %d  jumps: %d\n", r.Systems, r.Bodies, r.Biologicals, r.Jumps)
}

// NewBackfillCommand creates the backfill command.
func NewBackfillCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BackfillOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "backfill [files|dirs...]",
		Short: "Replay historical journal files into the database",
		Long: `Replay journal files in order without emitting notifications.

Directories contribute their Journal.*.log files sorted by name. With no
arguments the configured journal.dir is used. Malformed lines are skipped;
an event the store rejects is logged and the replay continues unless the
database itself is unusable.

Exit codes:
  0 - All files replayed
  1 - Replay stopped on a fatal store error
  2 - Command error (missing files, bad config)

Examples:
  cartographer backfill --db ./cartographer.db ~/Saved\ Games/Frontier\ Developments/Elite\ Dangerous
  cartographer backfill --db ./cartographer.db Journal.2026-10-01T120000.01.log --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBackfill(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")

	return cmd
}

func runBackfill(cmd *cobra.Command, opts *BackfillOptions, args []string) error {
	out := opts.formatter(cmd)
	cfg, err := opts.loadConfig()
	if err != nil {
		return out.Fail(CodeConfig, err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	logger := opts.newLogger(cfg, cmd.ErrOrStderr())

	files, err := journalPaths(args, cfg.Journal.Dir)
	if err != nil {
		return out.Fail(CodeInput, err)
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return out.Fail(CodeStore, WrapExitError(ExitCommandError, "failed to open database", err))
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	engOpts := []engine.Option{engine.WithLogger(logger)}
	if opts.SessionIDs != nil {
		engOpts = append(engOpts, engine.WithSessionIDs(opts.SessionIDs))
	}
	eng := engine.New(st, engOpts...)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var result BackfillResult
	logger.Info("backfill starting", "files", len(files), "db", cfg.Database, "session", eng.Session().ID())
	result.readStats, err = eachEvent(files, logger, func(ev journal.Event) error {
		if err := eng.Process(ctx, ev, true); err != nil {
			logger.Error("event failed", "kind", ev.Kind(), "timestamp", ev.Time(), "class", store.ClassOf(err), "error", err)
			if store.IsFatal(err) {
				return WrapExitError(ExitFailure, fmt.Sprintf("backfill stopped at %s %s", ev.Kind(), ev.Time().Format("2006-01-02T15:04:05Z")), err)
			}
			result.Failed++
		}
		return nil
	})
	if err != nil {
		return err
	}

	state, err := st.Dump(ctx)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read database", err)
	}
	result.Systems = len(state.Systems)
	result.Bodies = len(state.Bodies)
	result.Biologicals = len(state.Biologicals)
	result.Jumps = len(state.Route)

	logger.Info("backfill complete", "events", result.Events, "failed", result.Failed)
	return out.Success(result)
}

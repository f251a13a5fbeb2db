package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/cartographer/internal/engine"
	"github.com/roach88/cartographer/internal/journal"
	"github.com/roach88/cartographer/internal/notify"
	"github.com/roach88/cartographer/internal/store"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
	Database    string
	NATSURL     string
	NATSSubject string
	Listen      string

	// SessionIDs overrides the session id generator (for testing).
	SessionIDs engine.SessionIDGenerator
}

// IngestResult summarises an ingest run.
type IngestResult struct {
	Events       int64  `json:"events"`
	DecodeErrors int64  `json:"decode_errors"`
	Processed    int64  `json:"processed"`
	Session      string `json:"session"`
}

// RenderText implements TextRenderer.
func (r IngestResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Ingested %d events (%d processed, %d malformed) in session %s\n",
		r.Events, r.Processed, r.DecodeErrors, r.Session)
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Consume a live journal feed from stdin",
		Long: `Read journal lines from stdin as a live feed and process them on the
single-writer event loop. Notifications are logged and, when configured,
published to NATS as "<subject>.<name>" and broadcast to websocket clients
connected to /events on the listen address.

The command ends at end of input once queued events are processed, or on
SIGINT/SIGTERM.

Examples:
  tail -F Journal.*.log | cartographer ingest --db ./cartographer.db
  cartographer ingest --nats nats://localhost:4222 --listen :8765 < feed.jsonl`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.Flags().StringVar(&opts.NATSURL, "nats", "", "NATS server URL for notifications")
	cmd.Flags().StringVar(&opts.NATSSubject, "nats-subject", "", "NATS subject prefix (default "+notify.DefaultSubject+")")
	cmd.Flags().StringVar(&opts.Listen, "listen", "", "address for the websocket notification endpoint, e.g. :8765")

	return cmd
}

func runIngest(cmd *cobra.Command, opts *IngestOptions) error {
	out := opts.formatter(cmd)
	cfg, err := opts.loadConfig()
	if err != nil {
		return out.Fail(CodeConfig, err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}
	if opts.NATSURL != "" {
		cfg.Notify.NATSURL = opts.NATSURL
	}
	if opts.NATSSubject != "" {
		cfg.Notify.NATSSubject = opts.NATSSubject
	}
	if opts.Listen != "" {
		cfg.Notify.Listen = opts.Listen
	}
	if err := cfg.Validate(); err != nil {
		return out.Fail(CodeConfig, WrapExitError(ExitCommandError, "invalid flags", err))
	}
	logger := opts.newLogger(cfg, cmd.ErrOrStderr())

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	st, err := store.Open(cfg.Database)
	if err != nil {
		return out.Fail(CodeStore, WrapExitError(ExitCommandError, "failed to open database", err))
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	sinks := notify.Multi{notify.NewLog(logger)}

	if cfg.Notify.NATSURL != "" {
		pub, err := notify.Connect(cfg.Notify.NATSURL, cfg.Notify.NATSSubject, logger)
		if err != nil {
			return out.Fail(CodeConfig, WrapExitError(ExitCommandError, "failed to connect to NATS", err))
		}
		defer func() {
			if err := pub.Close(); err != nil {
				logger.Warn("error draining NATS connection", "error", err)
			}
		}()
		sinks = append(sinks, pub)
		logger.Info("publishing notifications", "nats", cfg.Notify.NATSURL, "subject", cfg.Notify.NATSSubject)
	}

	if cfg.Notify.Listen != "" {
		hub := notify.NewHub(logger)
		go hub.Run(ctx)
		stopServer, err := serveHub(ctx, cfg.Notify.Listen, hub, logger)
		if err != nil {
			return out.Fail(CodeConfig, WrapExitError(ExitCommandError, "failed to listen", err))
		}
		defer stopServer()
		sinks = append(sinks, hub)
	}

	engOpts := []engine.Option{engine.WithLogger(logger), engine.WithSink(sinks)}
	if opts.SessionIDs != nil {
		engOpts = append(engOpts, engine.WithSessionIDs(opts.SessionIDs))
	}
	eng := engine.New(st, engOpts...)

	var events, decodeErrors atomic.Int64
	go feed(ctx, eng, journal.NewReader(cmd.InOrStdin(), "stdin"), &events, &decodeErrors, logger)

	runErr := eng.Run(ctx)

	result := IngestResult{
		Events:       events.Load(),
		DecodeErrors: decodeErrors.Load(),
		Processed:    eng.Processed(),
		Session:      eng.Session().ID(),
	}

	var fatal *engine.RunError
	switch {
	case errors.As(runErr, &fatal):
		return WrapExitError(ExitFailure, "ingest stopped", runErr)
	case runErr != nil && !errors.Is(runErr, context.Canceled):
		return WrapExitError(ExitFailure, "engine error", runErr)
	}

	logger.Info("ingest stopped", "events", result.Events, "processed", result.Processed)
	return out.Success(result)
}

// feed enqueues live events until end of input, then stops the engine so
// Run returns after draining the queue.
func feed(ctx context.Context, eng *engine.Engine, r *journal.Reader, events, decodeErrors *atomic.Int64, logger *slog.Logger) {
	defer eng.Stop()
	for ctx.Err() == nil {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return
		}
		var decodeErr *journal.DecodeError
		if errors.As(err, &decodeErr) {
			decodeErrors.Add(1)
			logger.Warn("skipping malformed line", "line", decodeErr.Line, "error", decodeErr.Err)
			continue
		}
		if err != nil {
			logger.Error("reading input failed", "error", err)
			return
		}
		events.Add(1)
		if !eng.Enqueue(ev, false) {
			return
		}
	}
}

// serveHub exposes the hub at /events. The returned func shuts the server
// down.
func serveHub(ctx context.Context, addr string, hub *notify.Hub, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/events", hub)
	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("websocket server failed", "error", err)
		}
	}()
	logger.Info("websocket notifications listening", "addr", ln.Addr().String(), "path", "/events")

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("websocket server shutdown", "error", err)
		}
	}, nil
}

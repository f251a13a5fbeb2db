package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cartographer/internal/model"
	"github.com/roach88/cartographer/internal/store"
)

// SystemOptions holds flags for the system command.
type SystemOptions struct {
	*RootOptions
	Database string
}

// BodyReport is one body with its organic samples.
type BodyReport struct {
	model.Body
	Biologicals []model.Biological `json:"biologicals,omitempty"`
}

// SystemReport is the system command's result.
type SystemReport struct {
	System model.System `json:"system"`
	Bodies []BodyReport `json:"bodies"`

	verbose bool
}

// RenderText implements TextRenderer.
func (r SystemReport) RenderText(w io.Writer) {
	s := r.System
	fmt.Fprintf(w, "%s (%d)\n", s.Name, s.Address)
	fmt.Fprintf(w, "  Position: %.2f / %.2f / %.2f\n", s.Position.X, s.Position.Y, s.Position.Z)
	fmt.Fprintf(w, "  Visited: %s .. %s\n", s.FirstVisited.Format("2006-01-02 15:04"), s.LastVisited.Format("2006-01-02 15:04"))

	found := fmt.Sprintf("%d", len(r.Bodies))
	if s.BodyCount != nil {
		found = fmt.Sprintf("%d/%d", len(r.Bodies), *s.BodyCount)
	}
	if s.AllBodiesFound {
		found += " (all found)"
	}
	fmt.Fprintf(w, "  Bodies: %s  discovered: %d  mapped: %d\n", found, s.DiscoveredCount, s.MappedCount)
	fmt.Fprintf(w, "  Value: %d cr  (FSS estimate %d, DSS estimate %d)\n", s.TotalValue, s.EstimatedFSSValue, s.EstimatedDSSValue)

	if len(r.Bodies) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, b := range r.Bodies {
		fmt.Fprintf(w, "  [%d] %-32s %-9s %-28s %10d cr%s\n",
			b.BodyID, b.Name, b.ScanType, describeBody(b.Body), b.ScanValue, bodyFlags(b.Body))
		if r.verbose {
			fmt.Fprintf(w, "       signals: bio=%d geo=%d human=%d thargoid=%d\n",
				b.Signals.Biological, b.Signals.Geological, b.Signals.Human, b.Signals.Thargoid)
		}
		for _, bio := range b.Biologicals {
			status := fmt.Sprintf("%d/%d", bio.ScanProgress, model.MaxScanProgress)
			if bio.Scanned {
				status = "scanned"
			}
			fmt.Fprintf(w, "       %-36s %-8s %10d cr\n", bio.Species, status, bio.Value)
		}
	}
}

func describeBody(b model.Body) string {
	if b.SubType != "" {
		return b.SubType
	}
	return string(b.Type)
}

func bodyFlags(b model.Body) string {
	var flags []string
	if b.DiscoveredByMe {
		flags = append(flags, "first discovery")
	}
	if b.MappedByMe {
		flags = append(flags, "first mapped")
	}
	if b.FootfalledByMe {
		flags = append(flags, "first footfall")
	}
	if b.Landable {
		flags = append(flags, "landable")
	}
	if len(flags) == 0 {
		return ""
	}
	return "  " + strings.Join(flags, ", ")
}

// NewSystemCommand creates the system command.
func NewSystemCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SystemOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "system <name>",
		Short: "Show a stored system with its bodies",
		Long: `Print a stored system, its aggregate values and every known body with its
organic samples. Names match ignoring case.

Examples:
  cartographer system --db ./cartographer.db "Col 285 Sector AB-C d1-2"
  cartographer system Sol --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSystem(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")

	return cmd
}

func runSystem(cmd *cobra.Command, opts *SystemOptions, name string) error {
	out := opts.formatter(cmd)
	cfg, err := opts.loadConfig()
	if err != nil {
		return out.Fail(CodeConfig, err)
	}
	if opts.Database != "" {
		cfg.Database = opts.Database
	}

	st, err := store.Open(cfg.Database)
	if err != nil {
		return out.Fail(CodeStore, WrapExitError(ExitCommandError, "failed to open database", err))
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := loadSystemReport(ctx, st, name)
	if errors.Is(err, store.ErrNotFound) {
		_ = out.Error(CodeNotFound, fmt.Sprintf("system %q not found", name), nil)
		return NewExitError(ExitFailure, fmt.Sprintf("system %q not found", name))
	}
	if err != nil {
		_ = out.Error(CodeStore, "failed to read system", err.Error())
		return WrapExitError(ExitCommandError, "failed to read system", err)
	}
	report.verbose = opts.Verbose
	return out.Success(report)
}

func loadSystemReport(ctx context.Context, st *store.Store, name string) (SystemReport, error) {
	sys, err := st.GetSystemByName(ctx, name)
	if err != nil {
		return SystemReport{}, err
	}
	bodies, err := st.GetSystemBodies(ctx, sys.ID)
	if err != nil {
		return SystemReport{}, err
	}

	report := SystemReport{System: *sys, Bodies: make([]BodyReport, 0, len(bodies))}
	for _, b := range bodies {
		bios, err := st.GetBiologicals(ctx, b.ID)
		if err != nil {
			return SystemReport{}, err
		}
		report.Bodies = append(report.Bodies, BodyReport{Body: b, Biologicals: bios})
	}
	return report, nil
}

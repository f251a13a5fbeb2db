package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/cartographer/internal/journal"
)

// readStats counts what a pass over the journal files saw.
type readStats struct {
	Files        int `json:"files"`
	Events       int `json:"events"`
	DecodeErrors int `json:"decode_errors"`
}

// journalPaths resolves command arguments, falling back to the configured
// journal directory.
func journalPaths(args []string, dir string) ([]string, error) {
	if len(args) == 0 {
		if dir == "" {
			return nil, NewExitError(ExitCommandError, "no journal files given and journal.dir is not configured")
		}
		args = []string{dir}
	}
	files, err := journal.Files(args...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to list journal files", err)
	}
	if len(files) == 0 {
		return nil, NewExitError(ExitCommandError, "no journal files found")
	}
	return files, nil
}

// eachEvent decodes the files in order and calls fn for every event.
// Malformed lines are logged and skipped. An error from fn stops the pass.
func eachEvent(files []string, logger *slog.Logger, fn func(journal.Event) error) (readStats, error) {
	var stats readStats
	for _, path := range files {
		if err := eachEventInFile(path, logger, &stats, fn); err != nil {
			return stats, err
		}
		stats.Files++
	}
	return stats, nil
}

func eachEventInFile(path string, logger *slog.Logger, stats *readStats, fn func(journal.Event) error) error {
	f, err := os.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer f.Close()

	r := journal.NewReader(f, path)
	for {
		ev, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		var decodeErr *journal.DecodeError
		if errors.As(err, &decodeErr) {
			stats.DecodeErrors++
			logger.Warn("skipping malformed line", "file", decodeErr.Source, "line", decodeErr.Line, "error", decodeErr.Err)
			continue
		}
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read %s", path), err)
		}
		stats.Events++
		if err := fn(ev); err != nil {
			return err
		}
	}
}

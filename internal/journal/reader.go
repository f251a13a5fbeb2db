package journal

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// maxLineSize bounds a single journal line. NavRoute and Statistics lines can
// be large.
const maxLineSize = 16 * 1024 * 1024

// DecodeError reports a line that could not be decoded.
type DecodeError struct {
	Source string
	Line   int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Reader yields decoded events from a JSON-lines stream in order.
type Reader struct {
	source  string
	scanner *bufio.Scanner
	line    int
}

// NewReader wraps r. source names the stream in decode errors.
func NewReader(r io.Reader, source string) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{source: source, scanner: sc}
}

// Next returns the next event. Blank lines are skipped. It returns io.EOF at
// the end of the stream and *DecodeError for malformed lines; callers may keep
// reading after a DecodeError.
func (r *Reader) Next() (Event, error) {
	for r.scanner.Scan() {
		r.line++
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		ev, err := Decode(line)
		if err != nil {
			return nil, &DecodeError{Source: r.source, Line: r.line, Err: err}
		}
		return ev, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", r.source, err)
	}
	return nil, io.EOF
}

// Files expands the given paths into an ordered list of journal files.
// Directories contribute their Journal.*.log files sorted by name, which is
// chronological for the game's file naming scheme. Plain files are kept in the
// order given.
func Files(paths ...string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", p, err)
		}
		var names []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			if strings.HasPrefix(name, "Journal.") && strings.HasSuffix(name, ".log") {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			out = append(out, filepath.Join(p, name))
		}
	}
	return out, nil
}

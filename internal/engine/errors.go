package engine

import (
	"fmt"
	"time"

	"github.com/roach88/cartographer/internal/journal"
	"github.com/roach88/cartographer/internal/store"
)

// RunError stops the Run loop. It carries the event that failed so the
// operator can resume from it once the store is usable again.
type RunError struct {
	Seq       int64
	Kind      journal.Kind
	Timestamp time.Time
	Err       error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("event %d (%s at %s): %v", e.Seq, e.Kind, e.Timestamp.Format(time.RFC3339), e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// stopsRun reports whether a Process failure should end the Run loop.
// Corruption and configuration failures will not clear up by moving to the
// next event; everything else is logged and skipped.
func stopsRun(err error) bool {
	return store.IsFatal(err)
}

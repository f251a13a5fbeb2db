package engine

import "sync/atomic"

// sequence numbers events in the order Process receives them. The number
// appears in debug logs and in RunError, so a fatal failure can be matched to
// its position in the feed. Processed reads it from other goroutines while
// Run is writing.
type sequence struct {
	n atomic.Int64
}

// next claims the number for the event about to be processed.
func (s *sequence) next() int64 {
	return s.n.Add(1)
}

// last is the number of the most recent event, or 0 before the first.
func (s *sequence) last() int64 {
	return s.n.Load()
}

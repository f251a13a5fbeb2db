package engine

import "github.com/roach88/cartographer/internal/model"

// pendingSignals buffers signal counts for bodies whose Scan has not been
// seen yet. At most one entry is held per body; a later signal event for the
// same body replaces the earlier counts.
type pendingSignals struct {
	entries map[string]model.Signals
}

func newPendingSignals() *pendingSignals {
	return &pendingSignals{entries: make(map[string]model.Signals)}
}

func (p *pendingSignals) Put(address int64, bodyID int, s model.Signals) {
	p.entries[pendingKey(address, bodyID)] = s
}

func (p *pendingSignals) Get(address int64, bodyID int) (model.Signals, bool) {
	s, ok := p.entries[pendingKey(address, bodyID)]
	return s, ok
}

func (p *pendingSignals) Delete(address int64, bodyID int) {
	delete(p.entries, pendingKey(address, bodyID))
}

func (p *pendingSignals) Clear() {
	clear(p.entries)
}

func (p *pendingSignals) Len() int {
	return len(p.entries)
}

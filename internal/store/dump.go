package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/cartographer/internal/model"
)

// State is a full export of the store in a stable order.
type State struct {
	Systems     []model.System     `json:"systems"`
	Bodies      []model.Body       `json:"bodies"`
	Biologicals []model.Biological `json:"biologicals"`
	Codex       []model.CodexEntry `json:"codex_entries"`
	Route       []model.RouteEntry `json:"route_history"`
}

// Dump reads every table. Rows are ordered by natural key, with the
// surrogate id as tie-breaker, so two stores fed the same events dump
// identically.
func (s *Store) Dump(ctx context.Context) (*State, error) {
	var (
		st  State
		err error
	)
	if st.Systems, err = listSystems(ctx, s.db); err != nil {
		return nil, classify("dump", err)
	}
	if st.Bodies, err = listBodies(ctx, s.db, "ORDER BY system_id ASC, body_id ASC"); err != nil {
		return nil, classify("dump", err)
	}
	if st.Biologicals, err = listBiologicals(ctx, s.db, "ORDER BY body_pk ASC, genus ASC, species ASC"); err != nil {
		return nil, classify("dump", err)
	}
	if st.Codex, err = listCodex(ctx, s.db); err != nil {
		return nil, classify("dump", err)
	}
	if st.Route, err = listRoute(ctx, s.db, "ORDER BY timestamp ASC, id ASC"); err != nil {
		return nil, classify("dump", err)
	}
	return &st, nil
}

// JSON renders the state as indented JSON with a trailing newline.
func (st *State) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return buf.Bytes(), nil
}

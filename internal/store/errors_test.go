package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"busy", sqlite3.Error{Code: sqlite3.ErrBusy}, ClassTransient},
		{"locked", sqlite3.Error{Code: sqlite3.ErrLocked}, ClassTransient},
		{"constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, ClassConstraint},
		{"corrupt", sqlite3.Error{Code: sqlite3.ErrCorrupt}, ClassCorruption},
		{"not a database", sqlite3.Error{Code: sqlite3.ErrNotADB}, ClassCorruption},
		{"read only", sqlite3.Error{Code: sqlite3.ErrReadonly}, ClassConfig},
		{"disk full", sqlite3.Error{Code: sqlite3.ErrFull}, ClassConfig},
		{"cant open", sqlite3.Error{Code: sqlite3.ErrCantOpen}, ClassConfig},
		{"wrapped", fmt.Errorf("insert body: %w", sqlite3.Error{Code: sqlite3.ErrBusy}), ClassTransient},
		{"downgrade", ErrScanTypeDowngrade, ClassConstraint},
		{"plain", errors.New("boom"), ClassUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("op", tt.err)
			assert.Equal(t, tt.want, ClassOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	assert.Nil(t, classify("op", nil))
	assert.Same(t, ErrNotFound, classify("op", ErrNotFound))

	inner := classify("inner", sqlite3.Error{Code: sqlite3.ErrBusy})
	outer := classify("outer", inner)
	assert.Equal(t, inner, outer)

	var se *Error
	assert.True(t, errors.As(outer, &se))
	assert.Equal(t, "inner", se.Op)
}

func TestClassHelpers(t *testing.T) {
	busy := classify("op", sqlite3.Error{Code: sqlite3.ErrBusy})
	corrupt := classify("op", sqlite3.Error{Code: sqlite3.ErrCorrupt})

	assert.True(t, IsTransient(busy))
	assert.False(t, IsFatal(busy))
	assert.True(t, IsFatal(corrupt))
	assert.False(t, IsConstraint(corrupt))
	assert.Equal(t, Class(""), ClassOf(errors.New("x")))
}

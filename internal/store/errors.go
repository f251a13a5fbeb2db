package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Class is the coarse category of a store failure, used by callers to decide
// between retrying, skipping the event, or stopping.
type Class string

const (
	ClassTransient  Class = "transient"
	ClassConstraint Class = "constraint"
	ClassCorruption Class = "corruption"
	ClassConfig     Class = "config"
	ClassUnknown    Class = "unknown"
)

var (
	// ErrNotFound is returned by lookups when no row matches.
	ErrNotFound = errors.New("not found")

	// ErrScanTypeDowngrade is returned when a write would lower a body's scan type.
	ErrScanTypeDowngrade = errors.New("scan type downgrade")
)

// Error is a classified store failure.
type Error struct {
	Class Class
	Op    string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Class, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// classify wraps err as *Error. Errors that are already classified are
// returned unchanged, and ErrNotFound is passed through bare so lookups stay
// easy to test with errors.Is.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return &Error{Class: classOf(err), Op: op, Err: err}
}

func classOf(err error) Class {
	if errors.Is(err, ErrScanTypeDowngrade) {
		return ClassConstraint
	}

	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return ClassUnknown
	}

	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return ClassTransient
	case sqlite3.ErrConstraint:
		return ClassConstraint
	case sqlite3.ErrCorrupt, sqlite3.ErrNotADB:
		return ClassCorruption
	case sqlite3.ErrPerm, sqlite3.ErrReadonly, sqlite3.ErrCantOpen, sqlite3.ErrFull, sqlite3.ErrIoErr, sqlite3.ErrAuth:
		return ClassConfig
	default:
		return ClassUnknown
	}
}

// ClassOf returns the class of err, or "" if err is not a store error.
func ClassOf(err error) Class {
	var se *Error
	if errors.As(err, &se) {
		return se.Class
	}
	return ""
}

// IsTransient reports whether err is a lock or busy failure worth retrying.
func IsTransient(err error) bool {
	return ClassOf(err) == ClassTransient
}

// IsConstraint reports whether err is a uniqueness, foreign-key or
// monotonicity violation.
func IsConstraint(err error) bool {
	return ClassOf(err) == ClassConstraint
}

// IsFatal reports whether err means the store cannot be used any further.
func IsFatal(err error) bool {
	c := ClassOf(err)
	return c == ClassCorruption || c == ClassConfig
}

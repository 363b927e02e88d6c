package core

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("ledger record not found")
	ErrCorruptRecord = errors.New("corrupt ledger record")
	ErrPersistence   = errors.New("ledger persistence failed")
	ErrInvalidEntry  = errors.New("invalid entry")
	ErrInvalidPeriod = errors.New("invalid period")
)

// RecordError reports a failed storage operation on one location.
// It matches both its Kind sentinel and the underlying cause with errors.Is.
type RecordError struct {
	Op       string
	Location string
	Kind     error
	Err      error
}

// Error names the kind once, even when Err already wraps it.
func (e *RecordError) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Location, e.Kind)
	case errors.Is(e.Err, e.Kind):
		return fmt.Sprintf("%s %s: %v", e.Op, e.Location, e.Err)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Location, e.Kind, e.Err)
}

func (e *RecordError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NotFound builds a RecordError of kind ErrNotFound.
func NotFound(op, location string, err error) error {
	return &RecordError{Op: op, Location: location, Kind: ErrNotFound, Err: err}
}

// Corrupt builds a RecordError of kind ErrCorruptRecord.
func Corrupt(op, location string, err error) error {
	return &RecordError{Op: op, Location: location, Kind: ErrCorruptRecord, Err: err}
}

// Persistence builds a RecordError of kind ErrPersistence.
func Persistence(op, location string, err error) error {
	return &RecordError{Op: op, Location: location, Kind: ErrPersistence, Err: err}
}

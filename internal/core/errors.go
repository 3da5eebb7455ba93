package core

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedDate   = errors.New("malformed date")
	ErrMalformedNumber = errors.New("malformed number")
	ErrInvalidRange    = errors.New("invalid date range")
	ErrInvalidDate     = errors.New("date cannot be zero")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidType     = errors.New("invalid type")
	ErrWriteFailed     = errors.New("write failed")
)

// MalformedDateError reports a source row whose date text does not parse.
// Row is the 1-based position of the row in the snapshot.
type MalformedDateError struct {
	Row   int
	Value string
	Err   error
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("row %d: malformed date %q", e.Row, e.Value)
}

func (e *MalformedDateError) Unwrap() error { return e.Err }

func (e *MalformedDateError) Is(target error) bool { return target == ErrMalformedDate }

type MalformedNumberError struct {
	Row   int
	Field string
	Value string
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("row %d: malformed %s %q", e.Row, e.Field, e.Value)
}

func (e *MalformedNumberError) Is(target error) bool { return target == ErrMalformedNumber }

type InvalidRangeError struct {
	Start Date
	End   Date
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s", e.Start, e.End)
}

func (e *InvalidRangeError) Is(target error) bool { return target == ErrInvalidRange }

// WriteFailedError wraps a sink failure. Nothing is retried or rolled back.
type WriteFailedError struct {
	Table string
	Err   error
}

func (e *WriteFailedError) Error() string {
	return fmt.Sprintf("append to %s failed: %v", e.Table, e.Err)
}

func (e *WriteFailedError) Unwrap() error { return e.Err }

func (e *WriteFailedError) Is(target error) bool { return target == ErrWriteFailed }

package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for expected failure modes
var (
	ErrOutOfRange        = errors.New("coordinate out of range")
	ErrUnknownQuality    = errors.New("unknown chord quality")
	ErrEmptyLibrary      = errors.New("handprint library is empty")
	ErrNoDevice          = errors.New("no MIDI output device found")
	ErrUnsupportedDevice = errors.New("unsupported device type")
)

// RangeError reports a grid coordinate or pad index outside the valid bounds
// of the active device topology. It indicates a contract violation by the
// caller (a malformed capture or lookup), not a recoverable runtime condition.
type RangeError struct {
	What string // "row", "col", "padIndex"
	Got  int
	Max  int // exclusive upper bound
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %d out of range [0,%d)", e.What, e.Got, e.Max)
}

func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

// NewRangeError creates a RangeError
func NewRangeError(what string, got, max int) *RangeError {
	return &RangeError{What: what, Got: got, Max: max}
}

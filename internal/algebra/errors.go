package algebra

import (
	"errors"
	"fmt"
)

// EmptyIntervalError is raised when no string exists strictly between a and b
// in the base-36 alphabet. Callers with rebalancing context must catch this
// and trigger a rebalance; callers without context propagate it.
type EmptyIntervalError struct {
	A, B string
}

func (e EmptyIntervalError) Error() string {
	return fmt.Sprintf("no index exists strictly between %q and %q", e.A, e.B)
}

// NewEmptyIntervalError constructs an EmptyIntervalError.
func NewEmptyIntervalError(a, b string) EmptyIntervalError {
	return EmptyIntervalError{A: a, B: b}
}

// IsEmptyIntervalError reports whether err (or a wrapped cause) is an
// EmptyIntervalError.
func IsEmptyIntervalError(err error) bool {
	var e EmptyIntervalError
	return errors.As(err, &e)
}

// InvalidRangeError is raised when a >= b with both bounds finite. It signals
// a programming error in the caller: do not catch it, surface it.
type InvalidRangeError struct {
	A, B string
}

func (e InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range: %q is not strictly less than %q", e.A, e.B)
}

// NewInvalidRangeError constructs an InvalidRangeError.
func NewInvalidRangeError(a, b string) InvalidRangeError {
	return InvalidRangeError{A: a, B: b}
}

// IsInvalidRangeError reports whether err (or a wrapped cause) is an
// InvalidRangeError.
func IsInvalidRangeError(err error) bool {
	var e InvalidRangeError
	return errors.As(err, &e)
}

// InvalidCharacterError is raised on non-base-36 input to algebra helpers.
type InvalidCharacterError struct {
	Char rune
}

func (e InvalidCharacterError) Error() string {
	return fmt.Sprintf("invalid character %q: must be one of 0-9a-z", e.Char)
}

// NewInvalidCharacterError constructs an InvalidCharacterError.
func NewInvalidCharacterError(c rune) InvalidCharacterError {
	return InvalidCharacterError{Char: c}
}

// IsInvalidCharacterError reports whether err (or a wrapped cause) is an
// InvalidCharacterError.
func IsInvalidCharacterError(err error) bool {
	var e InvalidCharacterError
	return errors.As(err, &e)
}

// OrderingViolationError is asserted after a rebalance by ValidateOrder; it
// indicates a bug in the planner and should fail loudly.
type OrderingViolationError struct {
	Index int
	Prev  string
	Next  string
}

func (e OrderingViolationError) Error() string {
	return fmt.Sprintf("ordering violation at index %d: %q is not strictly less than %q", e.Index, e.Prev, e.Next)
}

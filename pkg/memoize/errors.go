package memoize

import "errors"

var (
	// ErrNilFunc is returned when New or Wrap is given a nil function.
	ErrNilFunc = errors.New("memoize: fn must not be nil")
)

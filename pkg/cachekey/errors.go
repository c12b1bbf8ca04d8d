package cachekey

import "errors"

var (
	// ErrUnserializableArgument is returned when an argument cannot be
	// canonicalized into a cache key (functions, channels, unsafe pointers,
	// or cyclic references). Use errors.Is to check for it.
	ErrUnserializableArgument = errors.New("cachekey: argument cannot be canonicalized")
)

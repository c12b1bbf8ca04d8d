package cache

import "errors"

// Package-specific errors
var (
	// ErrInvalidCapacity is returned when a cache is constructed with a
	// non-positive capacity.
	ErrInvalidCapacity = errors.New("cache: capacity must be positive")

	// ErrNegativeTTL is returned when a negative TTL is supplied, either at
	// construction (default TTL) or on a per-entry write. The offending
	// operation has no effect.
	ErrNegativeTTL = errors.New("cache: ttl must not be negative")

	// ErrParsingConfig is returned when environment variables cannot be
	// parsed into the Config struct.
	ErrParsingConfig = errors.New("cache: failed to parse environment variables into config")
)

// Package cachekey derives deterministic cache keys from argument lists.
//
// Memoization needs a single comparable key per call, but a call site hands
// over an ordered list of arbitrary values. This package canonicalizes such a
// list into a short hex string that is stable across processes and
// independent of map iteration order.
//
// # Usage
//
//	key, err := cachekey.Derive("user", 42, []string{"a", "b"})
//	if err != nil {
//		// one of the arguments cannot be canonicalized
//	}
//	// key is a 32-character hex string, e.g. "9f86d081884c7d659a2feaa0c55ad015"
//
// # Guarantees
//
//   - Deeply equal argument lists derive equal keys, including nested slices,
//     maps, and structs. Maps are visited in sorted key order.
//   - Lists differing in any value, order, or type derive different keys with
//     overwhelming probability (keys are a 128-bit SHA-256 prefix).
//   - Derivation is a pure function: no allocation survives the call and the
//     arguments are never mutated.
//
// # Unsupported arguments
//
// Functions, channels, unsafe pointers, and values containing cyclic
// references have no meaningful canonical form. Rather than silently
// producing a colliding or incorrect key, Derive fails fast:
//
//	_, err := cachekey.Derive(func() {})
//	errors.Is(err, cachekey.ErrUnserializableArgument) // true
package cachekey

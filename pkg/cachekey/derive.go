package cachekey

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
)

// Derive canonicalizes an ordered argument list into a single deterministic
// cache key. Two argument lists that are deeply equal (same values in the same
// order, nested containers included) always derive the same key; lists that
// differ in any value, order, or type derive different keys with overwhelming
// probability.
//
// The arguments are walked recursively and fed into a SHA-256 hash using a
// type-tagged encoding. Map entries are visited in sorted key order, so the
// iteration order of a map never leaks into the key.
//
// Functions, channels, unsafe pointers, and cyclic references cannot be
// canonicalized; Derive returns ErrUnserializableArgument for them.
func Derive(args ...any) (string, error) {
	h := sha256.New()
	enc := encoder{active: make(map[uintptr]bool)}

	for i, arg := range args {
		writeUint(h, uint64(i))
		if err := enc.encode(h, reflect.ValueOf(arg)); err != nil {
			return "", err
		}
	}

	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16]), nil
}

// encoder tracks pointers on the current walk path so cycles are detected
// instead of recursing forever.
type encoder struct {
	active map[uintptr]bool
}

// Tags for values that have no reflect.Kind of their own. reflect.Kind values
// stay below 64, so tags from 0x80 up never collide with them.
const (
	tagNil     = 0x80
	tagNilPtr  = 0x81
	tagBytes   = 0x82
	tagMapPair = 0x83
)

func (enc encoder) encode(w io.Writer, rv reflect.Value) error {
	if !rv.IsValid() {
		writeTag(w, tagNil)
		return nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		writeTag(w, byte(rv.Kind()))
		if rv.Bool() {
			writeUint(w, 1)
		} else {
			writeUint(w, 0)
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeTag(w, byte(rv.Kind()))
		writeUint(w, uint64(rv.Int()))

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		writeTag(w, byte(rv.Kind()))
		writeUint(w, rv.Uint())

	case reflect.Float32, reflect.Float64:
		writeTag(w, byte(rv.Kind()))
		writeUint(w, canonicalFloatBits(rv.Float()))

	case reflect.Complex64, reflect.Complex128:
		writeTag(w, byte(rv.Kind()))
		c := rv.Complex()
		writeUint(w, canonicalFloatBits(real(c)))
		writeUint(w, canonicalFloatBits(imag(c)))

	case reflect.String:
		writeTag(w, byte(rv.Kind()))
		s := rv.String()
		writeUint(w, uint64(len(s)))
		io.WriteString(w, s)

	case reflect.Slice, reflect.Array:
		return enc.encodeSequence(w, rv)

	case reflect.Map:
		return enc.encodeMap(w, rv)

	case reflect.Struct:
		return enc.encodeStruct(w, rv)

	case reflect.Pointer:
		if rv.IsNil() {
			writeTag(w, tagNilPtr)
			return nil
		}
		addr := rv.Pointer()
		if enc.active[addr] {
			return fmt.Errorf("%w: cyclic reference through %s", ErrUnserializableArgument, rv.Type())
		}
		enc.active[addr] = true
		defer delete(enc.active, addr)
		writeTag(w, byte(rv.Kind()))
		return enc.encode(w, rv.Elem())

	case reflect.Interface:
		if rv.IsNil() {
			writeTag(w, tagNil)
			return nil
		}
		return enc.encode(w, rv.Elem())

	default:
		// Func, Chan, UnsafePointer and anything reflect grows later.
		return fmt.Errorf("%w: unsupported kind %s", ErrUnserializableArgument, rv.Kind())
	}

	return nil
}

func (enc encoder) encodeSequence(w io.Writer, rv reflect.Value) error {
	// Byte slices and arrays are a common leaf; encode them as raw bytes so
	// [3]byte{...} and []byte{...} of equal content still differ only by tag.
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		writeTag(w, tagBytes)
		writeTag(w, byte(rv.Kind()))
		b := make([]byte, rv.Len())
		for i := range b {
			b[i] = byte(rv.Index(i).Uint())
		}
		writeUint(w, uint64(len(b)))
		w.Write(b)
		return nil
	}

	if rv.Kind() == reflect.Slice && !rv.IsNil() {
		addr := rv.Pointer()
		if enc.active[addr] {
			return fmt.Errorf("%w: cyclic reference through %s", ErrUnserializableArgument, rv.Type())
		}
		enc.active[addr] = true
		defer delete(enc.active, addr)
	}

	writeTag(w, byte(rv.Kind()))
	writeUint(w, uint64(rv.Len()))
	for i := range rv.Len() {
		if err := enc.encode(w, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

// encodeMap writes map entries sorted by their encoded key bytes, making the
// result independent of Go's randomized map iteration order.
func (enc encoder) encodeMap(w io.Writer, rv reflect.Value) error {
	if rv.IsNil() {
		writeTag(w, tagNil)
		return nil
	}
	addr := rv.Pointer()
	if enc.active[addr] {
		return fmt.Errorf("%w: cyclic reference through %s", ErrUnserializableArgument, rv.Type())
	}
	enc.active[addr] = true
	defer delete(enc.active, addr)

	type pair struct {
		key []byte
		val reflect.Value
	}
	pairs := make([]pair, 0, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		var buf bytes.Buffer
		if err := enc.encode(&buf, iter.Key()); err != nil {
			return err
		}
		pairs = append(pairs, pair{key: buf.Bytes(), val: iter.Value()})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return bytes.Compare(pairs[i].key, pairs[j].key) < 0
	})

	writeTag(w, byte(rv.Kind()))
	writeUint(w, uint64(len(pairs)))
	for _, p := range pairs {
		writeTag(w, tagMapPair)
		w.Write(p.key)
		if err := enc.encode(w, p.val); err != nil {
			return err
		}
	}
	return nil
}

func (enc encoder) encodeStruct(w io.Writer, rv reflect.Value) error {
	rt := rv.Type()
	writeTag(w, byte(rv.Kind()))

	// The type name participates so two structurally identical types still
	// derive distinct keys.
	name := rt.String()
	writeUint(w, uint64(len(name)))
	io.WriteString(w, name)

	writeUint(w, uint64(rt.NumField()))
	for i := range rt.NumField() {
		f := rt.Field(i)
		writeUint(w, uint64(len(f.Name)))
		io.WriteString(w, f.Name)
		if err := enc.encode(w, rv.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

// canonicalFloatBits collapses every NaN to a single bit pattern so equal-by-
// meaning values hash identically, and distinguishes +0 from -0 by leaving
// their native encodings intact.
func canonicalFloatBits(f float64) uint64 {
	if math.IsNaN(f) {
		return math.Float64bits(math.NaN())
	}
	return math.Float64bits(f)
}

func writeTag(w io.Writer, tag byte) {
	w.Write([]byte{tag})
}

func writeUint(w io.Writer, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	w.Write(buf[:])
}

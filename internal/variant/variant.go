// Package variant implements the tagged value that backs every ZCL attribute:
// a single Go type that can hold any of the 8-64 bit signed/unsigned integer
// widths, a float32, a bool, a string, or a raw byte slice, with the active
// width picked by the owning attribute's data type.
package variant

import (
	"fmt"
	"math"
)

// Kind discriminates the value stored in a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat32
	KindString
	KindBytes
)

// Value is a tagged union sized to the owning attribute's declared width.
// Width is tracked in bits (8, 16, 24, 32, 40, 48, 56, 64) so callers can
// clamp writes and re-serialize at the original width.
type Value struct {
	kind  Kind
	width int // bits; 8 for bool, 0 for string/bytes
	i     int64
	u     uint64
	f     float32
	s     string
	b     []byte
}

// None returns the empty/absent value.
func None() Value { return Value{kind: KindNone} }

// Bool constructs a boolean value.
func Bool(v bool) Value {
	var u uint64
	if v {
		u = 1
	}
	return Value{kind: KindBool, width: 8, u: u}
}

// Int constructs a signed integer value at the given bit width (8..64).
func Int(v int64, width int) Value { return Value{kind: KindInt, width: width, i: v} }

// Uint constructs an unsigned integer value at the given bit width (8..64).
func Uint(v uint64, width int) Value { return Value{kind: KindUint, width: width, u: v} }

// Float32 constructs a single-precision float value.
func Float32(v float32) Value { return Value{kind: KindFloat32, width: 32, f: v} }

// String constructs a character-string value.
func String(v string) Value { return Value{kind: KindString, s: v} }

// Bytes constructs an opaque byte-array value (octet string, or a string that
// failed both the UTF-8 and Latin-1 decode heuristics).
func Bytes(v []byte) Value { return Value{kind: KindBytes, b: append([]byte(nil), v...)} }

// Kind returns the discriminant.
func (v Value) Kind() Kind { return v.kind }

// Width returns the width in bits: the numeric width, 8 for a bool, or 0
// for strings, byte arrays and None.
func (v Value) Width() int { return v.width }

// Bool returns the boolean payload; ok is false if Kind() != KindBool.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.u != 0, true
}

// Int returns the signed integer payload; ok is false if Kind() != KindInt.
func (v Value) Int() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// Uint returns the unsigned integer payload; ok is false if Kind() != KindUint.
func (v Value) Uint() (uint64, bool) {
	if v.kind != KindUint {
		return 0, false
	}
	return v.u, true
}

// Float32 returns the float payload; ok is false if Kind() != KindFloat32.
func (v Value) Float32() (float32, bool) {
	if v.kind != KindFloat32 {
		return 0, false
	}
	return v.f, true
}

// String returns the string payload; ok is false if Kind() != KindString.
func (v Value) String() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// Bytes returns the byte-slice payload; ok is false if Kind() != KindBytes.
func (v Value) Bytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return append([]byte(nil), v.b...), true
}

// UintRange returns the inclusive range [0, 2^width - 1] for an unsigned
// value of the given bit width.
func UintRange(width int) (min, max uint64) {
	if width >= 64 {
		return 0, math.MaxUint64
	}
	return 0, (uint64(1) << uint(width)) - 1
}

// IntRange returns the inclusive range for a signed value of the given bit width.
func IntRange(width int) (min, max int64) {
	if width >= 64 {
		return math.MinInt64, math.MaxInt64
	}
	half := int64(1) << uint(width-1)
	return -half, half - 1
}

// ClampUint clamps v into the representable range for width, returning an
// error if v required clamping (callers decide whether that's fatal).
func ClampUint(v uint64, width int) (uint64, error) {
	_, max := UintRange(width)
	if v > max {
		return max, fmt.Errorf("value %d exceeds %d-bit unsigned range [0, %d]", v, width, max)
	}
	return v, nil
}

// ClampInt clamps v into the representable range for width, returning an
// error if v required clamping.
func ClampInt(v int64, width int) (int64, error) {
	min, max := IntRange(width)
	if v < min || v > max {
		if v < min {
			return min, fmt.Errorf("value %d below %d-bit signed range [%d, %d]", v, width, min, max)
		}
		return max, fmt.Errorf("value %d exceeds %d-bit signed range [%d, %d]", v, width, min, max)
	}
	return v, nil
}

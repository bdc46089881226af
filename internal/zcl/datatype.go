// Package zcl implements the ZigBee Cluster Library data model: attribute
// and command definitions, the cluster/frame wire codec, and the data-type
// encode/decode table every attribute value runs through.
package zcl

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"homai-zigbee/internal/ids"
	"homai-zigbee/internal/variant"
)

// Well-known data type ids (spec.md §4.5's encoding table).
const (
	TypeBool       = 0x10
	TypeBitmap8    = 0x18
	TypeBitmap16   = 0x19
	TypeBitmap24   = 0x1A
	TypeBitmap32   = 0x1B
	TypeBitmap40   = 0x1C
	TypeBitmap48   = 0x1D
	TypeBitmap56   = 0x1E
	TypeBitmap64   = 0x1F
	TypeUint8      = 0x20
	TypeUint16     = 0x21
	TypeUint24     = 0x22
	TypeUint32     = 0x23
	TypeUint40     = 0x24
	TypeUint48     = 0x25
	TypeUint56     = 0x26
	TypeUint64     = 0x27
	TypeInt8       = 0x28
	TypeInt16      = 0x29
	TypeInt24      = 0x2A
	TypeInt32      = 0x2B
	TypeInt40      = 0x2C
	TypeInt48      = 0x2D
	TypeInt56      = 0x2E
	TypeInt64      = 0x2F
	TypeEnum8      = 0x30
	TypeEnum16     = 0x31
	TypeFloat32    = 0x39
	TypeOctetStr   = 0x41
	TypeCharStr    = 0x42
	TypeArray      = 0x48
	TypeUTCTime    = 0xE2
	TypeIEEEAddr   = 0xF0
	TypeSecKey128  = 0xF1
)

// maxStringLen is the largest length-prefixed string/octet string (a single
// length byte, so 255 is the largest representable value; the spec's
// boundary test additionally rejects exactly 256 as an overlong write).
const maxStringLen = 255

// maxArrayLen caps decoded array payloads per spec.md §4.5 ("capped at ~256 bytes").
const maxArrayLen = 256

// WidthOf exposes widthOf for callers outside the package (internal/api's
// attribute-write handler needs it to build a variant.Value of the right
// kind/width from a JSON request body).
func WidthOf(dt ids.DataTypeID) (bits int, ok bool) { return widthOf(dt) }

// IsSigned exposes isSigned for the same reason as WidthOf.
func IsSigned(dt ids.DataTypeID) bool { return isSigned(dt) }

func widthOf(dt ids.DataTypeID) (bits int, ok bool) {
	switch dt.Uint8() {
	case TypeBool, TypeBitmap8, TypeUint8, TypeInt8, TypeEnum8:
		return 8, true
	case TypeBitmap16, TypeUint16, TypeInt16, TypeEnum16:
		return 16, true
	case TypeBitmap24, TypeUint24, TypeInt24:
		return 24, true
	case TypeBitmap32, TypeUint32, TypeInt32, TypeFloat32, TypeUTCTime:
		return 32, true
	case TypeBitmap40, TypeUint40, TypeInt40:
		return 40, true
	case TypeBitmap48, TypeUint48, TypeInt48:
		return 48, true
	case TypeBitmap56, TypeUint56, TypeInt56:
		return 56, true
	case TypeBitmap64, TypeUint64, TypeInt64, TypeIEEEAddr:
		return 64, true
	case TypeSecKey128:
		return 128, true
	default:
		return 0, false
	}
}

func isSigned(dt ids.DataTypeID) bool {
	switch dt.Uint8() {
	case TypeInt8, TypeInt16, TypeInt24, TypeInt32, TypeInt40, TypeInt48, TypeInt56, TypeInt64:
		return true
	default:
		return false
	}
}

func isBitmap(dt ids.DataTypeID) bool {
	switch dt.Uint8() {
	case TypeBitmap8, TypeBitmap16, TypeBitmap24, TypeBitmap32, TypeBitmap40, TypeBitmap48, TypeBitmap56, TypeBitmap64:
		return true
	default:
		return false
	}
}

func isEnum(dt ids.DataTypeID) bool {
	return dt.Uint8() == TypeEnum8 || dt.Uint8() == TypeEnum16
}

// EncodeValue serializes v in the little-endian wire layout dictated by dt.
func EncodeValue(dt ids.DataTypeID, v variant.Value) ([]byte, error) {
	switch dt.Uint8() {
	case TypeBool:
		b, ok := v.Bool()
		if !ok {
			return nil, fmt.Errorf("encode data type 0x10: value is not a bool")
		}
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil

	case TypeFloat32:
		f, ok := v.Float32()
		if !ok {
			return nil, fmt.Errorf("encode data type 0x39: value is not a float32")
		}
		return appendLE32(nil, math.Float32bits(f)), nil

	case TypeOctetStr:
		b, ok := v.Bytes()
		if !ok {
			return nil, fmt.Errorf("encode data type 0x41: value is not a byte array")
		}
		return encodeLengthPrefixed(b)

	case TypeCharStr:
		s, ok := v.String()
		if !ok {
			return nil, fmt.Errorf("encode data type 0x42: value is not a string")
		}
		return encodeLengthPrefixed([]byte(s))

	case TypeIEEEAddr:
		u, ok := v.Uint()
		if !ok {
			return nil, fmt.Errorf("encode data type 0xf0: value is not a uint64")
		}
		return appendLE64(nil, u), nil

	case TypeSecKey128:
		b, ok := v.Bytes()
		if !ok || len(b) != 16 {
			return nil, fmt.Errorf("encode data type 0xf1: value must be exactly 16 bytes")
		}
		return append([]byte(nil), b...), nil
	}

	width, ok := widthOf(dt)
	if !ok {
		return nil, fmt.Errorf("encode: unsupported data type %#02x", dt.Uint8())
	}

	if isSigned(dt) {
		i, ok := v.Int()
		if !ok {
			return nil, fmt.Errorf("encode data type %#02x: value is not a signed integer", dt.Uint8())
		}
		return appendLEWidth(uint64(i), width), nil
	}

	u, ok := v.Uint()
	if !ok {
		return nil, fmt.Errorf("encode data type %#02x: value is not an unsigned integer", dt.Uint8())
	}
	return appendLEWidth(u, width), nil
}

// DecodeValue parses b according to dt, returning the value and the number
// of bytes consumed.
func DecodeValue(dt ids.DataTypeID, b []byte) (variant.Value, int, error) {
	switch dt.Uint8() {
	case TypeBool:
		if len(b) < 1 {
			return variant.None(), 0, fmt.Errorf("decode data type 0x10: truncated")
		}
		return variant.Bool(b[0] != 0), 1, nil

	case TypeFloat32:
		if len(b) < 4 {
			return variant.None(), 0, fmt.Errorf("decode data type 0x39: truncated")
		}
		bits := readLE32(b)
		return variant.Float32(math.Float32frombits(bits)), 4, nil

	case TypeOctetStr:
		if len(b) < 1 {
			return variant.None(), 0, fmt.Errorf("decode data type 0x41: truncated")
		}
		n := int(b[0])
		if len(b) < 1+n {
			return variant.None(), 0, fmt.Errorf("decode data type 0x41: truncated payload")
		}
		return variant.Bytes(b[1 : 1+n]), 1 + n, nil

	case TypeCharStr:
		return decodeCharString(b)

	case TypeArray:
		return decodeArray(b)

	case TypeIEEEAddr:
		if len(b) < 8 {
			return variant.None(), 0, fmt.Errorf("decode data type 0xf0: truncated")
		}
		return variant.Uint(readLEWidth(b[:8], 64), 64), 8, nil

	case TypeSecKey128:
		if len(b) < 16 {
			return variant.None(), 0, fmt.Errorf("decode data type 0xf1: truncated")
		}
		return variant.Bytes(b[:16]), 16, nil
	}

	width, ok := widthOf(dt)
	if !ok {
		return variant.None(), 0, fmt.Errorf("decode: unsupported data type %#02x", dt.Uint8())
	}
	n := width / 8
	if len(b) < n {
		return variant.None(), 0, fmt.Errorf("decode data type %#02x: truncated, want %d bytes", dt.Uint8(), n)
	}
	raw := readLEWidth(b[:n], width)

	if isSigned(dt) {
		return variant.Int(signExtend(raw, width), width), n, nil
	}
	return variant.Uint(raw, width), n, nil
}

// signExtend converts a raw little-endian-packed value to a signed int64.
// Native widths (8/16/32/64) sign-extend properly via Go's own integer
// types. The "odd" packed widths (24/40/48/56) have no native Go integer
// type backing them; the upstream decoder memcpies them into the low bytes
// of an int64_t without extending the sign bit, and that quirk is kept
// as-is here (spec.md §9 Open Question).
func signExtend(raw uint64, width int) int64 {
	switch width {
	case 8:
		return int64(int8(raw))
	case 16:
		return int64(int16(raw))
	case 32:
		return int64(int32(raw))
	case 64:
		return int64(raw)
	default:
		return int64(raw)
	}
}

func encodeLengthPrefixed(b []byte) ([]byte, error) {
	if len(b) > maxStringLen {
		return nil, fmt.Errorf("encode length-prefixed string: length %d exceeds %d-byte budget", len(b), maxStringLen)
	}
	out := make([]byte, 0, 1+len(b))
	out = append(out, uint8(len(b)))
	out = append(out, b...)
	return out, nil
}

// decodeCharString implements spec.md §4.5's decode pipeline: strip trailing
// NULs, try UTF-8, fall back to a Latin-1 printability heuristic, else store
// as an opaque byte array.
func decodeCharString(b []byte) (variant.Value, int, error) {
	if len(b) < 1 {
		return variant.None(), 0, fmt.Errorf("decode data type 0x42: truncated")
	}
	n := int(b[0])
	if len(b) < 1+n {
		return variant.None(), 0, fmt.Errorf("decode data type 0x42: truncated payload")
	}
	raw := b[1 : 1+n]
	raw = bytesTrimTrailingNUL(raw)

	if utf8.Valid(raw) {
		return variant.String(string(raw)), 1 + n, nil
	}
	if isLatin1Printable(raw) {
		return variant.String(latin1ToUTF8(raw)), 1 + n, nil
	}
	return variant.Bytes(raw), 1 + n, nil
}

func bytesTrimTrailingNUL(b []byte) []byte {
	i := len(b)
	for i > 0 && b[i-1] == 0 {
		i--
	}
	return b[:i]
}

// isLatin1Printable reports whether every byte is a printable Latin-1
// character or common whitespace.
func isLatin1Printable(b []byte) bool {
	for _, c := range b {
		switch {
		case c == '\t' || c == '\n' || c == '\r':
		case c >= 0x20 && c <= 0x7E:
		case c >= 0xA0:
		default:
			return false
		}
	}
	return true
}

// latin1ToUTF8 transcodes Latin-1 bytes to UTF-8, applying the
// 0xA0->' ' and 0xAD->'-' substitutions spec.md §4.5 calls out.
func latin1ToUTF8(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		switch c {
		case 0xA0:
			sb.WriteRune(' ')
		case 0xAD:
			sb.WriteRune('-')
		default:
			sb.WriteRune(rune(c))
		}
	}
	return sb.String()
}

func decodeArray(b []byte) (variant.Value, int, error) {
	if len(b) < 3 {
		return variant.None(), 0, fmt.Errorf("decode data type 0x48: truncated header")
	}
	elemType := b[0]
	count := int(uint16(b[1]) | uint16(b[2])<<8)
	_ = elemType
	off := 3
	remaining := maxArrayLen
	for i := 0; i < count && remaining > 0; i++ {
		if off >= len(b) {
			break
		}
		remaining--
		off++
	}
	if off > len(b) {
		off = len(b)
	}
	return variant.Bytes(b[:off]), off, nil
}

func appendLE32(buf []byte, v uint32) []byte {
	return append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func appendLE64(buf []byte, v uint64) []byte {
	for i := 0; i < 8; i++ {
		buf = append(buf, byte(v>>(8*i)))
	}
	return buf
}

func appendLEWidth(v uint64, width int) []byte {
	n := width / 8
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = byte(v >> (8 * i))
	}
	return out
}

func readLE32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func readLEWidth(b []byte, width int) uint64 {
	n := width / 8
	var v uint64
	for i := 0; i < n && i < len(b); i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

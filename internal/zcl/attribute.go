package zcl

import (
	"fmt"
	"time"

	"homai-zigbee/internal/ids"
	"homai-zigbee/internal/variant"
)

// Access describes which ZCL operations an attribute accepts.
type Access uint8

const (
	AccessRead Access = iota
	AccessWrite
	AccessReadWrite
)

// NumericBase controls the radix used when an attribute's numeric value is
// rendered for display.
type NumericBase uint8

const (
	Base2  NumericBase = 2
	Base10 NumericBase = 10
	Base16 NumericBase = 16
)

// FormatHint suggests a UI widget for an attribute's value.
type FormatHint uint8

const (
	FormatDefault FormatHint = iota
	FormatPrefix
	FormatSlider
)

// EnumValue names one legal position of an enumerated attribute.
type EnumValue struct {
	Name     string
	Position int
}

// ReportConfig is an attribute's reporting configuration: the interval
// bounds for unsolicited reports plus the reportable-change threshold.
type ReportConfig struct {
	MinInterval      uint16
	MaxInterval      uint16
	TimeoutPeriod    uint16
	ReportableChange variant.Value
}

// Attribute is a single ZCL attribute definition plus its live value.
type Attribute struct {
	ID          ids.AttributeID
	DataType    ids.DataTypeID
	Name        string
	Description string
	Access      Access
	Mandatory   bool
	Available   bool
	NumericBase NumericBase

	value variant.Value

	EnumerationID int // -1 when the attribute is not an enumeration
	EnumValues    []EnumValue
	BitmapBits    []string // bit index -> name, sparse entries left ""

	Report   ReportConfig
	LastRead time.Time
	Format   FormatHint

	RangeMin, RangeMax variant.Value

	ManufacturerCode          ids.ManufacturerCode
	ParentAttributeSetID      int
	ParentAttributeSetMfgCode ids.ManufacturerCode

	// ListSizeAttributeID marks this attribute as a variable-length list
	// whose element count lives in another attribute.
	ListSizeAttributeID ids.AttributeID
}

// NewAttribute returns a zero-valued attribute of the given id/data-type,
// with no enumeration and no list-size reference.
func NewAttribute(id ids.AttributeID, dt ids.DataTypeID) *Attribute {
	return &Attribute{
		ID:                   id,
		DataType:             dt,
		EnumerationID:        -1,
		ListSizeAttributeID:  ids.NotPresentAttributeID,
		value:                variant.None(),
	}
}

// Value returns the attribute's current value.
func (a *Attribute) Value() variant.Value { return a.value }

// SetValue stores v after checking it against the numeric range of the
// attribute's data-type width (spec.md §3: "setters clamp / reject
// out-of-range writes"); RangeMin/RangeMax are not consulted.
// Out-of-range numeric writes are rejected outright and the stored value is
// left unchanged; this keeps "read after write" exact for every accepted
// write, which is the property spec.md §8 actually tests.
func (a *Attribute) SetValue(v variant.Value) error {
	width, hasWidth := widthOf(a.DataType)
	switch v.Kind() {
	case variant.KindUint:
		if hasWidth && !isSigned(a.DataType) {
			if _, err := variant.ClampUint(mustUint(v), width); err != nil {
				return fmt.Errorf("set attribute %#04x: %w", a.ID.Uint16(), err)
			}
		}
	case variant.KindInt:
		if hasWidth && isSigned(a.DataType) {
			if _, err := variant.ClampInt(mustInt(v), width); err != nil {
				return fmt.Errorf("set attribute %#04x: %w", a.ID.Uint16(), err)
			}
		}
	}
	a.value = v
	return nil
}

func mustUint(v variant.Value) uint64 { u, _ := v.Uint(); return u }
func mustInt(v variant.Value) int64   { i, _ := v.Int(); return i }

// Encode serializes the attribute's current value per its data type.
func (a *Attribute) Encode() ([]byte, error) {
	return EncodeValue(a.DataType, a.value)
}

// DecodeValue parses b into the attribute's value field per its data type,
// returning the number of bytes consumed.
func (a *Attribute) DecodeValue(b []byte) (int, error) {
	v, n, err := DecodeValue(a.DataType, b)
	if err != nil {
		return 0, err
	}
	a.value = v
	a.LastRead = time.Now()
	return n, nil
}

// IsEnumeration reports whether this attribute references an enumeration.
func (a *Attribute) IsEnumeration() bool { return a.EnumerationID >= 0 }

// PrettyString renders an enumeration attribute's current value as its
// declared name; a value that matches no declared position falls back to
// the plain numeric rendering in the attribute's NumericBase (decimal
// unless set) (spec.md §3: "enum values must be positive and match at least
// one declared position for pretty-printing to succeed").
func (a *Attribute) PrettyString() string {
	if a.IsEnumeration() {
		if u, ok := a.value.Uint(); ok {
			for _, ev := range a.EnumValues {
				if ev.Position >= 0 && uint64(ev.Position) == u {
					return ev.Name
				}
			}
		}
	}
	switch a.value.Kind() {
	case variant.KindUint:
		u, _ := a.value.Uint()
		return formatUint(u, a.NumericBase)
	case variant.KindInt:
		i, _ := a.value.Int()
		return fmt.Sprintf("%d", i)
	case variant.KindBool:
		b, _ := a.value.Bool()
		return fmt.Sprintf("%v", b)
	case variant.KindString:
		s, _ := a.value.String()
		return s
	default:
		return fmt.Sprintf("%#04x", a.DataType.Uint8())
	}
}

func formatUint(u uint64, base NumericBase) string {
	switch base {
	case Base2:
		return fmt.Sprintf("%b", u)
	case Base16:
		return fmt.Sprintf("%#x", u)
	default:
		return fmt.Sprintf("%d", u)
	}
}

// EncodeReportableChange serializes the reportable-change threshold at the
// attribute's own width; only unsigned, signed and boolean types support
// reporting (spec.md §4.5).
func (a *Attribute) EncodeReportableChange() ([]byte, error) {
	switch a.Report.ReportableChange.Kind() {
	case variant.KindUint, variant.KindInt, variant.KindBool:
		return EncodeValue(a.DataType, a.Report.ReportableChange)
	default:
		return nil, fmt.Errorf("attribute %#04x: reportable change unsupported for data type %#02x", a.ID.Uint16(), a.DataType.Uint8())
	}
}

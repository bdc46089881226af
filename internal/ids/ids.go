// Package ids wraps the Zigbee protocol's numeric identifiers in distinct types so
// a cluster id can never be passed where an attribute id is expected, and so on,
// without an explicit conversion at the call site.
package ids

import "encoding/binary"

// ClusterID identifies a ZCL cluster, scoped by profile.
type ClusterID uint16

// NewClusterID constructs a ClusterID from its raw 16-bit wire value.
func NewClusterID(v uint16) ClusterID { return ClusterID(v) }

// Uint16 returns the raw wire value.
func (c ClusterID) Uint16() uint16 { return uint16(c) }

// IsManufacturerSpecific reports whether this cluster id falls in the
// manufacturer-specific range (>= 0xFC00).
func (c ClusterID) IsManufacturerSpecific() bool { return uint16(c) >= 0xFC00 }

// MarshalBinary encodes the id little-endian, matching the wire byte order.
func (c ClusterID) MarshalBinary() ([]byte, error) {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(c))
	return b, nil
}

// AttributeID identifies an attribute within a cluster.
type AttributeID uint16

// NewAttributeID constructs an AttributeID from its raw wire value.
func NewAttributeID(v uint16) AttributeID { return AttributeID(v) }

// Uint16 returns the raw wire value.
func (a AttributeID) Uint16() uint16 { return uint16(a) }

// NotPresentAttributeID is the sentinel marking "no attribute" on the wire.
const NotPresentAttributeID AttributeID = 0xFFFF

// IsPresent reports whether this is a real attribute id, not the sentinel.
func (a AttributeID) IsPresent() bool { return a != NotPresentAttributeID }

// CommandID identifies a general or cluster-specific ZCL command.
type CommandID uint8

// NewCommandID constructs a CommandID from its raw wire value.
func NewCommandID(v uint8) CommandID { return CommandID(v) }

// Uint8 returns the raw wire value.
func (c CommandID) Uint8() uint8 { return uint8(c) }

// NoResponseCommandID marks "this command has no response command" (0xFF).
const NoResponseCommandID CommandID = 0xFF

// ManufacturerCode identifies a device vendor for manufacturer-specific
// clusters, attributes and commands. Zero means "not manufacturer-specific".
type ManufacturerCode uint16

// NewManufacturerCode constructs a ManufacturerCode from its raw wire value.
func NewManufacturerCode(v uint16) ManufacturerCode { return ManufacturerCode(v) }

// Uint16 returns the raw wire value.
func (m ManufacturerCode) Uint16() uint16 { return uint16(m) }

// IsSpecific reports whether this code marks a manufacturer-specific entity.
func (m ManufacturerCode) IsSpecific() bool { return m != 0 }

// Legacy vendor aliasing: deCONZ's schema database treats 0x115F as
// equivalent to 0x1037 for attribute/command lookup purposes. The exhaustive
// list behind this alias is not documented upstream (spec Open Question);
// only this one documented pair is honored.
const (
	legacyManufacturerA ManufacturerCode = 0x115F
	legacyManufacturerB ManufacturerCode = 0x1037
)

// MatchesForLookup reports whether m should be treated as equal to other for
// the purposes of manufacturer-scoped attribute/command lookup, honoring the
// 0x115F<->0x1037 legacy alias.
func (m ManufacturerCode) MatchesForLookup(other ManufacturerCode) bool {
	if m == other {
		return true
	}
	pair := func(a, b ManufacturerCode) bool {
		return (m == a && other == b) || (m == b && other == a)
	}
	return pair(legacyManufacturerA, legacyManufacturerB)
}

// DataTypeID identifies a ZCL data type (see internal/zcl for the encode/decode table).
type DataTypeID uint8

// NewDataTypeID constructs a DataTypeID from its raw wire value.
func NewDataTypeID(v uint8) DataTypeID { return DataTypeID(v) }

// Uint8 returns the raw wire value.
func (d DataTypeID) Uint8() uint8 { return uint8(d) }

// NotPresentDataTypeID is the sentinel marking "no data type" / an absent attribute.
const NotPresentDataTypeID DataTypeID = 0x00

// IsPresent reports whether this is a real data type id, not the "absent" sentinel.
func (d DataTypeID) IsPresent() bool { return d != NotPresentDataTypeID }

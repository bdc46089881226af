// Package zcldb loads the declarative ZCL schema (data types, enumerations,
// devices, profiles, domains of clusters) from XML and answers the runtime
// lookups the controller and ZCL codec need: cluster-by-(profile,cluster,
// mfcode), data-type-by-id-or-name.
package zcldb

import "homai-zigbee/internal/ids"

// DataTypeDescriptor names one ZCL data type for the schema's "datatype"
// elements — separate from internal/zcl's encode/decode table, which only
// needs the numeric id.
type DataTypeDescriptor struct {
	ID         ids.DataTypeID
	Name       string
	ShortName  string // e.g. "uint8", "bmp16"
	ByteLength int
	IsAnalog   bool // false means discrete (bool/bitmap/enum/string/...)
}

// EnumerationDescriptor is a named, shared set of enum values a "datatype"
// or attribute can reference by id.
type EnumerationDescriptor struct {
	ID     int
	Name   string
	Values []EnumValueDescriptor
}

// EnumValueDescriptor names one legal position of an EnumerationDescriptor.
type EnumValueDescriptor struct {
	Name     string
	Position int
}

// DeviceDescriptor names a (profile, device-id) pair. Profile 0 means
// "generic"; generic and profile-specific entries with the same device id
// are both kept (see Database.Devices).
type DeviceDescriptor struct {
	ProfileID uint16
	DeviceID  uint16
	Name      string
}

// ProfileDescriptor is a 16-bit application profile carrying a list of
// domain names it imports clusters from.
type ProfileDescriptor struct {
	ID      uint16
	Name    string
	Domains []string
}

// domainKey computes the composite lookup key spec.md §3 describes:
// (mfcode<<16)|clusterId when clusterId >= 0xFC00, else clusterId alone.
func domainKey(cluster ids.ClusterID, mfcode ids.ManufacturerCode) uint32 {
	if cluster.IsManufacturerSpecific() {
		return uint32(mfcode.Uint16())<<16 | uint32(cluster.Uint16())
	}
	return uint32(cluster.Uint16())
}

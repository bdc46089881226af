package zcldb

import (
	"fmt"
	"strconv"
	"strings"

	"homai-zigbee/internal/ids"
	"homai-zigbee/internal/zcl"
)

// wellKnownShortNames maps the schema's short type tokens to the fixed ZCL
// data-type ids internal/zcl already encodes/decodes. These are standard
// Zigbee constants, not something the XML needs to teach us; keeping the
// mapping here (rather than depending on the XML's own <datatype> elements
// to resolve attribute types) avoids a load-order dependency between a
// cluster referencing a type and that type's <datatype> element appearing
// later in the index.
var wellKnownShortNames = map[string]ids.DataTypeID{
	"bool":    ids.NewDataTypeID(zcl.TypeBool),
	"bmp8":    ids.NewDataTypeID(zcl.TypeBitmap8),
	"bmp16":   ids.NewDataTypeID(zcl.TypeBitmap16),
	"bmp24":   ids.NewDataTypeID(zcl.TypeBitmap24),
	"bmp32":   ids.NewDataTypeID(zcl.TypeBitmap32),
	"bmp40":   ids.NewDataTypeID(zcl.TypeBitmap40),
	"bmp48":   ids.NewDataTypeID(zcl.TypeBitmap48),
	"bmp56":   ids.NewDataTypeID(zcl.TypeBitmap56),
	"bmp64":   ids.NewDataTypeID(zcl.TypeBitmap64),
	"uint8":   ids.NewDataTypeID(zcl.TypeUint8),
	"uint16":  ids.NewDataTypeID(zcl.TypeUint16),
	"uint24":  ids.NewDataTypeID(zcl.TypeUint24),
	"uint32":  ids.NewDataTypeID(zcl.TypeUint32),
	"uint40":  ids.NewDataTypeID(zcl.TypeUint40),
	"uint48":  ids.NewDataTypeID(zcl.TypeUint48),
	"uint56":  ids.NewDataTypeID(zcl.TypeUint56),
	"uint64":  ids.NewDataTypeID(zcl.TypeUint64),
	"int8":    ids.NewDataTypeID(zcl.TypeInt8),
	"int16":   ids.NewDataTypeID(zcl.TypeInt16),
	"int24":   ids.NewDataTypeID(zcl.TypeInt24),
	"int32":   ids.NewDataTypeID(zcl.TypeInt32),
	"int40":   ids.NewDataTypeID(zcl.TypeInt40),
	"int48":   ids.NewDataTypeID(zcl.TypeInt48),
	"int56":   ids.NewDataTypeID(zcl.TypeInt56),
	"int64":   ids.NewDataTypeID(zcl.TypeInt64),
	"enum8":   ids.NewDataTypeID(zcl.TypeEnum8),
	"enum16":  ids.NewDataTypeID(zcl.TypeEnum16),
	"float":   ids.NewDataTypeID(zcl.TypeFloat32),
	"octstr":  ids.NewDataTypeID(zcl.TypeOctetStr),
	"string":  ids.NewDataTypeID(zcl.TypeCharStr),
	"array":   ids.NewDataTypeID(zcl.TypeArray),
	"utc":     ids.NewDataTypeID(zcl.TypeUTCTime),
	"ieee":    ids.NewDataTypeID(zcl.TypeIEEEAddr),
	"seckey":  ids.NewDataTypeID(zcl.TypeSecKey128),
}

// parseDataType resolves an attribute/command-parameter "type" token, which
// is either a short name ("uint8") or a hex literal ("0x20").
func parseDataType(token string) (ids.DataTypeID, error) {
	if dt, ok := wellKnownShortNames[strings.ToLower(token)]; ok {
		return dt, nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(token, "0x"), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown data type token %q", token)
	}
	return ids.NewDataTypeID(uint8(v)), nil
}

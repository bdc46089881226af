package controller

import (
	"encoding/binary"
	"fmt"
	"sync"

	"homai-zigbee/internal/ids"
	"homai-zigbee/internal/zcl"
)

// ZCL global (profile-wide) command ids, per the Zigbee Cluster Library
// spec -- generalizes pkg/zigbee/zcl.go's hardcoded On/Off-only builders
// into schema-driven ones that work for any cluster the database knows.
const (
	globalReadAttributes         ids.CommandID = 0x00
	globalReadAttributesResponse ids.CommandID = 0x01
	globalWriteAttributes        ids.CommandID = 0x02
	globalWriteAttributesResponse ids.CommandID = 0x04
	globalDefaultResponse        ids.CommandID = 0x0B
)

var seqCounter struct {
	mu  sync.Mutex
	cur uint8
}

func nextSeq() uint8 {
	seqCounter.mu.Lock()
	defer seqCounter.mu.Unlock()
	seqCounter.cur++
	return seqCounter.cur
}

// fillReadAttributes populates the pooled frame f as a global Read
// Attributes Request for attrs, optionally manufacturer-scoped.
func fillReadAttributes(f *zcl.Frame, mfg ids.ManufacturerCode, attrs ...ids.AttributeID) *zcl.Frame {
	payload := make([]byte, len(attrs)*2)
	for i, a := range attrs {
		binary.LittleEndian.PutUint16(payload[i*2:], a.Uint16())
	}

	fc := zcl.FrameControl(0)
	if mfg.IsSpecific() {
		fc |= zcl.FrameControlManufacturerSpecific
	}

	f.FrameControl = fc
	f.ManufacturerCode = mfg
	f.SeqNumber = nextSeq()
	f.CommandID = globalReadAttributes
	f.Payload = payload
	return f
}

// fillWriteAttributes populates the pooled frame f as a global Write
// Attributes Request: id(u16) + type(u8) + value for each attribute in attrs.
func fillWriteAttributes(f *zcl.Frame, mfg ids.ManufacturerCode, attrs ...*zcl.Attribute) (*zcl.Frame, error) {
	payload := make([]byte, 0, len(attrs)*4)
	for _, a := range attrs {
		valueBytes, err := a.Encode()
		if err != nil {
			return nil, fmt.Errorf("encode attribute %#04x: %w", a.ID.Uint16(), err)
		}
		payload = binary.LittleEndian.AppendUint16(payload, a.ID.Uint16())
		payload = append(payload, a.DataType.Uint8())
		payload = append(payload, valueBytes...)
	}

	fc := zcl.FrameControl(0)
	if mfg.IsSpecific() {
		fc |= zcl.FrameControlManufacturerSpecific
	}

	f.FrameControl = fc
	f.ManufacturerCode = mfg
	f.SeqNumber = nextSeq()
	f.CommandID = globalWriteAttributes
	f.Payload = payload
	return f, nil
}

// fillCommand populates the pooled frame f as a cluster-specific command
// for cmd against cluster, carrying payload as its raw ASDU body.
func fillCommand(f *zcl.Frame, cluster *zcl.Cluster, cmd *zcl.Command, payload []byte) *zcl.Frame {
	fc := zcl.FrameControlClusterSpecific
	if cmd.ManufacturerCode.IsSpecific() {
		fc |= zcl.FrameControlManufacturerSpecific
	}
	if cluster.IsServer {
		// responses from a server-side cluster flow server->client.
		fc |= zcl.FrameControlDirection
	}
	if cmd.DisableDefaultResponse {
		fc |= zcl.FrameControlDisableDefaultResp
	}

	f.FrameControl = fc
	f.ManufacturerCode = cmd.ManufacturerCode
	f.SeqNumber = nextSeq()
	f.CommandID = cmd.ID
	f.Payload = payload
	return f
}

// ReadAttributesResponseEntry is one decoded entry of a Read Attributes
// Response: either a value (Status == SUCCESS) or a failure status only.
type ReadAttributesResponseEntry struct {
	AttributeID ids.AttributeID
	Status      uint8
	Attribute   *zcl.Attribute // nil when Status != 0
}

const statusSuccess = 0x00

// parseReadAttributesResponse decodes a Read Attributes Response frame's
// payload against cluster's schema, falling back to a pooled ad hoc
// attribute (no name/access metadata) when the cluster doesn't declare the
// id -- this can legitimately happen for a manufacturer-specific attribute
// the schema database hasn't been taught about yet. Ownership of any
// returned *zcl.Attribute passes to the caller; it is not auto-returned to
// the pool.
func (c *Controller) parseReadAttributesResponse(f *zcl.Frame, cluster *zcl.Cluster) ([]ReadAttributesResponseEntry, error) {
	var out []ReadAttributesResponseEntry
	b := f.Payload
	off := 0

	for off+3 <= len(b) {
		attrID := ids.NewAttributeID(binary.LittleEndian.Uint16(b[off:]))
		off += 2
		status := b[off]
		off++

		entry := ReadAttributesResponseEntry{AttributeID: attrID, Status: status}
		if status != statusSuccess {
			out = append(out, entry)
			continue
		}

		if off >= len(b) {
			return out, fmt.Errorf("parse read attributes response: truncated before data type")
		}
		dt := ids.NewDataTypeID(b[off])
		off++

		var attr *zcl.Attribute
		if known := cluster.Attribute(attrID); known != nil {
			clone := *known
			attr = &clone
		} else {
			attr = c.attrPool.Get()
			*attr = *zcl.NewAttribute(attrID, dt)
		}

		n, err := attr.DecodeValue(b[off:])
		if err != nil {
			return out, fmt.Errorf("decode attribute %#04x: %w", attrID.Uint16(), err)
		}
		off += n

		entry.Attribute = attr
		out = append(out, entry)
	}

	return out, nil
}

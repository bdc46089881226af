package zcl

import (
	"fmt"

	"homai-zigbee/internal/ids"
)

// FrameControl is the ZCL frame-control byte's bit layout.
type FrameControl uint8

const (
	// FrameControlClusterSpecific set means the command id is scoped to the
	// cluster; clear means it's one of the profile-wide ("global") commands.
	FrameControlClusterSpecific    FrameControl = 0x01
	FrameControlManufacturerSpecific FrameControl = 0x04
	// FrameControlDirection set means server->client; clear means client->server.
	FrameControlDirection           FrameControl = 0x08
	FrameControlDisableDefaultResp  FrameControl = 0x10
)

// Has reports whether bit is set.
func (fc FrameControl) Has(bit FrameControl) bool { return fc&bit != 0 }

// defaultResponseCommandID is the general command id for a default response.
const defaultResponseCommandID uint8 = 0x0B

// Frame is a decoded/decodable ZCL frame: header plus raw payload.
type Frame struct {
	FrameControl     FrameControl
	ManufacturerCode ids.ManufacturerCode
	SeqNumber        uint8
	CommandID        ids.CommandID
	Payload          []byte

	valid bool
}

// IsValid reports whether the header was fully consumed when this frame was decoded.
func (f *Frame) IsValid() bool { return f.valid }

// Encode writes frame-control, the optional manufacturer code, sequence
// number, command id, then the raw payload (spec.md §4.6).
func (f *Frame) Encode() []byte {
	buf := make([]byte, 0, 5+len(f.Payload))
	buf = append(buf, uint8(f.FrameControl))
	if f.FrameControl.Has(FrameControlManufacturerSpecific) {
		mc := f.ManufacturerCode.Uint16()
		buf = append(buf, byte(mc), byte(mc>>8))
	}
	buf = append(buf, f.SeqNumber, f.CommandID.Uint8())
	buf = append(buf, f.Payload...)
	return buf
}

// DecodeFrame parses the header Encode produces, capturing the remainder as
// Payload. Payload is a view into b, not copied.
func DecodeFrame(b []byte) *Frame {
	f := &Frame{}
	if len(b) < 1 {
		return f
	}
	off := 0
	f.FrameControl = FrameControl(b[off])
	off++

	if f.FrameControl.Has(FrameControlManufacturerSpecific) {
		if len(b) < off+2 {
			return f
		}
		f.ManufacturerCode = ids.NewManufacturerCode(uint16(b[off]) | uint16(b[off+1])<<8)
		off += 2
	}

	if len(b) < off+2 {
		return f
	}
	f.SeqNumber = b[off]
	off++
	f.CommandID = ids.NewCommandID(b[off])
	off++

	f.Payload = b[off:]
	f.valid = true
	return f
}

// IsDefaultResponse reports whether this frame carries the profile-wide
// default-response command.
func (f *Frame) IsDefaultResponse() bool {
	return !f.FrameControl.Has(FrameControlClusterSpecific) && f.CommandID.Uint8() == defaultResponseCommandID
}

// DefaultResponseBody is the decoded {for-command-id, status} pair a
// default-response frame's payload carries.
type DefaultResponseBody struct {
	ForCommandID ids.CommandID
	Status       uint8
}

// DecodeDefaultResponse parses a default response's 2-byte body.
func (f *Frame) DecodeDefaultResponse() (DefaultResponseBody, error) {
	if !f.IsDefaultResponse() {
		return DefaultResponseBody{}, fmt.Errorf("decode default response: frame is not a default response")
	}
	if len(f.Payload) < 2 {
		return DefaultResponseBody{}, fmt.Errorf("decode default response: truncated body")
	}
	return DefaultResponseBody{
		ForCommandID: ids.NewCommandID(f.Payload[0]),
		Status:       f.Payload[1],
	}, nil
}

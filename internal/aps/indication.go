package aps

import (
	"time"

	"homai-zigbee/internal/address"
)

// MaxInboundAsdu caps the inbound ASDU size per spec.md §3.
const MaxInboundAsdu = 118

// Indication is the APSDE-DATA.indication primitive: an inbound frame from
// the network, addressed to this host's endpoints.
type Indication struct {
	version uint8

	DstAddrMode AddressMode
	DstAddress  address.Address
	DstEndpoint uint8

	SrcAddrMode AddressMode
	SrcAddress  address.Address
	SrcEndpoint uint8

	ProfileID uint16
	ClusterID uint16
	Asdu      []byte

	LinkQuality  uint8
	RSSI         int8
	RxTime       time.Time
	Status       Status
	SecurityStatus uint8
	PreviousHop  uint16
}

// NewIndication constructs an empty indication carrying the given wire version.
func NewIndication(version uint8) *Indication {
	return &Indication{version: version}
}

// Version reports the wire protocol version this indication decodes/encodes as.
func (ind *Indication) Version() uint8 { return ind.version }

// SetVersion overrides the wire protocol version.
func (ind *Indication) SetVersion(v uint8) { ind.version = v }

// unixToTime converts a wire-format u32 second count to a UTC time.Time.
func unixToTime(sec uint32) time.Time { return time.Unix(int64(sec), 0).UTC() }

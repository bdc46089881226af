package aps

import "homai-zigbee/internal/address"

// Status is the numeric result byte shared by APS/ZDP confirms, rendered as
// a stable ASCII name for logs and UIs (spec.md §7, error kind 2).
type Status uint8

const (
	StatusSuccess          Status = 0x00
	StatusNoAck            Status = 0xE9 // MAC_NO_ACK
	StatusIllegalRequest   Status = 0x80
	StatusInvalidBinding   Status = 0xA2
	StatusTableFull        Status = 0xA3 // NWK_TABLE_FULL family reused for APS table full
	StatusSecurityFail     Status = 0xAD
	StatusNwkRouteError    Status = 0xA1
	StatusMacNoAck         Status = 0xE9
	StatusMacChannelAccessFailure Status = 0xE1
	StatusNotConnected     Status = 0xF0 // synthetic: controller not on a network
	StatusQueueFull        Status = 0xF1 // synthetic: submit queue full
	StatusNodeIsZombie     Status = 0xF2 // synthetic: destination node is a zombie
)

var statusNames = map[Status]string{
	StatusSuccess:                 "SUCCESS",
	StatusNoAck:                   "NO_ACK",
	StatusIllegalRequest:          "ILLEGAL_REQUEST",
	StatusInvalidBinding:          "INVALID_BINDING",
	StatusTableFull:               "TABLE_FULL",
	StatusSecurityFail:            "SECURITY_FAIL",
	StatusNwkRouteError:           "NWK_ROUTE_ERROR",
	StatusMacChannelAccessFailure: "MAC_CHANNEL_ACCESS_FAILURE",
	StatusNotConnected:            "NOT_CONNECTED",
	StatusQueueFull:               "QUEUE_FULL",
	StatusNodeIsZombie:            "NODE_IS_ZOMBIE",
}

// String renders the status as a stable ASCII name, or "UNKNOWN" for
// unrecognized codes.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Confirm is the APSDE-DATA.confirm primitive: it reports the outcome of a
// previously submitted Request, matched by id.
type Confirm struct {
	ID          uint8
	DstAddrMode AddressMode
	DstAddress  address.Address
	DstEndpoint uint8
	SrcEndpoint uint8
	Status      Status
}

// SyntheticTimeout builds the confirm the controller emits when a request's
// timeout deadline passes without a real confirm arriving (spec.md §5).
func SyntheticTimeout(r *Request) Confirm {
	return Confirm{
		ID:          r.id,
		DstAddrMode: r.dstAddrMode,
		DstAddress:  r.dstAddress,
		DstEndpoint: r.dstEndpoint,
		SrcEndpoint: r.srcEndpoint,
		Status:      StatusNoAck,
	}
}

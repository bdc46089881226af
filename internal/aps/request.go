package aps

import (
	"time"

	"homai-zigbee/internal/address"
)

const invalidNodeID uint16 = 0xFFFF

// MaxRelays is the largest number of relay hops a source route may carry.
const MaxRelays = 9

// SourceRoute is the relay chain attached to a request headed for a
// deep-sleep target that cannot be reached directly.
type SourceRoute struct {
	UUIDHash uint32
	Relays   [MaxRelays]uint16
	Count    uint8
}

// Request is the APSDE-DATA.request primitive: everything needed to address,
// route and rate-limit a single outbound APS frame.
type Request struct {
	id      uint8
	version uint8

	dstAddrMode AddressMode
	dstAddress  address.Address
	dstEndpoint uint8
	srcEndpoint uint8

	profileID        uint16
	clusterID        uint16
	responseClusterID uint16

	asdu []byte

	txOptions TxOptions
	radius    uint8

	sendAfter time.Time
	timeoutAt time.Time
	sendDelay time.Duration

	nodeID uint16

	state     State
	confirmed bool

	sourceRoute *SourceRoute
}

// NewRequest constructs an idle request with the given id and wire version.
// The controller façade is responsible for allocating id via IDAllocator.
func NewRequest(id uint8, version uint8) *Request {
	return &Request{
		id:      id,
		version: version,
		nodeID:  invalidNodeID,
		state:   StateIdle,
	}
}

// ID returns the request's allocated id.
func (r *Request) ID() uint8 { return r.id }

// Version reports the wire protocol version this request encodes as.
func (r *Request) Version() uint8 { return r.version }

// SetVersion overrides the wire protocol version.
func (r *Request) SetVersion(v uint8) { r.version = v }

// DstAddress returns a pointer to the mutable destination address.
func (r *Request) DstAddress() *address.Address { return &r.dstAddress }

// DstAddressMode returns the destination addressing mode.
func (r *Request) DstAddressMode() AddressMode { return r.dstAddrMode }

// SetDstAddressMode sets the destination addressing mode.
func (r *Request) SetDstAddressMode(m AddressMode) { r.dstAddrMode = m }

// DstEndpoint returns the destination endpoint.
func (r *Request) DstEndpoint() uint8 { return r.dstEndpoint }

// SetDstEndpoint sets the destination endpoint.
func (r *Request) SetDstEndpoint(ep uint8) { r.dstEndpoint = ep }

// SrcEndpoint returns the source endpoint.
func (r *Request) SrcEndpoint() uint8 { return r.srcEndpoint }

// SetSrcEndpoint sets the source endpoint.
func (r *Request) SetSrcEndpoint(ep uint8) { r.srcEndpoint = ep }

// ProfileID returns the profile id the ASDU is scoped to.
func (r *Request) ProfileID() uint16 { return r.profileID }

// SetProfileID sets the profile id.
func (r *Request) SetProfileID(v uint16) { r.profileID = v }

// ClusterID returns the cluster id the ASDU addresses.
func (r *Request) ClusterID() uint16 { return r.clusterID }

// SetClusterID sets the cluster id.
func (r *Request) SetClusterID(v uint16) { r.clusterID = v }

// ResponseClusterID returns the cluster id a response should use, if different.
func (r *Request) ResponseClusterID() uint16 { return r.responseClusterID }

// SetResponseClusterID sets the response cluster id.
func (r *Request) SetResponseClusterID(v uint16) { r.responseClusterID = v }

// Asdu returns the request's application payload bytes.
func (r *Request) Asdu() []byte { return r.asdu }

// SetAsdu sets the application payload bytes, copying the input.
func (r *Request) SetAsdu(b []byte) { r.asdu = append([]byte(nil), b...) }

// TxOptions returns the transmit option flags.
func (r *Request) TxOptions() TxOptions { return r.txOptions }

// SetTxOptions sets the transmit option flags.
func (r *Request) SetTxOptions(o TxOptions) { r.txOptions = o }

// Radius returns the maximum hop count, or 0 for the network default.
func (r *Request) Radius() uint8 { return r.radius }

// SetRadius sets the maximum hop count.
func (r *Request) SetRadius(v uint8) { r.radius = v }

// SendAfter returns the earliest time this request may be dispatched.
func (r *Request) SendAfter() time.Time { return r.sendAfter }

// SetSendAfter sets the earliest dispatch time.
func (r *Request) SetSendAfter(t time.Time) { r.sendAfter = t }

// Timeout returns the absolute time after which this request is considered
// to have failed to receive a confirm.
func (r *Request) Timeout() time.Time { return r.timeoutAt }

// SetTimeout sets the absolute request timeout.
func (r *Request) SetTimeout(t time.Time) { r.timeoutAt = t }

// SendDelay returns the configured inter-request delay.
func (r *Request) SendDelay() time.Duration { return r.sendDelay }

// SetSendDelay sets the configured inter-request delay.
func (r *Request) SetSendDelay(d time.Duration) { r.sendDelay = d }

// NodeID returns the cached 16-bit node id shortcut, or the invalid sentinel
// if unset.
func (r *Request) NodeID() uint16 { return r.nodeID }

// SetNodeID sets the cached node id shortcut used by the v2+ flags byte.
func (r *Request) SetNodeID(id uint16) { r.nodeID = id }

// HasNodeID reports whether a node id shortcut has been cached.
func (r *Request) HasNodeID() bool { return r.nodeID != invalidNodeID }

// Confirmed reports whether a matching confirm has already been delivered.
func (r *Request) Confirmed() bool { return r.confirmed }

// SetConfirmed marks the request as having received its matching confirm.
func (r *Request) SetConfirmed(v bool) { r.confirmed = v }

// SourceRoute returns the attached source route, or nil if unicast-direct.
func (r *Request) SourceRoute() *SourceRoute { return r.sourceRoute }

// SetSourceRoute attaches relays (at most MaxRelays) and the route's uuid hash.
func (r *Request) SetSourceRoute(relays []uint16, uuidHash uint32) {
	if len(relays) == 0 {
		r.sourceRoute = nil
		return
	}
	sr := &SourceRoute{UUIDHash: uuidHash}
	n := len(relays)
	if n > MaxRelays {
		n = MaxRelays
	}
	copy(sr.Relays[:], relays[:n])
	sr.Count = uint8(n)
	r.sourceRoute = sr
}

// Clear resets the request to its zero-value idle state, releasing the
// ASDU buffer and any source route -- mirroring spec.md §5's ownership
// rule that a request exclusively owns these until drop/reassignment.
func (r *Request) Clear() {
	id, version := r.id, r.version
	*r = Request{id: id, version: version, nodeID: invalidNodeID, state: StateIdle}
}

// Package controller is the façade spec.md §4.9 (C10) describes: it owns the
// per-process singletons (request-id allocator, object pools, schema
// database, node cache) and is the only thing application code talks to.
// It pushes APS requests over an injected transport.Transport and turns
// inbound bytes back into confirms, indications and node events -- the
// same responsibility pkg/zigbee/controller.go holds for its EZSP dongle,
// generalized away from one radio's callback structure.
package controller

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"homai-zigbee/internal/address"
	"homai-zigbee/internal/aps"
	"homai-zigbee/internal/nodecache"
	"homai-zigbee/internal/transport"
	"homai-zigbee/internal/zcl"
	"homai-zigbee/internal/zcldb"
	"homai-zigbee/internal/zpool"
)

// Wire frame tags distinguish the three primitives multiplexed over a
// single transport.Transport byte pipe. This is this controller's own
// minimal framing, not part of the APS wire format itself (§6.2 versions
// the primitives; it says nothing about how they share one transport).
const (
	frameRequest    byte = 0x00
	frameConfirm    byte = 0x01
	frameIndication byte = 0x02
)

// Pool sizes straight from spec.md's C3 component description.
const (
	requestPoolSize   = 16
	framePoolSize     = 16
	attributePoolSize = 64
)

// defaultRequestTimeout is applied to a request with no explicit deadline;
// the submit caller may call SetTimeout on pooled requests before SendAPS
// if a different bound is wanted.
const defaultRequestTimeout = 3 * time.Second

// NodeEventKind classifies a NodeEvent.
type NodeEventKind uint8

const (
	NodeJoined NodeEventKind = iota
	NodeIndicationReceived
	NodeZombie
)

// NodeEvent is published whenever the node cache changes in a way
// application code should react to.
type NodeEvent struct {
	Kind       NodeEventKind
	Node       *nodecache.Node
	Indication *aps.Indication
}

// Controller is the C10 façade: APS submit surface, node cache owner,
// confirm/indication/node-event source.
type Controller struct {
	transport   transport.Transport
	schema      *zcldb.Database
	wireVersion uint8

	ids         *aps.IDAllocator
	requestPool *zpoolRequests
	framePool   *zpoolFrames
	attrPool    *zpoolAttrs

	nodesMu sync.RWMutex
	byExt   map[uint64]*nodecache.Node
	byNwk   map[uint16]*nodecache.Node

	pendingMu sync.Mutex
	pending   map[uint8]*aps.Request

	connMu    sync.RWMutex
	connected bool

	confirmCh    chan aps.Confirm
	indicationCh chan *aps.Indication
	eventCh      chan NodeEvent

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New constructs a Controller bound to tp, using schema for ZCL lookups and
// wireVersion for APS request/indication framing (§6.2).
func New(tp transport.Transport, schema *zcldb.Database, wireVersion uint8) *Controller {
	c := &Controller{
		transport:    tp,
		schema:       schema,
		wireVersion:  wireVersion,
		ids:          aps.NewIDAllocator(),
		requestPool:  newRequestPool(),
		framePool:    newFramePool(),
		attrPool:     newAttrPool(),
		byExt:        make(map[uint64]*nodecache.Node),
		byNwk:        make(map[uint16]*nodecache.Node),
		pending:      make(map[uint8]*aps.Request),
		connected:    true,
		confirmCh:    make(chan aps.Confirm, 32),
		indicationCh: make(chan *aps.Indication, 32),
		eventCh:      make(chan NodeEvent, 32),
		stopChan:     make(chan struct{}),
	}

	c.wg.Add(2)
	go c.readLoop()
	go c.timeoutLoop()

	return c
}

// Confirms returns the channel of inbound APS confirms.
func (c *Controller) Confirms() <-chan aps.Confirm { return c.confirmCh }

// Indications returns the channel of inbound APS indications.
func (c *Controller) Indications() <-chan *aps.Indication { return c.indicationCh }

// Events returns the channel of node-cache events.
func (c *Controller) Events() <-chan NodeEvent { return c.eventCh }

// IsConnected reports whether the controller believes its transport is up.
func (c *Controller) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected
}

func (c *Controller) markDisconnected() {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()
}

// Close tears the controller down: stops the background loops, closes the
// transport and releases pooled slots.
func (c *Controller) Close() {
	c.markDisconnected()
	close(c.stopChan)
	_ = c.transport.Close()
	c.wg.Wait()

	c.requestPool.Teardown()
	c.framePool.Teardown()
	c.attrPool.Teardown()

	log.Info().Msg("controller closed")
}

// --- Node registry ---

// NodeByExt returns the cached node for an IEEE address, creating one if
// this is the first time the address has been seen.
func (c *Controller) NodeByExt(ext uint64) *nodecache.Node {
	c.nodesMu.Lock()
	defer c.nodesMu.Unlock()

	if n, ok := c.byExt[ext]; ok {
		return n
	}
	addr := address.New()
	addr.SetExt(ext)
	n := nodecache.NewNode(addr)
	c.byExt[ext] = n
	return n
}

// NodeByNwk returns the cached node for a 16-bit network address, if known.
func (c *Controller) NodeByNwk(nwk uint16) (*nodecache.Node, bool) {
	c.nodesMu.RLock()
	defer c.nodesMu.RUnlock()
	n, ok := c.byNwk[nwk]
	return n, ok
}

// BindNwk records that nwk currently resolves to the node whose IEEE
// address is ext, so future traffic addressed by network address alone
// resolves to the same cache entry.
func (c *Controller) BindNwk(ext uint64, nwk uint16) {
	c.nodesMu.Lock()
	defer c.nodesMu.Unlock()
	n, ok := c.byExt[ext]
	if !ok {
		addr := address.New()
		addr.SetExt(ext)
		addr.SetNwk(nwk)
		n = nodecache.NewNode(addr)
		c.byExt[ext] = n
	} else {
		n.Address.SetNwk(nwk)
	}
	c.byNwk[nwk] = n
}

// Nodes returns a snapshot of every cached node.
func (c *Controller) Nodes() []*nodecache.Node {
	c.nodesMu.RLock()
	defer c.nodesMu.RUnlock()
	out := make([]*nodecache.Node, 0, len(c.byExt))
	for _, n := range c.byExt {
		out = append(out, n)
	}
	return out
}

// Snapshot captures every cached node for persistence (internal/store's
// opaque node-cache blob).
func (c *Controller) Snapshot() []nodecache.Snapshot {
	c.nodesMu.RLock()
	defer c.nodesMu.RUnlock()
	out := make([]nodecache.Snapshot, 0, len(c.byExt))
	for _, n := range c.byExt {
		out = append(out, n.ToSnapshot())
	}
	return out
}

// Restore repopulates the node registry from a previously saved snapshot
// set, re-deriving the byNwk index from whichever nodes carry a network
// address. Call this once, before the controller starts exchanging traffic.
func (c *Controller) Restore(snapshots []nodecache.Snapshot) {
	c.nodesMu.Lock()
	defer c.nodesMu.Unlock()
	for _, snap := range snapshots {
		n := nodecache.FromSnapshot(snap)
		c.byExt[snap.Ext] = n
		if snap.HasNwk {
			c.byNwk[snap.Nwk] = n
		}
	}
}

func (c *Controller) resolveNode(mode aps.AddressMode, addr address.Address) *nodecache.Node {
	switch mode {
	case aps.ExtAddress, aps.NwkExtAddress:
		return c.NodeByExt(addr.Ext())
	case aps.NwkAddress:
		if n, ok := c.NodeByNwk(addr.Nwk()); ok {
			return n
		}
		n := nodecache.NewNode(addr)
		c.nodesMu.Lock()
		c.byNwk[addr.Nwk()] = n
		c.nodesMu.Unlock()
		return n
	default:
		return nodecache.NewNode(addr)
	}
}

// --- Submitting APS requests ---

// SendAPS encodes r (whose id was allocated by NewRequest) and writes it to
// the transport. On a successful write the request is tracked under
// `pending` until its matching confirm or timeout arrives; on failure a
// synchronous status (§7 error kind 3) is returned and no bytes are sent.
func (c *Controller) SendAPS(r *aps.Request) (uint8, aps.Status) {
	if !c.IsConnected() {
		return 0, aps.StatusNotConnected
	}

	if mode := r.DstAddressMode(); mode == aps.ExtAddress || mode == aps.NwkExtAddress {
		if n := c.NodeByExt(r.DstAddress().Ext()); n.Zombie {
			return 0, aps.StatusNodeIsZombie
		}
	}

	wire, err := r.Encode()
	if err != nil {
		return 0, aps.StatusIllegalRequest
	}

	if !r.Transition(aps.StateBusy) {
		return 0, aps.StatusIllegalRequest
	}

	framed := make([]byte, 0, len(wire)+1)
	framed = append(framed, frameRequest)
	framed = append(framed, wire...)

	result, sendErr := c.transport.Send(framed)
	switch result {
	case transport.SendBusy:
		r.Transition(aps.StateFailure)
		c.requestPool.Put(r)
		return 0, aps.StatusQueueFull
	case transport.SendClosed:
		c.markDisconnected()
		r.Transition(aps.StateFailure)
		c.requestPool.Put(r)
		return 0, aps.StatusNotConnected
	}
	if sendErr != nil {
		r.Transition(aps.StateFailure)
		c.requestPool.Put(r)
		return 0, aps.StatusIllegalRequest
	}

	if r.Timeout().IsZero() {
		r.SetTimeout(time.Now().Add(defaultRequestTimeout))
	}
	r.Transition(aps.StateWait)

	c.pendingMu.Lock()
	c.pending[r.ID()] = r
	c.pendingMu.Unlock()

	return r.ID(), aps.StatusSuccess
}

// NewRequest pulls a Request from the pool, pre-populated with a freshly
// allocated id and the controller's configured wire version.
func (c *Controller) NewRequest() *aps.Request {
	r := c.requestPool.Get()
	id := c.ids.Next()
	*r = *aps.NewRequest(id, c.wireVersion)
	return r
}

// ReleaseRequest returns r to the pool. Callers only need this for requests
// that were never submitted (SendAPS releases confirmed/timed-out ones
// itself).
func (c *Controller) ReleaseRequest(r *aps.Request) {
	r.Clear()
	c.requestPool.Put(r)
}

// --- Background loops ---

func (c *Controller) readLoop() {
	defer c.wg.Done()
	for {
		b, err := c.transport.Recv()
		if err != nil {
			if errors.Is(err, transport.ErrClosed) {
				c.markDisconnected()
				return
			}
			select {
			case <-c.stopChan:
				return
			default:
				log.Warn().Err(err).Msg("controller transport recv error")
				continue
			}
		}
		select {
		case <-c.stopChan:
			return
		default:
		}
		if len(b) < 1 {
			continue
		}
		c.dispatch(b[0], b[1:])
	}
}

func (c *Controller) dispatch(tag byte, payload []byte) {
	switch tag {
	case frameConfirm:
		confirm, err := aps.DecodeConfirm(payload)
		if err != nil {
			log.Warn().Err(err).Msg("discarding malformed APS confirm")
			return
		}
		c.deliverConfirm(confirm)
	case frameIndication:
		ind, err := aps.DecodeIndication(payload, c.wireVersion)
		if err != nil {
			log.Warn().Err(err).Msg("discarding malformed APS indication")
			return
		}
		c.deliverIndication(ind)
	default:
		log.Debug().Uint8("tag", tag).Msg("unknown controller wire frame tag")
	}
}

func (c *Controller) deliverConfirm(confirm aps.Confirm) {
	c.pendingMu.Lock()
	req, ok := c.pending[confirm.ID]
	if ok {
		delete(c.pending, confirm.ID)
	}
	c.pendingMu.Unlock()

	if ok {
		req.SetConfirmed(true)
		if confirm.Status == aps.StatusSuccess {
			req.Transition(aps.StateConfirmed)
		} else {
			req.Transition(aps.StateFailure)
		}
		c.requestPool.Put(req)
	}

	select {
	case c.confirmCh <- confirm:
	default:
		log.Warn().Uint8("id", confirm.ID).Msg("confirm channel full, dropping")
	}
}

func (c *Controller) deliverIndication(ind *aps.Indication) {
	node := c.resolveNode(ind.SrcAddrMode, ind.SrcAddress)
	if ind.SrcAddrMode == aps.NwkAddress {
		if n2 := c.maybeUpgradeToExt(node, ind); n2 != nil {
			node = n2
		}
	}

	select {
	case c.indicationCh <- ind:
	default:
		log.Warn().Msg("indication channel full, dropping")
	}

	select {
	case c.eventCh <- NodeEvent{Kind: NodeIndicationReceived, Node: node, Indication: ind}:
	default:
	}
}

// maybeUpgradeToExt is a seam for callers who learn a node's IEEE address
// out of band (e.g. via ZDP) after having already cached it by nwk address
// alone; indications themselves carry no IEEE address at v1/v2.
func (c *Controller) maybeUpgradeToExt(n *nodecache.Node, ind *aps.Indication) *nodecache.Node {
	return nil
}

func (c *Controller) timeoutLoop() {
	defer c.wg.Done()
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.sweepTimeouts()
		}
	}
}

func (c *Controller) sweepTimeouts() {
	now := time.Now()

	var timedOut []*aps.Request
	c.pendingMu.Lock()
	for id, r := range c.pending {
		if !r.Timeout().IsZero() && now.After(r.Timeout()) {
			timedOut = append(timedOut, r)
			delete(c.pending, id)
		}
	}
	c.pendingMu.Unlock()

	for _, r := range timedOut {
		r.Transition(aps.StateTimeout)
		confirm := aps.SyntheticTimeout(r)
		c.requestPool.Put(r)
		select {
		case c.confirmCh <- confirm:
		default:
			log.Warn().Uint8("id", confirm.ID).Msg("timeout confirm channel full, dropping")
		}
	}
}

// --- pool helpers (C3) ---

type zpoolRequests = zpool.Pool[aps.Request]
type zpoolFrames = zpool.Pool[zcl.Frame]
type zpoolAttrs = zpool.Pool[zcl.Attribute]

func newRequestPool() *zpoolRequests {
	return zpool.New[aps.Request]("aps-request", requestPoolSize, func() *aps.Request {
		return aps.NewRequest(0, 1)
	})
}

func newFramePool() *zpoolFrames {
	return zpool.New[zcl.Frame]("zcl-frame", framePoolSize, func() *zcl.Frame {
		return &zcl.Frame{}
	})
}

func newAttrPool() *zpoolAttrs {
	return zpool.New[zcl.Attribute]("zcl-attribute", attributePoolSize, func() *zcl.Attribute {
		return &zcl.Attribute{}
	})
}

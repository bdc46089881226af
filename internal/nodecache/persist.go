package nodecache

import (
	"homai-zigbee/internal/address"
	"homai-zigbee/internal/ids"
	"homai-zigbee/internal/zcl"
	"homai-zigbee/internal/zdp"
)

// Snapshot is the gob-encodable on-disk form of a Node. Descriptors persist
// through their own wire byte arrays rather than reaching into their
// unexported fields, so whatever the codec considers valid bytes round
// -trips through the node-cache blob identically. internal/store treats
// the encoded Snapshot as opaque, per spec.md's persistence non-goal --
// it never parses this into SQL columns.
type Snapshot struct {
	Ext    uint64
	Nwk    uint16
	HasNwk bool

	NodeDescriptor  []byte
	PowerDescriptor []byte
	MacCapabilities uint8
	UserDescriptor  string

	SimpleDescriptors map[uint8][]byte

	Bindings     []Binding
	SourceRoutes []*SourceRoute

	EnergyDetect uint8
	Zombie       bool
}

// ToSnapshot captures n's persistable state.
func (n *Node) ToSnapshot() Snapshot {
	simple := make(map[uint8][]byte, len(n.simpleDescr))
	for ep, d := range n.simpleDescr {
		b, err := d.Encode()
		if err != nil {
			continue
		}
		simple[ep] = b
	}

	snap := Snapshot{
		NodeDescriptor:    n.NodeDescriptor.ToByteArray(),
		PowerDescriptor:   n.PowerDescriptor.ToByteArray(),
		MacCapabilities:   uint8(n.MacCapabilities),
		UserDescriptor:    n.UserDescriptor,
		SimpleDescriptors: simple,
		Bindings:          append([]Binding(nil), n.Bindings.All()...),
		SourceRoutes:      n.SourceRoutes,
		EnergyDetect:      n.EnergyDetect,
		Zombie:            n.Zombie,
	}
	if n.Address.HasExt() {
		snap.Ext = n.Address.Ext()
	}
	if n.Address.HasNwk() {
		snap.Nwk = n.Address.Nwk()
		snap.HasNwk = true
	}
	return snap
}

// FromSnapshot rebuilds a Node from a persisted Snapshot.
func FromSnapshot(snap Snapshot) *Node {
	addr := address.New()
	addr.SetExt(snap.Ext)
	if snap.HasNwk {
		addr.SetNwk(snap.Nwk)
	}

	n := NewNode(addr)
	n.NodeDescriptor = zdp.DecodeNodeDescriptor(snap.NodeDescriptor)
	n.PowerDescriptor = zdp.DecodePowerDescriptor(snap.PowerDescriptor)
	n.MacCapabilities = zdp.MacCapabilities(snap.MacCapabilities)
	n.UserDescriptor = snap.UserDescriptor
	n.EnergyDetect = snap.EnergyDetect
	n.Zombie = snap.Zombie
	n.SourceRoutes = snap.SourceRoutes

	var endpoints []uint8
	for ep, b := range snap.SimpleDescriptors {
		n.simpleDescr[ep] = zdp.DecodeSimpleDescriptor(b)
		n.clusterData[ep] = make(map[ids.ClusterID]*zcl.Cluster)
		endpoints = append(endpoints, ep)
	}
	n.SetActiveEndpoints(endpoints)

	for _, b := range snap.Bindings {
		n.Bindings.Add(b)
	}
	return n
}

// Package nodecache holds the live, in-memory picture of every node the
// controller has discovered: its descriptors, endpoints, cluster data,
// bindings and candidate source routes. It never touches the wire itself;
// internal/controller feeds it from APS indications and ZDP responses.
package nodecache

import (
	"sort"
	"time"

	"homai-zigbee/internal/address"
	"homai-zigbee/internal/ids"
	"homai-zigbee/internal/zcl"
	"homai-zigbee/internal/zdp"
)

// Node is one entry in the cache: everything known about a single device.
type Node struct {
	Address address.Address

	MacCapabilities zdp.MacCapabilities
	NodeDescriptor  zdp.NodeDescriptor
	PowerDescriptor zdp.PowerDescriptor
	UserDescriptor  string // <= 16 chars

	activeEndpoints  []uint8
	endpointsToFetch []uint8
	simpleDescr      map[uint8]zdp.SimpleDescriptor
	clusterData      map[uint8]map[ids.ClusterID]*zcl.Cluster

	Bindings     BindingTable
	SourceRoutes []*SourceRoute

	EnergyDetect uint8
	Zombie       bool
	NeedsRedraw  bool
}

// NewNode returns an empty node record for addr.
func NewNode(addr address.Address) *Node {
	return &Node{
		Address:     addr,
		simpleDescr: make(map[uint8]zdp.SimpleDescriptor),
		clusterData: make(map[uint8]map[ids.ClusterID]*zcl.Cluster),
	}
}

// ActiveEndpoints returns the node's active-endpoint list, sorted ascending.
func (n *Node) ActiveEndpoints() []uint8 { return n.activeEndpoints }

// EndpointsToFetch returns the sub-list of active endpoints whose simple
// descriptor has not yet been retrieved.
func (n *Node) EndpointsToFetch() []uint8 { return n.endpointsToFetch }

// SetActiveEndpoints replaces the active-endpoint list and recomputes which
// of them still need their simple descriptor fetched.
func (n *Node) SetActiveEndpoints(eps []uint8) {
	list := append([]uint8(nil), eps...)
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	n.activeEndpoints = list
	n.recomputeToFetch()
}

func (n *Node) recomputeToFetch() {
	var toFetch []uint8
	for _, ep := range n.activeEndpoints {
		if d, ok := n.simpleDescr[ep]; !ok || !d.IsValid() {
			toFetch = append(toFetch, ep)
		}
	}
	n.endpointsToFetch = toFetch
}

// SimpleDescriptor returns the endpoint's simple descriptor, if fetched.
func (n *Node) SimpleDescriptor(ep uint8) (zdp.SimpleDescriptor, bool) {
	d, ok := n.simpleDescr[ep]
	return d, ok
}

// ClusterData returns the populated cluster objects carried for an endpoint,
// keyed by cluster id. Entries only exist once attribute data has actually
// been read or reported for that cluster.
func (n *Node) ClusterData(ep uint8) map[ids.ClusterID]*zcl.Cluster {
	return n.clusterData[ep]
}

// SetClusterData records a resolved, populated cluster for an endpoint.
func (n *Node) SetClusterData(ep uint8, c *zcl.Cluster) {
	m := n.clusterData[ep]
	if m == nil {
		m = make(map[ids.ClusterID]*zcl.Cluster)
		n.clusterData[ep] = m
	}
	m[c.ID] = c
}

// SetSimpleDescriptor adopts descr for its endpoint, per spec.md §4.8: when
// the endpoint already carries a descriptor with the same cluster-list
// cardinality, the call is a no-op (cardinality-equal descriptors are
// treated as unchanged); otherwise the new descriptor is adopted, and any
// already-populated cluster data for clusters present in both the old and
// new cluster lists is carried forward so in-flight attribute state survives
// a simple-descriptor refresh.
func (n *Node) SetSimpleDescriptor(descr zdp.SimpleDescriptor) {
	ep := descr.Endpoint()
	old, exists := n.simpleDescr[ep]
	if exists && clusterCount(old) == clusterCount(descr) {
		return
	}

	if exists {
		oldIDs := clusterIDSet(old)
		newIDs := clusterIDSet(descr)
		oldData := n.clusterData[ep]
		kept := make(map[ids.ClusterID]*zcl.Cluster)
		for id := range newIDs {
			if !oldIDs[id] {
				continue
			}
			if c, ok := oldData[id]; ok {
				kept[id] = c
			}
		}
		n.clusterData[ep] = kept
	} else {
		n.clusterData[ep] = make(map[ids.ClusterID]*zcl.Cluster)
	}

	n.simpleDescr[ep] = descr
	n.insertEndpointSorted(ep)
	n.recomputeToFetch()
}

func (n *Node) insertEndpointSorted(ep uint8) {
	for _, e := range n.activeEndpoints {
		if e == ep {
			return
		}
	}
	n.activeEndpoints = append(n.activeEndpoints, ep)
	sort.Slice(n.activeEndpoints, func(i, j int) bool { return n.activeEndpoints[i] < n.activeEndpoints[j] })
}

func clusterCount(d zdp.SimpleDescriptor) int {
	return len(d.InClusters()) + len(d.OutClusters())
}

func clusterIDSet(d zdp.SimpleDescriptor) map[ids.ClusterID]bool {
	set := make(map[ids.ClusterID]bool, clusterCount(d))
	for _, id := range d.InClusters() {
		set[id] = true
	}
	for _, id := range d.OutClusters() {
		set[id] = true
	}
	return set
}

// ResetAll clears every endpoint's descriptor and cluster data and marks the
// node reachable again (clears the zombie flag).
func (n *Node) ResetAll() {
	n.simpleDescr = make(map[uint8]zdp.SimpleDescriptor)
	n.clusterData = make(map[uint8]map[ids.ClusterID]*zcl.Cluster)
	n.Zombie = false
	n.recomputeToFetch()
}

// AddSourceRoute inserts or updates sr, keyed by its uuid-hash, and reports
// which of {new, updated, unchanged, invalid} occurred.
func (n *Node) AddSourceRoute(sr *SourceRoute) AddRouteResult {
	if sr == nil || len(sr.Hops) == 0 {
		return RouteInvalid
	}
	for i, existing := range n.SourceRoutes {
		if existing.UUIDHash == sr.UUIDHash {
			if existing.Equal(sr) {
				return RouteUnchanged
			}
			n.SourceRoutes[i] = sr
			return RouteUpdated
		}
	}
	n.SourceRoutes = append(n.SourceRoutes, sr)
	return RouteNew
}

// Touch stamps LastConfirmed on every binding whose destination matches dst,
// used while replaying a Mgmt_Bind_rsp scan before calling ClearOldBindings.
func (n *Node) Touch(dst Binding, at time.Time) {
	for i := range n.Bindings.entries {
		if n.Bindings.entries[i].Equal(dst) {
			n.Bindings.entries[i].LastConfirmed = at
			return
		}
	}
}

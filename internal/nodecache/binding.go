package nodecache

import (
	"time"

	"homai-zigbee/internal/aps"
	"homai-zigbee/internal/ids"
)

// invalidEndpoint marks "no destination endpoint", used for group bindings.
const invalidEndpoint = 0xff

// Binding records a source-cluster -> destination binding entry, as carried
// by the Mgmt_Bind_rsp / Bind_req ZDP primitives.
type Binding struct {
	SrcAddr       uint64
	SrcEndpoint   uint8
	Cluster       ids.ClusterID
	DstAddrMode   aps.AddressMode // GroupAddress or ExtAddress, per deCONZ
	DstGroup      uint16
	DstExt        uint64
	DstEndpoint   uint8 // invalidEndpoint (0xff) for group bindings
	LastConfirmed time.Time
}

// NewExtBinding builds a unicast (extended-address) binding.
func NewExtBinding(src, dst uint64, cluster ids.ClusterID, srcEP, dstEP uint8) Binding {
	return Binding{
		SrcAddr:     src,
		SrcEndpoint: srcEP,
		Cluster:     cluster,
		DstAddrMode: aps.ExtAddress,
		DstExt:      dst,
		DstEndpoint: dstEP,
	}
}

// NewGroupBinding builds a group binding; it carries no destination endpoint.
func NewGroupBinding(src uint64, dstGroup uint16, cluster ids.ClusterID, srcEP uint8) Binding {
	return Binding{
		SrcAddr:     src,
		SrcEndpoint: srcEP,
		Cluster:     cluster,
		DstAddrMode: aps.GroupAddress,
		DstGroup:    dstGroup,
		DstEndpoint: invalidEndpoint,
	}
}

// IsValid mirrors deCONZ's Binding::isValid: note clusterId == 0xffff is
// deliberately not rejected here.
func (b Binding) IsValid() bool {
	if b.SrcAddr == 0 || b.SrcEndpoint == invalidEndpoint {
		return false
	}
	switch b.DstAddrMode {
	case aps.ExtAddress:
		return b.DstExt != 0 && b.DstEndpoint != invalidEndpoint
	case aps.GroupAddress:
		return true
	default:
		return false
	}
}

// Equal compares every field relevant to binding-table deduplication.
func (b Binding) Equal(o Binding) bool {
	if b.SrcAddr != o.SrcAddr || b.SrcEndpoint != o.SrcEndpoint || b.Cluster != o.Cluster || b.DstAddrMode != o.DstAddrMode {
		return false
	}
	switch b.DstAddrMode {
	case aps.ExtAddress:
		return b.DstExt == o.DstExt && b.DstEndpoint == o.DstEndpoint
	case aps.GroupAddress:
		return b.DstGroup == o.DstGroup
	default:
		return false
	}
}

// BindingTable is an unordered collection of bindings, deduplicated by
// Binding.Equal, as described in deCONZ's binding_table.cpp.
type BindingTable struct {
	entries []Binding
}

// Add inserts binding if valid and not already present. Returns whether it
// was added.
func (t *BindingTable) Add(b Binding) bool {
	if !b.IsValid() || t.Contains(b) {
		return false
	}
	t.entries = append(t.entries, b)
	return true
}

// Remove deletes the first matching binding. Returns whether one was removed.
func (t *BindingTable) Remove(b Binding) bool {
	for i, e := range t.entries {
		if e.Equal(b) {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether an equal binding is already stored.
func (t *BindingTable) Contains(b Binding) bool {
	for _, e := range t.entries {
		if e.Equal(b) {
			return true
		}
	}
	return false
}

// All returns the table's entries. The slice must not be mutated.
func (t *BindingTable) All() []Binding { return t.entries }

// ClearOldBindings evicts up to 128 bindings whose LastConfirmed precedes
// ref. Intended use (per spec.md §4.8, mirroring the Mgmt_Bind_rsp refresh
// protocol): set ref just before requesting scan index 0, add every binding
// learned during the scan, then call this to drop entries the scan didn't
// re-confirm.
func (t *BindingTable) ClearOldBindings(ref time.Time) {
	const maxEvict = 128
	evicted := 0
	for evicted < maxEvict {
		idx := -1
		for i, e := range t.entries {
			if e.LastConfirmed.Before(ref) {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}
		t.entries = append(t.entries[:idx], t.entries[idx+1:]...)
		evicted++
	}
}

package nodecache

import (
	"testing"

	"homai-zigbee/internal/address"
	"homai-zigbee/internal/ids"
)

func TestSnapshotRoundTripsAddressDescriptorsAndBindings(t *testing.T) {
	addr := address.New()
	addr.SetExt(0x00124b0001abcdef)
	addr.SetNwk(0x1234)

	n := NewNode(addr)
	n.SetSimpleDescriptor(descrWithClusters(1, []uint16{0x0000, 0x0006}, []uint16{0x0019}))
	n.Zombie = true
	n.EnergyDetect = 42
	n.UserDescriptor = "kitchen light"
	n.Bindings.Add(NewExtBinding(addr.Ext(), 0x00124b0009fedcba, ids.NewClusterID(0x0006), 1, 1))
	n.AddSourceRoute(NewSourceRoute("route-1", 0xdead, 0, []uint64{0x00124b0009fedcba}, []uint8{200}))

	snap := n.ToSnapshot()
	if snap.Ext != addr.Ext() || !snap.HasNwk || snap.Nwk != addr.Nwk() {
		t.Fatalf("snapshot address = %+v", snap)
	}

	restored := FromSnapshot(snap)
	if restored.Address.Ext() != addr.Ext() || restored.Address.Nwk() != addr.Nwk() {
		t.Fatalf("restored address = %+v", restored.Address)
	}
	if !restored.Zombie || restored.EnergyDetect != 42 || restored.UserDescriptor != "kitchen light" {
		t.Fatalf("restored scalar fields = %+v", restored)
	}
	if len(restored.ActiveEndpoints()) != 1 || restored.ActiveEndpoints()[0] != 1 {
		t.Fatalf("restored active endpoints = %v", restored.ActiveEndpoints())
	}
	d, ok := restored.SimpleDescriptor(1)
	if !ok || len(d.InClusters()) != 2 || len(d.OutClusters()) != 1 {
		t.Fatalf("restored simple descriptor = %+v, ok=%v", d, ok)
	}
	if len(restored.Bindings.All()) != 1 {
		t.Fatalf("restored bindings = %v", restored.Bindings.All())
	}
	if len(restored.SourceRoutes) != 1 || restored.SourceRoutes[0].UUIDHash != 0xdead {
		t.Fatalf("restored source routes = %v", restored.SourceRoutes)
	}
}

func TestSnapshotOmitsNwkWhenAddressHasNone(t *testing.T) {
	addr := address.New()
	addr.SetExt(0x1)
	n := NewNode(addr)

	snap := n.ToSnapshot()
	if snap.HasNwk {
		t.Fatalf("expected HasNwk=false for an ext-only address, got %+v", snap)
	}

	restored := FromSnapshot(snap)
	if restored.Address.HasNwk() {
		t.Fatal("restored address should not carry a network address")
	}
}

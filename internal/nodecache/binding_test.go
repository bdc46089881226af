package nodecache

import (
	"testing"
	"time"

	"homai-zigbee/internal/ids"
)

func TestBindingTableAddIsIdempotent(t *testing.T) {
	var table BindingTable
	b := NewExtBinding(0x1122, 0x3344, ids.NewClusterID(0x0006), 1, 2)

	if !table.Add(b) {
		t.Fatal("expected first add to succeed")
	}
	if table.Add(b) {
		t.Error("expected duplicate add to be a no-op")
	}
	if len(table.All()) != 1 {
		t.Errorf("len = %d, want 1", len(table.All()))
	}
}

func TestBindingTableRejectsInvalid(t *testing.T) {
	var table BindingTable
	invalid := Binding{} // SrcAddr == 0
	if table.Add(invalid) {
		t.Error("expected an invalid binding to be rejected")
	}
}

func TestGroupBindingHasNoEndpointAndIsValid(t *testing.T) {
	b := NewGroupBinding(0x1122, 0x9000, ids.NewClusterID(0x0006), 1)
	if !b.IsValid() {
		t.Fatal("expected a group binding with a nonzero source to be valid")
	}
	if b.DstEndpoint != invalidEndpoint {
		t.Errorf("DstEndpoint = %#x, want 0xff for a group binding", b.DstEndpoint)
	}
}

func TestBindingTableRemove(t *testing.T) {
	var table BindingTable
	b := NewExtBinding(0x1122, 0x3344, ids.NewClusterID(0x0006), 1, 2)
	table.Add(b)
	if !table.Remove(b) {
		t.Fatal("expected removal to succeed")
	}
	if table.Contains(b) {
		t.Error("binding should no longer be present")
	}
	if table.Remove(b) {
		t.Error("removing an already-absent binding should report false")
	}
}

func TestClearOldBindingsEvictsOnlyStaleEntries(t *testing.T) {
	var table BindingTable
	now := time.Unix(1700000000, 0)

	stale := NewExtBinding(1, 2, ids.NewClusterID(1), 1, 1)
	stale.LastConfirmed = now.Add(-time.Hour)
	fresh := NewExtBinding(3, 4, ids.NewClusterID(1), 1, 1)
	fresh.LastConfirmed = now.Add(time.Hour)

	table.Add(stale)
	table.Add(fresh)

	table.ClearOldBindings(now)

	if len(table.All()) != 1 || !table.All()[0].Equal(fresh) {
		t.Fatalf("expected only the fresh binding to survive, got %+v", table.All())
	}
}

func TestClearOldBindingsCapsEvictionAt128(t *testing.T) {
	var table BindingTable
	now := time.Unix(1700000000, 0)
	for i := 0; i < 150; i++ {
		b := NewExtBinding(uint64(i+1), 0xAAAA, ids.NewClusterID(1), 1, 1)
		b.LastConfirmed = now.Add(-time.Hour)
		table.Add(b)
	}
	table.ClearOldBindings(now)
	if len(table.All()) != 22 {
		t.Errorf("expected 150-128=22 entries left, got %d", len(table.All()))
	}
}

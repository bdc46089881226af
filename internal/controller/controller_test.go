package controller

import (
	"testing"
	"time"

	"homai-zigbee/internal/address"
	"homai-zigbee/internal/aps"
	"homai-zigbee/internal/ids"
	"homai-zigbee/internal/transport"
	"homai-zigbee/internal/zcl"
	"homai-zigbee/internal/zcldb"
)

func loadSchema(t *testing.T) *zcldb.Database {
	t.Helper()
	db := zcldb.NewDatabase()
	if err := db.LoadFile("../../testdata/zcl/general.xml"); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	return db
}

func waitFor[T any](t *testing.T, ch <-chan T, timeout time.Duration) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(timeout):
		t.Fatal("timed out waiting on channel")
		var zero T
		return zero
	}
}

func TestSendAPSDeliversFramedRequestAndMatchesConfirm(t *testing.T) {
	lb := transport.NewLoopback()
	c := New(lb, loadSchema(t), 2)
	defer c.Close()

	dst := address.New()
	dst.SetNwk(0x1234)

	r := c.NewRequest()
	*r.DstAddress() = dst
	r.SetDstAddressMode(aps.NwkAddress)
	r.SetDstEndpoint(1)
	r.SetSrcEndpoint(1)
	r.SetProfileID(0x0104)
	r.SetClusterID(0x0006)
	r.SetAsdu([]byte{0x11, 0x00, 0x01})

	id, status := c.SendAPS(r)
	if status != aps.StatusSuccess {
		t.Fatalf("SendAPS status = %v, want SUCCESS", status)
	}
	if id == 0 {
		t.Fatal("expected a nonzero allocated request id")
	}

	if len(lb.Sent) != 1 {
		t.Fatalf("expected exactly one frame written to the transport, got %d", len(lb.Sent))
	}
	if lb.Sent[0][0] != frameRequest {
		t.Fatalf("expected the request frame tag, got %#02x", lb.Sent[0][0])
	}

	decoded, err := aps.DecodeRequest(lb.Sent[0][1:], 2)
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if decoded.ID() != id || decoded.ClusterID() != 0x0006 {
		t.Fatalf("decoded request = %+v, want id=%d cluster=0x0006", decoded, id)
	}

	confirm := aps.Confirm{ID: id, DstAddrMode: aps.NwkAddress, DstAddress: dst, DstEndpoint: 1, SrcEndpoint: 1, Status: aps.StatusSuccess}
	wire, err := confirm.Encode()
	if err != nil {
		t.Fatalf("Confirm.Encode: %v", err)
	}
	lb.Feed(append([]byte{frameConfirm}, wire...))

	got := waitFor(t, c.Confirms(), time.Second)
	if got.ID != id || got.Status != aps.StatusSuccess {
		t.Fatalf("confirm = %+v, want id=%d SUCCESS", got, id)
	}
}

func TestSendAPSRejectsWhenTransportClosed(t *testing.T) {
	lb := transport.NewLoopback()
	c := New(lb, loadSchema(t), 2)
	lb.Close()
	time.Sleep(20 * time.Millisecond) // let readLoop observe the close

	r := c.NewRequest()
	dst := address.New()
	dst.SetNwk(0x1234)
	*r.DstAddress() = dst
	r.SetDstAddressMode(aps.NwkAddress)

	_, status := c.SendAPS(r)
	if status != aps.StatusNotConnected {
		t.Fatalf("status = %v, want NOT_CONNECTED", status)
	}
	c.Close()
}

func TestSendAPSRejectsZombieNode(t *testing.T) {
	lb := transport.NewLoopback()
	c := New(lb, loadSchema(t), 2)
	defer c.Close()

	const ext = uint64(0x00124B0001ABCDEF)
	node := c.NodeByExt(ext)
	node.Zombie = true

	r := c.NewRequest()
	r.DstAddress().SetExt(ext)
	r.SetDstAddressMode(aps.ExtAddress)

	_, status := c.SendAPS(r)
	if status != aps.StatusNodeIsZombie {
		t.Fatalf("status = %v, want NODE_IS_ZOMBIE", status)
	}
	c.ReleaseRequest(r)
}

func TestTimeoutSweepSynthesizesTimeoutConfirm(t *testing.T) {
	lb := transport.NewLoopback()
	c := New(lb, loadSchema(t), 2)
	defer c.Close()

	r := c.NewRequest()
	dst := address.New()
	dst.SetNwk(0x5678)
	*r.DstAddress() = dst
	r.SetDstAddressMode(aps.NwkAddress)
	r.SetTimeout(time.Now().Add(10 * time.Millisecond))

	id, status := c.SendAPS(r)
	if status != aps.StatusSuccess {
		t.Fatalf("SendAPS status = %v", status)
	}

	got := waitFor(t, c.Confirms(), 2*time.Second)
	if got.ID != id || got.Status != aps.StatusNoAck {
		t.Fatalf("confirm = %+v, want id=%d NO_ACK", got, id)
	}
}

func TestDeliverIndicationResolvesNodeAndPublishesEvent(t *testing.T) {
	lb := transport.NewLoopback()
	c := New(lb, loadSchema(t), 2)
	defer c.Close()

	ind := aps.NewIndication(2)
	ind.DstAddrMode = aps.NwkAddress
	ind.SrcAddrMode = aps.NwkAddress
	ind.ProfileID = 0x0104
	ind.ClusterID = 0x0006
	ind.Asdu = []byte{0x18, 0x01, 0x0A}
	ind.Status = aps.StatusSuccess
	ind.SrcAddress.SetNwk(0x9ABC)
	ind.DstAddress.SetNwk(0x0000)

	wire, err := ind.Encode()
	if err != nil {
		t.Fatalf("Indication.Encode: %v", err)
	}
	lb.Feed(append([]byte{frameIndication}, wire...))

	evt := waitFor(t, c.Events(), time.Second)
	if evt.Kind != NodeIndicationReceived {
		t.Fatalf("event kind = %v, want NodeIndicationReceived", evt.Kind)
	}
	if evt.Node == nil || !evt.Node.Address.HasNwk() || evt.Node.Address.Nwk() != 0x9ABC {
		t.Fatalf("event node = %+v, want nwk 0x9ABC", evt.Node)
	}

	n, ok := c.NodeByNwk(0x9ABC)
	if !ok || n != evt.Node {
		t.Fatal("expected the resolved node to be cached under its nwk address")
	}
}

func TestReadAttributeRoundTripsThroughSchemaAndTransport(t *testing.T) {
	lb := transport.NewLoopback()
	db := loadSchema(t)
	c := New(lb, db, 2)
	defer c.Close()

	dst := AddressTarget{
		DstMode:     aps.NwkAddress,
		DstEndpoint: 1,
		SrcEndpoint: 1,
		ProfileID:   0x0104,
	}
	dst.Dst.SetNwk(0x1111)

	id, status := c.ReadAttribute(dst, ids.NewClusterID(0x0006), ids.NewManufacturerCode(0), ids.NewAttributeID(0x0000))
	if status != aps.StatusSuccess {
		t.Fatalf("ReadAttribute status = %v", status)
	}
	if len(lb.Sent) != 1 {
		t.Fatalf("expected one frame sent, got %d", len(lb.Sent))
	}

	decoded, err := aps.DecodeRequest(lb.Sent[0][1:], 2)
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if decoded.ID() != id {
		t.Fatalf("decoded id = %d, want %d", decoded.ID(), id)
	}

	f := zcl.DecodeFrame(decoded.Asdu())
	if f.CommandID != globalReadAttributes {
		t.Fatalf("command id = %#02x, want Read Attributes Request", f.CommandID.Uint8())
	}
}

package aps

import (
	"bytes"
	"testing"

	"homai-zigbee/internal/address"
)

// matches spec.md §8 worked example #1: ZDP Match_Descriptor broadcast.
func TestRequestEncodeMatchDescriptorBroadcast(t *testing.T) {
	r := NewRequest(0x01, 1)
	r.SetDstAddressMode(NwkAddress)
	r.DstAddress().SetNwk(address.BroadcastRxOnWhenIdle)
	r.SetDstEndpoint(0x00)
	r.SetProfileID(0x0000)
	r.SetClusterID(0x0006)
	r.SetSrcEndpoint(0x00)
	payload := make([]byte, 9)
	r.SetAsdu(payload)
	r.SetTxOptions(0)
	r.SetRadius(0)

	got, err := r.Encode()
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x01, 0x02, 0xFD, 0xFF, 0x00, 0x00, 0x00, 0x06, 0x00, 0x00, 0x09, 0x00}
	want = append(want, payload...)
	want = append(want, 0x00, 0x00) // tx options, radius
	if !bytes.Equal(got, want) {
		t.Errorf("encode = %#v, want %#v", got, want)
	}
}

func TestRequestRoundTripV1(t *testing.T) {
	r := NewRequest(0x2A, 1)
	r.SetDstAddressMode(ExtAddress)
	r.DstAddress().SetExt(0x0011223344556677)
	r.SetDstEndpoint(0x05)
	r.SetProfileID(0x0104)
	r.SetClusterID(0x0006)
	r.SetSrcEndpoint(0x01)
	r.SetAsdu([]byte{0x01, 0x2A, 0x01})
	r.SetTxOptions(TxOptions(0x04))
	r.SetRadius(0x0A)

	b, err := r.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeRequest(b, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID() != r.ID() || got.DstAddressMode() != r.DstAddressMode() ||
		!got.DstAddress().Equal(*r.DstAddress()) || got.DstEndpoint() != r.DstEndpoint() ||
		got.ProfileID() != r.ProfileID() || got.ClusterID() != r.ClusterID() ||
		!bytes.Equal(got.Asdu(), r.Asdu()) || got.Radius() != r.Radius() {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, r)
	}
}

func TestRequestRoundTripV2WithNodeIDAndRelays(t *testing.T) {
	r := NewRequest(0x03, 2)
	r.SetDstAddressMode(NwkAddress)
	r.DstAddress().SetNwk(0x1234)
	r.SetDstEndpoint(0x01)
	r.SetProfileID(0x0104)
	r.SetClusterID(0x0500)
	r.SetSrcEndpoint(0x01)
	r.SetAsdu([]byte{0xAA, 0xBB})
	r.SetNodeID(0x1234)
	r.SetSourceRoute([]uint16{0x1111, 0x2222, 0x3333}, 0xDEADBEEF)

	b, err := r.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeRequest(b, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !got.HasNodeID() || got.NodeID() != 0x1234 {
		t.Errorf("node id not round-tripped: %+v", got)
	}
	sr := got.SourceRoute()
	if sr == nil || sr.Count != 3 || sr.Relays[0] != 0x1111 || sr.Relays[2] != 0x3333 {
		t.Errorf("source route not round-tripped: %+v", sr)
	}
}

func TestRequestEncodeRejectsNoAddress(t *testing.T) {
	r := NewRequest(0x01, 1)
	r.SetDstAddressMode(NoAddress)
	if _, err := r.Encode(); err == nil {
		t.Error("expected error encoding request with no destination address mode")
	}
}

func TestDecodeRequestTruncatedAsdu(t *testing.T) {
	r := NewRequest(0x01, 1)
	r.SetDstAddressMode(NwkAddress)
	r.DstAddress().SetNwk(0x1234)
	r.SetDstEndpoint(0x01)
	r.SetProfileID(0x0104)
	r.SetClusterID(0x0006)
	r.SetSrcEndpoint(0x01)
	r.SetAsdu([]byte{0x01, 0x02, 0x03})
	r.SetTxOptions(0)
	r.SetRadius(0)

	b, err := r.Encode()
	if err != nil {
		t.Fatal(err)
	}
	truncated := b[:len(b)-5]
	if _, err := DecodeRequest(truncated, 1); err == nil {
		t.Error("expected error decoding truncated request")
	}
}

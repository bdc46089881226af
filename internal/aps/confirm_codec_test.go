package aps

import "testing"

func TestConfirmRoundTripNwk(t *testing.T) {
	var c Confirm
	c.ID = 0x07
	c.DstAddrMode = NwkAddress
	c.DstAddress.SetNwk(0x1234)
	c.DstEndpoint = 0x01
	c.SrcEndpoint = 0x01
	c.Status = StatusSuccess

	b, err := c.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeConfirm(b)
	if err != nil {
		t.Fatal(err)
	}
	if got != c {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, c)
	}
}

func TestConfirmRoundTripGroupHasNoEndpoint(t *testing.T) {
	var c Confirm
	c.ID = 0x01
	c.DstAddrMode = GroupAddress
	c.DstAddress.SetGroup(0xABCD)
	c.SrcEndpoint = 0x01
	c.Status = StatusNoAck

	b, err := c.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 6 {
		t.Errorf("group confirm encode length = %d, want 6 (no dst endpoint byte)", len(b))
	}
	got, err := DecodeConfirm(b)
	if err != nil {
		t.Fatal(err)
	}
	if got.DstEndpoint != 0 {
		t.Errorf("group confirm should carry no dst endpoint, got %d", got.DstEndpoint)
	}
}

func TestConfirmStatusStringUnknown(t *testing.T) {
	if got := Status(0xF9).String(); got != "UNKNOWN" {
		t.Errorf("Status(0xF9).String() = %q, want UNKNOWN", got)
	}
}

func TestSyntheticTimeout(t *testing.T) {
	r := NewRequest(0x09, 1)
	r.SetDstAddressMode(NwkAddress)
	r.DstAddress().SetNwk(0x5678)
	r.SetDstEndpoint(0x01)
	r.SetSrcEndpoint(0x01)

	c := SyntheticTimeout(r)
	if c.Status != StatusNoAck {
		t.Errorf("synthetic timeout status = %v, want StatusNoAck", c.Status)
	}
	if c.ID != r.ID() {
		t.Errorf("synthetic timeout id = %#02x, want %#02x", c.ID, r.ID())
	}
}

func TestDecodeConfirmTruncated(t *testing.T) {
	if _, err := DecodeConfirm([]byte{0x01}); err == nil {
		t.Error("expected error decoding truncated confirm")
	}
}

package aps

import (
	"bytes"
	"testing"
	"time"
)

func newTestIndication(version uint8) *Indication {
	ind := NewIndication(version)
	ind.DstAddrMode = NwkAddress
	ind.DstAddress.SetNwk(0x0000)
	ind.DstEndpoint = 0x01
	ind.SrcAddrMode = NwkAddress
	ind.SrcAddress.SetNwk(0x1234)
	ind.SrcEndpoint = 0x01
	ind.ProfileID = 0x0104
	ind.ClusterID = 0x0006
	ind.Asdu = []byte{0x18, 0x01, 0x0A, 0x00, 0x10, 0x01}
	ind.LinkQuality = 200
	ind.RxTime = time.Unix(1700000000, 0).UTC()
	return ind
}

func TestIndicationRoundTripV1(t *testing.T) {
	ind := newTestIndication(1)
	ind.Status = StatusSuccess
	ind.SecurityStatus = 0x00

	b, err := ind.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeIndication(b, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Asdu, ind.Asdu) || got.Status != ind.Status ||
		got.SecurityStatus != ind.SecurityStatus || got.LinkQuality != ind.LinkQuality ||
		!got.RxTime.Equal(ind.RxTime) {
		t.Errorf("v1 round trip mismatch: got %+v, want %+v", got, ind)
	}
	if got.RSSI != 0 {
		t.Errorf("v1 indication must not carry rssi, got %d", got.RSSI)
	}
}

func TestIndicationRoundTripV2HasRSSI(t *testing.T) {
	ind := newTestIndication(2)
	ind.Status = StatusSuccess
	ind.RSSI = -42

	b, err := ind.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeIndication(b, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got.RSSI != -42 {
		t.Errorf("v2 rssi = %d, want -42", got.RSSI)
	}
}

func TestIndicationRoundTripV3UsesPreviousHop(t *testing.T) {
	ind := newTestIndication(3)
	ind.PreviousHop = 0xBEEF
	ind.RSSI = -10

	b, err := ind.Encode()
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeIndication(b, 3)
	if err != nil {
		t.Fatal(err)
	}
	if got.PreviousHop != 0xBEEF {
		t.Errorf("v3 previous hop = %#04x, want 0xbeef", got.PreviousHop)
	}
	if got.Status != StatusSuccess {
		t.Errorf("v3 indication implies success status, got %v", got.Status)
	}
}

func TestIndicationAsduOverInboundBudgetRejected(t *testing.T) {
	ind := newTestIndication(1)
	ind.Asdu = make([]byte, MaxInboundAsdu+1)

	b, err := ind.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeIndication(b, 1); err == nil {
		t.Error("expected error decoding indication whose asdu exceeds the inbound budget")
	}
}

func TestDecodeIndicationTruncatedDoesNotPanic(t *testing.T) {
	ind := newTestIndication(2)
	ind.RSSI = 5
	b, err := ind.Encode()
	if err != nil {
		t.Fatal(err)
	}
	for cut := 0; cut < len(b); cut++ {
		if _, err := DecodeIndication(b[:cut], 2); err == nil {
			t.Errorf("expected error decoding truncated indication at cut %d", cut)
		}
	}
}

package zcl

import (
	"testing"

	"homai-zigbee/internal/ids"
)

func TestUTCTimeEpoch(t *testing.T) {
	got := UTCTimeToGo(0)
	if got.Year() != 2000 || got.Month() != 1 || got.Day() != 1 || got.Hour() != 0 {
		t.Errorf("UTCTimeToGo(0) = %v, want 2000-01-01T00:00:00Z", got)
	}
}

func TestUTCTimeRoundTrip(t *testing.T) {
	for _, raw := range []uint32{0, 1, 86400, 0x00015180} {
		got := GoToUTCTime(UTCTimeToGo(raw))
		if got != raw {
			t.Errorf("round trip %d -> %v -> %d", raw, UTCTimeToGo(raw), got)
		}
	}
}

func TestUTCTimeDataTypeDecodesAsUint32(t *testing.T) {
	v, n, err := DecodeValue(ids.NewDataTypeID(TypeUTCTime), []byte{0x00, 0x00, 0x00, 0x00})
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Fatalf("consumed %d bytes, want 4", n)
	}
	u, ok := v.Uint()
	if !ok || u != 0 {
		t.Errorf("decoded value = %v, want uint 0", v)
	}
}

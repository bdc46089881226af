package address

import "testing"

func TestUnicastXorBroadcast(t *testing.T) {
	cases := []uint16{0x0000, 0x1234, 0xFFF9, 0xFFFA, 0xFFFB, 0xFFFC, 0xFFFD, 0xFFFF}
	for _, nwk := range cases {
		var a Address
		a.SetNwk(nwk)
		if a.IsNwkUnicast() == a.IsNwkBroadcast() {
			t.Errorf("nwk=%#04x: unicast=%v broadcast=%v must be exactly one", nwk, a.IsNwkUnicast(), a.IsNwkBroadcast())
		}
	}
}

func TestEqualityComparesPresenceAndValue(t *testing.T) {
	var a, b Address
	a.SetNwk(0x1234)
	b.SetNwk(0x1234)
	if !a.Equal(b) {
		t.Error("identical nwk addresses should be equal")
	}

	var c Address
	c.SetNwk(0x1234)
	c.SetExt(0xAABBCCDD)
	if a.Equal(c) {
		t.Error("addresses differing in presence of ext must not be equal")
	}
}

func TestHasAny(t *testing.T) {
	var a Address
	if a.HasAny() {
		t.Error("empty address must report HasAny() == false")
	}
	a.SetGroup(1)
	if !a.HasAny() {
		t.Error("address with group set must report HasAny() == true")
	}
}

func TestParseExtRoundTrip(t *testing.T) {
	var a Address
	if !a.ParseExt("0x00124b0001234567") {
		t.Fatal("expected successful parse")
	}
	if a.StringExt() != "0x00124b0001234567" {
		t.Errorf("got %q", a.StringExt())
	}
}

func TestParseExtRejectsGarbage(t *testing.T) {
	var a Address
	if a.ParseExt("not-hex") {
		t.Error("expected parse failure for non-hex string")
	}
}

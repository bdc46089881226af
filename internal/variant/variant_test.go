package variant

import "testing"

func TestUintRoundTrip(t *testing.T) {
	v := Uint(42, 8)
	got, ok := v.Uint()
	if !ok || got != 42 {
		t.Fatalf("got (%d, %v), want (42, true)", got, ok)
	}
	if v.Width() != 8 {
		t.Errorf("width = %d, want 8", v.Width())
	}
}

func TestClampUintRejectsOutOfRange(t *testing.T) {
	_, err := ClampUint(256, 8)
	if err == nil {
		t.Error("expected clamp error for 256 at 8-bit width")
	}
	got, err := ClampUint(255, 8)
	if err != nil || got != 255 {
		t.Errorf("got (%d, %v), want (255, nil)", got, err)
	}
}

func TestClampIntRange(t *testing.T) {
	min, max := IntRange(8)
	if min != -128 || max != 127 {
		t.Errorf("8-bit signed range = [%d, %d], want [-128, 127]", min, max)
	}
	if _, err := ClampInt(128, 8); err == nil {
		t.Error("expected clamp error for 128 at 8-bit signed width")
	}
}

func TestKindMismatchReturnsNotOk(t *testing.T) {
	v := Bool(true)
	if _, ok := v.Int(); ok {
		t.Error("Int() on a bool value must report ok=false")
	}
	b, ok := v.Bool()
	if !ok || !b {
		t.Error("Bool() on a bool value must round-trip")
	}
}

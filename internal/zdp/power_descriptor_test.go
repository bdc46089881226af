package zdp

import "testing"

func TestDecodePowerDescriptorTooShortIsInvalid(t *testing.T) {
	pd := DecodePowerDescriptor([]byte{0x01})
	if pd.IsValid() {
		t.Error("1-byte input should yield an invalid power descriptor")
	}
}

func TestDecodePowerDescriptorFields(t *testing.T) {
	// byte0: mode=Periodic(0x01), available sources = mains|rechargeable (0x3 << 4)
	// byte1: current source = rechargeable(0x02), level = 100%(0x0c << 4)
	pd := DecodePowerDescriptor([]byte{0x31, 0xC2})
	if !pd.IsValid() {
		t.Fatal("expected valid power descriptor")
	}
	if pd.CurrentPowerMode() != ModePeriodic {
		t.Errorf("mode = %v, want ModePeriodic", pd.CurrentPowerMode())
	}
	if !pd.AvailablePowerSources().Has(PowerSourceMains) || !pd.AvailablePowerSources().Has(PowerSourceRechargeable) {
		t.Error("expected mains and rechargeable in available sources")
	}
	if pd.CurrentPowerSource() != PowerSourceRechargeable {
		t.Errorf("current source = %v, want PowerSourceRechargeable", pd.CurrentPowerSource())
	}
	if pd.CurrentPowerLevel() != PowerLevel100 {
		t.Errorf("current level = %v, want PowerLevel100", pd.CurrentPowerLevel())
	}
	if got := pd.ToByteArray(); len(got) != 2 || got[0] != 0x31 || got[1] != 0xC2 {
		t.Errorf("ToByteArray() = %v, want [0x31 0xc2]", got)
	}
}

func TestDecodePowerDescriptorUnknownCurrentSource(t *testing.T) {
	pd := DecodePowerDescriptor([]byte{0x00, 0x00})
	if pd.CurrentPowerSource() != PowerSourceUnknown {
		t.Errorf("current source = %v, want PowerSourceUnknown for reserved nibble 0", pd.CurrentPowerSource())
	}
}

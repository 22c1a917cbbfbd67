package types

import "testing"

func TestRegisterPair_Uint16(t *testing.T) {
	var hi, lo Register
	pair := &RegisterPair{High: &hi, Low: &lo}

	for _, v := range []uint16{0x0000, 0x00FF, 0xFF00, 0x1234, 0xBEEF, 0xFFFF} {
		pair.SetUint16(v)
		if got := pair.Uint16(); got != v {
			t.Errorf("expected 0x%04X, got 0x%04X", v, got)
		}
		if hi != uint8(v>>8) || lo != uint8(v) {
			t.Errorf("expected halves %02X/%02X, got %02X/%02X", v>>8, v&0xFF, hi, lo)
		}
	}
}

func TestBits(t *testing.T) {
	if !Test(Bit3, 3) {
		t.Errorf("expected bit 3 to be set")
	}
	if Set(0, 7) != Bit7 {
		t.Errorf("expected 0x80, got 0x%02X", Set(0, 7))
	}
	if Reset(0xFF, 0) != 0xFE {
		t.Errorf("expected 0xFE, got 0x%02X", Reset(0xFF, 0))
	}
}

package cpu

import "testing"

func flagsOf(z, n, h, cy bool) uint8 {
	var f uint8
	if z {
		f |= 0x80
	}
	if n {
		f |= 0x40
	}
	if h {
		f |= 0x20
	}
	if cy {
		f |= 0x10
	}
	return f
}

// TestALU_TruthTable runs every accumulator opcode against
// every pair of operands, with the carry flag both set and
// clear.
func TestALU_TruthTable(t *testing.T) {
	c, bus := newTestCPU()
	for op := uint8(0); op < 8; op++ {
		opcode := 0xC6 + op*8 // ALU A, d8
		for carry := 0; carry < 2; carry++ {
			for a := 0; a < 256; a++ {
				for b := 0; b < 256; b++ {
					c.PC = 0xC000
					bus.load(c.PC, opcode, uint8(b))
					c.A = uint8(a)
					c.F = uint8(carry) << FlagCarry
					mustStep(t, c)

					cy := carry
					var result int
					var f uint8
					switch op {
					case 0, 1:
						if op == 0 {
							cy = 0
						}
						result = a + b + cy
						f = flagsOf(uint8(result) == 0, false, a&0xF+b&0xF+cy > 0xF, result > 0xFF)
					case 2, 3, 7:
						if op != 3 {
							cy = 0
						}
						result = a - b - cy
						f = flagsOf(uint8(result) == 0, true, a&0xF-b&0xF-cy < 0, result < 0)
						if op == 7 {
							result = a
						}
					case 4:
						result = a & b
						f = flagsOf(result == 0, false, true, false)
					case 5:
						result = a ^ b
						f = flagsOf(result == 0, false, false, false)
					case 6:
						result = a | b
						f = flagsOf(result == 0, false, false, false)
					}

					if c.A != uint8(result) || c.F != f {
						t.Fatalf("%s 0x%02X, 0x%02X (carry %d): expected A=0x%02X F=0x%02X, got A=0x%02X F=0x%02X",
							InstructionSet[opcode].Name(), a, b, carry, uint8(result), f, c.A, c.F)
					}
				}
			}
		}
	}
}

func TestALU_IncDec(t *testing.T) {
	c, _ := newTestCPU()
	for v := 0; v < 256; v++ {
		for _, carry := range []bool{false, true} {
			c.setFlags(false, false, false, carry)
			got := c.increment(uint8(v))
			if want := flagsOf(uint8(v+1) == 0, false, v&0xF == 0xF, carry); c.F != want || got != uint8(v+1) {
				t.Fatalf("INC 0x%02X: expected F=0x%02X, got F=0x%02X", v, want, c.F)
			}

			c.setFlags(false, false, false, carry)
			got = c.decrement(uint8(v))
			if want := flagsOf(uint8(v-1) == 0, true, v&0xF == 0, carry); c.F != want || got != uint8(v-1) {
				t.Fatalf("DEC 0x%02X: expected F=0x%02X, got F=0x%02X", v, want, c.F)
			}
		}
	}
}

func TestALU_AddHL(t *testing.T) {
	c, _ := newTestCPU()
	tests := []struct {
		a, b uint16
		f    uint8
	}{
		{0x0FFF, 0x0001, 0x20},
		{0xFFFF, 0x0001, 0x30},
		{0x8000, 0x8000, 0x10},
		{0x1234, 0x0001, 0x00},
	}
	for _, tt := range tests {
		c.F = 0x80 // zero is not affected
		if got := c.addUint16(tt.a, tt.b); got != tt.a+tt.b {
			t.Errorf("0x%04X+0x%04X: expected 0x%04X, got 0x%04X", tt.a, tt.b, tt.a+tt.b, got)
		}
		if c.F != tt.f|0x80 {
			t.Errorf("0x%04X+0x%04X: expected F=0x%02X, got 0x%02X", tt.a, tt.b, tt.f|0x80, c.F)
		}
	}
}

func toBCD(v int) uint8 {
	return uint8(v/10<<4 | v%10)
}

// TestALU_DAA adds and subtracts every pair of BCD operands
// and checks that DAA corrects the result.
func TestALU_DAA(t *testing.T) {
	c, _ := newTestCPU()
	for a := 0; a < 100; a++ {
		for b := 0; b < 100; b++ {
			c.F = 0
			c.A = c.add(toBCD(a), toBCD(b), false)
			c.daa()
			sum := a + b
			if c.A != toBCD(sum%100) || c.isFlagSet(FlagCarry) != (sum >= 100) {
				t.Fatalf("%d+%d: expected 0x%02X carry %v, got 0x%02X F=0x%02X", a, b, toBCD(sum%100), sum >= 100, c.A, c.F)
			}
			if c.isFlagSet(FlagZero) != (sum%100 == 0) || c.isFlagSet(FlagHalfCarry) {
				t.Fatalf("%d+%d: unexpected flags 0x%02X", a, b, c.F)
			}

			c.F = 0
			c.A = c.sub(toBCD(a), toBCD(b), false)
			c.daa()
			diff := a - b
			borrow := diff < 0
			if borrow {
				diff += 100
			}
			if c.A != toBCD(diff) || c.isFlagSet(FlagCarry) != borrow || !c.isFlagSet(FlagSubtract) {
				t.Fatalf("%d-%d: expected 0x%02X borrow %v, got 0x%02X F=0x%02X", a, b, toBCD(diff), borrow, c.A, c.F)
			}
		}
	}
}

func TestALU_RotateShift(t *testing.T) {
	c, _ := newTestCPU()
	tests := []struct {
		op       uint8
		in       uint8
		carry    bool
		out      uint8
		outCarry bool
	}{
		{0, 0x80, false, 0x01, true},  // RLC
		{1, 0x01, false, 0x80, true},  // RRC
		{2, 0x80, false, 0x00, true},  // RL
		{2, 0x00, true, 0x01, false},  // RL
		{3, 0x01, false, 0x00, true},  // RR
		{3, 0x00, true, 0x80, false},  // RR
		{4, 0xC0, false, 0x80, true},  // SLA
		{5, 0x81, false, 0xC0, true},  // SRA
		{6, 0xF1, true, 0x1F, false},  // SWAP
		{7, 0x81, false, 0x40, true},  // SRL
	}
	for _, tt := range tests {
		c.setFlags(false, false, false, tt.carry)
		got := c.rotateShift(tt.op, tt.in)
		if got != tt.out || c.isFlagSet(FlagCarry) != tt.outCarry || c.isFlagSet(FlagZero) != (tt.out == 0) {
			t.Errorf("%s 0x%02X: expected 0x%02X carry %v, got 0x%02X F=0x%02X", cbNames[tt.op], tt.in, tt.out, tt.outCarry, got, c.F)
		}
	}
}

func TestALU_AccumulatorRotateClearsZero(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(c.PC, 0x17) // RLA
	c.A = 0x80
	c.F = 0
	mustStep(t, c)
	if c.A != 0 || c.F != 0x10 {
		t.Errorf("expected A=0 with only carry set, got A=0x%02X F=0x%02X", c.A, c.F)
	}
}

package cpu

import (
	"errors"
	"testing"

	"github.com/thelolagemann/pocketboy/internal/interrupts"
	"github.com/thelolagemann/pocketboy/internal/types"
)

// testBus is a flat 64KiB address space.
type testBus struct {
	mem [0x10000]uint8
}

func (b *testBus) Read(address uint16) uint8         { return b.mem[address] }
func (b *testBus) Write(address uint16, value uint8) { b.mem[address] = value }

func newTestCPU() (*CPU, *testBus) {
	bus := &testBus{}
	c := NewCPU(bus, interrupts.NewService(types.NewHardwareRegisters()))
	c.PC = 0xC000
	return c, bus
}

// load places the program at the current PC.
func (b *testBus) load(pc uint16, program ...uint8) {
	for i, v := range program {
		b.mem[pc+uint16(i)] = v
	}
}

func testInstruction(t *testing.T, name string, opcode uint8, fn func(*testing.T, *CPU, *testBus)) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if InstructionSet[opcode].Name() != name {
			t.Fatalf("expected opcode 0x%02X to be %s, got %s", opcode, name, InstructionSet[opcode].Name())
		}
		c, bus := newTestCPU()
		bus.load(c.PC, opcode)
		fn(t, c, bus)
	})
}

func mustStep(t *testing.T, c *CPU) uint16 {
	t.Helper()
	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cycles
}

func TestCPU_PostBoot(t *testing.T) {
	c, _ := newTestCPU()
	if c.AF.Uint16() != 0x01B0 || c.BC.Uint16() != 0x0013 || c.DE.Uint16() != 0x00D8 || c.HL.Uint16() != 0x014D {
		t.Errorf("unexpected post boot registers AF=%04X BC=%04X DE=%04X HL=%04X",
			c.AF.Uint16(), c.BC.Uint16(), c.DE.Uint16(), c.HL.Uint16())
	}
	if c.SP != 0xFFFE {
		t.Errorf("expected SP 0xFFFE, got 0x%04X", c.SP)
	}
}

func TestCPU_HaltBug(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(c.PC, 0x76, 0x3C, 0x00) // HALT, INC A, NOP
	c.A = 0
	c.irq.IME = false
	c.irq.Enable = interrupts.TimerFlag
	c.irq.Request(interrupts.TimerFlag)

	mustStep(t, c)
	if c.Mode() != ModeHaltBug {
		t.Fatalf("expected halt bug to be armed, got mode %d", c.Mode())
	}
	mustStep(t, c)
	if c.PC != 0xC001 {
		t.Errorf("expected PC to stay on INC A, got 0x%04X", c.PC)
	}
	mustStep(t, c)
	if c.A != 2 {
		t.Errorf("expected INC A to run twice, got A=%d", c.A)
	}
	if c.PC != 0xC002 {
		t.Errorf("expected PC 0xC002, got 0x%04X", c.PC)
	}
}

func TestCPU_HaltBugAfterEI(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(c.PC, 0xFB, 0x76, 0x00) // EI, HALT, NOP
	c.SP = 0xD000
	c.irq.IME = false
	c.irq.Enable = interrupts.TimerFlag
	c.irq.Request(interrupts.TimerFlag)

	mustStep(t, c)
	mustStep(t, c)
	if c.Mode() != ModeHaltBug {
		t.Fatalf("expected halt bug to be armed, got mode %d", c.Mode())
	}
	mustStep(t, c)
	if c.PC != 0x0050 {
		t.Fatalf("expected timer vector, got PC 0x%04X", c.PC)
	}
	if ret := uint16(bus.mem[0xCFFF])<<8 | uint16(bus.mem[0xCFFE]); ret != 0xC001 {
		t.Errorf("expected return to HALT at 0xC001, got 0x%04X", ret)
	}
	if c.Mode() != ModeNormal {
		t.Errorf("expected normal mode after dispatch, got %d", c.Mode())
	}
}

func TestCPU_HaltWake(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(c.PC, 0x76, 0x3C) // HALT, INC A
	c.A = 0
	c.irq.Enable = interrupts.VBlankFlag

	mustStep(t, c)
	for i := 0; i < 3; i++ {
		if cycles := mustStep(t, c); cycles != 4 {
			t.Errorf("expected halted step to take 4 cycles, got %d", cycles)
		}
	}
	if c.A != 0 {
		t.Fatalf("expected CPU to stay halted")
	}

	// IME is clear, so the CPU resumes without servicing
	c.irq.Request(interrupts.VBlankFlag)
	mustStep(t, c)
	if c.A != 1 {
		t.Errorf("expected CPU to wake and run INC A, got A=%d", c.A)
	}
	if c.irq.Flag&interrupts.VBlankFlag == 0 {
		t.Errorf("expected interrupt to remain pending")
	}
}

func TestCPU_EIDelay(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(c.PC, 0xFB, 0x00, 0x00) // EI, NOP, NOP
	c.irq.Enable = interrupts.LCDFlag
	c.irq.Request(interrupts.LCDFlag)

	mustStep(t, c) // EI
	if c.irq.IME {
		t.Fatalf("expected IME to be deferred")
	}
	mustStep(t, c) // NOP
	if c.PC != 0xC002 {
		t.Fatalf("expected the instruction after EI to run, PC=0x%04X", c.PC)
	}
	if !c.irq.IME {
		t.Fatalf("expected IME to be set after the following instruction")
	}

	if cycles := mustStep(t, c); cycles != 20 {
		t.Errorf("expected interrupt service to take 20 cycles, got %d", cycles)
	}
	if c.PC != 0x0048 {
		t.Errorf("expected PC at LCD vector, got 0x%04X", c.PC)
	}
	if c.irq.IME {
		t.Errorf("expected IME to be cleared on entry")
	}
	if c.irq.Flag&interrupts.LCDFlag != 0 {
		t.Errorf("expected serviced flag to be cleared")
	}
	if ret := uint16(bus.mem[c.SP]) | uint16(bus.mem[c.SP+1])<<8; ret != 0xC002 {
		t.Errorf("expected return address 0xC002, got 0x%04X", ret)
	}
}

func TestCPU_DI(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(c.PC, 0xFB, 0xF3, 0x00) // EI, DI, NOP
	c.irq.Enable = interrupts.TimerFlag
	c.irq.Request(interrupts.TimerFlag)

	mustStep(t, c)
	mustStep(t, c)
	mustStep(t, c)
	if c.irq.IME {
		t.Errorf("expected DI to cancel a pending EI")
	}
	if c.PC != 0xC003 {
		t.Errorf("expected no interrupt to be serviced, PC=0x%04X", c.PC)
	}
}

func TestCPU_DecodeError(t *testing.T) {
	for _, opcode := range disallowedOpcodes {
		c, bus := newTestCPU()
		bus.load(c.PC, opcode)

		for i := 0; i < 2; i++ {
			cycles, err := c.Step()
			var decodeErr *DecodeError
			if !errors.As(err, &decodeErr) {
				t.Fatalf("0x%02X: expected DecodeError, got %v", opcode, err)
			}
			if !errors.Is(err, ErrDecode) {
				t.Errorf("0x%02X: expected error to wrap ErrDecode", opcode)
			}
			if decodeErr.Opcode != opcode || decodeErr.PC != 0xC000 {
				t.Errorf("0x%02X: unexpected fault %v", opcode, decodeErr)
			}
			if cycles != 4 {
				t.Errorf("0x%02X: expected 4 cycles, got %d", opcode, cycles)
			}
			if c.PC != 0xC000 {
				t.Errorf("0x%02X: expected PC to stay on the opcode, got 0x%04X", opcode, c.PC)
			}
		}
	}
}

func TestCPU_Stall(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(c.PC, 0x00)

	c.Stall(640)
	if cycles := mustStep(t, c); cycles != 640 {
		t.Errorf("expected stall of 640 cycles, got %d", cycles)
	}
	if c.PC != 0xC000 {
		t.Errorf("expected no instruction to run while stalled")
	}
	if cycles := mustStep(t, c); cycles != 4 {
		t.Errorf("expected NOP to take 4 cycles, got %d", cycles)
	}
}

func TestCPU_Stop(t *testing.T) {
	c, bus := newTestCPU()
	bus.load(c.PC, 0x10, 0x00, 0x3C) // STOP, padding, INC A
	c.A = 0
	c.irq.Enable = interrupts.JoypadFlag

	mustStep(t, c)
	if c.Mode() != ModeStop || c.PC != 0xC002 {
		t.Fatalf("expected STOP to skip its padding byte, mode=%d PC=0x%04X", c.Mode(), c.PC)
	}
	mustStep(t, c)
	if c.A != 0 {
		t.Fatalf("expected CPU to stay stopped")
	}
	c.irq.Request(interrupts.JoypadFlag)
	mustStep(t, c)
	if c.A != 1 {
		t.Errorf("expected joypad interrupt to resume the CPU")
	}
}

func TestCPU_State(t *testing.T) {
	c, _ := newTestCPU()
	c.A, c.F, c.H, c.L = 0x12, 0xB0, 0x34, 0x56
	c.SP, c.PC = 0xDFF0, 0x1234
	c.imeDelay = 1
	c.irq.IME = true

	s := types.NewState()
	c.Save(s)
	// the interrupt service saves its own state
	if n := len(s.Bytes()); n != 16 {
		t.Errorf("expected 16 bytes of CPU state, got %d", n)
	}

	d, _ := newTestCPU()
	d.Load(types.StateFromBytes(s.Bytes()))
	if d.AF.Uint16() != 0x12B0 || d.HL.Uint16() != 0x3456 || d.SP != 0xDFF0 || d.PC != 0x1234 {
		t.Errorf("registers not restored: AF=%04X HL=%04X SP=%04X PC=%04X", d.AF.Uint16(), d.HL.Uint16(), d.SP, d.PC)
	}
	if d.imeDelay != 1 {
		t.Errorf("expected imeDelay 1, got %d", d.imeDelay)
	}
	if d.irq.IME {
		t.Error("expected IME to be left to the interrupt service")
	}
}

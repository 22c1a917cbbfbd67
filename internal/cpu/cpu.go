package cpu

import (
	"errors"
	"fmt"

	"github.com/thelolagemann/pocketboy/internal/interrupts"
	"github.com/thelolagemann/pocketboy/internal/types"
)

const (
	// ClockSpeed is the clock speed of the CPU.
	ClockSpeed = 4194304
)

type mode = uint8

const (
	// ModeNormal is the normal CPU mode.
	ModeNormal mode = iota
	// ModeHalt is the halt CPU mode.
	ModeHalt
	// ModeStop is the stop CPU mode.
	ModeStop
	// ModeHaltBug is the halt bug CPU mode. The next
	// opcode fetch does not increment the PC.
	ModeHaltBug
)

const (
	// interruptCycles is the cost of servicing an interrupt.
	interruptCycles = 20
	// idleCycles is the cost of a step spent halted or stopped.
	idleCycles = 4
)

// ErrDecode is wrapped by every DecodeError.
var ErrDecode = errors.New("cpu: illegal opcode")

// DecodeError is returned by Step when the CPU fetches an
// opcode that has no instruction. PC is left on the opcode,
// so stepping again reports the same fault.
type DecodeError struct {
	Opcode uint8
	PC     uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cpu: illegal opcode 0x%02X at 0x%04X", e.Opcode, e.PC)
}

func (e *DecodeError) Unwrap() error {
	return ErrDecode
}

// Bus is the view of the address space the CPU reads and
// writes through.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CPU represents the Gameboy CPU. It is responsible for executing instructions.
type CPU struct {
	// PC is the program counter, it points to the next instruction to be executed.
	PC uint16
	// SP is the stack pointer, it points to the top of the stack.
	SP uint16
	// Registers contains the 8-bit registers, as well as the 16-bit register pairs.
	Registers

	bus Bus
	irq *interrupts.Service

	mode mode

	// imeDelay counts down the steps until a pending EI
	// takes effect.
	imeDelay uint8
	// extra holds the M-cycles an instruction added on top
	// of its base timing, such as a taken branch.
	extra uint8
	// stall holds cycles charged by DMA, consumed by the
	// next call to Step.
	stall uint16
}

// NewCPU creates a new CPU instance with the given Bus.
// The CPU starts at the state the boot ROM leaves behind.
func NewCPU(bus Bus, irq *interrupts.Service) *CPU {
	c := &CPU{
		Registers: Registers{},
		bus:       bus,
		irq:       irq,
	}
	// create register pairs
	c.BC = &RegisterPair{High: &c.B, Low: &c.C}
	c.DE = &RegisterPair{High: &c.D, Low: &c.E}
	c.HL = &RegisterPair{High: &c.H, Low: &c.L}
	c.AF = &RegisterPair{High: &c.A, Low: &c.F}

	c.skipBoot()
	return c
}

// skipBoot sets the registers to the values the DMG boot ROM
// leaves them in when it hands over to the cartridge.
func (c *CPU) skipBoot() {
	c.AF.SetUint16(0x01B0)
	c.BC.SetUint16(0x0013)
	c.DE.SetUint16(0x00D8)
	c.HL.SetUint16(0x014D)
	c.SP = 0xFFFE
	c.PC = 0x0100
}

// Boot resets the CPU to power on, so that execution
// starts at the boot ROM.
func (c *CPU) Boot() {
	c.AF.SetUint16(0)
	c.BC.SetUint16(0)
	c.DE.SetUint16(0)
	c.HL.SetUint16(0)
	c.SP = 0
	c.PC = 0
}

// Mode returns the current CPU mode.
func (c *CPU) Mode() uint8 {
	return c.mode
}

// Stall charges the CPU the given number of cycles, which
// are returned by the next call to Step.
func (c *CPU) Stall(cycles uint16) {
	c.stall += cycles
}

// Step executes a single instruction, or services a single
// interrupt, and returns the number of cycles it took.
func (c *CPU) Step() (uint16, error) {
	if c.stall > 0 {
		cycles := c.stall
		c.stall = 0
		return cycles, nil
	}

	if c.mode == ModeHalt || c.mode == ModeStop {
		// the IME is ignored here, so that the CPU can be
		// woken up by a disabled interrupt
		if !c.irq.HasInterrupts() {
			return idleCycles, nil
		}
		c.mode = ModeNormal
	}

	if c.irq.IME && c.irq.HasInterrupts() {
		return c.executeInterrupt(), nil
	}

	pc := c.PC
	opcode := c.readInstruction()

	var instruction Instruction
	var cycles uint16
	if opcode == 0xCB {
		cb := c.readOperand()
		instruction = InstructionSetCB[cb]
		cycles = uint16(cbTimings[cb]) * 4
	} else {
		instruction = InstructionSet[opcode]
		cycles = uint16(timings[opcode]) * 4
	}

	if instruction.fn == nil {
		c.PC = pc
		return idleCycles, &DecodeError{Opcode: opcode, PC: pc}
	}

	c.extra = 0
	instruction.fn(c)
	cycles += uint16(c.extra) * 4

	if c.imeDelay > 0 {
		c.imeDelay--
		if c.imeDelay == 0 {
			c.irq.IME = true
		}
	}

	return cycles, nil
}

// readInstruction reads the next opcode from memory. While
// the halt bug is armed, the PC is not incremented.
func (c *CPU) readInstruction() uint8 {
	value := c.bus.Read(c.PC)
	if c.mode == ModeHaltBug {
		c.mode = ModeNormal
	} else {
		c.PC++
	}
	return value
}

// readOperand reads the next operand from memory.
func (c *CPU) readOperand() uint8 {
	value := c.bus.Read(c.PC)
	c.PC++
	return value
}

// readOperand16 reads the next two operands from memory as
// a little-endian uint16.
func (c *CPU) readOperand16() uint16 {
	low := c.readOperand()
	return uint16(c.readOperand())<<8 | uint16(low)
}

// push pushes a 16-bit value onto the stack.
func (c *CPU) push(value uint16) {
	c.SP--
	c.bus.Write(c.SP, uint8(value>>8))
	c.SP--
	c.bus.Write(c.SP, uint8(value))
}

// pop pops a 16-bit value off the stack.
func (c *CPU) pop() uint16 {
	low := c.bus.Read(c.SP)
	c.SP++
	high := c.bus.Read(c.SP)
	c.SP++
	return uint16(high)<<8 | uint16(low)
}

// executeInterrupt pushes the PC and jumps to the vector of
// the highest priority pending interrupt. An armed halt bug
// returns to the HALT itself.
func (c *CPU) executeInterrupt() uint16 {
	if c.mode == ModeHaltBug {
		c.push(c.PC - 1)
	} else {
		c.push(c.PC)
	}
	c.PC = c.irq.Vector()
	c.irq.IME = false
	c.imeDelay = 0
	c.mode = ModeNormal

	return interruptCycles
}

var _ types.Stater = (*CPU)(nil)

// Load implements the types.Stater interface.
func (c *CPU) Load(s *types.State) {
	c.A = s.Read8()
	c.F = s.Read8() & 0xF0
	c.B = s.Read8()
	c.C = s.Read8()
	c.D = s.Read8()
	c.E = s.Read8()
	c.H = s.Read8()
	c.L = s.Read8()
	c.SP = s.Read16()
	c.PC = s.Read16()
	c.mode = s.Read8()
	c.imeDelay = s.Read8()
	c.stall = s.Read16()
}

// Save implements the types.Stater interface.
func (c *CPU) Save(s *types.State) {
	s.Write8(c.A)
	s.Write8(c.F)
	s.Write8(c.B)
	s.Write8(c.C)
	s.Write8(c.D)
	s.Write8(c.E)
	s.Write8(c.H)
	s.Write8(c.L)
	s.Write16(c.SP)
	s.Write16(c.PC)
	s.Write8(c.mode)
	s.Write8(c.imeDelay)
	s.Write16(c.stall)
}

package cpu

import "github.com/thelolagemann/pocketboy/internal/types"

// Register is an alias for types.Register.
type Register = types.Register

// RegisterPair is an alias for types.RegisterPair.
type RegisterPair = types.RegisterPair

// Registers contains the 8-bit registers of the CPU, as
// well as the 16-bit register pairs formed from them.
type Registers struct {
	A Register
	B Register
	C Register
	D Register
	E Register
	F Register
	H Register
	L Register

	BC *RegisterPair
	DE *RegisterPair
	HL *RegisterPair
	AF *RegisterPair
}

// registerNames holds the operand names in the order they
// are encoded in the low 3 bits of most opcodes.
var registerNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}

// pairNames holds the 16-bit operand names in the order they
// are encoded in bits 4-5 of the 16-bit load and arithmetic
// opcodes.
var pairNames = [4]string{"BC", "DE", "HL", "SP"}

// registerIndex returns a Register pointer for the given
// index. Index 6 is (HL) and has no register behind it.
func (c *CPU) registerIndex(index uint8) *Register {
	switch index {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	}
	return nil
}

// get8 returns the operand at the given index, reading
// through the bus for (HL).
func (c *CPU) get8(index uint8) uint8 {
	if index == 6 {
		return c.bus.Read(c.HL.Uint16())
	}
	return *c.registerIndex(index)
}

// set8 sets the operand at the given index, writing through
// the bus for (HL).
func (c *CPU) set8(index uint8, value uint8) {
	if index == 6 {
		c.bus.Write(c.HL.Uint16(), value)
		return
	}
	*c.registerIndex(index) = value
}

// get16 returns the 16-bit operand at index, where index 3
// is the stack pointer.
func (c *CPU) get16(index uint8) uint16 {
	switch index {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		return c.HL.Uint16()
	}
	return c.SP
}

// set16 sets the 16-bit operand at index, where index 3 is
// the stack pointer.
func (c *CPU) set16(index uint8, value uint16) {
	switch index {
	case 0:
		c.BC.SetUint16(value)
	case 1:
		c.DE.SetUint16(value)
	case 2:
		c.HL.SetUint16(value)
	default:
		c.SP = value
	}
}

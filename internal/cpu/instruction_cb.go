package cpu

import (
	"fmt"

	"github.com/thelolagemann/pocketboy/internal/types"
)

// cbNames are the rotate and shift operations encoded in
// bits 3-5 of CB opcodes 0x00-0x3F.
var cbNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SWAP", "SRL"}

func (c *CPU) rotateShift(op uint8, n uint8) uint8 {
	switch op {
	case 0:
		return c.rotateLeftCarry(n)
	case 1:
		return c.rotateRightCarry(n)
	case 2:
		return c.rotateLeftThroughCarry(n)
	case 3:
		return c.rotateRightThroughCarry(n)
	case 4:
		return c.shiftLeftArithmetic(n)
	case 5:
		return c.shiftRightArithmetic(n)
	case 6:
		return c.swap(n)
	}
	return c.shiftRightLogical(n)
}

// The CB instructions are generated in the form of;
//
//	0x00 - RLC B
//	0x01 - RLC C
//	...
//	0xFF - SET 7, A
func init() {
	for reg := uint8(0); reg < 8; reg++ {
		r := reg
		for op := uint8(0); op < 8; op++ {
			o := op
			DefineInstructionCB(op*8+reg, fmt.Sprintf("%s %s", cbNames[op], registerNames[reg]), func(c *CPU) {
				c.set8(r, c.rotateShift(o, c.get8(r)))
			})
		}

		for bit := uint8(0); bit < 8; bit++ {
			b := bit // the closure must not see the loop variable change
			DefineInstructionCB(0x40+bit*8+reg, fmt.Sprintf("BIT %d, %s", bit, registerNames[reg]), func(c *CPU) {
				c.testBit(c.get8(r), b)
			})
			DefineInstructionCB(0x80+bit*8+reg, fmt.Sprintf("RES %d, %s", bit, registerNames[reg]), func(c *CPU) {
				c.set8(r, types.Reset(c.get8(r), b))
			})
			DefineInstructionCB(0xC0+bit*8+reg, fmt.Sprintf("SET %d, %s", bit, registerNames[reg]), func(c *CPU) {
				c.set8(r, types.Set(c.get8(r), b))
			})
		}
	}
}

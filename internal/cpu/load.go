package cpu

import "fmt"

// loadRegisterToRegister loads the value of src into dst.
//
//	LD dst, src
//	dst, src = B, C, D, E, H, L, (HL), A
func (c *CPU) loadRegisterToRegister(dst, src uint8) {
	c.set8(dst, c.get8(src))
}

// indirectNames are the (BC), (DE), (HL+) and (HL-)
// operands used by opcodes 0x02-0x3A.
var indirectNames = [4]string{"(BC)", "(DE)", "(HL+)", "(HL-)"}

// indirectAddress returns the address for the indirect
// operand at index, post incrementing or decrementing HL.
func (c *CPU) indirectAddress(index uint8) uint16 {
	switch index {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		hl := c.HL.Uint16()
		c.HL.SetUint16(hl + 1)
		return hl
	}
	hl := c.HL.Uint16()
	c.HL.SetUint16(hl - 1)
	return hl
}

func init() {
	// 0x40 - 0x7F - LD r, r (0x76 is HALT)
	for dst := uint8(0); dst < 8; dst++ {
		for src := uint8(0); src < 8; src++ {
			if dst == 6 && src == 6 {
				continue
			}
			d, s := dst, src
			DefineInstruction(0x40+dst*8+src, fmt.Sprintf("LD %s, %s", registerNames[dst], registerNames[src]), func(c *CPU) {
				c.loadRegisterToRegister(d, s)
			})
		}
	}

	// 0x06, 0x0E, ..., 0x3E - LD r, d8
	for dst := uint8(0); dst < 8; dst++ {
		d := dst
		DefineInstruction(0x06+dst*8, fmt.Sprintf("LD %s, d8", registerNames[dst]), func(c *CPU) {
			c.set8(d, c.readOperand())
		})
	}

	for i := uint8(0); i < 4; i++ {
		index := i
		// 0x01, 0x11, 0x21, 0x31 - LD rr, d16
		DefineInstruction(0x01+i*0x10, fmt.Sprintf("LD %s, d16", pairNames[i]), func(c *CPU) {
			c.set16(index, c.readOperand16())
		})
		// 0x02, 0x12, 0x22, 0x32 - LD (rr), A
		DefineInstruction(0x02+i*0x10, fmt.Sprintf("LD %s, A", indirectNames[i]), func(c *CPU) {
			c.bus.Write(c.indirectAddress(index), c.A)
		})
		// 0x0A, 0x1A, 0x2A, 0x3A - LD A, (rr)
		DefineInstruction(0x0A+i*0x10, fmt.Sprintf("LD A, %s", indirectNames[i]), func(c *CPU) {
			c.A = c.bus.Read(c.indirectAddress(index))
		})
	}

	DefineInstruction(0x08, "LD (a16), SP", func(c *CPU) {
		address := c.readOperand16()
		c.bus.Write(address, uint8(c.SP))
		c.bus.Write(address+1, uint8(c.SP>>8))
	})
	DefineInstruction(0xE0, "LDH (a8), A", func(c *CPU) {
		c.bus.Write(0xFF00+uint16(c.readOperand()), c.A)
	})
	DefineInstruction(0xF0, "LDH A, (a8)", func(c *CPU) {
		c.A = c.bus.Read(0xFF00 + uint16(c.readOperand()))
	})
	DefineInstruction(0xE2, "LD (C), A", func(c *CPU) {
		c.bus.Write(0xFF00+uint16(c.C), c.A)
	})
	DefineInstruction(0xF2, "LD A, (C)", func(c *CPU) {
		c.A = c.bus.Read(0xFF00 + uint16(c.C))
	})
	DefineInstruction(0xEA, "LD (a16), A", func(c *CPU) {
		c.bus.Write(c.readOperand16(), c.A)
	})
	DefineInstruction(0xFA, "LD A, (a16)", func(c *CPU) {
		c.A = c.bus.Read(c.readOperand16())
	})
	DefineInstruction(0xF8, "LD HL, SP+r8", func(c *CPU) {
		c.HL.SetUint16(c.addSPSigned())
	})
	DefineInstruction(0xF9, "LD SP, HL", func(c *CPU) {
		c.SP = c.HL.Uint16()
	})

	// PUSH and POP address AF rather than SP
	pushNames := [4]string{"BC", "DE", "HL", "AF"}
	for i := uint8(0); i < 4; i++ {
		index := i
		DefineInstruction(0xC1+i*0x10, "POP "+pushNames[i], func(c *CPU) {
			if index == 3 {
				c.AF.SetUint16(c.pop() & 0xFFF0)
				return
			}
			c.set16(index, c.pop())
		})
		DefineInstruction(0xC5+i*0x10, "PUSH "+pushNames[i], func(c *CPU) {
			if index == 3 {
				c.push(c.AF.Uint16())
				return
			}
			c.push(c.get16(index))
		})
	}
}

package cpu

import "fmt"

// aluNames are the 8 accumulator operations encoded in bits
// 3-5 of opcodes 0x80-0xBF and 0xC6-0xFE.
var aluNames = [8]string{"ADD A,", "ADC A,", "SUB", "SBC A,", "AND", "XOR", "OR", "CP"}

// alu performs the accumulator operation op with operand n.
func (c *CPU) alu(op uint8, n uint8) {
	switch op {
	case 0:
		c.A = c.add(c.A, n, false)
	case 1:
		c.A = c.add(c.A, n, true)
	case 2:
		c.A = c.sub(c.A, n, false)
	case 3:
		c.A = c.sub(c.A, n, true)
	case 4:
		c.and(n)
	case 5:
		c.xor(n)
	case 6:
		c.or(n)
	case 7:
		c.compare(n)
	}
}

func init() {
	for op := uint8(0); op < 8; op++ {
		o := op
		// 0x80 - 0xBF - ALU A, r
		for src := uint8(0); src < 8; src++ {
			s := src
			DefineInstruction(0x80+op*8+src, fmt.Sprintf("%s %s", aluNames[op], registerNames[src]), func(c *CPU) {
				c.alu(o, c.get8(s))
			})
		}
		// 0xC6, 0xCE, ..., 0xFE - ALU A, d8
		DefineInstruction(0xC6+op*8, fmt.Sprintf("%s d8", aluNames[op]), func(c *CPU) {
			c.alu(o, c.readOperand())
		})
	}

	for r := uint8(0); r < 8; r++ {
		index := r
		// 0x04, 0x0C, ..., 0x3C - INC r
		DefineInstruction(0x04+r*8, "INC "+registerNames[r], func(c *CPU) {
			c.set8(index, c.increment(c.get8(index)))
		})
		// 0x05, 0x0D, ..., 0x3D - DEC r
		DefineInstruction(0x05+r*8, "DEC "+registerNames[r], func(c *CPU) {
			c.set8(index, c.decrement(c.get8(index)))
		})
	}

	for rr := uint8(0); rr < 4; rr++ {
		index := rr
		// 0x03, 0x13, 0x23, 0x33 - INC rr
		DefineInstruction(0x03+rr*0x10, "INC "+pairNames[rr], func(c *CPU) {
			c.set16(index, c.get16(index)+1)
		})
		// 0x0B, 0x1B, 0x2B, 0x3B - DEC rr
		DefineInstruction(0x0B+rr*0x10, "DEC "+pairNames[rr], func(c *CPU) {
			c.set16(index, c.get16(index)-1)
		})
		// 0x09, 0x19, 0x29, 0x39 - ADD HL, rr
		DefineInstruction(0x09+rr*0x10, "ADD HL, "+pairNames[rr], func(c *CPU) {
			c.HL.SetUint16(c.addUint16(c.HL.Uint16(), c.get16(index)))
		})
	}

	DefineInstruction(0xE8, "ADD SP, r8", func(c *CPU) {
		c.SP = c.addSPSigned()
	})
}

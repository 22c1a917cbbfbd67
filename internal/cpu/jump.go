package cpu

import "fmt"

// jumpRelative reads a signed offset and adds it to the PC
// when the condition holds.
//
//	JR cc, r8
func (c *CPU) jumpRelative(condition bool) {
	offset := int8(c.readOperand())
	if condition {
		c.PC = uint16(int32(c.PC) + int32(offset))
		c.extra += jrTaken
	}
}

// jumpAbsolute reads an address and jumps to it when the
// condition holds.
//
//	JP cc, a16
func (c *CPU) jumpAbsolute(condition bool) {
	address := c.readOperand16()
	if condition {
		c.PC = address
		c.extra += jpTaken
	}
}

// call reads an address and, when the condition holds,
// pushes the PC and jumps to it.
//
//	CALL cc, a16
func (c *CPU) call(condition bool) {
	address := c.readOperand16()
	if condition {
		c.push(c.PC)
		c.PC = address
		c.extra += callTaken
	}
}

// ret pops the PC off the stack when the condition holds.
//
//	RET cc
func (c *CPU) ret(condition bool) {
	if condition {
		c.PC = c.pop()
		c.extra += retTaken
	}
}

// rst pushes the PC and jumps to one of the 8 restart
// vectors.
//
//	RST n
//	n = 0x00, 0x08, 0x10, 0x18, 0x20, 0x28, 0x30, 0x38
func (c *CPU) rst(vector uint16) {
	c.push(c.PC)
	c.PC = vector
}

func init() {
	DefineInstruction(0x18, "JR r8", func(c *CPU) {
		// the base timing already includes the jump
		offset := int8(c.readOperand())
		c.PC = uint16(int32(c.PC) + int32(offset))
	})
	DefineInstruction(0xC3, "JP a16", func(c *CPU) { c.PC = c.readOperand16() })
	DefineInstruction(0xE9, "JP HL", func(c *CPU) { c.PC = c.HL.Uint16() })
	DefineInstruction(0xCD, "CALL a16", func(c *CPU) {
		address := c.readOperand16()
		c.push(c.PC)
		c.PC = address
	})
	DefineInstruction(0xC9, "RET", func(c *CPU) { c.PC = c.pop() })
	DefineInstruction(0xD9, "RETI", func(c *CPU) {
		c.PC = c.pop()
		c.irq.IME = true
	})

	for cc := uint8(0); cc < 4; cc++ {
		condition := cc
		name := conditionNames[cc]
		DefineInstruction(0x20+cc*8, fmt.Sprintf("JR %s, r8", name), func(c *CPU) {
			c.jumpRelative(c.condition(condition))
		})
		DefineInstruction(0xC2+cc*8, fmt.Sprintf("JP %s, a16", name), func(c *CPU) {
			c.jumpAbsolute(c.condition(condition))
		})
		DefineInstruction(0xC4+cc*8, fmt.Sprintf("CALL %s, a16", name), func(c *CPU) {
			c.call(c.condition(condition))
		})
		DefineInstruction(0xC0+cc*8, fmt.Sprintf("RET %s", name), func(c *CPU) {
			c.ret(c.condition(condition))
		})
	}

	for i := uint8(0); i < 8; i++ {
		vector := uint16(i) * 8
		DefineInstruction(0xC7+i*8, fmt.Sprintf("RST %02XH", vector), func(c *CPU) {
			c.rst(vector)
		})
	}
}

package cpu

import "github.com/thelolagemann/pocketboy/internal/types"

type Flag = uint8

const (
	FlagZero      Flag = 7
	FlagSubtract  Flag = 6
	FlagHalfCarry Flag = 5
	FlagCarry     Flag = 4
)

// clearFlag clears a flag from the F register.
func (c *CPU) clearFlag(flag Flag) {
	c.F = types.Reset(c.F, flag)
}

// setFlag sets a flag in the F register.
func (c *CPU) setFlag(flag Flag) {
	c.F = types.Set(c.F, flag)
}

// isFlagSet returns true if the given flag is set.
func (c *CPU) isFlagSet(flag Flag) bool {
	return types.Test(c.F, flag)
}

// isFlagsSet returns true if all the given flags are set.
func (c *CPU) isFlagsSet(flags ...Flag) bool {
	for _, flag := range flags {
		if !c.isFlagSet(flag) {
			return false
		}
	}
	return true
}

// setFlags replaces all 4 flags at once. The lower nibble
// of F always reads as zero.
func (c *CPU) setFlags(zero, subtract, halfCarry, carry bool) {
	c.F = types.Bool(zero)<<FlagZero |
		types.Bool(subtract)<<FlagSubtract |
		types.Bool(halfCarry)<<FlagHalfCarry |
		types.Bool(carry)<<FlagCarry
}

// shouldZeroFlag sets FlagZero if the given value is 0.
func (c *CPU) shouldZeroFlag(value uint8) {
	if value == 0 {
		c.setFlag(FlagZero)
	} else {
		c.clearFlag(FlagZero)
	}
}

// condition returns whether the branch condition encoded
// in bits 3-4 of a conditional opcode holds.
//
//	0 - NZ
//	1 - Z
//	2 - NC
//	3 - C
func (c *CPU) condition(cc uint8) bool {
	switch cc {
	case 0:
		return !c.isFlagSet(FlagZero)
	case 1:
		return c.isFlagSet(FlagZero)
	case 2:
		return !c.isFlagSet(FlagCarry)
	}
	return c.isFlagSet(FlagCarry)
}

var conditionNames = [4]string{"NZ", "Z", "NC", "C"}

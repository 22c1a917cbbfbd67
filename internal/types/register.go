package types

// Register represents an 8-bit CPU register. The CPU has
// 8 registers: A, B, C, D, E, F, H and L, where F holds
// the flags and only its upper nibble is meaningful.
type Register = uint8

// RegisterPair joins two Registers into a single 16-bit
// value, with High forming the most significant byte.
//
//	AF, BC, DE, HL
type RegisterPair struct {
	High *Register
	Low  *Register
}

// Uint16 returns the value of the RegisterPair as an uint16.
func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

// SetUint16 sets the value of the RegisterPair to the given value.
func (r *RegisterPair) SetUint16(value uint16) {
	*r.High = uint8(value >> 8)
	*r.Low = uint8(value)
}

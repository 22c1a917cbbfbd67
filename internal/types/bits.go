package types

const (
	Bit0 = 1 << iota // 0b0000_0001
	Bit1             // 0b0000_0010
	Bit2             // 0b0000_0100
	Bit3             // 0b0000_1000
	Bit4             // 0b0001_0000
	Bit5             // 0b0010_0000
	Bit6             // 0b0100_0000
	Bit7             // 0b1000_0000
)

// Test returns true if the bit at index n of v is set.
func Test(v uint8, n uint8) bool {
	return v&(1<<n) != 0
}

// Set returns v with the bit at index n set.
func Set(v uint8, n uint8) uint8 {
	return v | 1<<n
}

// Reset returns v with the bit at index n cleared.
func Reset(v uint8, n uint8) uint8 {
	return v &^ (1 << n)
}

// Bool converts b to its single bit representation.
func Bool(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

package ppu

// Tiles are 8x8 pixels with a colour depth of 2 bits, stored as
// 16 bytes. Each row is a pair of bitplanes, the first byte
// holding the low bit of every pixel and the second the high
// bit, with the leftmost pixel in bit 7.

// tileRow returns the low and high bitplanes of the given row
// of the tile at address.
func (p *PPU) tileRow(address uint16, row uint8) (uint8, uint8) {
	offset := address - 0x8000 + uint16(row)*2
	return p.vRAM[offset], p.vRAM[offset+1]
}

// colourIndex returns the colour index (0-3) of pixel x (0 is
// leftmost) of a row.
func colourIndex(lo, hi uint8, x uint8) uint8 {
	bit := 7 - x
	return (lo>>bit)&1 | ((hi>>bit)&1)<<1
}

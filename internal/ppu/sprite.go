package ppu

import "github.com/thelolagemann/pocketboy/internal/types"

// Sprite is a single entry of the OAM.
type Sprite struct {
	Y      uint8
	X      uint8
	TileID uint8
	spriteAttributes

	// index of the sprite in the OAM, used to break ties
	// between sprites sharing an X coordinate
	index uint8
}

// spriteAttributes represents the attributes of a sprite.
type spriteAttributes struct {
	// Bit 7 - OBJ-to-BG priority (0=OBJ Above BG, 1=OBJ Behind BG color 1-3)
	// (Used for both BG and Window. BG color 0 is always behind OBJ)
	behindBG bool
	// Bit 6 - Y flip          (0=Normal, 1=Vertically mirrored)
	flipY bool
	// Bit 5 - X flip          (0=Normal, 1=Horizontally mirrored)
	flipX bool
	// Bit 4 - Palette number  (0=OBP0, 1=OBP1)
	useSecondPalette bool

	raw uint8
}

// Update updates the given byte of the sprite.
func (s *Sprite) Update(address uint16, value uint8) {
	switch address & 0x03 {
	case 0:
		s.Y = value
	case 1:
		s.X = value
	case 2:
		s.TileID = value
	case 3:
		s.raw = value
		s.behindBG = value&types.Bit7 != 0
		s.flipY = value&types.Bit6 != 0
		s.flipX = value&types.Bit5 != 0
		s.useSecondPalette = value&types.Bit4 != 0
	}
}

// Read returns the given byte of the sprite.
func (s *Sprite) Read(address uint16) uint8 {
	switch address & 0x03 {
	case 0:
		return s.Y
	case 1:
		return s.X
	case 2:
		return s.TileID
	}
	return s.raw
}

// onLine returns true if the sprite covers line ly for the
// given sprite height. Y holds the line plus 16, so entries
// with Y == 0 or Y >= 160 are never visible.
func (s *Sprite) onLine(ly uint8, height uint8) bool {
	top := int(s.Y) - 16
	return int(ly) >= top && int(ly) < top+int(height)
}

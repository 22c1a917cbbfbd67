package lcd

import (
	"github.com/thelolagemann/pocketboy/internal/types"
)

// Controller is the LCD controller. It is responsible for controlling various
// aspects of the LCD, such as enabling the background and window display.
//
// Its value is stored in the LCD Control Register (types.LCDC) as follows:
//
//	Bit 7 - LCD Enable             (0=Off, 1=On)
//	Bit 6 - Window Tile Map Display Select (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 5 - Window Display Enable          (0=Off, 1=On)
//	Bit 4 - BG & Window Tile Data Select   (0=8800-97FF, 1=8000-8FFF)
//	Bit 3 - BG Tile Map Display Select     (0=9800-9BFF, 1=9C00-9FFF)
//	Bit 2 - OBJ (Sprite) Size              (0=8x8, 1=8x16)
//	Bit 1 - OBJ (Sprite) Display Enable    (0=Off, 1=On)
//	Bit 0 - BG/Window Display/Priority     (0=Off, 1=On)
type Controller struct {
	// Enabled is the LCD Enable bit. When set, the LCD is enabled.
	Enabled bool
	// WindowTileMapAddress is the start address of the window
	// tile map, 0x9800 or 0x9C00.
	WindowTileMapAddress uint16
	// WindowEnabled is the Window Display Enable bit.
	WindowEnabled bool
	// TileDataAddress is the start address of the tile data.
	// At 0x8000 tiles are indexed unsigned, at 0x8800 they are
	// indexed signed around 0x9000.
	TileDataAddress uint16
	// BackgroundTileMapAddress is the start address of the
	// background tile map, 0x9800 or 0x9C00.
	BackgroundTileMapAddress uint16
	// SpriteSize is the height of a sprite, 8 or 16.
	SpriteSize uint8
	// SpriteEnabled is the OBJ (Sprite) Display Enable bit.
	SpriteEnabled bool
	// BackgroundEnabled is the BG/Window Display/Priority bit.
	// When clear, neither the background nor the window is drawn.
	BackgroundEnabled bool
}

// NewController returns a new LCD controller holding the
// value the boot ROM leaves behind (0x91).
func NewController() *Controller {
	c := &Controller{}
	c.Write(0x91)
	return c
}

// Write writes the value to the LCD controller.
func (c *Controller) Write(value uint8) {
	c.Enabled = types.Test(value, 7)
	c.WindowTileMapAddress = 0x9800
	if types.Test(value, 6) {
		c.WindowTileMapAddress = 0x9C00
	}
	c.WindowEnabled = types.Test(value, 5)
	c.TileDataAddress = 0x8800
	if types.Test(value, 4) {
		c.TileDataAddress = 0x8000
	}
	c.BackgroundTileMapAddress = 0x9800
	if types.Test(value, 3) {
		c.BackgroundTileMapAddress = 0x9C00
	}
	c.SpriteSize = 8
	if types.Test(value, 2) {
		c.SpriteSize = 16
	}
	c.SpriteEnabled = types.Test(value, 1)
	c.BackgroundEnabled = types.Test(value, 0)
}

// Read reads the value from the LCD controller.
func (c *Controller) Read() uint8 {
	var value uint8
	if c.Enabled {
		value |= types.Bit7
	}
	if c.WindowTileMapAddress == 0x9C00 {
		value |= types.Bit6
	}
	if c.WindowEnabled {
		value |= types.Bit5
	}
	if c.TileDataAddress == 0x8000 {
		value |= types.Bit4
	}
	if c.BackgroundTileMapAddress == 0x9C00 {
		value |= types.Bit3
	}
	if c.SpriteSize == 16 {
		value |= types.Bit2
	}
	if c.SpriteEnabled {
		value |= types.Bit1
	}
	if c.BackgroundEnabled {
		value |= types.Bit0
	}
	return value
}

// UsingSignedTileData returns true if the LCD controller is using signed tile
// data.
func (c *Controller) UsingSignedTileData() bool {
	return c.TileDataAddress == 0x8800
}

// TileAddress returns the address of the tile data for the
// given tile number.
func (c *Controller) TileAddress(id uint8) uint16 {
	if c.UsingSignedTileData() {
		return uint16(0x9000 + int(int8(id))*16)
	}
	return 0x8000 + uint16(id)*16
}

package cheats

import (
	"fmt"
	"strconv"
)

// A GameShark code writes a byte to RAM once every frame. It is
// written as eight hex digits ABCDEFGH, where AB is the code
// type or external RAM bank, CD is the new data and GHEF is the
// address.
type GameShark struct {
	Type    uint8
	NewData uint8
	Address uint16
}

// ParseGameShark parses a GameShark code.
func ParseGameShark(code string) (GameShark, error) {
	if len(code) != 8 {
		return GameShark{}, fmt.Errorf("cheats: invalid game shark code %q", code)
	}

	v, err := strconv.ParseUint(code, 16, 32)
	if err != nil {
		return GameShark{}, fmt.Errorf("cheats: invalid game shark code %q: %w", code, err)
	}

	g := GameShark{
		Type:    uint8(v >> 24),
		NewData: uint8(v >> 16),
		// GHEF is little endian
		Address: uint16(v>>8)&0xFF | uint16(v)<<8,
	}
	if g.Address < 0xA000 || g.Address >= 0xE000 {
		return GameShark{}, fmt.Errorf("cheats: game shark code %q writes 0x%04X outside RAM", code, g.Address)
	}
	return g, nil
}

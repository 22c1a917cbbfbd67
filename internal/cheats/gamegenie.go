package cheats

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// A GameGenie code patches a ROM read. It is written as nine hex
// digits ABC-DEF-GHI, or six as ABC-DEF. AB is the new data,
// FCDE is the address XORed by 0xF000, and GI is the old data
// XORed by 0xBA and rotated left by 2. H is unused. A code
// without GHI replaces the byte whatever its old value.
type GameGenie struct {
	Address uint16
	NewData uint8
	OldData uint8
	Compare bool
}

// ParseGameGenie parses a GameGenie code.
func ParseGameGenie(code string) (GameGenie, error) {
	digits := strings.ReplaceAll(code, "-", "")
	if len(digits) != 6 && len(digits) != 9 {
		return GameGenie{}, fmt.Errorf("cheats: invalid game genie code %q", code)
	}

	newData, err := strconv.ParseUint(digits[0:2], 16, 8)
	if err != nil {
		return GameGenie{}, fmt.Errorf("cheats: invalid game genie code %q: %w", code, err)
	}
	// reorganize CDEF to FCDE
	address, err := strconv.ParseUint(digits[5:6]+digits[2:5], 16, 16)
	if err != nil {
		return GameGenie{}, fmt.Errorf("cheats: invalid game genie code %q: %w", code, err)
	}

	g := GameGenie{
		Address: uint16(address) ^ 0xF000,
		NewData: uint8(newData),
	}
	if g.Address >= 0x8000 {
		return GameGenie{}, fmt.Errorf("cheats: game genie code %q patches 0x%04X outside ROM", code, g.Address)
	}

	if len(digits) == 9 {
		oldData, err := strconv.ParseUint(digits[6:7]+digits[8:9], 16, 8)
		if err != nil {
			return GameGenie{}, fmt.Errorf("cheats: invalid game genie code %q: %w", code, err)
		}
		g.OldData = bits.RotateLeft8(uint8(oldData), -2) ^ 0xBA
		g.Compare = true
	}

	return g, nil
}

// Patch returns the byte the CPU sees when reading value from
// address.
func (g GameGenie) Patch(address uint16, value uint8) uint8 {
	if g.matches(address, value) {
		return g.NewData
	}
	return value
}

func (g GameGenie) matches(address uint16, value uint8) bool {
	return address == g.Address && (!g.Compare || value == g.OldData)
}

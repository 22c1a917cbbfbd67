// Package palette provides the colour palettes used to turn
// the 2 bit shades of the LCD into RGB colours.
package palette

import "strings"

// ID identifies one of the built-in palettes.
type ID uint8

const (
	// Greyscale is the default greyscale palette.
	Greyscale ID = iota
	// Green is the green palette which attempts to emulate
	// the original colour palette as it would have appeared
	// on the original Game Boy.
	Green
	// Red is a red palette.
	Red
	// Yellow is a yellow palette.
	Yellow
)

// Palette represents a palette. A palette is an array of 4 RGB values,
// one per shade from lightest to darkest.
type Palette struct {
	Colors [4][3]uint8
}

// Palettes is a list of all available palettes.
var Palettes = [...]Palette{
	Greyscale: {
		Colors: [4][3]uint8{
			{0xFF, 0xFF, 0xFF},
			{0xCC, 0xCC, 0xCC},
			{0x77, 0x77, 0x77},
			{0x00, 0x00, 0x00},
		},
	},
	Green: {
		Colors: [4][3]uint8{
			{0x9B, 0xBC, 0x0F},
			{0x8B, 0xAC, 0x0F},
			{0x30, 0x62, 0x30},
			{0x0F, 0x38, 0x0F},
		},
	},
	Red: {
		Colors: [4][3]uint8{
			{0xFF, 0x00, 0x00},
			{0xCC, 0x00, 0x00},
			{0x77, 0x00, 0x00},
			{0x00, 0x00, 0x00},
		},
	},
	Yellow: {
		Colors: [4][3]uint8{
			{0xFF, 0xFF, 0x00},
			{0xCC, 0xCC, 0x00},
			{0x77, 0x77, 0x00},
			{0x00, 0x00, 0x00},
		},
	},
}

var names = map[string]ID{
	"greyscale": Greyscale,
	"grayscale": Greyscale,
	"green":     Green,
	"red":       Red,
	"yellow":    Yellow,
}

// Get returns the palette for id, falling back to Greyscale.
func Get(id ID) Palette {
	if int(id) >= len(Palettes) {
		return Palettes[Greyscale]
	}
	return Palettes[id]
}

// Parse returns the palette named s.
func Parse(s string) (ID, bool) {
	id, ok := names[strings.ToLower(s)]
	return id, ok
}

// GetColour returns the colour of the given shade (0-3).
func (p Palette) GetColour(shade uint8) [3]uint8 {
	return p.Colors[shade&0x03]
}

// Map returns the colour of the colour index (0-3) through
// the given palette register (BGP, OBP0 or OBP1).
//
//	Bit 7-6 - Shade for Color Number 3
//	Bit 5-4 - Shade for Color Number 2
//	Bit 3-2 - Shade for Color Number 1
//	Bit 1-0 - Shade for Color Number 0
func (p Palette) Map(register uint8, index uint8) [3]uint8 {
	return p.Colors[register>>(index*2)&0x03]
}

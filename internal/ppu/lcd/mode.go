// Package lcd provides the LCD control and status registers.
package lcd

// Mode represents a mode of the LCD.
type Mode uint8

const (
	// HBlank is the horizontal blanking mode. The CPU can access both the display RAM and OAM.
	HBlank Mode = iota
	// VBlank is the vertical blanking mode. The CPU can access both the display RAM and OAM.
	VBlank
	// OAM is the OAM mode. The CPU can access the display RAM but not OAM.
	OAM
	// VRAM is the pixel transfer mode. The CPU can access the display RAM but not OAM.
	VRAM
)

// Budget returns the number of cycles spent in the mode on
// a single line.
func (m Mode) Budget() uint32 {
	switch m {
	case OAM:
		return 80
	case VRAM:
		return 172
	case HBlank:
		return 204
	}
	return 456
}

func (m Mode) String() string {
	switch m {
	case HBlank:
		return "HBlank"
	case VBlank:
		return "VBlank"
	case OAM:
		return "OAM"
	case VRAM:
		return "VRAM"
	}
	return "unknown"
}

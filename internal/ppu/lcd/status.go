package lcd

import (
	"github.com/thelolagemann/pocketboy/internal/types"
)

// Status represents the LCD status register. It contains information about the
// current state of the LCD controller. Its value is stored in types.STAT as
// follows:
//
//	Bit 6 - LYC=LY Coincidence Interrupt (1=Enable) (Read/Write)
//	Bit 5 - Mode 2 OAM Interrupt         (1=Enable) (Read/Write)
//	Bit 4 - Mode 1 V-Blank Interrupt     (1=Enable) (Read/Write)
//	Bit 3 - Mode 0 H-Blank Interrupt     (1=Enable) (Read/Write)
//	Bit 2 - Coincidence Flag  (0:LYC<>LY, 1:LYC=LY) (Read Only)
//	Bit 1-0 - Mode Flag       (Mode 0-3, see Mode) (Read Only)
type Status struct {
	// CoincidenceInterrupt is set when the LYC=LY coincidence interrupt is
	// enabled.
	CoincidenceInterrupt bool
	// OAMInterrupt is set when the OAM interrupt is enabled.
	OAMInterrupt bool
	// VBlankInterrupt is set when the V-Blank interrupt is enabled.
	VBlankInterrupt bool
	// HBlankInterrupt is set when the H-Blank interrupt is enabled.
	HBlankInterrupt bool
	// Coincidence is set when LY equals LYC.
	Coincidence bool
	// Mode is the current mode of the LCD controller.
	Mode Mode
}

// NewStatus returns a new Status.
func NewStatus() *Status {
	return &Status{}
}

// Write writes the value to the status register. Only
// the interrupt enables are writable.
func (s *Status) Write(value uint8) {
	s.CoincidenceInterrupt = types.Test(value, 6)
	s.OAMInterrupt = types.Test(value, 5)
	s.VBlankInterrupt = types.Test(value, 4)
	s.HBlankInterrupt = types.Test(value, 3)
}

// Read returns the value of the status register.
func (s *Status) Read() uint8 {
	var value uint8
	if s.CoincidenceInterrupt {
		value |= types.Bit6
	}
	if s.OAMInterrupt {
		value |= types.Bit5
	}
	if s.VBlankInterrupt {
		value |= types.Bit4
	}
	if s.HBlankInterrupt {
		value |= types.Bit3
	}
	if s.Coincidence {
		value |= types.Bit2
	}
	value |= uint8(s.Mode) & 0x03
	return value | types.Bit7 // bit 7 is always set
}

// Lines returns the level of each STAT interrupt source, in
// the order HBlank, VBlank, OAM and coincidence. The STAT
// interrupt is requested on the rising edge of any of them.
func (s *Status) Lines() [4]bool {
	return [4]bool{
		s.HBlankInterrupt && s.Mode == HBlank,
		s.VBlankInterrupt && s.Mode == VBlank,
		s.OAMInterrupt && s.Mode == OAM,
		s.CoincidenceInterrupt && s.Coincidence,
	}
}

package ppu

import (
	"github.com/thelolagemann/pocketboy/internal/types"
)

// dmaCycles is the number of cycles the CPU is held for during
// a transfer, 4 cycles for each of the 160 bytes.
const dmaCycles = 640

// Bus is the memory a DMA transfer reads from.
type Bus interface {
	Read(address uint16) uint8
}

// DMA copies 160 bytes from the memory at (value << 8) into
// the OAM when types.DMA is written. The copy happens at once,
// bypassing the OAM lock, and the CPU is charged the length of
// the transfer instead.
type DMA struct {
	value uint8

	bus   Bus
	oam   *OAM
	stall func(cycles uint16)
}

// NewDMA returns a new DMA controller.
func NewDMA(h *types.HardwareRegisters, bus Bus, oam *OAM, stall func(cycles uint16)) *DMA {
	d := &DMA{
		bus:   bus,
		oam:   oam,
		stall: stall,
	}
	h.RegisterHardware(
		types.DMA,
		func(v uint8) {
			d.value = v
			d.transfer(uint16(v) << 8)
		},
		func() uint8 {
			return d.value
		},
	)
	return d
}

func (d *DMA) transfer(source uint16) {
	// sources past 0xDFFF read from the echo of WRAM
	if source >= 0xE000 {
		source &^= 0x2000
	}
	for i := uint16(0); i < 0xA0; i++ {
		d.oam.Write(i, d.bus.Read(source+i))
	}
	if d.stall != nil {
		d.stall(dmaCycles)
	}
}

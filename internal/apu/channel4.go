package apu

import (
	"github.com/thelolagemann/pocketboy/internal/types"
)

var noiseDivisors = [8]uint32{8, 16, 32, 48, 64, 80, 96, 112}

// channel4 outputs pseudo-random noise from a 15-bit LFSR.
type channel4 struct {
	volumeChannel

	// NR43
	clockShift  uint8
	widthMode   bool
	divisorCode uint8

	lfsr uint16
}

func newChannel4(a *APU, h *types.HardwareRegisters) *channel4 {
	c := &channel4{lfsr: 0x7FFF}
	c.lengthMax = 64

	h.RegisterHardware(types.NR41, writeEnabled(a, func(v uint8) {
		c.setLength(v & 0x3F)
	}), func() uint8 {
		return 0xFF
	})
	h.RegisterHardware(types.NR42, writeEnabled(a, c.setNRx2), c.getNRx2)
	h.RegisterHardware(types.NR43, writeEnabled(a, func(v uint8) {
		c.clockShift = v >> 4
		c.widthMode = v&types.Bit3 != 0
		c.divisorCode = v & 0x7
	}), func() uint8 {
		b := c.clockShift<<4 | c.divisorCode
		if c.widthMode {
			b |= types.Bit3
		}
		return b
	})
	h.RegisterHardware(types.NR44, writeEnabled(a, func(v uint8) {
		c.lengthCounterEnabled = v&types.Bit6 != 0
		if v&types.Bit7 != 0 {
			c.trigger()
		}
	}), c.getNRx4)

	return c
}

func (c *channel4) timerPeriod() uint32 {
	return noiseDivisors[c.divisorCode] << c.clockShift
}

func (c *channel4) trigger() {
	c.channel.trigger()
	c.frequencyTimer = c.timerPeriod()
	c.initVolumeEnvelope()
	c.lfsr = 0x7FFF
}

func (c *channel4) tick(cycles uint32) {
	for cycles >= c.frequencyTimer {
		cycles -= c.frequencyTimer
		c.frequencyTimer = c.timerPeriod()
		c.step()
	}
	c.frequencyTimer -= cycles
}

// step shifts the LFSR once, feeding bit0 XOR bit1 back into bit
// 14, and also bit 6 in 7-bit mode.
func (c *channel4) step() {
	xor := (c.lfsr & 1) ^ ((c.lfsr >> 1) & 1)
	c.lfsr = (c.lfsr >> 1) | xor<<14
	if c.widthMode {
		c.lfsr = c.lfsr&^(1<<6) | xor<<6
	}
}

func (c *channel4) output() uint8 {
	if !c.isEnabled() || c.lfsr&1 != 0 {
		return 0
	}
	return c.currentVolume
}

func (c *channel4) reset() {
	*c = channel4{lfsr: 0x7FFF}
	c.lengthMax = 64
}

func (c *channel4) load(s *types.State) {
	c.volumeChannel.load(s)
	c.clockShift = s.Read8()
	c.widthMode = s.ReadBool()
	c.divisorCode = s.Read8()
	c.lfsr = s.Read16()
}

func (c *channel4) save(s *types.State) {
	c.volumeChannel.save(s)
	s.Write8(c.clockShift)
	s.WriteBool(c.widthMode)
	s.Write8(c.divisorCode)
	s.Write16(c.lfsr)
}

package apu

import (
	"github.com/thelolagemann/pocketboy/internal/types"
)

// channel3 plays the 32 4-bit samples held in wave RAM.
type channel3 struct {
	channel

	// NR32
	volumeCode uint8

	waveRAM      [16]uint8
	wavePosition uint8
}

func newChannel3(a *APU, h *types.HardwareRegisters) *channel3 {
	c := &channel3{}
	c.lengthMax = 256

	h.RegisterHardware(types.NR30, writeEnabled(a, func(v uint8) {
		c.dacEnabled = v&types.Bit7 != 0
		if !c.dacEnabled {
			c.enabled = false
		}
	}), func() uint8 {
		if c.dacEnabled {
			return 0xFF
		}
		return 0x7F
	})
	h.RegisterHardware(types.NR31, writeEnabled(a, c.setLength), func() uint8 {
		return 0xFF
	})
	h.RegisterHardware(types.NR32, writeEnabled(a, func(v uint8) {
		c.volumeCode = (v & 0x60) >> 5
	}), func() uint8 {
		return c.volumeCode<<5 | 0x9F
	})
	h.RegisterHardware(types.NR33, writeEnabled(a, c.setNRx3), func() uint8 {
		return 0xFF
	})
	h.RegisterHardware(types.NR34, writeEnabled(a, func(v uint8) {
		if c.setNRx4(v) {
			c.trigger()
		}
	}), c.getNRx4)

	// wave RAM stays accessible while powered off
	for i := types.HardwareAddress(0); i < 16; i++ {
		offset := i
		h.RegisterHardware(types.WaveRAM+offset, func(v uint8) {
			c.waveRAM[offset] = v
		}, func() uint8 {
			return c.waveRAM[offset]
		})
	}

	return c
}

func (c *channel3) timerPeriod() uint32 {
	return uint32(2048-c.frequency) * 2
}

func (c *channel3) trigger() {
	c.channel.trigger()
	c.frequencyTimer = c.timerPeriod()
	c.wavePosition = 0
}

func (c *channel3) tick(cycles uint32) {
	for cycles >= c.frequencyTimer {
		cycles -= c.frequencyTimer
		c.frequencyTimer = c.timerPeriod()
		c.wavePosition = (c.wavePosition + 1) & 0x1F
	}
	c.frequencyTimer -= cycles
}

// output returns the current sample, the high nibble first,
// shifted by the volume code.
func (c *channel3) output() uint8 {
	if !c.isEnabled() || c.volumeCode == 0 {
		return 0
	}
	sample := c.waveRAM[c.wavePosition/2]
	if c.wavePosition%2 == 0 {
		sample >>= 4
	}
	return (sample & 0x0F) >> (c.volumeCode - 1)
}

// reset clears the channel, leaving wave RAM untouched.
func (c *channel3) reset() {
	wave := c.waveRAM
	*c = channel3{waveRAM: wave}
	c.lengthMax = 256
}

func (c *channel3) load(s *types.State) {
	c.channel.load(s)
	c.volumeCode = s.Read8()
	s.ReadData(c.waveRAM[:])
	c.wavePosition = s.Read8()
}

func (c *channel3) save(s *types.State) {
	c.channel.save(s)
	s.Write8(c.volumeCode)
	s.WriteData(c.waveRAM[:])
	s.Write8(c.wavePosition)
}

package apu

import (
	"github.com/thelolagemann/pocketboy/internal/types"
)

var dutyPatterns = [4]uint8{
	0b00000001, // 12.5%
	0b10000001, // 25%
	0b10000111, // 50%
	0b01111110, // 75%
}

// channel2 is a pulse channel, and the base of channel1.
type channel2 struct {
	volumeChannel

	// NR21
	duty uint8

	waveDutyPosition uint8
}

func newChannel2(a *APU, h *types.HardwareRegisters) *channel2 {
	c := &channel2{}
	c.lengthMax = 64
	c.registerPulse(a, h, types.NR21, types.NR22, types.NR23, types.NR24, c.trigger)
	return c
}

// registerPulse registers the four pulse registers, calling
// trigger when NRx4 bit 7 is written.
func (c *channel2) registerPulse(a *APU, h *types.HardwareRegisters, nr1, nr2, nr3, nr4 types.HardwareAddress, trigger func()) {
	h.RegisterHardware(nr1, writeEnabled(a, func(v uint8) {
		c.duty = (v & 0xC0) >> 6
		c.setLength(v & 0x3F)
	}), func() uint8 {
		return (c.duty << 6) | 0x3F
	})
	h.RegisterHardware(nr2, writeEnabled(a, c.setNRx2), c.getNRx2)
	h.RegisterHardware(nr3, writeEnabled(a, c.setNRx3), func() uint8 {
		return 0xFF // write only
	})
	h.RegisterHardware(nr4, writeEnabled(a, func(v uint8) {
		if c.setNRx4(v) {
			trigger()
		}
	}), c.getNRx4)
}

func (c *channel2) timerPeriod() uint32 {
	return uint32(2048-c.frequency) * 4
}

func (c *channel2) trigger() {
	c.channel.trigger()
	c.frequencyTimer = c.timerPeriod()
	c.initVolumeEnvelope()
}

func (c *channel2) tick(cycles uint32) {
	for cycles >= c.frequencyTimer {
		cycles -= c.frequencyTimer
		c.frequencyTimer = c.timerPeriod()
		c.waveDutyPosition = (c.waveDutyPosition + 1) & 0x7
	}
	c.frequencyTimer -= cycles
}

func (c *channel2) output() uint8 {
	if !c.isEnabled() {
		return 0
	}
	if dutyPatterns[c.duty]&(1<<c.waveDutyPosition) == 0 {
		return 0
	}
	return c.currentVolume
}

func (c *channel2) reset() {
	*c = channel2{}
	c.lengthMax = 64
}

func (c *channel2) load(s *types.State) {
	c.volumeChannel.load(s)
	c.duty = s.Read8()
	c.waveDutyPosition = s.Read8()
}

func (c *channel2) save(s *types.State) {
	c.volumeChannel.save(s)
	s.Write8(c.duty)
	s.Write8(c.waveDutyPosition)
}

package apu

import (
	"github.com/thelolagemann/pocketboy/internal/types"
)

// channel1 is a pulse channel with a frequency sweep.
type channel1 struct {
	channel2

	// NR10
	sweepPeriod     uint8
	negate          bool
	shift           uint8
	sweepTimer      uint8
	frequencyShadow uint16
	sweepEnabled    bool
}

func newChannel1(a *APU, h *types.HardwareRegisters) *channel1 {
	c := &channel1{}
	c.lengthMax = 64

	h.RegisterHardware(types.NR10, writeEnabled(a, func(v uint8) {
		c.sweepPeriod = (v & 0x70) >> 4
		c.negate = v&types.Bit3 != 0
		c.shift = v & 0x7
	}), c.getNR10)
	c.registerPulse(a, h, types.NR11, types.NR12, types.NR13, types.NR14, c.trigger)

	return c
}

func (c *channel1) getNR10() uint8 {
	b := (c.sweepPeriod << 4) | c.shift
	if c.negate {
		b |= types.Bit3
	}
	return b | 0x80
}

func (c *channel1) trigger() {
	c.channel2.trigger()

	c.frequencyShadow = c.frequency
	c.sweepTimer = envelopePeriod(c.sweepPeriod)
	c.sweepEnabled = c.sweepPeriod > 0 || c.shift > 0
	if c.shift > 0 {
		c.frequencyCalculation()
	}
}

func (c *channel1) sweepTick() {
	if c.sweepTimer > 0 {
		c.sweepTimer--
	}
	if c.sweepTimer != 0 {
		return
	}
	c.sweepTimer = envelopePeriod(c.sweepPeriod)

	if c.sweepEnabled && c.sweepPeriod > 0 {
		calculated := c.frequencyCalculation()
		if calculated <= 0x07FF && c.shift > 0 {
			c.frequencyShadow = calculated
			c.frequency = calculated
			// the new frequency is checked for overflow again
			c.frequencyCalculation()
		}
	}
}

// frequencyCalculation returns the next frequency of the sweep,
// disabling the channel when it overflows.
func (c *channel1) frequencyCalculation() uint16 {
	delta := c.frequencyShadow >> c.shift
	calculated := c.frequencyShadow + delta
	if c.negate {
		calculated = c.frequencyShadow - delta
	}
	if calculated > 0x07FF {
		c.enabled = false
	}
	return calculated
}

func (c *channel1) reset() {
	*c = channel1{}
	c.lengthMax = 64
}

func (c *channel1) load(s *types.State) {
	c.channel2.load(s)
	c.sweepPeriod = s.Read8()
	c.negate = s.ReadBool()
	c.shift = s.Read8()
	c.sweepTimer = s.Read8()
	c.frequencyShadow = s.Read16()
	c.sweepEnabled = s.ReadBool()
}

func (c *channel1) save(s *types.State) {
	c.channel2.save(s)
	s.Write8(c.sweepPeriod)
	s.WriteBool(c.negate)
	s.Write8(c.shift)
	s.Write8(c.sweepTimer)
	s.Write16(c.frequencyShadow)
	s.WriteBool(c.sweepEnabled)
}

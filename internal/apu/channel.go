package apu

import (
	"github.com/thelolagemann/pocketboy/internal/types"
)

// channel holds the state shared by all four channels.
type channel struct {
	enabled    bool
	dacEnabled bool

	// NRx1
	lengthCounter uint16
	lengthMax     uint16

	// NRx3/NRx4
	frequency            uint16
	frequencyTimer       uint32
	lengthCounterEnabled bool
}

func (c *channel) isEnabled() bool {
	return c.enabled && c.dacEnabled
}

// setLength loads the length counter from NRx1.
func (c *channel) setLength(length uint8) {
	c.lengthCounter = c.lengthMax - uint16(length)
}

func (c *channel) lengthTick() {
	if c.lengthCounterEnabled && c.lengthCounter > 0 {
		c.lengthCounter--
		if c.lengthCounter == 0 {
			c.enabled = false
		}
	}
}

// setNRx4 applies the frequency and length enable bits of NRx4,
// and returns true if the channel should be triggered.
func (c *channel) setNRx4(v uint8) bool {
	c.frequency = c.frequency&0x00FF | uint16(v&0x07)<<8
	c.lengthCounterEnabled = v&types.Bit6 != 0
	return v&types.Bit7 != 0
}

func (c *channel) getNRx4() uint8 {
	if c.lengthCounterEnabled {
		return types.Bit6 | 0xBF
	}
	return 0xBF
}

func (c *channel) setNRx3(v uint8) {
	c.frequency = c.frequency&0x0700 | uint16(v)
}

// trigger restarts the channel, reloading an expired length
// counter with its maximum.
func (c *channel) trigger() {
	c.enabled = c.dacEnabled
	if c.lengthCounter == 0 {
		c.lengthCounter = c.lengthMax
	}
}

func (c *channel) load(s *types.State) {
	c.enabled = s.ReadBool()
	c.dacEnabled = s.ReadBool()
	c.lengthCounter = s.Read16()
	c.frequency = s.Read16()
	c.frequencyTimer = s.Read32()
	c.lengthCounterEnabled = s.ReadBool()
}

func (c *channel) save(s *types.State) {
	s.WriteBool(c.enabled)
	s.WriteBool(c.dacEnabled)
	s.Write16(c.lengthCounter)
	s.Write16(c.frequency)
	s.Write32(c.frequencyTimer)
	s.WriteBool(c.lengthCounterEnabled)
}

// volumeChannel is a channel with a volume envelope (NRx2).
type volumeChannel struct {
	channel

	// NRx2
	startingVolume  uint8
	envelopeAddMode bool
	period          uint8

	volumeEnvelopeTimer uint8
	currentVolume       uint8
	envelopeActive      bool
}

// envelopeTick clocks the volume envelope. An expired timer
// reloads the period, with 0 treated as 8, and moves the
// volume one step until it reaches 0 or 15.
func (v *volumeChannel) envelopeTick() {
	if v.volumeEnvelopeTimer > 0 {
		v.volumeEnvelopeTimer--
	}
	if v.volumeEnvelopeTimer != 0 {
		return
	}
	v.volumeEnvelopeTimer = envelopePeriod(v.period)
	if !v.envelopeActive || v.period == 0 {
		return
	}

	switch {
	case v.envelopeAddMode && v.currentVolume < 0xF:
		v.currentVolume++
	case !v.envelopeAddMode && v.currentVolume > 0:
		v.currentVolume--
	}
	if v.currentVolume == 0 || v.currentVolume == 0xF {
		v.envelopeActive = false
	}
}

func envelopePeriod(period uint8) uint8 {
	if period == 0 {
		return 8
	}
	return period
}

func (v *volumeChannel) setNRx2(v2 uint8) {
	v.startingVolume = v2 >> 4
	v.envelopeAddMode = v2&types.Bit3 != 0
	v.period = v2 & 0x7
	v.dacEnabled = v2&0xF8 != 0
	if !v.dacEnabled {
		v.enabled = false
	}
}

func (v *volumeChannel) getNRx2() uint8 {
	b := (v.startingVolume << 4) | v.period
	if v.envelopeAddMode {
		b |= types.Bit3
	}
	return b
}

func (v *volumeChannel) initVolumeEnvelope() {
	v.volumeEnvelopeTimer = envelopePeriod(v.period)
	v.currentVolume = v.startingVolume
	v.envelopeActive = true
}

func (v *volumeChannel) load(s *types.State) {
	v.channel.load(s)
	v.setNRx2(s.Read8())
	v.dacEnabled = s.ReadBool()
	v.enabled = s.ReadBool()
	v.volumeEnvelopeTimer = s.Read8()
	v.currentVolume = s.Read8()
	v.envelopeActive = s.ReadBool()
}

func (v *volumeChannel) save(s *types.State) {
	v.channel.save(s)
	s.Write8(v.getNRx2())
	s.WriteBool(v.dacEnabled)
	s.WriteBool(v.enabled)
	s.Write8(v.volumeEnvelopeTimer)
	s.Write8(v.currentVolume)
	s.WriteBool(v.envelopeActive)
}

// writeEnabled wraps a register write so that it is ignored
// while the APU is powered off.
func writeEnabled(a *APU, f func(v uint8)) func(v uint8) {
	return func(v uint8) {
		if a.enabled {
			f(v)
		}
	}
}

// Package timer provides an implementation of the Game Boy
// timer. It is used to generate interrupts at a specific
// frequency. The frequency can be configured using the
// types.TAC register.
package timer

import (
	"github.com/thelolagemann/pocketboy/internal/interrupts"
	"github.com/thelolagemann/pocketboy/internal/types"
)

// rates holds the number of cycles per TIMA increment for
// each of the 4 values of TAC bits 0-1.
var rates = [4]uint32{1024, 16, 64, 256}

// Controller is a timer controller. It is used to generate
// interrupts at a specific frequency. The frequency can be
// configured using the types.TAC register.
type Controller struct {
	// sysCounter is the free running system counter, DIV
	// being its upper 8 bits.
	sysCounter uint16
	// accumulator holds the cycles not yet counted into TIMA.
	accumulator uint32

	tima uint8
	tma  uint8
	tac  uint8

	Enabled bool
	// overflow is set when TIMA overflowed during the last
	// Tick. The reload and interrupt happen on the next one.
	overflow bool

	irq *interrupts.Service
}

// NewController returns a new timer controller.
func NewController(h *types.HardwareRegisters, irq *interrupts.Service) *Controller {
	c := &Controller{
		irq: irq,
	}
	// set up registers
	h.RegisterHardware(
		types.DIV,
		func(v uint8) {
			// any write resets the whole counter
			c.sysCounter = 0
		}, func() uint8 {
			return uint8(c.sysCounter >> 8)
		},
	)
	h.RegisterHardware(
		types.TIMA,
		func(v uint8) {
			c.tima = v
		}, func() uint8 {
			return c.tima
		},
	)
	h.RegisterHardware(
		types.TMA,
		func(v uint8) {
			c.tma = v
		}, func() uint8 {
			return c.tma
		},
	)
	h.RegisterHardware(
		types.TAC,
		func(v uint8) {
			c.tac = v & 0x07
			c.Enabled = v&types.Bit2 != 0
		}, func() uint8 {
			return c.tac | 0xF8
		},
	)

	return c
}

// Tick advances the timer by the given number of cycles.
func (c *Controller) Tick(cycles uint16) {
	if c.overflow {
		c.tima = c.tma
		c.irq.Request(interrupts.TimerFlag)
		c.overflow = false
	}

	c.sysCounter += cycles

	if !c.Enabled {
		return
	}
	rate := rates[c.tac&0x03]
	c.accumulator += uint32(cycles)
	for c.accumulator >= rate {
		c.accumulator -= rate
		c.tima++
		if c.tima == 0 {
			c.overflow = true
		}
	}
}

// Div returns the current value of the DIV register.
func (c *Controller) Div() uint8 {
	return uint8(c.sysCounter >> 8)
}

var _ types.Stater = (*Controller)(nil)

// Load implements the types.Stater interface.
func (c *Controller) Load(s *types.State) {
	c.sysCounter = s.Read16()
	c.accumulator = s.Read32()
	c.tima = s.Read8()
	c.tma = s.Read8()
	c.tac = s.Read8()
	c.Enabled = c.tac&types.Bit2 != 0
	c.overflow = s.ReadBool()
}

// Save implements the types.Stater interface.
func (c *Controller) Save(s *types.State) {
	s.Write16(c.sysCounter)
	s.Write32(c.accumulator)
	s.Write8(c.tima)
	s.Write8(c.tma)
	s.Write8(c.tac)
	s.WriteBool(c.overflow)
}

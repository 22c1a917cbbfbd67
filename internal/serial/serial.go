// Package serial provides the serial port of the Game Boy.
// No link partner is ever connected, so a transfer started
// with the internal clock completes immediately, shifting in
// 0xFF. The outgoing bytes can be captured, which is how
// test ROMs report their results.
package serial

import (
	"io"

	"github.com/thelolagemann/pocketboy/internal/interrupts"
	"github.com/thelolagemann/pocketboy/internal/types"
)

// Controller is the serial controller.
type Controller struct {
	data    uint8 // types.SB
	control uint8 // types.SC

	out io.Writer
	irq *interrupts.Service
}

// NewController creates a new Controller. Bytes shifted out
// are written to out, which may be nil.
func NewController(h *types.HardwareRegisters, irq *interrupts.Service, out io.Writer) *Controller {
	c := &Controller{
		irq: irq,
		out: out,
	}
	h.RegisterHardware(
		types.SB,
		func(v uint8) {
			c.data = v
		}, func() uint8 {
			return c.data
		},
	)
	h.RegisterHardware(
		types.SC,
		c.writeControl,
		func() uint8 {
			return c.control | 0x7E
		},
	)
	return c
}

func (c *Controller) writeControl(v uint8) {
	c.control = v & 0x81
	// only a master transfer completes without a partner
	if c.control != 0x81 {
		return
	}
	if c.out != nil {
		_, _ = c.out.Write([]byte{c.data})
	}
	c.data = 0xFF
	c.control &^= types.Bit7
	c.irq.Request(interrupts.SerialFlag)
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Load(s *types.State) {
	c.data = s.Read8()
	c.control = s.Read8()
}

func (c *Controller) Save(s *types.State) {
	s.Write8(c.data)
	s.Write8(c.control)
}

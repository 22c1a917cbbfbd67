package cartridge

import (
	"encoding/binary"
)

// rtcSaveSize is the size of the clock block appended to the
// RAM in battery saves: five live registers and five latched
// registers as 32-bit values, followed by a 64-bit timestamp.
const rtcSaveSize = 48

// Battery reports whether the cartridge keeps its RAM across
// power cycles.
func (c *Cartridge) Battery() bool {
	return c.header.CartridgeType.Battery()
}

// SaveSize returns the length of the data produced by SaveRAM.
func (c *Cartridge) SaveSize() int {
	if !c.Battery() {
		return 0
	}
	size := len(c.ram)
	if c.rtc() != nil {
		size += rtcSaveSize
	}
	return size
}

// SaveRAM returns the battery backed data of the cartridge,
// the raw RAM followed by the clock block when the cartridge
// has one. Cartridges without a battery return nil.
func (c *Cartridge) SaveRAM() []byte {
	if !c.Battery() {
		return nil
	}
	data := make([]byte, 0, c.SaveSize())
	data = append(data, c.ram...)

	if r := c.rtc(); r != nil {
		r.advance()
		for _, regs := range []rtcRegisters{r.live, r.latched} {
			for _, reg := range []uint8{RTCSeconds, RTCMinutes, RTCHours, RTCDayLow, RTCDayHigh} {
				data = binary.LittleEndian.AppendUint32(data, uint32(regs.read(reg)))
			}
		}
		data = binary.LittleEndian.AppendUint64(data, r.anchor/microsPerSecond)
	}
	return data
}

// LoadRAM restores data produced by SaveRAM. Missing data is
// left zeroed, and a clock without a stored timestamp starts
// from now.
func (c *Cartridge) LoadRAM(data []byte) {
	n := copy(c.ram, data)
	r := c.rtc()
	if r == nil {
		return
	}
	r.anchor = r.clock.Micros()

	block := data[n:]
	if len(block) < rtcSaveSize-8 {
		return
	}
	for i, regs := range []*rtcRegisters{&r.live, &r.latched} {
		v := func(j int) uint8 {
			return uint8(binary.LittleEndian.Uint32(block[(i*5+j)*4:]))
		}
		regs.seconds = v(0) & 0x3F
		regs.minutes = v(1) & 0x3F
		regs.hours = v(2) & 0x1F
		regs.days = uint16(v(3))
		regs.setDayHigh(v(4))
	}
	if len(block) >= rtcSaveSize {
		if anchor := binary.LittleEndian.Uint64(block[40:]); anchor != 0 {
			r.anchor = anchor * microsPerSecond
		}
	}
	r.latchedValid = false

	// apply the time that passed while powered off
	r.advance()
}

package cartridge

// mbc3 supports up to 2MiB of ROM, 32KiB of RAM and an
// optional real time clock.
//
//	0x0000-0x1FFF - RAM and RTC enable
//	0x2000-0x3FFF - ROM bank (7 bits, 0 maps to 1)
//	0x4000-0x5FFF - RAM bank (0x00-0x03) or RTC register (0x08-0x0C)
//	0x6000-0x7FFF - latch clock data (write 0x00 then 0x01)
type mbc3 struct {
	ramEnabled bool
	romBank    uint8
	ramBank    uint8

	rtcSelected bool
	rtcRegister uint8
	latchPrep   bool

	rtc *RTC
}

func (*mbc3) controller() {}

func (c *Cartridge) readMBC3(m *mbc3, address uint16) uint8 {
	switch {
	case address < 0x4000:
		return c.readROM(0, address)
	case address < 0x8000:
		return c.readROM(c.maskROMBank(uint32(m.romBank)), address)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.rtcSelected {
			if m.rtc == nil {
				return 0xFF
			}
			return m.rtc.Read(m.rtcRegister)
		}
		return c.readRAM(c.maskRAMBank(uint32(m.ramBank)), address)
	}
	return 0xFF
}

func (c *Cartridge) writeMBC3(m *mbc3, address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		// bank 0 is never mapped into the switchable window,
		// even when a larger bank number masks down to it
		bank := c.maskROMBank(uint32(value & 0x7F))
		if bank == 0 {
			bank = 1
		}
		m.romBank = uint8(bank)
	case address < 0x6000:
		switch {
		case value <= 0x03:
			m.ramBank = uint8(c.maskRAMBank(uint32(value)))
			m.rtcSelected = false
		case value >= 0x08 && value <= 0x0C:
			m.rtcRegister = value
			m.rtcSelected = true
		}
	case address < 0x8000:
		if m.latchPrep && value == 0x01 && m.rtc != nil {
			m.rtc.Latch()
		}
		m.latchPrep = value == 0x00
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return
		}
		if m.rtcSelected {
			if m.rtc != nil {
				m.rtc.Write(m.rtcRegister, value)
			}
			return
		}
		c.writeRAM(c.maskRAMBank(uint32(m.ramBank)), address, value)
	}
}

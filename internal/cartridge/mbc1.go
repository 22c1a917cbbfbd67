package cartridge

// mbc1 supports up to 2MiB of ROM and 32KiB of RAM.
//
//	0x0000-0x1FFF - RAM enable (0x0A in the low nibble)
//	0x2000-0x3FFF - ROM bank, lower 5 bits (0 maps to 1)
//	0x4000-0x5FFF - RAM bank, or upper 2 bits of the ROM bank
//	0x6000-0x7FFF - banking mode
type mbc1 struct {
	ramEnabled bool
	bank1      uint8 // 5 bits
	bank2      uint8 // 2 bits
	mode       uint8 // 1 applies bank2 to 0x0000-0x3FFF and RAM
}

func (*mbc1) controller() {}

func (c *Cartridge) readMBC1(m *mbc1, address uint16) uint8 {
	switch {
	case address < 0x4000:
		bank := uint32(0)
		if m.mode == 1 {
			bank = uint32(m.bank2) << 5
		}
		return c.readROM(c.maskROMBank(bank), address)
	case address < 0x8000:
		bank := uint32(m.bank2)<<5 | uint32(m.bank1)
		return c.readROM(c.maskROMBank(bank), address)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		return c.readRAM(c.mbc1RAMBank(m), address)
	}
	return 0xFF
}

func (c *Cartridge) writeMBC1(m *mbc1, address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = len(c.ram) > 0 && value&0x0F == 0x0A
	case address < 0x4000:
		m.bank1 = value & 0x1F
		if m.bank1 == 0 {
			m.bank1 = 1
		}
	case address < 0x6000:
		m.bank2 = value & 0x03
	case address < 0x8000:
		m.mode = value & 0x01
	case address >= 0xA000 && address < 0xC000:
		if m.ramEnabled {
			c.writeRAM(c.mbc1RAMBank(m), address, value)
		}
	}
}

func (c *Cartridge) mbc1RAMBank(m *mbc1) uint32 {
	if m.mode == 0 {
		return 0
	}
	return c.maskRAMBank(uint32(m.bank2))
}

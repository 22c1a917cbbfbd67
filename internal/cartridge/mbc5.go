package cartridge

// mbc5 supports up to 8MiB of ROM and 128KiB of RAM. Unlike
// the other controllers, ROM bank 0 can be mapped into
// 0x4000-0x7FFF.
//
//	0x0000-0x1FFF - RAM enable
//	0x2000-0x2FFF - ROM bank, lower 8 bits
//	0x3000-0x3FFF - ROM bank, bit 8
//	0x4000-0x5FFF - RAM bank (4 bits)
type mbc5 struct {
	ramEnabled bool
	romBank    uint16
	ramBank    uint8
}

func (*mbc5) controller() {}

func (c *Cartridge) readMBC5(m *mbc5, address uint16) uint8 {
	switch {
	case address < 0x4000:
		return c.readROM(0, address)
	case address < 0x8000:
		return c.readROM(c.maskROMBank(uint32(m.romBank)), address)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		return c.readRAM(c.maskRAMBank(uint32(m.ramBank)), address)
	}
	return 0xFF
}

func (c *Cartridge) writeMBC5(m *mbc5, address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnabled = len(c.ram) > 0 && value&0x0F == 0x0A
	case address < 0x3000:
		m.romBank = m.romBank&0x100 | uint16(value)
	case address < 0x4000:
		m.romBank = m.romBank&0xFF | uint16(value&0x01)<<8
	case address < 0x6000:
		m.ramBank = value & 0x0F
	case address >= 0xA000 && address < 0xC000:
		if m.ramEnabled {
			c.writeRAM(c.maskRAMBank(uint32(m.ramBank)), address, value)
		}
	}
}

package cartridge

// mbc2RAMSize is the size of the built-in RAM, which stores
// one nibble per byte.
const mbc2RAMSize = 512

// mbc2 supports up to 256KiB of ROM and has 512x4 bits of
// built-in RAM. Bit 8 of the address selects between the
// two registers in 0x0000-0x3FFF.
type mbc2 struct {
	ramEnabled bool
	romBank    uint8
}

func (*mbc2) controller() {}

func (c *Cartridge) readMBC2(m *mbc2, address uint16) uint8 {
	switch {
	case address < 0x4000:
		return c.readROM(0, address)
	case address < 0x8000:
		return c.readROM(c.maskROMBank(uint32(m.romBank)), address)
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		// the RAM is echoed, and the upper nibble is open
		return c.ram[address&0x01FF] | 0xF0
	}
	return 0xFF
}

func (c *Cartridge) writeMBC2(m *mbc2, address uint16, value uint8) {
	switch {
	case address < 0x4000:
		if address&0x0100 != 0 {
			m.romBank = value & 0x0F
			if m.romBank == 0 {
				m.romBank = 1
			}
		} else {
			m.ramEnabled = value&0x0F == 0x0A
		}
	case address >= 0xA000 && address < 0xC000:
		if m.ramEnabled {
			c.ram[address&0x01FF] = value & 0x0F
		}
	}
}

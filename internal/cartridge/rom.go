package cartridge

// noMBC is the simplest controller, mapping 32KiB of ROM
// and at most 8KiB of RAM with no banking.
type noMBC struct{}

func (*noMBC) controller() {}

func (c *Cartridge) readNoMBC(address uint16) uint8 {
	switch {
	case address < 0x8000:
		return c.readROM(uint32(address>>14), address)
	case address >= 0xA000 && address < 0xC000:
		return c.readRAM(0, address)
	}
	return 0xFF
}

func (c *Cartridge) writeNoMBC(address uint16, value uint8) {
	if address >= 0xA000 && address < 0xC000 {
		c.writeRAM(0, address, value)
	}
}

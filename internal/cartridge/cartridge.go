// Package cartridge provides the game cartridge, holding the
// game ROM, any external RAM, and the memory bank controller
// that maps them into the address space.
package cartridge

import (
	"github.com/thelolagemann/pocketboy/internal/types"
	"github.com/thelolagemann/pocketboy/pkg/log"
	"github.com/thelolagemann/pocketboy/pkg/platform"
)

// controller is one of the memory bank controllers. The set
// is closed, Cartridge dispatches on the concrete type.
type controller interface {
	controller()
}

// Cartridge represents a game cartridge.
type Cartridge struct {
	header Header
	rom    platform.ROMSource
	ram    []byte

	// romBanks and ramBanks are the bank counts declared by
	// the header, used to mask the selected banks.
	romBanks uint32
	ramBanks uint32

	mbc   controller
	clock platform.Clock
	log   log.Logger
}

// Opt configures a Cartridge.
type Opt func(*Cartridge)

// WithClock sets the clock driving the real time clock.
func WithClock(clock platform.Clock) Opt {
	return func(c *Cartridge) {
		c.clock = clock
	}
}

// WithLogger sets the logger of the cartridge.
func WithLogger(l log.Logger) Opt {
	return func(c *Cartridge) {
		c.log = l
	}
}

// New returns a new Cartridge for the given ROM, which must
// hold at least the header (0x150 bytes). The controller is
// chosen by the header's cartridge type.
func New(rom platform.ROMSource, opts ...Opt) *Cartridge {
	raw := make([]byte, 0x50)
	for i := range raw {
		raw[i] = rom.ReadByteAt(uint32(0x100 + i))
	}

	c := &Cartridge{
		header: parseHeader(raw),
		rom:    rom,
		clock:  platform.SystemClock{},
		log:    log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	// an invalid size byte falls back to the image size
	size := c.header.ROMSize
	if size == 0 {
		size = rom.Size()
	}
	c.romBanks = size / 0x4000
	if c.romBanks < 2 {
		c.romBanks = 2
	}

	ramSize := c.header.RAMSize
	switch c.header.CartridgeType {
	case ROM:
		c.mbc = &noMBC{}
		ramSize = 0
	case ROMRAM, ROMRAMBATT:
		c.mbc = &noMBC{}
	case MBC1, MBC1RAM, MBC1RAMBATT:
		c.mbc = &mbc1{bank1: 1}
	case MBC2, MBC2BATT:
		c.mbc = &mbc2{romBank: 1}
		ramSize = mbc2RAMSize
	case MBC3, MBC3RAM, MBC3RAMBATT, MBC3TIMERBATT, MBC3TIMERRAMBATT:
		m := &mbc3{romBank: 1}
		if c.header.CartridgeType.Timer() {
			m.rtc = newRTC(c.clock)
		}
		c.mbc = m
	case MBC5, MBC5RAM, MBC5RAMBATT, MBC5RUMBLE, MBC5RUMBLERAM, MBC5RUMBLERAMBATT:
		c.mbc = &mbc5{romBank: 1}
	default:
		c.log.Warnf("cartridge type 0x%02X is not supported, falling back to ROM only", uint8(c.header.CartridgeType))
		c.mbc = &noMBC{}
		ramSize = 0
	}

	c.ram = make([]byte, ramSize)
	c.ramBanks = ramSize / 0x2000

	c.log.Infof("cartridge: %s", c.header.String())
	if !c.header.Valid() {
		c.log.Warnf("cartridge header checksum mismatch: expected 0x%02X, got 0x%02X", c.header.HeaderChecksum, c.header.Checksum())
	}

	return c
}

// Header returns the parsed cartridge header.
func (c *Cartridge) Header() Header {
	return c.header
}

// Title returns the cartridge title.
func (c *Cartridge) Title() string {
	return c.header.Title
}

// Read returns the value at the given address, in either
// the ROM (0x0000-0x7FFF) or RAM (0xA000-0xBFFF) window.
func (c *Cartridge) Read(address uint16) uint8 {
	switch m := c.mbc.(type) {
	case *noMBC:
		return c.readNoMBC(address)
	case *mbc1:
		return c.readMBC1(m, address)
	case *mbc2:
		return c.readMBC2(m, address)
	case *mbc3:
		return c.readMBC3(m, address)
	case *mbc5:
		return c.readMBC5(m, address)
	}
	return 0xFF
}

// Write writes the value to the given address, either
// updating a controller register or the external RAM.
func (c *Cartridge) Write(address uint16, value uint8) {
	switch m := c.mbc.(type) {
	case *noMBC:
		c.writeNoMBC(address, value)
	case *mbc1:
		c.writeMBC1(m, address, value)
	case *mbc2:
		c.writeMBC2(m, address, value)
	case *mbc3:
		c.writeMBC3(m, address, value)
	case *mbc5:
		c.writeMBC5(m, address, value)
	}
}

// readROM reads the ROM at the given bank and offset within
// the bank. Reads past the image return 0xFF.
func (c *Cartridge) readROM(bank uint32, address uint16) uint8 {
	offset := bank*0x4000 + uint32(address&0x3FFF)
	if offset >= c.rom.Size() {
		return 0xFF
	}
	return c.rom.ReadByteAt(offset)
}

// ramOffset returns the offset into RAM for the given bank
// and address, and whether it is in range.
func (c *Cartridge) ramOffset(bank uint32, address uint16) (uint32, bool) {
	offset := bank*0x2000 + uint32(address&0x1FFF)
	return offset, offset < uint32(len(c.ram))
}

func (c *Cartridge) readRAM(bank uint32, address uint16) uint8 {
	if offset, ok := c.ramOffset(bank, address); ok {
		return c.ram[offset]
	}
	return 0xFF
}

func (c *Cartridge) writeRAM(bank uint32, address uint16, value uint8) {
	if offset, ok := c.ramOffset(bank, address); ok {
		c.ram[offset] = value
	}
}

// maskROMBank masks bank to the number of ROM banks.
func (c *Cartridge) maskROMBank(bank uint32) uint32 {
	return bank & (c.romBanks - 1)
}

// maskRAMBank masks bank to the number of RAM banks.
func (c *Cartridge) maskRAMBank(bank uint32) uint32 {
	if c.ramBanks <= 1 {
		return 0
	}
	return bank & (c.ramBanks - 1)
}

// rtc returns the real time clock of the cartridge, or nil.
func (c *Cartridge) rtc() *RTC {
	if m, ok := c.mbc.(*mbc3); ok {
		return m.rtc
	}
	return nil
}

var _ types.Stater = (*Cartridge)(nil)

// Load implements the types.Stater interface.
func (c *Cartridge) Load(s *types.State) {
	s.ReadData(c.ram)
	switch m := c.mbc.(type) {
	case *mbc1:
		m.ramEnabled = s.ReadBool()
		m.bank1 = s.Read8()
		m.bank2 = s.Read8()
		m.mode = s.Read8()
	case *mbc2:
		m.ramEnabled = s.ReadBool()
		m.romBank = s.Read8()
	case *mbc3:
		m.ramEnabled = s.ReadBool()
		m.romBank = s.Read8()
		m.ramBank = s.Read8()
		m.rtcSelected = s.ReadBool()
		m.rtcRegister = s.Read8()
		m.latchPrep = s.ReadBool()
		if m.rtc != nil {
			m.rtc.Load(s)
		}
	case *mbc5:
		m.ramEnabled = s.ReadBool()
		m.romBank = s.Read16()
		m.ramBank = s.Read8()
	}
}

// Save implements the types.Stater interface.
func (c *Cartridge) Save(s *types.State) {
	s.WriteData(c.ram)
	switch m := c.mbc.(type) {
	case *mbc1:
		s.WriteBool(m.ramEnabled)
		s.Write8(m.bank1)
		s.Write8(m.bank2)
		s.Write8(m.mode)
	case *mbc2:
		s.WriteBool(m.ramEnabled)
		s.Write8(m.romBank)
	case *mbc3:
		s.WriteBool(m.ramEnabled)
		s.Write8(m.romBank)
		s.Write8(m.ramBank)
		s.WriteBool(m.rtcSelected)
		s.Write8(m.rtcRegister)
		s.WriteBool(m.latchPrep)
		if m.rtc != nil {
			m.rtc.Save(s)
		}
	case *mbc5:
		s.WriteBool(m.ramEnabled)
		s.Write16(m.romBank)
		s.Write8(m.ramBank)
	}
}

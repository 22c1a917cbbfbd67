// Package mmu provides a memory management unit for the Game Boy. The
// MMU is unaware of the other components, and delegates every access
// outside of its own RAM through the Video interface, the cartridge or
// the hardware register table.
package mmu

import (
	"github.com/thelolagemann/pocketboy/internal/boot"
	"github.com/thelolagemann/pocketboy/internal/cartridge"
	"github.com/thelolagemann/pocketboy/internal/ram"
	"github.com/thelolagemann/pocketboy/internal/types"
	"github.com/thelolagemann/pocketboy/pkg/log"
)

// Video is the interface that the MMU uses to reach VRAM
// (0x8000-0x9FFF) and OAM (0xFE00-0xFE9F).
type Video interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Patcher rewrites bytes read from cartridge ROM, as a Game
// Genie does.
type Patcher interface {
	Patch(address uint16, value uint8) uint8
}

// region handles the reads and writes to a 256 byte page of
// the address space.
type region struct {
	read  func(address uint16) uint8
	write func(address uint16, value uint8)
}

// MMU is the memory management unit for the Game Boy. It handles all
// memory reads and writes to the Game Boy's 64kB of memory.
type MMU struct {
	// 64kB address space, one region per page
	pages [0x100]*region

	// 0x0000 - 0x00FF - BOOT ROM (256B)
	bootROM     *boot.ROM
	bootROMDone bool

	// 0x0000 - 0x7FFF - ROM (32kB)
	// 0xA000 - 0xBFFF - External RAM (8kB)
	Cart *cartridge.Cartridge

	// 0x8000 - 0x9FFF - Video RAM (8kB)
	// 0xFE00 - 0xFE9F - Sprite Attribute Table (160B)
	Video Video

	// 0xC000 - 0xDFFF - Work RAM (8kB)
	// 0xE000 - 0xFDFF - Echo RAM (7.5kB)
	wRAM *ram.RAM

	// 0xFF00 - 0xFF7F - I/O Registers
	// (0xFFFF) - interrupt enable register
	registers *types.HardwareRegisters

	patcher Patcher

	// 0xFF80 - 0xFFFE - Zero Page RAM (127B)
	zRAM *ram.RAM

	log log.Logger
}

// Opt configures an MMU.
type Opt func(*MMU)

// WithBootROM maps the boot ROM over the cartridge until it
// is unmapped through types.BDIS.
func WithBootROM(rom *boot.ROM) Opt {
	return func(m *MMU) {
		m.bootROM = rom
	}
}

// WithPatcher passes every cartridge ROM read through p.
func WithPatcher(p Patcher) Opt {
	return func(m *MMU) {
		m.patcher = p
	}
}

// WithLogger sets the logger of the MMU.
func WithLogger(l log.Logger) Opt {
	return func(m *MMU) {
		m.log = l
	}
}

// NewMMU returns a new MMU.
func NewMMU(h *types.HardwareRegisters, cart *cartridge.Cartridge, video Video, opts ...Opt) *MMU {
	m := &MMU{
		Cart:      cart,
		Video:     video,
		wRAM:      ram.NewRAM(0x2000),
		zRAM:      ram.NewRAM(0x7F),
		registers: h,
		log:       log.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.init()

	return m
}

func (m *MMU) init() {
	// setup registers
	m.registers.RegisterHardware(
		types.BDIS,
		func(v uint8) {
			if v != 0 && !m.bootROMDone {
				m.bootROMDone = true
				m.log.Debugf("boot rom unmapped")
			}
		}, types.NoRead)

	overlay := &region{read: m.readCart, write: m.Cart.Write}
	rom := &region{read: m.readROM, write: m.Cart.Write}
	cart := &region{read: m.Cart.Read, write: m.Cart.Write}
	video := &region{read: m.Video.Read, write: m.Video.Write}
	wram := &region{
		read: func(address uint16) uint8 {
			return m.wRAM.Read(address & 0x1FFF)
		},
		write: func(address uint16, value uint8) {
			m.wRAM.Write(address&0x1FFF, value)
		},
	}

	// 0x0000 - 0x7FFF - ROM (32kB)
	m.pages[0x00] = overlay
	for i := 0x01; i < 0x80; i++ {
		m.pages[i] = rom
	}

	// 0x8000 - 0x9FFF - VRAM (8kB)
	for i := 0x80; i < 0xA0; i++ {
		m.pages[i] = video
	}

	// 0xA000 - 0xBFFF - external RAM (8kB)
	for i := 0xA0; i < 0xC0; i++ {
		m.pages[i] = cart
	}

	// 0xC000 - 0xDFFF - internal RAM (8kB)
	// 0xE000 - 0xFDFF - echo of internal RAM
	for i := 0xC0; i < 0xFE; i++ {
		m.pages[i] = wram
	}

	// 0xFE00 - 0xFE9F - sprite attribute table (OAM) (160B)
	// 0xFEA0 - 0xFEFF - unusable memory (96B)
	m.pages[0xFE] = &region{
		read: func(address uint16) uint8 {
			if address < 0xFEA0 {
				return m.Video.Read(address)
			}
			return 0xFF
		},
		write: func(address uint16, value uint8) {
			if address < 0xFEA0 {
				m.Video.Write(address, value)
			}
		},
	}

	// 0xFF00 - 0xFF7F - I/O (128B)
	// 0xFF80 - 0xFFFE - Zero Page RAM (127B)
	// 0xFFFF - interrupt enable register
	m.pages[0xFF] = &region{read: m.readHigh, write: m.writeHigh}
}

func (m *MMU) readCart(address uint16) uint8 {
	// handle the boot ROM (if enabled)
	if m.bootROM != nil && !m.bootROMDone {
		return m.bootROM.Read(address)
	}

	return m.readROM(address)
}

func (m *MMU) readROM(address uint16) uint8 {
	if m.patcher != nil {
		return m.patcher.Patch(address, m.Cart.Read(address))
	}
	return m.Cart.Read(address)
}

func (m *MMU) readHigh(address uint16) uint8 {
	if address >= 0xFF80 && address < 0xFFFF {
		return m.zRAM.Read(address - 0xFF80)
	}
	return m.registers.Read(address)
}

func (m *MMU) writeHigh(address uint16, value uint8) {
	if address >= 0xFF80 && address < 0xFFFF {
		m.zRAM.Write(address-0xFF80, value)
		return
	}
	m.registers.Write(address, value)
}

// BootROMMapped returns true while the boot ROM is mapped
// over the cartridge.
func (m *MMU) BootROMMapped() bool {
	return m.bootROM != nil && !m.bootROMDone
}

// Read returns the value at the given address. It handles all the memory
// banks, mirroring, I/O, etc.
func (m *MMU) Read(address uint16) uint8 {
	return m.pages[address>>8].read(address)
}

// Write writes the value to the given address.
func (m *MMU) Write(address uint16, value uint8) {
	m.pages[address>>8].write(address, value)
}

var _ types.Stater = (*MMU)(nil)

// Load implements the types.Stater interface.
func (m *MMU) Load(s *types.State) {
	m.bootROMDone = s.ReadBool()
	m.wRAM.Load(s)
	m.zRAM.Load(s)
}

// Save implements the types.Stater interface.
func (m *MMU) Save(s *types.State) {
	s.WriteBool(m.bootROMDone)
	m.wRAM.Save(s)
	m.zRAM.Save(s)
}

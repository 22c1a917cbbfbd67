// Package ppu implements the pixel processing unit, rendering the
// background, window and sprites one scanline at a time.
package ppu

import (
	"sort"

	"github.com/thelolagemann/pocketboy/internal/interrupts"
	"github.com/thelolagemann/pocketboy/internal/ppu/lcd"
	"github.com/thelolagemann/pocketboy/internal/ppu/palette"
	"github.com/thelolagemann/pocketboy/internal/types"
)

const (
	// ScreenWidth is the width of the screen in pixels.
	ScreenWidth = 160
	// ScreenHeight is the height of the screen in pixels.
	ScreenHeight = 144

	// maxSpritesPerLine is the number of sprites the OAM scan
	// selects for a single line.
	maxSpritesPerLine = 10
	// lastLine is the last line of VBlank.
	lastLine = 153
)

// Frame is a completed screen of RGB pixels.
type Frame [ScreenHeight][ScreenWidth][3]uint8

// PPU implements the Game Boy's (P)ixel (P)rocessing (U)nit.
//
// References:
//   - [Pan Docs](https://gbdev.io/pandocs/Graphics.html)
//   - [Hacktix GBEDG](https://hacktix.github.io/GBEDG/ppu/)
type PPU struct {
	*lcd.Controller
	*lcd.Status

	// Rendering state
	ly        uint8  // Current line (0-153)
	modeClock uint32 // Cycles spent in the current mode
	wly       uint8  // Window line counter

	// Scroll registers
	scy, scx uint8 // Background viewport position
	wy, wx   uint8 // Window Position
	lyc      uint8

	// Palette registers
	bgp, obp0, obp1 uint8

	statLines [4]bool // Previous levels of the STAT sources

	vRAM [0x2000]uint8
	oam  *OAM

	// scratch for the current line
	lineSprites []*Sprite
	bgIndex     [ScreenWidth]uint8

	palette    palette.Palette
	frame      Frame
	frameReady bool

	irq *interrupts.Service
}

// Opt configures a PPU.
type Opt func(*PPU)

// WithPalette selects the palette used to colour frames.
func WithPalette(id palette.ID) Opt {
	return func(p *PPU) {
		p.palette = palette.Get(id)
	}
}

// New creates and initializes a PPU instance ready to be used.
func New(h *types.HardwareRegisters, irq *interrupts.Service, opts ...Opt) *PPU {
	p := &PPU{
		Controller:  lcd.NewController(),
		Status:      lcd.NewStatus(),
		oam:         NewOAM(),
		lineSprites: make([]*Sprite, 0, maxSpritesPerLine),
		palette:     palette.Get(palette.Greyscale),
		bgp:         0xFC,
		irq:         irq,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.Mode = lcd.OAM
	p.updateCoincidence()

	h.RegisterHardware(types.LCDC, p.writeLCDC, p.Controller.Read)
	h.RegisterHardware(types.STAT, func(v uint8) {
		p.Status.Write(v)
		p.checkStat()
	}, p.Status.Read)
	h.RegisterHardware(types.SCY, func(v uint8) { p.scy = v }, func() uint8 { return p.scy })
	h.RegisterHardware(types.SCX, func(v uint8) { p.scx = v }, func() uint8 { return p.scx })
	h.RegisterHardware(types.LY, types.NoWrite, func() uint8 { return p.ly })
	h.RegisterHardware(types.LYC, func(v uint8) {
		p.lyc = v
		p.updateCoincidence()
		p.checkStat()
	}, func() uint8 { return p.lyc })
	h.RegisterHardware(types.BGP, func(v uint8) { p.bgp = v }, func() uint8 { return p.bgp })
	h.RegisterHardware(types.OBP0, func(v uint8) { p.obp0 = v }, func() uint8 { return p.obp0 })
	h.RegisterHardware(types.OBP1, func(v uint8) { p.obp1 = v }, func() uint8 { return p.obp1 })
	h.RegisterHardware(types.WY, func(v uint8) { p.wy = v }, func() uint8 { return p.wy })
	h.RegisterHardware(types.WX, func(v uint8) { p.wx = v }, func() uint8 { return p.wx })

	return p
}

func (p *PPU) writeLCDC(v uint8) {
	wasEnabled := p.Enabled
	p.Controller.Write(v)

	switch {
	case wasEnabled && !p.Enabled:
		// the screen keeps its last frame while off
		p.ly = 0
		p.modeClock = 0
		p.Mode = lcd.HBlank
		p.updateCoincidence()
	case !wasEnabled && p.Enabled:
		p.modeClock = 0
		p.Mode = lcd.OAM
		p.updateCoincidence()
		p.checkStat()
	}
}

// SetPalette changes the palette used to colour frames.
func (p *PPU) SetPalette(id palette.ID) {
	p.palette = palette.Get(id)
}

// OAM returns the sprite attribute table, for DMA transfers.
func (p *PPU) OAM() *OAM {
	return p.oam
}

// LY returns the current line.
func (p *PPU) LY() uint8 {
	return p.ly
}

// Frame returns the last rendered frame.
func (p *PPU) Frame() *Frame {
	return &p.frame
}

// FrameReady reports whether the PPU entered VBlank since the
// last call.
func (p *PPU) FrameReady() bool {
	ready := p.frameReady
	p.frameReady = false
	return ready
}

// oamLocked returns true while the OAM scan and pixel transfer
// hold the OAM bus.
func (p *PPU) oamLocked() bool {
	return p.Enabled && (p.Mode == lcd.OAM || p.Mode == lcd.VRAM)
}

// Read returns the value of VRAM (0x8000-0x9FFF) or OAM
// (0xFE00-0xFE9F) at the given address.
func (p *PPU) Read(address uint16) uint8 {
	if address >= 0xFE00 {
		if p.oamLocked() {
			return 0xFF
		}
		return p.oam.Read(address - 0xFE00)
	}
	return p.vRAM[address&0x1FFF]
}

// Write writes the value to VRAM or OAM.
func (p *PPU) Write(address uint16, value uint8) {
	if address >= 0xFE00 {
		if !p.oamLocked() {
			p.oam.Write(address-0xFE00, value)
		}
		return
	}
	p.vRAM[address&0x1FFF] = value
}

// Tick advances the PPU by the given number of cycles.
func (p *PPU) Tick(cycles uint16) {
	if !p.Enabled {
		return
	}

	p.modeClock += uint32(cycles)
	for p.modeClock >= p.Mode.Budget() {
		p.modeClock -= p.Mode.Budget()

		switch p.Mode {
		case lcd.OAM:
			p.scanOAM()
			p.Mode = lcd.VRAM
		case lcd.VRAM:
			p.renderScanline()
			p.Mode = lcd.HBlank
		case lcd.HBlank:
			p.lineSprites = p.lineSprites[:0]
			p.ly++
			if p.ly == ScreenHeight {
				p.Mode = lcd.VBlank
				p.irq.Request(interrupts.VBlankFlag)
				p.frameReady = true
			} else {
				p.Mode = lcd.OAM
			}
		case lcd.VBlank:
			p.ly++
			if p.ly > lastLine {
				p.ly = 0
				p.wly = 0
				p.Mode = lcd.OAM
			}
		}

		p.updateCoincidence()
		p.checkStat()
	}
}

func (p *PPU) updateCoincidence() {
	p.Coincidence = p.ly == p.lyc
}

// checkStat requests the STAT interrupt for every source
// that went from low to high.
func (p *PPU) checkStat() {
	lines := p.Status.Lines()
	if !p.Enabled {
		lines = [4]bool{}
	}
	for i, line := range lines {
		if line && !p.statLines[i] {
			p.irq.Request(interrupts.LCDFlag)
		}
	}
	p.statLines = lines
}

// scanOAM selects up to 10 sprites covering the current line in
// OAM order, and sorts them by X with the OAM index as the
// tie break.
func (p *PPU) scanOAM() {
	p.lineSprites = p.lineSprites[:0]
	for i := range p.oam.Sprites {
		s := &p.oam.Sprites[i]
		if s.onLine(p.ly, p.SpriteSize) {
			p.lineSprites = append(p.lineSprites, s)
			if len(p.lineSprites) == maxSpritesPerLine {
				break
			}
		}
	}
	sort.SliceStable(p.lineSprites, func(i, j int) bool {
		a, b := p.lineSprites[i], p.lineSprites[j]
		if a.X != b.X {
			return a.X < b.X
		}
		return a.index < b.index
	})
}

var _ types.Stater = (*PPU)(nil)

// Load implements the types.Stater interface.
func (p *PPU) Load(s *types.State) {
	p.Controller.Write(s.Read8())
	p.Status.Write(s.Read8())
	p.Mode = lcd.Mode(s.Read8() & 0x03)
	p.ly = s.Read8()
	p.modeClock = s.Read32()
	p.wly = s.Read8()
	p.scy = s.Read8()
	p.scx = s.Read8()
	p.wy = s.Read8()
	p.wx = s.Read8()
	p.lyc = s.Read8()
	p.bgp = s.Read8()
	p.obp0 = s.Read8()
	p.obp1 = s.Read8()
	for i := range p.statLines {
		p.statLines[i] = s.ReadBool()
	}
	s.ReadData(p.vRAM[:])
	for i := uint16(0); i < 0xA0; i++ {
		p.oam.Write(i, s.Read8())
	}
	p.updateCoincidence()
	p.lineSprites = p.lineSprites[:0]
	if p.Mode == lcd.VRAM {
		p.scanOAM()
	}
}

// Save implements the types.Stater interface.
func (p *PPU) Save(s *types.State) {
	s.Write8(p.Controller.Read())
	s.Write8(p.Status.Read())
	s.Write8(uint8(p.Mode))
	s.Write8(p.ly)
	s.Write32(p.modeClock)
	s.Write8(p.wly)
	s.Write8(p.scy)
	s.Write8(p.scx)
	s.Write8(p.wy)
	s.Write8(p.wx)
	s.Write8(p.lyc)
	s.Write8(p.bgp)
	s.Write8(p.obp0)
	s.Write8(p.obp1)
	for _, line := range p.statLines {
		s.WriteBool(line)
	}
	s.WriteData(p.vRAM[:])
	for i := uint16(0); i < 0xA0; i++ {
		s.Write8(p.oam.Read(i))
	}
}

package ppu

import (
	"testing"

	"github.com/thelolagemann/pocketboy/internal/interrupts"
	"github.com/thelolagemann/pocketboy/internal/ppu/lcd"
	"github.com/thelolagemann/pocketboy/internal/ppu/palette"
	"github.com/thelolagemann/pocketboy/internal/types"
)

var (
	white = palette.Palettes[palette.Greyscale].Colors[0]
	black = palette.Palettes[palette.Greyscale].Colors[3]
)

func newTestPPU(t *testing.T) (*PPU, *types.HardwareRegisters, *interrupts.Service) {
	t.Helper()
	h := types.NewHardwareRegisters()
	irq := interrupts.NewService(h)
	p := New(h, irq)
	// identity palettes
	h.Write(types.BGP, 0xE4)
	h.Write(types.OBP0, 0xE4)
	h.Write(types.OBP1, 0x1B)
	return p, h, irq
}

// runLine ticks the PPU through a whole line.
func runLine(p *PPU) {
	for i := 0; i < 456/4; i++ {
		p.Tick(4)
	}
}

// fillTile sets every pixel of a tile to the given colour index.
func fillTile(p *PPU, address uint16, colour uint8) {
	var lo, hi uint8
	if colour&1 != 0 {
		lo = 0xFF
	}
	if colour&2 != 0 {
		hi = 0xFF
	}
	for row := uint16(0); row < 8; row++ {
		p.Write(address+row*2, lo)
		p.Write(address+row*2+1, hi)
	}
}

func setSprite(p *PPU, index int, y, x, tile, attr uint8) {
	base := uint16(index * 4)
	p.oam.Write(base, y)
	p.oam.Write(base+1, x)
	p.oam.Write(base+2, tile)
	p.oam.Write(base+3, attr)
}

func TestPPU_ModeTimings(t *testing.T) {
	p, _, _ := newTestPPU(t)

	steps := []struct {
		cycles uint16
		mode   lcd.Mode
	}{
		{80, lcd.VRAM},
		{172, lcd.HBlank},
		{204, lcd.OAM},
	}
	for _, s := range steps {
		p.Tick(s.cycles)
		if p.Mode != s.mode {
			t.Fatalf("expected %s, got %s", s.mode, p.Mode)
		}
	}
	if p.LY() != 1 {
		t.Errorf("expected LY 1, got %d", p.LY())
	}
}

func TestPPU_Frame(t *testing.T) {
	p, _, irq := newTestPPU(t)

	for i := 0; i < 144; i++ {
		if p.FrameReady() {
			t.Fatalf("frame ready early on line %d", i)
		}
		runLine(p)
	}
	if p.Mode != lcd.VBlank {
		t.Fatalf("expected VBlank, got %s", p.Mode)
	}
	if !p.FrameReady() {
		t.Error("expected a frame once VBlank is entered")
	}
	if p.FrameReady() {
		t.Error("expected FrameReady to clear")
	}
	if irq.Flag&interrupts.VBlankFlag == 0 {
		t.Error("expected VBlank interrupt")
	}

	for i := 0; i < 10; i++ {
		runLine(p)
	}
	if p.LY() != 0 || p.Mode != lcd.OAM {
		t.Errorf("expected a new frame at LY 0, got LY %d in %s", p.LY(), p.Mode)
	}
}

func TestPPU_BlankLine(t *testing.T) {
	p, h, _ := newTestPPU(t)

	// tile 0 is solid colour 3, but the background is off
	fillTile(p, 0x8000, 3)
	h.Write(types.LCDC, 0x90)
	runLine(p)
	for x, c := range p.Frame()[0] {
		if c != white {
			t.Fatalf("pixel %d: expected white, got %v", x, c)
		}
	}

	h.Write(types.LCDC, 0x91)
	runLine(p)
	if c := p.Frame()[1][0]; c != black {
		t.Errorf("expected black with the background on, got %v", c)
	}
}

func TestPPU_SignedTileData(t *testing.T) {
	p, h, _ := newTestPPU(t)

	// tile 0x80 in signed mode lives at 0x8800, tile 0 at 0x9000
	fillTile(p, 0x9000, 1)
	fillTile(p, 0x8800, 2)
	p.Write(0x9801, 0x80)
	h.Write(types.LCDC, 0x81)
	runLine(p)

	shades := palette.Palettes[palette.Greyscale].Colors
	if c := p.Frame()[0][0]; c != shades[1] {
		t.Errorf("expected shade 1 from 0x9000, got %v", c)
	}
	if c := p.Frame()[0][8]; c != shades[2] {
		t.Errorf("expected shade 2 from 0x8800, got %v", c)
	}
}

func TestPPU_Window(t *testing.T) {
	p, h, _ := newTestPPU(t)

	fillTile(p, 0x8010, 3)
	for i := uint16(0); i < 0x400; i++ {
		p.Write(0x9C00+i, 0x01)
	}
	h.Write(types.WX, 7+80)
	h.Write(types.WY, 2)
	h.Write(types.LCDC, 0xF1) // window on, map 0x9C00

	for i := 0; i < 3; i++ {
		runLine(p)
	}
	frame := p.Frame()
	if c := frame[1][100]; c != white {
		t.Errorf("expected no window above WY, got %v", c)
	}
	if c := frame[2][79]; c != white {
		t.Errorf("expected background left of WX, got %v", c)
	}
	if c := frame[2][80]; c != black {
		t.Errorf("expected window from WX-7, got %v", c)
	}
	if p.wly != 1 {
		t.Errorf("expected window line 1, got %d", p.wly)
	}

	// out of range positions disable the window
	h.Write(types.WX, 167)
	runLine(p)
	if p.wly != 1 {
		t.Errorf("expected window line to hold, got %d", p.wly)
	}
}

func TestPPU_SpritePriority(t *testing.T) {
	p, h, _ := newTestPPU(t)
	shades := palette.Palettes[palette.Greyscale].Colors

	fillTile(p, 0x8010, 1) // background tile
	fillTile(p, 0x8020, 3) // sprite tile
	for x := uint16(0); x < 2; x++ {
		p.Write(0x9800+x, 0x01)
	}
	h.Write(types.LCDC, 0x93)

	// sprite over a non-zero background at x 0..7, behind it
	setSprite(p, 0, 16, 8, 2, 0x80)
	// sprite in front at x 16..23 over colour 0
	setSprite(p, 1, 16, 24, 2, 0x80)
	// second palette at 32..39
	setSprite(p, 2, 16, 40, 2, 0x10)

	runLine(p)
	line := p.Frame()[0]
	if line[0] != shades[1] {
		t.Errorf("expected background over a behind sprite, got %v", line[0])
	}
	if line[16] != black {
		t.Errorf("expected sprite over background colour 0, got %v", line[16])
	}
	if line[32] != white {
		t.Errorf("expected OBP1 to map colour 3 to white, got %v", line[32])
	}
}

func TestPPU_SpriteOrder(t *testing.T) {
	p, h, _ := newTestPPU(t)
	shades := palette.Palettes[palette.Greyscale].Colors

	fillTile(p, 0x8010, 1)
	fillTile(p, 0x8020, 2)
	h.Write(types.LCDC, 0x92)

	// the lower X wins even with a higher OAM index
	setSprite(p, 0, 16, 12, 1, 0)
	setSprite(p, 1, 16, 10, 2, 0)
	// equal X, the lower OAM index wins
	setSprite(p, 2, 16, 60, 2, 0)
	setSprite(p, 3, 16, 60, 1, 0)

	runLine(p)
	line := p.Frame()[0]
	if line[4] != shades[2] {
		t.Errorf("expected lower X sprite on top, got %v", line[4])
	}
	if line[52] != shades[2] {
		t.Errorf("expected lower OAM index on top, got %v", line[52])
	}
}

func TestPPU_SpriteLimit(t *testing.T) {
	p, h, _ := newTestPPU(t)

	fillTile(p, 0x8010, 3)
	h.Write(types.LCDC, 0x92)
	for i := 0; i < 12; i++ {
		setSprite(p, i, 16, uint8(8+i*8), 1, 0)
	}
	runLine(p)

	line := p.Frame()[0]
	for i := 0; i < 12; i++ {
		want := black
		if i >= 10 {
			want = white
		}
		if c := line[i*8]; c != want {
			t.Errorf("sprite %d: expected %v, got %v", i, want, c)
		}
	}
}

func TestPPU_SpriteVisibility(t *testing.T) {
	p, _, _ := newTestPPU(t)

	setSprite(p, 0, 0, 8, 0, 0)
	setSprite(p, 1, 160, 8, 0, 0)
	setSprite(p, 2, 16, 8, 0, 0)
	for ly := uint8(0); ly < ScreenHeight; ly++ {
		p.ly = ly
		p.scanOAM()
		for _, s := range p.lineSprites {
			if s.index != 2 {
				t.Fatalf("line %d: sprite %d should never be visible", ly, s.index)
			}
		}
	}
}

func TestPPU_TallSprites(t *testing.T) {
	p, h, _ := newTestPPU(t)

	fillTile(p, 0x8020, 1) // tile 2, top half
	fillTile(p, 0x8030, 3) // tile 3, bottom half
	h.Write(types.LCDC, 0x96)
	setSprite(p, 0, 16, 8, 3, 0) // tile 3 masks to 2

	for i := 0; i < 9; i++ {
		runLine(p)
	}
	shades := palette.Palettes[palette.Greyscale].Colors
	if c := p.Frame()[0][0]; c != shades[1] {
		t.Errorf("expected top half from tile 2, got %v", c)
	}
	if c := p.Frame()[8][0]; c != shades[3] {
		t.Errorf("expected bottom half from tile 3, got %v", c)
	}

	// flipped vertically the halves swap
	setSprite(p, 0, 16+16, 8, 2, 0x40)
	for i := 0; i < 9; i++ {
		runLine(p)
	}
	if c := p.Frame()[16][0]; c != shades[3] {
		t.Errorf("expected flipped top from tile 3, got %v", c)
	}
}

func TestPPU_StatInterrupt(t *testing.T) {
	p, h, irq := newTestPPU(t)

	h.Write(types.STAT, 0x08) // HBlank source
	irq.Flag = 0
	p.Tick(80 + 172)
	if irq.Flag&interrupts.LCDFlag == 0 {
		t.Fatal("expected STAT interrupt on HBlank")
	}

	// the source stays high, so no new edge
	irq.Flag = 0
	h.Write(types.LYC, 0x05)
	h.Write(types.STAT, 0x48)
	if irq.Flag&interrupts.LCDFlag != 0 {
		t.Error("expected no interrupt without a rising edge")
	}

	// a second source rises independently
	h.Write(types.LYC, p.LY())
	if irq.Flag&interrupts.LCDFlag == 0 {
		t.Error("expected STAT interrupt on LY=LYC")
	}
	if v := h.Read(types.STAT); v != 0x80|0x48|0x04|uint8(lcd.HBlank) {
		t.Errorf("unexpected STAT 0x%02X", v)
	}
}

func TestPPU_Registers(t *testing.T) {
	p, h, _ := newTestPPU(t)

	h.Write(types.STAT, 0xFF)
	if v := h.Read(types.STAT); v&0x78 != 0x78 || v&0x07 != 0x04|uint8(lcd.OAM) {
		t.Errorf("expected writable enables and read-only mode, got 0x%02X", v)
	}
	runLine(p)
	h.Write(types.LY, 0x50)
	if v := h.Read(types.LY); v != 1 {
		t.Errorf("expected LY write to be ignored, got %d", v)
	}
}

func TestPPU_OAMLock(t *testing.T) {
	p, _, _ := newTestPPU(t)

	setSprite(p, 0, 0x42, 0, 0, 0)
	if v := p.Read(0xFE00); v != 0xFF {
		t.Errorf("expected 0xFF during OAM scan, got 0x%02X", v)
	}
	p.Write(0xFE00, 0x11)
	p.Tick(80 + 172)
	if v := p.Read(0xFE00); v != 0x42 {
		t.Errorf("expected locked write to be dropped, got 0x%02X", v)
	}
}

func TestPPU_LCDOff(t *testing.T) {
	p, h, _ := newTestPPU(t)

	fillTile(p, 0x8000, 3)
	runLine(p)
	runLine(p)
	h.Write(types.LCDC, 0x11)
	if p.LY() != 0 || p.Mode != lcd.HBlank {
		t.Fatalf("expected LY 0 in HBlank, got LY %d in %s", p.LY(), p.Mode)
	}
	runLine(p)
	if p.LY() != 0 {
		t.Error("expected no progress while off")
	}
	if c := p.Frame()[1][0]; c != black {
		t.Errorf("expected pixels to be kept, got %v", c)
	}

	h.Write(types.LCDC, 0x91)
	if p.Mode != lcd.OAM {
		t.Errorf("expected OAM scan after enabling, got %s", p.Mode)
	}
}

type testBus []uint8

func (b testBus) Read(address uint16) uint8 { return b[address] }

func TestDMA(t *testing.T) {
	p, h, _ := newTestPPU(t)

	bus := make(testBus, 0x10000)
	for i := 0; i < 0xA0; i++ {
		bus[0xC100+i] = uint8(i)
	}
	var stalled uint16
	NewDMA(h, bus, p.OAM(), func(c uint16) { stalled += c })

	// DMA ignores the OAM lock
	h.Write(types.DMA, 0xC1)
	if stalled != 640 {
		t.Errorf("expected a 640 cycle stall, got %d", stalled)
	}
	if v := h.Read(types.DMA); v != 0xC1 {
		t.Errorf("expected DMA to read back 0xC1, got 0x%02X", v)
	}
	for i := uint16(0); i < 0xA0; i++ {
		if v := p.OAM().Read(i); v != uint8(i) {
			t.Fatalf("OAM[%d]: expected %d, got %d", i, i, v)
		}
	}
}

func TestPPU_State(t *testing.T) {
	p, h, _ := newTestPPU(t)
	p.Write(0x8123, 0x45)
	h.Write(types.SCX, 0x10)
	runLine(p)

	s := types.NewState()
	p.Save(s)

	restored, rh, _ := newTestPPU(t)
	restored.Load(types.StateFromBytes(s.Bytes()))
	if restored.Read(0x8123) != 0x45 || rh.Read(types.SCX) != 0x10 || restored.LY() != 1 {
		t.Error("expected state to be restored")
	}
}

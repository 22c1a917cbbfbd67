package ppu

// renderScanline draws the current line into the frame, first
// the background and window, then the sprites selected by the
// OAM scan.
func (p *PPU) renderScanline() {
	if p.ly >= ScreenHeight {
		return
	}
	p.renderBackground()
	if p.SpriteEnabled {
		p.renderSprites()
	}
}

// windowVisible returns true if the window covers part of the
// current line.
func (p *PPU) windowVisible() bool {
	return p.WindowEnabled && p.BackgroundEnabled &&
		p.wx <= 166 && p.wy <= 143 && p.ly >= p.wy
}

func (p *PPU) renderBackground() {
	line := &p.frame[p.ly]

	if !p.BackgroundEnabled {
		for x := range line {
			p.bgIndex[x] = 0
			line[x] = p.palette.Map(p.bgp, 0)
		}
		return
	}

	window := p.windowVisible()
	windowStart := int(p.wx) - 7
	windowDrawn := false

	for x := 0; x < ScreenWidth; x++ {
		var mapAddress uint16
		var px, py uint8

		if window && x >= windowStart {
			mapAddress = p.WindowTileMapAddress
			px = uint8(x - windowStart)
			py = p.wly
			windowDrawn = true
		} else {
			mapAddress = p.BackgroundTileMapAddress
			px = p.scx + uint8(x)
			py = p.scy + p.ly
		}

		id := p.vRAM[mapAddress-0x8000+uint16(py/8)*32+uint16(px/8)]
		lo, hi := p.tileRow(p.TileAddress(id), py%8)
		colour := colourIndex(lo, hi, px%8)

		p.bgIndex[x] = colour
		line[x] = p.palette.Map(p.bgp, colour)
	}

	if windowDrawn {
		p.wly++
	}
}

func (p *PPU) renderSprites() {
	line := &p.frame[p.ly]
	var claimed [ScreenWidth]bool

	height := p.SpriteSize
	for _, s := range p.lineSprites {
		row := p.ly - (s.Y - 16)
		if s.flipY {
			row = height - 1 - row
		}
		tile := s.TileID
		if height == 16 {
			tile &= 0xFE
		}
		lo, hi := p.tileRow(0x8000+uint16(tile)*16, row)

		register := p.obp0
		if s.useSecondPalette {
			register = p.obp1
		}

		for px := uint8(0); px < 8; px++ {
			x := int(s.X) - 8 + int(px)
			if x < 0 || x >= ScreenWidth || claimed[x] {
				continue
			}

			bit := px
			if s.flipX {
				bit = 7 - px
			}
			colour := colourIndex(lo, hi, bit)
			if colour == 0 {
				continue // transparent
			}

			// the first opaque sprite pixel owns the column, even
			// when it is hidden behind the background
			claimed[x] = true
			if s.behindBG && p.bgIndex[x] != 0 {
				continue
			}
			line[x] = p.palette.Map(register, colour)
		}
	}
}

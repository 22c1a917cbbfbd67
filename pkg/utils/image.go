package utils

import (
	"image"
	"image/color"

	"github.com/thelolagemann/pocketboy/internal/ppu"
	"golang.org/x/image/draw"
)

// FrameImage converts frame into an RGBA image, scaled up by
// scale with nearest neighbour sampling to keep pixels sharp.
func FrameImage(frame *ppu.Frame, scale int) *image.RGBA {
	src := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			p := frame[y][x]
			src.SetRGBA(x, y, color.RGBA{R: p[0], G: p[1], B: p[2], A: 0xFF})
		}
	}
	if scale <= 1 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, ppu.ScreenWidth*scale, ppu.ScreenHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Package bmp provides a FrameSink that saves the last frame it
// receives as a BMP screenshot.
package bmp

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/thelolagemann/pocketboy/internal/ppu"
	"github.com/thelolagemann/pocketboy/pkg/utils"
	"golang.org/x/image/bmp"
)

// Encode writes frame to w as a BMP, scaled by scale.
func Encode(w io.Writer, frame *ppu.Frame, scale int) error {
	return bmp.Encode(w, utils.FrameImage(frame, scale))
}

// Screenshot keeps the most recent frame, and writes it to Path
// when closed.
type Screenshot struct {
	Path  string
	Scale int

	frame ppu.Frame
	drawn bool
}

// New returns a Screenshot that will be written to path.
func New(path string, scale int) *Screenshot {
	return &Screenshot{Path: path, Scale: scale}
}

// DrawFrame implements platform.FrameSink.
func (s *Screenshot) DrawFrame(frame *ppu.Frame) error {
	s.frame = *frame
	s.drawn = true
	return nil
}

// Close writes the last frame. Nothing is written if no frame
// was drawn.
func (s *Screenshot) Close() (err error) {
	if !s.drawn {
		return nil
	}

	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("bmp: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
	}()

	if err := Encode(f, &s.frame, s.Scale); err != nil {
		return fmt.Errorf("bmp: encoding %s: %w", s.Path, err)
	}
	return nil
}

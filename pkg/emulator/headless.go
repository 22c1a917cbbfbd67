// Package emulator runs a GameBoy without a display, capturing
// what it renders, and keeps its save states on disk.
package emulator

import (
	"context"
	"fmt"
	"os"

	"github.com/cespare/xxhash"
	"github.com/hashicorp/go-multierror"
	"github.com/thelolagemann/pocketboy/internal/apu"
	"github.com/thelolagemann/pocketboy/internal/gameboy"
	"github.com/thelolagemann/pocketboy/internal/ppu"
	"github.com/thelolagemann/pocketboy/pkg/audio/plot"
	"github.com/thelolagemann/pocketboy/pkg/audio/wav"
	"github.com/thelolagemann/pocketboy/pkg/display/bmp"
	"github.com/thelolagemann/pocketboy/pkg/platform"
	"gonum.org/v1/plot/vg"
)

// Headless configures a run without a display. Every output
// path is optional.
type Headless struct {
	// Frames is the number of frames to render.
	Frames int
	// Screenshot is where the last frame is saved as a BMP,
	// scaled by Scale.
	Screenshot string
	Scale      int
	// Audio is where every sample is recorded as a WAV.
	Audio string
	// Plot is where a waveform of the first PlotSamples
	// samples is saved as a PNG.
	Plot        string
	PlotSamples int
	SampleRate  uint32
}

// Result describes a finished headless run.
type Result struct {
	Status Status
	Frames int
	// Hash is the xxhash of the last frame's pixels.
	Hash    uint64
	Samples int
}

// frameHash hashes every frame it is given, keeping the last.
type frameHash struct {
	buf  []byte
	sum  uint64
	seen int
}

func (f *frameHash) DrawFrame(frame *ppu.Frame) error {
	f.buf = f.buf[:0]
	for y := range frame {
		for x := range frame[y] {
			f.buf = append(f.buf, frame[y][x][:]...)
		}
	}
	f.sum = xxhash.Sum64(f.buf)
	f.seen++
	return nil
}

// HashFrame returns the hash a headless run reports for frame.
func HashFrame(frame *ppu.Frame) uint64 {
	var f frameHash
	_ = f.DrawFrame(frame)
	return f.sum
}

// Run builds a GameBoy from rom and opts, renders h.Frames
// frames as fast as it can and writes the requested outputs.
// The returned error aggregates every failure; the Result is
// valid either way.
func (h Headless) Run(ctx context.Context, rom []byte, opts ...gameboy.Opt) (Result, error) {
	rate := h.SampleRate
	if rate == 0 {
		rate = apu.DefaultSampleRate
	}

	hash := &frameHash{buf: make([]byte, 0, ppu.ScreenWidth*ppu.ScreenHeight*3)}
	sinks := &platform.MultiSink{Frames: []platform.FrameSink{hash}}
	if h.Screenshot != "" {
		sinks.Frames = append(sinks.Frames, bmp.New(h.Screenshot, h.Scale))
	}

	var rec *wav.Recorder
	if h.Audio != "" {
		var err error
		if rec, err = wav.Create(h.Audio, rate); err != nil {
			return Result{Status: Errored}, err
		}
		sinks.Audio = append(sinks.Audio, rec)
	}

	var capture *plot.Capture
	if h.Plot != "" {
		n := h.PlotSamples
		if n <= 0 {
			n = int(rate) / 60
		}
		capture = plot.NewCapture(n)
		sinks.Audio = append(sinks.Audio, capture)
	}

	opts = append(opts,
		gameboy.WithFrameSink(sinks),
		gameboy.WithAudioSink(sinks),
		gameboy.WithSampleRate(rate),
	)
	g, err := gameboy.New(rom, opts...)
	if err != nil {
		return Result{Status: Errored}, multierror.Append(err, sinks.Close()).ErrorOrNil()
	}

	res := Result{Status: Running}
	var result error
	for res.Status == Running && res.Frames < h.Frames {
		if ctx.Err() != nil {
			res.Status = Cancelled
			result = multierror.Append(result, ctx.Err())
			break
		}
		if err := g.Frame(); err != nil {
			res.Status = Errored
			result = multierror.Append(result, err)
		}
		res.Frames++
	}
	if res.Status == Running {
		res.Status = Finished
	}
	res.Hash = hash.sum

	if err := sinks.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	if rec != nil {
		res.Samples = rec.Samples()
	}
	if capture != nil {
		if err := writePlot(h.Plot, capture.Samples()); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return res, result
}

func writePlot(path string, samples []apu.Sample) (err error) {
	p, err := plot.Waveform("Audio", samples)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("emulator: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
	}()

	return plot.WritePNG(f, p, 8*vg.Inch, 4*vg.Inch)
}

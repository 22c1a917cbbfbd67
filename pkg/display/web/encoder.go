package web

import (
	"bytes"
	"encoding/binary"
	"sync/atomic"

	"github.com/andybalholm/brotli"
	"github.com/cespare/xxhash"
	"github.com/thelolagemann/pocketboy/internal/ppu"
)

const (
	pixels    = ppu.ScreenWidth * ppu.ScreenHeight
	frameSize = pixels * 4
	cacheSize = 64
)

// encoder turns frames into the messages sent to clients. Frames
// with few changed pixels are sent as patches, identical frames
// are skipped, and anything sent before is replaced by its cache
// index. The feature switches may be flipped while frames are
// being encoded.
type encoder struct {
	compression   atomic.Bool
	quality       int
	framePatching atomic.Bool
	// patchRatio is the maximum share of changed pixels, in
	// fifths, for a frame to be sent as a patch.
	patchRatio    int
	frameSkipping atomic.Bool

	current []byte
	patch   []byte
	sent    bool
	skipped uint32

	frames, patches *cache
	reset           atomic.Bool
}

func newEncoder() *encoder {
	e := &encoder{
		quality:    6,
		patchRatio: 2,
		current:    make([]byte, frameSize),
		patch:      make([]byte, frameSize),
		frames:     newCache(cacheSize),
		patches:    newCache(cacheSize),
	}
	e.configure(true, true, true)
	return e
}

// configure sets the encoder features and resets it, so that
// clients are not sent a patch against a frame encoded with
// other settings.
func (e *encoder) configure(compression, patching, skipping bool) {
	e.compression.Store(compression)
	e.framePatching.Store(patching)
	e.frameSkipping.Store(skipping)
	e.requestReset()
}

// requestReset makes the next frame start afresh, so that a newly
// connected client never sees a reference to a cache entry it
// did not receive.
func (e *encoder) requestReset() {
	e.reset.Store(true)
}

// encode returns the messages to send for frame, which may be
// none at all.
func (e *encoder) encode(frame *ppu.Frame) ([][]byte, error) {
	if e.reset.Swap(false) {
		e.sent = false
		e.skipped = 0
		e.frames = newCache(cacheSize)
		e.patches = newCache(cacheSize)
	}

	dirty := 0
	for i := range e.patch {
		e.patch[i] = 0
	}
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			i := (y*ppu.ScreenWidth + x) * 4
			p := frame[y][x]
			if e.current[i] != p[0] || e.current[i+1] != p[1] || e.current[i+2] != p[2] || e.current[i+3] != 0xFF {
				dirty++
				copy(e.patch[i:], []byte{p[0], p[1], p[2], 0xFF})
				copy(e.current[i:], []byte{p[0], p[1], p[2], 0xFF})
			}
		}
	}

	if e.sent && dirty == 0 && e.frameSkipping.Load() {
		e.skipped++
		return nil, nil
	}

	var messages [][]byte
	if e.skipped > 0 {
		skip := make([]byte, 5)
		skip[0] = FrameSkip
		binary.LittleEndian.PutUint32(skip[1:], e.skipped)
		messages = append(messages, skip)
		e.skipped = 0
	}

	kind, buffer, c := Frame, e.current, e.frames
	if e.sent && e.framePatching.Load() && dirty < e.patchRatio*pixels/5 {
		kind, buffer, c = FramePatch, e.patch, e.patches
	}

	output, err := e.compress(buffer)
	if err != nil {
		return nil, err
	}

	hash := xxhash.Sum64(output)
	if idx := c.index(hash); idx >= 0 {
		cached := FrameCache
		if kind == FramePatch {
			cached = PatchCache
		}
		messages = append(messages, []byte{cached, uint8(idx), uint8(idx >> 8)})
	} else {
		idx := c.add(hash, output)
		msg := make([]byte, 3, 3+len(output))
		msg[0], msg[1], msg[2] = kind, uint8(idx), uint8(idx>>8)
		messages = append(messages, append(msg, output...))
	}

	e.sent = true
	return messages, nil
}

// compress returns a copy of b, brotli compressed if enabled.
func (e *encoder) compress(b []byte) ([]byte, error) {
	if !e.compression.Load() {
		return append([]byte(nil), b...), nil
	}

	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, e.quality)
	if _, err := w.Write(b); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// info returns a byte describing the encoder settings.
//
//	Bit 0: Compression enabled
//	Bit 1: Frame patching enabled
//	Bit 2: Frame skipping enabled
func (e *encoder) info() byte {
	var info byte
	if e.compression.Load() {
		info |= infoCompression
	}
	if e.framePatching.Load() {
		info |= infoFramePatching
	}
	if e.frameSkipping.Load() {
		info |= infoFrameSkipping
	}
	return info
}

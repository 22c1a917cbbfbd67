// Package platform defines what the emulator core needs from
// the host it runs on: ROM and RAM images, persistent storage,
// a clock and the video and audio outputs.
package platform

import (
	"github.com/thelolagemann/pocketboy/internal/apu"
	"github.com/thelolagemann/pocketboy/internal/ppu"
)

// ROMSource gives random access to a cartridge image.
type ROMSource interface {
	ReadByteAt(offset uint32) uint8
	Size() uint32
}

// RAMSource gives random access to a writable memory image.
type RAMSource interface {
	ROMSource
	WriteByteAt(offset uint32, value uint8)
}

// Storage persists battery backed cartridge memory.
type Storage interface {
	// Load returns the stored data, resized to size. An error
	// means nothing usable was stored.
	Load(size int) ([]byte, error)
	// Store replaces the stored data.
	Store(data []byte) error
}

// Clock is a monotonic microsecond clock.
type Clock interface {
	Micros() uint64
}

// FrameSink receives every completed frame.
type FrameSink interface {
	DrawFrame(frame *ppu.Frame) error
}

// AudioSink receives batches of stereo samples.
type AudioSink interface {
	PlaySamples(samples []apu.Sample) error
}

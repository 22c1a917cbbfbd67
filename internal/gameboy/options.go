package gameboy

import (
	"io"

	"github.com/thelolagemann/pocketboy/internal/cheats"
	"github.com/thelolagemann/pocketboy/internal/ppu/palette"
	"github.com/thelolagemann/pocketboy/pkg/log"
	"github.com/thelolagemann/pocketboy/pkg/platform"
)

// Opt is a function that modifies a GameBoy
// instance.
type Opt func(gb *GameBoy)

func WithLogger(log log.Logger) Opt {
	return func(gb *GameBoy) {
		gb.Logger = log
	}
}

// WithState restores a state produced by SaveState once the
// machine has been built.
func WithState(b []byte) Opt {
	return func(gb *GameBoy) {
		gb.state = b
	}
}

// WithBootROM sets the boot ROM for the emulator. With a boot ROM
// the CPU starts from power on at 0x0000, otherwise at 0x100 with
// the registers set to the values upon completion of the boot ROM.
func WithBootROM(rom []byte) Opt {
	return func(gb *GameBoy) {
		gb.bootROM = rom
	}
}

// Speed scales the frame rate Run paces itself to. A speed of 0
// runs unthrottled.
func Speed(speed float64) Opt {
	return func(gb *GameBoy) {
		if speed >= 0 {
			gb.speed = speed
		}
	}
}

func WithClock(clock platform.Clock) Opt {
	return func(gb *GameBoy) {
		gb.clock = clock
	}
}

// WithStorage persists battery backed cartridge RAM. The save is
// loaded when the machine is built, and written by Save.
func WithStorage(storage platform.Storage) Opt {
	return func(gb *GameBoy) {
		gb.storage = storage
	}
}

func WithFrameSink(sink platform.FrameSink) Opt {
	return func(gb *GameBoy) {
		gb.frames = sink
	}
}

func WithAudioSink(sink platform.AudioSink) Opt {
	return func(gb *GameBoy) {
		gb.audio = sink
	}
}

func WithPalette(id palette.ID) Opt {
	return func(gb *GameBoy) {
		gb.palette = id
	}
}

func WithSampleRate(rate uint32) Opt {
	return func(gb *GameBoy) {
		gb.sampleRate = rate
	}
}

// WithSerialOutput writes every byte shifted out of the serial
// port to w. Test ROMs report their results this way.
func WithSerialOutput(w io.Writer) Opt {
	return func(gb *GameBoy) {
		gb.serialOut = w
	}
}

// NoAudio discards the samples produced by the APU.
func NoAudio() Opt {
	return func(gb *GameBoy) {
		gb.audio = platform.Discard
	}
}

// WithCheats patches ROM reads with the enabled Game Genie codes
// and writes the enabled GameShark codes after every frame.
func WithCheats(set *cheats.Set) Opt {
	return func(gb *GameBoy) {
		gb.cheats = set
	}
}

// Package gameboy provides an emulation of a Nintendo Game Boy.
//
// A GameBoy owns every component of the machine, and steps them
// in lockstep from a single goroutine. Frontends talk to it
// through the interfaces in pkg/platform.
package gameboy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cespare/xxhash"
	"github.com/hashicorp/go-multierror"
	"github.com/thelolagemann/pocketboy/internal/apu"
	"github.com/thelolagemann/pocketboy/internal/boot"
	"github.com/thelolagemann/pocketboy/internal/cartridge"
	"github.com/thelolagemann/pocketboy/internal/cheats"
	"github.com/thelolagemann/pocketboy/internal/cpu"
	"github.com/thelolagemann/pocketboy/internal/interrupts"
	"github.com/thelolagemann/pocketboy/internal/joypad"
	"github.com/thelolagemann/pocketboy/internal/mmu"
	"github.com/thelolagemann/pocketboy/internal/ppu"
	"github.com/thelolagemann/pocketboy/internal/ppu/palette"
	"github.com/thelolagemann/pocketboy/internal/serial"
	"github.com/thelolagemann/pocketboy/internal/timer"
	"github.com/thelolagemann/pocketboy/internal/types"
	"github.com/thelolagemann/pocketboy/pkg/log"
	"github.com/thelolagemann/pocketboy/pkg/platform"
)

const (
	// ClockSpeed is the clock speed of the Game Boy.
	ClockSpeed = 4194304 // 4.194304 MHz
	// CyclesPerFrame is the number of clock cycles per frame.
	CyclesPerFrame = 70224
	// FrameRate is the number of frames per second.
	FrameRate = float64(ClockSpeed) / CyclesPerFrame // ~59.7275
)

// ErrROMTooSmall is returned by New for a ROM that is shorter
// than the cartridge header.
var ErrROMTooSmall = errors.New("gameboy: rom smaller than cartridge header")

// GameBoy represents a Game Boy. It contains all the components of the Game Boy.
// It is the main entry point for the emulator.
type GameBoy struct {
	CPU        *cpu.CPU
	MMU        *mmu.MMU
	PPU        *ppu.PPU
	APU        *apu.APU
	Cartridge  *cartridge.Cartridge
	Joypad     *joypad.State
	Interrupts *interrupts.Service
	Timer      *timer.Controller
	Serial     *serial.Controller

	log.Logger

	clock   platform.Clock
	storage platform.Storage
	frames  platform.FrameSink
	audio   platform.AudioSink

	speed      float64
	bootROM    []byte
	palette    palette.ID
	sampleRate uint32
	serialOut  io.Writer
	state      []byte
	cheats     *cheats.Set

	romHash uint64
	// cycles counts every cycle stepped since power on.
	cycles uint64
}

// New returns a new GameBoy running rom. It only fails if rom
// is too short to hold a cartridge header. Problems with the
// optional boot ROM, save data or state are logged, and the
// machine starts without them.
func New(rom []byte, opts ...Opt) (*GameBoy, error) {
	if len(rom) < 0x150 {
		return nil, fmt.Errorf("%w: %d bytes", ErrROMTooSmall, len(rom))
	}

	g := &GameBoy{
		Logger:     log.NewNullLogger(),
		clock:      platform.SystemClock{},
		frames:     platform.Discard,
		audio:      platform.Discard,
		speed:      1,
		palette:    palette.Greyscale,
		sampleRate: apu.DefaultSampleRate,
		romHash:    xxhash.Sum64(rom),
	}
	for _, opt := range opts {
		opt(g)
	}

	h := types.NewHardwareRegisters()
	g.Interrupts = interrupts.NewService(h)
	g.Cartridge = cartridge.New(
		platform.ROM(rom),
		cartridge.WithClock(g.clock),
		cartridge.WithLogger(g.Logger),
	)
	g.PPU = ppu.New(h, g.Interrupts, ppu.WithPalette(g.palette))

	mmuOpts := []mmu.Opt{mmu.WithLogger(g.Logger)}
	if g.cheats != nil {
		mmuOpts = append(mmuOpts, mmu.WithPatcher(g.cheats))
	}
	var bootROM *boot.ROM
	if g.bootROM != nil {
		var err error
		if bootROM, err = boot.LoadBootROM(g.bootROM); err != nil {
			g.Warnf("ignoring boot rom: %v", err)
		} else {
			g.Infof("using boot rom %s (%s)", bootROM.Model(), bootROM.Checksum())
			mmuOpts = append(mmuOpts, mmu.WithBootROM(bootROM))
		}
	}
	g.MMU = mmu.NewMMU(h, g.Cartridge, g.PPU, mmuOpts...)

	g.CPU = cpu.NewCPU(g.MMU, g.Interrupts)
	if bootROM != nil {
		g.CPU.Boot()
	}
	ppu.NewDMA(h, g.MMU, g.PPU.OAM(), g.CPU.Stall)

	g.Timer = timer.NewController(h, g.Interrupts)
	g.Joypad = joypad.New(h, g.Interrupts)
	g.Serial = serial.NewController(h, g.Interrupts, g.serialOut)
	g.APU = apu.New(h, apu.WithSampleRate(g.sampleRate))
	if bootROM != nil {
		g.APU.Boot()
	}

	g.loadSave()

	if g.state != nil {
		if err := g.LoadState(g.state); err != nil {
			g.Errorf("ignoring save state: %v", err)
		}
		g.state = nil
	}

	return g, nil
}

// loadSave fills the cartridge RAM from storage. A failed
// load leaves the RAM zeroed.
func (g *GameBoy) loadSave() {
	if g.storage == nil || !g.Cartridge.Battery() {
		return
	}
	data, err := g.storage.Load(g.Cartridge.SaveSize())
	if err != nil {
		g.Warnf("loading save: %v", err)
		return
	}
	g.Cartridge.LoadRAM(data)
	g.Debugf("loaded %d bytes of save data", len(data))
}

// Save writes the battery backed cartridge RAM to storage. It
// does nothing for cartridges without a battery.
func (g *GameBoy) Save() error {
	if g.storage == nil || !g.Cartridge.Battery() {
		return nil
	}
	if err := g.storage.Store(g.Cartridge.SaveRAM()); err != nil {
		return fmt.Errorf("gameboy: storing save: %w", err)
	}
	return nil
}

// Step executes a single CPU step, and advances the rest of the
// machine by the same number of cycles.
func (g *GameBoy) Step() (uint16, error) {
	cycles, err := g.CPU.Step()
	if err != nil {
		return cycles, err
	}

	g.Timer.Tick(cycles)
	g.PPU.Tick(cycles)
	g.APU.Tick(cycles)
	g.cycles += uint64(cycles)

	return cycles, nil
}

// Cycles returns the number of cycles stepped since power on.
func (g *GameBoy) Cycles() uint64 {
	return g.cycles
}

// Frame steps the emulation until the PPU enters VBlank, then
// hands the frame and the audio produced along the way to the
// sinks. With the LCD off, a frame ends after CyclesPerFrame
// cycles instead.
func (g *GameBoy) Frame() error {
	var stepped uint32
	for stepped < CyclesPerFrame {
		cycles, err := g.Step()
		if err != nil {
			g.Errorf("%v", err)
			return fmt.Errorf("gameboy: frame: %w", err)
		}
		stepped += uint32(cycles)
		if g.PPU.FrameReady() {
			break
		}
	}
	if g.cheats != nil {
		g.cheats.Apply(g.MMU)
	}

	var result error
	if err := g.frames.DrawFrame(g.PPU.Frame()); err != nil {
		result = multierror.Append(result, err)
	}
	if samples := g.APU.Samples(); len(samples) > 0 {
		if err := g.audio.PlaySamples(samples); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

// Run emulates frames until ctx is cancelled or the CPU hits an
// illegal opcode, pacing itself against the clock. Button events
// received on events are applied between frames.
func (g *GameBoy) Run(ctx context.Context, events <-chan joypad.Event) error {
	var frameTime uint64
	if g.speed > 0 {
		frameTime = uint64(1e6 / (FrameRate * g.speed))
	}

	next := g.clock.Micros()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := g.Frame(); err != nil {
			if errors.Is(err, cpu.ErrDecode) {
				return err
			}
			g.Warnf("output: %v", err)
		}
		g.drainEvents(events)

		if frameTime == 0 {
			continue
		}
		next += frameTime
		now := g.clock.Micros()
		switch {
		case next > now:
			t := time.NewTimer(time.Duration(next-now) * time.Microsecond)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		case now-next > frameTime*5:
			// too far behind to catch up
			next = now
		}
	}
}

func (g *GameBoy) drainEvents(events <-chan joypad.Event) {
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			g.Joypad.Handle(e)
		default:
			return
		}
	}
}

// Press presses button.
func (g *GameBoy) Press(button joypad.Button) {
	g.Joypad.Press(button)
}

// Release releases button.
func (g *GameBoy) Release(button joypad.Button) {
	g.Joypad.Release(button)
}

// SetPalette changes the palette used for the next frames.
func (g *GameBoy) SetPalette(id palette.ID) {
	g.palette = id
	g.PPU.SetPalette(id)
}

// ROMHash returns the xxhash of the ROM image, which identifies
// the game in save states.
func (g *GameBoy) ROMHash() uint64 {
	return g.romHash
}

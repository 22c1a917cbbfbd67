package gameboy

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thelolagemann/pocketboy/internal/cheats"
	"github.com/thelolagemann/pocketboy/internal/cpu"
	"github.com/thelolagemann/pocketboy/internal/joypad"
	"github.com/thelolagemann/pocketboy/internal/ppu"
	"github.com/thelolagemann/pocketboy/internal/types"
	"github.com/thelolagemann/pocketboy/pkg/platform"
)

// loop is JR -2, which spins forever in 12 cycle steps.
var loop = []byte{0x18, 0xFE}

// newTestROM returns a 32KiB ROM of the given cartridge type
// with program placed at the entry point.
func newTestROM(title string, cartType, ramSize uint8, program ...byte) []byte {
	rom := make([]byte, 0x8000)
	copy(rom[0x100:], program)
	copy(rom[0x134:], title)
	rom[0x147] = cartType
	rom[0x149] = ramSize

	var x uint8
	for _, b := range rom[0x134:0x14D] {
		x = x - b - 1
	}
	rom[0x14D] = x
	return rom
}

type frameCounter struct {
	frames int
	last   ppu.Frame
	onDraw func(n int)
}

func (f *frameCounter) DrawFrame(frame *ppu.Frame) error {
	f.frames++
	f.last = *frame
	if f.onDraw != nil {
		f.onDraw(f.frames)
	}
	return nil
}

func newTestGameBoy(t *testing.T, rom []byte, opts ...Opt) *GameBoy {
	t.Helper()
	g, err := New(rom, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNew_ROMTooSmall(t *testing.T) {
	_, err := New(make([]byte, 0x14F))
	if !errors.Is(err, ErrROMTooSmall) {
		t.Errorf("expected ErrROMTooSmall, got %v", err)
	}
}

func TestNew_PostBoot(t *testing.T) {
	g := newTestGameBoy(t, newTestROM("POSTBOOT", 0, 0, loop...))
	if g.CPU.PC != 0x0100 {
		t.Errorf("expected PC 0x0100, got 0x%04X", g.CPU.PC)
	}
	if g.MMU.BootROMMapped() {
		t.Error("expected no boot rom")
	}

	// an invalid boot rom is ignored
	g = newTestGameBoy(t, newTestROM("POSTBOOT", 0, 0, loop...), WithBootROM(make([]byte, 10)))
	if g.CPU.PC != 0x0100 {
		t.Errorf("expected PC 0x0100, got 0x%04X", g.CPU.PC)
	}

	g = newTestGameBoy(t, newTestROM("POSTBOOT", 0, 0, loop...), WithBootROM(make([]byte, 0x100)))
	if g.CPU.PC != 0x0000 || !g.MMU.BootROMMapped() {
		t.Errorf("expected boot rom at 0x0000, PC 0x%04X", g.CPU.PC)
	}
}

func TestGameBoy_Frame(t *testing.T) {
	sink := &frameCounter{}
	g := newTestGameBoy(t, newTestROM("FRAME", 0, 0, loop...), WithFrameSink(sink))

	if err := g.Frame(); err != nil {
		t.Fatal(err)
	}
	if g.PPU.LY() != ppu.ScreenHeight {
		t.Errorf("expected LY %d after frame, got %d", ppu.ScreenHeight, g.PPU.LY())
	}

	start := g.Cycles()
	if err := g.Frame(); err != nil {
		t.Fatal(err)
	}
	if d := g.Cycles() - start; d < CyclesPerFrame-12 || d > CyclesPerFrame+12 {
		t.Errorf("expected a frame to take %d cycles, took %d", CyclesPerFrame, d)
	}
	if sink.frames != 2 {
		t.Errorf("expected 2 frames drawn, got %d", sink.frames)
	}

	// every line is visited exactly once per frame
	lines := 0
	ly := g.PPU.LY()
	for {
		if _, err := g.Step(); err != nil {
			t.Fatal(err)
		}
		if g.PPU.LY() != ly {
			ly = g.PPU.LY()
			lines++
		}
		if g.PPU.FrameReady() {
			break
		}
	}
	if lines != 154 {
		t.Errorf("expected 154 lines per frame, got %d", lines)
	}
}

func TestGameBoy_FrameLCDOff(t *testing.T) {
	// LD A,0; LDH (0x40),A; JR -2
	g := newTestGameBoy(t, newTestROM("LCDOFF", 0, 0, 0x3E, 0x00, 0xE0, 0x40, 0x18, 0xFE))

	if err := g.Frame(); err != nil {
		t.Fatal(err)
	}
	if g.PPU.Enabled {
		t.Fatal("expected LCD to be off")
	}
	if g.Cycles() < CyclesPerFrame {
		t.Errorf("expected at least %d cycles, got %d", CyclesPerFrame, g.Cycles())
	}
}

func TestGameBoy_DecodeFault(t *testing.T) {
	g := newTestGameBoy(t, newTestROM("FAULT", 0, 0, 0x00, 0xD3))

	err := g.Frame()
	if !errors.Is(err, cpu.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	var decodeErr *cpu.DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.PC != 0x0101 || decodeErr.Opcode != 0xD3 {
		t.Errorf("expected fault at 0x0101, got %v", err)
	}

	if err := g.Run(context.Background(), nil); !errors.Is(err, cpu.ErrDecode) {
		t.Errorf("expected Run to stop with ErrDecode, got %v", err)
	}
}

func TestGameBoy_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &frameCounter{onDraw: func(n int) {
		if n == 3 {
			cancel()
		}
	}}
	events := make(chan joypad.Event, 1)
	events <- joypad.Event{Button: joypad.ButtonStart, Pressed: true}

	g := newTestGameBoy(t, newTestROM("RUN", 0, 0, loop...), WithFrameSink(sink), Speed(0))
	if err := g.Run(ctx, events); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if sink.frames != 3 {
		t.Errorf("expected 3 frames, got %d", sink.frames)
	}
	if types.Test(g.Joypad.State, joypad.ButtonStart) {
		t.Error("expected start to be pressed")
	}
}

func TestGameBoy_Save(t *testing.T) {
	storage := &platform.MemoryStorage{}
	if err := storage.Store([]byte{0x42}); err != nil {
		t.Fatal(err)
	}

	rom := newTestROM("SAVE", 0x03, 0x02, loop...)
	g := newTestGameBoy(t, rom, WithStorage(storage))

	g.MMU.Write(0x0000, 0x0A)
	if v := g.MMU.Read(0xA000); v != 0x42 {
		t.Errorf("expected loaded save 0x42, got 0x%02X", v)
	}
	g.MMU.Write(0xA001, 0x43)

	if err := g.Save(); err != nil {
		t.Fatal(err)
	}
	saved := storage.Bytes()
	if len(saved) != 0x2000 {
		t.Fatalf("expected 8KiB save, got %d bytes", len(saved))
	}
	if saved[0] != 0x42 || saved[1] != 0x43 {
		t.Errorf("unexpected save contents % X", saved[:2])
	}

	// no battery, nothing stored
	storage = &platform.MemoryStorage{}
	g = newTestGameBoy(t, newTestROM("NOSAVE", 0x01, 0, loop...), WithStorage(storage))
	if err := g.Save(); err != nil || len(storage.Bytes()) != 0 {
		t.Errorf("expected nothing stored, got %d bytes (%v)", len(storage.Bytes()), err)
	}
}

func TestGameBoy_SaveStateInterrupts(t *testing.T) {
	rom := newTestROM("STATE", 0, 0, loop...)
	g := newTestGameBoy(t, rom)
	g.Interrupts.IME = true
	g.Interrupts.Enable = 0x05
	g.Interrupts.Flag = 0x01
	state := g.SaveState()

	restored := newTestGameBoy(t, rom)
	if err := restored.LoadState(state); err != nil {
		t.Fatal(err)
	}
	if !restored.Interrupts.IME || restored.Interrupts.Enable != 0x05 || restored.Interrupts.Flag != 0x01 {
		t.Errorf("interrupts not restored: IME=%v IE=0x%02X IF=0x%02X", restored.Interrupts.IME, restored.Interrupts.Enable, restored.Interrupts.Flag)
	}
}

func TestGameBoy_SaveState(t *testing.T) {
	rom := newTestROM("STATE", 0, 0, loop...)
	sink := &frameCounter{}
	g := newTestGameBoy(t, rom, WithFrameSink(sink))

	for i := 0; i < 2; i++ {
		if err := g.Frame(); err != nil {
			t.Fatal(err)
		}
	}
	state := g.SaveState()
	cycles := g.Cycles()

	if err := g.Frame(); err != nil {
		t.Fatal(err)
	}
	want := sink.last
	after := g.Cycles()

	if err := g.LoadState(state); err != nil {
		t.Fatal(err)
	}
	if g.Cycles() != cycles {
		t.Errorf("expected cycles %d after load, got %d", cycles, g.Cycles())
	}
	if err := g.Frame(); err != nil {
		t.Fatal(err)
	}
	if g.Cycles() != after || sink.last != want {
		t.Error("expected the frame after a load to repeat")
	}

	restored := newTestGameBoy(t, rom, WithState(state))
	if restored.Cycles() != cycles {
		t.Errorf("expected WithState to restore cycles %d, got %d", cycles, restored.Cycles())
	}

	other := newTestGameBoy(t, newTestROM("OTHER", 0, 0, loop...))
	if err := other.LoadState(state); !errors.Is(err, ErrStateMismatch) {
		t.Errorf("expected ErrStateMismatch, got %v", err)
	}
	if err := g.LoadState(state[:len(state)-1]); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestGameBoy_SerialOutput(t *testing.T) {
	// LD A,'P'; LDH (0x01),A; LD A,0x81; LDH (0x02),A; JR -2
	program := []byte{0x3E, 'P', 0xE0, 0x01, 0x3E, 0x81, 0xE0, 0x02, 0x18, 0xFE}

	var out bytes.Buffer
	g := newTestGameBoy(t, newTestROM("SERIAL", 0, 0, program...), WithSerialOutput(&out))
	if err := g.Frame(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "P" {
		t.Errorf("expected serial output %q, got %q", "P", out.String())
	}
}

func TestGameBoy_Cheats(t *testing.T) {
	// LD A,(0x0200); LD (0xC000),A; JR -2
	program := []byte{0xFA, 0x00, 0x02, 0xEA, 0x00, 0xC0, 0x18, 0xFE}
	rom := newTestROM("CHEATS", 0, 0, program...)
	rom[0x200] = 0x11

	set := &cheats.Set{}
	if err := set.Add("patch", "772-00F", "015501C0"); err != nil {
		t.Fatal(err)
	}

	g := newTestGameBoy(t, rom, WithCheats(set))
	if err := g.Frame(); err != nil {
		t.Fatal(err)
	}
	if v := g.MMU.Read(0xC000); v != 0x77 {
		t.Errorf("expected patched ROM byte 0x77, got 0x%02X", v)
	}
	if v := g.MMU.Read(0xC001); v != 0x55 {
		t.Errorf("expected game shark write 0x55, got 0x%02X", v)
	}
}

// TestBlargg runs any blargg test ROMs found in testdata/blargg,
// which report their result over the serial port.
func TestBlargg(t *testing.T) {
	root := filepath.Join("testdata", "blargg")
	if _, err := os.Stat(root); err != nil {
		t.Skip("no blargg test roms in testdata")
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".gb" {
			return nil
		}
		t.Run(path, func(t *testing.T) {
			testSerialROM(t, path)
		})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func testSerialROM(t *testing.T, path string) {
	rom, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	g := newTestGameBoy(t, rom, WithSerialOutput(&out))
	for i := 0; i < 60*30; i++ {
		if err := g.Frame(); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(out.String(), "Passed") {
			return
		}
		if strings.Contains(out.String(), "Failed") {
			break
		}
	}
	t.Errorf("%s: %s", filepath.Base(path), out.String())
}

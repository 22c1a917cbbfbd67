package gameboy

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/thelolagemann/pocketboy/internal/types"
)

var (
	// ErrInvalidState is returned by LoadState for data that was
	// not produced by SaveState.
	ErrInvalidState = errors.New("gameboy: invalid save state")
	// ErrStateMismatch is returned by LoadState for a state saved
	// while running a different ROM.
	ErrStateMismatch = errors.New("gameboy: save state belongs to another rom")
)

var stateMagic = []byte("PKBYSTAT")

const stateVersion = 2

// SaveState returns a snapshot of the whole machine.
func (g *GameBoy) SaveState() []byte {
	s := types.NewState()
	s.WriteData(stateMagic)
	s.Write8(stateVersion)
	s.Write64(g.romHash)

	g.saveState(s)
	return s.Bytes()
}

func (g *GameBoy) saveState(s *types.State) {
	g.CPU.Save(s)
	g.Interrupts.Save(s)
	g.MMU.Save(s)
	g.Cartridge.Save(s)
	g.PPU.Save(s)
	g.APU.Save(s)
	g.Timer.Save(s)
	g.Joypad.Save(s)
	g.Serial.Save(s)
	s.Write64(g.cycles)
}

// LoadState restores a snapshot taken by SaveState. The machine
// is left untouched if data is rejected.
func (g *GameBoy) LoadState(data []byte) error {
	// states for the same ROM are always the same size
	if want := len(g.SaveState()); len(data) != want {
		return fmt.Errorf("%w: %d bytes, expected %d", ErrInvalidState, len(data), want)
	}

	s := types.StateFromBytes(data)
	magic := make([]byte, len(stateMagic))
	s.ReadData(magic)
	if !bytes.Equal(magic, stateMagic) {
		return ErrInvalidState
	}
	if v := s.Read8(); v != stateVersion {
		return fmt.Errorf("%w: version %d", ErrInvalidState, v)
	}
	if hash := s.Read64(); hash != g.romHash {
		return fmt.Errorf("%w: rom hash %016x", ErrStateMismatch, hash)
	}

	g.CPU.Load(s)
	g.Interrupts.Load(s)
	g.MMU.Load(s)
	g.Cartridge.Load(s)
	g.PPU.Load(s)
	g.APU.Load(s)
	g.Timer.Load(s)
	g.Joypad.Load(s)
	g.Serial.Load(s)
	g.cycles = s.Read64()

	if err := s.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	g.Debugf("loaded save state (%d bytes)", len(data))
	return nil
}

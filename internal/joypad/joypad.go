// Package joypad provides an implementation of the Game Boy
// joypad. The joypad is used to read the state of the buttons
// and the direction keys.
package joypad

import (
	"github.com/thelolagemann/pocketboy/internal/interrupts"
	"github.com/thelolagemann/pocketboy/internal/types"
)

// Button represents a physical button on the Game Boy.
type Button = uint8

const (
	// ButtonA is the A button.
	ButtonA Button = iota
	// ButtonB is the B button.
	ButtonB
	// ButtonSelect is the Select button.
	ButtonSelect
	// ButtonStart is the Start button.
	ButtonStart
	// ButtonRight is the Right button.
	ButtonRight
	// ButtonLeft is the Left button.
	ButtonLeft
	// ButtonUp is the Up button.
	ButtonUp
	// ButtonDown is the Down button.
	ButtonDown
)

// Event is a button press or release sent by a frontend.
type Event struct {
	Button  Button
	Pressed bool
}

// State represents the state of the joypad. Select either
// action or direction buttons by writing to the register,
// and then read out bits 0-3 to get the state of the buttons.
//
//	Bit 7 - Not used
//	Bit 6 - Not used
//	Bit 5 - P15 Select Button Keys      (0=Select)
//	Bit 4 - P14 Select Direction Keys   (0=Select)
//	Bit 3 - P13 Input Down  or Start    (0=Pressed) (Read Only)
//	Bit 2 - P12 Input Up    or Select   (0=Pressed) (Read Only)
//	Bit 1 - P11 Input Left  or Button B (0=Pressed) (Read Only)
//	Bit 0 - P10 Input Right or Button A (0=Pressed) (Read Only)
type State struct {
	// State is the current state of the joypad. The lower 4
	// bits hold the action buttons, and the upper 4 bits hold
	// the direction buttons. A 0 in a bit indicates that the
	// button is pressed.
	State uint8
	// selected holds bits 4-5 of the last write to P1.
	selected uint8

	irq *interrupts.Service
}

// New returns a new joypad state, with every button released.
func New(h *types.HardwareRegisters, irq *interrupts.Service) *State {
	s := &State{
		State:    0xFF,
		selected: 0x30,
		irq:      irq,
	}
	h.RegisterHardware(
		types.P1,
		func(v uint8) {
			s.selected = v & 0x30
		},
		s.read,
	)

	return s
}

// read returns the value of P1. When both groups are
// selected, a line reads pressed if either group has it
// pressed.
func (s *State) read() uint8 {
	nibble := uint8(0x0F)
	if s.selected&types.Bit5 == 0 {
		nibble &= s.State & 0x0F
	}
	if s.selected&types.Bit4 == 0 {
		nibble &= s.State >> 4
	}
	return 0xC0 | s.selected | nibble
}

// Press presses a button. Going from released to pressed
// requests the joypad interrupt.
func (s *State) Press(button Button) {
	if button > ButtonDown {
		return
	}
	if types.Test(s.State, button) {
		s.irq.Request(interrupts.JoypadFlag)
	}
	// reset the button bit in the state (0 = pressed)
	s.State = types.Reset(s.State, button)
}

// Release releases a button.
func (s *State) Release(button Button) {
	if button > ButtonDown {
		return
	}
	// set the button bit in the state (1 = released)
	s.State = types.Set(s.State, button)
}

// Handle applies the given event.
func (s *State) Handle(e Event) {
	if e.Pressed {
		s.Press(e.Button)
	} else {
		s.Release(e.Button)
	}
}

var _ types.Stater = (*State)(nil)

func (s *State) Load(st *types.State) {
	s.State = st.Read8()
	s.selected = st.Read8() & 0x30
}

func (s *State) Save(st *types.State) {
	st.Write8(s.State)
	st.Write8(s.selected)
}

package joypad

import (
	"testing"

	"github.com/thelolagemann/pocketboy/internal/interrupts"
	"github.com/thelolagemann/pocketboy/internal/types"
)

func newTestJoypad() (*State, *types.HardwareRegisters, *interrupts.Service) {
	h := types.NewHardwareRegisters()
	irq := interrupts.NewService(h)
	return New(h, irq), h, irq
}

func TestState_Select(t *testing.T) {
	s, h, _ := newTestJoypad()
	s.Press(ButtonA)
	s.Press(ButtonUp)

	h.Write(types.P1, 0x30)
	if v := h.Read(types.P1); v != 0xFF {
		t.Errorf("expected no group selected to read 0xFF, got 0x%02X", v)
	}
	h.Write(types.P1, 0x10) // buttons
	if v := h.Read(types.P1); v != 0xDE {
		t.Errorf("expected A pressed to read 0xDE, got 0x%02X", v)
	}
	h.Write(types.P1, 0x20) // directions
	if v := h.Read(types.P1); v != 0xEB {
		t.Errorf("expected Up pressed to read 0xEB, got 0x%02X", v)
	}
	h.Write(types.P1, 0x00) // both
	if v := h.Read(types.P1); v != 0xCA {
		t.Errorf("expected both groups to combine to 0xCA, got 0x%02X", v)
	}
}

func TestState_Interrupt(t *testing.T) {
	s, _, irq := newTestJoypad()

	s.Press(ButtonStart)
	if irq.Flag&interrupts.JoypadFlag == 0 {
		t.Fatalf("expected a press to request the joypad interrupt")
	}
	irq.Flag = 0
	s.Press(ButtonStart)
	if irq.Flag != 0 {
		t.Errorf("expected a held button to not request again")
	}
	s.Handle(Event{Button: ButtonStart})
	if s.State != 0xFF {
		t.Errorf("expected release to restore state, got 0x%02X", s.State)
	}
	s.Handle(Event{Button: ButtonStart, Pressed: true})
	if irq.Flag&interrupts.JoypadFlag == 0 {
		t.Errorf("expected a new press to request the joypad interrupt")
	}
}

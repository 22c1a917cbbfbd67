package serial

import (
	"bytes"
	"testing"

	"github.com/thelolagemann/pocketboy/internal/interrupts"
	"github.com/thelolagemann/pocketboy/internal/types"
)

func TestController_Transfer(t *testing.T) {
	h := types.NewHardwareRegisters()
	irq := interrupts.NewService(h)
	var out bytes.Buffer
	NewController(h, irq, &out)

	for _, b := range []byte("ok") {
		h.Write(types.SB, b)
		h.Write(types.SC, 0x81)
	}
	if out.String() != "ok" {
		t.Errorf("expected captured output %q, got %q", "ok", out.String())
	}
	if v := h.Read(types.SB); v != 0xFF {
		t.Errorf("expected SB to shift in 0xFF, got 0x%02X", v)
	}
	if v := h.Read(types.SC); v != 0x7F {
		t.Errorf("expected transfer flag to clear, got 0x%02X", v)
	}
	if irq.Flag&interrupts.SerialFlag == 0 {
		t.Errorf("expected serial interrupt")
	}
}

func TestController_ExternalClock(t *testing.T) {
	h := types.NewHardwareRegisters()
	irq := interrupts.NewService(h)
	NewController(h, irq, nil)

	h.Write(types.SB, 0x42)
	h.Write(types.SC, 0x80)
	if v := h.Read(types.SB); v != 0x42 {
		t.Errorf("expected slave transfer to wait for a partner, got 0x%02X", v)
	}
	if irq.Flag != 0 {
		t.Errorf("expected no interrupt")
	}
}

package cartridge

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/thelolagemann/pocketboy/pkg/platform"
)

const testEpoch = 1_700_000_000 * microsPerSecond

func newTestRTCCart(t *testing.T) (*Cartridge, *platform.ManualClock) {
	t.Helper()
	clock := platform.NewManualClock(testEpoch)
	c := New(newTestROM(MBC3TIMERRAMBATT, 4, 0x01, 0x02), WithClock(clock))
	c.Write(0x0000, 0x0A)
	return c, clock
}

func readRTC(c *Cartridge, reg uint8) uint8 {
	c.Write(0x4000, reg)
	return c.Read(0xA000)
}

func writeRTC(c *Cartridge, reg, value uint8) {
	c.Write(0x4000, reg)
	c.Write(0xA000, value)
}

func latch(c *Cartridge) {
	c.Write(0x6000, 0x00)
	c.Write(0x6000, 0x01)
}

func TestRTC_Advance(t *testing.T) {
	c, clock := newTestRTCCart(t)

	clock.Advance(90 * time.Second)
	latch(c)
	if m, s := readRTC(c, RTCMinutes), readRTC(c, RTCSeconds); m != 1 || s != 30 {
		t.Errorf("expected 1m30s, got %dm%ds", m, s)
	}

	// sub-second remainders are kept
	clock.Advance(1500 * time.Millisecond)
	latch(c)
	clock.Advance(500 * time.Millisecond)
	latch(c)
	if s := readRTC(c, RTCSeconds); s != 32 {
		t.Errorf("expected 32s, got %d", s)
	}
}

func TestRTC_LatchedShadow(t *testing.T) {
	c, clock := newTestRTCCart(t)

	// before a latch, reads follow the live registers
	clock.Advance(5 * time.Second)
	if s := readRTC(c, RTCSeconds); s != 5 {
		t.Errorf("expected live 5s, got %d", s)
	}

	latch(c)
	clock.Advance(10 * time.Second)
	if s := readRTC(c, RTCSeconds); s != 5 {
		t.Errorf("expected latched 5s, got %d", s)
	}

	// writing 1 without a preceding 0 does not latch
	c.Write(0x6000, 0x01)
	if s := readRTC(c, RTCSeconds); s != 5 {
		t.Errorf("expected latched 5s, got %d", s)
	}
	latch(c)
	if s := readRTC(c, RTCSeconds); s != 15 {
		t.Errorf("expected 15s, got %d", s)
	}
}

func TestRTC_DayCarry(t *testing.T) {
	c, clock := newTestRTCCart(t)

	writeRTC(c, RTCDayLow, 0xFF)
	writeRTC(c, RTCDayHigh, 0x01)
	writeRTC(c, RTCHours, 23)
	writeRTC(c, RTCMinutes, 59)
	writeRTC(c, RTCSeconds, 59)

	clock.Advance(time.Second)
	latch(c)
	if h, m, s := readRTC(c, RTCHours), readRTC(c, RTCMinutes), readRTC(c, RTCSeconds); h|m|s != 0 {
		t.Errorf("expected 00:00:00, got %02d:%02d:%02d", h, m, s)
	}
	if dl := readRTC(c, RTCDayLow); dl != 0 {
		t.Errorf("expected day 0, got %d", dl)
	}
	if dh := readRTC(c, RTCDayHigh); dh != 0x80 {
		t.Errorf("expected carry set and day bit 8 clear, got 0x%02X", dh)
	}
}

func TestRTC_LongAdvance(t *testing.T) {
	c, clock := newTestRTCCart(t)

	clock.Advance((3*24*time.Hour + 2*time.Hour + 3*time.Minute + 4*time.Second))
	latch(c)
	got := [4]uint8{readRTC(c, RTCDayLow), readRTC(c, RTCHours), readRTC(c, RTCMinutes), readRTC(c, RTCSeconds)}
	if got != [4]uint8{3, 2, 3, 4} {
		t.Errorf("expected 3d 02:03:04, got %v", got)
	}
}

func TestRTC_Halt(t *testing.T) {
	c, clock := newTestRTCCart(t)

	writeRTC(c, RTCDayHigh, 0x40)
	clock.Advance(time.Hour)
	latch(c)
	if s, m := readRTC(c, RTCSeconds), readRTC(c, RTCMinutes); s != 0 || m != 0 {
		t.Errorf("expected a halted clock to stay at 0, got %dm%ds", m, s)
	}

	// no time is attributed to the halted period
	writeRTC(c, RTCDayHigh, 0x00)
	clock.Advance(3 * time.Second)
	latch(c)
	if s, m := readRTC(c, RTCSeconds), readRTC(c, RTCMinutes); s != 3 || m != 0 {
		t.Errorf("expected 0m3s, got %dm%ds", m, s)
	}
}

func TestRTC_WriteMasks(t *testing.T) {
	c, _ := newTestRTCCart(t)

	writeRTC(c, RTCSeconds, 0xFF)
	writeRTC(c, RTCMinutes, 0xFF)
	writeRTC(c, RTCHours, 0xFF)
	writeRTC(c, RTCDayHigh, 0xFF)
	latch(c)

	for reg, want := range map[uint8]uint8{RTCSeconds: 0x3F, RTCMinutes: 0x3F, RTCHours: 0x1F, RTCDayHigh: 0xC1} {
		if v := readRTC(c, reg); v != want {
			t.Errorf("register 0x%02X: expected 0x%02X, got 0x%02X", reg, want, v)
		}
	}
}

func TestRTC_InvalidRegisters(t *testing.T) {
	c, clock := newTestRTCCart(t)

	// an out of range second counts up to its bit width
	writeRTC(c, RTCSeconds, 62)
	clock.Advance(2 * time.Second)
	latch(c)
	if s, m := readRTC(c, RTCSeconds), readRTC(c, RTCMinutes); s != 0 || m != 0 {
		t.Errorf("expected seconds to wrap without carry, got %dm%ds", m, s)
	}
}

func TestRTC_DisabledReads(t *testing.T) {
	c, _ := newTestRTCCart(t)
	c.Write(0x0000, 0x00)
	if v := readRTC(c, RTCSeconds); v != 0xFF {
		t.Errorf("expected 0xFF with the RTC disabled, got 0x%02X", v)
	}
}

func TestRTC_SaveLayout(t *testing.T) {
	c, clock := newTestRTCCart(t)
	c.Write(0x4000, 0x00)
	c.Write(0xA000, 0x5A)

	clock.Advance(61 * time.Second)
	latch(c)

	data := c.SaveRAM()
	if len(data) != 8*1024+rtcSaveSize {
		t.Fatalf("expected RAM plus 48 bytes, got %d", len(data))
	}
	if data[0] != 0x5A {
		t.Errorf("expected RAM first, got 0x%02X", data[0])
	}
	block := data[8*1024:]
	if s, m := binary.LittleEndian.Uint32(block[0:]), binary.LittleEndian.Uint32(block[4:]); s != 1 || m != 1 {
		t.Errorf("expected live 1m1s, got %dm%ds", m, s)
	}
	if s := binary.LittleEndian.Uint32(block[20:]); s != 1 {
		t.Errorf("expected latched 1s, got %d", s)
	}
	if ts := binary.LittleEndian.Uint64(block[40:]); ts != testEpoch/microsPerSecond+61 {
		t.Errorf("expected anchor %d, got %d", testEpoch/microsPerSecond+61, ts)
	}

	// a minute passes while powered off
	clock.Advance(time.Minute)
	restored := New(newTestROM(MBC3TIMERRAMBATT, 4, 0x01, 0x02), WithClock(clock))
	restored.LoadRAM(data)
	restored.Write(0x0000, 0x0A)
	latch(restored)
	if s, m := readRTC(restored, RTCSeconds), readRTC(restored, RTCMinutes); s != 1 || m != 2 {
		t.Errorf("expected 2m1s after reload, got %dm%ds", m, s)
	}
	restored.Write(0x4000, 0x00)
	if v := restored.Read(0xA000); v != 0x5A {
		t.Errorf("expected RAM restored, got 0x%02X", v)
	}
}

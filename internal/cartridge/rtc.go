package cartridge

import (
	"github.com/thelolagemann/pocketboy/internal/types"
	"github.com/thelolagemann/pocketboy/pkg/platform"
)

// RTC register selectors, as written to 0x4000-0x5FFF.
const (
	RTCSeconds uint8 = 0x08
	RTCMinutes uint8 = 0x09
	RTCHours   uint8 = 0x0A
	RTCDayLow  uint8 = 0x0B
	RTCDayHigh uint8 = 0x0C
)

const microsPerSecond = 1_000_000

type rtcRegisters struct {
	seconds uint8
	minutes uint8
	hours   uint8
	days    uint16 // 9 bits
	halt    bool
	carry   bool
}

// dayHigh returns the DH register, bit 0 holding bit 8 of the
// day counter, bit 6 the halt flag and bit 7 the day carry.
func (r rtcRegisters) dayHigh() uint8 {
	v := uint8(r.days>>8) & types.Bit0
	if r.halt {
		v |= types.Bit6
	}
	if r.carry {
		v |= types.Bit7
	}
	return v
}

func (r *rtcRegisters) setDayHigh(v uint8) {
	r.days = r.days&0xFF | uint16(v&types.Bit0)<<8
	r.halt = v&types.Bit6 != 0
	r.carry = v&types.Bit7 != 0
}

func (r rtcRegisters) read(reg uint8) uint8 {
	switch reg {
	case RTCSeconds:
		return r.seconds
	case RTCMinutes:
		return r.minutes
	case RTCHours:
		return r.hours
	case RTCDayLow:
		return uint8(r.days)
	case RTCDayHigh:
		return r.dayHigh()
	}
	return 0xFF
}

func (r rtcRegisters) valid() bool {
	return r.seconds < 60 && r.minutes < 60 && r.hours < 24
}

// tick advances the registers by a single second. Registers
// written out of range count up to their bit width before
// wrapping, without carrying into the next register.
func (r *rtcRegisters) tick() {
	r.seconds = (r.seconds + 1) & 0x3F
	if r.seconds != 60 {
		return
	}
	r.seconds = 0
	r.minutes = (r.minutes + 1) & 0x3F
	if r.minutes != 60 {
		return
	}
	r.minutes = 0
	r.hours = (r.hours + 1) & 0x1F
	if r.hours != 24 {
		return
	}
	r.hours = 0
	r.addDays(1)
}

func (r *rtcRegisters) addDays(n uint64) {
	days := uint64(r.days) + n
	if days >= 512 {
		days %= 512
		r.carry = true
	}
	r.days = uint16(days)
}

// advance applies the given number of whole seconds.
func (r *rtcRegisters) advance(seconds uint64) {
	for seconds > 0 && !r.valid() {
		r.tick()
		seconds--
	}
	if seconds == 0 {
		return
	}

	total := uint64(r.seconds) + seconds
	r.seconds = uint8(total % 60)
	total = uint64(r.minutes) + total/60
	r.minutes = uint8(total % 60)
	total = uint64(r.hours) + total/60
	r.hours = uint8(total % 24)
	if days := total / 24; days > 0 {
		r.addDays(days)
	}
}

// RTC is the MBC3 real time clock. Rather than ticking with
// the emulated machine it is advanced lazily from the host
// clock whenever it is accessed.
type RTC struct {
	live         rtcRegisters
	latched      rtcRegisters
	latchedValid bool

	// anchor is the host time, in microseconds, up to which
	// live has been advanced.
	anchor uint64
	clock  platform.Clock
}

func newRTC(clock platform.Clock) *RTC {
	return &RTC{
		clock:  clock,
		anchor: clock.Micros(),
	}
}

// advance moves the live registers forward by the whole
// seconds elapsed since the anchor.
func (r *RTC) advance() {
	now := r.clock.Micros()
	if r.live.halt || now < r.anchor {
		r.anchor = now
		return
	}

	elapsed := (now - r.anchor) / microsPerSecond
	if elapsed == 0 {
		return
	}
	r.anchor += elapsed * microsPerSecond
	r.live.advance(elapsed)
}

// Latch copies the live registers into the latched shadow.
func (r *RTC) Latch() {
	r.advance()
	r.latched = r.live
	r.latchedValid = true
}

// Read returns the value of the selected register.
func (r *RTC) Read(reg uint8) uint8 {
	r.advance()
	if r.latchedValid {
		return r.latched.read(reg)
	}
	return r.live.read(reg)
}

// Write sets the selected register.
func (r *RTC) Write(reg uint8, value uint8) {
	r.advance()
	switch reg {
	case RTCSeconds:
		r.live.seconds = value & 0x3F
		// writing the seconds resets the sub-second counter
		r.anchor = r.clock.Micros()
	case RTCMinutes:
		r.live.minutes = value & 0x3F
	case RTCHours:
		r.live.hours = value & 0x1F
	case RTCDayLow:
		r.live.days = r.live.days&0x100 | uint16(value)
	case RTCDayHigh:
		wasHalted := r.live.halt
		r.live.setDayHigh(value)
		if wasHalted != r.live.halt {
			r.anchor = r.clock.Micros()
		}
	}
}

var _ types.Stater = (*RTC)(nil)

// Load implements the types.Stater interface.
func (r *RTC) Load(s *types.State) {
	for _, regs := range []*rtcRegisters{&r.live, &r.latched} {
		regs.seconds = s.Read8()
		regs.minutes = s.Read8()
		regs.hours = s.Read8()
		regs.days = s.Read16()
		regs.halt = s.ReadBool()
		regs.carry = s.ReadBool()
	}
	r.latchedValid = s.ReadBool()
	r.anchor = s.Read64()
}

// Save implements the types.Stater interface.
func (r *RTC) Save(s *types.State) {
	for _, regs := range []rtcRegisters{r.live, r.latched} {
		s.Write8(regs.seconds)
		s.Write8(regs.minutes)
		s.Write8(regs.hours)
		s.Write16(regs.days)
		s.WriteBool(regs.halt)
		s.WriteBool(regs.carry)
	}
	s.WriteBool(r.latchedValid)
	s.Write64(r.anchor)
}

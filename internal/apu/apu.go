package apu

import (
	"github.com/thelolagemann/pocketboy/internal/types"
)

const (
	// clockSpeed is the number of T-cycles per second.
	clockSpeed = 4194304

	// DefaultSampleRate is the rate output samples are produced at,
	// unless overridden with WithSampleRate.
	DefaultSampleRate = 44100

	frameSequencerRate   = 512
	frameSequencerPeriod = clockSpeed / frameSequencerRate
)

// Sample is a single stereo output sample. Each side is the sum
// of the routed channel outputs scaled by the master volume.
type Sample struct {
	Left, Right uint8
}

// APU represents the GameBoy's audio processing unit. It comprises 4
// channels: 2 pulse channels, a wave channel and a noise channel. Each
// channel is controlled by a set of addresses.
//
// Channel 1 and 2 are both square channels. They can be used to play
// tones of different frequencies. Channel 3 is an arbitrary waveform
// channel that can be set in RAM. Channel 4 is a noise channel that
// can be used to play white noise.
type APU struct {
	enabled bool

	chan1 *channel1
	chan2 *channel2
	chan3 *channel3
	chan4 *channel4

	frameSequencerCounter uint32
	frameSequencerStep    uint8

	// NR50
	vinLeft, vinRight       bool
	volumeLeft, volumeRight uint8
	// NR51
	leftEnable, rightEnable [4]bool

	sampleRate    uint32
	sampleCounter uint64
	buffer        []Sample
}

// Opt configures an APU.
type Opt func(*APU)

// WithSampleRate sets the output sample rate in Hz.
func WithSampleRate(rate uint32) Opt {
	return func(a *APU) {
		if rate > 0 && rate <= clockSpeed {
			a.sampleRate = rate
		}
	}
}

// New returns a new APU, registering the sound registers with h.
// The APU starts powered on.
func New(h *types.HardwareRegisters, opts ...Opt) *APU {
	a := &APU{
		enabled:               true,
		frameSequencerCounter: frameSequencerPeriod,
		sampleRate:            DefaultSampleRate,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.buffer = make([]Sample, 0, a.sampleRate/60+1)

	a.chan1 = newChannel1(a, h)
	a.chan2 = newChannel2(a, h)
	a.chan3 = newChannel3(a, h)
	a.chan4 = newChannel4(a, h)

	h.RegisterHardware(types.NR50, writeEnabled(a, func(v uint8) {
		a.vinLeft = v&types.Bit7 != 0
		a.volumeLeft = (v >> 4) & 0x7
		a.vinRight = v&types.Bit3 != 0
		a.volumeRight = v & 0x7
	}), a.readNR50)
	h.RegisterHardware(types.NR51, writeEnabled(a, func(v uint8) {
		for i := uint8(0); i < 4; i++ {
			a.rightEnable[i] = types.Test(v, i)
			a.leftEnable[i] = types.Test(v, i+4)
		}
	}), a.readNR51)
	h.RegisterHardware(types.NR52, func(v uint8) {
		power := v&types.Bit7 != 0
		if !power && a.enabled {
			a.powerOff()
		}
		a.enabled = power
	}, a.readNR52)

	a.skipBoot()
	return a
}

// skipBoot sets NR50 and NR51 to the values the DMG boot ROM
// leaves them in.
func (a *APU) skipBoot() {
	a.volumeLeft, a.volumeRight = 7, 7
	for i := uint8(0); i < 4; i++ {
		a.rightEnable[i] = types.Test(0xF3, i)
		a.leftEnable[i] = types.Test(0xF3, i+4)
	}
}

// Boot resets the mixer to power on, for a machine that runs
// the boot ROM.
func (a *APU) Boot() {
	a.volumeLeft, a.volumeRight = 0, 0
	a.leftEnable = [4]bool{}
	a.rightEnable = [4]bool{}
}

func (a *APU) readNR50() uint8 {
	b := a.volumeLeft<<4 | a.volumeRight
	if a.vinLeft {
		b |= types.Bit7
	}
	if a.vinRight {
		b |= types.Bit3
	}
	return b
}

func (a *APU) readNR51() uint8 {
	var b uint8
	for i := uint8(0); i < 4; i++ {
		if a.rightEnable[i] {
			b = types.Set(b, i)
		}
		if a.leftEnable[i] {
			b = types.Set(b, i+4)
		}
	}
	return b
}

func (a *APU) readNR52() uint8 {
	b := types.Bool(a.enabled)<<7 | 0x70
	for i, on := range [4]bool{a.chan1.enabled, a.chan2.enabled, a.chan3.enabled, a.chan4.enabled} {
		if on {
			b |= 1 << i
		}
	}
	return b
}

// powerOff silences every channel and clears all registers other
// than wave RAM.
func (a *APU) powerOff() {
	a.chan1.reset()
	a.chan2.reset()
	a.chan3.reset()
	a.chan4.reset()

	a.vinLeft, a.vinRight = false, false
	a.volumeLeft, a.volumeRight = 0, 0
	a.leftEnable = [4]bool{}
	a.rightEnable = [4]bool{}
}

// Enabled returns true if the APU is powered on.
func (a *APU) Enabled() bool {
	return a.enabled
}

// Tick advances the APU by the given number of T-cycles, producing
// output samples at the configured sample rate.
func (a *APU) Tick(cycles uint16) {
	remaining := uint32(cycles)
	for remaining > 0 {
		step := remaining
		if a.frameSequencerCounter < step {
			step = a.frameSequencerCounter
		}
		if s := a.cyclesUntilSample(); s < step {
			step = s
		}

		a.chan1.tick(step)
		a.chan2.tick(step)
		a.chan3.tick(step)
		a.chan4.tick(step)

		remaining -= step

		// the frame sequencer keeps running while powered off
		a.frameSequencerCounter -= step
		if a.frameSequencerCounter == 0 {
			a.frameSequencerCounter = frameSequencerPeriod
			a.stepFrameSequencer()
		}

		a.sampleCounter += uint64(step) * uint64(a.sampleRate)
		if a.sampleCounter >= clockSpeed {
			a.sampleCounter -= clockSpeed
			a.buffer = append(a.buffer, a.mix())
		}
	}
}

// cyclesUntilSample returns the number of cycles until the next
// output sample is due, which is always at least 1.
func (a *APU) cyclesUntilSample() uint32 {
	rate := uint64(a.sampleRate)
	return uint32((clockSpeed - a.sampleCounter + rate - 1) / rate)
}

// stepFrameSequencer clocks the 512 Hz frame sequencer.
//
//	Step   Length Ctr  Vol Env     Sweep
//	---------------------------------------
//	0      Clock       -           -
//	2      Clock       -           Clock
//	4      Clock       -           -
//	6      Clock       -           Clock
//	7      -           Clock       -
func (a *APU) stepFrameSequencer() {
	switch a.frameSequencerStep {
	case 0, 4:
		a.lengthTick()
	case 2, 6:
		a.lengthTick()
		a.chan1.sweepTick()
	case 7:
		a.chan1.envelopeTick()
		a.chan2.envelopeTick()
		a.chan4.envelopeTick()
	}
	a.frameSequencerStep = (a.frameSequencerStep + 1) & 7
}

func (a *APU) lengthTick() {
	a.chan1.lengthTick()
	a.chan2.lengthTick()
	a.chan3.lengthTick()
	a.chan4.lengthTick()
}

// mix combines the four channel outputs into a stereo sample,
// following the routing of NR51 and the volume of NR50.
func (a *APU) mix() Sample {
	if !a.enabled {
		return Sample{}
	}
	outputs := [4]uint8{a.chan1.output(), a.chan2.output(), a.chan3.output(), a.chan4.output()}

	var left, right uint32
	for i, out := range outputs {
		if a.leftEnable[i] {
			left += uint32(out)
		}
		if a.rightEnable[i] {
			right += uint32(out)
		}
	}
	return Sample{
		Left:  scale(left, a.volumeLeft),
		Right: scale(right, a.volumeRight),
	}
}

func scale(sum uint32, volume uint8) uint8 {
	v := sum * uint32(volume) / 7
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Samples returns the samples produced since the last call. The
// returned slice is only valid until the next call to Tick.
func (a *APU) Samples() []Sample {
	samples := a.buffer
	a.buffer = a.buffer[:0]
	return samples
}

// Load implements types.Stater.
func (a *APU) Load(s *types.State) {
	a.enabled = s.ReadBool()
	a.chan1.load(s)
	a.chan2.load(s)
	a.chan3.load(s)
	a.chan4.load(s)
	a.frameSequencerCounter = s.Read32()
	a.frameSequencerStep = s.Read8()

	nr50, nr51 := s.Read8(), s.Read8()
	a.vinLeft = nr50&types.Bit7 != 0
	a.volumeLeft = (nr50 >> 4) & 0x7
	a.vinRight = nr50&types.Bit3 != 0
	a.volumeRight = nr50 & 0x7
	for i := uint8(0); i < 4; i++ {
		a.rightEnable[i] = types.Test(nr51, i)
		a.leftEnable[i] = types.Test(nr51, i+4)
	}
	a.sampleCounter = s.Read64()

	if a.sampleCounter >= clockSpeed {
		a.sampleCounter = 0
	}
	if a.frameSequencerCounter == 0 || a.frameSequencerCounter > frameSequencerPeriod {
		a.frameSequencerCounter = frameSequencerPeriod
	}
	a.buffer = a.buffer[:0]
}

// Save implements types.Stater.
func (a *APU) Save(s *types.State) {
	s.WriteBool(a.enabled)
	a.chan1.save(s)
	a.chan2.save(s)
	a.chan3.save(s)
	a.chan4.save(s)
	s.Write32(a.frameSequencerCounter)
	s.Write8(a.frameSequencerStep)
	s.Write8(a.readNR50())
	s.Write8(a.readNR51())
	s.Write64(a.sampleCounter)
}

var _ types.Stater = (*APU)(nil)

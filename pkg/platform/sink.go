package platform

import (
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/thelolagemann/pocketboy/internal/apu"
	"github.com/thelolagemann/pocketboy/internal/ppu"
)

// Discard is a FrameSink and AudioSink that drops everything.
var Discard discard

type discard struct{}

func (discard) DrawFrame(*ppu.Frame) error     { return nil }
func (discard) PlaySamples([]apu.Sample) error { return nil }

// MultiSink fans frames and samples out to several sinks.
// Every sink is called even when an earlier one fails.
type MultiSink struct {
	Frames []FrameSink
	Audio  []AudioSink
}

// DrawFrame implements FrameSink.
func (m *MultiSink) DrawFrame(frame *ppu.Frame) error {
	var result error
	for _, s := range m.Frames {
		if err := s.DrawFrame(frame); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

// PlaySamples implements AudioSink.
func (m *MultiSink) PlaySamples(samples []apu.Sample) error {
	var result error
	for _, s := range m.Audio {
		if err := s.PlaySamples(samples); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

// Close closes every sink that is an io.Closer, once.
func (m *MultiSink) Close() error {
	var result error
	seen := make(map[interface{}]bool)
	closeSink := func(s interface{}) {
		c, ok := s.(io.Closer)
		if !ok || seen[s] {
			return
		}
		seen[s] = true
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, s := range m.Frames {
		closeSink(s)
	}
	for _, s := range m.Audio {
		closeSink(s)
	}
	return result
}

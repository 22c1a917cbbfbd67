// Package plot renders captured audio as a waveform image.
package plot

import (
	"fmt"
	"io"

	"github.com/thelolagemann/pocketboy/internal/apu"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Capture is an AudioSink that keeps the first Max samples it
// receives.
type Capture struct {
	Max     int
	samples []apu.Sample
}

// NewCapture returns a Capture holding up to n samples.
func NewCapture(n int) *Capture {
	return &Capture{Max: n, samples: make([]apu.Sample, 0, n)}
}

// PlaySamples implements platform.AudioSink.
func (c *Capture) PlaySamples(samples []apu.Sample) error {
	if n := c.Max - len(c.samples); n > 0 {
		if len(samples) > n {
			samples = samples[:n]
		}
		c.samples = append(c.samples, samples...)
	}
	return nil
}

// Samples returns the captured samples.
func (c *Capture) Samples() []apu.Sample {
	return c.samples
}

// Waveform returns a plot of the left and right channels of
// samples against the sample index.
func Waveform(title string, samples []apu.Sample) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Sample"
	p.Y.Label.Text = "Amplitude"
	p.Y.Min, p.Y.Max = 0, 255

	left := make(plotter.XYs, len(samples))
	right := make(plotter.XYs, len(samples))
	for i, s := range samples {
		left[i].X, left[i].Y = float64(i), float64(s.Left)
		right[i].X, right[i].Y = float64(i), float64(s.Right)
	}

	for i, xys := range []plotter.XYs{left, right} {
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("plot: %w", err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add([]string{"left", "right"}[i], line)
	}

	return p, nil
}

// WritePNG draws p into a width by height PNG written to w.
func WritePNG(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	c := vgimg.PngCanvas{Canvas: vgimg.New(width, height)}
	p.Draw(draw.New(c))
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	return nil
}

// Package wav provides an AudioSink that records samples to a
// WAV file. Samples are written as they arrive, the header is
// completed when the recorder is closed.
package wav

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hashicorp/go-multierror"
	"github.com/thelolagemann/pocketboy/internal/apu"
)

const (
	bitDepth  = 8
	channels  = 2
	formatPCM = 1
)

// Recorder implements platform.AudioSink.
type Recorder struct {
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	closer io.Closer
	count  int
}

// NewRecorder returns a Recorder writing unsigned 8 bit stereo
// samples at sampleRate to w.
func NewRecorder(w io.WriteSeeker, sampleRate uint32) *Recorder {
	return &Recorder{
		enc: wav.NewEncoder(w, int(sampleRate), bitDepth, channels, formatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: int(sampleRate)},
			SourceBitDepth: bitDepth,
		},
	}
}

// Create returns a Recorder writing to a new file at path, which
// is closed with the recorder.
func Create(path string, sampleRate uint32) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	r := NewRecorder(f, sampleRate)
	r.closer = f
	return r, nil
}

// PlaySamples implements platform.AudioSink.
func (r *Recorder) PlaySamples(samples []apu.Sample) error {
	r.buf.Data = r.buf.Data[:0]
	for _, s := range samples {
		r.buf.Data = append(r.buf.Data, int(s.Left), int(s.Right))
	}
	if err := r.enc.Write(r.buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	r.count += len(samples)
	return nil
}

// Samples returns the number of stereo samples recorded.
func (r *Recorder) Samples() int {
	return r.count
}

// Close finishes the WAV header, and closes the file if the
// recorder was made by Create.
func (r *Recorder) Close() error {
	var result error
	if err := r.enc.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("wav: %w", err))
	}
	if r.closer != nil {
		if err := r.closer.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result
}

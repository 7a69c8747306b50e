// Package probe turns the height of one surface vertex into sound: a
// recorder for offline WAV export and a live PCM stream for the viewer.
package probe

import (
	"errors"
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// ErrNoSamples is returned when exporting a recorder that never sampled.
var ErrNoSamples = errors.New("probe: no samples recorded")

// HeightSource is the part of a wave surface a probe reads.
type HeightSource interface {
	RowCount() int
	ColumnCount() int
	Height(row, col int) float32
}

// Recorder keeps the height history of a single vertex.
type Recorder struct {
	src      HeightSource
	row, col int

	samples []float32
	peak    float32
}

// NewRecorder probes (row, col) of src.
func NewRecorder(src HeightSource, row, col int) (*Recorder, error) {
	if row < 0 || col < 0 || row >= src.RowCount() || col >= src.ColumnCount() {
		return nil, fmt.Errorf("probe (%d,%d) outside %dx%d grid", row, col, src.RowCount(), src.ColumnCount())
	}
	return &Recorder{src: src, row: row, col: col}, nil
}

// Position returns the probed vertex.
func (r *Recorder) Position() (row, col int) { return r.row, r.col }

// Sample appends the current height of the probed vertex and returns it.
func (r *Recorder) Sample() float32 {
	h := r.src.Height(r.row, r.col)
	r.samples = append(r.samples, h)
	if a := math32.Abs(h); a > r.peak {
		r.peak = a
	}
	return h
}

// Samples exposes the recorded heights.
func (r *Recorder) Samples() []float32 { return r.samples }

// Len returns the number of recorded samples.
func (r *Recorder) Len() int { return len(r.samples) }

// Peak returns the largest absolute height seen so far.
func (r *Recorder) Peak() float32 { return r.peak }

// Streamer plays the recording back normalised to the peak height, the same
// value on both channels. It stops after the last sample.
func (r *Recorder) Streamer() beep.Streamer {
	gain := 0.0
	if r.peak > 0 {
		gain = 1 / float64(r.peak)
	}
	return &playback{samples: r.samples, gain: gain}
}

// WriteWAV encodes the recording as 16-bit stereo PCM at the given rate, one
// recorded sample per audio frame.
func (r *Recorder) WriteWAV(w io.WriteSeeker, rate beep.SampleRate) error {
	if len(r.samples) == 0 {
		return ErrNoSamples
	}
	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(w, r.Streamer(), format); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	return nil
}

type playback struct {
	samples []float32
	gain    float64
	pos     int
}

func (p *playback) Stream(samples [][2]float64) (n int, ok bool) {
	if p.pos >= len(p.samples) {
		return 0, false
	}
	for i := range samples {
		if p.pos >= len(p.samples) {
			return i, true
		}
		v := float64(p.samples[p.pos]) * p.gain
		samples[i][0] = v
		samples[i][1] = v
		p.pos++
	}
	return len(samples), true
}

func (p *playback) Err() error { return nil }

package probe

import (
	"encoding/binary"
	"sync"
)

// LiveSampleRate is the rate the viewer opens its audio context with.
const LiveSampleRate = 48000

// dcAlpha sets how quickly the stream follows a slowly drifting rest level.
const dcAlpha = 0.001

// LiveStream is an io.Reader of 16-bit little-endian stereo PCM that repeats
// the most recent probe value until the next one arrives.
type LiveStream struct {
	mu     sync.Mutex
	gain   float32
	sample float32
	dc     float32
}

// NewLiveStream returns a stream that multiplies incoming heights by gain.
func NewLiveStream(gain float32) *LiveStream {
	if gain <= 0 {
		gain = 1
	}
	return &LiveStream{gain: gain}
}

// SetSample publishes a new probe height.
func (s *LiveStream) SetSample(h float32) {
	v := h * s.gain
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	s.mu.Lock()
	s.dc += dcAlpha * (v - s.dc)
	s.sample = v - s.dc
	s.mu.Unlock()
}

// Current returns the DC-corrected value the stream is emitting.
func (s *LiveStream) Current() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sample
}

// Read fills p with whole stereo frames.
func (s *LiveStream) Read(p []byte) (int, error) {
	frameBytes := len(p) - len(p)%4
	if frameBytes == 0 {
		return 0, nil
	}
	v := uint16(int16(s.Current() * 32767))
	for i := 0; i < frameBytes; i += 4 {
		binary.LittleEndian.PutUint16(p[i:], v)
		binary.LittleEndian.PutUint16(p[i+2:], v)
	}
	return frameBytes, nil
}

// Close satisfies io.ReadCloser.
func (s *LiveStream) Close() error { return nil }

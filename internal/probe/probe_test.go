package probe

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ripples/internal/waves"
)

func newSurface(t *testing.T) *waves.Waves {
	t.Helper()
	w, err := waves.New(24, 24, 2, 0.03, 4, 0.2)
	require.NoError(t, err)
	return w
}

func TestRecorderRejectsOutsideProbe(t *testing.T) {
	w := newSurface(t)
	_, err := NewRecorder(w, 24, 0)
	assert.Error(t, err)
	_, err = NewRecorder(w, -1, 3)
	assert.Error(t, err)
}

func TestRecorderTracksPeak(t *testing.T) {
	w := newSurface(t)
	w.MustDisturb(12, 12, 0.5)
	rec, err := NewRecorder(w, 12, 12)
	require.NoError(t, err)

	assert.Equal(t, float32(0.5), rec.Sample())
	for i := 0; i < 30; i++ {
		w.Update(0.03)
		rec.Sample()
	}
	assert.Equal(t, 31, rec.Len())
	var peak float32
	for _, h := range rec.Samples() {
		peak = max(peak, h, -h)
	}
	assert.Equal(t, peak, rec.Peak())
	assert.Greater(t, rec.Peak(), float32(0.5), "the first step lifts the impulse")
}

func TestStreamerNormalisesAndEnds(t *testing.T) {
	w := newSurface(t)
	w.MustDisturb(12, 12, 0.25)
	rec, err := NewRecorder(w, 12, 12)
	require.NoError(t, err)
	rec.Sample()
	w.Update(0.03)
	rec.Sample()

	s := rec.Streamer()
	buf := make([][2]float64, 8)
	n, ok := s.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	assert.InDelta(t, 1.0, buf[1][0], 1e-6, "the second sample is the peak")
	assert.Equal(t, buf[1][0], buf[1][1])
	assert.InDelta(t, 0.5, buf[0][0], 0.01)
	for _, frame := range buf[:n] {
		assert.LessOrEqual(t, frame[0], 1.0)
		assert.GreaterOrEqual(t, frame[0], -1.0)
	}
	n, ok = s.Stream(buf)
	assert.False(t, ok)
	assert.Zero(t, n)
	assert.NoError(t, s.Err())
}

func TestWriteWAV(t *testing.T) {
	w := newSurface(t)
	rec, err := NewRecorder(w, 12, 12)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "probe.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	assert.ErrorIs(t, rec.WriteWAV(f, 8000), ErrNoSamples)

	w.MustDisturb(12, 12, 0.3)
	for i := 0; i < 100; i++ {
		rec.Sample()
		w.Update(0.03)
	}
	require.NoError(t, rec.WriteWAV(f, 8000))
	require.NoError(t, f.Close())

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()
	stream, format, err := wav.Decode(in)
	require.NoError(t, err)
	defer stream.Close()
	assert.Equal(t, beep.SampleRate(8000), format.SampleRate)
	assert.Equal(t, 2, format.NumChannels)
	assert.Equal(t, 2, format.Precision)
	assert.Equal(t, 100, stream.Len())
}

func TestLiveStreamFrames(t *testing.T) {
	s := NewLiveStream(2)
	s.SetSample(0.25)
	v := s.Current()
	assert.InDelta(t, 0.5*(1-dcAlpha), v, 1e-6)

	buf := make([]byte, 10)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 8, n, "only whole stereo frames are written")
	want := int16(v * 32767)
	for i := 0; i < n; i += 2 {
		assert.Equal(t, want, int16(binary.LittleEndian.Uint16(buf[i:])))
	}

	n, err = s.Read(buf[:3])
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, s.Close())
}

func TestLiveStreamClampsAndRemovesDrift(t *testing.T) {
	s := NewLiveStream(1)
	for i := 0; i < 20000; i++ {
		s.SetSample(5)
	}
	assert.InDelta(t, 0, s.Current(), 0.01, "a constant level decays to silence")
}

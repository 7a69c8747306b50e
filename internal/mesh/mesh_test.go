package mesh

import (
	"context"
	"encoding/binary"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ripples/internal/vmath"
	"ripples/internal/waves"
)

func TestGridIndicesLayout(t *testing.T) {
	indices, err := GridIndices(3, 3)
	require.NoError(t, err)
	require.Len(t, indices, 3*8)
	assert.Equal(t, []uint16{0, 1, 3, 3, 1, 4}, indices[:6])
	assert.Equal(t, []uint16{4, 5, 7, 7, 5, 8}, indices[18:])
}

func TestGridIndicesMatchesTriangleCount(t *testing.T) {
	w, err := waves.New(200, 200, 2, 0.03, 4, 0.2)
	require.NoError(t, err)
	indices, err := GridIndices(w.RowCount(), w.ColumnCount())
	require.NoError(t, err)
	assert.Len(t, indices, 3*w.TriangleCount())
	for _, i := range indices {
		require.Less(t, int(i), w.VertexCount())
	}
}

func TestGridIndicesRejectsLargeGrids(t *testing.T) {
	_, err := GridIndices(255, 257)
	assert.ErrorIs(t, err, ErrTooManyVertices)
	_, err = GridIndices(1, 10)
	assert.Error(t, err)
}

func TestCopySurfaceDerivesTexcoords(t *testing.T) {
	w, err := waves.New(11, 9, 2, 0.03, 4, 0.2)
	require.NoError(t, err)
	w.MustDisturb(5, 4, 0.5)
	w.Update(0.03)

	dst := make([]Vertex, w.VertexCount())
	require.Equal(t, w.VertexCount(), CopySurface(dst, w, [2]float32{}))

	first := dst[0]
	assert.InDelta(t, 0.5-8.0/18.0, first.TexC[0], 1e-6)
	assert.InDelta(t, 0.5-10.0/22.0, first.TexC[1], 1e-6)
	assert.Equal(t, vmath.Up, first.Normal)

	centre := dst[5*9+4]
	assert.Equal(t, w.Position(5*9+4), centre.Pos)
	assert.Greater(t, centre.Pos.Y, float32(0))

	short := make([]Vertex, 4)
	assert.Equal(t, 4, CopySurface(short, w, [2]float32{}))
}

func TestCopySurfaceAppliesScroll(t *testing.T) {
	w, err := waves.New(11, 9, 2, 0.03, 4, 0.2)
	require.NoError(t, err)
	plain := make([]Vertex, w.VertexCount())
	scrolled := make([]Vertex, w.VertexCount())
	CopySurface(plain, w, [2]float32{})
	CopySurface(scrolled, w, [2]float32{0.25, 0.5})
	for i := range plain {
		require.InDelta(t, plain[i].TexC[0]+0.25, scrolled[i].TexC[0], 1e-6)
		require.InDelta(t, plain[i].TexC[1]+0.5, scrolled[i].TexC[1], 1e-6)
	}
}

func TestTexScrollWraps(t *testing.T) {
	s := NewTexScroll(DefaultScrollU, DefaultScrollV)
	assert.Equal(t, [2]float32{}, s.Offset())

	s.Advance(2.5)
	assert.InDelta(t, 0.25, s.U, 1e-6)
	assert.InDelta(t, 0.05, s.V, 1e-6)

	for i := 0; i < 8; i++ {
		s.Advance(1)
	}
	assert.InDelta(t, 0.05, s.U, 1e-5, "1.05 wraps past 1")
	assert.InDelta(t, 0.21, s.V, 1e-5)

	s.Advance(40)
	assert.InDelta(t, 0.05, s.U, 1e-4, "a long frame wraps several times")
	assert.InDelta(t, 0.01, s.V, 1e-4)
	assert.GreaterOrEqual(t, s.U, float32(0))
	assert.Less(t, s.U, float32(1))

	back := NewTexScroll(-0.5, 0)
	back.Advance(1)
	assert.InDelta(t, 0.5, back.U, 1e-6, "negative rates wrap into [0, 1)")

	s.Reset()
	assert.Equal(t, [2]float32{}, s.Offset())
}

func TestFrameRingCyclesAndWaits(t *testing.T) {
	ring := NewFrameRing(FrameResources, 4)
	fence := NewCounterFence()
	ctx := context.Background()

	var values []uint64
	for i := 0; i < FrameResources; i++ {
		fr, err := ring.Acquire(ctx, fence)
		require.NoError(t, err)
		assert.Len(t, fr.Vertices, 4)
		v := fence.Next()
		ring.Submit(v)
		values = append(values, v)
	}
	assert.Equal(t, FrameResources-1, ring.Index())

	done := make(chan struct{})
	go func() {
		defer close(done)
		fr, err := ring.Acquire(ctx, fence)
		assert.NoError(t, err)
		assert.Equal(t, values[0], fr.Fence)
	}()

	select {
	case <-done:
		t.Fatal("acquire must wait for the oldest frame")
	case <-time.After(20 * time.Millisecond):
	}
	fence.Signal(values[0])
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquire did not resume after signal")
	}
	assert.Equal(t, 0, ring.Index())
}

func TestFrameRingHonoursContext(t *testing.T) {
	ring := NewFrameRing(1, 1)
	fence := NewCounterFence()
	_, err := ring.Acquire(context.Background(), fence)
	require.NoError(t, err)
	ring.Submit(fence.Next())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = ring.Acquire(ctx, fence)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEncodePacksVertices(t *testing.T) {
	vs := []Vertex{{
		Pos:    vmath.Vec3{X: 1, Y: 2, Z: 3},
		Normal: vmath.Up,
		TexC:   [2]float32{0.25, 0.75},
	}}
	buf := Encode(nil, vs)
	require.Len(t, buf, VertexStride)
	read := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	assert.Equal(t, float32(2), read(4))
	assert.Equal(t, float32(1), read(16))
	assert.Equal(t, float32(0.75), read(28))

	ib := EncodeIndices(nil, []uint16{1, 513})
	assert.Equal(t, []byte{1, 0, 1, 2}, ib)
}

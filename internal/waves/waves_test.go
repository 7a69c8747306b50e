package waves

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ripples/internal/core"
	"ripples/internal/vmath"
)

func newSurface(t *testing.T) *Waves {
	t.Helper()
	w, err := New(200, 200, 2.0, 0.03, 4.0, 0.2)
	require.NoError(t, err)
	return w
}

func oneStep(w *Waves) int { return w.Update(float64(w.TimeStep())) }

func TestCounts(t *testing.T) {
	for _, dims := range [][2]int{{3, 3}, {200, 200}, {17, 41}} {
		w, err := New(dims[0], dims[1], 1, 0.01, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, dims[0]*dims[1], w.VertexCount())
		assert.Equal(t, 2*(dims[0]-1)*(dims[1]-1), w.TriangleCount())
		assert.Equal(t, dims[0], w.RowCount())
		assert.Equal(t, dims[1], w.ColumnCount())
	}
}

func TestNewRejectsBadArguments(t *testing.T) {
	_, err := New(2, 10, 1, 0.01, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidGrid)
	_, err = New(10, 10, 0, 0.01, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidGrid)
	_, err = New(10, 10, 1, 0.5, 4, 0)
	assert.ErrorIs(t, err, ErrUnstable)
	_, err = New(10, 10, 1, 0.01, 1, -1)
	assert.ErrorIs(t, err, ErrUnstable)
}

func TestCoefficients(t *testing.T) {
	c := ComputeCoefficients(2.0, 0.03, 4.0, 0.2)
	assert.InDelta(t, (0.2*0.03-2)/(0.2*0.03+2), c.K1, 1e-6)
	assert.InDelta(t, (4-8*0.0036)/2.006, c.K2, 1e-6)
	assert.InDelta(t, 2*0.0036/2.006, c.K3, 1e-6)
}

func TestUndisturbedSurfaceStaysFlat(t *testing.T) {
	w, err := New(40, 30, 2.0, 0.03, 4.0, 0.2)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		w.Update(1.0 / 60.0)
	}
	assert.NotZero(t, w.Steps())
	for i, h := range w.Heights() {
		require.Zerof(t, h, "vertex %d drifted", i)
		require.Equal(t, vmath.Up, w.Normal(i))
	}
}

func TestUpdateWaitsForFullStep(t *testing.T) {
	w := newSurface(t)
	assert.Equal(t, 0, w.Update(0.01))
	assert.Equal(t, 0, w.Update(0.01))
	assert.Equal(t, 1, w.Update(0.015))
	assert.Equal(t, 3, w.Update(0.09))
}

func TestDisturbThenStepScenario(t *testing.T) {
	w := newSurface(t)
	const mag = float32(0.3)
	require.NoError(t, w.Disturb(100, 100, mag))
	require.Equal(t, 1, oneStep(w))

	c := w.Coefficients()
	center := w.Height(100, 100)
	assert.InDelta(t, mag*(c.K2+2*c.K3), center, 1e-6)

	maxHeight := w.Stats().Max
	assert.Equal(t, maxHeight, center, "centre must be the largest height")
	for i, h := range w.Heights() {
		row, col := w.Grid().Coords(i)
		if row == 100 && col == 100 {
			continue
		}
		require.Lessf(t, h, center, "vertex (%d,%d) not below centre", row, col)
	}

	for _, n := range [][2]int{{99, 100}, {101, 100}, {100, 99}, {100, 101}} {
		h := w.Height(n[0], n[1])
		assert.InDeltaf(t, center/2, h, 1e-6, "neighbour %v", n)
		assert.InDeltaf(t, mag/2*c.K2+mag*c.K3, h, 1e-6, "neighbour %v", n)
	}
}

func TestDisturbIncreasesMagnitudeOverBaseline(t *testing.T) {
	rng := core.NewRNG(5)
	for trial := 0; trial < 20; trial++ {
		row := rng.IntRange(DisturbMargin, 200-1-DisturbMargin)
		col := rng.IntRange(DisturbMargin, 200-1-DisturbMargin)
		mag := rng.Float32Range(0.1, 0.3)

		baseline := newSurface(t)
		disturbed := newSurface(t)
		require.NoError(t, disturbed.Disturb(row, col, mag))
		oneStep(baseline)
		oneStep(disturbed)

		for _, d := range [][2]int{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			r, cc := row+d[0], col+d[1]
			base := baseline.Height(r, cc)
			got := disturbed.Height(r, cc)
			assert.Greaterf(t, abs32(got), abs32(base), "cell (%d,%d)", r, cc)
		}
	}
}

func TestDisturbRejectsBorderCells(t *testing.T) {
	w := newSurface(t)
	for _, cell := range [][2]int{{3, 100}, {100, 3}, {196, 100}, {100, 196}, {0, 0}, {-1, 50}, {250, 50}} {
		err := w.Disturb(cell[0], cell[1], 1)
		assert.ErrorIsf(t, err, ErrDisturbOutOfRange, "cell %v", cell)
		assert.False(t, w.CanDisturb(cell[0], cell[1]))
	}
	assert.Zero(t, w.Stats().Energy, "rejected disturbances must not touch the surface")

	assert.NoError(t, w.Disturb(4, 4, 1))
	assert.NoError(t, w.Disturb(195, 195, 1))
	assert.Panics(t, func() { w.MustDisturb(2, 100, 1) })
}

func TestStepsAreFrameRateIndependent(t *testing.T) {
	build := func() *Waves {
		w, err := New(64, 64, 2.0, 0.0625, 4.0, 0.2)
		require.NoError(t, err)
		require.NoError(t, w.Disturb(32, 32, 0.3))
		require.NoError(t, w.Disturb(20, 40, 0.2))
		return w
	}
	fine := build()
	coarse := build()
	for i := 0; i < 64; i++ {
		fine.Update(1.0 / 64.0)
	}
	for i := 0; i < 4; i++ {
		coarse.Update(0.25)
	}

	require.Equal(t, coarse.Steps(), fine.Steps())
	assert.EqualValues(t, 16, fine.Steps())
	assert.InDeltaSlice(t, coarse.Heights(), fine.Heights(), 1e-6)
	for i := 0; i < fine.VertexCount(); i++ {
		require.True(t, fine.Normal(i).ApproxEqual(coarse.Normal(i), 1e-6))
	}
}

func TestDecimalTimeStepAdvancesExactly(t *testing.T) {
	for _, step := range []float64{0.05, 0.1, 0.2, 0.3} {
		w, err := New(20, 20, 2, float32(step), 1, 0.2)
		require.NoError(t, err)
		assert.Equal(t, 1, w.Update(step), "one step of %v", step)
		assert.Equal(t, 3, w.Update(3*step), "three steps of %v", step)
	}

	w, err := New(20, 20, 2, 0.1, 1, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 2, w.Update(0.2))
	total := 0
	for i := 0; i < 20; i++ {
		total += w.Update(0.01)
	}
	assert.Equal(t, 2, total)
	assert.EqualValues(t, 4, w.Steps())
}

func TestBorderNormalsStayUp(t *testing.T) {
	w := newSurface(t)
	rng := core.NewRNG(11)
	for frame := 0; frame < 200; frame++ {
		if frame%8 == 0 {
			w.MustDisturb(rng.IntRange(6, 195), rng.IntRange(6, 195), rng.Float32Range(0.1, 0.3))
		}
		w.Update(1.0 / 60.0)
	}
	g := w.Grid()
	for i := 0; i < w.VertexCount(); i++ {
		row, col := g.Coords(i)
		if g.Interior(row, col) {
			continue
		}
		require.Equalf(t, vmath.Up, w.Normal(i), "border vertex (%d,%d)", row, col)
		require.Equal(t, vmath.UnitX, w.TangentX(i))
	}
}

func TestInteriorNormalsTiltAwayFromCrest(t *testing.T) {
	w := newSurface(t)
	w.MustDisturb(100, 100, 0.3)
	oneStep(w)

	g := w.Grid()
	east := w.Normal(g.Index(100, 102))
	west := w.Normal(g.Index(100, 98))
	assert.Greater(t, east.X, float32(0))
	assert.Less(t, west.X, float32(0))
	assert.InDelta(t, 1, east.Length(), 1e-5)

	south := w.Normal(g.Index(102, 100))
	assert.Less(t, south.Z, float32(0), "rows grow towards -Z so the slope faces -Z")
}

func TestPositionsAreCentred(t *testing.T) {
	w, err := New(5, 9, 2.0, 0.03, 4.0, 0.2)
	require.NoError(t, err)
	first := w.Position(0)
	last := w.Position(w.VertexCount() - 1)
	assert.Equal(t, vmath.Vec3{X: -8, Y: 0, Z: 4}, first)
	assert.Equal(t, vmath.Vec3{X: 8, Y: 0, Z: -4}, last)
	assert.Equal(t, float32(18), w.Width())
	assert.Equal(t, float32(10), w.Depth())
}

func TestResetAndDynamics(t *testing.T) {
	w := newSurface(t)
	w.MustDisturb(50, 50, 0.3)
	for i := 0; i < 10; i++ {
		oneStep(w)
	}
	w.Reset()
	assert.Zero(t, w.Stats().Energy)
	assert.Zero(t, w.Steps())

	require.NoError(t, w.SetDynamics(2, 0.5))
	assert.Equal(t, ComputeCoefficients(2, 0.03, 2, 0.5), w.Coefficients())
	assert.ErrorIs(t, w.SetDynamics(100, 0.5), ErrUnstable)
	assert.Equal(t, float32(2), w.Speed())
}

func TestUseOpenCLWithoutTagFallsBack(t *testing.T) {
	w := newSurface(t)
	if err := w.UseOpenCL(); err != nil {
		assert.Equal(t, "cpu", w.Backend())
		return
	}
	defer w.Close()
	ref := newSurface(t)
	w.MustDisturb(100, 100, 0.3)
	ref.MustDisturb(100, 100, 0.3)
	for i := 0; i < 30; i++ {
		w.Update(1.0 / 60.0)
		ref.Update(1.0 / 60.0)
	}
	assert.InDeltaSlice(t, ref.Heights(), w.Heights(), 1e-4)
}

// brokenStepper completes one step and scribbles over the current heights
// before failing, like a device that dies halfway through a readback.
type brokenStepper struct{ closed bool }

func (s *brokenStepper) name() string { return "broken" }

func (s *brokenStepper) close() { s.closed = true }

func (s *brokenStepper) advance(w *Waves, n int) error {
	stepCPU(w)
	w.rotate()
	for i := range w.curr[:len(w.curr)/2] {
		w.curr[i] = 9
	}
	return errors.New("device lost")
}

func TestFailedStepperReplaysFromSavedState(t *testing.T) {
	w := newSurface(t)
	ref := newSurface(t)
	broken := &brokenStepper{}
	w.stepper = broken

	w.MustDisturb(100, 100, 0.3)
	ref.MustDisturb(100, 100, 0.3)
	require.Equal(t, 3, w.Update(0.09))
	require.Equal(t, 3, ref.Update(0.09))

	assert.True(t, broken.closed)
	assert.Equal(t, "cpu", w.Backend())
	assert.Equal(t, ref.Heights(), w.Heights())
	assert.Equal(t, ref.Steps(), w.Steps())

	w.Update(0.03)
	ref.Update(0.03)
	assert.Equal(t, ref.Heights(), w.Heights(), "prev was restored too")
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

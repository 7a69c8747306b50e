// Package waves simulates a water surface as a damped 2D wave equation solved
// with an explicit finite-difference scheme on a regular height field.
//
// The grid lies in the XZ plane, centred on the origin, with rows running
// along -Z and columns along +X. Heights are stored per vertex in row-major
// order (index = row*cols + col). The simulation advances in fixed time steps
// regardless of how the caller slices wall time into Update calls.
package waves

import (
	"errors"
	"fmt"
	"log"

	"github.com/chewxy/math32"

	"ripples/internal/core"
	"ripples/internal/vmath"
)

// DisturbMargin is the number of cells a disturbance must keep between itself
// and every border of the grid.
const DisturbMargin = 4

// MaxCourant is the largest speed*dt/dx the explicit scheme stays stable for.
var MaxCourant = math32.Sqrt(2) / 2

var (
	// ErrInvalidGrid reports construction arguments that cannot form a grid.
	ErrInvalidGrid = errors.New("waves: invalid grid")
	// ErrUnstable reports dynamics that violate the scheme's stability bound.
	ErrUnstable = errors.New("waves: unstable dynamics")
	// ErrDisturbOutOfRange reports a disturbance too close to the border.
	ErrDisturbOutOfRange = errors.New("waves: disturbance out of range")
)

// Coefficients are the weights of the explicit update
//
//	next = K1*prev + K2*curr + K3*(north + south + east + west)
type Coefficients struct {
	K1, K2, K3 float32
}

// ComputeCoefficients discretises the damped wave equation for the given
// spatial step dx, time step dt, wave speed and damping.
func ComputeCoefficients(dx, dt, speed, damping float32) Coefficients {
	d := damping*dt + 2
	e := (speed * speed) * (dt * dt) / (dx * dx)
	return Coefficients{
		K1: (damping*dt - 2) / d,
		K2: (4 - 8*e) / d,
		K3: (2 * e) / d,
	}
}

// Waves owns the height buffers, normals and tangents of the surface.
type Waves struct {
	grid core.Grid

	spatialStep float32
	timeStep    float32
	speed       float32
	damping     float32
	coeffs      Coefficients

	prev []float32
	curr []float32
	next []float32

	normals  []vmath.Vec3
	tangentX []vmath.Vec3

	clock   *core.FixedStep
	steps   uint64
	stepper stepper
	// saved holds prev then curr while a device stepper runs, so a failed
	// advance can be replayed on the cpu from the same state.
	saved []float32
}

// New allocates a rows x cols surface with the given spacing between
// vertices, fixed simulation time step, wave speed and damping. All heights
// start at zero.
func New(rows, cols int, spacing, timeStep, speed, damping float32) (*Waves, error) {
	if rows < 3 || cols < 3 {
		return nil, fmt.Errorf("%w: %dx%d needs at least 3x3 vertices", ErrInvalidGrid, rows, cols)
	}
	if spacing <= 0 || timeStep <= 0 {
		return nil, fmt.Errorf("%w: spacing %g and time step %g must be positive", ErrInvalidGrid, spacing, timeStep)
	}
	if err := CheckDynamics(spacing, timeStep, speed, damping); err != nil {
		return nil, err
	}
	n := rows * cols
	w := &Waves{
		grid:        core.NewGrid(rows, cols),
		spatialStep: spacing,
		timeStep:    timeStep,
		speed:       speed,
		damping:     damping,
		coeffs:      ComputeCoefficients(spacing, timeStep, speed, damping),
		prev:        make([]float32, n),
		curr:        make([]float32, n),
		next:        make([]float32, n),
		normals:     make([]vmath.Vec3, n),
		tangentX:    make([]vmath.Vec3, n),
		clock:       core.NewFixedStep(float64(timeStep)),
		stepper:     cpuStepper{},
	}
	w.resetFrames()
	return w, nil
}

// CheckDynamics reports whether speed and damping are stable on a grid with
// spacing dx stepped every dt seconds.
func CheckDynamics(dx, dt, speed, damping float32) error {
	if speed < 0 || damping < 0 {
		return fmt.Errorf("%w: speed %g and damping %g must not be negative", ErrUnstable, speed, damping)
	}
	if c := speed * dt / dx; c > MaxCourant {
		return fmt.Errorf("%w: courant number %.3f exceeds %.3f", ErrUnstable, c, MaxCourant)
	}
	return nil
}

func (w *Waves) resetFrames() {
	for i := range w.normals {
		w.normals[i] = vmath.Up
		w.tangentX[i] = vmath.UnitX
	}
}

// Reset flattens the surface and drops accumulated time.
func (w *Waves) Reset() {
	clear(w.prev)
	clear(w.curr)
	clear(w.next)
	w.resetFrames()
	w.clock.Reset()
	w.steps = 0
}

// SetDynamics changes wave speed and damping, recomputing the update
// coefficients. Grid dimensions and time step are unaffected.
func (w *Waves) SetDynamics(speed, damping float32) error {
	if err := CheckDynamics(w.spatialStep, w.timeStep, speed, damping); err != nil {
		return err
	}
	w.speed = speed
	w.damping = damping
	w.coeffs = ComputeCoefficients(w.spatialStep, w.timeStep, speed, damping)
	return nil
}

// Update feeds dt seconds of elapsed time into the simulation. Every full
// time step contained in the accumulated time advances the height field
// once; normals and tangents are refreshed after the last step. It returns
// the number of steps taken.
func (w *Waves) Update(dt float64) int {
	n := w.clock.Advance(dt)
	if n == 0 {
		return 0
	}
	_, onCPU := w.stepper.(cpuStepper)
	if !onCPU {
		w.save()
	}
	if err := w.stepper.advance(w, n); err != nil {
		log.Printf("waves: %s stepper failed, falling back to cpu: %v", w.stepper.name(), err)
		w.stepper.close()
		w.stepper = cpuStepper{}
		w.restore()
		_ = w.stepper.advance(w, n)
	}
	w.steps += uint64(n)
	w.computeNormals()
	return n
}

// Disturb raises the height at (row, col) by magnitude and its four
// neighbours by half of it. Cells within DisturbMargin of a border are
// rejected with ErrDisturbOutOfRange and the surface is left untouched.
func (w *Waves) Disturb(row, col int, magnitude float32) error {
	if !w.grid.Inside(row, col, DisturbMargin) {
		return fmt.Errorf("%w: (%d, %d) on a %dx%d grid with margin %d",
			ErrDisturbOutOfRange, row, col, w.grid.Rows, w.grid.Cols, DisturbMargin)
	}
	half := 0.5 * magnitude
	i := w.grid.Index(row, col)
	cols := w.grid.Cols
	w.curr[i] += magnitude
	w.curr[i+1] += half
	w.curr[i-1] += half
	w.curr[i+cols] += half
	w.curr[i-cols] += half
	return nil
}

// MustDisturb is Disturb for callers that already validated the cell.
func (w *Waves) MustDisturb(row, col int, magnitude float32) {
	if err := w.Disturb(row, col, magnitude); err != nil {
		panic(err)
	}
}

// CanDisturb reports whether Disturb would accept (row, col).
func (w *Waves) CanDisturb(row, col int) bool {
	return w.grid.Inside(row, col, DisturbMargin)
}

// RowCount returns the number of vertex rows.
func (w *Waves) RowCount() int { return w.grid.Rows }

// ColumnCount returns the number of vertex columns.
func (w *Waves) ColumnCount() int { return w.grid.Cols }

// VertexCount returns rows*cols.
func (w *Waves) VertexCount() int { return w.grid.Len() }

// TriangleCount returns the number of triangles of the surface mesh.
func (w *Waves) TriangleCount() int { return 2 * (w.grid.Rows - 1) * (w.grid.Cols - 1) }

// Width returns the extent of the surface along X.
func (w *Waves) Width() float32 { return float32(w.grid.Cols) * w.spatialStep }

// Depth returns the extent of the surface along Z.
func (w *Waves) Depth() float32 { return float32(w.grid.Rows) * w.spatialStep }

// SpatialStep returns the distance between adjacent vertices.
func (w *Waves) SpatialStep() float32 { return w.spatialStep }

// TimeStep returns the fixed simulation step in seconds.
func (w *Waves) TimeStep() float32 { return w.timeStep }

// Speed returns the wave speed.
func (w *Waves) Speed() float32 { return w.speed }

// Damping returns the damping constant.
func (w *Waves) Damping() float32 { return w.damping }

// Coefficients returns the current update weights.
func (w *Waves) Coefficients() Coefficients { return w.coeffs }

// Steps returns how many fixed steps have run since construction or Reset.
func (w *Waves) Steps() uint64 { return w.steps }

// Grid returns the vertex lattice dimensions.
func (w *Waves) Grid() core.Grid { return w.grid }

// Position returns the world-space position of vertex i.
func (w *Waves) Position(i int) vmath.Vec3 {
	row, col := w.grid.Coords(i)
	halfWidth := float32(w.grid.Cols-1) * w.spatialStep * 0.5
	halfDepth := float32(w.grid.Rows-1) * w.spatialStep * 0.5
	return vmath.Vec3{
		X: -halfWidth + float32(col)*w.spatialStep,
		Y: w.curr[i],
		Z: halfDepth - float32(row)*w.spatialStep,
	}
}

// Normal returns the unit normal of vertex i.
func (w *Waves) Normal(i int) vmath.Vec3 { return w.normals[i] }

// TangentX returns the unit tangent along +X of vertex i.
func (w *Waves) TangentX(i int) vmath.Vec3 { return w.tangentX[i] }

// Height returns the current height at (row, col).
func (w *Waves) Height(row, col int) float32 { return w.curr[w.grid.Index(row, col)] }

// Heights exposes the current height buffer. Callers must not modify it; the
// slice is only valid until the next Update.
func (w *Waves) Heights() []float32 { return w.curr }

// Normals exposes the normal buffer under the same rules as Heights.
func (w *Waves) Normals() []vmath.Vec3 { return w.normals }

func (w *Waves) save() {
	n := len(w.curr)
	if len(w.saved) != 2*n {
		w.saved = make([]float32, 2*n)
	}
	copy(w.saved[:n], w.prev)
	copy(w.saved[n:], w.curr)
}

func (w *Waves) restore() {
	n := len(w.curr)
	copy(w.prev, w.saved[:n])
	copy(w.curr, w.saved[n:])
}

// rotate makes the freshly computed buffer current without reallocating.
func (w *Waves) rotate() {
	w.prev, w.curr, w.next = w.curr, w.next, w.prev
}

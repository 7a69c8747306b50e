// Package ripples keeps a waves surface moving with random drops: one
// disturbance every DisturbInterval seconds and one Update per frame.
package ripples

import (
	"errors"
	"fmt"
	"log"

	"ripples/internal/core"
	"ripples/internal/mesh"
	"ripples/internal/waves"
)

// World wraps a wave surface with its disturbance schedule and display buffer.
type World struct {
	cfg Config

	waves   *waves.Waves
	spawner *core.FixedStep
	rng     *core.RNG
	scroll  mesh.TexScroll
	display []uint8

	disturbances int
}

// New returns a ripples world of the given size using the default tunables.
func New(rows, cols int) (*World, error) {
	cfg := DefaultConfig()
	cfg.Rows = rows
	cfg.Cols = cols
	return NewWithConfig(cfg)
}

// NewWithConfig builds a world from cfg.
func NewWithConfig(cfg Config) (*World, error) {
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	surface, err := waves.New(cfg.Rows, cfg.Cols,
		float32(cfg.Spacing), float32(cfg.TimeStep),
		float32(cfg.Params.Speed), float32(cfg.Params.Damping))
	if err != nil {
		return nil, err
	}
	w := &World{
		cfg:     cfg,
		waves:   surface,
		spawner: core.NewFixedStep(cfg.Params.DisturbInterval),
		rng:     core.NewRNG(cfg.Seed),
		scroll:  mesh.NewTexScroll(float32(cfg.Params.ScrollU), float32(cfg.Params.ScrollV)),
		display: make([]uint8, surface.VertexCount()),
	}
	w.rebuildDisplay()
	return w, nil
}

// Name returns the simulation identifier.
func (w *World) Name() string { return "ripples" }

// Size reports the grid dimensions (W columns by H rows).
func (w *World) Size() core.Size {
	return core.Size{W: w.waves.ColumnCount(), H: w.waves.RowCount()}
}

// Cells exposes the quantised height buffer.
func (w *World) Cells() []uint8 { return w.display }

// Waves exposes the underlying surface for renderers.
func (w *World) Waves() *waves.Waves { return w.waves }

// Config returns the active configuration.
func (w *World) Config() Config { return w.cfg }

// Disturbances returns how many disturbances landed since the last Reset.
func (w *World) Disturbances() int { return w.disturbances }

// Reset flattens the surface and reseeds the disturbance RNG. A zero seed
// reuses the configured one.
func (w *World) Reset(seed int64) {
	effective := seed
	if effective == 0 {
		effective = w.cfg.Seed
	}
	w.rng.Reseed(effective)
	w.waves.Reset()
	w.spawner.Reset()
	w.scroll.Reset()
	w.disturbances = 0
	w.rebuildDisplay()
}

// Step schedules random disturbances for dt seconds and advances the surface.
func (w *World) Step(dt float64) {
	if w.cfg.Params.DisturbInterval > 0 {
		for n := w.spawner.Advance(dt); n > 0; n-- {
			w.disturbRandom()
		}
	}
	w.waves.Update(dt)
	w.scroll.Advance(dt)
	w.rebuildDisplay()
}

// TexOffset returns the current water texture translation for CopySurface.
func (w *World) TexOffset() [2]float32 { return w.scroll.Offset() }

// DisturbAt pokes the surface at (row, col).
func (w *World) DisturbAt(row, col int, magnitude float32) error {
	if err := w.waves.Disturb(row, col, magnitude); err != nil {
		return err
	}
	w.disturbances++
	return nil
}

// SpawnRange returns the inclusive row and column bounds random disturbances
// are drawn from.
func (w *World) SpawnRange() (rowLo, rowHi, colLo, colHi int) {
	border := w.cfg.Params.SpawnBorder
	if border < waves.DisturbMargin {
		border = waves.DisturbMargin
	}
	return border, w.waves.RowCount() - 5, border, w.waves.ColumnCount() - 5
}

func (w *World) disturbRandom() {
	rowLo, rowHi, colLo, colHi := w.SpawnRange()
	if rowHi < rowLo || colHi < colLo {
		return
	}
	row := w.rng.IntRange(rowLo, rowHi)
	col := w.rng.IntRange(colLo, colHi)
	mag := w.rng.Float32Range(float32(w.cfg.Params.MagnitudeMin), float32(w.cfg.Params.MagnitudeMax))
	if err := w.DisturbAt(row, col, mag); err != nil && !errors.Is(err, waves.ErrDisturbOutOfRange) {
		log.Printf("ripples: %v", err)
	}
}

func init() {
	core.Register("ripples", func(cfg map[string]string) core.Sim {
		w, err := NewWithConfig(FromMap(cfg))
		if err != nil {
			panic(fmt.Sprintf("ripples: %v", err))
		}
		return w
	})
}

//go:build !ebiten

package ui

import "ripples/internal/core"

// Overlay keeps the view toggles when the ebiten build tag is absent.
type Overlay struct {
	shaded bool
}

// NewOverlay constructs a stub overlay with shading on.
func NewOverlay(core.Sim, int) *Overlay { return &Overlay{shaded: true} }

// Shaded reports whether the surface should be lit by its normals.
func (o *Overlay) Shaded() bool { return o.shaded }

// SetProbe is a no-op in headless builds.
func (o *Overlay) SetProbe(int, int, float32) {}

// Update is a no-op in headless builds.
func (o *Overlay) Update() {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}

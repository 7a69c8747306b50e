//go:build !ebiten

package app

import (
	"fmt"

	"ripples/internal/core"
)

// Game is a placeholder that satisfies the API expected by the GUI build.
type Game struct{}

// New panics to indicate that the ebiten build tag is required for GUI support.
func New(core.Sim, *Config) *Game {
	panic("app.New requires building with the 'ebiten' tag")
}

// EnableAudio reports that the GUI build tag is missing.
func (g *Game) EnableAudio() error {
	return fmt.Errorf("audio requires building with the 'ebiten' tag")
}

// WatchConfig reports that the GUI build tag is missing.
func (g *Game) WatchConfig(string) error {
	return fmt.Errorf("config reload requires building with the 'ebiten' tag")
}

// Close is a no-op placeholder.
func (g *Game) Close() {}

// Reset is a no-op placeholder.
func (g *Game) Reset(int64) {}

// Update always reports that the GUI build tag is missing.
func (g *Game) Update() error {
	return fmt.Errorf("app.Game.Update requires building with the 'ebiten' tag")
}

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }

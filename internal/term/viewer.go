package term

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"ripples/internal/core"
	"ripples/internal/sims/ripples"
)

// Viewer runs a ripples world inside a tcell screen.
type Viewer struct {
	screen   tcell.Screen
	world    *ripples.World
	renderer *Renderer
	clock    *core.FrameClock
	fps      int

	paused bool
	shaded bool
	// notice is shown in the status line until the next successful action.
	notice string
}

// NewViewer wires world to screen. The screen must already be initialised.
func NewViewer(screen tcell.Screen, world *ripples.World, fps int) *Viewer {
	if fps <= 0 {
		fps = 30
	}
	return &Viewer{
		screen:   screen,
		world:    world,
		renderer: NewRenderer(world.Palette()),
		clock:    core.NewFrameClock(4 / float64(fps)),
		fps:      fps,
		shaded:   true,
	}
}

// Paused reports whether the simulation is frozen.
func (v *Viewer) Paused() bool { return v.paused }

// HandleKey applies one key press and reports false when the viewer should
// exit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}
	switch ev.Rune() {
	case 'q':
		return false
	case ' ':
		v.paused = !v.paused
	case 'd':
		size := v.world.Size()
		mag := v.world.Config().Params.MagnitudeMax
		if err := v.world.DisturbAt(size.H/2, size.W/2, float32(mag)); err != nil {
			v.notice = err.Error()
		} else {
			v.notice = ""
		}
	case 'r':
		v.world.Reset(0)
		v.notice = ""
	case 'n':
		v.shaded = !v.shaded
	}
	return true
}

// Frame advances the world by dt unless paused and redraws the screen.
func (v *Viewer) Frame(dt float64) {
	if !v.paused {
		v.world.Step(dt)
	}
	surface := v.world.Waves()
	normals := surface.Normals()
	if !v.shaded {
		normals = nil
	}
	v.renderer.Draw(v.screen, v.world.Cells(), v.world.Size(), normals, v.status())
	v.screen.Show()
}

func (v *Viewer) status() string {
	surface := v.world.Waves()
	stats := surface.Stats()
	status := fmt.Sprintf(" %s %dx%d  steps %d  max %.3f  rms %.4f  drops %d  %s",
		v.world.Name(), surface.ColumnCount(), surface.RowCount(), surface.Steps(),
		stats.MaxAbs, stats.RMS, v.world.Disturbances(), surface.Backend())
	if v.paused {
		status += "  [paused]"
	}
	if v.notice != "" {
		status += "  " + v.notice
	}
	return status
}

// Run polls input on its own goroutine and renders at the configured frame
// rate until the user quits or ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(v.fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 64)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !v.HandleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}
		case <-ticker.C:
			v.Frame(v.clock.Tick())
		}
	}
}

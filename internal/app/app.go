//go:build ebiten

package app

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"time"

	"ripples/internal/core"
	"ripples/internal/probe"
	"ripples/internal/render"
	"ripples/internal/sims/ripples"
	"ripples/internal/ui"
	"ripples/internal/vmath"
	"ripples/internal/waves"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	hudWidth     = 260
	audioLatency = 60 * time.Millisecond
	probeGain    = 4
)

type surfaceSim interface {
	Waves() *waves.Waves
}

type paletteSim interface {
	Palette() []color.RGBA
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	world   *ripples.World
	surface *waves.Waves
	palette []color.RGBA

	painter *render.SurfacePainter
	hud     *ui.HUD
	overlay *ui.Overlay
	feed    *surfaceFeed

	watcher *Watcher
	live    *probe.LiveStream
	player  *audio.Player

	probeRow, probeCol int

	scale    int
	tps      int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim core.Sim, cfg *Config) *Game {
	size := sim.Size()
	g := &Game{
		sim:     sim,
		painter: render.NewSurfacePainter(size.W, size.H),
		overlay: ui.NewOverlay(sim, cfg.Scale),
		scale:   max(cfg.Scale, 1),
		tps:     max(cfg.TPS, 1),
		seed:    cfg.Seed,
	}
	if cfg.HUD {
		g.hud = ui.NewHUD(sim, hudWidth)
	}
	if p, ok := sim.(paletteSim); ok {
		g.palette = p.Palette()
	} else {
		g.palette = grayscale()
	}
	if s, ok := sim.(surfaceSim); ok {
		g.surface = s.Waves()
		g.feed = newSurfaceFeed(g.surface.VertexCount())
		g.probeRow, g.probeCol = cfg.ProbeCell(size.H, size.W)
	}
	g.world, _ = sim.(*ripples.World)
	return g
}

// EnableAudio streams the probe vertex through the default audio device.
func (g *Game) EnableAudio() error {
	if g.surface == nil {
		return fmt.Errorf("%s has no surface to probe", g.sim.Name())
	}
	ctx := audio.NewContext(probe.LiveSampleRate)
	live := probe.NewLiveStream(probeGain)
	player, err := ctx.NewPlayer(live)
	if err != nil {
		return fmt.Errorf("creating audio player: %w", err)
	}
	player.SetBufferSize(audioLatency)
	player.Play()
	g.live = live
	g.player = player
	return nil
}

// WatchConfig applies edits to path while the game runs.
func (g *Game) WatchConfig(path string) error {
	if g.world == nil {
		return fmt.Errorf("%s does not support config reload", g.sim.Name())
	}
	w, err := Watch(path)
	if err != nil {
		return err
	}
	g.watcher = w
	return nil
}

// Close releases the watcher and audio player.
func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("closing watcher: %v", err)
		}
	}
	if g.player != nil {
		g.player.Close()
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyD) && g.world != nil {
		size := g.sim.Size()
		if err := g.world.DisturbAt(size.H/2, size.W/2, float32(g.world.Config().Params.MagnitudeMax)); err != nil {
			log.Printf("disturb: %v", err)
		}
	}
	g.pollWatcher()

	g.overlay.Update()
	g.hud.Update(g.sim.Size().W * g.scale)

	if !g.paused || g.tickOnce {
		g.sim.Step(1 / float64(g.tps))
		g.tickOnce = false
	}
	if g.surface != nil {
		h := g.surface.Height(g.probeRow, g.probeCol)
		level := h * probeGain
		if g.live != nil {
			g.live.SetSample(h)
			level = g.live.Current()
		}
		g.overlay.SetProbe(g.probeRow, g.probeCol, level)
	}
	return nil
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	select {
	case cfg := <-g.watcher.Updates():
		if restart := g.world.Apply(cfg); len(restart) > 0 {
			log.Printf("config reloaded; restart to apply %v", restart)
		} else {
			log.Printf("config reloaded")
		}
	case err := <-g.watcher.Errors():
		log.Printf("config reload: %v", err)
	default:
	}
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	var normals []vmath.Vec3
	if g.feed != nil && g.overlay.Shaded() {
		var offset [2]float32
		if g.world != nil {
			offset = g.world.TexOffset()
		}
		var err error
		normals, err = g.feed.capture(context.Background(), g.surface, offset)
		if err != nil {
			log.Printf("frame resource: %v", err)
		}
	}
	g.painter.Blit(screen, g.sim.Cells(), g.palette, normals, g.scale)
	if normals != nil {
		g.feed.presented()
	}
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hud.Width(), s.H * g.scale
}

func grayscale() []color.RGBA {
	p := make([]color.RGBA, 256)
	for i := range p {
		p[i] = color.RGBA{R: uint8(i), G: uint8(i), B: uint8(i), A: 255}
	}
	return p
}

//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"ripples/internal/app"
	"ripples/internal/core"
	"ripples/internal/sims/ripples"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	useOpenCL := flag.Bool("opencl", false, "step the surface with the OpenCL kernel (needs -tags opencl)")
	flag.Parse()

	sim := buildSim(cfg)
	sim.Reset(cfg.Seed)
	if *useOpenCL {
		if w, ok := sim.(*ripples.World); ok {
			if err := w.Waves().UseOpenCL(); err != nil {
				log.Printf("OpenCL unavailable, stepping on the CPU: %v", err)
			} else {
				log.Printf("stepping with %s", w.Waves().Backend())
			}
		}
	}

	game := app.New(sim, cfg)
	defer game.Close()
	if cfg.Audio {
		if err := game.EnableAudio(); err != nil {
			log.Printf("audio disabled: %v", err)
		}
	}
	if cfg.Watch && cfg.ConfigFile != "" {
		if err := game.WatchConfig(cfg.ConfigFile); err != nil {
			log.Fatalf("watch %s: %v", cfg.ConfigFile, err)
		}
	}

	w, h := game.Layout(0, 0)
	ebiten.SetWindowTitle("ripples - " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

func buildSim(cfg *app.Config) core.Sim {
	if cfg.ConfigFile != "" {
		if cfg.Sim != "ripples" {
			log.Fatalf("-config only applies to the ripples sim, not %q", cfg.Sim)
		}
		surface, err := ripples.LoadFile(cfg.ConfigFile)
		if err != nil {
			log.Fatalf("load %s: %v", cfg.ConfigFile, err)
		}
		w, err := ripples.NewWithConfig(surface)
		if err != nil {
			log.Fatalf("build surface: %v", err)
		}
		return w
	}
	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		log.Fatalf("unknown sim %q (have %v)", cfg.Sim, core.Names())
	}
	return factory(nil)
}

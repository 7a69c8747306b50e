package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"ripples/internal/sims/ripples"
	"ripples/internal/term"
)

func main() {
	configPath := flag.String("config", "", "surface config file (.toml, .yaml)")
	fps := flag.Int("fps", 30, "frames per second")
	seed := flag.Int64("seed", 0, "disturbance seed (0 keeps the configured seed)")
	rows := flag.Int("rows", 120, "grid rows when no -config is given")
	cols := flag.Int("cols", 160, "grid columns when no -config is given")
	flag.Parse()

	cfg := ripples.DefaultConfig()
	if *configPath != "" {
		loaded, err := ripples.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("load %s: %v", *configPath, err)
		}
		cfg = loaded
	} else {
		cfg.Rows, cfg.Cols = *rows, *cols
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	world, err := ripples.NewWithConfig(cfg)
	if err != nil {
		log.Fatalf("build surface: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("terminal init: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	viewer := term.NewViewer(screen, world, *fps)
	err = viewer.Run(ctx)
	screen.Fini()
	if err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}

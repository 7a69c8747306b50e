package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/gopxl/beep"

	"ripples/internal/mesh"
	"ripples/internal/probe"
	"ripples/internal/sims/ripples"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	configPath := flag.String("config", "", "surface config file (.toml, .yaml)")
	seconds := flag.Float64("seconds", 10, "simulated seconds")
	probeRow := flag.Int("probe-row", -1, "probe vertex row (default: centre)")
	probeCol := flag.Int("probe-col", -1, "probe vertex column (default: centre)")
	wavPath := flag.String("wav", "", "write the probe trace to this WAV file")
	rate := flag.Int("rate", 8000, "WAV sample rate; one simulation frame per sample")
	fps := flag.Float64("fps", 60, "simulation frames per second")
	sweep := flag.String("sweep", "", "comma separated damping values to compare instead of a single run")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel sweep evaluations")
	meshPath := flag.String("mesh", "", "dump the final vertex and index buffers to this file")
	useOpenCL := flag.Bool("opencl", false, "step the surface with the OpenCL kernel (needs -tags opencl)")
	var overrides kvList
	flag.Var(&overrides, "set", "config override in key=value form (repeatable)")
	flag.Parse()

	cfg := ripples.DefaultConfig()
	if *configPath != "" {
		loaded, err := ripples.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("load %s: %v", *configPath, err)
		}
		cfg = loaded
	}
	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !cfg.Set(key, value) {
			log.Fatalf("bad override %q", kv)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	if *sweep != "" {
		dampings, err := parseFloats(*sweep)
		if err != nil {
			log.Fatalf("-sweep: %v", err)
		}
		runSweep(cfg, dampings, *seconds, *workers)
		return
	}

	world, err := ripples.NewWithConfig(cfg)
	if err != nil {
		log.Fatalf("build surface: %v", err)
	}
	surface := world.Waves()
	if *useOpenCL {
		if err := surface.UseOpenCL(); err != nil {
			log.Printf("OpenCL unavailable, stepping on the CPU: %v", err)
		}
	}
	defer surface.Close()

	row, col := *probeRow, *probeCol
	if row < 0 {
		row = cfg.Rows / 2
	}
	if col < 0 {
		col = cfg.Cols / 2
	}
	rec, err := probe.NewRecorder(surface, row, col)
	if err != nil {
		log.Fatal(err)
	}

	frame := 1 / *fps
	for elapsed := 0.0; elapsed < *seconds; elapsed += frame {
		world.Step(frame)
		rec.Sample()
	}

	stats := surface.Stats()
	fmt.Printf("%dx%d surface, %s backend, %d steps in %.2fs simulated\n",
		surface.RowCount(), surface.ColumnCount(), surface.Backend(), surface.Steps(), *seconds)
	fmt.Printf("disturbances %d, min %.4f, max %.4f, rms %.5f, energy %.4f\n",
		world.Disturbances(), stats.Min, stats.Max, stats.RMS, stats.Energy)
	fmt.Printf("probe (%d,%d): %d samples, peak %.4f\n", row, col, rec.Len(), rec.Peak())

	if *wavPath != "" {
		if err := writeWAV(*wavPath, rec, beep.SampleRate(*rate)); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s\n", *wavPath)
	}
	if *meshPath != "" {
		n, err := dumpMesh(*meshPath, surface, world.TexOffset())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("wrote %s (%d bytes)\n", *meshPath, n)
	}
}

func runSweep(cfg ripples.Config, dampings []float64, seconds float64, workers int) {
	results := ripples.DampingSweep(cfg, dampings, seconds, workers)
	fmt.Printf("%-10s %-8s %-8s %-12s %-12s %-10s %s\n", "damping", "speed", "steps", "initial", "final", "peak", "retained")
	for _, r := range results {
		fmt.Printf("%-10.3f %-8.2f %-8d %-12.5f %-12.5f %-10.4f %.4f\n",
			r.Damping, r.Speed, r.Steps, r.Initial, r.Final, r.Peak, r.Retained())
	}
	if len(results) < len(dampings) {
		fmt.Printf("%d configuration(s) were rejected as unstable or invalid\n", len(dampings)-len(results))
	}
}

func writeWAV(path string, rec *probe.Recorder, rate beep.SampleRate) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := rec.WriteWAV(f, rate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func dumpMesh(path string, s meshSurface, offset [2]float32) (int, error) {
	indices, err := mesh.GridIndices(s.RowCount(), s.ColumnCount())
	if err != nil {
		return 0, err
	}
	vertices := make([]mesh.Vertex, s.VertexCount())
	mesh.CopySurface(vertices, s, offset)
	buf := mesh.Encode(nil, vertices)
	buf = mesh.EncodeIndices(buf, indices)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return len(buf), nil
}

type meshSurface interface {
	mesh.Surface
	RowCount() int
	ColumnCount() int
}

func parseFloats(list string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no values in %q", list)
	}
	return out, nil
}

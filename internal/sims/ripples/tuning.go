package ripples

import (
	"sort"
	"sync"
)

// EnergyResult describes how a single impulse decays under one configuration.
type EnergyResult struct {
	Damping float64
	Speed   float64
	Steps   uint64
	// Initial is the surface energy right after the first step.
	Initial float64
	Final   float64
	Peak    float32
}

// Retained returns the fraction of the initial energy still on the surface.
func (r EnergyResult) Retained() float64 {
	if r.Initial == 0 {
		return 0
	}
	return r.Final / r.Initial
}

// EnergyDecay drops one impulse of MagnitudeMax in the middle of a quiet
// surface and simulates the given number of seconds at 60 frames per second.
func EnergyDecay(cfg Config, seconds float64) (EnergyResult, error) {
	cfg.Params.DisturbInterval = 0
	w, err := NewWithConfig(cfg)
	if err != nil {
		return EnergyResult{}, err
	}
	surface := w.Waves()
	if err := w.DisturbAt(cfg.Rows/2, cfg.Cols/2, float32(cfg.Params.MagnitudeMax)); err != nil {
		return EnergyResult{}, err
	}
	res := EnergyResult{Damping: cfg.Params.Damping, Speed: cfg.Params.Speed}
	const frame = 1.0 / 60.0
	for elapsed := 0.0; elapsed < seconds; elapsed += frame {
		w.Step(frame)
		stats := surface.Stats()
		if res.Initial == 0 && surface.Steps() > 0 {
			res.Initial = stats.Energy
		}
		if stats.MaxAbs > res.Peak {
			res.Peak = stats.MaxAbs
		}
	}
	res.Final = surface.Stats().Energy
	res.Steps = surface.Steps()
	return res, nil
}

// DampingSweep runs EnergyDecay for every damping value on a pool of
// workers. Results come back ordered by damping; configurations that fail to
// build are skipped.
func DampingSweep(cfg Config, dampings []float64, seconds float64, workers int) []EnergyResult {
	if workers < 1 {
		workers = 1
	}
	jobs := make(chan float64)
	results := make(chan EnergyResult)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range jobs {
				c := cfg
				c.Params.Damping = d
				res, err := EnergyDecay(c, seconds)
				if err != nil {
					continue
				}
				results <- res
			}
		}()
	}
	go func() {
		for _, d := range dampings {
			jobs <- d
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var out []EnergyResult
	for res := range results {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Damping < out[j].Damping })
	return out
}

package core

import "sort"

// Size describes the dimensions of a simulation grid in vertices.
type Size struct {
	W int
	H int
}

// Sim defines the contract a surface simulation exposes to the viewers.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	// Step advances the simulation by dt seconds of wall time.
	Step(dt float64)
	// Cells exposes a row-major display buffer, one byte per vertex.
	Cells() []uint8
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// Names returns the registered simulation names in sorted order.
func Names() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package mesh

import "github.com/chewxy/math32"

// Water texture drift in texture units per second.
const (
	DefaultScrollU = 0.1
	DefaultScrollV = 0.02
)

// TexScroll is the translation part of a material texture transform. It moves
// at a constant rate and wraps each axis into [0, 1).
type TexScroll struct {
	RateU, RateV float32
	U, V         float32
}

// NewTexScroll returns a scroll at the origin moving at the given rates.
func NewTexScroll(rateU, rateV float32) TexScroll {
	return TexScroll{RateU: rateU, RateV: rateV}
}

// Advance moves the offset by dt seconds.
func (s *TexScroll) Advance(dt float64) {
	s.U = wrapUnit(s.U + s.RateU*float32(dt))
	s.V = wrapUnit(s.V + s.RateV*float32(dt))
}

// Reset returns the offset to the origin.
func (s *TexScroll) Reset() { s.U, s.V = 0, 0 }

// Offset returns the current (u, v) translation.
func (s TexScroll) Offset() [2]float32 { return [2]float32{s.U, s.V} }

func wrapUnit(v float32) float32 {
	v -= math32.Floor(v)
	if v >= 1 {
		return 0
	}
	return v
}

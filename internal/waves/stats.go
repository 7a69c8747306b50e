package waves

import (
	"math"

	"github.com/chewxy/math32"
)

// Stats summarises the current height field.
type Stats struct {
	Min, Max float32
	// MaxAbs is the largest absolute height.
	MaxAbs float32
	// Energy is the sum of squared heights.
	Energy float64
	RMS    float64
}

// Stats scans the current heights.
func (w *Waves) Stats() Stats {
	var s Stats
	if len(w.curr) == 0 {
		return s
	}
	s.Min, s.Max = w.curr[0], w.curr[0]
	for _, h := range w.curr {
		if h < s.Min {
			s.Min = h
		}
		if h > s.Max {
			s.Max = h
		}
		if a := math32.Abs(h); a > s.MaxAbs {
			s.MaxAbs = a
		}
		s.Energy += float64(h) * float64(h)
	}
	s.RMS = math.Sqrt(s.Energy / float64(len(w.curr)))
	return s
}

package ripples

import "image/color"

const displayLevel = 128

var ripplesPalette = buildPalette()

// DefaultPalette maps display values to colours: deep water below the rest
// level, foam-tinted blue above it.
func DefaultPalette() []color.RGBA {
	return ripplesPalette
}

// Palette returns the colours for Cells.
func (w *World) Palette() []color.RGBA {
	return ripplesPalette
}

func buildPalette() []color.RGBA {
	trough := color.RGBA{R: 6, G: 28, B: 70, A: 255}
	rest := color.RGBA{R: 24, G: 92, B: 150, A: 255}
	crest := color.RGBA{R: 210, G: 235, B: 250, A: 255}
	palette := make([]color.RGBA, 256)
	for i := range palette {
		if i < displayLevel {
			palette[i] = lerpRGBA(trough, rest, float64(i)/displayLevel)
			continue
		}
		palette[i] = lerpRGBA(rest, crest, float64(i-displayLevel)/(255-displayLevel))
	}
	return palette
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x)*(1-t) + float64(y)*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// encodeHeight quantises h around the rest level.
func encodeHeight(h float32, scale float64) uint8 {
	v := float64(displayLevel) + float64(h)*scale*127
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func (w *World) rebuildDisplay() {
	scale := w.cfg.Params.DisplayScale
	for i, h := range w.waves.Heights() {
		w.display[i] = encodeHeight(h, scale)
	}
}

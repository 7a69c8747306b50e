//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"ripples/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

var (
	titleColor  = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedColor  = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	panelColor  = color.RGBA{R: 12, G: 18, B: 26, A: 255}
	buttonColor = color.RGBA{R: 40, G: 60, B: 78, A: 255}
)

// HUD renders the parameter panel to the right of the surface view: one row
// per adjustable control followed by read-only solver values.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot

	controls     []hudControlState
	readouts     []string
	intSetter    core.IntParameterSetter
	floatSetter  core.FloatParameterSetter
	panelOffsetX int
	title        string

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for sim with a panel of the given width.
func NewHUD(sim core.Sim, width int) *HUD {
	h := &HUD{sim: sim, width: max(width, 0), title: buildTitle(sim)}
	if h.width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		for _, ctrl := range provider.ParameterControls() {
			h.controls = append(h.controls, hudControlState{control: ctrl, value: "--"})
		}
		h.layoutControls()
	}
	h.intSetter, _ = sim.(core.IntParameterSetter)
	h.floatSetter, _ = sim.(core.FloatParameterSetter)
	return h
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes the parameter snapshot and handles clicks on the panel,
// which starts at panelOffsetX in screen coordinates.
func (h *HUD) Update(panelOffsetX int) {
	if h == nil {
		return
	}
	h.panelOffsetX = panelOffsetX
	provider, ok := h.sim.(core.ParameterProvider)
	if !ok {
		h.snapshot = core.ParameterSnapshot{}
		return
	}
	h.snapshot = provider.Parameters()
	h.refresh()
	h.handleInput()
}

// Draw paints the panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	height := h.sim.Size().H * max(scale, 1)
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelColor)
	h.drawPanel()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func buildTitle(sim core.Sim) string {
	if sim == nil || sim.Name() == "" {
		return "Controls"
	}
	name := sim.Name()
	return fmt.Sprintf("%s%s controls", strings.ToUpper(name[:1]), name[1:])
}

func (h *HUD) refresh() {
	controlled := make(map[string]bool, len(h.controls))
	for i := range h.controls {
		state := &h.controls[i]
		controlled[state.control.Key] = true
		param, ok := h.snapshot.Lookup(state.control.Key)
		state.hasValue = false
		state.value = "--"
		if !ok {
			continue
		}
		parsed, err := strconv.ParseFloat(param.Value, 64)
		if err != nil {
			continue
		}
		state.current = parsed
		state.hasValue = true
		state.value = formatValue(state.control, parsed)
	}

	h.readouts = h.readouts[:0]
	for _, group := range h.snapshot.Groups {
		line := group.Name
		if group.Summary != "" {
			line += " (" + group.Summary + ")"
		}
		h.readouts = append(h.readouts, line)
		for _, param := range group.Params {
			if controlled[param.Key] {
				continue
			}
			h.readouts = append(h.readouts, "  "+param.Label+": "+shorten(param.Value))
		}
	}
}

// shorten trims long float renderings for the narrow panel.
func shorten(v string) string {
	if f, err := strconv.ParseFloat(v, 64); err == nil && strings.Contains(v, ".") && len(v) > 8 {
		return strconv.FormatFloat(f, 'g', 5, 64)
	}
	return v
}

func (h *HUD) handleInput() {
	if len(h.controls) == 0 || !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if mx < h.panelOffsetX {
		return
	}
	px := mx - h.panelOffsetX
	for i := range h.controls {
		state := &h.controls[i]
		switch {
		case pointInRect(px, my, state.minusRect):
			h.adjust(state, -1)
			return
		case pointInRect(px, my, state.plusRect):
			h.adjust(state, 1)
			return
		}
	}
}

// target returns the value one step in direction from the current one and
// whether that step stays inside the control bounds.
func (h *HUD) target(state *hudControlState, direction int) (float64, bool) {
	if !state.hasValue || direction == 0 {
		return 0, false
	}
	ctrl := state.control
	step := ctrl.Step
	switch ctrl.Type {
	case core.ParamTypeInt:
		if h.intSetter == nil {
			return 0, false
		}
		step = math.Max(math.Round(step), 1)
	case core.ParamTypeFloat:
		if h.floatSetter == nil {
			return 0, false
		}
		if step <= 0 {
			step = 0.05
		}
	default:
		return 0, false
	}
	next := state.current + float64(direction)*step
	if direction < 0 && ctrl.HasMin && next < ctrl.Min-1e-9 {
		return ctrl.Min, state.current > ctrl.Min
	}
	if direction > 0 && ctrl.HasMax && next > ctrl.Max+1e-9 {
		return ctrl.Max, state.current < ctrl.Max
	}
	return next, true
}

func (h *HUD) adjust(state *hudControlState, direction int) {
	next, ok := h.target(state, direction)
	if !ok {
		return
	}
	var applied bool
	switch state.control.Type {
	case core.ParamTypeInt:
		applied = h.intSetter.SetIntParameter(state.control.Key, int(math.Round(next)))
	case core.ParamTypeFloat:
		applied = h.floatSetter.SetFloatParameter(state.control.Key, next)
	}
	if applied {
		state.current = next
		state.value = formatValue(state.control, next)
	}
}

func (h *HUD) drawPanel() {
	face := basicfont.Face7x13
	text.Draw(h.panel, h.title, face, panelPadding, panelPadding+headerBaseline, titleColor)

	y := controlsTop
	for i := range h.controls {
		state := &h.controls[i]
		baseline := state.top + labelBaseline
		text.Draw(h.panel, state.control.Label, face, panelPadding, baseline, labelColor)
		valueColor := labelColor
		if !state.hasValue {
			valueColor = mutedColor
		}
		width := text.BoundString(face, state.value).Dx()
		text.Draw(h.panel, state.value, face, state.minusRect.Min.X-buttonGap-width, baseline, valueColor)

		_, canLower := h.target(state, -1)
		_, canRaise := h.target(state, 1)
		h.drawButton(state.minusRect, "-", canLower)
		h.drawButton(state.plusRect, "+", canRaise)
		y = state.top + lineHeight
	}

	y += readoutSpacing
	for _, line := range h.readouts {
		if y > h.lastHeight {
			return
		}
		col := mutedColor
		if !strings.HasPrefix(line, " ") {
			col = titleColor
		}
		text.Draw(h.panel, line, face, panelPadding, y, col)
		y += readoutLine
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	if h.pixel == nil {
		return
	}
	bg, fg := buttonColor, labelColor
	if !enabled {
		bg = color.RGBA{R: 24, G: 30, B: 38, A: 255}
		fg = color.RGBA{R: 110, G: 115, B: 125, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func (h *HUD) layoutControls() {
	if h.width <= 0 {
		return
	}
	for i := range h.controls {
		top := controlsTop + i*lineHeight
		buttonY := top + (lineHeight-buttonSize)/2
		plus := image.Rect(h.width-panelPadding-buttonSize, buttonY, h.width-panelPadding, buttonY+buttonSize)
		minus := plus.Sub(image.Pt(buttonSize+buttonGap, 0))
		h.controls[i].top = top
		h.controls[i].minusRect = minus
		h.controls[i].plusRect = plus
	}
}

func formatValue(ctrl core.ParameterControl, value float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(value)))
	}
	precision := 1
	switch {
	case ctrl.Step < 0.001:
		precision = 4
	case ctrl.Step < 0.01:
		precision = 3
	case ctrl.Step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(value, 'f', precision, 64)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return image.Pt(x, y).In(rect)
}

type hudControlState struct {
	control  core.ParameterControl
	value    string
	current  float64
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

const (
	panelPadding   = 12
	lineHeight     = 32
	buttonSize     = 22
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 21
	readoutSpacing = 18
	readoutLine    = 16
	controlsTop    = panelPadding + headerBaseline + 14
)

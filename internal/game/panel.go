package game

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/binaural-beats/internal/animation"
	"github.com/iburimskiy/binaural-beats/internal/command"
	"github.com/iburimskiy/binaural-beats/internal/config"
	"github.com/iburimskiy/binaural-beats/internal/playback"
	"github.com/iburimskiy/binaural-beats/internal/tone"
)

const (
	panelX    = config.CanvasWidth + config.PanelMargin
	rowHeight = config.ButtonHeight + config.ButtonGap
	halfWidth = (config.ButtonWidth - 8) / 2

	carrierTop    = 26
	modulationTop = carrierTop + 7*rowHeight + 24
	transportTop  = modulationTop + 4*rowHeight + 6

	// Volume slider, level meters and scope share one row.
	gaugeTop    = transportTop + config.ButtonHeight + 12
	gaugeHeight = 120
	sliderWidth = 20
	meterWidth  = 12
	scopeX      = panelX + 72
	scopeWidth  = config.ButtonWidth - 72

	textTop = gaugeTop + gaugeHeight + 10
)

var (
	panelBackground = color.RGBA{R: 15, G: 18, B: 26, A: 255}
	frameColor      = color.RGBA{R: 60, G: 70, B: 90, A: 255}
	trackColor      = color.RGBA{R: 25, G: 30, B: 40, A: 200}
)

type button struct {
	x, y, w, h int
	label      string
	cmd        command.Command
	swatch     color.Color
	selected   func(playback.State) bool

	hovered bool
	pressed bool
}

func (b *button) contains(x, y int) bool {
	return x >= b.x && x <= b.x+b.w && y >= b.y && y <= b.y+b.h
}

// layoutButtons builds the carrier, modulation and transport buttons from
// the catalog.
func layoutButtons() []*button {
	var buttons []*button
	for i, p := range tone.Carriers() {
		hz := p.Hz
		buttons = append(buttons, &button{
			x: panelX, y: carrierTop + i*rowHeight, w: config.ButtonWidth, h: config.ButtonHeight,
			label:    p.Label,
			cmd:      command.Command{Kind: command.SelectCarrier, Label: p.Label},
			swatch:   animation.ColorFor(hz),
			selected: func(st playback.State) bool { return st.Carrier.Hz == hz },
		})
	}
	for i, p := range tone.Modulations() {
		label := p.Label
		buttons = append(buttons, &button{
			x: panelX, y: modulationTop + i*rowHeight, w: config.ButtonWidth, h: config.ButtonHeight,
			label:    fmt.Sprintf("%s (%g Hz)", p.Label, p.Hz),
			cmd:      command.Command{Kind: command.SelectModulation, Label: p.Label},
			selected: func(st playback.State) bool { return st.Modulation.Label == label },
		})
	}
	buttons = append(buttons,
		&button{
			x: panelX, y: transportTop, w: halfWidth, h: config.ButtonHeight,
			label: "Play",
			cmd:   command.Command{Kind: command.TogglePlay},
		},
		&button{
			x: panelX + halfWidth + 8, y: transportTop, w: halfWidth, h: config.ButtonHeight,
			label: "Export WAV",
			cmd:   command.Command{Kind: command.Export},
		},
	)
	return buttons
}

// slider is the vertical volume control; the top edge is full volume.
type slider struct {
	x, y, w, h int
	value      float64

	hovered  bool
	dragging bool
}

func newSlider() slider {
	return slider{x: panelX, y: gaugeTop, w: sliderWidth, h: gaugeHeight}
}

func (s *slider) contains(x, y int) bool {
	return x >= s.x && x <= s.x+s.w && y >= s.y && y <= s.y+s.h
}

func (s *slider) valueAt(y int) float64 {
	return clamp01(1 - float64(y-s.y)/float64(s.h))
}

// moved reports whether v differs from the shown value by more than 1%.
func (s *slider) moved(v float64) bool {
	return math.Abs(v-s.value) > 0.01
}

func (g *Game) drawPanel(screen *ebiten.Image, st playback.State) {
	vector.DrawFilledRect(screen, config.CanvasWidth, 0, config.PanelWidth, config.WindowHeight, panelBackground, false)

	ebitenutil.DebugPrintAt(screen, "Carrier", panelX, carrierTop-18)
	ebitenutil.DebugPrintAt(screen, "Binaural beat", panelX, modulationTop-18)
	for _, b := range g.buttons {
		drawButton(screen, b, st)
	}

	g.drawSlider(screen)
	g.drawMeters(screen)
	g.drawScope(screen, st)

	y := textTop
	ebitenutil.DebugPrintAt(screen, st.Label(), panelX, y)
	y += 16
	status := fmt.Sprintf("%s  %s", st.Status, formatDuration(g.session))
	if g.commands.Busy() {
		status += "  ..."
	}
	ebitenutil.DebugPrintAt(screen, status, panelX, y)
	y += 16
	if err := g.commands.LastError(); err != nil {
		ebitenutil.DebugPrintAt(screen, truncate("Error: "+err.Error(), 40), panelX, y)
	} else if n := g.commands.Notice(); n != "" {
		ebitenutil.DebugPrintAt(screen, truncate(n, 40), panelX, y)
	}
	y += 16
	ebitenutil.DebugPrintAt(screen, "Space 1-7 ZXCV Up/Down E Esc", panelX, y)
}

func drawButton(screen *ebiten.Image, b *button, st playback.State) {
	selected := b.selected != nil && b.selected(st)

	// Button background
	var bgColor color.Color
	switch {
	case b.pressed:
		bgColor = color.RGBA{R: 60, G: 80, B: 120, A: 255}
	case selected:
		bgColor = color.RGBA{R: 90, G: 120, B: 180, A: 255}
	case b.hovered:
		bgColor = color.RGBA{R: 80, G: 100, B: 140, A: 255}
	default:
		bgColor = color.RGBA{R: 40, G: 50, B: 70, A: 255}
	}
	vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), bgColor, false)

	borderColor := color.RGBA{R: 150, G: 170, B: 200, A: 255}
	if !selected {
		borderColor = frameColor
	}
	vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 1, borderColor, false)

	if b.swatch != nil {
		vector.DrawFilledRect(screen, float32(b.x+b.w-16), float32(b.y+6), 10, 10, b.swatch, false)
	}

	label := b.label
	if b.cmd.Kind == command.TogglePlay {
		label = st.ButtonLabel()
	}
	ebitenutil.DebugPrintAt(screen, label, b.x+6, b.y+(b.h-16)/2)
}

func (g *Game) drawSlider(screen *ebiten.Image) {
	s := &g.slider
	vector.DrawFilledRect(screen, float32(s.x), float32(s.y), float32(s.w), float32(s.h), trackColor, false)
	fill := float32(s.value * float64(s.h))
	vector.DrawFilledRect(screen, float32(s.x), float32(s.y+s.h)-fill, float32(s.w), fill, color.RGBA{R: 80, G: 140, B: 220, A: 255}, false)
	vector.StrokeRect(screen, float32(s.x), float32(s.y), float32(s.w), float32(s.h), 1, frameColor, false)

	knobY := float32(s.y+s.h) - fill
	knob := color.RGBA{R: 200, G: 210, B: 230, A: 255}
	if s.hovered || s.dragging {
		knob = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	vector.DrawFilledRect(screen, float32(s.x-2), knobY-2, float32(s.w+4), 4, knob, false)
}

// drawMeters draws one bar per channel, colored green to red by level.
func (g *Game) drawMeters(screen *ebiten.Image) {
	for ch, level := range g.levels {
		x := float32(panelX + sliderWidth + 12 + ch*(meterWidth+4))
		y := float32(gaugeTop)
		vector.DrawFilledRect(screen, x, y, meterWidth, gaugeHeight, trackColor, false)

		h := float32(clamp01(level) * gaugeHeight)
		vector.DrawFilledRect(screen, x, y+gaugeHeight-h, meterWidth, h, meterColor(level), false)
		vector.StrokeRect(screen, x, y, meterWidth, gaugeHeight, 1, frameColor, false)
	}
}

// drawScope plots the most recent tap frames, left and right channel
// overlaid in the trace colors of the animation.
func (g *Game) drawScope(screen *ebiten.Image, st playback.State) {
	x0, y0 := float32(scopeX), float32(gaugeTop)
	vector.DrawFilledRect(screen, x0, y0, scopeWidth, gaugeHeight, trackColor, false)
	vector.StrokeRect(screen, x0, y0, scopeWidth, gaugeHeight, 1, frameColor, false)
	if g.tap == nil {
		return
	}

	samples := g.tap.Snapshot(scopeWidth * 2)
	if len(samples) < 4 {
		return
	}
	base := animation.ColorFor(st.Carrier.Hz)
	colors := [2]color.RGBA{animation.Complement(base), animation.Midpoint(base)}
	mid := y0 + gaugeHeight/2
	step := float32(scopeWidth) / float32(len(samples)-1)
	for ch := 0; ch < 2; ch++ {
		for i := 1; i < len(samples); i++ {
			ya := mid - float32(samples[i-1][ch])*gaugeHeight/2
			yb := mid - float32(samples[i][ch])*gaugeHeight/2
			vector.StrokeLine(screen, x0+float32(i-1)*step, ya, x0+float32(i)*step, yb, 1, colors[ch], false)
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

package game

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/pion/logging"

	"github.com/iburimskiy/binaural-beats/internal/command"
	"github.com/iburimskiy/binaural-beats/internal/config"
	"github.com/iburimskiy/binaural-beats/internal/playback"
	"github.com/iburimskiy/binaural-beats/internal/tone"
)

const (
	volumeStep  = 0.05
	meterWindow = 2048
)

// StateSource exposes the current playback state.
type StateSource interface {
	Snapshot() playback.State
}

// Commands accepts UI actions without blocking.
type Commands interface {
	Submit(cmd command.Command) bool
	Busy() bool
	LastError() error
	Notice() string
}

// Game is the ebiten window: the animation canvas on the left and the
// control panel on the right. It is the display sink of the animation loop.
type Game struct {
	ctx      context.Context
	state    StateSource
	commands Commands
	tap      *playback.Tap
	log      logging.LeveledLogger

	frameMu sync.Mutex
	frame   []byte
	dirty   bool
	canvas  *ebiten.Image

	quit atomic.Bool

	buttons []*button
	slider  slider

	// Smoothed channel levels
	levels [2]float64

	session  time.Duration
	lastTick time.Time
}

func New(ctx context.Context, state StateSource, commands Commands, tap *playback.Tap, log logging.LeveledLogger) *Game {
	return &Game{
		ctx:      ctx,
		state:    state,
		commands: commands,
		tap:      tap,
		log:      log,
		buttons:  layoutButtons(),
		slider:   newSlider(),
	}
}

// Present copies a finished frame for the next Draw.
func (g *Game) Present(frame *image.RGBA) {
	g.frameMu.Lock()
	defer g.frameMu.Unlock()
	if len(g.frame) != len(frame.Pix) {
		g.frame = make([]byte, len(frame.Pix))
	}
	copy(g.frame, frame.Pix)
	g.dirty = true
}

// Quit reports whether the window asked to close.
func (g *Game) Quit() bool {
	return g.quit.Load()
}

// RequestQuit marks the window as closing.
func (g *Game) RequestQuit() {
	g.quit.Store(true)
}

func (g *Game) Update() error {
	if ebiten.IsWindowBeingClosed() {
		g.RequestQuit()
	}
	select {
	case <-g.ctx.Done():
		g.RequestQuit()
	default:
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.RequestQuit()
	}
	if g.Quit() {
		g.log.Info("window closing")
		return ebiten.Termination
	}

	st := g.state.Snapshot()
	mx, my := ebiten.CursorPosition()
	g.updateButtons(mx, my)
	g.updateSlider(st, mx, my)
	g.updateKeys(st)
	g.updateLevels()
	g.updateSession(st)
	return nil
}

func (g *Game) updateButtons(mx, my int) {
	justPressed := inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	justReleased := inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	for _, b := range g.buttons {
		b.hovered = b.contains(mx, my)
		if b.hovered && justPressed {
			b.pressed = true
		}
		if justReleased {
			if b.pressed && b.hovered {
				g.submit(b.cmd)
			}
			b.pressed = false
		}
	}
}

func (g *Game) updateSlider(st playback.State, mx, my int) {
	s := &g.slider
	s.hovered = s.contains(mx, my)
	if s.hovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.dragging = true
		s.value = s.valueAt(my)
		g.submit(command.Command{Kind: command.SetVolume, Volume: s.value})
		return
	}
	if !s.dragging {
		s.value = st.Volume
		return
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		s.dragging = false
		return
	}
	// Skip tiny drags to keep the queue short.
	if v := s.valueAt(my); s.moved(v) {
		s.value = v
		g.submit(command.Command{Kind: command.SetVolume, Volume: v})
	}
}

func (g *Game) updateKeys(st playback.State) {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.submit(command.Command{Kind: command.TogglePlay})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.submit(command.Command{Kind: command.Export})
	}
	for i, p := range tone.Carriers() {
		if inpututil.IsKeyJustPressed(ebiten.KeyDigit1 + ebiten.Key(i)) {
			g.submit(command.Command{Kind: command.SelectCarrier, Label: p.Label})
		}
	}
	modKeys := []ebiten.Key{ebiten.KeyZ, ebiten.KeyX, ebiten.KeyC, ebiten.KeyV}
	for i, p := range tone.Modulations() {
		if i < len(modKeys) && inpututil.IsKeyJustPressed(modKeys[i]) {
			g.submit(command.Command{Kind: command.SelectModulation, Label: p.Label})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		g.submit(command.Command{Kind: command.SetVolume, Volume: clamp01(st.Volume + volumeStep)})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		g.submit(command.Command{Kind: command.SetVolume, Volume: clamp01(st.Volume - volumeStep)})
	}
}

// updateLevels follows the tap with exponential smoothing.
func (g *Game) updateLevels() {
	if g.tap == nil {
		return
	}
	l, r := rms(g.tap.Snapshot(meterWindow))
	g.levels[0] = smooth(g.levels[0], l)
	g.levels[1] = smooth(g.levels[1], r)
}

func smooth(prev, next float64) float64 {
	return prev*config.SmoothingFactor + clamp01(next)*(1-config.SmoothingFactor)
}

func (g *Game) updateSession(st playback.State) {
	now := time.Now()
	if st.Playing() && !g.lastTick.IsZero() {
		g.session += now.Sub(g.lastTick)
	}
	g.lastTick = now
}

func (g *Game) submit(cmd command.Command) {
	if !g.commands.Submit(cmd) {
		g.log.Debugf("ui dropped %s", cmd.Kind)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.canvas == nil {
		g.canvas = ebiten.NewImage(config.CanvasWidth, config.CanvasHeight)
	}
	g.frameMu.Lock()
	if g.dirty && len(g.frame) == 4*config.CanvasWidth*config.CanvasHeight {
		g.canvas.WritePixels(g.frame)
		g.dirty = false
	}
	g.frameMu.Unlock()
	screen.DrawImage(g.canvas, nil)

	g.drawPanel(screen, g.state.Snapshot())
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}

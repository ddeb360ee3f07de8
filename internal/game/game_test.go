package game

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iburimskiy/binaural-beats/internal/command"
	"github.com/iburimskiy/binaural-beats/internal/config"
	"github.com/iburimskiy/binaural-beats/internal/playback"
	"github.com/iburimskiy/binaural-beats/internal/tone"
)

type fixedState struct{ st playback.State }

func (f fixedState) Snapshot() playback.State { return f.st }

type recordingCommands struct {
	submitted []command.Command
	accept    bool
}

func (r *recordingCommands) Submit(cmd command.Command) bool {
	if r.accept {
		r.submitted = append(r.submitted, cmd)
	}
	return r.accept
}
func (r *recordingCommands) Busy() bool       { return false }
func (r *recordingCommands) LastError() error { return nil }
func (r *recordingCommands) Notice() string   { return "" }

func newTestGame(t *testing.T, cmds Commands) *Game {
	t.Helper()
	log := logging.NewDefaultLoggerFactory().NewLogger("game")
	carrier, _ := tone.LookupCarrier(tone.DefaultCarrier)
	mod, _ := tone.LookupModulation(tone.DefaultModulation)
	st := playback.State{Carrier: carrier, Modulation: mod, Volume: 0.5}
	return New(context.Background(), fixedState{st}, cmds, playback.NewTap(config.VisualRingSize), log)
}

func TestLayoutButtons(t *testing.T) {
	buttons := layoutButtons()
	require.Len(t, buttons, len(tone.Carriers())+len(tone.Modulations())+2)

	for i, b := range buttons {
		assert.GreaterOrEqual(t, b.x, config.CanvasWidth, "button %d on canvas", i)
		assert.LessOrEqual(t, b.x+b.w, config.WindowWidth, "button %d off window", i)
		assert.LessOrEqual(t, b.y+b.h, config.WindowHeight, "button %d off window", i)
		for _, o := range buttons[i+1:] {
			overlap := b.x < o.x+o.w && o.x < b.x+b.w && b.y < o.y+o.h && o.y < b.y+b.h
			assert.False(t, overlap, "%q overlaps %q", b.label, o.label)
		}
	}

	assert.Equal(t, command.SelectCarrier, buttons[0].cmd.Kind)
	assert.Equal(t, "Root Chakra - 198 Hz", buttons[0].cmd.Label)
	assert.Equal(t, command.SelectModulation, buttons[7].cmd.Kind)
	assert.Equal(t, "Delta", buttons[7].cmd.Label)
	assert.Equal(t, command.TogglePlay, buttons[11].cmd.Kind)
	assert.Equal(t, command.Export, buttons[12].cmd.Kind)
}

func TestButtonSelection(t *testing.T) {
	buttons := layoutButtons()
	throat, ok := tone.LookupCarrier("Throat Chakra - 370 Hz")
	require.True(t, ok)
	delta, _ := tone.LookupModulation(tone.DefaultModulation)
	st := playback.State{Carrier: throat, Modulation: delta}

	var selected []string
	for _, b := range buttons {
		if b.selected != nil && b.selected(st) {
			selected = append(selected, b.cmd.Label)
		}
	}
	assert.Equal(t, []string{"Throat Chakra - 370 Hz", "Delta"}, selected)
}

func TestButtonContains(t *testing.T) {
	b := &button{x: 10, y: 20, w: 100, h: 22}
	assert.True(t, b.contains(10, 20))
	assert.True(t, b.contains(110, 42))
	assert.False(t, b.contains(9, 20))
	assert.False(t, b.contains(50, 43))
}

func TestSliderValueAt(t *testing.T) {
	s := newSlider()
	assert.InDelta(t, 1.0, s.valueAt(s.y), 1e-9)
	assert.InDelta(t, 0.0, s.valueAt(s.y+s.h), 1e-9)
	assert.InDelta(t, 0.5, s.valueAt(s.y+s.h/2), 1e-9)
	assert.Equal(t, 1.0, s.valueAt(s.y-50))
	assert.Equal(t, 0.0, s.valueAt(s.y+s.h+50))

	s.value = 0.5
	assert.False(t, s.moved(0.505))
	assert.True(t, s.moved(0.52))
}

func TestPresentCopiesFrame(t *testing.T) {
	g := newTestGame(t, &recordingCommands{accept: true})
	img := image.NewRGBA(image.Rect(0, 0, config.CanvasWidth, config.CanvasHeight))
	img.Pix[0] = 200

	g.Present(img)
	img.Pix[0] = 7

	g.frameMu.Lock()
	defer g.frameMu.Unlock()
	require.Len(t, g.frame, len(img.Pix))
	assert.Equal(t, byte(200), g.frame[0])
	assert.True(t, g.dirty)
}

func TestQuitFlag(t *testing.T) {
	g := newTestGame(t, &recordingCommands{accept: true})
	assert.False(t, g.Quit())
	g.RequestQuit()
	assert.True(t, g.Quit())
}

func TestSubmitForwards(t *testing.T) {
	cmds := &recordingCommands{accept: true}
	g := newTestGame(t, cmds)
	g.submit(command.Command{Kind: command.TogglePlay})
	require.Len(t, cmds.submitted, 1)
	assert.Equal(t, command.TogglePlay, cmds.submitted[0].Kind)

	// A full queue is not an error for the window.
	rejecting := &recordingCommands{}
	newTestGame(t, rejecting).submit(command.Command{Kind: command.Export})
	assert.Empty(t, rejecting.submitted)
}

func TestUpdateLevelsFollowsTap(t *testing.T) {
	g := newTestGame(t, &recordingCommands{accept: true})
	frames := make([][2]float64, meterWindow)
	for i := range frames {
		frames[i] = [2]float64{0.25, 0}
	}
	g.tap.Record(frames)

	for i := 0; i < 50; i++ {
		g.updateLevels()
	}
	assert.InDelta(t, 0.5, g.levels[0], 1e-6)
	assert.InDelta(t, 0.0, g.levels[1], 1e-9)
}

func TestUpdateSessionCountsOnlyWhilePlaying(t *testing.T) {
	g := newTestGame(t, &recordingCommands{accept: true})
	stopped := playback.State{Status: playback.Stopped}
	playing := playback.State{Status: playback.Playing}

	g.updateSession(stopped)
	time.Sleep(5 * time.Millisecond)
	g.updateSession(stopped)
	assert.Zero(t, g.session)

	g.updateSession(playing)
	time.Sleep(5 * time.Millisecond)
	g.updateSession(playing)
	assert.GreaterOrEqual(t, g.session, 5*time.Millisecond)
}

func TestRMS(t *testing.T) {
	l, r := rms(nil)
	assert.Zero(t, l)
	assert.Zero(t, r)

	l, r = rms([][2]float64{{1, 0.25}, {-1, -0.25}})
	assert.InDelta(t, 1.0, l, 1e-9)
	assert.InDelta(t, 0.5, r, 1e-9)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00", formatDuration(0))
	assert.Equal(t, "01:05", formatDuration(65*time.Second))
	assert.Equal(t, "59:59", formatDuration(time.Hour-time.Second))
	assert.Equal(t, "1:01:01", formatDuration(time.Hour+61*time.Second))
}

func TestHSV(t *testing.T) {
	assert.Equal(t, color.RGBA{R: 255, A: 255}, hsv(0, 1, 1))
	assert.Equal(t, color.RGBA{G: 255, A: 255}, hsv(120, 1, 1))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, hsv(-120, 1, 1))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, hsv(360, 1, 1))
}

func TestMeterColor(t *testing.T) {
	quiet, loud := meterColor(0), meterColor(1)
	assert.Greater(t, quiet.G, quiet.R)
	assert.Greater(t, loud.R, loud.G)
	assert.Equal(t, loud, meterColor(3))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}

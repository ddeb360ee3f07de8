// Package animation renders the visualizer: a persistent canvas that is
// tinted and rotated every frame while four sine traces of dots are drawn
// over it, all driven by the live playback parameters.
package animation

import (
	"context"
	"image/color"
	"math"
	"time"

	"github.com/pion/logging"
	"github.com/pkg/errors"

	"github.com/iburimskiy/binaural-beats/internal/config"
	"github.com/iburimskiy/binaural-beats/internal/playback"
)

// ErrWindowClosed is returned by Run when the display reports a quit event.
var ErrWindowClosed = errors.New("animation window closed")

// StateSource provides the playback parameters. Reads may be stale by a
// frame.
type StateSource interface {
	Snapshot() playback.State
}

// Events reports whether the display asked to quit.
type Events interface {
	Quit() bool
}

type Options struct {
	// OverlayEvery is the number of frames between tint-and-rotate passes.
	OverlayEvery int
}

type Loop struct {
	src    StateSource
	canvas Canvas
	events Events
	log    logging.LeveledLogger

	overlayEvery int
	counter      int
	angle        float64
	frames       int

	now   func() time.Time
	start time.Time
}

func NewLoop(src StateSource, canvas Canvas, events Events, opts Options, log logging.LeveledLogger) *Loop {
	if opts.OverlayEvery < 1 {
		opts.OverlayEvery = 1
	}
	return &Loop{
		src:          src,
		canvas:       canvas,
		events:       events,
		log:          log,
		overlayEvery: opts.OverlayEvery,
		now:          time.Now,
	}
}

// Angle is the accumulated rotation in degrees.
func (l *Loop) Angle() float64 { return l.angle }

// Frames is the number of frames rendered so far.
func (l *Loop) Frames() int { return l.frames }

// Run renders frames until ctx is cancelled (returns nil) or the display
// reports a quit (returns ErrWindowClosed). Each frame is paced to
// FrameRate of the parameters it was drawn with.
func (l *Loop) Run(ctx context.Context) error {
	l.start = l.now()
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	next := l.start
	for {
		if l.events != nil && l.events.Quit() {
			l.log.Info("display closed")
			return ErrWindowClosed
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		st := l.src.Snapshot()
		l.Step(st, l.now().Sub(l.start).Seconds())

		interval := time.Duration(float64(time.Second) / FrameRate(st.Carrier.Hz, st.Modulation.Hz))
		next = next.Add(interval)
		wait := next.Sub(l.now())
		if wait < 0 {
			// Running behind: drop the debt instead of bursting frames.
			next = l.now()
			wait = 0
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
}

// Step draws and presents one frame for st at t seconds since the loop
// started.
func (l *Loop) Step(st playback.State, t float64) {
	carrier := st.Carrier.Hz
	beat := st.Modulation.Hz
	base := ColorFor(carrier)

	if l.counter >= l.overlayEvery {
		l.canvas.Overlay(base, config.OverlayAlpha)
		if carrier > 0 {
			l.angle += 1 / carrier
		}
		l.canvas.Rotate(l.angle)
		l.angle = math.Mod(l.angle, 360)
		l.counter = 0
	}

	radius := int(st.Volume*10) + 1
	complement := Complement(base)
	midpoint := Midpoint(base)
	l.trace(carrier/4, t, radius, complement, false)
	l.trace((beat+carrier)/4, t, radius, midpoint, false)
	l.trace(carrier/4, t, radius, complement, true)
	l.trace((beat+carrier)/4, t, radius, midpoint, true)

	l.counter++
	l.frames++
	l.canvas.Present()
}

func (l *Loop) trace(freq, t float64, radius int, c color.RGBA, vertical bool) {
	for i := 0; i < config.TraceSamples; i++ {
		phase := 2*math.Pi*freq*t + float64(i)/config.TraceSamples*2*math.Pi
		v := int(config.TraceCenter + config.TraceAmplitude*math.Sin(phase))
		if vertical {
			l.canvas.Circle(v, i, radius, c)
		} else {
			l.canvas.Circle(i, v, radius, c)
		}
	}
}

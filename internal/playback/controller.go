// Package playback owns the binaural beat playback state and drives an audio
// sink from it.
package playback

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pion/logging"
	"github.com/pkg/errors"

	"github.com/iburimskiy/binaural-beats/internal/tone"
)

var (
	// ErrSinkRejected is returned when the audio sink refuses a buffer.
	// Playback is left stopped.
	ErrSinkRejected = errors.New("audio sink rejected playback")

	// ErrUnknownProfile is returned for a label outside the catalogs.
	ErrUnknownProfile = errors.WithMessage(tone.ErrInvalidParameter, "unknown profile")
)

// sinkError is ErrSinkRejected carrying the device error as its cause.
type sinkError struct {
	cause error
}

func (e *sinkError) Error() string        { return ErrSinkRejected.Error() + ": " + e.cause.Error() }
func (e *sinkError) Is(target error) bool { return target == ErrSinkRejected }
func (e *sinkError) Unwrap() error        { return e.cause }
func (e *sinkError) Cause() error         { return e.cause }

type Options struct {
	SampleRate   int
	ToneDuration time.Duration
	FadeDuration time.Duration

	Volume     float64
	Carrier    string
	Modulation string
}

// Controller is a two-state machine, Stopped and Playing. It is the only
// writer of the playback State; Snapshot may be called from any goroutine.
//
// Changing the carrier or modulation while playing fades the current sound
// out completely before the replacement fades in, so the caller blocks for
// the fade duration. Volume is applied to the live sound in place and never
// waits for a fade.
type Controller struct {
	sink Sink
	opts Options
	log  logging.LeveledLogger

	state atomic.Pointer[State]

	// ops serializes Start, Stop and retunes, which may block on a fade.
	ops sync.Mutex

	// mu guards the handles and is never held across a wait.
	mu           sync.Mutex
	handle       Handle
	fading       <-chan struct{}
	fadingHandle Handle
}

func NewController(sink Sink, opts Options, log logging.LeveledLogger) (*Controller, error) {
	if opts.SampleRate <= 0 {
		return nil, errors.Wrapf(tone.ErrInvalidParameter, "sample rate %d", opts.SampleRate)
	}
	if opts.ToneDuration <= 0 {
		return nil, errors.Wrapf(tone.ErrInvalidParameter, "tone duration %v", opts.ToneDuration)
	}
	if opts.Carrier == "" {
		opts.Carrier = tone.DefaultCarrier
	}
	if opts.Modulation == "" {
		opts.Modulation = tone.DefaultModulation
	}
	carrier, ok := tone.LookupCarrier(opts.Carrier)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownProfile, "carrier %q", opts.Carrier)
	}
	modulation, ok := tone.LookupModulation(opts.Modulation)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownProfile, "modulation %q", opts.Modulation)
	}

	c := &Controller{sink: sink, opts: opts, log: log}
	c.state.Store(&State{
		Carrier:    carrier,
		Modulation: modulation,
		Volume:     clamp01(opts.Volume),
		Status:     Stopped,
	})
	return c, nil
}

// Snapshot returns the current state. The value may be one change behind a
// concurrent writer.
func (c *Controller) Snapshot() State {
	return *c.state.Load()
}

func (c *Controller) update(fn func(*State)) State {
	for {
		cur := c.state.Load()
		next := *cur
		fn(&next)
		if c.state.CompareAndSwap(cur, &next) {
			return next
		}
	}
}

func (c *Controller) live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle != nil
}

func (c *Controller) Start(ctx context.Context) error {
	c.ops.Lock()
	defer c.ops.Unlock()
	if c.live() {
		return nil
	}
	return c.start(ctx)
}

func (c *Controller) Stop(ctx context.Context) error {
	c.ops.Lock()
	defer c.ops.Unlock()
	faded := c.fadeOut()
	c.update(func(s *State) { s.Status = Stopped })
	if faded {
		c.log.Info("playback stopped")
	}
	return nil
}

func (c *Controller) Toggle(ctx context.Context) error {
	if c.Snapshot().Playing() {
		return c.Stop(ctx)
	}
	return c.Start(ctx)
}

// SelectCarrier switches the carrier frequency. Selecting the current
// carrier while playing restarts the sound.
func (c *Controller) SelectCarrier(ctx context.Context, label string) error {
	p, ok := tone.LookupCarrier(label)
	if !ok {
		return errors.Wrapf(ErrUnknownProfile, "carrier %q", label)
	}
	return c.retune(ctx, func(s *State) { s.Carrier = p })
}

// SelectModulation switches the beat frequency. Selecting the current
// modulation while playing restarts the sound.
func (c *Controller) SelectModulation(ctx context.Context, label string) error {
	p, ok := tone.LookupModulation(label)
	if !ok {
		return errors.Wrapf(ErrUnknownProfile, "modulation %q", label)
	}
	return c.retune(ctx, func(s *State) { s.Modulation = p })
}

// SetVolume clamps v to [0,1] and applies it to the live sound, if any.
func (c *Controller) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.update(func(s *State) { s.Volume = clamp01(v) })
	if c.handle != nil {
		c.handle.SetVolume(st.Volume)
	}
}

// Close releases the live sound and any sound still fading out, without
// waiting.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle != nil {
		c.handle.Release()
		c.handle = nil
	}
	if c.fadingHandle != nil {
		c.fadingHandle.Release()
		c.fadingHandle = nil
	}
	c.update(func(s *State) { s.Status = Stopped })
}

func (c *Controller) retune(ctx context.Context, fn func(*State)) error {
	c.ops.Lock()
	defer c.ops.Unlock()

	st := c.update(fn)
	c.log.Debugf("retune: %s", st.Label())
	if !c.fadeOut() {
		return nil
	}
	if err := c.awaitFade(ctx); err != nil {
		c.update(func(s *State) { s.Status = Stopped })
		return err
	}
	return c.start(ctx)
}

// start must be called with ops held and no live handle.
func (c *Controller) start(ctx context.Context) error {
	if err := c.awaitFade(ctx); err != nil {
		return err
	}

	st := c.Snapshot()
	buf, err := tone.ComposeBinauralBeat(st.Carrier.Hz, st.Modulation.Hz, c.opts.ToneDuration.Seconds(), c.opts.SampleRate)
	if err != nil {
		c.update(func(s *State) { s.Status = Stopped })
		return errors.WithMessage(err, "compose binaural beat")
	}

	h, err := c.sink.Play(tone.ToPCM16(buf), LoopForever, c.opts.FadeDuration)
	if err != nil {
		c.update(func(s *State) { s.Status = Stopped })
		c.log.Errorf("sink rejected playback: %v", err)
		return &sinkError{cause: err}
	}

	// Volume may have moved while the buffer was built.
	c.mu.Lock()
	h.SetVolume(c.Snapshot().Volume)
	c.handle = h
	c.mu.Unlock()

	c.update(func(s *State) { s.Status = Playing })
	c.log.Infof("playing %.1f Hz carrier, %g Hz beat (left %g Hz, right %g Hz)",
		st.Carrier.Hz, st.Modulation.Hz, st.Carrier.Hz-st.Modulation.Hz/2, st.Carrier.Hz+st.Modulation.Hz/2)
	return nil
}

// fadeOut starts fading the live handle and releases it once silent. The
// next start waits for that fade. It reports false when nothing was playing.
func (c *Controller) fadeOut() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := c.handle
	if h == nil {
		return false
	}
	c.handle = nil
	done := h.FadeOut(c.opts.FadeDuration)
	c.fading, c.fadingHandle = done, h
	go func() {
		<-done
		h.Release()
		c.mu.Lock()
		if c.fadingHandle == h {
			c.fadingHandle = nil
		}
		c.mu.Unlock()
	}()
	return true
}

func (c *Controller) awaitFade(ctx context.Context) error {
	c.mu.Lock()
	done := c.fading
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		c.mu.Lock()
		if c.fading == done {
			c.fading = nil
		}
		c.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package playback

import (
	"sync"
	"time"
)

// HeadlessSink accepts buffers without an audio device. Fades complete on a
// timer of the requested length. It keeps every handle it created so callers
// can inspect what would have been played.
type HeadlessSink struct {
	mu     sync.Mutex
	plays  []*HeadlessHandle
	reject error
}

func NewHeadlessSink() *HeadlessSink {
	return &HeadlessSink{}
}

// RejectWith makes every following Play fail with err. A nil err restores
// normal behaviour.
func (s *HeadlessSink) RejectWith(err error) {
	s.mu.Lock()
	s.reject = err
	s.mu.Unlock()
}

func (s *HeadlessSink) Play(pcm []int16, loops int, fadeIn time.Duration) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reject != nil {
		return nil, s.reject
	}
	h := &HeadlessHandle{
		PCM:    pcm,
		Loops:  loops,
		FadeIn: fadeIn,
		volume: 1,
		done:   make(chan struct{}),
	}
	s.plays = append(s.plays, h)
	return h, nil
}

// Plays returns the handles created so far, oldest first.
func (s *HeadlessSink) Plays() []*HeadlessHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*HeadlessHandle(nil), s.plays...)
}

func (s *HeadlessSink) Close() error { return nil }

type HeadlessHandle struct {
	PCM    []int16
	Loops  int
	FadeIn time.Duration

	mu       sync.Mutex
	volume   float64
	fadeOut  time.Duration
	fading   bool
	released bool
	silent   bool
	done     chan struct{}
}

func (h *HeadlessHandle) SetVolume(v float64) {
	h.mu.Lock()
	h.volume = clamp01(v)
	h.mu.Unlock()
}

func (h *HeadlessHandle) FadeOut(d time.Duration) <-chan struct{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.fading || h.silent {
		return h.done
	}
	h.fading = true
	h.fadeOut = d
	if d <= 0 {
		h.silence()
	} else {
		time.AfterFunc(d, func() {
			h.mu.Lock()
			h.silence()
			h.mu.Unlock()
		})
	}
	return h.done
}

func (h *HeadlessHandle) Release() {
	h.mu.Lock()
	h.released = true
	h.silence()
	h.mu.Unlock()
}

func (h *HeadlessHandle) silence() {
	if !h.silent {
		h.silent = true
		close(h.done)
	}
}

func (h *HeadlessHandle) Volume() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.volume
}

// FadedOut reports whether a fade-out was requested and its length.
func (h *HeadlessHandle) FadedOut() (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.fadeOut, h.fading
}

func (h *HeadlessHandle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Silent reports whether the sound has finished, by fade or release.
func (h *HeadlessHandle) Silent() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.silent
}

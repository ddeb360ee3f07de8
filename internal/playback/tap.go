package playback

import "sync"

// Tap records the last N frames handed to the audio device so the window can
// draw meters and a scope from what is actually playing.
type Tap struct {
	buffer    [][2]float64
	nextIndex int
	mu        sync.RWMutex
}

func NewTap(ringSize int) *Tap {
	if ringSize < 1 {
		ringSize = 1
	}
	return &Tap{buffer: make([][2]float64, ringSize)}
}

func (t *Tap) Record(samples [][2]float64) {
	if len(samples) == 0 {
		return
	}
	t.mu.Lock()
	for _, s := range samples {
		t.buffer[t.nextIndex] = s
		t.nextIndex++
		if t.nextIndex >= len(t.buffer) {
			t.nextIndex = 0
		}
	}
	t.mu.Unlock()
}

// Snapshot returns up to the last n frames, oldest first.
func (t *Tap) Snapshot(n int) [][2]float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.buffer) {
		n = len(t.buffer)
	}
	if n <= 0 {
		return nil
	}
	out := make([][2]float64, n)
	idx := t.nextIndex - n
	if idx < 0 {
		idx += len(t.buffer)
	}
	for i := range out {
		out[i] = t.buffer[idx]
		idx++
		if idx >= len(t.buffer) {
			idx = 0
		}
	}
	return out
}

package playback

// envelope is a linear gain ramp applied per frame. It is not synchronized;
// callers hold the lock of the sink that owns it.
type envelope struct {
	level   float64
	step    float64
	fading  bool
	stopped bool
	done    chan struct{}
}

func newEnvelope(fadeInFrames int) *envelope {
	e := &envelope{done: make(chan struct{})}
	if fadeInFrames <= 0 {
		e.level = 1
	} else {
		e.step = 1 / float64(fadeInFrames)
	}
	return e
}

// next returns the gain for the current frame and advances the ramp. It
// reports false once a fade-out has reached silence or the envelope was
// finished.
func (e *envelope) next() (float64, bool) {
	if e.stopped {
		return 0, false
	}
	l := e.level
	if e.fading {
		if l <= 0 {
			e.finish()
			return 0, false
		}
		e.level -= e.step
		if e.level < 0 {
			e.level = 0
		}
		return l, true
	}
	if e.level < 1 {
		e.level += e.step
		if e.level > 1 {
			e.level = 1
		}
	}
	return l, true
}

func (e *envelope) fadeOut(frames int) <-chan struct{} {
	if e.stopped || e.fading {
		return e.done
	}
	if frames <= 0 || e.level <= 0 {
		e.finish()
		return e.done
	}
	e.fading = true
	e.step = e.level / float64(frames)
	return e.done
}

func (e *envelope) finish() {
	if e.stopped {
		return
	}
	e.stopped = true
	e.level = 0
	close(e.done)
}

func (e *envelope) finished() bool { return e.stopped }

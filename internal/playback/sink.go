package playback

import "time"

// LoopForever asks a sink to repeat a buffer until it is faded out or released.
const LoopForever = -1

// Sink accepts interleaved stereo 16-bit PCM and plays it in a loop. loops
// follows the mixer convention: -1 repeats forever, n >= 0 plays n+1 times.
type Sink interface {
	Play(pcm []int16, loops int, fadeIn time.Duration) (Handle, error)
	Close() error
}

// Handle is one sound started by a Sink.
type Handle interface {
	// SetVolume changes the linear gain in place.
	SetVolume(v float64)
	// FadeOut ramps the sound to silence over d. The returned channel is
	// closed once the sound is silent. Repeated calls return the same channel.
	FadeOut(d time.Duration) <-chan struct{}
	// Release stops the sound immediately. It is safe to call more than once.
	Release()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

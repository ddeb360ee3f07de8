// Package tone synthesizes the sine tones and binaural beat buffers that are
// handed to the audio sinks.
package tone

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidParameter reports a non-positive duration, sample rate or
	// frequency, or a volume outside [0,1].
	ErrInvalidParameter = errors.New("invalid tone parameter")

	// ErrResourceExhaustion reports a buffer larger than MaxFrames.
	ErrResourceExhaustion = errors.New("sample buffer too large")
)

// MaxFrames caps a single generated buffer at ten minutes of 44.1kHz audio.
const MaxFrames = 44100 * 60 * 10

// StereoBuffer holds interleaved (left, right) frames.
type StereoBuffer [][2]float64

// GenerateTone returns round(sampleRate*duration) samples of a sine wave at
// frequency scaled by volume. Samples are evenly spaced over [0, duration).
// Frequencies above Nyquist are not rejected.
func GenerateTone(frequency, duration, volume float64, sampleRate int) ([]float64, error) {
	n, err := frameCount(duration, sampleRate)
	if err != nil {
		return nil, err
	}
	if frequency <= 0 || math.IsNaN(frequency) || math.IsInf(frequency, 0) {
		return nil, errors.Wrapf(ErrInvalidParameter, "frequency %v", frequency)
	}
	if volume < 0 || volume > 1 || math.IsNaN(volume) {
		return nil, errors.Wrapf(ErrInvalidParameter, "volume %v", volume)
	}

	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}
	step := duration / float64(n)
	for i := range out {
		t := float64(i) * step
		out[i] = math.Sin(2*math.Pi*frequency*t) * volume
	}
	return out, nil
}

// ComposeBinauralBeat places base-beat/2 in the left channel and base+beat/2
// in the right channel, each at amplitude 0.5. The listener perceives the
// difference, exactly beat Hz.
func ComposeBinauralBeat(base, beat, duration float64, sampleRate int) (StereoBuffer, error) {
	if beat < 0 || base <= beat/2 {
		return nil, errors.Wrapf(ErrInvalidParameter, "base %v Hz with beat %v Hz", base, beat)
	}

	left, err := GenerateTone(base-beat/2, duration, 0.5, sampleRate)
	if err != nil {
		return nil, errors.WithMessage(err, "left channel")
	}
	right, err := GenerateTone(base+beat/2, duration, 0.5, sampleRate)
	if err != nil {
		return nil, errors.WithMessage(err, "right channel")
	}

	buf := make(StereoBuffer, len(left))
	for i := range buf {
		buf[i] = [2]float64{left[i], right[i]}
	}
	return buf, nil
}

func frameCount(duration float64, sampleRate int) (int, error) {
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return 0, errors.Wrapf(ErrInvalidParameter, "duration %v", duration)
	}
	if sampleRate <= 0 {
		return 0, errors.Wrapf(ErrInvalidParameter, "sample rate %d", sampleRate)
	}
	n := math.Round(float64(sampleRate) * duration)
	if n > MaxFrames {
		return 0, errors.Wrapf(ErrResourceExhaustion, "%.0f frames requested", n)
	}
	return int(n), nil
}

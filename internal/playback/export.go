package playback

import (
	"io"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/wav"
	"github.com/pkg/errors"

	"github.com/iburimskiy/binaural-beats/internal/tone"
)

// ExportWAV writes seconds of the binaural beat described by st as a 16-bit
// stereo WAV. The volume of st is applied; the play status is ignored.
func ExportWAV(w io.WriteSeeker, st State, seconds, sampleRate int, toneDuration time.Duration) error {
	if seconds <= 0 {
		return errors.Wrapf(tone.ErrInvalidParameter, "export length %ds", seconds)
	}
	buf, err := tone.ComposeBinauralBeat(st.Carrier.Hz, st.Modulation.Hz, toneDuration.Seconds(), sampleRate)
	if err != nil {
		return errors.WithMessage(err, "compose binaural beat")
	}

	sr := beep.SampleRate(sampleRate)
	looped := beep.Loop(-1, &pcmStreamer{pcm: tone.ToPCM16(buf)})
	gained := &effects.Gain{Streamer: looped, Gain: clamp01(st.Volume) - 1}
	format := beep.Format{SampleRate: sr, NumChannels: 2, Precision: 2}

	return errors.Wrap(wav.Encode(w, beep.Take(sr.N(time.Duration(seconds)*time.Second), gained), format), "encode wav")
}

// ExportFile is ExportWAV into a newly created file at path.
func ExportFile(path string, st State, seconds, sampleRate int, toneDuration time.Duration) (rerr error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "export")
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = errors.Wrap(err, "export")
		}
	}()
	return ExportWAV(f, st, seconds, sampleRate, toneDuration)
}

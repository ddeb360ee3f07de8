package playback

import (
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/pion/logging"
	"github.com/pkg/errors"

	"github.com/iburimskiy/binaural-beats/internal/tone"
)

// BeepSink plays through the beep speaker. Every handle is a streamer chain
// pcm -> loop -> gain -> fade -> tap added to the speaker mixer.
type BeepSink struct {
	sampleRate beep.SampleRate
	tap        *Tap
	log        logging.LeveledLogger
}

func NewBeepSink(sampleRate int, buffer time.Duration, tap *Tap, log logging.LeveledLogger) (*BeepSink, error) {
	sr := beep.SampleRate(sampleRate)
	if err := speaker.Init(sr, sr.N(buffer)); err != nil {
		return nil, errors.Wrap(err, "speaker init")
	}
	log.Debugf("speaker ready at %d Hz, %d frame buffer", sampleRate, sr.N(buffer))
	return &BeepSink{sampleRate: sr, tap: tap, log: log}, nil
}

func (s *BeepSink) Play(pcm []int16, loops int, fadeIn time.Duration) (Handle, error) {
	st, h, err := s.chain(pcm, loops, fadeIn)
	if err != nil {
		return nil, err
	}
	speaker.Play(st)
	return h, nil
}

func (s *BeepSink) chain(pcm []int16, loops int, fadeIn time.Duration) (beep.Streamer, *beepHandle, error) {
	if len(pcm) < 2 {
		return nil, nil, errors.New("empty pcm buffer")
	}

	count := loops + 1
	if loops < 0 {
		count = -1
	}
	h := &beepHandle{
		sampleRate: s.sampleRate,
		gain:       &effects.Gain{Streamer: beep.Loop(count, &pcmStreamer{pcm: pcm}), Gain: 0},
		env:        newEnvelope(s.sampleRate.N(fadeIn)),
	}

	var st beep.Streamer = &fader{Streamer: h.gain, env: h.env}
	if s.tap != nil {
		st = &tapStreamer{Streamer: st, tap: s.tap}
	}
	return beep.Seq(st, beep.Callback(h.env.finish)), h, nil
}

func (s *BeepSink) Close() error {
	speaker.Lock()
	speaker.Clear()
	speaker.Unlock()
	speaker.Close()
	return nil
}

type beepHandle struct {
	sampleRate beep.SampleRate
	gain       *effects.Gain
	env        *envelope
}

func (h *beepHandle) SetVolume(v float64) {
	speaker.Lock()
	h.gain.Gain = clamp01(v) - 1
	speaker.Unlock()
}

func (h *beepHandle) FadeOut(d time.Duration) <-chan struct{} {
	speaker.Lock()
	defer speaker.Unlock()
	return h.env.fadeOut(h.sampleRate.N(d))
}

func (h *beepHandle) Release() {
	speaker.Lock()
	h.env.finish()
	speaker.Unlock()
}

// pcmStreamer decodes interleaved int16 frames. It is seekable so beep.Loop
// can rewind it.
type pcmStreamer struct {
	pcm []int16
	pos int
}

func (p *pcmStreamer) Stream(samples [][2]float64) (int, bool) {
	frames := p.Len()
	if p.pos >= frames {
		return 0, false
	}
	n := 0
	for n < len(samples) && p.pos < frames {
		samples[n][0] = float64(p.pcm[2*p.pos]) / tone.FullScale
		samples[n][1] = float64(p.pcm[2*p.pos+1]) / tone.FullScale
		p.pos++
		n++
	}
	return n, true
}

func (p *pcmStreamer) Err() error    { return nil }
func (p *pcmStreamer) Len() int      { return len(p.pcm) / 2 }
func (p *pcmStreamer) Position() int { return p.pos }

func (p *pcmStreamer) Seek(pos int) error {
	if pos < 0 || pos > p.Len() {
		return errors.Errorf("seek position %d out of range [0, %d]", pos, p.Len())
	}
	p.pos = pos
	return nil
}

// fader applies an envelope and drains once it reaches silence.
type fader struct {
	Streamer beep.Streamer
	env      *envelope
}

func (f *fader) Stream(samples [][2]float64) (int, bool) {
	if f.env.finished() {
		return 0, false
	}
	n, ok := f.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		l, live := f.env.next()
		if !live {
			return i, i > 0
		}
		samples[i][0] *= l
		samples[i][1] *= l
	}
	return n, ok
}

func (f *fader) Err() error { return f.Streamer.Err() }

type tapStreamer struct {
	Streamer beep.Streamer
	tap      *Tap
}

func (t *tapStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Streamer.Stream(samples)
	t.tap.Record(samples[:n])
	return n, ok
}

func (t *tapStreamer) Err() error { return t.Streamer.Err() }

package playback

import (
	"encoding/binary"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/pion/logging"
	"github.com/pkg/errors"

	"github.com/iburimskiy/binaural-beats/internal/tone"
)

// OtoSink feeds signed 16-bit little-endian PCM straight to an oto context.
// Volume is handled by the oto player, fades by the reader.
type OtoSink struct {
	ctx        *oto.Context
	sampleRate int
	tap        *Tap
	log        logging.LeveledLogger
}

func NewOtoSink(sampleRate int, buffer time.Duration, tap *Tap, log logging.LeveledLogger) (*OtoSink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   buffer,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, errors.Wrap(err, "oto context")
	}
	<-ready
	log.Debugf("oto context ready at %d Hz", sampleRate)
	return &OtoSink{ctx: ctx, sampleRate: sampleRate, tap: tap, log: log}, nil
}

func (s *OtoSink) Play(pcm []int16, loops int, fadeIn time.Duration) (Handle, error) {
	if len(pcm) < 2 {
		return nil, errors.New("empty pcm buffer")
	}
	r := newPCMReader(pcm, loops, frames(s.sampleRate, fadeIn), s.tap)
	p := s.ctx.NewPlayer(r)
	p.Play()
	if err := s.ctx.Err(); err != nil {
		_ = p.Close()
		return nil, errors.Wrap(err, "oto player")
	}
	return &otoHandle{player: p, reader: r, sampleRate: s.sampleRate}, nil
}

func (s *OtoSink) Close() error {
	return errors.Wrap(s.ctx.Suspend(), "oto suspend")
}

type otoHandle struct {
	player     *oto.Player
	reader     *pcmReader
	sampleRate int
	once       sync.Once
}

func (h *otoHandle) SetVolume(v float64) {
	v = clamp01(v)
	h.reader.setGain(v)
	h.player.SetVolume(v)
}

func (h *otoHandle) FadeOut(d time.Duration) <-chan struct{} {
	h.reader.mu.Lock()
	defer h.reader.mu.Unlock()
	return h.reader.env.fadeOut(frames(h.sampleRate, d))
}

func (h *otoHandle) Release() {
	h.reader.mu.Lock()
	h.reader.env.finish()
	h.reader.mu.Unlock()
	h.once.Do(func() { _ = h.player.Close() })
}

// pcmReader loops a PCM buffer as a byte stream, applying the envelope.
type pcmReader struct {
	mu      sync.Mutex
	pcm     []int16
	pos     int
	remains int
	env     *envelope
	tap     *Tap
	frames  [][2]float64

	// gain mirrors the player volume so the tap sees what is heard.
	gain float64
}

func newPCMReader(pcm []int16, loops, fadeInFrames int, tap *Tap) *pcmReader {
	return &pcmReader{pcm: pcm, remains: loops, env: newEnvelope(fadeInFrames), tap: tap, gain: 1}
}

func (r *pcmReader) setGain(v float64) {
	r.mu.Lock()
	r.gain = v
	r.mu.Unlock()
}

func (r *pcmReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	want := len(p) / 4
	if cap(r.frames) < want {
		r.frames = make([][2]float64, want)
	}
	r.frames = r.frames[:0]

	n := 0
	for n < want {
		if r.pos*2 >= len(r.pcm) {
			if r.remains == 0 {
				r.env.finish()
				break
			}
			if r.remains > 0 {
				r.remains--
			}
			r.pos = 0
		}
		l, live := r.env.next()
		if !live {
			break
		}
		left := scale(r.pcm[2*r.pos], l)
		right := scale(r.pcm[2*r.pos+1], l)
		binary.LittleEndian.PutUint16(p[4*n:], uint16(left))
		binary.LittleEndian.PutUint16(p[4*n+2:], uint16(right))
		r.frames = append(r.frames, [2]float64{
			float64(left) * r.gain / tone.FullScale,
			float64(right) * r.gain / tone.FullScale,
		})
		r.pos++
		n++
	}
	if r.tap != nil {
		r.tap.Record(r.frames)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return 4 * n, nil
}

func scale(s int16, gain float64) int16 {
	return int16(float64(s) * gain)
}

func frames(sampleRate int, d time.Duration) int {
	return int(int64(sampleRate) * int64(d) / int64(time.Second))
}

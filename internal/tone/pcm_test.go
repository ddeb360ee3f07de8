package tone

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPCM16RoundTrip(t *testing.T) {
	values := []float64{-1, -0.999, -0.5, -0.123456, -0.001, 0.001, 0.25, 0.5, 0.777, 1}
	buf := make(StereoBuffer, 0, len(values))
	for _, v := range values {
		buf = append(buf, [2]float64{v, -v})
	}

	pcm := ToPCM16(buf)
	require.Len(t, pcm, 2*len(buf))
	back := FromPCM16(pcm)
	require.Len(t, back, len(buf))

	for i := range buf {
		for ch := 0; ch < 2; ch++ {
			in, out := buf[i][ch], back[i][ch]
			assert.Equal(t, math.Signbit(in), math.Signbit(out), "sign of %v", in)
			assert.Less(t, math.Abs(in-out), 1.0/(1<<15), "magnitude of %v", in)
		}
	}
}

func TestToPCM16FullScaleAndClipping(t *testing.T) {
	pcm := ToPCM16(StereoBuffer{{1, -1}, {2, -3}, {0, 0}})
	assert.Equal(t, []int16{FullScale, -FullScale, FullScale, -FullScale, 0, 0}, pcm)
}

func TestToPCM16Interleaves(t *testing.T) {
	buf, err := ComposeBinauralBeat(370, 2, 0.01, 44100)
	require.NoError(t, err)
	pcm := ToPCM16(buf)
	for i, f := range buf {
		assert.Equal(t, quantize(f[0]), pcm[2*i])
		assert.Equal(t, quantize(f[1]), pcm[2*i+1])
	}
}

func TestFromPCM16DropsOddSample(t *testing.T) {
	assert.Len(t, FromPCM16([]int16{1, 2, 3}), 1)
}

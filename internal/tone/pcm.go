package tone

import "math"

// FullScale is the int16 value that represents an amplitude of 1.0.
const FullScale = 1<<15 - 1

// ToPCM16 converts a stereo buffer to interleaved signed 16-bit samples.
// Values outside [-1,1] are clipped.
func ToPCM16(buf StereoBuffer) []int16 {
	out := make([]int16, 0, len(buf)*2)
	for _, f := range buf {
		out = append(out, quantize(f[0]), quantize(f[1]))
	}
	return out
}

// FromPCM16 converts interleaved signed 16-bit samples back to frames. A
// trailing odd sample is dropped.
func FromPCM16(pcm []int16) StereoBuffer {
	out := make(StereoBuffer, len(pcm)/2)
	for i := range out {
		out[i] = [2]float64{
			float64(pcm[2*i]) / FullScale,
			float64(pcm[2*i+1]) / FullScale,
		}
	}
	return out
}

func quantize(v float64) int16 {
	s := math.Round(v * FullScale)
	if s > FullScale {
		s = FullScale
	} else if s < -FullScale {
		s = -FullScale
	}
	return int16(s)
}

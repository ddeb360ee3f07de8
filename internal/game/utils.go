package game

import (
	"fmt"
	"image/color"
	"math"
	"time"
)

// hsv converts a hue in degrees (any sign) plus saturation and value in
// [0,1] to an opaque color.
func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var rgb [3]float64
	switch int(h / 60) {
	case 0:
		rgb = [3]float64{c, x, 0}
	case 1:
		rgb = [3]float64{x, c, 0}
	case 2:
		rgb = [3]float64{0, c, x}
	case 3:
		rgb = [3]float64{0, x, c}
	case 4:
		rgb = [3]float64{x, 0, c}
	default:
		rgb = [3]float64{c, 0, x}
	}
	return color.RGBA{
		R: uint8((rgb[0] + m) * 255),
		G: uint8((rgb[1] + m) * 255),
		B: uint8((rgb[2] + m) * 255),
		A: 255,
	}
}

// meterColor runs from green at silence to red at full scale.
func meterColor(level float64) color.RGBA {
	return hsv((1-clamp01(level))*120, 0.8, 0.9)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// formatDuration prints MM:SS, or H:MM:SS once a session passes an hour.
func formatDuration(d time.Duration) string {
	total := int(d / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// rms returns the per-channel root mean square, square-rooted again so
// quiet signals still move the meters.
func rms(samples [][2]float64) (float64, float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	var sum [2]float64
	for _, s := range samples {
		sum[0] += s[0] * s[0]
		sum[1] += s[1] * s[1]
	}
	n := float64(len(samples))
	return math.Sqrt(math.Sqrt(sum[0] / n)), math.Sqrt(math.Sqrt(sum[1] / n))
}

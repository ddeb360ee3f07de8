package animation

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iburimskiy/binaural-beats/internal/tone"
)

func TestColorForCatalog(t *testing.T) {
	want := map[float64]color.RGBA{
		198: {203, 50, 52, 255},
		208: {255, 128, 0, 255},
		264: {250, 250, 55, 255},
		319: {65, 169, 76, 255},
		370: {135, 206, 250, 255},
		426: {50, 82, 123, 255},
		481: {106, 13, 173, 255},
	}
	for _, c := range tone.Carriers() {
		assert.Equal(t, want[c.Hz], ColorFor(c.Hz), c.Label)
	}
}

func TestColorForUnknownIsBlack(t *testing.T) {
	for _, hz := range []float64{0, 197.9, 440, -198} {
		assert.Equal(t, color.RGBA{A: 255}, ColorFor(hz))
	}
}

func TestComplementAndMidpoint(t *testing.T) {
	c := color.RGBA{R: 203, G: 50, B: 52, A: 255}
	assert.Equal(t, color.RGBA{R: 52, G: 205, B: 203, A: 255}, Complement(c))
	assert.Equal(t, color.RGBA{R: 229, G: 152, B: 153, A: 255}, Midpoint(c))
	assert.Equal(t, color.RGBA{R: 127, G: 127, B: 127, A: 255}, Midpoint(color.RGBA{A: 255}))
}

func TestFrameRate(t *testing.T) {
	assert.InDelta(t, 18.81, FrameRate(481, 16), 1e-9)
	assert.InDelta(t, 8.98, FrameRate(198, 2), 1e-9)
}

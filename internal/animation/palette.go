package animation

import "image/color"

// ColorFor maps a carrier frequency to its chakra color. Frequencies outside
// the catalog map to black.
func ColorFor(carrierHz float64) color.RGBA {
	switch carrierHz {
	case 198:
		return color.RGBA{R: 203, G: 50, B: 52, A: 255}
	case 208:
		return color.RGBA{R: 255, G: 128, B: 0, A: 255}
	case 264:
		return color.RGBA{R: 250, G: 250, B: 55, A: 255}
	case 319:
		return color.RGBA{R: 65, G: 169, B: 76, A: 255}
	case 370:
		return color.RGBA{R: 135, G: 206, B: 250, A: 255}
	case 426:
		return color.RGBA{R: 50, G: 82, B: 123, A: 255}
	case 481:
		return color.RGBA{R: 106, G: 13, B: 173, A: 255}
	default:
		return color.RGBA{A: 255}
	}
}

// Complement inverts each channel.
func Complement(c color.RGBA) color.RGBA {
	return color.RGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: 255}
}

// Midpoint blends c halfway towards white.
func Midpoint(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8((255 + int(c.R)) / 2),
		G: uint8((255 + int(c.G)) / 2),
		B: uint8((255 + int(c.B)) / 2),
		A: 255,
	}
}

// FrameRate is the target frames per second for a carrier and beat. The
// visual tempo follows the selected profile.
func FrameRate(carrierHz, beatHz float64) float64 {
	return 6 + beatHz/2 + carrierHz/100
}

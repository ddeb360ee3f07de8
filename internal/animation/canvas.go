package animation

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/vector"
)

// Canvas is the drawing surface the loop renders to. Content persists
// between frames.
type Canvas interface {
	// Overlay blends c over the whole canvas with the given alpha.
	Overlay(c color.RGBA, alpha uint8)
	// Rotate turns the current content counter-clockwise around the canvas
	// center by deg degrees.
	Rotate(deg float64)
	// Circle draws a filled disc.
	Circle(x, y, r int, c color.RGBA)
	// Present hands the finished frame to the display.
	Present()
	Bounds() image.Rectangle
}

// Presenter receives finished frames. Implementations copy the pixels; the
// image is reused for the next frame.
type Presenter interface {
	Present(frame *image.RGBA)
}

// Raster is a software Canvas over an RGBA image.
type Raster struct {
	img     *image.RGBA
	scratch *image.RGBA
	out     Presenter
	discs   map[int]*image.Alpha
	raster  *vector.Rasterizer
}

func NewRaster(width, height int, background color.RGBA, out Presenter) *Raster {
	r := &Raster{
		img:     image.NewRGBA(image.Rect(0, 0, width, height)),
		scratch: image.NewRGBA(image.Rect(0, 0, width, height)),
		out:     out,
		discs:   map[int]*image.Alpha{},
		raster:  vector.NewRasterizer(1, 1),
	}
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	return r
}

func (r *Raster) Bounds() image.Rectangle { return r.img.Bounds() }

// Image exposes the backing image. It is only valid between frames.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Overlay(c color.RGBA, alpha uint8) {
	// image.Uniform wants premultiplied color.
	a := uint32(alpha)
	tint := color.RGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: alpha,
	}
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(tint), image.Point{}, draw.Over)
}

func (r *Raster) Rotate(deg float64) {
	if deg == 0 {
		return
	}
	copy(r.scratch.Pix, r.img.Pix)

	b := r.img.Bounds()
	cx := float64(b.Dx()) / 2
	cy := float64(b.Dy()) / 2
	sin, cos := math.Sincos(deg * math.Pi / 180)
	// Source to destination transform. On a y-down surface a positive angle
	// turns the picture counter-clockwise.
	s2d := f64.Aff3{
		cos, sin, cx - cx*cos - cy*sin,
		-sin, cos, cy + cx*sin - cy*cos,
	}
	draw.NearestNeighbor.Transform(r.img, s2d, r.scratch, r.scratch.Bounds(), draw.Src, nil)
}

func (r *Raster) Circle(x, y, radius int, c color.RGBA) {
	if radius < 1 {
		radius = 1
	}
	mask := r.disc(radius)
	dst := image.Rect(x-radius, y-radius, x+radius+1, y+radius+1)
	if !dst.Overlaps(r.img.Bounds()) {
		return
	}
	draw.DrawMask(r.img, dst, image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

func (r *Raster) Present() {
	if r.out != nil {
		r.out.Present(r.img)
	}
}

// disc returns an anti-aliased mask of a filled circle of the given radius,
// centered in a (2r+1) square.
func (r *Raster) disc(radius int) *image.Alpha {
	if m, ok := r.discs[radius]; ok {
		return m
	}
	size := 2*radius + 1
	c := float32(size) / 2
	rad := float32(radius) + 0.5
	// Cubic Bézier quarter-circle control distance.
	k := rad * 0.5522847

	r.raster.Reset(size, size)
	r.raster.MoveTo(c+rad, c)
	r.raster.CubeTo(c+rad, c+k, c+k, c+rad, c, c+rad)
	r.raster.CubeTo(c-k, c+rad, c-rad, c+k, c-rad, c)
	r.raster.CubeTo(c-rad, c-k, c-k, c-rad, c, c-rad)
	r.raster.CubeTo(c+k, c-rad, c+rad, c-k, c+rad, c)
	r.raster.ClosePath()

	m := image.NewAlpha(image.Rect(0, 0, size, size))
	r.raster.Draw(m, m.Bounds(), image.Opaque, image.Point{})
	r.discs[radius] = m
	return m
}

// Package canvas provides drawing targets for the particle field: an
// offscreen raster and a terminal cell grid.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"
)

// kappa places cubic Bézier control points so four segments approximate
// a circle.
const kappa = 0.5522847498

// Raster is an offscreen RGBA surface. Its backing buffer is reallocated
// on every Resize.
type Raster struct {
	img *image.RGBA
	bg  *image.Uniform
	z   vector.Rasterizer
}

func NewRaster(width, height int, bg color.Color) *Raster {
	r := &Raster{bg: image.NewUniform(bg)}
	r.Resize(width, height)
	return r
}

func (r *Raster) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	r.Clear()
}

// Size implements surface.Viewport for headless runs, where the buffer
// itself is the viewport.
func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Bounds(), r.bg, image.Point{}, draw.Src)
}

// FillCircle composites a disc centred on (x, y) over the buffer. Only the
// disc's bounding box, clipped to the buffer, is rasterised.
func (r *Raster) FillCircle(x, y, radius float64, col color.Color) {
	if radius <= 0 {
		return
	}
	x0, y0 := int(math.Floor(x-radius)), int(math.Floor(y-radius))
	side := int(math.Ceil(2*radius)) + 2
	clip := image.Rect(x0, y0, x0+side, y0+side).Intersect(r.img.Bounds())
	if clip.Empty() {
		return
	}

	// Path coordinates are local to clip.Min
	cx, cy := float32(x)-float32(clip.Min.X), float32(y)-float32(clip.Min.Y)
	rr := float32(radius)
	k := float32(kappa) * rr

	r.z.Reset(clip.Dx(), clip.Dy())
	r.z.MoveTo(cx+rr, cy)
	r.z.CubeTo(cx+rr, cy+k, cx+k, cy+rr, cx, cy+rr)
	r.z.CubeTo(cx-k, cy+rr, cx-rr, cy+k, cx-rr, cy)
	r.z.CubeTo(cx-rr, cy-k, cx-k, cy-rr, cx, cy-rr)
	r.z.CubeTo(cx+k, cy-rr, cx+rr, cy-k, cx+rr, cy)
	r.z.ClosePath()
	r.z.Draw(r.img, clip, image.NewUniform(col), image.Point{})
}

// Image returns the backing buffer. It is replaced by Resize.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

// WritePNG encodes the current buffer.
func (r *Raster) WritePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}
	return nil
}

package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// screenCanvas draws onto the image passed to Draw. ebiten owns the
// backbuffer, so Resize only records the layout size.
type screenCanvas struct {
	img  *ebiten.Image
	bg   color.Color
	w, h int
}

func newScreenCanvas(bg color.Color) *screenCanvas {
	return &screenCanvas{bg: bg}
}

func (c *screenCanvas) bind(img *ebiten.Image) {
	c.img = img
}

func (c *screenCanvas) Resize(width, height int) {
	c.w, c.h = width, height
}

func (c *screenCanvas) Clear() {
	if c.img == nil {
		return
	}
	// A transparent background lets the page behind the window show through
	if _, _, _, a := c.bg.RGBA(); a == 0 {
		c.img.Clear()
		return
	}
	c.img.Fill(c.bg)
}

func (c *screenCanvas) FillCircle(x, y, r float64, col color.Color) {
	if c.img == nil || r <= 0 {
		return
	}
	vector.DrawFilledCircle(c.img, float32(x), float32(y), float32(r), col, true)
}

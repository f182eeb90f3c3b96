package canvas

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
)

// Nominal pixel size of one terminal cell, so a terminal reports roughly
// the pixel area its window covers.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Terminal maps surface pixels onto tcell cells, CellWidth x CellHeight
// pixels per cell. Discs are drawn as a single glyph sized by radius,
// coloured by blending the particle colour over the background by its alpha.
type Terminal struct {
	screen tcell.Screen
	bg     color.NRGBA
	w, h   int // pixels
}

func NewTerminal(screen tcell.Screen, bg color.Color) *Terminal {
	return &Terminal{
		screen: screen,
		bg:     color.NRGBAModel.Convert(bg).(color.NRGBA),
	}
}

// Size reports the terminal size in pixels.
func (t *Terminal) Size() (int, int) {
	cols, rows := t.screen.Size()
	return cols * CellWidth, rows * CellHeight
}

func (t *Terminal) Resize(width, height int) {
	t.w, t.h = width, height
	t.screen.Sync()
}

func (t *Terminal) Clear() {
	t.screen.Fill(' ', tcell.StyleDefault.Background(t.bgColor()))
}

func (t *Terminal) FillCircle(x, y, r float64, col color.Color) {
	if x < 0 || y < 0 || x >= float64(t.w) || y >= float64(t.h) {
		return
	}
	cx, cy := int(math.Floor(x/CellWidth)), int(math.Floor(y/CellHeight))
	fg := blend(t.bg, color.NRGBAModel.Convert(col).(color.NRGBA))
	style := tcell.StyleDefault.
		Background(t.bgColor()).
		Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B)))
	t.screen.SetContent(cx, cy, glyph(r), nil, style)
}

func (t *Terminal) bgColor() tcell.Color {
	if t.bg.A == 0 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(t.bg.R), int32(t.bg.G), int32(t.bg.B))
}

func glyph(r float64) rune {
	switch {
	case r < 0.66:
		return '·'
	case r < 1.33:
		return '•'
	default:
		return '●'
	}
}

// blend composites c over an opaque bg. A transparent bg is treated as black.
func blend(bg, c color.NRGBA) color.NRGBA {
	a := float64(c.A) / 255
	mix := func(b, f uint8) uint8 {
		return uint8(float64(b)*(1-a) + float64(f)*a + 0.5)
	}
	if bg.A == 0 {
		bg = color.NRGBA{A: 255}
	}
	return color.NRGBA{R: mix(bg.R, c.R), G: mix(bg.G, c.G), B: mix(bg.B, c.B), A: 255}
}

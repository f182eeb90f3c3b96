package canvas

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/ambient-field/internal/field"
)

var (
	green     = color.NRGBA{R: 57, G: 255, B: 20, A: 255}
	greenRGBA = color.RGBA{R: 57, G: 255, B: 20, A: 255}
)

func TestRaster_ClearIsTransparent(t *testing.T) {
	r := NewRaster(16, 16, color.Transparent)
	r.FillCircle(8, 8, 4, green)
	r.Clear()

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if a := r.Image().RGBAAt(x, y).A; a != 0 {
				t.Fatalf("pixel (%d,%d) alpha = %d after clear", x, y, a)
			}
		}
	}
}

func TestRaster_FillCircleCoversDisc(t *testing.T) {
	r := NewRaster(32, 32, color.Transparent)
	r.FillCircle(16, 16, 6, green)

	img := r.Image()
	if c := img.RGBAAt(16, 16); c != greenRGBA {
		t.Errorf("centre = %v, want %v", c, greenRGBA)
	}
	if c := img.RGBAAt(0, 0); c.A != 0 {
		t.Errorf("corner should stay empty, got %v", c)
	}
	if c := img.RGBAAt(16, 24); c.A != 0 {
		t.Errorf("pixel outside radius should stay empty, got %v", c)
	}
}

func TestRaster_FillCircleClipsAtEdges(t *testing.T) {
	r := NewRaster(16, 16, color.Transparent)
	r.FillCircle(0.5, 0.5, 2, green)
	r.FillCircle(15.5, 15.5, 2, green)
	r.FillCircle(-10, 8, 2, green)

	img := r.Image()
	if c := img.RGBAAt(0, 0); c != greenRGBA {
		t.Errorf("top-left = %v, want %v", c, greenRGBA)
	}
	if c := img.RGBAAt(15, 15); c != greenRGBA {
		t.Errorf("bottom-right = %v, want %v", c, greenRGBA)
	}
	// Nothing may bleed into the opposite corners or far from the discs
	for _, p := range []image.Point{{15, 0}, {0, 15}, {5, 0}, {0, 5}, {8, 8}, {0, 8}} {
		if c := img.RGBAAt(p.X, p.Y); c.A != 0 {
			t.Errorf("pixel %v = %v, want empty", p, c)
		}
	}
}

func TestRaster_LargeFrameIsFast(t *testing.T) {
	r := NewRaster(1280, 720, color.Transparent)
	f := field.New(field.DefaultParams(), field.NewRand(1))
	f.Populate(field.Bounds{Width: 1280, Height: 720})

	start := time.Now()
	for i := 0; i < 10; i++ {
		f.Step()
		f.Render(r)
	}
	// 60 fps leaves ~16ms per frame
	if per := time.Since(start) / 10; per > 50*time.Millisecond {
		t.Errorf("1280x720 frame took %v", per)
	}
}

func TestRaster_ZeroRadiusDrawsNothing(t *testing.T) {
	r := NewRaster(8, 8, color.Transparent)
	r.FillCircle(4, 4, 0, green)
	if c := r.Image().RGBAAt(4, 4); c.A != 0 {
		t.Errorf("expected nothing drawn, got %v", c)
	}
}

func TestRaster_ResizeReallocates(t *testing.T) {
	r := NewRaster(10, 10, color.Black)
	before := r.Image()
	r.Resize(40, 20)

	if w, h := r.Size(); w != 40 || h != 20 {
		t.Errorf("size = %dx%d, want 40x20", w, h)
	}
	if r.Image() == before {
		t.Error("expected a new backing buffer")
	}
	if c := r.Image().RGBAAt(39, 19); c != (color.RGBA{A: 255}) {
		t.Errorf("resized buffer should be cleared to background, got %v", c)
	}

	r.Resize(-3, 5)
	if w, _ := r.Size(); w != 0 {
		t.Errorf("negative width should clamp to 0, got %d", w)
	}
	r.FillCircle(1, 1, 1, green)
}

func TestRaster_GoldenFrameDeterministic(t *testing.T) {
	render := func() []byte {
		r := NewRaster(400, 300, color.Transparent)
		f := field.New(field.DefaultParams(), field.NewRand(77))
		f.Populate(field.Bounds{Width: 400, Height: 300})
		for i := 0; i < 30; i++ {
			f.Step()
		}
		f.Render(r)
		var buf bytes.Buffer
		if err := r.WritePNG(&buf); err != nil {
			t.Fatalf("WritePNG: %v", err)
		}
		return buf.Bytes()
	}

	a, b := render(), render()
	if !bytes.Equal(a, b) {
		t.Fatal("same seed produced different frames")
	}
	if _, err := png.Decode(bytes.NewReader(a)); err != nil {
		t.Fatalf("decoding frame: %v", err)
	}
}

func TestTerminal_SizeInPixels(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(80, 24)

	w, h := NewTerminal(screen, color.Black).Size()
	if w != 80*CellWidth || h != 24*CellHeight {
		t.Errorf("size = %dx%d, want %dx%d", w, h, 80*CellWidth, 24*CellHeight)
	}
}

func TestTerminal_DrawsBlendedGlyph(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(20, 10)

	tc := NewTerminal(screen, color.Black)
	w, h := tc.Size()
	tc.Resize(w, h)
	tc.Clear()
	// cell (3, 2)
	tc.FillCircle(3.7*CellWidth, 2.2*CellHeight, 1.5, color.NRGBA{R: 200, G: 100, B: 0, A: 128})

	mainc, _, style, _ := screen.GetContent(3, 2)
	if mainc != '●' {
		t.Errorf("glyph = %q, want '●'", mainc)
	}
	fg, _, _ := style.Decompose()
	r, g, b := fg.RGB()
	if r != 100 || g != 50 || b != 0 {
		t.Errorf("fg = (%d,%d,%d), want (100,50,0)", r, g, b)
	}
}

func TestTerminal_OutOfRangeIgnored(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(5, 5)

	tc := NewTerminal(screen, color.Transparent)
	tc.Resize(tc.Size())
	tc.Clear()
	tc.FillCircle(5*CellWidth+1, CellHeight, 1, green)
	tc.FillCircle(-0.5, CellHeight, 1, green)

	for x := 0; x < 5; x++ {
		if c, _, _, _ := screen.GetContent(x, 1); c != ' ' {
			t.Errorf("cell (%d,1) = %q, want blank", x, c)
		}
	}
}

func TestGlyph(t *testing.T) {
	tests := []struct {
		r    float64
		want rune
	}{
		{0.1, '·'},
		{1.0, '•'},
		{1.9, '●'},
	}
	for _, tt := range tests {
		if got := glyph(tt.r); got != tt.want {
			t.Errorf("glyph(%v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

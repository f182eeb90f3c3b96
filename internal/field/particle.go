package field

import "image/color"

// Particle is a single decorative point drifting across the surface.
// Only X and Y change after construction.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Alpha  float64

	hue color.NRGBA
}

// Color returns the fill colour: the field hue with this particle's alpha.
func (p Particle) Color() color.NRGBA {
	c := p.hue
	c.A = alphaByte(p.Alpha)
	return c
}

// advance moves the particle by its velocity and wraps it back into b,
// one axis at a time.
func (p *Particle) advance(b Bounds) {
	p.X += p.VX
	p.Y += p.VY
	p.X = wrap(p.X, float64(b.Width))
	p.Y = wrap(p.Y, float64(b.Height))
}

// wrap maps v into [0, span) assuming it left the range by less than one span.
func wrap(v, span float64) float64 {
	if v < 0 {
		v += span
	}
	// v+span can round up to exactly span for tiny negative v
	if v >= span {
		v -= span
	}
	return v
}

func alphaByte(a float64) uint8 {
	return uint8(clamp01(a)*255 + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

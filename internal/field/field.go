// Package field implements the ambient particle field: a bounded population
// of points drifting linearly across a toroidal surface.
package field

import (
	"image/color"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Rand is the only source of randomness used when populating a field.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
}

// NewRand returns a PCG source seeded with seed. A zero seed is replaced
// with the current time.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Canvas is a 2D raster target the field can draw onto.
type Canvas interface {
	Clear()
	FillCircle(x, y, r float64, c color.Color)
}

// Bounds is the pixel size of the drawing surface.
type Bounds struct {
	Width, Height int
}

// Area returns Width*Height, treating negative dimensions as zero.
func (b Bounds) Area() int {
	b = b.normalized()
	return b.Width * b.Height
}

func (b Bounds) normalized() Bounds {
	if b.Width < 0 {
		b.Width = 0
	}
	if b.Height < 0 {
		b.Height = 0
	}
	return b
}

// Params controls population density and per-particle sampling ranges.
type Params struct {
	AreaPerParticle int     // square pixels per particle
	MaxParticles    int     // hard cap regardless of area
	MaxVelocity     float64 // vx, vy ~ U[-MaxVelocity, MaxVelocity)
	MaxRadius       float64 // radius ~ U[0, MaxRadius)
	MinAlpha        float64 // alpha ~ U[MinAlpha, MaxAlpha)
	MaxAlpha        float64
	Color           color.NRGBA // alpha channel is ignored
}

// DefaultParams returns the stock backdrop: one neon green particle per
// 10,000 px², at most 100 of them.
func DefaultParams() Params {
	return Params{
		AreaPerParticle: 10000,
		MaxParticles:    100,
		MaxVelocity:     0.25,
		MaxRadius:       2,
		MinAlpha:        0.1,
		MaxAlpha:        0.3,
		Color:           color.NRGBA{R: 57, G: 255, B: 20, A: 255},
	}
}

// TargetCount is the population size for bounds b:
// min(floor(area/AreaPerParticle), MaxParticles).
func TargetCount(b Bounds, p Params) int {
	if p.AreaPerParticle <= 0 || p.MaxParticles <= 0 {
		return 0
	}
	n := b.Area() / p.AreaPerParticle
	if n > p.MaxParticles {
		n = p.MaxParticles
	}
	return n
}

// State reports whether the field currently holds any particles.
type State uint8

const (
	Empty State = iota
	Populated
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Populated:
		return "populated"
	default:
		return "unknown"
	}
}

// Field owns the live particle set. It is not safe for concurrent use;
// a single frame driver is expected to call Populate, Step and Render.
type Field struct {
	params    Params
	rng       Rand
	bounds    Bounds
	particles []Particle
	logger    *slog.Logger
}

// Option configures a Field.
type Option func(*Field)

// WithLogger sets the logger used for population events.
func WithLogger(l *slog.Logger) Option {
	return func(f *Field) {
		if l != nil {
			f.logger = l
		}
	}
}

// New returns an empty field sampling from rng.
func New(params Params, rng Rand, opts ...Option) *Field {
	f := &Field{
		params: params,
		rng:    rng,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Populate discards every particle and samples a fresh set sized for b.
func (f *Field) Populate(b Bounds) {
	b = b.normalized()
	n := TargetCount(b, f.params)

	particles := make([]Particle, n)
	for i := range particles {
		particles[i] = f.spawn(b)
	}

	f.bounds = b
	f.particles = particles

	f.logger.Debug("field populated",
		"width", b.Width,
		"height", b.Height,
		"particles", n,
	)
}

// spawn samples one particle. Sampling order is fixed (x, y, vx, vy,
// radius, alpha) so a seeded source reproduces the same field.
func (f *Field) spawn(b Bounds) Particle {
	p := f.params
	return Particle{
		X:      f.rng.Float64() * float64(b.Width),
		Y:      f.rng.Float64() * float64(b.Height),
		VX:     (f.rng.Float64() - 0.5) * 2 * p.MaxVelocity,
		VY:     (f.rng.Float64() - 0.5) * 2 * p.MaxVelocity,
		Radius: f.rng.Float64() * p.MaxRadius,
		Alpha:  p.MinAlpha + f.rng.Float64()*(p.MaxAlpha-p.MinAlpha),
		hue:    p.Color,
	}
}

// Step advances every particle by one frame.
func (f *Field) Step() {
	for i := range f.particles {
		f.particles[i].advance(f.bounds)
	}
}

// Render clears c and draws every particle as a filled disc, in population order.
func (f *Field) Render(c Canvas) {
	c.Clear()
	for _, p := range f.particles {
		c.FillCircle(p.X, p.Y, p.Radius, p.Color())
	}
}

// State returns Empty until a populate yields at least one particle.
func (f *Field) State() State {
	if len(f.particles) == 0 {
		return Empty
	}
	return Populated
}

// Len returns the current particle count.
func (f *Field) Len() int { return len(f.particles) }

// Bounds returns the bounds of the last populate.
func (f *Field) Bounds() Bounds { return f.bounds }

// Params returns the sampling parameters.
func (f *Field) Params() Params { return f.params }

// Particles returns a copy of the current population.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

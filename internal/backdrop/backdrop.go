// Package backdrop wires the particle field to a host's drawing surface,
// viewport and frame loop.
package backdrop

import (
	"log/slog"
	"time"

	"github.com/iburimskiy/ambient-field/internal/config"
	"github.com/iburimskiy/ambient-field/internal/field"
	"github.com/iburimskiy/ambient-field/internal/frame"
	"github.com/iburimskiy/ambient-field/internal/surface"
	"github.com/iburimskiy/ambient-field/internal/telemetry"
)

// SurfaceID is the well-known identifier of the drawing surface.
const SurfaceID = "particle-canvas"

// Surface is a resizable drawing target.
type Surface interface {
	field.Canvas
	surface.Target
}

// Host is the page or window hosting the backdrop.
type Host interface {
	// Lookup returns the drawing surface registered under id.
	Lookup(id string) (Surface, bool)
	Size() (width, height int)
}

// Backdrop runs one particle field on one surface. A Backdrop whose surface
// was not found is disabled and every method is a no-op.
type Backdrop struct {
	enabled bool
	paused  bool

	surf     Surface
	field    *field.Field
	manager  *surface.Manager
	recorder *telemetry.Recorder
	logger   *slog.Logger

	lastStep time.Duration
}

type options struct {
	rng      field.Rand
	recorder *telemetry.Recorder
	logger   *slog.Logger
}

// Option configures a Backdrop.
type Option func(*options)

// WithRand overrides the seeded source derived from the config.
func WithRand(rng field.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithRecorder records frame timings.
func WithRecorder(r *telemetry.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// New looks up the configured surface on host. If it is absent the returned
// backdrop is disabled and ok is false; this is not an error. Otherwise the
// surface is sized to the viewport and the field populated before returning.
// A nil cfg means config.Default().
func New(host Host, cfg *config.Config, opts ...Option) (b *Backdrop, ok bool) {
	if cfg == nil {
		cfg = config.Default()
	}
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	id := cfg.Surface.ID
	if id == "" {
		id = SurfaceID
	}
	surf, found := host.Lookup(id)
	if !found || surf == nil {
		o.logger.Info("drawing surface not found, backdrop disabled", "id", id)
		return &Backdrop{}, false
	}

	if o.rng == nil {
		o.rng = field.NewRand(cfg.Seed)
	}

	f := field.New(cfg.FieldParams(), o.rng, field.WithLogger(o.logger))
	m := surface.NewManager(host, surf, f,
		surface.WithDebounce(cfg.Surface.ResizeDebounce),
		surface.WithLogger(o.logger),
	)

	b = &Backdrop{
		enabled:  true,
		surf:     surf,
		field:    f,
		manager:  m,
		recorder: o.recorder,
		logger:   o.logger,
	}

	// Initial load is a forced resize
	m.Resize()
	b.logger.Info("backdrop started",
		"id", id,
		"width", m.Bounds().Width,
		"height", m.Bounds().Height,
		"particles", f.Len(),
	)
	return b, true
}

// Enabled reports whether a surface was found.
func (b *Backdrop) Enabled() bool { return b.enabled }

// Attach registers the backdrop's frame on d. A disabled backdrop attaches
// nothing and returns false.
func (b *Backdrop) Attach(d *frame.Driver) bool {
	if !b.enabled {
		return false
	}
	d.Add(b.Frame)
	return true
}

// Notify forwards a viewport resize notification.
func (b *Backdrop) Notify(now time.Time) {
	if !b.enabled {
		return
	}
	b.manager.Notify(now)
}

// Update applies any settled resize and advances the field one frame.
func (b *Backdrop) Update(now time.Time) {
	if !b.enabled {
		return
	}
	b.manager.Poll(now)
	if b.paused {
		b.lastStep = 0
		return
	}
	start := time.Now()
	b.field.Step()
	b.lastStep = time.Since(start)
}

// Draw renders the field onto c.
func (b *Backdrop) Draw(c field.Canvas) {
	if !b.enabled {
		return
	}
	start := time.Now()
	b.field.Render(c)

	bounds := b.field.Bounds()
	b.recorder.Record(telemetry.FrameSample{
		Width:     bounds.Width,
		Height:    bounds.Height,
		Particles: b.field.Len(),
		Step:      b.lastStep,
		Render:    time.Since(start),
	})
}

// Frame runs one full frame onto the looked-up surface: update, then draw.
func (b *Backdrop) Frame(now time.Time) {
	b.Update(now)
	b.Draw(b.surf)
}

// SetPaused freezes or resumes particle motion. Rendering continues.
func (b *Backdrop) SetPaused(p bool) { b.paused = p }

func (b *Backdrop) Paused() bool { return b.paused }

// Field returns the underlying field, nil when disabled.
func (b *Backdrop) Field() *field.Field { return b.field }

// Bounds returns the current surface bounds.
func (b *Backdrop) Bounds() field.Bounds {
	if !b.enabled {
		return field.Bounds{}
	}
	return b.manager.Bounds()
}

// Recorder returns the frame recorder, possibly nil.
func (b *Backdrop) Recorder() *telemetry.Recorder { return b.recorder }

// Package surface keeps a drawing surface's backing buffer sized to the
// viewport and owns the single trigger point for repopulating the field.
package surface

import (
	"log/slog"
	"time"

	"github.com/iburimskiy/ambient-field/internal/field"
)

// Viewport reports the current visible size in pixels.
type Viewport interface {
	Size() (width, height int)
}

// Target is a drawing surface whose backing buffer can be resized.
type Target interface {
	Resize(width, height int)
}

// Populator is repopulated every time the surface bounds are applied.
type Populator interface {
	Populate(b field.Bounds)
}

// Manager applies viewport sizes to a target and repopulates on every resize.
// Like field.Field it expects a single thread of control.
type Manager struct {
	viewport Viewport
	target   Target
	pop      Populator
	logger   *slog.Logger

	debounce time.Duration
	deadline time.Time
	pending  bool

	bounds  field.Bounds
	resizes int
}

// Option configures a Manager.
type Option func(*Manager)

// WithDebounce coalesces resize notifications arriving closer than d apart.
// Zero (the default) resizes on every notification.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.debounce = d
		}
	}
}

// WithLogger sets the logger used for resize events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func NewManager(vp Viewport, target Target, pop Populator, opts ...Option) *Manager {
	m := &Manager{
		viewport: vp,
		target:   target,
		pop:      pop,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Resize reads the viewport, resizes the target 1:1 and repopulates.
// Calling it with an unchanged viewport is harmless and yields an
// equally sized, freshly sampled field.
func (m *Manager) Resize() {
	w, h := m.viewport.Size()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	m.target.Resize(w, h)
	m.bounds = field.Bounds{Width: w, Height: h}
	m.pop.Populate(m.bounds)

	m.pending = false
	m.resizes++

	m.logger.Debug("surface resized", "width", w, "height", h, "resizes", m.resizes)
}

// Notify handles a resize notification received at now. Without debounce
// the resize happens immediately; otherwise it is deferred until no further
// notification arrives for the debounce interval.
func (m *Manager) Notify(now time.Time) {
	if m.debounce == 0 {
		m.Resize()
		return
	}
	m.pending = true
	m.deadline = now.Add(m.debounce)
}

// Poll applies a deferred resize once its deadline has passed and reports
// whether it did.
func (m *Manager) Poll(now time.Time) bool {
	if !m.pending || now.Before(m.deadline) {
		return false
	}
	m.Resize()
	return true
}

// Pending reports whether a deferred resize is waiting.
func (m *Manager) Pending() bool { return m.pending }

// Bounds returns the last applied surface size.
func (m *Manager) Bounds() field.Bounds { return m.bounds }

// Resizes returns how many times the surface has been resized.
func (m *Manager) Resizes() int { return m.resizes }

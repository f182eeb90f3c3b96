// Package frame drives per-frame work from a host-provided "next frame"
// primitive. Everything scheduled here runs on one goroutine.
package frame

import (
	"context"
	"time"
)

// Func is a unit of per-frame work.
type Func func(now time.Time)

// Scheduler runs fn once, at the host's next frame.
type Scheduler interface {
	RequestFrame(fn Func)
}

// Driver is a repeating task bound to a Scheduler. Each frame runs every
// registered task in registration order and then requests the next frame.
type Driver struct {
	sched   Scheduler
	tasks   []Func
	running bool
	frames  uint64
}

func NewDriver(s Scheduler) *Driver {
	return &Driver{sched: s}
}

// Add registers fn to run every frame after the tasks already added.
func (d *Driver) Add(fn Func) {
	d.tasks = append(d.tasks, fn)
}

// Start requests the first frame. Starting a running driver does nothing.
func (d *Driver) Start() {
	if d.running {
		return
	}
	d.running = true
	d.sched.RequestFrame(d.tick)
}

// Stop prevents further frames from being requested. A frame already
// requested still runs but does not reschedule.
func (d *Driver) Stop() {
	d.running = false
}

// Running reports whether the driver keeps requesting frames.
func (d *Driver) Running() bool { return d.running }

// Frames returns the number of frames run so far.
func (d *Driver) Frames() uint64 { return d.frames }

func (d *Driver) tick(now time.Time) {
	if !d.running {
		return
	}
	for _, fn := range d.tasks {
		fn(now)
	}
	d.frames++
	if d.running {
		d.sched.RequestFrame(d.tick)
	}
}

// Manual is a Scheduler advanced explicitly, for tests and offline rendering.
type Manual struct {
	pending Func
}

func (m *Manual) RequestFrame(fn Func) {
	m.pending = fn
}

// Advance runs the pending frame callback at now and reports whether
// there was one.
func (m *Manual) Advance(now time.Time) bool {
	fn := m.pending
	if fn == nil {
		return false
	}
	m.pending = nil
	fn(now)
	return true
}

// Ticker is a wall-clock Scheduler. Frame callbacks and posted events are
// both executed by Run, so they never overlap.
type Ticker struct {
	interval time.Duration
	pending  Func
	events   chan func()
	done     chan struct{}
}

// NewTicker returns a scheduler firing every interval; a non-positive
// interval defaults to 60 frames per second.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &Ticker{
		interval: interval,
		events:   make(chan func(), 64),
		done:     make(chan struct{}),
	}
}

func (t *Ticker) RequestFrame(fn Func) {
	t.pending = fn
}

// Post queues fn to run on the Run goroutine between frames. It blocks
// while the queue is full and reports false, dropping fn, once Run has
// returned.
func (t *Ticker) Post(fn func()) bool {
	select {
	case <-t.done:
		return false
	default:
	}
	select {
	case t.events <- fn:
		return true
	case <-t.done:
		return false
	}
}

// Run services frames and posted events until ctx is done. It must be
// called at most once.
func (t *Ticker) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	defer close(t.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-t.events:
			fn()
		case now := <-ticker.C:
			if fn := t.pending; fn != nil {
				t.pending = nil
				fn(now)
			}
		}
	}
}

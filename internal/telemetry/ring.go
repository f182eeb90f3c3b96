package telemetry

import "time"

// FrameSample is the timing and population of one rendered frame.
type FrameSample struct {
	Frame     uint64
	Width     int
	Height    int
	Particles int
	Step      time.Duration
	Render    time.Duration
}

// Total returns the time spent on the frame.
func (s FrameSample) Total() time.Duration { return s.Step + s.Render }

// frameRing records the last N frame samples so summaries can be computed
// over a rolling window.
type frameRing struct {
	buffer    []FrameSample
	nextIndex int
	count     int
}

func newFrameRing(size int) *frameRing {
	if size < 1 {
		size = 1
	}
	return &frameRing{buffer: make([]FrameSample, size)}
}

func (r *frameRing) push(s FrameSample) {
	r.buffer[r.nextIndex] = s
	r.nextIndex++
	if r.nextIndex >= len(r.buffer) {
		r.nextIndex = 0
	}
	if r.count < len(r.buffer) {
		r.count++
	}
}

// snapshot returns up to the last n samples, oldest first.
func (r *frameRing) snapshot(n int) []FrameSample {
	if n > r.count {
		n = r.count
	}
	out := make([]FrameSample, n)
	// Walk backwards from nextIndex - 1, filling from the end
	idx := r.nextIndex - 1
	for i := n - 1; i >= 0; i-- {
		if idx < 0 {
			idx = len(r.buffer) - 1
		}
		out[i] = r.buffer[idx]
		idx--
	}
	return out
}

// Package telemetry collects per-frame timing for the backdrop and reports
// it as rolling summaries and CSV logs.
package telemetry

import (
	"io"
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Recorder accumulates frame samples. A nil *Recorder is valid and
// records nothing. It is not safe for concurrent use; record and read it
// from the goroutine driving the frames.
type Recorder struct {
	ring *frameRing
	csv  *CSVWriter

	frames uint64
	err    error
}

// NewRecorder keeps the last window samples. If out is non-nil every
// sample is also appended to it as CSV.
func NewRecorder(window int, out io.Writer) *Recorder {
	r := &Recorder{ring: newFrameRing(window)}
	if out != nil {
		r.csv = NewCSVWriter(out)
	}
	return r
}

// Record stores s, assigning it the next frame number.
func (r *Recorder) Record(s FrameSample) {
	if r == nil {
		return
	}
	r.frames++
	s.Frame = r.frames
	r.ring.push(s)

	if r.csv != nil && r.err == nil {
		r.err = r.csv.Write(s)
	}
}

// Frames returns the number of frames recorded.
func (r *Recorder) Frames() uint64 {
	if r == nil {
		return 0
	}
	return r.frames
}

// Err returns the first CSV write error, if any. Recording continues
// in memory after a write error.
func (r *Recorder) Err() error {
	if r == nil {
		return nil
	}
	return r.err
}

// Recent returns up to the last n samples, oldest first.
func (r *Recorder) Recent(n int) []FrameSample {
	if r == nil {
		return nil
	}
	return r.ring.snapshot(n)
}

// Summary describes the frames currently in the rolling window.
type Summary struct {
	Frames      int
	Particles   int // in the most recent frame
	MeanFrame   time.Duration
	StdDevFrame time.Duration
	P95Frame    time.Duration
	MaxFrame    time.Duration
	MeanStep    time.Duration
	MeanRender  time.Duration
}

// Summary computes statistics over the rolling window.
func (r *Recorder) Summary() Summary {
	if r == nil {
		return Summary{}
	}
	samples := r.ring.snapshot(len(r.ring.buffer))
	if len(samples) == 0 {
		return Summary{}
	}

	total := make([]float64, len(samples))
	step := make([]float64, len(samples))
	render := make([]float64, len(samples))
	for i, s := range samples {
		total[i] = float64(s.Total())
		step[i] = float64(s.Step)
		render[i] = float64(s.Render)
	}

	mean, std := stat.MeanStdDev(total, nil)
	if len(total) < 2 {
		std = 0
	}

	sorted := append([]float64(nil), total...)
	sort.Float64s(sorted)

	return Summary{
		Frames:      len(samples),
		Particles:   samples[len(samples)-1].Particles,
		MeanFrame:   time.Duration(mean),
		StdDevFrame: time.Duration(std),
		P95Frame:    time.Duration(stat.Quantile(0.95, stat.Empirical, sorted, nil)),
		MaxFrame:    time.Duration(sorted[len(sorted)-1]),
		MeanStep:    time.Duration(stat.Mean(step, nil)),
		MeanRender:  time.Duration(stat.Mean(render, nil)),
	}
}

// LogSummary writes the current summary at info level.
func (r *Recorder) LogSummary(logger *slog.Logger) {
	if r == nil {
		return
	}
	s := r.Summary()
	logger.Info("frame stats",
		"frames", r.frames,
		"window", s.Frames,
		"particles", s.Particles,
		"mean", s.MeanFrame.Round(time.Microsecond),
		"stddev", s.StdDevFrame.Round(time.Microsecond),
		"p95", s.P95Frame.Round(time.Microsecond),
		"max", s.MaxFrame.Round(time.Microsecond),
		"step", s.MeanStep.Round(time.Microsecond),
		"render", s.MeanRender.Round(time.Microsecond),
	)
}

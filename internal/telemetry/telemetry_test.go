package telemetry

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func sample(particles int, step, render time.Duration) FrameSample {
	return FrameSample{Width: 800, Height: 600, Particles: particles, Step: step, Render: render}
}

func TestRecorder_RollingWindow(t *testing.T) {
	r := NewRecorder(4, nil)
	for i := 1; i <= 10; i++ {
		r.Record(sample(i, time.Duration(i)*time.Millisecond, 0))
	}

	if r.Frames() != 10 {
		t.Errorf("frames = %d, want 10", r.Frames())
	}

	recent := r.Recent(100)
	if len(recent) != 4 {
		t.Fatalf("expected 4 samples in window, got %d", len(recent))
	}
	for i, s := range recent {
		if want := uint64(7 + i); s.Frame != want {
			t.Errorf("recent[%d].Frame = %d, want %d", i, s.Frame, want)
		}
	}
}

func TestRecorder_RecentPartialWindow(t *testing.T) {
	r := NewRecorder(8, nil)
	r.Record(sample(1, time.Millisecond, 0))
	r.Record(sample(2, time.Millisecond, 0))

	recent := r.Recent(8)
	if len(recent) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(recent))
	}
	if recent[0].Frame != 1 || recent[1].Frame != 2 {
		t.Errorf("unexpected order: %+v", recent)
	}
}

func TestRecorder_Summary(t *testing.T) {
	r := NewRecorder(10, nil)
	for i := 1; i <= 4; i++ {
		r.Record(sample(50, time.Duration(i)*time.Millisecond, time.Millisecond))
	}

	s := r.Summary()
	if s.Frames != 4 {
		t.Errorf("frames = %d, want 4", s.Frames)
	}
	if s.Particles != 50 {
		t.Errorf("particles = %d, want 50", s.Particles)
	}
	// totals are 2, 3, 4, 5 ms
	if s.MeanFrame != 3500*time.Microsecond {
		t.Errorf("mean = %v, want 3.5ms", s.MeanFrame)
	}
	if s.MaxFrame != 5*time.Millisecond {
		t.Errorf("max = %v, want 5ms", s.MaxFrame)
	}
	if s.P95Frame != 5*time.Millisecond {
		t.Errorf("p95 = %v, want 5ms", s.P95Frame)
	}
	if s.MeanRender != time.Millisecond {
		t.Errorf("mean render = %v, want 1ms", s.MeanRender)
	}
	if s.StdDevFrame <= 0 {
		t.Errorf("expected positive stddev, got %v", s.StdDevFrame)
	}
}

func TestRecorder_EmptySummary(t *testing.T) {
	r := NewRecorder(10, nil)
	if s := r.Summary(); s != (Summary{}) {
		t.Errorf("expected zero summary, got %+v", s)
	}
}

func TestRecorder_Nil(t *testing.T) {
	var r *Recorder
	r.Record(sample(1, 0, 0))
	r.LogSummary(slog.Default())
	if r.Frames() != 0 || r.Recent(3) != nil || r.Err() != nil {
		t.Error("nil recorder should be inert")
	}
}

func TestRecorder_CSV(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(2, &buf)
	r.Record(sample(12, 1500*time.Microsecond, 250*time.Microsecond))
	r.Record(sample(13, time.Millisecond, 0))

	if err := r.Err(); err != nil {
		t.Fatalf("csv error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[0] != "frame,width,height,particles,step_us,render_us" {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,800,600,12,1500") {
		t.Errorf("row 1 = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "2,800,600,13,1000") {
		t.Errorf("row 2 = %q", lines[2])
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRecorder_CSVErrorKeepsRecording(t *testing.T) {
	r := NewRecorder(4, failingWriter{})
	r.Record(sample(1, 0, 0))
	r.Record(sample(2, 0, 0))

	if r.Err() == nil {
		t.Error("expected write error to be reported")
	}
	if len(r.Recent(4)) != 2 {
		t.Error("samples should still be kept in memory")
	}
}

func TestLogSummary(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	r := NewRecorder(4, nil)
	r.Record(sample(7, time.Millisecond, time.Millisecond))
	r.LogSummary(logger)

	out := buf.String()
	if !strings.Contains(out, "frame stats") || !strings.Contains(out, "particles=7") {
		t.Errorf("unexpected log output: %s", out)
	}
}

package telemetry

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// FrameCSV is the CSV row for a FrameSample.
type FrameCSV struct {
	Frame        uint64  `csv:"frame"`
	Width        int     `csv:"width"`
	Height       int     `csv:"height"`
	Particles    int     `csv:"particles"`
	StepMicros   float64 `csv:"step_us"`
	RenderMicros float64 `csv:"render_us"`
}

// ToCSV converts a sample to its CSV row.
func (s FrameSample) ToCSV() FrameCSV {
	return FrameCSV{
		Frame:        s.Frame,
		Width:        s.Width,
		Height:       s.Height,
		Particles:    s.Particles,
		StepMicros:   float64(s.Step.Nanoseconds()) / 1e3,
		RenderMicros: float64(s.Render.Nanoseconds()) / 1e3,
	}
}

// CSVWriter appends frame rows to w, writing the header once.
type CSVWriter struct {
	w             io.Writer
	headerWritten bool
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// Write appends one row.
func (c *CSVWriter) Write(s FrameSample) error {
	records := []FrameCSV{s.ToCSV()}

	if !c.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, c.w); err != nil {
			return fmt.Errorf("writing frame stats: %w", err)
		}
		c.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, c.w); err != nil {
		return fmt.Errorf("writing frame stats: %w", err)
	}
	return nil
}

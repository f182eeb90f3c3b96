// Command fieldsnap renders the particle backdrop offscreen for a fixed
// number of frames and writes PNG snapshots plus a per-frame CSV log.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/iburimskiy/ambient-field/internal/backdrop"
	"github.com/iburimskiy/ambient-field/internal/canvas"
	"github.com/iburimskiy/ambient-field/internal/config"
	"github.com/iburimskiy/ambient-field/internal/frame"
	"github.com/iburimskiy/ambient-field/internal/telemetry"
)

// snapHost is a fixed-size viewport exposing one offscreen surface.
type snapHost struct {
	id            string
	raster        *canvas.Raster
	width, height int
}

func (h *snapHost) Lookup(id string) (backdrop.Surface, bool) {
	if id != h.id {
		return nil, false
	}
	return h.raster, true
}

func (h *snapHost) Size() (int, int) { return h.width, h.height }

type options struct {
	width, height int
	frames        int
	every         int // snapshot period in frames, 0 = last frame only
	outDir        string
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	width := flag.Int("width", 0, "Viewport width (0 = use config window width)")
	height := flag.Int("height", 0, "Viewport height (0 = use config window height)")
	frames := flag.Int("frames", 60, "Number of frames to render")
	every := flag.Int("every", 0, "Write a PNG every N frames (0 = last frame only)")
	outDir := flag.String("out", ".", "Output directory for PNG frames and config snapshot")
	statsCSV := flag.String("stats-csv", "", "Write per-frame timings to this CSV file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *statsCSV != "" {
		cfg.Telemetry.CSV = *statsCSV
	}

	opts := options{
		width:  *width,
		height: *height,
		frames: *frames,
		every:  *every,
		outDir: *outDir,
	}
	if opts.width <= 0 {
		opts.width = cfg.Window.Width
	}
	if opts.height <= 0 {
		opts.height = cfg.Window.Height
	}

	var csvOut io.Writer
	if cfg.Telemetry.CSV != "" {
		f, err := os.Create(cfg.Telemetry.CSV)
		if err != nil {
			slog.Error("failed to create stats file", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		csvOut = f
	}
	recorder := telemetry.NewRecorder(cfg.Telemetry.Window, csvOut)

	written, err := run(cfg, opts, recorder, slog.Default())
	if err != nil {
		slog.Error("render failed", "error", err)
		os.Exit(1)
	}
	recorder.LogSummary(slog.Default())
	if err := recorder.Err(); err != nil {
		slog.Warn("frame stats incomplete", "error", err)
	}
	slog.Info("done", "frames", opts.frames, "snapshots", len(written), "out", opts.outDir)
}

// run renders opts.frames frames at a synthetic 60 Hz clock and returns the
// paths of the PNG snapshots it wrote.
func run(cfg *config.Config, opts options, recorder *telemetry.Recorder, logger *slog.Logger) ([]string, error) {
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}
	if err := cfg.WriteYAML(filepath.Join(opts.outDir, "config.yaml")); err != nil {
		return nil, err
	}

	host := &snapHost{
		id:     backdrop.SurfaceID,
		raster: canvas.NewRaster(0, 0, cfg.Background()),
		width:  opts.width,
		height: opts.height,
	}
	b, ok := backdrop.New(host, cfg, backdrop.WithRecorder(recorder), backdrop.WithLogger(logger))
	if !ok {
		return nil, nil
	}

	sched := &frame.Manual{}
	driver := frame.NewDriver(sched)
	b.Attach(driver)

	var written []string
	var snapErr error
	driver.Add(func(time.Time) {
		n := int(driver.Frames()) + 1
		if !wantSnapshot(n, opts) {
			return
		}
		path := filepath.Join(opts.outDir, fmt.Sprintf("frame_%05d.png", n))
		if err := writePNG(host.raster, path); err != nil {
			snapErr = err
			driver.Stop()
			return
		}
		written = append(written, path)
		logger.Debug("snapshot written", "frame", n, "path", path)
	})
	driver.Start()

	start := time.Unix(0, 0)
	for i := 0; i < opts.frames; i++ {
		if !sched.Advance(start.Add(time.Duration(i) * time.Second / 60)) {
			break
		}
	}
	driver.Stop()
	return written, snapErr
}

func wantSnapshot(n int, opts options) bool {
	if n == opts.frames {
		return true
	}
	return opts.every > 0 && n%opts.every == 0
}

func writePNG(r *canvas.Raster, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := r.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

package main

import (
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/ambient-field/internal/config"
	"github.com/iburimskiy/ambient-field/internal/game"
	"github.com/iburimskiy/ambient-field/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	logStats := flag.Bool("log-stats", false, "Log frame timing summaries")
	statsCSV := flag.String("stats-csv", "", "Write per-frame timings to this CSV file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	logJSON := flag.Bool("log-json", false, "Log as JSON")
	flag.Parse()

	setupLogging(os.Stderr, *debug, *logJSON)

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

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title + " - F1: status, Space: pause, O: load config, Esc/Q: quit")
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.Window.TargetFPS > 0 {
		ebiten.SetTPS(cfg.Window.TargetFPS)
	}
	ebiten.SetScreenClearedEveryFrame(false)

	g := game.NewGame(game.Options{
		Config:   cfg,
		Logger:   slog.Default(),
		Recorder: recorder,
		LogStats: *logStats,
	})

	err = ebiten.RunGameWithOptions(g, &ebiten.RunGameOptions{ScreenTransparent: true})
	recorder.LogSummary(slog.Default())
	if err := recorder.Err(); err != nil {
		slog.Warn("frame stats incomplete", "error", err)
	}
	if err != nil && !errors.Is(err, ebiten.Termination) {
		slog.Error("game exited", "error", err)
		os.Exit(1)
	}
}

// setupLogging installs the default slog handler.
func setupLogging(w io.Writer, debug, asJSON bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if asJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
}

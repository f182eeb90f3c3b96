// Command fieldterm renders the particle backdrop in a terminal. Each cell
// stands for canvas.CellWidth x canvas.CellHeight surface pixels, so the
// default density fills an ordinary terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/iburimskiy/ambient-field/internal/backdrop"
	"github.com/iburimskiy/ambient-field/internal/canvas"
	"github.com/iburimskiy/ambient-field/internal/config"
	"github.com/iburimskiy/ambient-field/internal/frame"
	"github.com/iburimskiy/ambient-field/internal/telemetry"
)

// termHost exposes the terminal as the page's only surface.
type termHost struct {
	id   string
	term *canvas.Terminal
}

func (h *termHost) Lookup(id string) (backdrop.Surface, bool) {
	if id != h.id {
		return nil, false
	}
	return h.term, true
}

func (h *termHost) Size() (int, int) { return h.term.Size() }

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	logPath := flag.String("log", "", "Write logs to this file (stdout is the screen)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logFile, err := setupLogging(*logPath, *debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "loading config:", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initialising screen: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	host := &termHost{id: cfg.Surface.ID, term: canvas.NewTerminal(screen, cfg.Background())}
	recorder := telemetry.NewRecorder(cfg.Telemetry.Window, nil)

	b, ok := backdrop.New(host, cfg, backdrop.WithRecorder(recorder))
	if !ok {
		return nil
	}

	ticker := frame.NewTicker(time.Second / time.Duration(max(cfg.Window.TargetFPS, 1)))
	driver := frame.NewDriver(ticker)
	b.Attach(driver)
	driver.Add(func(time.Time) { screen.Show() })
	driver.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Events are handed to the ticker so they run between frames
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			if !ticker.Post(func() { handleEvent(ev, b, cancel) }) {
				return
			}
		}
	}()

	err = ticker.Run(ctx)
	recorder.LogSummary(slog.Default())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func handleEvent(ev tcell.Event, b *backdrop.Backdrop, quit func()) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		b.Notify(ev.When())
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
			quit()
		case ev.Rune() == ' ':
			b.SetPaused(!b.Paused())
		}
	}
}

// setupLogging routes slog to path, or discards it when path is empty.
func setupLogging(path string, debug bool) (*os.File, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	var f *os.File
	if path != "" {
		var err error
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return f, nil
}

// Package game runs the particle backdrop inside an ebiten window (or a
// browser canvas when built for js/wasm).
package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/ambient-field/internal/backdrop"
	"github.com/iburimskiy/ambient-field/internal/config"
	"github.com/iburimskiy/ambient-field/internal/telemetry"
)

// Options configure a Game.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Recorder *telemetry.Recorder
	LogStats bool // log a frame summary every telemetry window
}

// Game adapts the backdrop to ebiten's Update/Draw/Layout loop. Update
// steps the field and Draw renders it, so motion always precedes drawing.
type Game struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder *telemetry.Recorder
	logStats bool

	canvas   *screenCanvas
	backdrop *backdrop.Backdrop

	// viewport, as last reported by Layout
	width, height int
	laidOut       bool

	// input edge detection
	prevKey map[ebiten.Key]bool

	showStatus bool
	started    time.Time
	lastErr    error

	pickConfig func() (string, error)
	now        func() time.Time
}

func NewGame(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := &Game{
		cfg:        cfg,
		logger:     logger,
		recorder:   opts.Recorder,
		logStats:   opts.LogStats,
		width:      cfg.Window.Width,
		height:     cfg.Window.Height,
		prevKey:    map[ebiten.Key]bool{},
		pickConfig: selectConfigFile,
		now:        time.Now,
	}
	g.started = g.now()
	g.start(cfg)
	return g
}

// start builds a fresh backdrop for cfg on the window surface.
func (g *Game) start(cfg *config.Config) {
	g.cfg = cfg
	g.canvas = newScreenCanvas(cfg.Background())
	g.backdrop, _ = backdrop.New(g, cfg,
		backdrop.WithLogger(g.logger),
		backdrop.WithRecorder(g.recorder),
	)
}

// Lookup implements backdrop.Host. The window exposes exactly one surface,
// registered under the configured id.
func (g *Game) Lookup(id string) (backdrop.Surface, bool) {
	if id != g.cfg.Surface.ID {
		return nil, false
	}
	return g.canvas, true
}

// Size implements backdrop.Host.
func (g *Game) Size() (int, int) {
	return g.width, g.height
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	if justPressed(ebiten.KeySpace) {
		g.togglePause()
	}
	if justPressed(ebiten.KeyF1) {
		g.showStatus = !g.showStatus
	}
	if justPressed(ebiten.KeyR) {
		g.backdrop.Notify(g.now())
	}
	if justPressed(ebiten.KeyO) || inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		if err := g.openConfigDialog(); err != nil {
			g.lastErr = err
			g.logger.Error("loading config", "error", err)
		}
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	g.backdrop.Update(g.now())

	if g.logStats && g.recorder != nil {
		if n := g.recorder.Frames(); n > 0 && n%uint64(g.cfg.Telemetry.Window) == 0 {
			g.recorder.LogSummary(g.logger)
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.canvas.bind(screen)
	g.backdrop.Draw(g.canvas)

	if g.showStatus {
		ebitenutil.DebugPrintAt(screen, g.status(), 12, 12)
	}
}

// Layout maps the outside size 1:1 onto the surface. A changed size is
// delivered to the backdrop as a resize notification.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if !g.laidOut || outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.laidOut = true
		g.backdrop.Notify(g.now())
	}
	return outsideWidth, outsideHeight
}

func (g *Game) togglePause() {
	g.backdrop.SetPaused(!g.backdrop.Paused())
}

func (g *Game) status() string {
	state := "disabled"
	particles := 0
	if f := g.backdrop.Field(); f != nil {
		state = f.State().String()
		particles = f.Len()
	}
	b := g.backdrop.Bounds()

	status := fmt.Sprintf("%dx%d | %d particles (%s) | %s | %s",
		b.Width, b.Height, particles, state,
		formatFPS(ebiten.ActualFPS()), formatDuration(g.now().Sub(g.started)))
	if g.backdrop.Paused() {
		status += " | paused"
	}
	status += "\nSpace: pause  R: repopulate  O: load config  F1: hide  Esc/Q: quit"
	if g.lastErr != nil {
		status += "\nError: " + g.lastErr.Error()
	}
	return status
}

func (g *Game) openConfigDialog() error {
	path, err := g.pickConfig()
	if err != nil || path == "" {
		return err
	}
	return g.reload(path)
}

// reload replaces the running backdrop with one built from the config at
// path. On error the current backdrop keeps running.
func (g *Game) reload(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	g.start(cfg)
	g.lastErr = nil
	g.logger.Info("config reloaded", "path", path)
	return nil
}

package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iburimskiy/ambient-field/internal/config"
	"github.com/iburimskiy/ambient-field/internal/field"
)

func newTestGame(t *testing.T) *Game {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 11
	g := NewGame(Options{Config: cfg})
	g.now = func() time.Time { return time.Unix(0, 0) }
	return g
}

func TestNewGame_StartsOnWindowSize(t *testing.T) {
	g := newTestGame(t)
	if !g.backdrop.Enabled() {
		t.Fatal("window surface should always be found")
	}
	// 1024x512 default window
	if got := g.backdrop.Bounds(); got != (field.Bounds{Width: 1024, Height: 512}) {
		t.Errorf("bounds = %v", got)
	}
	if n := g.backdrop.Field().Len(); n != 52 {
		t.Errorf("expected 52 particles, got %d", n)
	}
}

func TestLayout_ResizeRepopulates(t *testing.T) {
	g := newTestGame(t)

	w, h := g.Layout(640, 480)
	if w != 640 || h != 480 {
		t.Errorf("Layout returned %dx%d, want 1:1 mapping", w, h)
	}
	if got := g.backdrop.Bounds(); got != (field.Bounds{Width: 640, Height: 480}) {
		t.Errorf("bounds = %v, want 640x480", got)
	}
	if n := g.backdrop.Field().Len(); n != 30 {
		t.Errorf("expected 30 particles, got %d", n)
	}
	if g.canvas.w != 640 || g.canvas.h != 480 {
		t.Errorf("canvas = %dx%d", g.canvas.w, g.canvas.h)
	}
}

func TestLayout_UnchangedSizeDoesNotRepopulate(t *testing.T) {
	g := newTestGame(t)
	g.Layout(800, 600)
	before := g.backdrop.Field().Particles()

	g.Layout(800, 600)
	after := g.backdrop.Field().Particles()
	if before[0] != after[0] {
		t.Error("unchanged layout should keep the current field")
	}
}

func TestOpenConfigDialog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.yaml")
	if err := os.WriteFile(path, []byte("field:\n  max_particles: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := newTestGame(t)
	g.pickConfig = func() (string, error) { return path, nil }
	if err := g.openConfigDialog(); err != nil {
		t.Fatalf("openConfigDialog: %v", err)
	}
	if n := g.backdrop.Field().Len(); n != 5 {
		t.Errorf("expected reloaded cap of 5, got %d", n)
	}
}

func TestOpenConfigDialog_Cancelled(t *testing.T) {
	g := newTestGame(t)
	before := g.backdrop
	g.pickConfig = func() (string, error) { return "", nil }

	if err := g.openConfigDialog(); err != nil {
		t.Fatalf("cancel should not be an error: %v", err)
	}
	if g.backdrop != before {
		t.Error("cancel should keep the running backdrop")
	}
}

func TestOpenConfigDialog_InvalidKeepsRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("field:\n  area_per_particle: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := newTestGame(t)
	before := g.backdrop
	g.pickConfig = func() (string, error) { return path, nil }

	err := g.openConfigDialog()
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if g.backdrop != before {
		t.Error("invalid config must not replace the running backdrop")
	}
}

func TestTogglePause(t *testing.T) {
	g := newTestGame(t)
	g.togglePause()
	if !g.backdrop.Paused() {
		t.Fatal("expected paused")
	}
	if s := g.status(); !strings.Contains(s, "paused") {
		t.Errorf("status should mention pause: %q", s)
	}
	g.togglePause()
	if g.backdrop.Paused() {
		t.Error("expected resumed")
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(125 * time.Second); got != "02:05" {
		t.Errorf("formatDuration = %q, want 02:05", got)
	}
}

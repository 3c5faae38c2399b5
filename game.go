package main

import (
	"errors"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"ripplewatch/ripple"
	"ripplewatch/wave"
)

// Game is the ebiten face. Update drives the scheduler at the configured
// tick rate; Draw paints the most recent frame.
type Game struct {
	driver    *rippleDriver
	log       *slog.Logger
	frame     ripple.Frame
	display   *wave.Field
	seedScale float32
	width     int
	height    int
	debug     bool
}

func newGame(driver *rippleDriver, grid *wave.Grid, width, height int, debug bool, log *slog.Logger) *Game {
	return &Game{
		driver:    driver,
		log:       log,
		display:   grid.NewField(),
		seedScale: grid.SeedScale,
		width:     width,
		height:    height,
		debug:     debug,
	}
}

// Update handles input and advances the ripple.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
		g.driver.Tap()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.driver.ToggleAmbient()
	}

	frame, err := g.driver.Tick()
	if err != nil {
		return err
	}
	g.frame = frame
	if frame.Field != nil {
		if err := frame.Field.ScaledInto(g.display, frame.Scale); err != nil {
			return err
		}
	}
	return nil
}

// runWindow opens the ebiten window and blocks until it closes.
func runWindow(g *Game, tps int) error {
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(tps)
	g.log.Debug("window face ready", "width", g.width, "height", g.height, "tps", tps)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

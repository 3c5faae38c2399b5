package main

import (
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"ripplewatch/ripple"
)

// runTerminal shows the ripple as shaded characters until Esc, q or Ctrl-C.
// Space or a mouse click taps the face; a toggles ambient.
func runTerminal(d *rippleDriver, tick time.Duration, seedScale float32, log *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()
	cols, rows := screen.Size()
	log.Debug("terminal face ready", "cols", cols, "rows", rows)

	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go pollEvents(screen, events, done)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	var buttons tcell.ButtonMask
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
					return nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
					return nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
					d.Tap()
				case ev.Key() == tcell.KeyRune && ev.Rune() == 'a':
					d.ToggleAmbient()
				}
			case *tcell.EventMouse:
				pressed := ev.Buttons() & tcell.Button1
				if pressed != 0 && buttons&tcell.Button1 == 0 {
					d.Tap()
				}
				buttons = ev.Buttons()
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			frame, err := d.Tick()
			if err != nil {
				return err
			}
			drawTerminal(screen, frame, seedScale)
			screen.Show()
		}
	}
}

// pollEvents forwards screen events until the screen is finalized or done
// is closed.
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

// drawTerminal paints one character per grid cell, centred in the terminal
// and clipped when it does not fit.
func drawTerminal(screen tcell.Screen, frame ripple.Frame, seedScale float32) {
	screen.Clear()
	f := frame.Field
	sw, sh := screen.Size()
	if f == nil || sw < terminalMinWidth || sh < terminalMinHeight {
		return
	}
	ox := (sw - f.Width) / 2
	oy := (sh - f.Height) / 2
	crest := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	trough := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	if frame.State == ripple.StateAmbient {
		crest = crest.Dim(true)
		trough = trough.Dim(true)
	}
	for y := 0; y < f.Height; y++ {
		sy := oy + y
		if sy < 0 || sy >= sh {
			continue
		}
		for x := 0; x < f.Width; x++ {
			sx := ox + x
			if sx < 0 || sx >= sw {
				continue
			}
			r, negative := shadeRune(f.At(x, y)*frame.Scale, seedScale)
			style := crest
			if negative {
				style = trough
			}
			screen.SetContent(sx, sy, r, nil, style)
		}
	}
}

// shadeRune picks a ramp character for |v| relative to seedScale and reports
// whether v is a trough.
func shadeRune(v, seedScale float32) (rune, bool) {
	negative := v < 0
	if negative {
		v = -v
	}
	last := len(shadeRamp) - 1
	i := clampCoord(int(v/seedScale*float32(last)+0.5), 0, last)
	return rune(shadeRamp[i]), negative
}

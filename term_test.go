package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"ripplewatch/ripple"
	"ripplewatch/wave"
)

func TestShadeRune(t *testing.T) {
	tests := []struct {
		v        float32
		want     rune
		negative bool
	}{
		{0, ' ', false},
		{10, '@', false},
		{40, '@', false},
		{-10, '@', true},
		{5, '+', false},
	}
	for _, tt := range tests {
		r, neg := shadeRune(tt.v, 10)
		if r != tt.want || neg != tt.negative {
			t.Errorf("shadeRune(%v) = %q %v, want %q %v", tt.v, r, neg, tt.want, tt.negative)
		}
	}
}

func TestDrawTerminalCentresField(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(20, 10)

	f := wave.NewField(4, 2)
	f.Set(0, 0, 10)
	f.Set(3, 1, -10)
	drawTerminal(screen, ripple.Frame{Field: f, Scale: 1, State: ripple.StateRunning}, 10)

	if r, _, _, _ := screen.GetContent(8, 4); r != '@' {
		t.Errorf("cell (8,4) = %q, want '@'", r)
	}
	r, _, style, _ := screen.GetContent(11, 5)
	if r != '@' {
		t.Errorf("cell (11,5) = %q, want '@'", r)
	}
	if fg, _, _ := style.Decompose(); fg != tcell.ColorBlue {
		t.Errorf("trough colour = %v, want blue", fg)
	}
	if r, _, _, _ := screen.GetContent(9, 4); r != ' ' {
		t.Errorf("rest cell = %q, want blank", r)
	}
}

func TestDrawTerminalScalesValues(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(10, 4)

	f := wave.NewField(2, 2)
	f.Fill(10)
	drawTerminal(screen, ripple.Frame{Field: f, Scale: 0}, 10)
	if r, _, _, _ := screen.GetContent(4, 1); r != ' ' {
		t.Errorf("zero-scale frame drew %q", r)
	}
}

func TestPollEventsStopsWhenDone(t *testing.T) {
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()

	// Nobody reads events, so forwarding can only end through done.
	events := make(chan tcell.Event)
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		pollEvents(screen, events, done)
		close(exited)
	}()
	if err := screen.PostEvent(tcell.NewEventInterrupt(nil)); err != nil {
		t.Fatalf("PostEvent: %v", err)
	}
	close(done)

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("event forwarder still blocked after done was closed")
	}
}

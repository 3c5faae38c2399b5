package main

import (
	"image"
	"testing"
	"time"
)

func litPixels(img *image.Gray) int {
	n := 0
	for _, p := range img.Pix {
		if p > 128 {
			n++
		}
	}
	return n
}

func TestClockLabelerSize(t *testing.T) {
	l := newClockLabeler(40, 20, "3:04:05", "3:04")
	l.loc = time.UTC
	at := time.Date(2024, 1, 1, 12, 34, 56, 0, time.UTC)
	for _, ambient := range []bool{false, true} {
		img, err := l.Label(at, ambient)
		if err != nil {
			t.Fatalf("Label(ambient=%v): %v", ambient, err)
		}
		if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
			t.Errorf("ambient=%v bounds = %v, want 40x20", ambient, b)
		}
		if litPixels(img) == 0 {
			t.Errorf("ambient=%v label has no lit pixels", ambient)
		}
	}
}

func TestClockLabelerChangesWithTime(t *testing.T) {
	l := newClockLabeler(40, 20, "3:04:05", "3:04")
	l.loc = time.UTC
	at := time.Date(2024, 1, 1, 12, 34, 56, 0, time.UTC)
	a, _ := l.Label(at, false)
	b, _ := l.Label(at.Add(4*time.Second), false)
	same, _ := l.Label(at, false)
	if string(a.Pix) == string(b.Pix) {
		t.Error("labels four seconds apart should differ")
	}
	if string(a.Pix) != string(same.Pix) {
		t.Error("label rendering is not deterministic")
	}
}

func TestClockLabelerAmbientFormat(t *testing.T) {
	l := newClockLabeler(40, 20, "3:04:05", "3:04")
	l.loc = time.UTC
	at := time.Date(2024, 1, 1, 12, 34, 10, 0, time.UTC)
	a, _ := l.Label(at, true)
	b, _ := l.Label(at.Add(20*time.Second), true)
	if string(a.Pix) != string(b.Pix) {
		t.Error("ambient label should only change with the minute")
	}
}

func TestClockLabelerCentred(t *testing.T) {
	l := newClockLabeler(40, 20, "3:04:05", "3:04")
	img := l.rasterize("8")
	minX, maxX := img.Bounds().Dx(), -1
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			if img.GrayAt(x, y).Y > 128 {
				minX = min(minX, x)
				maxX = max(maxX, x)
			}
		}
	}
	if maxX < 0 {
		t.Fatal("no lit pixels")
	}
	if left, right := minX, 39-maxX; left-right > 3 || right-left > 3 {
		t.Errorf("glyph not centred: %d px left, %d px right", left, right)
	}
}

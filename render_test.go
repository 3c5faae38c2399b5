package main

import (
	"image/color"
	"testing"
)

func TestLineColor(t *testing.T) {
	tests := []struct {
		name    string
		v       float32
		ambient bool
		want    color.RGBA
	}{
		{"rest", 0, false, color.RGBA{0, 0, 0, 255}},
		{"full crest", 10, false, color.RGBA{255, 255, 255, 255}},
		{"half crest", 5, false, color.RGBA{127, 127, 127, 255}},
		{"full trough", -10, false, color.RGBA{0, 0, 255, 255}},
		{"overshoot", 25, false, color.RGBA{255, 255, 255, 255}},
		{"ambient dimmed", 10, true, color.RGBA{127, 127, 127, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lineColor(tt.v, 10, tt.ambient); got != tt.want {
				t.Errorf("lineColor(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestLatticeGeometry(t *testing.T) {
	geo := newLatticeGeometry(39, 19, 400, 400)
	if geo.step != 10 {
		t.Fatalf("step = %v, want 10", geo.step)
	}
	x, y := geo.point(0, 0, 0)
	if x != 10 || y != 110 {
		t.Errorf("top-left = (%v, %v), want (10, 110)", x, y)
	}
	x, y = geo.point(38, 18, 0)
	if x != 390 || y != 290 {
		t.Errorf("bottom-right = (%v, %v), want (390, 290)", x, y)
	}
	if _, lifted := geo.point(0, 0, 4); lifted != 106 {
		t.Errorf("lifted y = %v, want 106", lifted)
	}
}

func TestClampCoord(t *testing.T) {
	if clampCoord(-3, 0, 5) != 0 || clampCoord(9, 0, 5) != 5 || clampCoord(3, 0, 5) != 3 {
		t.Error("clampCoord out of range")
	}
}

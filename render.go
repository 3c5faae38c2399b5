package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"ripplewatch/ripple"
)

var (
	interactiveBackground = color.RGBA{12, 12, 16, 255}
	ambientBackground     = color.RGBA{0, 0, 0, 255}
)

// Draw renders the displayed field as a lattice of lines, lifted by the
// displacement and shaded by it.
func (g *Game) Draw(screen *ebiten.Image) {
	ambient := g.frame.State == ripple.StateAmbient
	if ambient {
		screen.Fill(ambientBackground)
	} else {
		screen.Fill(interactiveBackground)
	}
	if g.frame.Field == nil {
		return
	}

	f := g.display
	bounds := screen.Bounds()
	geo := newLatticeGeometry(f.Width, f.Height, bounds.Dx(), bounds.Dy())
	width := float32(latticeLineWidth)
	if ambient {
		width = ambientLineWidth
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			v := f.At(x, y)
			x0, y0 := geo.point(x, y, v)
			if x+1 < f.Width {
				n := f.At(x+1, y)
				x1, y1 := geo.point(x+1, y, n)
				vector.StrokeLine(screen, x0, y0, x1, y1, width, lineColor((v+n)/2, g.seedScale, ambient), true)
			}
			if y+1 < f.Height {
				n := f.At(x, y+1)
				x1, y1 := geo.point(x, y+1, n)
				vector.StrokeLine(screen, x0, y0, x1, y1, width, lineColor((v+n)/2, g.seedScale, ambient), true)
			}
		}
	}

	if g.debug {
		snap := g.driver.sched.Snapshot()
		msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nState: %s frame %d scale %.2f\nNext: %d/%d  rollovers %d\nTick: %.2f ms",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			g.frame.State, g.frame.Index, g.frame.Scale,
			snap.NextIndex, g.driver.sched.SequenceLen(), snap.Rollovers,
			g.driver.lastTick.Seconds()*1000)
		ebitenutil.DebugPrint(screen, msg)
	}
}

// Layout reports the logical screen size used by Ebiten.
func (g *Game) Layout(_, _ int) (int, int) { return g.width, g.height }

// lineColor maps a displacement to grey for crests and blue for troughs, at
// full brightness when |v| reaches seedScale. The ambient face is dimmed.
func lineColor(v, seedScale float32, ambient bool) color.RGBA {
	c := clampCoord(int(255/seedScale*v), -255, 255)
	if ambient {
		c /= 2
	}
	if c >= 0 {
		g := uint8(c)
		return color.RGBA{g, g, g, 255}
	}
	return color.RGBA{0, 0, uint8(-c), 255}
}

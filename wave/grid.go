package wave

import (
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"
)

// Reference coefficients for a grid in the tens-of-cells range. The explicit
// scheme is only conditionally stable: changing the grid spacing requires
// re-deriving Damping*dt.
const (
	DefaultSeedScale = 10
	DefaultDamping   = 0.35
	DefaultStepDT    = float32(1.0 / 30)
	CatchUpStepDT    = float32(3.0 / 30)
)

// Stepper advances a field by one leapfrog step: out is computed from the two
// preceding states prev2 (t-2) and prev1 (t-1).
type Stepper interface {
	Step(prev2, prev1, out *Field, dt, damping float32) error
}

// Grid is the CPU wave kernel for a fixed-size field.
type Grid struct {
	Width, Height int
	// SeedScale maps bitmap intensity 255 to this displacement. Seeded
	// fields, and the ripple they produce, stay roughly within [-SeedScale, SeedScale].
	SeedScale float32
	// Workers splits Step into row bands processed concurrently. Values
	// below 2 step serially.
	Workers int
}

// NewGrid returns a serial grid with the reference seed scale.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:     width,
		Height:    height,
		SeedScale: DefaultSeedScale,
		Workers:   1,
	}
}

// NewField allocates a field matching the grid.
func (g *Grid) NewField() *Field {
	return NewField(g.Width, g.Height)
}

// Seed writes the rescaled intensity of bmp into both history fields. The
// bitmap bounds must match the grid exactly; nothing is written otherwise.
func (g *Grid) Seed(prev2, prev1 *Field, bmp *image.Gray) error {
	if bmp == nil {
		return fmt.Errorf("%w: nil bitmap", ErrDimensionMismatch)
	}
	b := bmp.Bounds()
	if b.Dx() != g.Width || b.Dy() != g.Height {
		return fmt.Errorf("%w: bitmap is %dx%d, grid is %dx%d",
			ErrDimensionMismatch, b.Dx(), b.Dy(), g.Width, g.Height)
	}
	if err := prev2.checkSize(g.Width, g.Height, "prev2"); err != nil {
		return err
	}
	if err := prev1.checkSize(g.Width, g.Height, "prev1"); err != nil {
		return err
	}
	for y := 0; y < g.Height; y++ {
		row := y * g.Width
		for x := 0; x < g.Width; x++ {
			p := float32(bmp.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			v := p * g.SeedScale / 255
			prev2.Cells[row+x] = v
			prev1.Cells[row+x] = v
		}
	}
	return nil
}

// Step computes out from prev2 and prev1 using a 4-connected Laplacian with
// clamped boundaries: an off-grid neighbour takes the cell's own value.
func (g *Grid) Step(prev2, prev1, out *Field, dt, damping float32) error {
	if err := prev2.checkSize(g.Width, g.Height, "prev2"); err != nil {
		return err
	}
	if err := prev1.checkSize(g.Width, g.Height, "prev1"); err != nil {
		return err
	}
	if err := out.checkSize(g.Width, g.Height, "out"); err != nil {
		return err
	}
	if out == prev1 || out == prev2 {
		return ErrAliasedOutput
	}
	coeff := damping * dt
	workers := g.Workers
	if workers < 2 || g.Height < 2*workers {
		stepRows(prev2, prev1, out, coeff, 0, g.Height)
		return nil
	}
	rowsPer := (g.Height + workers - 1) / workers
	var eg errgroup.Group
	for y0 := 0; y0 < g.Height; y0 += rowsPer {
		y1 := y0 + rowsPer
		if y1 > g.Height {
			y1 = g.Height
		}
		eg.Go(func() error {
			stepRows(prev2, prev1, out, coeff, y0, y1)
			return nil
		})
	}
	return eg.Wait()
}

// stepRows runs the update for rows [y0, y1).
func stepRows(prev2, prev1, out *Field, coeff float32, y0, y1 int) {
	width := prev1.Width
	height := prev1.Height
	curr := prev1.Cells
	old := prev2.Cells
	next := out.Cells
	for y := y0; y < y1; y++ {
		rowBase := y * width
		for x := 0; x < width; x++ {
			i := rowBase + x
			here := curr[i]
			left, right, up, down := here, here, here, here
			if x > 0 {
				left = curr[i-1]
			}
			if x < width-1 {
				right = curr[i+1]
			}
			if y > 0 {
				up = curr[i-width]
			}
			if y < height-1 {
				down = curr[i+width]
			}
			lap := (right - here) - (here - left) + (down - here) - (here - up)
			next[i] = coeff*lap + 2*here - old[i]
		}
	}
}

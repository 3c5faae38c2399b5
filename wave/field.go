// Package wave implements the numeric kernel of the ripple: a fixed-size
// scalar field and a leapfrog integrator for the damped 2D wave equation.
package wave

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/blas/blas32"
)

// ErrDimensionMismatch is returned when a field or bitmap does not match the
// grid it is handed to.
var ErrDimensionMismatch = errors.New("wave: dimension mismatch")

// ErrAliasedOutput is returned when Step is asked to overwrite one of its inputs.
var ErrAliasedOutput = errors.New("wave: output field aliases a history field")

// Field stores displacement samples in row-major order.
type Field struct {
	Width, Height int
	Cells         []float32
}

// NewField allocates a zeroed field of the given size.
func NewField(width, height int) *Field {
	return &Field{
		Width:  width,
		Height: height,
		Cells:  make([]float32, width*height),
	}
}

// At returns the sample at (x, y).
func (f *Field) At(x, y int) float32 {
	return f.Cells[y*f.Width+x]
}

// Set writes a sample at (x, y).
func (f *Field) Set(x, y int, v float32) {
	f.Cells[y*f.Width+x] = v
}

// Fill sets every sample to v.
func (f *Field) Fill(v float32) {
	for i := range f.Cells {
		f.Cells[i] = v
	}
}

// checkSize verifies that the field holds exactly width*height samples.
func (f *Field) checkSize(width, height int, name string) error {
	if f == nil {
		return fmt.Errorf("%w: %s field is nil", ErrDimensionMismatch, name)
	}
	if f.Width != width || f.Height != height || len(f.Cells) != width*height {
		return fmt.Errorf("%w: %s field is %dx%d (%d cells), want %dx%d",
			ErrDimensionMismatch, name, f.Width, f.Height, len(f.Cells), width, height)
	}
	return nil
}

func (f *Field) vector() blas32.Vector {
	return blas32.Vector{N: len(f.Cells), Inc: 1, Data: f.Cells}
}

// CopyFrom overwrites f with the contents of src.
func (f *Field) CopyFrom(src *Field) error {
	if err := src.checkSize(f.Width, f.Height, "source"); err != nil {
		return err
	}
	if len(f.Cells) == 0 {
		return nil
	}
	blas32.Copy(src.vector(), f.vector())
	return nil
}

// ScaledInto writes f*scale into dst. dst must match f's dimensions.
func (f *Field) ScaledInto(dst *Field, scale float32) error {
	if err := dst.CopyFrom(f); err != nil {
		return err
	}
	if len(dst.Cells) == 0 || scale == 1 {
		return nil
	}
	blas32.Scal(scale, dst.vector())
	return nil
}

// PeakMagnitude returns the largest absolute sample in the field.
func (f *Field) PeakMagnitude() float32 {
	if len(f.Cells) == 0 {
		return 0
	}
	v := f.Cells[blas32.Iamax(f.vector())]
	if v < 0 {
		return -v
	}
	return v
}

// Equal reports whether both fields have the same size and bit-identical samples.
func (f *Field) Equal(other *Field) bool {
	if f.Width != other.Width || f.Height != other.Height || len(f.Cells) != len(other.Cells) {
		return false
	}
	for i, v := range f.Cells {
		if v != other.Cells[i] {
			return false
		}
	}
	return true
}

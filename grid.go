package main

// clampCoord constrains v to lie within the inclusive [min, max] range.
func clampCoord(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// latticeGeometry places grid points on a screen: square spacing across the
// full width with the lattice centred vertically.
type latticeGeometry struct {
	originX, originY float32
	step             float32
}

// newLatticeGeometry fits a cols x rows lattice into a screenW x screenH area.
func newLatticeGeometry(cols, rows, screenW, screenH int) latticeGeometry {
	step := float32(screenW) / float32(cols+1)
	return latticeGeometry{
		originX: step,
		originY: float32(screenH)/2 - float32(rows-1)/2*step,
		step:    step,
	}
}

// point returns the screen position of grid point (x, y) lifted by v pixels.
func (l latticeGeometry) point(x, y int, v float32) (float32, float32) {
	return l.originX + float32(x)*l.step, l.originY + float32(y)*l.step - v
}

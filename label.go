package main

import (
	"image"
	"time"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// clockLabeler renders the time as a grid-sized grey bitmap for seeding.
type clockLabeler struct {
	width, height int
	layout        string
	ambientLayout string
	loc           *time.Location
	face          font.Face
}

// newClockLabeler builds a labeler for a width x height grid. layout and
// ambientLayout are Go time layouts.
func newClockLabeler(width, height int, layout, ambientLayout string) *clockLabeler {
	return &clockLabeler{
		width:         width,
		height:        height,
		layout:        layout,
		ambientLayout: ambientLayout,
		loc:           time.Local,
		face:          basicfont.Face7x13,
	}
}

// Label implements ripple.LabelSource.
func (l *clockLabeler) Label(at time.Time, ambient bool) (*image.Gray, error) {
	layout := l.layout
	if ambient {
		layout = l.ambientLayout
	}
	return l.rasterize(at.In(l.loc).Format(layout)), nil
}

// rasterize draws text at the font's native size, then scales it to fit the
// grid with its aspect ratio kept, centred.
func (l *clockLabeler) rasterize(text string) *image.Gray {
	metrics := l.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	textH := ascent + metrics.Descent.Ceil()
	d := &font.Drawer{Face: l.face}
	textW := max(d.MeasureString(text).Ceil(), 1)

	src := image.NewGray(image.Rect(0, 0, textW, textH))
	d.Dst = src
	d.Src = image.White
	d.Dot = fixed.P(0, ascent)
	d.DrawString(text)

	dst := image.NewGray(image.Rect(0, 0, l.width, l.height))
	scale := min(float64(l.width)/float64(textW), float64(l.height)/float64(textH))
	w := clampCoord(int(float64(textW)*scale), 1, l.width)
	h := clampCoord(int(float64(textH)*scale), 1, l.height)
	x0 := (l.width - w) / 2
	y0 := (l.height - h) / 2
	xdraw.ApproxBiLinear.Scale(dst, image.Rect(x0, y0, x0+w, y0+h), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

package shape

import (
	"math"

	"github.com/vectorpad/vectorpad/internal/render"
)

// Line is a straight segment from (X1, Y1) to (X2, Y2).
type Line struct {
	Base
	X1, Y1, X2, Y2 float64
}

// NewLine creates a line with the default style.
func NewLine(x1, y1, x2, y2 float64) *Line {
	return &Line{Base: newBase(DefaultColor, DefaultWidth), X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func (l *Line) Kind() Kind { return KindLine }

func (l *Line) BoundingBox() Box {
	return normalize(l.X1, l.Y1, l.X2, l.Y2)
}

// ContainsPoint accepts points within max(6, width+3) of the segment. A
// zero-length line accepts points within 5 units on both axes.
func (l *Line) ContainsPoint(x, y float64) bool {
	dx, dy := l.X2-l.X1, l.Y2-l.Y1
	if dx == 0 && dy == 0 {
		return math.Abs(x-l.X1) <= 5 && math.Abs(y-l.Y1) <= 5
	}
	t := ((x-l.X1)*dx + (y-l.Y1)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	px := l.X1 + t*dx
	py := l.Y1 + t*dy
	return math.Hypot(x-px, y-py) <= math.Max(6, l.width+3)
}

// Handles returns the two endpoints, start first.
func (l *Line) Handles() []Point {
	return []Point{{X: l.X1, Y: l.Y1}, {X: l.X2, Y: l.Y2}}
}

func (l *Line) Move(dx, dy float64) {
	l.X1 += dx
	l.Y1 += dy
	l.X2 += dx
	l.Y2 += dy
}

// Resize moves the start point for handle 0 and the end point otherwise.
func (l *Line) Resize(handle int, x, y float64) {
	if handle == 0 {
		l.X1, l.Y1 = x, y
		return
	}
	l.X2, l.Y2 = x, y
}

func (l *Line) Stretch(x, y float64) {
	l.X2, l.Y2 = x, y
}

func (l *Line) Fields() []float64 {
	return []float64{l.X1, l.Y1, l.X2, l.Y2}
}

func (l *Line) SetFields(fields []float64) error {
	if err := checkFields(KindLine, fields); err != nil {
		return err
	}
	l.X1, l.Y1, l.X2, l.Y2 = fields[0], fields[1], fields[2], fields[3]
	return nil
}

func (l *Line) Record() Record {
	return Record{
		Type:  string(KindLine),
		X1:    ptr(l.X1),
		Y1:    ptr(l.Y1),
		X2:    ptr(l.X2),
		Y2:    ptr(l.Y2),
		Color: ptr(l.color),
		Width: ptr(l.width),
	}
}

func (l *Line) Render(s render.Surface) {
	s.Line(l.X1, l.Y1, l.X2, l.Y2, l.pen())
	l.renderHandles(s, l.Handles())
}

func (l *Line) Outline(s render.Surface, pen render.Pen) {
	s.Line(l.X1, l.Y1, l.X2, l.Y2, pen)
}

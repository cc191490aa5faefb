package shape

import (
	"github.com/vectorpad/vectorpad/internal/render"
)

// Rect is an axis-aligned rectangle spanned by two corners. The corners are
// kept as given; BoundingBox normalises them.
type Rect struct {
	Base
	Fillable
	X1, Y1, X2, Y2 float64
}

// NewRect creates a hollow rectangle with the default style.
func NewRect(x1, y1, x2, y2 float64) *Rect {
	return &Rect{Base: newBase(DefaultColor, DefaultWidth), X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func (r *Rect) Kind() Kind { return KindRect }

func (r *Rect) BoundingBox() Box {
	return normalize(r.X1, r.Y1, r.X2, r.Y2)
}

// ContainsPoint tests against the whole bounding box, so a click inside a
// hollow rectangle still hits it.
func (r *Rect) ContainsPoint(x, y float64) bool {
	return r.BoundingBox().Contains(x, y)
}

// Handles returns the bounding box corners clockwise from the top-left.
func (r *Rect) Handles() []Point {
	b := r.BoundingBox()
	return []Point{
		{X: b.X1, Y: b.Y1},
		{X: b.X2, Y: b.Y1},
		{X: b.X2, Y: b.Y2},
		{X: b.X1, Y: b.Y2},
	}
}

func (r *Rect) Move(dx, dy float64) {
	r.X1 += dx
	r.Y1 += dy
	r.X2 += dx
	r.Y2 += dy
}

// Resize moves the corner coordinates addressed by the handle index. Indices
// outside 0..3 are ignored.
func (r *Rect) Resize(handle int, x, y float64) {
	switch handle {
	case 0:
		r.X1, r.Y1 = x, y
	case 1:
		r.X2, r.Y1 = x, y
	case 2:
		r.X2, r.Y2 = x, y
	case 3:
		r.X1, r.Y2 = x, y
	}
}

func (r *Rect) Stretch(x, y float64) {
	r.X2, r.Y2 = x, y
}

func (r *Rect) Fields() []float64 {
	return []float64{r.X1, r.Y1, r.X2, r.Y2}
}

func (r *Rect) SetFields(fields []float64) error {
	if err := checkFields(KindRect, fields); err != nil {
		return err
	}
	r.X1, r.Y1, r.X2, r.Y2 = fields[0], fields[1], fields[2], fields[3]
	return nil
}

func (r *Rect) Record() Record {
	return Record{
		Type:  string(KindRect),
		X1:    ptr(r.X1),
		Y1:    ptr(r.Y1),
		X2:    ptr(r.X2),
		Y2:    ptr(r.Y2),
		Color: ptr(r.color),
		Width: ptr(r.width),
		Fill:  ptr(r.fill),
	}
}

func (r *Rect) Render(s render.Surface) {
	s.Rect(r.X1, r.Y1, r.X2, r.Y2, r.pen(), r.fill)
	r.renderHandles(s, r.Handles())
}

func (r *Rect) Outline(s render.Surface, pen render.Pen) {
	s.Rect(r.X1, r.Y1, r.X2, r.Y2, pen, "")
}

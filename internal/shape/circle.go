package shape

import (
	"math"

	"github.com/vectorpad/vectorpad/internal/render"
)

// Circle is defined by its centre and radius.
type Circle struct {
	Base
	Fillable
	CX, CY, R float64
}

// NewCircle creates a hollow circle with the default style.
func NewCircle(cx, cy, r float64) *Circle {
	return &Circle{Base: newBase(DefaultColor, DefaultWidth), CX: cx, CY: cy, R: r}
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) BoundingBox() Box {
	return Box{X1: c.CX - c.R, Y1: c.CY - c.R, X2: c.CX + c.R, Y2: c.CY + c.R}
}

// ContainsPoint accepts the disc grown by max(6, width).
func (c *Circle) ContainsPoint(x, y float64) bool {
	return math.Hypot(x-c.CX, y-c.CY) <= c.R+math.Max(6, c.width)
}

// Handles returns the single radius handle on the right of the circle.
func (c *Circle) Handles() []Point {
	return []Point{{X: c.CX + c.R, Y: c.CY}}
}

func (c *Circle) Move(dx, dy float64) {
	c.CX += dx
	c.CY += dy
}

// Resize sets the radius to the distance from the centre to (x, y), never
// below MinRadius. The handle index is ignored.
func (c *Circle) Resize(_ int, x, y float64) {
	c.R = math.Max(MinRadius, math.Hypot(x-c.CX, y-c.CY))
}

// Stretch tracks the pointer while the circle is being drawn; unlike Resize
// it does not apply the minimum radius.
func (c *Circle) Stretch(x, y float64) {
	c.R = math.Hypot(x-c.CX, y-c.CY)
}

func (c *Circle) Fields() []float64 {
	return []float64{c.CX, c.CY, c.R}
}

func (c *Circle) SetFields(fields []float64) error {
	if err := checkFields(KindCircle, fields); err != nil {
		return err
	}
	c.CX, c.CY, c.R = fields[0], fields[1], fields[2]
	return nil
}

func (c *Circle) Record() Record {
	return Record{
		Type:  string(KindCircle),
		CX:    ptr(c.CX),
		CY:    ptr(c.CY),
		R:     ptr(c.R),
		Color: ptr(c.color),
		Width: ptr(c.width),
		Fill:  ptr(c.fill),
	}
}

func (c *Circle) Render(s render.Surface) {
	b := c.BoundingBox()
	s.Oval(b.X1, b.Y1, b.X2, b.Y2, c.pen(), c.fill)
	c.renderHandles(s, c.Handles())
}

func (c *Circle) Outline(s render.Surface, pen render.Pen) {
	b := c.BoundingBox()
	s.Oval(b.X1, b.Y1, b.X2, b.Y2, pen, "")
}

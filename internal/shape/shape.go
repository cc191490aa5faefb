// Package shape implements the editable primitives of a drawing: lines,
// rectangles and circles behind the Shape interface.
package shape

import (
	"math"

	"github.com/vectorpad/vectorpad/internal/render"
)

// HandleSize is the half-size of a handle marker and the tolerance used when
// picking a handle with the pointer.
const HandleSize = 6

// MinRadius is the smallest radius a circle can be resized to.
const MinRadius = 2

// Default style values applied when a record or parameter leaves them out.
const (
	DefaultColor = "black"
	DefaultWidth = 2.0
)

// HandleColor outlines the handle markers of a selected shape.
const HandleColor = "blue"

// Kind is the discriminant of a shape variant.
type Kind string

const (
	KindLine   Kind = "line"
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
)

// ParseKind converts a type tag into a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindLine, KindRect, KindCircle:
		return k, nil
	}
	return "", &ValidationError{Field: "type", Reason: "unknown shape type " + quote(s)}
}

// FieldCount is the number of geometry fields the kind is defined by.
func (k Kind) FieldCount() int {
	switch k {
	case KindLine, KindRect:
		return 4
	case KindCircle:
		return 3
	}
	return 0
}

// Point is a position on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Box is an axis-aligned bounding box with X1 <= X2 and Y1 <= Y2.
type Box struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Contains reports whether (x, y) lies inside the box, edges included.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X1 && x <= b.X2 && y >= b.Y1 && y <= b.Y2
}

func (b Box) Width() float64  { return b.X2 - b.X1 }
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

func normalize(x1, y1, x2, y2 float64) Box {
	return Box{
		X1: math.Min(x1, x2),
		Y1: math.Min(y1, y2),
		X2: math.Max(x1, x2),
		Y2: math.Max(y1, y2),
	}
}

// Shape is the behaviour shared by every drawable primitive. The set of
// implementations is closed: *Line, *Rect and *Circle.
type Shape interface {
	Kind() Kind

	// Geometry
	BoundingBox() Box
	ContainsPoint(x, y float64) bool
	Handles() []Point
	Move(dx, dy float64)
	Resize(handle int, x, y float64)
	Stretch(x, y float64)

	// Parameter panel
	Fields() []float64
	SetFields(fields []float64) error

	// Style and view state
	Color() string
	Width() float64
	SetStyle(color string, width float64) error
	Selected() bool
	SetSelected(selected bool)

	Record() Record
	Render(s render.Surface)
	Outline(s render.Surface, pen render.Pen)
}

// Filler is implemented by the variants that carry a fill color.
type Filler interface {
	Fill() string
	SetFill(fill string)
}

// Style groups the presentation attributes of a shape.
type Style struct {
	Color string
	Width float64
	Fill  string
}

// DefaultStyle returns the style new shapes are drawn with.
func DefaultStyle() Style {
	return Style{Color: DefaultColor, Width: DefaultWidth}
}

// Base holds the state every variant shares.
type Base struct {
	color    string
	width    float64
	selected bool
}

func newBase(color string, width float64) Base {
	if color == "" {
		color = DefaultColor
	}
	return Base{color: color, width: width}
}

func (b *Base) Color() string      { return b.color }
func (b *Base) Width() float64     { return b.width }
func (b *Base) Selected() bool     { return b.selected }
func (b *Base) SetSelected(v bool) { b.selected = v }
func (b *Base) pen() render.Pen    { return render.Pen{Color: b.color, Width: b.width} }

// SetStyle replaces color and stroke width. An empty color falls back to the
// default; the width must be positive.
func (b *Base) SetStyle(color string, width float64) error {
	if err := checkWidth(width); err != nil {
		return err
	}
	if color == "" {
		color = DefaultColor
	}
	b.color = color
	b.width = width
	return nil
}

// renderHandles draws a marker around each handle when the shape is selected.
func (b *Base) renderHandles(s render.Surface, handles []Point) {
	if !b.selected {
		return
	}
	pen := render.Pen{Color: HandleColor, Width: 1}
	for _, h := range handles {
		s.Rect(h.X-HandleSize, h.Y-HandleSize, h.X+HandleSize, h.Y+HandleSize, pen, "")
	}
}

// Fillable holds the interior color of closed shapes. Empty means hollow.
type Fillable struct {
	fill string
}

func (f *Fillable) Fill() string        { return f.fill }
func (f *Fillable) SetFill(fill string) { f.fill = fill }

// New constructs a shape of the given kind from its parameter fields. The
// number of fields must match the kind exactly.
func New(kind Kind, fields []float64, style Style) (Shape, error) {
	if kind.FieldCount() == 0 {
		return nil, &ValidationError{Field: "type", Reason: "unknown shape type " + quote(string(kind))}
	}
	if err := checkFields(kind, fields); err != nil {
		return nil, err
	}
	if err := checkWidth(style.Width); err != nil {
		return nil, err
	}

	var s Shape
	switch kind {
	case KindLine:
		s = &Line{X1: fields[0], Y1: fields[1], X2: fields[2], Y2: fields[3]}
	case KindRect:
		s = &Rect{X1: fields[0], Y1: fields[1], X2: fields[2], Y2: fields[3]}
	case KindCircle:
		s = &Circle{CX: fields[0], CY: fields[1], R: fields[2]}
	}
	applyStyle(s, style)
	return s, nil
}

func applyStyle(s Shape, style Style) {
	switch v := s.(type) {
	case *Line:
		v.Base = newBase(style.Color, style.Width)
	case *Rect:
		v.Base = newBase(style.Color, style.Width)
	case *Circle:
		v.Base = newBase(style.Color, style.Width)
	}
	if f, ok := s.(Filler); ok {
		f.SetFill(style.Fill)
	}
}

func checkFields(kind Kind, fields []float64) error {
	if n := kind.FieldCount(); len(fields) != n {
		return &ValidationError{
			Field:  "fields",
			Reason: "a " + string(kind) + " needs " + itoa(n) + " numbers, got " + itoa(len(fields)),
		}
	}
	for _, f := range fields {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &ValidationError{Field: "fields", Reason: "numbers must be finite"}
		}
	}
	if kind == KindCircle && fields[2] < 0 {
		return &ValidationError{Field: "r", Reason: "radius must not be negative"}
	}
	return nil
}

func checkWidth(width float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return &ValidationError{Field: "width", Reason: "width must be a positive number"}
	}
	return nil
}

// Package render defines the drawing surface the editor paints into.
package render

// Pen describes how an outline is stroked.
type Pen struct {
	Color string
	Width float64
	Dash  []float64 // on/off lengths; nil draws a solid line
}

// Surface accepts primitive draw calls. Coordinates are canvas pixels with the
// origin at the top-left corner. An empty fill means no fill.
type Surface interface {
	Line(x1, y1, x2, y2 float64, pen Pen)
	Rect(x1, y1, x2, y2 float64, pen Pen, fill string)
	Oval(x1, y1, x2, y2 float64, pen Pen, fill string)
}

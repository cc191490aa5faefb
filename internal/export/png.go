package export

import (
	"io"

	"github.com/fogleman/gg"

	"github.com/vectorpad/vectorpad/internal/render"
)

// PNGSurface rasterises draw calls with gg.
type PNGSurface struct {
	dc *gg.Context
}

// NewPNGSurface creates a width x height surface filled with background.
func NewPNGSurface(width, height int, background string) *PNGSurface {
	dc := gg.NewContext(width, height)
	dc.SetColor(ParseColor(background))
	dc.Clear()
	return &PNGSurface{dc: dc}
}

func (s *PNGSurface) Line(x1, y1, x2, y2 float64, pen render.Pen) {
	s.dc.DrawLine(x1, y1, x2, y2)
	s.stroke(pen)
}

func (s *PNGSurface) Rect(x1, y1, x2, y2 float64, pen render.Pen, fill string) {
	b := box(x1, y1, x2, y2)
	s.dc.DrawRectangle(b.x, b.y, b.w, b.h)
	s.fillAndStroke(pen, fill)
}

func (s *PNGSurface) Oval(x1, y1, x2, y2 float64, pen render.Pen, fill string) {
	b := box(x1, y1, x2, y2)
	s.dc.DrawEllipse(b.x+b.w/2, b.y+b.h/2, b.w/2, b.h/2)
	s.fillAndStroke(pen, fill)
}

func (s *PNGSurface) fillAndStroke(pen render.Pen, fill string) {
	if fill != "" {
		s.dc.SetColor(ParseColor(fill))
		s.dc.FillPreserve()
	}
	s.stroke(pen)
}

func (s *PNGSurface) stroke(pen render.Pen) {
	s.dc.SetColor(ParseColor(pen.Color))
	s.dc.SetLineWidth(pen.Width)
	s.dc.SetDash(pen.Dash...)
	s.dc.Stroke()
}

// Encode writes the surface as PNG.
func (s *PNGSurface) Encode(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

type rect struct{ x, y, w, h float64 }

func box(x1, y1, x2, y2 float64) rect {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return rect{x: x1, y: y1, w: x2 - x1, h: y2 - y1}
}

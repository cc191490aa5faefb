package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vectorpad/vectorpad/internal/render"
)

// SVGSurface serialises draw calls as SVG elements. Colors are resolved to
// hex so the output never carries raw user input.
type SVGSurface struct {
	width, height int
	b             strings.Builder
}

// NewSVGSurface creates a width x height surface filled with background.
func NewSVGSurface(width, height int, background string) *SVGSurface {
	s := &SVGSurface{width: width, height: height}
	fmt.Fprintf(&s.b, `<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n",
		width, height, hex(ParseColor(background)))
	return s
}

func (s *SVGSurface) Line(x1, y1, x2, y2 float64, pen render.Pen) {
	fmt.Fprintf(&s.b, `<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n",
		num(x1), num(y1), num(x2), num(y2), strokeAttrs(pen))
}

func (s *SVGSurface) Rect(x1, y1, x2, y2 float64, pen render.Pen, fill string) {
	b := box(x1, y1, x2, y2)
	fmt.Fprintf(&s.b, `<rect x="%s" y="%s" width="%s" height="%s"%s%s/>`+"\n",
		num(b.x), num(b.y), num(b.w), num(b.h), fillAttr(fill), strokeAttrs(pen))
}

func (s *SVGSurface) Oval(x1, y1, x2, y2 float64, pen render.Pen, fill string) {
	b := box(x1, y1, x2, y2)
	fmt.Fprintf(&s.b, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s"%s%s/>`+"\n",
		num(b.x+b.w/2), num(b.y+b.h/2), num(b.w/2), num(b.h/2), fillAttr(fill), strokeAttrs(pen))
}

// Encode writes the complete SVG document.
func (s *SVGSurface) Encode(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n%s</svg>\n",
		s.width, s.height, s.width, s.height, s.b.String())
	return err
}

func fillAttr(fill string) string {
	if fill == "" {
		return ` fill="none"`
	}
	return ` fill="` + hex(ParseColor(fill)) + `"`
}

func strokeAttrs(pen render.Pen) string {
	attrs := ` stroke="` + hex(ParseColor(pen.Color)) + `" stroke-width="` + num(pen.Width) + `"`
	if len(pen.Dash) > 0 {
		parts := make([]string, len(pen.Dash))
		for i, d := range pen.Dash {
			parts[i] = num(d)
		}
		attrs += ` stroke-dasharray="` + strings.Join(parts, ",") + `"`
	}
	return attrs
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

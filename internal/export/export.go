// Package export renders drawings to PNG and SVG images.
package export

import (
	"fmt"
	"io"

	"github.com/vectorpad/vectorpad/internal/document"
	"github.com/vectorpad/vectorpad/internal/render"
	"github.com/vectorpad/vectorpad/internal/shape"
)

// Format is an image output format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatPNG, FormatSVG:
		return f, nil
	}
	return "", fmt.Errorf("invalid format %q: must be png or svg", s)
}

func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Background is the canvas color of exported images.
const Background = "white"

// MaxDimension bounds the width and height of an exported image.
const MaxDimension = 8192

type encoder interface {
	render.Surface
	Encode(w io.Writer) error
}

// Render decodes records and draws them onto a width x height image written
// to w. A bad record fails with a *shape.FormatError before anything is
// written.
func Render(w io.Writer, format Format, records []shape.Record, width, height int) error {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}
	shapes, err := document.DecodeRecords(records)
	if err != nil {
		return err
	}

	var surface encoder
	switch format {
	case FormatPNG:
		surface = NewPNGSurface(width, height, Background)
	case FormatSVG:
		surface = NewSVGSurface(width, height, Background)
	default:
		return fmt.Errorf("invalid format %q", format)
	}

	for _, s := range shapes {
		s.Render(surface)
	}
	if err := surface.Encode(w); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

package shape

import (
	"math"
)

// Record is the persisted form of a shape. Geometry fields that do not apply
// to the variant are nil and omitted from JSON.
type Record struct {
	Type  string   `json:"type"`
	X1    *float64 `json:"x1,omitempty"`
	Y1    *float64 `json:"y1,omitempty"`
	X2    *float64 `json:"x2,omitempty"`
	Y2    *float64 `json:"y2,omitempty"`
	CX    *float64 `json:"cx,omitempty"`
	CY    *float64 `json:"cy,omitempty"`
	R     *float64 `json:"r,omitempty"`
	Color *string  `json:"color,omitempty"`
	Width *float64 `json:"width,omitempty"`
	Fill  *string  `json:"fill,omitempty"`
}

func ptr[T any](v T) *T { return &v }

// Decode builds a shape from its record. Missing style fields take their
// defaults; a missing or unknown type, missing geometry and out-of-range
// values are reported as *FormatError with Index -1.
func Decode(rec Record) (Shape, error) {
	kind := Kind(rec.Type)
	if rec.Type == "" {
		return nil, &FormatError{Index: -1, Field: "type", Reason: "missing shape type"}
	}
	if kind.FieldCount() == 0 {
		return nil, &FormatError{Index: -1, Type: rec.Type, Field: "type", Reason: "unknown shape type"}
	}

	style := DefaultStyle()
	if rec.Color != nil && *rec.Color != "" {
		style.Color = *rec.Color
	}
	if rec.Width != nil {
		style.Width = *rec.Width
	}
	if rec.Fill != nil && kind != KindLine {
		style.Fill = *rec.Fill
	}
	if err := checkWidth(style.Width); err != nil {
		return nil, &FormatError{Index: -1, Type: rec.Type, Field: "width", Reason: "width must be a positive number"}
	}

	var names []string
	var values []*float64
	switch kind {
	case KindLine, KindRect:
		names = []string{"x1", "y1", "x2", "y2"}
		values = []*float64{rec.X1, rec.Y1, rec.X2, rec.Y2}
	case KindCircle:
		names = []string{"cx", "cy", "r"}
		values = []*float64{rec.CX, rec.CY, rec.R}
	}

	fields := make([]float64, len(values))
	for i, v := range values {
		if v == nil {
			return nil, &FormatError{Index: -1, Type: rec.Type, Field: names[i], Reason: "missing field"}
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return nil, &FormatError{Index: -1, Type: rec.Type, Field: names[i], Reason: "not a finite number"}
		}
		fields[i] = *v
	}
	if kind == KindCircle && fields[2] < 0 {
		return nil, &FormatError{Index: -1, Type: rec.Type, Field: "r", Reason: "radius must not be negative"}
	}

	return New(kind, fields, style)
}

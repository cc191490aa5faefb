package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/vectorpad/vectorpad/internal/shape"
)

// Params is the content of the parameter panel. Every field is raw user
// input.
type Params struct {
	Kind   string `json:"type"`
	Fields string `json:"fields"` // comma separated numbers
	Color  string `json:"color"`
	Width  string `json:"width"`
}

// ParseNumbers parses comma separated numbers. Empty items are skipped.
func ParseNumbers(csv string) ([]float64, error) {
	var nums []float64
	for _, item := range strings.Split(csv, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		f, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, &shape.ValidationError{Field: "fields", Reason: "not a number: " + strconv.Quote(item)}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, &shape.ValidationError{Field: "fields", Reason: "numbers must be finite"}
		}
		nums = append(nums, f)
	}
	return nums, nil
}

func parseWidth(s string) (float64, error) {
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &shape.ValidationError{Field: "width", Reason: "not a number: " + strconv.Quote(s)}
	}
	return w, nil
}

// geometry takes the first FieldCount numbers; extra numbers are ignored.
func geometry(kind shape.Kind, nums []float64) ([]float64, error) {
	n := kind.FieldCount()
	if len(nums) < n {
		return nil, &shape.ValidationError{
			Field:  "fields",
			Reason: "a " + string(kind) + " needs " + strconv.Itoa(n) + " numbers, got " + strconv.Itoa(len(nums)),
		}
	}
	return nums[:n], nil
}

// CreateFromParams builds a shape from the panel and appends it to the
// document. An empty color falls back to black and an empty width to 2.
func (e *Engine) CreateFromParams(p Params) (shape.Shape, error) {
	kind, err := shape.ParseKind(strings.TrimSpace(p.Kind))
	if err != nil {
		return nil, err
	}
	nums, err := ParseNumbers(p.Fields)
	if err != nil {
		return nil, err
	}
	fields, err := geometry(kind, nums)
	if err != nil {
		return nil, err
	}

	style := shape.DefaultStyle()
	if c := strings.TrimSpace(p.Color); c != "" {
		style.Color = c
	}
	if strings.TrimSpace(p.Width) != "" {
		if style.Width, err = parseWidth(p.Width); err != nil {
			return nil, err
		}
	}

	s, err := shape.New(kind, fields, style)
	if err != nil {
		return nil, err
	}
	e.doc.Append(s)
	e.modified = true
	return s, nil
}

// ApplyParams edits the selected shape. Empty inputs keep the current value;
// the panel type is ignored since a shape never changes kind. Nothing is
// changed unless every input is valid.
func (e *Engine) ApplyParams(p Params) error {
	sel := e.doc.Selected()
	if sel == nil {
		return ErrNoSelection
	}

	nums, err := ParseNumbers(p.Fields)
	if err != nil {
		return err
	}
	fields := sel.Fields()
	if len(nums) > 0 {
		if fields, err = geometry(sel.Kind(), nums); err != nil {
			return err
		}
	}

	style := shape.Style{Color: sel.Color(), Width: sel.Width()}
	if f, ok := sel.(shape.Filler); ok {
		style.Fill = f.Fill()
	}
	if c := strings.TrimSpace(p.Color); c != "" {
		style.Color = c
	}
	if strings.TrimSpace(p.Width) != "" {
		if style.Width, err = parseWidth(p.Width); err != nil {
			return err
		}
	}

	// Validate the whole edit before touching the selection.
	if _, err := shape.New(sel.Kind(), fields, style); err != nil {
		return err
	}
	if err := sel.SetFields(fields); err != nil {
		return err
	}
	if err := sel.SetStyle(style.Color, style.Width); err != nil {
		return err
	}
	e.modified = true
	return nil
}

// SelectionParams returns the panel content describing the selected shape.
func (e *Engine) SelectionParams() (Params, bool) {
	sel := e.doc.Selected()
	if sel == nil {
		return Params{}, false
	}
	fields := sel.Fields()
	items := make([]string, len(fields))
	for i, f := range fields {
		items[i] = formatNumber(f)
	}
	return Params{
		Kind:   string(sel.Kind()),
		Fields: strings.Join(items, ","),
		Color:  sel.Color(),
		Width:  formatNumber(sel.Width()),
	}, true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Package document holds the ordered shapes of a drawing and its selection.
package document

import (
	"github.com/vectorpad/vectorpad/internal/shape"
)

// Document is an insertion-ordered list of shapes plus at most one selected
// shape. Later shapes are painted on top of earlier ones.
type Document struct {
	shapes   []shape.Shape
	selected shape.Shape
}

// New creates an empty document.
func New() *Document {
	return &Document{}
}

// Append adds s on top of the existing shapes.
func (d *Document) Append(s shape.Shape) {
	d.shapes = append(d.shapes, s)
}

// Remove deletes s from the document. It reports false when s is not part of
// the document. Removing the selected shape clears the selection.
func (d *Document) Remove(s shape.Shape) bool {
	for i, existing := range d.shapes {
		if existing != s {
			continue
		}
		if d.selected == s {
			d.ClearSelection()
		}
		d.shapes = append(d.shapes[:i], d.shapes[i+1:]...)
		return true
	}
	return false
}

// Clear removes every shape and the selection.
func (d *Document) Clear() {
	d.ClearSelection()
	d.shapes = nil
}

// All returns the shapes in insertion order. The slice is a copy.
func (d *Document) All() []shape.Shape {
	out := make([]shape.Shape, len(d.shapes))
	copy(out, d.shapes)
	return out
}

func (d *Document) Len() int {
	return len(d.shapes)
}

// HitTest returns the topmost shape containing (x, y), or nil.
func (d *Document) HitTest(x, y float64) shape.Shape {
	// Traverse in reverse order (front to back) to get topmost hit
	for i := len(d.shapes) - 1; i >= 0; i-- {
		if d.shapes[i].ContainsPoint(x, y) {
			return d.shapes[i]
		}
	}
	return nil
}

// Select makes s the selection. Passing nil clears it.
func (d *Document) Select(s shape.Shape) {
	if d.selected != nil && d.selected != s {
		d.selected.SetSelected(false)
	}
	d.selected = s
	if s != nil {
		s.SetSelected(true)
	}
}

// Selected returns the selected shape, or nil.
func (d *Document) Selected() shape.Shape {
	return d.selected
}

func (d *Document) ClearSelection() {
	if d.selected != nil {
		d.selected.SetSelected(false)
	}
	d.selected = nil
}

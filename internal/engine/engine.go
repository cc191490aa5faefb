// Package engine turns pointer gestures and parameter-panel input into edits
// of a drawing.
package engine

import (
	"errors"
	"io"
	"log/slog"
	"math"

	"github.com/vectorpad/vectorpad/internal/document"
	"github.com/vectorpad/vectorpad/internal/render"
	"github.com/vectorpad/vectorpad/internal/shape"
)

// ErrNoSelection is returned by operations that need a selected shape.
var ErrNoSelection = errors.New("no shape selected")

var (
	previewPen   = render.Pen{Color: "gray", Width: 1, Dash: []float64{4, 2}}
	selectionPen = render.Pen{Color: "blue", Width: 1, Dash: []float64{2, 2}}
)

// Engine owns a document and the interaction state of one editing session.
// It is not safe for concurrent use.
type Engine struct {
	doc *document.Document

	// Interaction state
	mode     Mode
	dragging bool
	anchor   shape.Point
	handle   int // -1 when the drag moves the selection
	preview  shape.Shape

	// Unsaved changes since the last load or save
	modified bool

	// Reused by DrawCommands
	rec *render.Recorder
}

// NewEngine creates an engine in select mode with an empty document.
func NewEngine() *Engine {
	return &Engine{
		doc:    document.New(),
		handle: -1,
		rec:    render.NewRecorder(),
	}
}

// --- Commands (frontend → backend) ---

// SetMode switches the interaction mode and drops the selection and any
// gesture in progress.
func (e *Engine) SetMode(m Mode) {
	e.mode = m
	e.doc.ClearSelection()
	e.resetGesture()
}

func (e *Engine) resetGesture() {
	e.dragging = false
	e.handle = -1
	e.preview = nil
}

// PointerDown starts a gesture at (x, y).
func (e *Engine) PointerDown(x, y float64) {
	if !finite(x, y) {
		return
	}
	e.anchor = shape.Point{X: x, Y: y}
	e.dragging = true

	if e.mode.Drawing() {
		e.preview = newPreview(e.mode, x, y)
		return
	}

	e.handle = -1
	hit := e.doc.HitTest(x, y)
	if hit == nil {
		e.doc.ClearSelection()
		return
	}
	e.doc.Select(hit)
	e.handle = handleAt(hit, x, y)
}

// handleAt returns the index of the first handle within HandleSize of
// (x, y) on both axes, or -1.
func handleAt(s shape.Shape, x, y float64) int {
	for i, h := range s.Handles() {
		if math.Abs(h.X-x) <= shape.HandleSize && math.Abs(h.Y-y) <= shape.HandleSize {
			return i
		}
	}
	return -1
}

// finite reports whether a pointer position can enter the document. Events
// at NaN or infinite coordinates are dropped.
func finite(x, y float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && !math.IsNaN(y) && !math.IsInf(y, 0)
}

// PointerMove continues the current gesture.
func (e *Engine) PointerMove(x, y float64) {
	if !e.dragging || !finite(x, y) {
		return
	}

	if e.mode.Drawing() {
		if e.preview != nil {
			e.preview.Stretch(x, y)
		}
		return
	}

	sel := e.doc.Selected()
	if sel == nil {
		return
	}
	if e.handle >= 0 {
		sel.Resize(e.handle, x, y)
		e.modified = true
		return
	}
	dx, dy := x-e.anchor.X, y-e.anchor.Y
	if dx != 0 || dy != 0 {
		sel.Move(dx, dy)
		e.modified = true
	}
	e.anchor = shape.Point{X: x, Y: y}
}

// PointerUp ends the gesture. A draw gesture commits its preview, however
// small, to the document.
func (e *Engine) PointerUp(x, y float64) {
	if e.preview != nil {
		e.doc.Append(e.preview)
		e.modified = true
	}
	e.resetGesture()
}

// DoubleClick selects the shape under (x, y), if any, without changing mode.
func (e *Engine) DoubleClick(x, y float64) {
	if !finite(x, y) {
		return
	}
	if hit := e.doc.HitTest(x, y); hit != nil {
		e.doc.Select(hit)
	}
}

// DeleteSelected removes the selected shape. It reports whether a shape was
// removed.
func (e *Engine) DeleteSelected() bool {
	sel := e.doc.Selected()
	if sel == nil || !e.doc.Remove(sel) {
		return false
	}
	e.handle = -1
	e.modified = true
	return true
}

// Clear removes every shape.
func (e *Engine) Clear() {
	if e.doc.Len() > 0 {
		e.modified = true
	}
	e.doc.Clear()
	e.handle = -1
}

// Load replaces the document with the JSON drawing read from r. On error
// nothing changes.
func (e *Engine) Load(r io.Reader) error {
	if err := e.doc.Decode(r); err != nil {
		return err
	}
	e.loaded()
	return nil
}

// LoadRecords replaces the document with the given records. On error nothing
// changes.
func (e *Engine) LoadRecords(records []shape.Record) error {
	if err := e.doc.Import(records); err != nil {
		return err
	}
	e.loaded()
	return nil
}

// LoadSample replaces the document with the demo drawing.
func (e *Engine) LoadSample() {
	e.doc = document.NewSample()
	e.loaded()
	e.modified = true
}

func (e *Engine) loaded() {
	e.resetGesture()
	e.modified = false
}

// Save writes the document as JSON and marks it saved.
func (e *Engine) Save(w io.Writer) error {
	if err := e.doc.Encode(w); err != nil {
		return err
	}
	e.modified = false
	return nil
}

// MarkSaved records that the current content has been persisted elsewhere.
func (e *Engine) MarkSaved() {
	e.modified = false
}

// --- Queries (frontend ← backend) ---

// Render redraws everything: the shapes in order, the preview of the current
// draw gesture, and the outline of the selection.
func (e *Engine) Render(s render.Surface) {
	for _, sh := range e.doc.All() {
		sh.Render(s)
	}
	if e.preview != nil {
		e.preview.Outline(s, previewPen)
	}
	if sel := e.doc.Selected(); sel != nil {
		b := sel.BoundingBox()
		s.Rect(b.X1, b.Y1, b.X2, b.Y2, selectionPen, "")
	}
}

// DrawCommands renders into a recorder and returns the commands as JSON.
func (e *Engine) DrawCommands() string {
	e.rec.Reset()
	e.Render(e.rec)
	result, err := render.CommandsToJSON(e.rec.Commands())
	if err != nil {
		slog.Error("encode draw commands", "error", err)
	}
	return result
}

// Records returns the persisted form of the document.
func (e *Engine) Records() []shape.Record {
	return e.doc.Export()
}

// Document exposes the edited document.
func (e *Engine) Document() *document.Document {
	return e.doc
}

func (e *Engine) Mode() Mode {
	return e.mode
}

// Preview returns the shape being drawn, or nil.
func (e *Engine) Preview() shape.Shape {
	return e.preview
}

// Dragging reports whether a gesture is in progress.
func (e *Engine) Dragging() bool {
	return e.dragging
}

// Modified reports whether the document changed since it was last loaded or
// saved.
func (e *Engine) Modified() bool {
	return e.modified
}

// Status returns the status line shown under the canvas.
func (e *Engine) Status() string {
	return "Mode: " + e.mode.String()
}

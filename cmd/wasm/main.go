//go:build js && wasm

package main

import (
	"bytes"
	"math"
	"strings"
	"syscall/js"

	"github.com/vectorpad/vectorpad/internal/engine"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine()

	// Create the engine API object
	vectorpad := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	vectorpad.Set("setMode", js.FuncOf(setMode))
	vectorpad.Set("pointerDown", js.FuncOf(pointerDown))
	vectorpad.Set("pointerMove", js.FuncOf(pointerMove))
	vectorpad.Set("pointerUp", js.FuncOf(pointerUp))
	vectorpad.Set("doubleClick", js.FuncOf(doubleClick))
	vectorpad.Set("createFromParams", js.FuncOf(createFromParams))
	vectorpad.Set("applyParams", js.FuncOf(applyParams))
	vectorpad.Set("deleteSelected", js.FuncOf(deleteSelected))
	vectorpad.Set("clear", js.FuncOf(clearDocument))
	vectorpad.Set("loadDocument", js.FuncOf(loadDocument))
	vectorpad.Set("loadSample", js.FuncOf(loadSample))
	vectorpad.Set("markSaved", js.FuncOf(markSaved))

	// --- Queries (frontend ← backend) ---
	vectorpad.Set("render", js.FuncOf(render))
	vectorpad.Set("status", js.FuncOf(status))
	vectorpad.Set("getMode", js.FuncOf(getMode))
	vectorpad.Set("selectionParams", js.FuncOf(selectionParams))
	vectorpad.Set("saveDocument", js.FuncOf(saveDocument))
	vectorpad.Set("isModified", js.FuncOf(isModified))
	vectorpad.Set("isDragging", js.FuncOf(isDragging))

	// Register on global scope
	js.Global().Set("vectorpadEngine", vectorpad)

	// Signal that WASM is ready
	js.Global().Set("vectorpadWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(err error) interface{} {
	return js.ValueOf(map[string]interface{}{
		"error": err.Error(),
		"kind":  engine.ErrorKind(err),
	})
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

// point reads (x, y) from the first two arguments. Non-numeric or non-finite
// coordinates are rejected.
func point(args []js.Value) (float64, float64, bool) {
	if len(args) < 2 || args[0].Type() != js.TypeNumber || args[1].Type() != js.TypeNumber {
		return 0, 0, false
	}
	x, y := args[0].Float(), args[1].Float()
	if math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, 0, false
	}
	return x, y, true
}

// params reads a {type, fields, color, width} object.
func params(v js.Value) engine.Params {
	get := func(key string) string {
		f := v.Get(key)
		if f.IsUndefined() || f.IsNull() {
			return ""
		}
		return f.String()
	}
	return engine.Params{
		Kind:   get("type"),
		Fields: get("fields"),
		Color:  get("color"),
		Width:  get("width"),
	}
}

// --- Command Handlers ---

func setMode(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing mode", "kind": engine.KindValidation})
	}
	m, err := engine.ParseMode(args[0].String())
	if err != nil {
		return errorResult(err)
	}
	eng.SetMode(m)
	return ok()
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if x, y, found := point(args); found {
		eng.PointerDown(x, y)
	}
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if x, y, found := point(args); found {
		eng.PointerMove(x, y)
	}
	return nil
}

// pointerUp always ends the gesture; the release position is not used.
func pointerUp(this js.Value, args []js.Value) interface{} {
	x, y, _ := point(args)
	eng.PointerUp(x, y)
	return nil
}

func doubleClick(this js.Value, args []js.Value) interface{} {
	if x, y, found := point(args); found {
		eng.DoubleClick(x, y)
	}
	return nil
}

func createFromParams(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing parameters", "kind": engine.KindValidation})
	}
	if _, err := eng.CreateFromParams(params(args[0])); err != nil {
		return errorResult(err)
	}
	return ok()
}

func applyParams(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing parameters", "kind": engine.KindValidation})
	}
	if err := eng.ApplyParams(params(args[0])); err != nil {
		return errorResult(err)
	}
	return ok()
}

func deleteSelected(this js.Value, args []js.Value) interface{} {
	if !eng.DeleteSelected() {
		return errorResult(engine.ErrNoSelection)
	}
	return ok()
}

func clearDocument(this js.Value, args []js.Value) interface{} {
	eng.Clear()
	return nil
}

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(map[string]interface{}{"error": "missing document JSON", "kind": engine.KindFormat})
	}
	if err := eng.Load(strings.NewReader(args[0].String())); err != nil {
		return errorResult(err)
	}
	return ok()
}

func loadSample(this js.Value, args []js.Value) interface{} {
	eng.LoadSample()
	return nil
}

func markSaved(this js.Value, args []js.Value) interface{} {
	eng.MarkSaved()
	return nil
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.DrawCommands())
}

func status(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Status())
}

func getMode(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Mode().String())
}

func selectionParams(this js.Value, args []js.Value) interface{} {
	p, found := eng.SelectionParams()
	if !found {
		return js.Null()
	}
	return js.ValueOf(map[string]interface{}{
		"type":   p.Kind,
		"fields": p.Fields,
		"color":  p.Color,
		"width":  p.Width,
	})
}

// saveDocument returns the document as JSON and marks it saved.
func saveDocument(this js.Value, args []js.Value) interface{} {
	var buf bytes.Buffer
	if err := eng.Save(&buf); err != nil {
		return errorResult(err)
	}
	return js.ValueOf(buf.String())
}

func isModified(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Modified())
}

func isDragging(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Dragging())
}
